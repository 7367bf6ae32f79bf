package domain

import "time"

// ChatExchange is one turn of a tenant's chat transcript. Exchanges are held
// in a bounded in-memory log for display only; they are never persisted and
// never fed back into answer grounding.
type ChatExchange struct {
	Question string
	Answer   string
	At       time.Time
}
