package service

import "github.com/javobly/javob/internal/domain"

// Composer bounds the context handed to the response generator so provider
// token usage stays predictable.
type Composer struct {
	maxChars int
}

// NewComposer creates a Composer with the given character budget.
func NewComposer(maxChars int) *Composer {
	return &Composer{maxChars: maxChars}
}

// Compose builds the grounding context from the active artifact. Truncation
// keeps the prefix: the earliest content wins. A nil artifact composes to the
// empty context, which downstream treats as "no grounding available".
func (c *Composer) Compose(artifact *domain.Artifact) string {
	if artifact == nil {
		return ""
	}

	runes := []rune(artifact.Content)
	if c.maxChars > 0 && len(runes) > c.maxChars {
		return string(runes[:c.maxChars])
	}
	return artifact.Content
}
