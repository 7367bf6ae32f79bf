package service

import (
	"sync"
	"time"

	"github.com/javobly/javob/internal/domain"
)

// TranscriptLog holds each tenant's recent chat exchanges in a bounded
// ring buffer. It exists for transcript display only; answers are never
// grounded in it. Entries live in memory and are dropped on restart.
type TranscriptLog struct {
	mu       sync.Mutex
	cap      int
	sessions map[string]*transcriptSession
}

type transcriptSession struct {
	exchanges []domain.ChatExchange
	touchedAt time.Time
}

// NewTranscriptLog creates a TranscriptLog keeping at most cap exchanges per
// tenant, oldest evicted first.
func NewTranscriptLog(cap int) *TranscriptLog {
	if cap <= 0 {
		cap = 20
	}
	return &TranscriptLog{
		cap:      cap,
		sessions: make(map[string]*transcriptSession),
	}
}

// Append records one exchange, evicting the oldest when the cap is reached.
func (t *TranscriptLog) Append(tenantID, question, answer string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[tenantID]
	if !ok {
		session = &transcriptSession{}
		t.sessions[tenantID] = session
	}

	session.exchanges = append(session.exchanges, domain.ChatExchange{
		Question: question,
		Answer:   answer,
		At:       time.Now().UTC(),
	})
	if len(session.exchanges) > t.cap {
		session.exchanges = session.exchanges[len(session.exchanges)-t.cap:]
	}
	session.touchedAt = time.Now().UTC()
}

// History returns a copy of the tenant's transcript, oldest first.
func (t *TranscriptLog) History(tenantID string) []domain.ChatExchange {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[tenantID]
	if !ok {
		return nil
	}

	out := make([]domain.ChatExchange, len(session.exchanges))
	copy(out, session.exchanges)
	return out
}

// Clear drops the tenant's transcript.
func (t *TranscriptLog) Clear(tenantID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, tenantID)
}

// PruneIdle drops transcripts untouched for longer than maxIdle and returns
// how many were removed.
func (t *TranscriptLog) PruneIdle(maxIdle time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxIdle)
	pruned := 0
	for tenantID, session := range t.sessions {
		if session.touchedAt.Before(cutoff) {
			delete(t.sessions, tenantID)
			pruned++
		}
	}
	return pruned
}
