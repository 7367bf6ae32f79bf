package jobs

import (
	"context"
	"log"
	"time"
)

// TranscriptStore is the part of the transcript log the pruner needs.
type TranscriptStore interface {
	PruneIdle(maxIdle time.Duration) int
}

// TranscriptPruner drops in-memory chat sessions that have been idle for
// longer than maxIdle, so abandoned web sessions do not accumulate forever.
type TranscriptPruner struct {
	store   TranscriptStore
	maxIdle time.Duration
}

func NewTranscriptPruner(store TranscriptStore, maxIdle time.Duration) *TranscriptPruner {
	return &TranscriptPruner{store: store, maxIdle: maxIdle}
}

func (p *TranscriptPruner) Run(ctx context.Context) error {
	if pruned := p.store.PruneIdle(p.maxIdle); pruned > 0 {
		log.Printf("pruned %d idle chat sessions", pruned)
	}
	return nil
}
