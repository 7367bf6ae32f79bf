package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendAndHistory(t *testing.T) {
	log := NewTranscriptLog(20)

	log.Append("tenant-1", "q1", "a1")
	log.Append("tenant-1", "q2", "a2")

	history := log.History("tenant-1")
	require.Len(t, history, 2)
	assert.Equal(t, "q1", history[0].Question)
	assert.Equal(t, "a1", history[0].Answer)
	assert.Equal(t, "q2", history[1].Question)
}

func TestTranscript_CapEvictsOldest(t *testing.T) {
	log := NewTranscriptLog(20)

	for i := 1; i <= 25; i++ {
		log.Append("tenant-1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	history := log.History("tenant-1")
	require.Len(t, history, 20)
	assert.Equal(t, "q6", history[0].Question)
	assert.Equal(t, "q25", history[19].Question)
}

func TestTranscript_TenantsIsolated(t *testing.T) {
	log := NewTranscriptLog(20)

	log.Append("tenant-1", "q1", "a1")
	log.Append("tenant-2", "other", "answer")

	assert.Len(t, log.History("tenant-1"), 1)
	assert.Len(t, log.History("tenant-2"), 1)
	assert.Equal(t, "other", log.History("tenant-2")[0].Question)
}

func TestTranscript_Clear(t *testing.T) {
	log := NewTranscriptLog(20)

	log.Append("tenant-1", "q1", "a1")
	log.Clear("tenant-1")

	assert.Empty(t, log.History("tenant-1"))
}

func TestTranscript_HistoryReturnsCopy(t *testing.T) {
	log := NewTranscriptLog(20)
	log.Append("tenant-1", "q1", "a1")

	history := log.History("tenant-1")
	history[0].Question = "mutated"

	assert.Equal(t, "q1", log.History("tenant-1")[0].Question)
}

func TestTranscript_PruneIdle(t *testing.T) {
	log := NewTranscriptLog(20)
	log.Append("tenant-1", "q1", "a1")

	// Nothing is older than an hour yet.
	assert.Equal(t, 0, log.PruneIdle(time.Hour))
	assert.Len(t, log.History("tenant-1"), 1)

	// A negative idle window makes everything stale.
	assert.Equal(t, 1, log.PruneIdle(-time.Second))
	assert.Empty(t, log.History("tenant-1"))
}
