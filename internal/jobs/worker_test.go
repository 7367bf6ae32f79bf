package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTask is a mock implementation of Task
type MockTask struct {
	mock.Mock
}

func (m *MockTask) Run(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTranscriptStore is a mock implementation of TranscriptStore
type MockTranscriptStore struct {
	mock.Mock
}

func (m *MockTranscriptStore) PruneIdle(maxIdle time.Duration) int {
	args := m.Called(maxIdle)
	return args.Int(0)
}

// TestWorker_StartStop tests the worker start and stop functionality
func TestWorker_StartStop(t *testing.T) {
	mockTask := new(MockTask)
	mockTask.On("Run", mock.Anything).Return(nil)

	worker := NewWorker(mockTask, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	// Let it run for a bit
	time.Sleep(250 * time.Millisecond)

	worker.Stop()
	wg.Wait()

	mockTask.AssertCalled(t, "Run", mock.Anything)
}

// TestWorker_ContextCancellation tests worker stops on context cancellation
func TestWorker_ContextCancellation(t *testing.T) {
	mockTask := new(MockTask)
	mockTask.On("Run", mock.Anything).Return(nil)

	worker := NewWorker(mockTask, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(150 * time.Millisecond)

	cancel()
	wg.Wait()

	mockTask.AssertCalled(t, "Run", mock.Anything)
}

func TestTranscriptPruner_PrunesIdleSessions(t *testing.T) {
	mockStore := new(MockTranscriptStore)
	mockStore.On("PruneIdle", 24*time.Hour).Return(3)

	pruner := NewTranscriptPruner(mockStore, 24*time.Hour)
	err := pruner.Run(context.Background())

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestTranscriptPruner_NothingToPrune(t *testing.T) {
	mockStore := new(MockTranscriptStore)
	mockStore.On("PruneIdle", time.Hour).Return(0)

	pruner := NewTranscriptPruner(mockStore, time.Hour)
	err := pruner.Run(context.Background())

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}
