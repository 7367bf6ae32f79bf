package jobs

import (
	"context"
	"log"
	"time"
)

// Task is a unit of periodic maintenance work.
type Task interface {
	Run(ctx context.Context) error
}

// Worker runs a Task on a fixed interval until stopped.
type Worker struct {
	task     Task
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewWorker creates a worker that runs task every interval.
func NewWorker(task Task, interval time.Duration) *Worker {
	return &Worker{
		task:     task,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start runs the tick loop. It blocks until the context is cancelled or Stop
// is called, so callers normally run it in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("maintenance worker started (interval %v)", w.interval)

	for {
		select {
		case <-ctx.Done():
			log.Println("maintenance worker stopped: context cancelled")
			return
		case <-w.stopChan:
			log.Println("maintenance worker stopped")
			return
		case <-ticker.C:
			if err := w.task.Run(ctx); err != nil {
				log.Printf("maintenance task failed: %v", err)
			}
		}
	}
}

// Stop signals the worker to exit and waits for the loop to finish.
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
}
