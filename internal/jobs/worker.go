package jobs

import (
	"context"
	"log"
	"time"
)

// Refresher re-runs imports for sources that stay live after their
// initial import.
type Refresher interface {
	RefreshFeeds(ctx context.Context) error
}

// RefreshWorker periodically triggers feed refreshes in the background
type RefreshWorker struct {
	refresher    Refresher
	pollInterval time.Duration
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewRefreshWorker creates a new RefreshWorker instance
func NewRefreshWorker(refresher Refresher, pollInterval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		refresher:    refresher,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start begins the worker's polling loop
func (w *RefreshWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("Refresh worker started with poll interval: %v", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			log.Println("Refresh worker stopped: context cancelled")
			return
		case <-w.stopChan:
			log.Println("Refresh worker stopped: stop signal received")
			return
		case <-ticker.C:
			if err := w.refresher.RefreshFeeds(ctx); err != nil {
				log.Printf("Error refreshing feeds: %v", err)
			}
		}
	}
}

// Stop gracefully stops the worker
func (w *RefreshWorker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	log.Println("Refresh worker shutdown complete")
}
