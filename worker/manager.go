package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Worker is a long-running job driven by a context.
type Worker interface {
	Start(ctx context.Context) error
}

// Manager starts a set of workers and waits for the context to end.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start runs every worker in its own goroutine, logs any worker failure as
// it happens, and after shutdown reports the first error observed.
func (m *Manager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				slog.Error("worker exited with error", "err", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(w)
	}
	<-ctx.Done()
	wg.Wait()
	return firstErr
}
