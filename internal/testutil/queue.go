package testutil

import (
	"context"
	"sync"

	"github.com/jhoicas/Vallas-api/internal/application/notification"
)

// EmailQueue cola de correos que solo registra los trabajos publicados.
type EmailQueue struct {
	mu   sync.Mutex
	Jobs []notification.EmailJob
	Err  error
}

// Enqueue implementa notification.EmailQueue.
func (q *EmailQueue) Enqueue(_ context.Context, job notification.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Jobs = append(q.Jobs, job)
	return nil
}

// Count trabajos publicados.
func (q *EmailQueue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.Jobs)
}
