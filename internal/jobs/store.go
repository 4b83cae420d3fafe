package jobs

import (
	"context"
	"time"
)

// Store persists job records. Get returns (nil, nil) when the id does not
// exist; the manager translates that into a not-found error at its boundary.
type Store interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	List(ctx context.Context) ([]*Job, error)
	// DeleteOlderThan removes terminal jobs last updated before cutoff and
	// returns the removed records so the caller can clean up their files.
	// Pending and processing jobs are never removed; their pipelines still
	// write to the store.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]*Job, error)
	Close() error
}
