package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Scheduler enqueues deferred expiry tasks. It satisfies the rental
// service's expiry scheduler contract.
type Scheduler struct {
	Client *asynq.Client
}

// ScheduleExpiry enqueues a license:expire task that runs at the given time.
// A task already scheduled for the same license is left in place.
func (s *Scheduler) ScheduleExpiry(ctx context.Context, licenseID string, at time.Time) error {
	if s == nil || s.Client == nil {
		return errors.New("queue: scheduler not configured")
	}
	task, opts, err := NewLicenseExpireTask(licenseID, at)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("queue: enqueue expire task: %w", err)
	}
	return nil
}
