package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// DefaultSweepBatch bounds how many stale licenses one sweep run closes.
const DefaultSweepBatch = 200

const sweepLockKey = "lock:license:sweep"

// Expirer is the slice of the rental service the worker drives.
type Expirer interface {
	Expire(ctx context.Context, licenseID string) (bool, error)
	SweepExpired(ctx context.Context, limit int32) (int, error)
}

// Locking matches lock.Locker and guards the sweep against concurrent runs.
type Locking interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Worker wires asynq task handlers to the rental expiry logic.
type Worker struct {
	Rentals    Expirer
	Logger     zerolog.Logger
	SweepBatch int32
	Lock       Locking
	LockTTL    time.Duration
}

// Register attaches the worker's handlers to the mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeLicenseExpire, w.HandleLicenseExpire)
	mux.HandleFunc(TypeLicenseSweep, w.HandleLicenseSweep)
}

// HandleLicenseExpire marks one license expired once its end date passes.
func (w *Worker) HandleLicenseExpire(ctx context.Context, t *asynq.Task) error {
	if w == nil || w.Rentals == nil {
		return fmt.Errorf("queue: rental service not configured")
	}
	var payload LicenseExpirePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("queue: decode expire payload: %w", asynq.SkipRetry)
	}
	expired, err := w.Rentals.Expire(ctx, payload.LicenseID)
	if err != nil {
		return fmt.Errorf("queue: expire license %s: %w", payload.LicenseID, err)
	}
	if expired {
		w.Logger.Info().Str("license_id", payload.LicenseID).Msg("license expired")
	}
	return nil
}

// HandleLicenseSweep closes any stale licenses the deferred tasks missed.
func (w *Worker) HandleLicenseSweep(ctx context.Context, _ *asynq.Task) error {
	if w == nil || w.Rentals == nil {
		return fmt.Errorf("queue: rental service not configured")
	}
	if w.Lock == nil {
		return w.sweep(ctx)
	}
	ttl := w.LockTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return w.Lock.WithLock(ctx, sweepLockKey, ttl, w.sweep)
}

func (w *Worker) sweep(ctx context.Context) error {
	batch := w.SweepBatch
	if batch <= 0 {
		batch = DefaultSweepBatch
	}
	n, err := w.Rentals.SweepExpired(ctx, batch)
	if err != nil {
		return fmt.Errorf("queue: sweep expired licenses: %w", err)
	}
	if n > 0 {
		w.Logger.Info().Int("count", n).Msg("expired licenses swept")
	}
	return nil
}
