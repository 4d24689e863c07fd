package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type stubExpirer struct {
	expired []string
	swept   int32
	err     error
}

func (s *stubExpirer) Expire(_ context.Context, licenseID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.expired = append(s.expired, licenseID)
	return true, nil
}

func (s *stubExpirer) SweepExpired(_ context.Context, limit int32) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.swept = limit
	return 3, nil
}

func TestHandleLicenseExpire(t *testing.T) {
	exp := &stubExpirer{}
	w := &Worker{Rentals: exp, Logger: zerolog.Nop()}

	task, _, err := NewLicenseExpireTask("lic-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := w.HandleLicenseExpire(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(exp.expired) != 1 || exp.expired[0] != "lic-1" {
		t.Fatalf("expected lic-1 expired, got %v", exp.expired)
	}
}

func TestHandleLicenseExpireBadPayload(t *testing.T) {
	w := &Worker{Rentals: &stubExpirer{}, Logger: zerolog.Nop()}
	task := asynq.NewTask(TypeLicenseExpire, []byte("{"))
	err := w.HandleLicenseExpire(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}
}

func TestHandleLicenseExpirePropagatesError(t *testing.T) {
	boom := errors.New("db down")
	w := &Worker{Rentals: &stubExpirer{err: boom}, Logger: zerolog.Nop()}
	task, _, _ := NewLicenseExpireTask("lic-2", time.Now())
	if err := w.HandleLicenseExpire(context.Background(), task); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestHandleLicenseSweepUsesDefaultBatch(t *testing.T) {
	exp := &stubExpirer{}
	w := &Worker{Rentals: exp, Logger: zerolog.Nop()}
	if err := w.HandleLicenseSweep(context.Background(), NewLicenseSweepTask()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if exp.swept != DefaultSweepBatch {
		t.Fatalf("expected default batch %d, got %d", DefaultSweepBatch, exp.swept)
	}
}

type stubLock struct {
	key  string
	held bool
}

func (s *stubLock) WithLock(ctx context.Context, key string, _ time.Duration, fn func(context.Context) error) error {
	s.key = key
	s.held = true
	return fn(ctx)
}

func TestHandleLicenseSweepHoldsLock(t *testing.T) {
	exp := &stubExpirer{}
	lk := &stubLock{}
	w := &Worker{Rentals: exp, Logger: zerolog.Nop(), Lock: lk}
	if err := w.HandleLicenseSweep(context.Background(), NewLicenseSweepTask()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !lk.held {
		t.Fatal("expected sweep to run under the lock")
	}
	if lk.key != "lock:license:sweep" {
		t.Fatalf("unexpected lock key %s", lk.key)
	}
	if exp.swept != DefaultSweepBatch {
		t.Fatalf("expected sweep to execute, got batch %d", exp.swept)
	}
}

func TestNewLicenseExpireTaskPayload(t *testing.T) {
	task, opts, err := NewLicenseExpireTask("lic-9", time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if task.Type() != TypeLicenseExpire {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	if len(opts) == 0 {
		t.Fatalf("expected scheduling options")
	}
	var payload LicenseExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.LicenseID != "lic-9" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
