package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task types handled by the worker.
const (
	TypeLicenseExpire = "license:expire"
	TypeLicenseSweep  = "license:sweep"
)

// LicenseExpirePayload carries the license to expire.
type LicenseExpirePayload struct {
	LicenseID string `json:"licenseId"`
}

// NewLicenseExpireTask builds a task that fires at the license end date.
// The task id is the license id so re-issuing schedules stay deduplicated.
func NewLicenseExpireTask(licenseID string, at time.Time) (*asynq.Task, []asynq.Option, error) {
	payload, err := json.Marshal(LicenseExpirePayload{LicenseID: licenseID})
	if err != nil {
		return nil, nil, fmt.Errorf("queue: marshal expire payload: %w", err)
	}
	opts := []asynq.Option{
		asynq.TaskID(TypeLicenseExpire + ":" + licenseID),
		asynq.ProcessAt(at),
		asynq.MaxRetry(5),
	}
	return asynq.NewTask(TypeLicenseExpire, payload), opts, nil
}

// NewLicenseSweepTask builds the periodic safety-net sweep task.
func NewLicenseSweepTask() *asynq.Task {
	return asynq.NewTask(TypeLicenseSweep, nil)
}
