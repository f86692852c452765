// Package run manages pipeline run lifecycle and step checkpointing.
//
// The original tracked interruption via SIGINT/SIGTERM handlers that paused
// the run and recorded "User interruption" as the pause reason. Go's
// idiomatic equivalent is cooperative cancellation: callers pass a
// context.Context through StepFunc and honor ctx.Done() between steps, so a
// caller wiring signal.NotifyContext gets the same graceful-pause behavior
// without a package-level signal handler.
package run

import (
	"context"
	"errors"
	"fmt"

	"newsdesk/internal/core"
)

// Store is the persistence surface the run manager needs.
type Store interface {
	CreateRun(runID, topic string) error
	StartStep(runID string, step core.StepName) error
	CompleteStep(runID string, step core.StepName, status, errMsg string) error
	FinishRun(runID, status string) error
	ResumePoint(runID string) (core.StepName, bool, error)
}

// StepFunc executes one pipeline step.
type StepFunc func(ctx context.Context) error

// Manager drives a pipeline run through its canonical steps, checkpointing
// progress after each one so an interrupted or failed run can resume from
// where it left off.
type Manager struct {
	Store Store
}

func NewManager(store Store) *Manager {
	return &Manager{Store: store}
}

// Start begins a new run for topic and seeds all canonical checkpoints.
func (m *Manager) Start(runID, topic string) error {
	return m.Store.CreateRun(runID, topic)
}

// RunStep executes fn as the named step, checkpointing start/completion
// around it. If ctx is already canceled, the step is marked paused (not
// failed) with the cancellation reason and never starts, leaving a clean
// checkpoint for a later resume.
func (m *Manager) RunStep(ctx context.Context, runID string, step core.StepName, fn StepFunc) error {
	if err := ctx.Err(); err != nil {
		_ = m.Store.CompleteStep(runID, step, "paused", err.Error())
		return err
	}
	if err := m.Store.StartStep(runID, step); err != nil {
		return err
	}

	err := fn(ctx)

	status, errMsg := "completed", ""
	if err != nil {
		errMsg = err.Error()
		status = "failed"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = "paused"
		}
	}
	if cpErr := m.Store.CompleteStep(runID, step, status, errMsg); cpErr != nil {
		return fmt.Errorf("step %s failed (%v) and checkpoint update also failed: %w", step, err, cpErr)
	}
	return err
}

// Finish marks the run completed, failed, or paused depending on err: a
// context-cancellation error pauses the run rather than failing it, so
// ResumePoint picks it back up mid-pipeline on a later invocation.
func (m *Manager) Finish(runID string, err error) error {
	status := "completed"
	if err != nil {
		status = "failed"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = "paused"
		}
	}
	return m.Store.FinishRun(runID, status)
}

// ResumePoint reports the next incomplete step for runID, or ok=false if the
// run already finished every step.
func (m *Manager) ResumePoint(runID string) (core.StepName, bool, error) {
	return m.Store.ResumePoint(runID)
}
