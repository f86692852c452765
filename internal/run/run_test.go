package run

import (
	"context"
	"errors"
	"testing"

	"newsdesk/internal/core"
)

type fakeRunStore struct {
	created        bool
	started        []core.StepName
	completed      map[core.StepName]string
	completedState map[core.StepName]string
	finalStatus    string
	resumeStep     core.StepName
	resumeOK       bool
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{completed: map[core.StepName]string{}, completedState: map[core.StepName]string{}}
}

func (f *fakeRunStore) CreateRun(runID, topic string) error {
	f.created = true
	return nil
}

func (f *fakeRunStore) StartStep(runID string, step core.StepName) error {
	f.started = append(f.started, step)
	return nil
}

func (f *fakeRunStore) CompleteStep(runID string, step core.StepName, status, errMsg string) error {
	f.completed[step] = errMsg
	f.completedState[step] = status
	return nil
}

func (f *fakeRunStore) FinishRun(runID, status string) error {
	f.finalStatus = status
	return nil
}

func (f *fakeRunStore) ResumePoint(runID string) (core.StepName, bool, error) {
	return f.resumeStep, f.resumeOK, nil
}

func TestRunStepCheckspointsSuccessAndFailure(t *testing.T) {
	store := newFakeRunStore()
	m := NewManager(store)

	if err := m.Start("run1", "swiss-franc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.created {
		t.Fatalf("expected CreateRun to be called")
	}

	if err := m.RunStep(context.Background(), "run1", core.StepCollection, func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.completed[core.StepCollection] != "" {
		t.Fatalf("expected empty error message on success")
	}
	if store.completedState[core.StepCollection] != "completed" {
		t.Fatalf("expected completed status, got %q", store.completedState[core.StepCollection])
	}

	stepErr := errors.New("boom")
	if err := m.RunStep(context.Background(), "run1", core.StepFiltering, func(ctx context.Context) error {
		return stepErr
	}); !errors.Is(err, stepErr) {
		t.Fatalf("expected RunStep to propagate the step error, got %v", err)
	}
	if store.completed[core.StepFiltering] != "boom" {
		t.Fatalf("expected the failure message to be checkpointed, got %q", store.completed[core.StepFiltering])
	}
	if store.completedState[core.StepFiltering] != "failed" {
		t.Fatalf("expected failed status, got %q", store.completedState[core.StepFiltering])
	}
}

func TestRunStepHonorsCanceledContext(t *testing.T) {
	store := newFakeRunStore()
	m := NewManager(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := m.RunStep(ctx, "run1", core.StepScraping, func(ctx context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatalf("expected canceled context to short-circuit the step")
	}
	if called {
		t.Fatalf("expected the step function to never run once context was canceled")
	}
	if len(store.started) != 0 {
		t.Fatalf("expected no checkpoint started for a canceled context")
	}
	if store.completedState[core.StepScraping] != "paused" {
		t.Fatalf("expected the canceled context to be checkpointed as paused, got %q", store.completedState[core.StepScraping])
	}
	if store.completed[core.StepScraping] != context.Canceled.Error() {
		t.Fatalf("expected the cancellation reason to be recorded, got %q", store.completed[core.StepScraping])
	}
}

func TestFinishReflectsErrorStatus(t *testing.T) {
	store := newFakeRunStore()
	m := NewManager(store)

	if err := m.Finish("run1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.finalStatus != "completed" {
		t.Fatalf("expected completed status, got %s", store.finalStatus)
	}

	if err := m.Finish("run1", errors.New("failure")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.finalStatus != "failed" {
		t.Fatalf("expected failed status, got %s", store.finalStatus)
	}

	if err := m.Finish("run1", context.Canceled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.finalStatus != "paused" {
		t.Fatalf("expected paused status for a canceled run, got %s", store.finalStatus)
	}
}
