package tasks

import (
	"fmt"
	"time"

	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/meetscribe/meetscribe/internal/pkg/persistence"
)

// Tracker updates a task's operational record as pipeline stages run.
// Progress moves forward only and a failed task stops accepting updates.
type Tracker struct {
	store *persistence.TaskStore
}

// NewTracker creates the tracker
func NewTracker(store *persistence.TaskStore) *Tracker {
	return &Tracker{store: store}
}

// Start marks the task as owned by a worker and stamps the start time.
// A dequeue is the one sanctioned backward move for progress - the counter
// restarts at zero and an earlier failure message is cleared.
func (tr *Tracker) Start(taskID string) error {
	t, err := tr.store.Get(taskID)
	if err != nil {
		return err
	}
	if err := t.SetStatus(model.TaskProcessing); err != nil {
		return err
	}
	t.Progress = 0
	t.ErrorMessage = ""
	if t.StartTime == nil {
		now := time.Now().UTC()
		t.StartTime = &now
	}
	return tr.store.Save(t)
}

// Progress advances the progress percentage. A value below the current
// one is dropped, not an error - stages report milestones independently.
func (tr *Tracker) Progress(taskID string, progress int) error {
	t, err := tr.store.Get(taskID)
	if err != nil {
		return err
	}
	if t.Status == model.TaskFailed {
		cmdapp.Log.Warnf("Dropping progress %d for failed task %s", progress, taskID)
		return nil
	}
	if progress <= t.Progress {
		return nil
	}
	t.Progress = progress
	return tr.store.Save(t)
}

// Log appends one timestamped line to the task's log. Lines are never
// rewritten or removed.
func (tr *Tracker) Log(taskID string, format string, args ...interface{}) error {
	t, err := tr.store.Get(taskID)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format("2006-01-02 15:04:05"),
		fmt.Sprintf(format, args...))
	t.Logs = append(t.Logs, line)
	return tr.store.Save(t)
}

// Fail marks the task failed with the error message kept for the user
func (tr *Tracker) Fail(taskID string, msg string) error {
	t, err := tr.store.Get(taskID)
	if err != nil {
		return err
	}
	if err := t.SetStatus(model.TaskFailed); err != nil {
		return err
	}
	t.ErrorMessage = msg
	return tr.store.Save(t)
}

// ReviewReady marks the stage output complete and waiting for user review
func (tr *Tracker) ReviewReady(taskID string) error {
	t, err := tr.store.Get(taskID)
	if err != nil {
		return err
	}
	if err := t.SetStatus(model.TaskReviewReady); err != nil {
		return err
	}
	if t.Progress < 100 {
		t.Progress = 100
	}
	return tr.store.Save(t)
}
