package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
)

// TaskResult is the task projection returned by the API
type TaskResult struct {
	ID           string   `json:"id"`
	WorkspaceID  string   `json:"workspaceId,omitempty"`
	Filename     string   `json:"filename"`
	FileSize     int64    `json:"fileSize"`
	Status       string   `json:"status"`
	Progress     int      `json:"progress"`
	Logs         []string `json:"logs"`
	StartTime    *string  `json:"startTime"`
	MeetingID    *string  `json:"meetingId"`
	JobID        string   `json:"jobId,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
	CreatedAt    string   `json:"createdAt"`
}

func toTaskResult(t *model.ProcessingTask) *TaskResult {
	res := &TaskResult{ID: t.ID, WorkspaceID: t.WorkspaceID, Filename: t.Filename, FileSize: t.FileSize,
		Status: string(t.Status), Progress: t.Progress, Logs: t.Logs,
		MeetingID: t.MeetingID, JobID: t.JobID, ErrorMessage: t.ErrorMessage,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339)}
	if res.Logs == nil {
		res.Logs = []string{}
	}
	if t.StartTime != nil {
		st := t.StartTime.UTC().Format(time.RFC3339)
		res.StartTime = &st
	}
	return res
}

type taskListHandler struct {
	data *ServiceData
}

func (h taskListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.data.Tasks.List(workspaceID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	res := make([]*TaskResult, 0, len(tasks))
	for i := range tasks {
		res = append(res, toTaskResult(&tasks[i]))
	}
	encodeResponse(w, res)
}

type taskHandler struct {
	data *ServiceData
}

func (h taskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	task, err := h.data.Tasks.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	encodeResponse(w, toTaskResult(task))
}

// FinalizeRequest carries user edits applied to the meeting on confirm
type FinalizeRequest struct {
	Title    string   `json:"title"`
	Template string   `json:"template"`
	Tags     []string `json:"tags"`
}

type finalizeHandler struct {
	data *ServiceData
}

// ServeHTTP confirms a reviewed task. The gate accepts a task waiting for
// review, one already finalized at full progress (idempotent re-finalize)
// and one still marked processing but at full progress - summarization may
// still be chasing. Everything else is a conflict.
func (h finalizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	task, err := h.data.Tasks.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	var input FinalizeRequest
	if r.Body != nil {
		// body is optional, a bare confirm keeps the meeting as is
		_ = json.NewDecoder(r.Body).Decode(&input)
	}

	accepted := task.Status == model.TaskReviewReady ||
		(task.Status == model.TaskCompleted && task.Progress == 100) ||
		(task.Status == model.TaskProcessing && task.Progress == 100)
	if !accepted {
		msg := fmt.Sprintf("Task can not be finalized, status: %s, progress: %d", task.Status, task.Progress)
		http.Error(w, msg, http.StatusConflict)
		cmdapp.Log.Warn(msg)
		return
	}

	if task.Status != model.TaskCompleted {
		if err := task.SetStatus(model.TaskCompleted); err != nil {
			respondError(w, err)
			return
		}
	}

	if err := h.finalizeMeeting(task, &input); err != nil {
		respondError(w, err)
		return
	}
	if err := h.data.Tasks.Save(task); err != nil {
		respondError(w, err)
		return
	}
	encodeResponse(w, toTaskResult(task))
}

// finalizeMeeting applies the user's edits and confirms the meeting,
// creating one if the task never got a meeting row. A summarization run
// that still owns the meeting keeps its status.
func (h finalizeHandler) finalizeMeeting(task *model.ProcessingTask, input *FinalizeRequest) error {
	var m *model.Meeting
	if task.MeetingID != nil {
		var err error
		m, err = h.data.Meetings.Get(*task.MeetingID)
		if err != nil {
			var nfErr *errs.NotFoundError
			if !errors.As(err, &nfErr) {
				return err
			}
		}
	}
	if m == nil {
		m = &model.Meeting{Title: task.Filename, Status: model.MeetingUploaded}
		if task.WorkspaceID != "" {
			ws := task.WorkspaceID
			m.WorkspaceID = &ws
		}
		if err := h.data.Meetings.Create(m); err != nil {
			return err
		}
		task.MeetingID = &m.ID
	}

	if input.Title != "" {
		m.Title = input.Title
	}
	if input.Template != "" {
		m.Template = input.Template
	}
	if input.Tags != nil {
		m.Tags = input.Tags
	}
	if m.Status != model.MeetingSummarizing && m.Status != model.MeetingCompleted {
		if err := m.SetStatus(model.MeetingCompleted); err != nil {
			return err
		}
		m.StatusReason = ""
	}
	return h.data.Meetings.Save(m)
}
