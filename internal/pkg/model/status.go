package model

import (
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
)

// MeetingStatus represents the processing lifecycle of a meeting upload
type MeetingStatus string

const (
	// MeetingUploaded - audio stored, nothing processed yet
	MeetingUploaded MeetingStatus = "uploaded"
	// MeetingTranscribing - transcription stage running
	MeetingTranscribing MeetingStatus = "transcribing"
	// MeetingSummarizing - transcript ready, summary stage pending or running
	MeetingSummarizing MeetingStatus = "summarizing"
	// MeetingCompleted - user-confirmed final state
	MeetingCompleted MeetingStatus = "completed"
	// MeetingFailed - a pipeline stage failed, see StatusReason
	MeetingFailed MeetingStatus = "failed"
	// MeetingScheduled - placeholder state, not used by the pipeline
	MeetingScheduled MeetingStatus = "scheduled"
)

// TaskStatus represents the state of a processing task
type TaskStatus string

const (
	// TaskQueued - created at upload, waiting for a worker
	TaskQueued TaskStatus = "queued"
	// TaskProcessing - a worker owns the task
	TaskProcessing TaskStatus = "processing"
	// TaskReviewReady - stage done, waiting for user review/finalize
	TaskReviewReady TaskStatus = "review_ready"
	// TaskCompleted - finalized by the user
	TaskCompleted TaskStatus = "completed"
	// TaskFailed - terminal failure, see ErrorMessage
	TaskFailed TaskStatus = "failed"
)

// meetingTransitions is the single authoritative transition table for Meeting.
// Finalize may force COMPLETED from any non-summarizing state, so COMPLETED
// is reachable from everywhere except an active SUMMARIZING run keeps its
// state. A FAILED meeting goes back to a pipeline state when its job is
// re-enqueued by an operator.
var meetingTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingUploaded:     {MeetingTranscribing, MeetingCompleted, MeetingFailed},
	MeetingTranscribing: {MeetingSummarizing, MeetingCompleted, MeetingFailed},
	MeetingSummarizing:  {MeetingCompleted, MeetingFailed},
	MeetingScheduled:    {MeetingTranscribing, MeetingCompleted, MeetingFailed},
	MeetingFailed:       {MeetingTranscribing, MeetingSummarizing, MeetingCompleted},
	MeetingCompleted:    {},
}

// A FAILED task is restartable - re-enqueueing its job is the recovery path
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskQueued:      {TaskProcessing, TaskFailed},
	TaskProcessing:  {TaskReviewReady, TaskCompleted, TaskFailed},
	TaskReviewReady: {TaskProcessing, TaskCompleted, TaskFailed},
	TaskCompleted:   {},
	TaskFailed:      {TaskProcessing},
}

// CanTransition tests the meeting transition table. Same-state moves are no-ops.
func (s MeetingStatus) CanTransition(to MeetingStatus) bool {
	if s == to {
		return true
	}
	for _, a := range meetingTransitions[s] {
		if a == to {
			return true
		}
	}
	return false
}

// Transition returns the new status or a ValidationError for an illegal move
func (s MeetingStatus) Transition(to MeetingStatus) (MeetingStatus, error) {
	if !s.CanTransition(to) {
		return s, errs.NewValidation("illegal meeting status transition %s -> %s", s, to)
	}
	return to, nil
}

// CanTransition tests the task transition table. Same-state moves are no-ops.
func (s TaskStatus) CanTransition(to TaskStatus) bool {
	if s == to {
		return true
	}
	for _, a := range taskTransitions[s] {
		if a == to {
			return true
		}
	}
	return false
}

// Transition returns the new status or a ValidationError for an illegal move
func (s TaskStatus) Transition(to TaskStatus) (TaskStatus, error) {
	if !s.CanTransition(to) {
		return s, errs.NewValidation("illegal task status transition %s -> %s", s, to)
	}
	return to, nil
}

// ActionPriority of an action item
type ActionPriority string

const (
	PriorityLow    ActionPriority = "low"
	PriorityMedium ActionPriority = "medium"
	PriorityHigh   ActionPriority = "high"
)

// ParseActionPriority maps a vendor string to a priority, defaulting to medium
func ParseActionPriority(s string) ActionPriority {
	switch ActionPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return ActionPriority(s)
	}
	return PriorityMedium
}

// ActionState of an action item
type ActionState string

const (
	ActionPending    ActionState = "pending"
	ActionInProgress ActionState = "in_progress"
	ActionDone       ActionState = "done"
)
