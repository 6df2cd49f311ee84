package messages

// Stage names carried inside queue messages
const (
	// StageTranscribe runs the ASR stage for a meeting
	StageTranscribe = "Transcribe"
	// StageSummarize runs the LLM summary stage for a meeting
	StageSummarize = "Summarize"
)

// QueueMessage is the unit of work going through the broker
type QueueMessage struct {
	Stage     string `json:"stage"`
	MeetingID string `json:"meetingId"`
	TaskID    string `json:"taskId"`
}

// NewQueueMessage creates a message for a pipeline stage
func NewQueueMessage(stage, meetingID, taskID string) *QueueMessage {
	return &QueueMessage{Stage: stage, MeetingID: meetingID, TaskID: taskID}
}
