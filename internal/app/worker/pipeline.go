package worker

import (
	"context"

	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/meetscribe/meetscribe/internal/pkg/summary"
	"github.com/meetscribe/meetscribe/internal/pkg/transcript"
)

// Meetings is the meeting persistence used by pipeline stages
type Meetings interface {
	Get(id string) (*model.Meeting, error)
	Save(m *model.Meeting) error
}

// Transcripts persistence used by pipeline stages
type Transcripts interface {
	Upsert(t *model.Transcript) error
	GetByMeeting(meetingID string) (*model.Transcript, error)
}

// Summaries persistence used by the summarize stage
type Summaries interface {
	Upsert(s *model.Summary) error
}

// ActionItems persistence used by the summarize stage
type ActionItems interface {
	ReplaceForMeeting(meetingID string, items []model.ActionItem) error
}

// Tracker updates the task's operational record
type Tracker interface {
	Start(taskID string) error
	Progress(taskID string, progress int) error
	Log(taskID string, format string, args ...interface{}) error
	Fail(taskID string, msg string) error
	ReviewReady(taskID string) error
}

// Transcriber turns stored audio into a normalized transcript
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, language string) (*transcript.Normalized, error)
}

// Summarizer generates a structured summary from transcript text
type Summarizer interface {
	GenerateSummary(ctx context.Context, transcriptText, meetingTitle, template, language string) (*summary.Result, error)
	Model() string
}

// PathResolver maps a storage path to a readable local file path
type PathResolver interface {
	Resolve(storagePath string) string
}

// Stage is one step of the processing pipeline
type Stage interface {
	Name() string
	Run(ctx context.Context, msg *messages.QueueMessage) error
}

// Pipeline holds the ordered stages and dispatches queue messages to them.
// The order is the canonical processing sequence of an upload.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates the pipeline in processing order
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Find returns the stage for a queue message stage name
func (p *Pipeline) Find(name string) (Stage, error) {
	for _, s := range p.stages {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, errs.NewValidation("unknown pipeline stage '%s'", name)
}

// Next returns the stage after the named one, nil at the end
func (p *Pipeline) Next(name string) Stage {
	for i, s := range p.stages {
		if s.Name() == name && i+1 < len(p.stages) {
			return p.stages[i+1]
		}
	}
	return nil
}
