package worker

import (
	"context"

	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
)

// TranscribeStage runs ASR for a meeting and stores the normalized
// transcript. On success it chains the summarize stage onto the queue.
type TranscribeStage struct {
	meetings    Meetings
	transcripts Transcripts
	tracker     Tracker
	transcriber Transcriber
	resolver    PathResolver
	enqueuer    messages.Enqueuer
}

// NewTranscribeStage creates the stage
func NewTranscribeStage(meetings Meetings, transcripts Transcripts, tracker Tracker,
	transcriber Transcriber, resolver PathResolver, enqueuer messages.Enqueuer) *TranscribeStage {
	return &TranscribeStage{meetings: meetings, transcripts: transcripts, tracker: tracker,
		transcriber: transcriber, resolver: resolver, enqueuer: enqueuer}
}

// Name returns the stage name carried in queue messages
func (st *TranscribeStage) Name() string {
	return messages.StageTranscribe
}

// Run processes one transcription job
func (st *TranscribeStage) Run(ctx context.Context, msg *messages.QueueMessage) error {
	if err := st.tracker.Start(msg.TaskID); err != nil {
		return err
	}
	_ = st.tracker.Progress(msg.TaskID, 5)
	_ = st.tracker.Log(msg.TaskID, "Starting transcription")

	m, err := st.meetings.Get(msg.MeetingID)
	if err != nil {
		return err
	}
	if err := m.SetStatus(model.MeetingTranscribing); err != nil {
		return err
	}
	m.StatusReason = ""
	if err := st.meetings.Save(m); err != nil {
		return err
	}
	_ = st.tracker.Progress(msg.TaskID, 10)

	audioPath := st.resolver.Resolve(m.AudioPath)
	if audioPath == "" {
		return errs.NewNotFound("audio file for meeting " + m.ID)
	}
	_ = st.tracker.Progress(msg.TaskID, 15)
	_ = st.tracker.Log(msg.TaskID, "Sending audio to transcription vendor")

	norm, err := st.transcriber.Transcribe(ctx, audioPath, m.LanguageCode)
	if err != nil {
		return err
	}
	_ = st.tracker.Progress(msg.TaskID, 90)
	_ = st.tracker.Log(msg.TaskID, "Transcription done, %d segments", len(norm.Segments))

	err = st.transcripts.Upsert(&model.Transcript{MeetingID: m.ID, LanguageCode: m.LanguageCode,
		DurationSeconds: norm.DurationSeconds, Content: norm.Content, Segments: norm.Segments,
		RawResponse: norm.RawResponse})
	if err != nil {
		return err
	}
	if norm.DurationSeconds != nil {
		m.AudioDurationSeconds = norm.DurationSeconds
	}
	if err := m.SetStatus(model.MeetingSummarizing); err != nil {
		return err
	}
	if err := st.meetings.Save(m); err != nil {
		return err
	}
	if err := st.tracker.ReviewReady(msg.TaskID); err != nil {
		return err
	}

	// chaining failure is not a stage failure - the transcript is stored
	// and summarization can be re-enqueued by hand
	jobID, err := st.enqueuer.Enqueue(messages.NewQueueMessage(messages.StageSummarize, m.ID, msg.TaskID),
		messages.Default, messages.DefaultJobOpts())
	if err != nil {
		cmdapp.Log.Error("Can't enqueue summarize job: ", err)
		_ = st.tracker.Log(msg.TaskID, "Summarization enqueue failed: %s", err.Error())
		return nil
	}
	_ = st.tracker.Log(msg.TaskID, "Summarization queued, job %s", jobID)
	return nil
}
