package worker

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/meetscribe/meetscribe/internal/pkg/persistence"
	"github.com/meetscribe/meetscribe/internal/pkg/summary"
	"github.com/meetscribe/meetscribe/internal/pkg/tasks"
	"github.com/meetscribe/meetscribe/internal/pkg/transcript"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeTranscriber struct {
	res     *transcript.Normalized
	err     error
	gotPath string
	gotLang string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string, language string) (*transcript.Normalized, error) {
	f.gotPath = audioPath
	f.gotLang = language
	return f.res, f.err
}

type fakeSummarizer struct {
	res      *summary.Result
	err      error
	gotText  string
	gotTitle string
}

func (f *fakeSummarizer) GenerateSummary(ctx context.Context, transcriptText, meetingTitle, template, language string) (*summary.Result, error) {
	f.gotText = transcriptText
	f.gotTitle = meetingTitle
	return f.res, f.err
}

func (f *fakeSummarizer) Model() string {
	return "test-model"
}

type fakeResolver struct {
	path string
}

func (f fakeResolver) Resolve(storagePath string) string {
	return f.path
}

type fakeEnqueuer struct {
	msgs  []*messages.QueueMessage
	lanes []string
	err   error
}

func (f *fakeEnqueuer) Enqueue(msg *messages.QueueMessage, lane string, opts *messages.JobOpts) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.msgs = append(f.msgs, msg)
	f.lanes = append(f.lanes, lane)
	return "job1", nil
}

type testEnv struct {
	meetings    *persistence.MeetingStore
	transcripts *persistence.TranscriptStore
	summaries   *persistence.SummaryStore
	actionItems *persistence.ActionItemStore
	taskStore   *persistence.TaskStore
	tracker     *tasks.Tracker

	meeting *model.Meeting
	task    *model.ProcessingTask
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.Nil(t, err)
	p, err := persistence.NewDBProviderFor(db)
	require.Nil(t, err)

	res := &testEnv{meetings: persistence.NewMeetingStore(p),
		transcripts: persistence.NewTranscriptStore(p),
		summaries:   persistence.NewSummaryStore(p),
		actionItems: persistence.NewActionItemStore(p),
		taskStore:   persistence.NewTaskStore(p)}
	res.tracker = tasks.NewTracker(res.taskStore)

	res.meeting = &model.Meeting{Title: "Weekly sync", LanguageCode: "yue",
		Status: model.MeetingUploaded, AudioPath: "m1/audio.wav"}
	require.Nil(t, res.meetings.Create(res.meeting))
	res.task = &model.ProcessingTask{WorkspaceID: "ws1", Filename: "audio.wav",
		Status: model.TaskQueued, MeetingID: &res.meeting.ID}
	require.Nil(t, res.taskStore.Create(res.task))
	return res
}

func (env *testEnv) msg(stage string) *messages.QueueMessage {
	return messages.NewQueueMessage(stage, env.meeting.ID, env.task.ID)
}
