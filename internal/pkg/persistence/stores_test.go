package persistence

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *DBProvider {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.Nil(t, err)
	p, err := NewDBProviderFor(db)
	require.Nil(t, err)
	return p
}

func newTestMeeting(t *testing.T, s *MeetingStore) *model.Meeting {
	t.Helper()
	m := &model.Meeting{Title: "Weekly sync", LanguageCode: "yue", Status: model.MeetingUploaded}
	require.Nil(t, s.Create(m))
	require.NotEmpty(t, m.ID)
	return m
}

func TestMeetingStore_CreateGet(t *testing.T) {
	s := NewMeetingStore(newTestDB(t))
	m := newTestMeeting(t, s)

	got, err := s.Get(m.ID)
	require.Nil(t, err)
	assert.Equal(t, "Weekly sync", got.Title)
	assert.Equal(t, model.MeetingUploaded, got.Status)
}

func TestMeetingStore_GetNotFound(t *testing.T) {
	s := NewMeetingStore(newTestDB(t))

	_, err := s.Get("missing")

	var nfErr *errs.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestMeetingStore_GetPreloads(t *testing.T) {
	p := newTestDB(t)
	s := NewMeetingStore(p)
	m := newTestMeeting(t, s)
	require.Nil(t, NewTranscriptStore(p).Upsert(&model.Transcript{MeetingID: m.ID, Content: "text"}))
	require.Nil(t, NewSummaryStore(p).Upsert(&model.Summary{MeetingID: m.ID, Overview: "ov"}))
	require.Nil(t, NewActionItemStore(p).ReplaceForMeeting(m.ID,
		[]model.ActionItem{{Title: "Send report", Priority: model.PriorityHigh, Status: model.ActionPending}}))

	got, err := s.Get(m.ID)
	require.Nil(t, err)
	require.NotNil(t, got.Transcript)
	assert.Equal(t, "text", got.Transcript.Content)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "ov", got.Summary.Overview)
	require.Equal(t, 1, len(got.ActionItems))
	assert.Equal(t, "Send report", got.ActionItems[0].Title)
}

func TestMeetingStore_ListByWorkspace(t *testing.T) {
	s := NewMeetingStore(newTestDB(t))
	ws := "ws1"
	m1 := &model.Meeting{Title: "m1", WorkspaceID: &ws, CreatedAt: time.Now().Add(-time.Hour)}
	m2 := &model.Meeting{Title: "m2", WorkspaceID: &ws, CreatedAt: time.Now()}
	other := "ws2"
	m3 := &model.Meeting{Title: "m3", WorkspaceID: &other}
	require.Nil(t, s.Create(m1))
	require.Nil(t, s.Create(m2))
	require.Nil(t, s.Create(m3))

	got, err := s.List(ws)
	require.Nil(t, err)
	require.Equal(t, 2, len(got))
	assert.Equal(t, "m2", got[0].Title)
	assert.Equal(t, "m1", got[1].Title)

	all, err := s.List("")
	require.Nil(t, err)
	assert.Equal(t, 3, len(all))
}

func TestMeetingStore_SetStatus(t *testing.T) {
	s := NewMeetingStore(newTestDB(t))
	m := newTestMeeting(t, s)

	require.Nil(t, s.SetStatus(m.ID, model.MeetingTranscribing, ""))

	got, err := s.Get(m.ID)
	require.Nil(t, err)
	assert.Equal(t, model.MeetingTranscribing, got.Status)
}

func TestMeetingStore_SetStatus_Illegal(t *testing.T) {
	s := NewMeetingStore(newTestDB(t))
	m := newTestMeeting(t, s)

	err := s.SetStatus(m.ID, model.MeetingSummarizing, "")

	var vErr *errs.ValidationError
	require.ErrorAs(t, err, &vErr)
	got, _ := s.Get(m.ID)
	assert.Equal(t, model.MeetingUploaded, got.Status)
}

func TestMeetingStore_Delete(t *testing.T) {
	p := newTestDB(t)
	s := NewMeetingStore(p)
	m := newTestMeeting(t, s)
	trStore := NewTranscriptStore(p)
	require.Nil(t, trStore.Upsert(&model.Transcript{MeetingID: m.ID, Content: "text"}))
	require.Nil(t, NewActionItemStore(p).ReplaceForMeeting(m.ID, []model.ActionItem{{Title: "a"}}))

	require.Nil(t, s.Delete(m.ID))

	var nfErr *errs.NotFoundError
	_, err := s.Get(m.ID)
	assert.ErrorAs(t, err, &nfErr)
	_, err = trStore.GetByMeeting(m.ID)
	assert.ErrorAs(t, err, &nfErr)
	items, err := NewActionItemStore(p).ListByMeeting(m.ID)
	require.Nil(t, err)
	assert.Equal(t, 0, len(items))
}

func TestMeetingStore_DeleteNotFound(t *testing.T) {
	s := NewMeetingStore(newTestDB(t))

	var nfErr *errs.NotFoundError
	assert.ErrorAs(t, s.Delete("missing"), &nfErr)
}

func TestTranscriptStore_Upsert(t *testing.T) {
	p := newTestDB(t)
	s := NewTranscriptStore(p)
	m := newTestMeeting(t, NewMeetingStore(p))

	first := &model.Transcript{MeetingID: m.ID, Content: "first",
		Segments: []model.Segment{{ID: "seg_0", Text: "first"}}}
	require.Nil(t, s.Upsert(first))

	second := &model.Transcript{MeetingID: m.ID, Content: "second"}
	require.Nil(t, s.Upsert(second))

	got, err := s.GetByMeeting(m.ID)
	require.Nil(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "second", got.Content)

	var count int64
	p.db.Model(&model.Transcript{}).Where("meeting_id = ?", m.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSummaryStore_Upsert(t *testing.T) {
	p := newTestDB(t)
	s := NewSummaryStore(p)
	m := newTestMeeting(t, NewMeetingStore(p))

	require.Nil(t, s.Upsert(&model.Summary{MeetingID: m.ID, Overview: "first"}))
	require.Nil(t, s.Upsert(&model.Summary{MeetingID: m.ID, Overview: "second",
		AgendaItems: []model.AgendaItem{{ID: "a1", Title: "Budget"}}}))

	got, err := s.GetByMeeting(m.ID)
	require.Nil(t, err)
	assert.Equal(t, "second", got.Overview)
	require.Equal(t, 1, len(got.AgendaItems))

	var count int64
	p.db.Model(&model.Summary{}).Where("meeting_id = ?", m.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestActionItemStore_Replace(t *testing.T) {
	p := newTestDB(t)
	s := NewActionItemStore(p)
	m := newTestMeeting(t, NewMeetingStore(p))

	require.Nil(t, s.ReplaceForMeeting(m.ID, []model.ActionItem{
		{Title: "a1"}, {Title: "a2"}, {Title: "a3"}}))
	require.Nil(t, s.ReplaceForMeeting(m.ID, []model.ActionItem{
		{Title: "b1"}, {Title: "b2"}}))

	got, err := s.ListByMeeting(m.ID)
	require.Nil(t, err)
	require.Equal(t, 2, len(got))
	assert.Equal(t, "b1", got[0].Title)
	assert.Equal(t, "b2", got[1].Title)
}

func TestTaskStore(t *testing.T) {
	s := NewTaskStore(newTestDB(t))
	task := &model.ProcessingTask{WorkspaceID: "ws1", Filename: "a.wav", FileSize: 100,
		Status: model.TaskQueued}
	require.Nil(t, s.Create(task))
	require.NotEmpty(t, task.ID)

	got, err := s.Get(task.ID)
	require.Nil(t, err)
	assert.Equal(t, "a.wav", got.Filename)

	got.Progress = 10
	require.Nil(t, s.Save(got))
	got, err = s.Get(task.ID)
	require.Nil(t, err)
	assert.Equal(t, 10, got.Progress)

	list, err := s.List("ws1")
	require.Nil(t, err)
	assert.Equal(t, 1, len(list))
	list, err = s.List("other")
	require.Nil(t, err)
	assert.Equal(t, 0, len(list))
}

func TestTaskStore_GetNotFound(t *testing.T) {
	s := NewTaskStore(newTestDB(t))

	_, err := s.Get("missing")

	var nfErr *errs.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}
