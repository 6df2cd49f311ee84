package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingList(t *testing.T) {
	env := newTestEnv(t)
	ws := "ws1"
	d := 120
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted,
		WorkspaceID: &ws, AudioDurationSeconds: &d, Tags: []string{"sales"}}
	require.Nil(t, env.meetings.Create(m))
	req := httptest.NewRequest("GET", "/meetings", nil)
	req.Header.Set("X-Workspace-ID", "ws1")
	resp := httptest.NewRecorder()

	env.router.ServeHTTP(resp, req)

	require.Equal(t, 200, resp.Code)
	var res []MeetingResult
	require.Nil(t, json.Unmarshal(resp.Body.Bytes(), &res))
	require.Equal(t, 1, len(res))
	assert.Equal(t, "Weekly sync", res[0].Title)
	assert.Equal(t, "completed", res[0].Status)
	require.NotNil(t, res[0].AudioDurationSeconds)
	assert.Equal(t, 120, *res[0].AudioDurationSeconds)
	assert.Equal(t, []string{"sales"}, res[0].Tags)
}

func TestMeetingList_WorkspaceQueryParam(t *testing.T) {
	env := newTestEnv(t)
	ws := "ws1"
	require.Nil(t, env.meetings.Create(&model.Meeting{Title: "m1", WorkspaceID: &ws}))
	req := httptest.NewRequest("GET", "/meetings?workspace=other", nil)
	resp := httptest.NewRecorder()

	env.router.ServeHTTP(resp, req)

	require.Equal(t, 200, resp.Code)
	var res []MeetingResult
	require.Nil(t, json.Unmarshal(resp.Body.Bytes(), &res))
	assert.Equal(t, 0, len(res))
}

func TestMeetingGet(t *testing.T) {
	env := newTestEnv(t)
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted}
	require.Nil(t, env.meetings.Create(m))
	req := httptest.NewRequest("GET", "/meetings/"+m.ID, nil)
	resp := httptest.NewRecorder()

	env.router.ServeHTTP(resp, req)

	require.Equal(t, 200, resp.Code)
	var res MeetingDetail
	require.Nil(t, json.Unmarshal(resp.Body.Bytes(), &res))
	assert.Equal(t, m.ID, res.ID)
	assert.Nil(t, res.Transcript)
	assert.Nil(t, res.Summary)
	assert.NotNil(t, res.ActionItems)
}

func TestMeetingGet_WithContent(t *testing.T) {
	env := newTestEnv(t)
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted}
	require.Nil(t, env.meetings.Create(m))
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	m.Transcript = &model.Transcript{MeetingID: m.ID, Content: "hello",
		Segments: []model.Segment{{ID: "seg_0", Text: "hello", Speaker: "S1"}}}
	m.Summary = &model.Summary{MeetingID: m.ID, Overview: "short one"}
	m.ActionItems = []model.ActionItem{{MeetingID: m.ID, Title: "Send report",
		Priority: model.PriorityHigh, Status: model.ActionPending, DueDate: &due}}
	require.Nil(t, env.meetings.Save(m))
	req := httptest.NewRequest("GET", "/meetings/"+m.ID, nil)
	resp := httptest.NewRecorder()

	env.router.ServeHTTP(resp, req)

	require.Equal(t, 200, resp.Code)
	var res MeetingDetail
	require.Nil(t, json.Unmarshal(resp.Body.Bytes(), &res))
	require.NotNil(t, res.Transcript)
	assert.Equal(t, "hello", res.Transcript.Content)
	require.Equal(t, 1, len(res.Transcript.Segments))
	require.NotNil(t, res.Summary)
	assert.Equal(t, "short one", res.Summary.Overview)
	require.Equal(t, 1, len(res.ActionItems))
	assert.Equal(t, "Send report", res.ActionItems[0].Title)
	require.NotNil(t, res.ActionItems[0].DueDate)
	assert.Equal(t, "2026-09-01", *res.ActionItems[0].DueDate)
}

func TestMeetingGet_NotFound(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest("GET", "/meetings/missing", nil)
	resp := httptest.NewRecorder()

	env.router.ServeHTTP(resp, req)

	assert.Equal(t, 404, resp.Code)
}

func patchMeeting(env *testEnv, id string, input MeetingUpdateRequest) *httptest.ResponseRecorder {
	b, _ := json.Marshal(input)
	req := httptest.NewRequest("PATCH", "/meetings/"+id, bytes.NewReader(b))
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	return resp
}

func strPtr(s string) *string {
	return &s
}

func TestMeetingUpdate_Fields(t *testing.T) {
	env := newTestEnv(t)
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted, Tags: []string{"old"}}
	require.Nil(t, env.meetings.Create(m))

	resp := patchMeeting(env, m.ID, MeetingUpdateRequest{Title: strPtr("Q3 planning"),
		Tags: []string{"planning", "q3"}})

	require.Equal(t, 200, resp.Code)
	var res MeetingDetail
	require.Nil(t, json.Unmarshal(resp.Body.Bytes(), &res))
	assert.Equal(t, "Q3 planning", res.Title)
	assert.Equal(t, []string{"planning", "q3"}, res.Tags)
	got, err := env.meetings.Get(m.ID)
	require.Nil(t, err)
	assert.Equal(t, "Q3 planning", got.Title)
}

func TestMeetingUpdate_KeepsUntouchedFields(t *testing.T) {
	env := newTestEnv(t)
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted, Tags: []string{"sales"}}
	require.Nil(t, env.meetings.Create(m))

	resp := patchMeeting(env, m.ID, MeetingUpdateRequest{Tags: []string{"ops"}})

	require.Equal(t, 200, resp.Code)
	got, err := env.meetings.Get(m.ID)
	require.Nil(t, err)
	assert.Equal(t, "Weekly sync", got.Title)
	assert.Equal(t, []string{"ops"}, got.Tags)
}

func TestMeetingUpdate_SummaryEdit(t *testing.T) {
	env := newTestEnv(t)
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted}
	require.Nil(t, env.meetings.Create(m))
	require.Nil(t, env.summaries.Upsert(&model.Summary{MeetingID: m.ID, Overview: "draft",
		Highlights: []model.Highlight{{ID: "h1", Text: "Great quarter"}}}))

	resp := patchMeeting(env, m.ID, MeetingUpdateRequest{
		Summary: &SummaryUpdate{Overview: strPtr("corrected overview")}})

	require.Equal(t, 200, resp.Code)
	s, err := env.summaries.GetByMeeting(m.ID)
	require.Nil(t, err)
	assert.Equal(t, "corrected overview", s.Overview)
	// untouched fields survive the edit
	require.Equal(t, 1, len(s.Highlights))
	assert.Equal(t, "Great quarter", s.Highlights[0].Text)
}

func TestMeetingUpdate_SummaryCreated(t *testing.T) {
	env := newTestEnv(t)
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted}
	require.Nil(t, env.meetings.Create(m))

	resp := patchMeeting(env, m.ID, MeetingUpdateRequest{
		Summary: &SummaryUpdate{Overview: strPtr("written by hand")}})

	require.Equal(t, 200, resp.Code)
	s, err := env.summaries.GetByMeeting(m.ID)
	require.Nil(t, err)
	assert.Equal(t, "written by hand", s.Overview)
}

func TestMeetingUpdate_ActionItemEdit(t *testing.T) {
	env := newTestEnv(t)
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted}
	require.Nil(t, env.meetings.Create(m))
	require.Nil(t, env.actionItems.ReplaceForMeeting(m.ID,
		[]model.ActionItem{{ID: "ai1", Title: "Send report", Priority: model.PriorityMedium,
			Status: model.ActionPending}}))

	resp := patchMeeting(env, m.ID, MeetingUpdateRequest{ActionItems: []ActionItemUpdate{
		{ID: "ai1", Description: strPtr("Report: send Q3 numbers"),
			Owner: strPtr("Ana (ana@example.com)"), Status: strPtr("completed"),
			Priority: strPtr("high"), DueDate: strPtr("2026-09-15")},
		{ID: "missing", Description: strPtr("ignored")},
	}})

	require.Equal(t, 200, resp.Code)
	items, err := env.actionItems.ListByMeeting(m.ID)
	require.Nil(t, err)
	require.Equal(t, 1, len(items))
	assert.Equal(t, "Report", items[0].Title)
	assert.Equal(t, "send Q3 numbers", items[0].Description)
	assert.Equal(t, "Ana", items[0].OwnerName)
	assert.Equal(t, "ana@example.com", items[0].OwnerEmail)
	assert.Equal(t, model.ActionDone, items[0].Status)
	assert.Equal(t, model.PriorityHigh, items[0].Priority)
	require.NotNil(t, items[0].DueDate)
	assert.Equal(t, "2026-09-15", items[0].DueDate.Format("2006-01-02"))
}

func TestMeetingUpdate_BadTitle(t *testing.T) {
	env := newTestEnv(t)
	m := &model.Meeting{Title: "Weekly sync", Status: model.MeetingCompleted}
	require.Nil(t, env.meetings.Create(m))

	resp := patchMeeting(env, m.ID, MeetingUpdateRequest{Title: strPtr("")})

	assert.Equal(t, 400, resp.Code)
	got, _ := env.meetings.Get(m.ID)
	assert.Equal(t, "Weekly sync", got.Title)
}

func TestMeetingUpdate_NotFound(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, 404, patchMeeting(env, "missing", MeetingUpdateRequest{Title: strPtr("x")}).Code)
}

func TestParseOwner(t *testing.T) {
	name, email := parseOwner("Ana (ana@example.com)")
	assert.Equal(t, "Ana", name)
	assert.Equal(t, "ana@example.com", email)

	name, email = parseOwner("bob@example.com")
	assert.Equal(t, "", name)
	assert.Equal(t, "bob@example.com", email)

	name, email = parseOwner("Carol")
	assert.Equal(t, "Carol", name)
	assert.Equal(t, "", email)
}

func TestMeetingDelete(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := uploadBody(t, "a.wav", nil)
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	require.Equal(t, 200, resp.Code)
	var up UploadResult
	require.Nil(t, json.Unmarshal(resp.Body.Bytes(), &up))
	m, err := env.meetings.Get(up.MeetingID)
	require.Nil(t, err)
	require.True(t, env.audioExists(m.AudioPath))

	req = httptest.NewRequest("DELETE", "/meetings/"+up.MeetingID, nil)
	resp = httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	require.Equal(t, 204, resp.Code)
	_, err = env.meetings.Get(up.MeetingID)
	assert.NotNil(t, err)
	assert.False(t, env.audioExists(m.AudioPath))
}

func TestMeetingDelete_NotFound(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest("DELETE", "/meetings/missing", nil)
	resp := httptest.NewRecorder()

	env.router.ServeHTTP(resp, req)

	assert.Equal(t, 404, resp.Code)
}
