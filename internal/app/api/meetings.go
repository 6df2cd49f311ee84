package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
)

// MeetingResult is the brief meeting projection for lists
type MeetingResult struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description,omitempty"`
	Status               string   `json:"status"`
	StatusReason         string   `json:"statusReason,omitempty"`
	LanguageCode         string   `json:"languageCode"`
	AudioDurationSeconds *int     `json:"audioDurationSeconds"`
	Tags                 []string `json:"tags"`
	Template             string   `json:"template,omitempty"`
	CreatedAt            string   `json:"createdAt"`
}

// MeetingDetail adds the derived content to the brief projection
type MeetingDetail struct {
	MeetingResult
	Transcript  *TranscriptResult  `json:"transcript,omitempty"`
	Summary     *SummaryResult     `json:"summary,omitempty"`
	ActionItems []ActionItemResult `json:"actionItems"`
}

// TranscriptResult projection
type TranscriptResult struct {
	Content         string          `json:"content"`
	Segments        []model.Segment `json:"segments"`
	DurationSeconds *int            `json:"durationSeconds"`
}

// SummaryResult projection
type SummaryResult struct {
	Overview         string             `json:"overview"`
	DetailedMinutes  *string            `json:"detailedMinutes"`
	AgendaItems      []model.AgendaItem `json:"agendaItems"`
	Decisions        []model.Decision   `json:"decisions"`
	Highlights       []model.Highlight  `json:"highlights"`
	GeneratedByModel string             `json:"generatedByModel,omitempty"`
}

// ActionItemResult projection
type ActionItemResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	OwnerName   string  `json:"ownerName,omitempty"`
	DueDate     *string `json:"dueDate"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
}

func toMeetingResult(m *model.Meeting) MeetingResult {
	res := MeetingResult{ID: m.ID, Title: m.Title, Description: m.Description,
		Status: string(m.Status), StatusReason: m.StatusReason, LanguageCode: m.LanguageCode,
		AudioDurationSeconds: m.AudioDurationSeconds, Tags: m.Tags, Template: m.Template,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339)}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res
}

func toMeetingDetail(m *model.Meeting) *MeetingDetail {
	res := &MeetingDetail{MeetingResult: toMeetingResult(m), ActionItems: []ActionItemResult{}}
	if m.Transcript != nil {
		res.Transcript = &TranscriptResult{Content: m.Transcript.Content,
			Segments: m.Transcript.Segments, DurationSeconds: m.Transcript.DurationSeconds}
	}
	if m.Summary != nil {
		res.Summary = &SummaryResult{Overview: m.Summary.Overview,
			DetailedMinutes: m.Summary.DetailedMinutes, AgendaItems: m.Summary.AgendaItems,
			Decisions: m.Summary.Decisions, Highlights: m.Summary.Highlights,
			GeneratedByModel: m.Summary.GeneratedByModel}
	}
	for i := range m.ActionItems {
		ai := &m.ActionItems[i]
		r := ActionItemResult{ID: ai.ID, Title: ai.Title, Description: ai.Description,
			OwnerName: ai.OwnerName, Priority: string(ai.Priority), Status: string(ai.Status)}
		if ai.DueDate != nil {
			d := ai.DueDate.UTC().Format("2006-01-02")
			r.DueDate = &d
		}
		res.ActionItems = append(res.ActionItems, r)
	}
	return res
}

type meetingListHandler struct {
	data *ServiceData
}

func (h meetingListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.data.Meetings.List(workspaceID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	res := make([]MeetingResult, 0, len(meetings))
	for i := range meetings {
		res = append(res, toMeetingResult(&meetings[i]))
	}
	encodeResponse(w, res)
}

type meetingHandler struct {
	data *ServiceData
}

func (h meetingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m, err := h.data.Meetings.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	encodeResponse(w, toMeetingDetail(m))
}

type meetingDeleteHandler struct {
	data *ServiceData
}

// ServeHTTP deletes the meeting rows first, then the audio blob as
// best effort - a leftover file is cheaper than a dangling row
func (h meetingDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	m, err := h.data.Meetings.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.data.Meetings.Delete(id); err != nil {
		respondError(w, err)
		return
	}
	if m.AudioPath != "" {
		if _, err := h.data.Saver.Delete(m.AudioPath); err != nil {
			cmdapp.Log.Error("Can't delete audio file ", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
