package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
)

// SummaryUpdate carries direct edits to the generated summary fields
type SummaryUpdate struct {
	Overview        *string           `json:"overview"`
	DetailedMinutes *string           `json:"detailedMinutes"`
	Decisions       []model.Decision  `json:"decisions"`
	Highlights      []model.Highlight `json:"highlights"`
}

// ActionItemUpdate edits one existing action item, matched by id.
// Updates for unknown ids are skipped.
type ActionItemUpdate struct {
	ID          string  `json:"id"`
	Description *string `json:"description"`
	Owner       *string `json:"owner"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// MeetingUpdateRequest is the PATCH body, nil fields stay untouched
type MeetingUpdateRequest struct {
	Title       *string            `json:"title"`
	Tags        []string           `json:"tags"`
	Summary     *SummaryUpdate     `json:"summary"`
	ActionItems []ActionItemUpdate `json:"actionItems"`
}

type meetingUpdateHandler struct {
	data *ServiceData
}

// ServeHTTP applies edits made during review: meeting fields, summary text
// and per-item action item corrections. Responds with the updated detail.
func (h meetingUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input MeetingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, errs.NewValidation("Can't parse request: %s", err.Error()))
		return
	}
	if input.Title != nil && (*input.Title == "" || len(*input.Title) > 255) {
		respondError(w, errs.NewValidation("title must be 1-255 characters"))
		return
	}
	m, err := h.data.Meetings.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	if input.Title != nil {
		m.Title = *input.Title
	}
	if input.Tags != nil {
		m.Tags = input.Tags
	}
	if err := h.data.Meetings.Save(m); err != nil {
		respondError(w, err)
		return
	}
	if input.Summary != nil {
		if err := h.updateSummary(m, input.Summary); err != nil {
			respondError(w, err)
			return
		}
	}
	if err := h.updateActionItems(m, input.ActionItems); err != nil {
		respondError(w, err)
		return
	}

	m, err = h.data.Meetings.Get(m.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	encodeResponse(w, toMeetingDetail(m))
}

func (h meetingUpdateHandler) updateSummary(m *model.Meeting, upd *SummaryUpdate) error {
	s := m.Summary
	if s == nil {
		s = &model.Summary{MeetingID: m.ID}
	}
	if upd.Overview != nil {
		s.Overview = *upd.Overview
	}
	if upd.DetailedMinutes != nil {
		s.DetailedMinutes = upd.DetailedMinutes
	}
	if upd.Decisions != nil {
		s.Decisions = upd.Decisions
	}
	if upd.Highlights != nil {
		s.Highlights = upd.Highlights
	}
	return h.data.Summaries.Upsert(s)
}

func (h meetingUpdateHandler) updateActionItems(m *model.Meeting, updates []ActionItemUpdate) error {
	for i := range updates {
		upd := &updates[i]
		var item *model.ActionItem
		for j := range m.ActionItems {
			if m.ActionItems[j].ID == upd.ID {
				item = &m.ActionItems[j]
				break
			}
		}
		if item == nil {
			continue
		}
		applyActionItemUpdate(item, upd)
		if err := h.data.ActionItems.Save(item); err != nil {
			return err
		}
	}
	return nil
}

// applyActionItemUpdate mirrors the review UI edit format: the description
// may carry a "Title: details" shape and the owner a "Name (email)" shape
func applyActionItemUpdate(item *model.ActionItem, upd *ActionItemUpdate) {
	if upd.Description != nil {
		if before, after, found := strings.Cut(*upd.Description, ":"); found {
			item.Title = strings.TrimSpace(before)
			item.Description = strings.TrimSpace(after)
		} else {
			item.Title = *upd.Description
			item.Description = ""
		}
	}
	if upd.Owner != nil {
		item.OwnerName, item.OwnerEmail = parseOwner(*upd.Owner)
	}
	if upd.DueDate != nil && *upd.DueDate != "" {
		if d, err := time.Parse("2006-01-02", *upd.DueDate); err == nil {
			item.DueDate = &d
		}
	}
	if upd.Status != nil {
		item.Status = parseActionState(*upd.Status)
	}
	if upd.Priority != nil {
		item.Priority = model.ParseActionPriority(*upd.Priority)
	}
}

func parseOwner(s string) (string, string) {
	if i := strings.Index(s, "("); i >= 0 {
		if j := strings.Index(s[i:], ")"); j > 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1 : i+j])
		}
	}
	if strings.Contains(s, "@") {
		return "", s
	}
	return s, ""
}

func parseActionState(s string) model.ActionState {
	switch s {
	case "in-progress":
		return model.ActionInProgress
	case "completed":
		return model.ActionDone
	}
	return model.ActionPending
}
