package worker

import (
	"context"
	"strings"
	"time"

	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/meetscribe/meetscribe/internal/pkg/summary"
)

// SummarizeStage turns a stored transcript into a structured summary
// and replaces the meeting's action items
type SummarizeStage struct {
	meetings    Meetings
	transcripts Transcripts
	summaries   Summaries
	actionItems ActionItems
	tracker     Tracker
	summarizer  Summarizer
}

// NewSummarizeStage creates the stage
func NewSummarizeStage(meetings Meetings, transcripts Transcripts, summaries Summaries,
	actionItems ActionItems, tracker Tracker, summarizer Summarizer) *SummarizeStage {
	return &SummarizeStage{meetings: meetings, transcripts: transcripts, summaries: summaries,
		actionItems: actionItems, tracker: tracker, summarizer: summarizer}
}

// Name returns the stage name carried in queue messages
func (st *SummarizeStage) Name() string {
	return messages.StageSummarize
}

// Run processes one summarization job
func (st *SummarizeStage) Run(ctx context.Context, msg *messages.QueueMessage) error {
	if err := st.tracker.Start(msg.TaskID); err != nil {
		return err
	}
	_ = st.tracker.Progress(msg.TaskID, 5)
	_ = st.tracker.Log(msg.TaskID, "Starting summarization")

	m, err := st.meetings.Get(msg.MeetingID)
	if err != nil {
		return err
	}
	if err := m.SetStatus(model.MeetingSummarizing); err != nil {
		return err
	}
	m.StatusReason = ""
	if err := st.meetings.Save(m); err != nil {
		return err
	}
	tr, err := st.transcripts.GetByMeeting(m.ID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(tr.Content) == "" {
		return errs.NewValidation("no transcript content for meeting %s", m.ID)
	}
	_ = st.tracker.Progress(msg.TaskID, 10)

	res, err := st.summarizer.GenerateSummary(ctx, tr.Content, m.Title, m.Template, m.LanguageCode)
	if err != nil {
		return err
	}
	_ = st.tracker.Progress(msg.TaskID, 60)
	_ = st.tracker.Log(msg.TaskID, "Summary generated")

	err = st.summaries.Upsert(&model.Summary{MeetingID: m.ID, Overview: res.Overview,
		DetailedMinutes: res.DetailedMinutes, AgendaItems: res.AgendaItems,
		Decisions: res.Decisions, Highlights: res.Highlights,
		GeneratedByModel: st.summarizer.Model()})
	if err != nil {
		return err
	}
	_ = st.tracker.Progress(msg.TaskID, 70)

	items := toActionItems(res.ActionItems)
	if err := st.actionItems.ReplaceForMeeting(m.ID, items); err != nil {
		return err
	}
	_ = st.tracker.Progress(msg.TaskID, 90)
	_ = st.tracker.Log(msg.TaskID, "Stored %d action items", len(items))

	if err := m.SetStatus(model.MeetingCompleted); err != nil {
		return err
	}
	if err := st.meetings.Save(m); err != nil {
		return err
	}
	return st.tracker.ReviewReady(msg.TaskID)
}

// toActionItems maps LLM output records to entities. A record without a
// description is dropped, a bad due date only loses the date.
func toActionItems(items []summary.ActionItem) []model.ActionItem {
	var res []model.ActionItem
	for _, it := range items {
		if it.Description == "" {
			cmdapp.Log.Warn("Skipping action item without description")
			continue
		}
		ai := model.ActionItem{Title: title(it.Description), Description: it.Description,
			OwnerName: it.Owner, Priority: model.ParseActionPriority(it.Priority),
			Status: model.ActionPending}
		if it.DueDate != "" {
			if d, err := time.Parse("2006-01-02", it.DueDate); err == nil {
				ai.DueDate = &d
			} else {
				cmdapp.Log.Warnf("Dropping unparseable due date '%s'", it.DueDate)
			}
		}
		res = append(res, ai)
	}
	return res
}

func title(description string) string {
	if len(description) <= 255 {
		return description
	}
	return description[:255]
}
