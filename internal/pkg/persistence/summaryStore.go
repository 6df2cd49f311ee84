package persistence

import (
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SummaryStore persists summaries, one row per meeting
type SummaryStore struct {
	db *gorm.DB
}

// NewSummaryStore creates the store
func NewSummaryStore(provider *DBProvider) *SummaryStore {
	return &SummaryStore{db: provider.db}
}

// Upsert writes the summary for its meeting, replacing a previous run's row
func (s *SummaryStore) Upsert(sm *model.Summary) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Summary
		err := tx.First(&existing, "meeting_id = ?", sm.MeetingID).Error
		if err == nil {
			sm.ID = existing.ID
			sm.CreatedAt = existing.CreatedAt
			return errors.Wrap(tx.Save(sm).Error, "Can't save summary")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "Can't load summary")
		}
		return errors.Wrap(tx.Create(sm).Error, "Can't save summary")
	})
}

// GetByMeeting loads the summary of a meeting
func (s *SummaryStore) GetByMeeting(meetingID string) (*model.Summary, error) {
	var sm model.Summary
	err := s.db.First(&sm, "meeting_id = ?", meetingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("summary for meeting " + meetingID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't load summary")
	}
	return &sm, nil
}
