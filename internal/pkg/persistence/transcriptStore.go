package persistence

import (
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TranscriptStore persists transcripts, one row per meeting
type TranscriptStore struct {
	db *gorm.DB
}

// NewTranscriptStore creates the store
func NewTranscriptStore(provider *DBProvider) *TranscriptStore {
	return &TranscriptStore{db: provider.db}
}

// Upsert writes the transcript for its meeting. A repeated transcription
// run overwrites the previous row instead of adding a second one.
func (s *TranscriptStore) Upsert(t *model.Transcript) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Transcript
		err := tx.First(&existing, "meeting_id = ?", t.MeetingID).Error
		if err == nil {
			t.ID = existing.ID
			t.CreatedAt = existing.CreatedAt
			return errors.Wrap(tx.Save(t).Error, "Can't save transcript")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "Can't load transcript")
		}
		return errors.Wrap(tx.Create(t).Error, "Can't save transcript")
	})
}

// GetByMeeting loads the transcript of a meeting
func (s *TranscriptStore) GetByMeeting(meetingID string) (*model.Transcript, error) {
	var t model.Transcript
	err := s.db.First(&t, "meeting_id = ?", meetingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("transcript for meeting " + meetingID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't load transcript")
	}
	return &t, nil
}
