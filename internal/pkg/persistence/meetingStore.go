package persistence

import (
	"github.com/meetscribe/meetscribe/internal/pkg/errs"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MeetingStore persists meetings and their derived content
type MeetingStore struct {
	db *gorm.DB
}

// NewMeetingStore creates the store
func NewMeetingStore(provider *DBProvider) *MeetingStore {
	return &MeetingStore{db: provider.db}
}

// Create inserts a new meeting
func (s *MeetingStore) Create(m *model.Meeting) error {
	if err := s.db.Create(m).Error; err != nil {
		return errors.Wrap(err, "Can't save meeting")
	}
	return nil
}

// Get loads a meeting with its transcript, summary and action items
func (s *MeetingStore) Get(id string) (*model.Meeting, error) {
	var m model.Meeting
	err := s.db.Preload("Transcript").Preload("Summary").Preload("ActionItems").
		First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("meeting " + id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't load meeting")
	}
	return &m, nil
}

// List returns meetings newest first, scoped to a workspace when given
func (s *MeetingStore) List(workspaceID string) ([]model.Meeting, error) {
	var res []model.Meeting
	q := s.db.Order("created_at desc")
	if workspaceID != "" {
		q = q.Where("workspace_id = ?", workspaceID)
	}
	if err := q.Find(&res).Error; err != nil {
		return nil, errors.Wrap(err, "Can't list meetings")
	}
	return res, nil
}

// Save writes all changed fields of an existing meeting
func (s *MeetingStore) Save(m *model.Meeting) error {
	if err := s.db.Save(m).Error; err != nil {
		return errors.Wrap(err, "Can't save meeting")
	}
	return nil
}

// SetStatus moves a meeting through its transition table
func (s *MeetingStore) SetStatus(id string, to model.MeetingStatus, reason string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var m model.Meeting
		err := tx.First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("meeting " + id)
		}
		if err != nil {
			return errors.Wrap(err, "Can't load meeting")
		}
		if err := m.SetStatus(to); err != nil {
			return err
		}
		m.StatusReason = reason
		return errors.Wrap(tx.Save(&m).Error, "Can't save meeting")
	})
}

// Delete removes a meeting and its derived rows in one transaction.
// Child rows are deleted explicitly - sqlite does not enforce the
// cascade constraint without the foreign_keys pragma.
func (s *MeetingStore) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var m model.Meeting
		err := tx.First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("meeting " + id)
		}
		if err != nil {
			return errors.Wrap(err, "Can't load meeting")
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&model.Transcript{}).Error; err != nil {
			return errors.Wrap(err, "Can't delete transcript")
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&model.Summary{}).Error; err != nil {
			return errors.Wrap(err, "Can't delete summary")
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&model.ActionItem{}).Error; err != nil {
			return errors.Wrap(err, "Can't delete action items")
		}
		return errors.Wrap(tx.Delete(&m).Error, "Can't delete meeting")
	})
}
