package persistence

import (
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ActionItemStore persists action items extracted by summarization
type ActionItemStore struct {
	db *gorm.DB
}

// NewActionItemStore creates the store
func NewActionItemStore(provider *DBProvider) *ActionItemStore {
	return &ActionItemStore{db: provider.db}
}

// ReplaceForMeeting swaps the full action item set of a meeting in one
// transaction. Every summarization run owns the whole set - there is no
// per-item merge.
func (s *ActionItemStore) ReplaceForMeeting(meetingID string, items []model.ActionItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&model.ActionItem{}).Error; err != nil {
			return errors.Wrap(err, "Can't delete action items")
		}
		for i := range items {
			items[i].MeetingID = meetingID
			if err := tx.Create(&items[i]).Error; err != nil {
				return errors.Wrap(err, "Can't save action item")
			}
		}
		return nil
	})
}

// Save persists user edits to one item
func (s *ActionItemStore) Save(a *model.ActionItem) error {
	if err := s.db.Save(a).Error; err != nil {
		return errors.Wrap(err, "Can't save action item")
	}
	return nil
}

// ListByMeeting returns the items of a meeting in creation order
func (s *ActionItemStore) ListByMeeting(meetingID string) ([]model.ActionItem, error) {
	var res []model.ActionItem
	err := s.db.Where("meeting_id = ?", meetingID).Order("created_at").Find(&res).Error
	if err != nil {
		return nil, errors.Wrap(err, "Can't list action items")
	}
	return res, nil
}
