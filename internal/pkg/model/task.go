package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessingTask is the operational ledger for one upload's background work.
// It is never deleted automatically - it stays as an audit trail.
type ProcessingTask struct {
	ID           string     `gorm:"primaryKey;size:36"`
	WorkspaceID  string     `gorm:"size:36;not null;index"`
	Filename     string     `gorm:"size:512;not null"`
	FileSize     int64      `gorm:"not null"`
	Status       TaskStatus `gorm:"size:32;not null;default:queued"`
	Progress     int        `gorm:"not null;default:0"`
	Logs         []string   `gorm:"serializer:json"`
	StartTime    *time.Time
	MeetingID    *string `gorm:"size:36;index"`
	JobID        string  `gorm:"size:255;index"`
	ErrorMessage string  `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns an id if none set
func (t *ProcessingTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// SetStatus applies the transition table, returns ValidationError on illegal move
func (t *ProcessingTask) SetStatus(to TaskStatus) error {
	st, err := t.Status.Transition(to)
	if err != nil {
		return err
	}
	t.Status = st
	return nil
}
