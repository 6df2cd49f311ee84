package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workspace is the multi-tenant boundary for all entities
type Workspace struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Meeting is a recorded audio artifact and its derived content
type Meeting struct {
	ID                   string        `gorm:"primaryKey;size:36"`
	Title                string        `gorm:"size:255;not null"`
	Description          string        `gorm:"type:text"`
	Status               MeetingStatus `gorm:"size:32;not null;default:uploaded"`
	StatusReason         string        `gorm:"type:text"`
	LanguageCode         string        `gorm:"size:16;default:yue"`
	RecordedAt           *time.Time
	AudioPath            string `gorm:"size:512"`
	AudioDurationSeconds *int
	Tags                 []string `gorm:"serializer:json"`
	Template             string   `gorm:"size:128"`
	HubspotSynced        bool     `gorm:"not null;default:false"`

	WorkspaceID *string `gorm:"size:36;index"`
	OwnerID     *string `gorm:"size:36"`

	Transcript  *Transcript  `gorm:"constraint:OnDelete:CASCADE"`
	Summary     *Summary     `gorm:"constraint:OnDelete:CASCADE"`
	ActionItems []ActionItem `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns an id if none set
func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// SetStatus applies the transition table, returns ValidationError on illegal move
func (m *Meeting) SetStatus(to MeetingStatus) error {
	st, err := m.Status.Transition(to)
	if err != nil {
		return err
	}
	m.Status = st
	return nil
}
