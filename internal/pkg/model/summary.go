package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgendaItem of a generated summary
type AgendaItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Decision extracted from the meeting
type Decision struct {
	ID               string `json:"id"`
	Description      string `json:"description"`
	RelatedSegmentID string `json:"relatedSegmentId,omitempty"`
}

// Highlight of the meeting, categorized by the model
type Highlight struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
}

// Summary is structured LLM output, one-to-one with a meeting
type Summary struct {
	ID        string `gorm:"primaryKey;size:36"`
	MeetingID string `gorm:"size:36;uniqueIndex;not null"`
	Overview  string `gorm:"type:text"`
	// DetailedMinutes is nil for very short or non-business transcripts
	DetailedMinutes  *string      `gorm:"type:text"`
	AgendaItems      []AgendaItem `gorm:"serializer:json"`
	Decisions        []Decision   `gorm:"serializer:json"`
	Highlights       []Highlight  `gorm:"serializer:json"`
	GeneratedByModel string       `gorm:"size:128"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns an id if none set
func (s *Summary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// ActionItem is a discrete follow-up task extracted from a summary.
// All items of a meeting are replaced on every summarization run.
type ActionItem struct {
	ID          string `gorm:"primaryKey;size:36"`
	MeetingID   string `gorm:"size:36;not null;index"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	OwnerName   string `gorm:"size:128"`
	OwnerEmail  string `gorm:"size:255"`
	DueDate     *time.Time
	Priority    ActionPriority `gorm:"size:16;not null;default:medium"`
	Status      ActionState    `gorm:"size:16;not null;default:pending"`
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns an id if none set
func (a *ActionItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
