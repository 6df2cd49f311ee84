package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Segment is a contiguous span of transcript text attributed to one speaker
type Segment struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Speaker   string  `json:"speaker"`
	SpeakerID string  `json:"speaker_id"`
}

// Transcript is normalized ASR output, one-to-one with a meeting
type Transcript struct {
	ID              string `gorm:"primaryKey;size:36"`
	MeetingID       string `gorm:"size:36;uniqueIndex;not null"`
	LanguageCode    string `gorm:"size:16;default:yue"`
	DurationSeconds *int
	Content         string    `gorm:"type:text;not null"`
	Segments        []Segment `gorm:"serializer:json"`
	// RawResponse keeps the opaque vendor payload for audit/debug
	RawResponse string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns an id if none set
func (t *Transcript) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
