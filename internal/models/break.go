package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Break represents a pause inside a work session
type Break struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	WorkSessionID   string     `gorm:"type:char(36);not null;index" json:"work_session_id"`
	BreakStart      time.Time  `gorm:"not null" json:"break_start"`
	BreakEnd        *time.Time `json:"break_end"` // nil while the break is open
	DurationMinutes int64      `gorm:"not null;default:0" json:"duration_minutes"`
}

// BeforeCreate assigns an id when the caller did not
func (b *Break) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// IsOpen reports whether the break has not ended yet
func (b *Break) IsOpen() bool {
	return b.BreakEnd == nil
}

func (b Break) clone() Break {
	if b.BreakEnd != nil {
		end := *b.BreakEnd
		b.BreakEnd = &end
	}
	return b
}
