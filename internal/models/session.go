package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStatus is the lifecycle state of a work session
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
)

// DateLayout is the calendar-day format used for WorkSession.Date
const DateLayout = "2006-01-02"

// WorkSession represents one user's work day, from check-in to check-out
type WorkSession struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    string `gorm:"not null;index:idx_work_sessions_user_date" json:"user_id"`
	CompanyID string `gorm:"not null" json:"company_id"`
	Date      string `gorm:"type:char(10);not null;index:idx_work_sessions_user_date" json:"date"`

	StartedAt time.Time  `gorm:"not null" json:"started_at"` // first check-in of the session
	CheckIn   time.Time  `gorm:"not null" json:"check_in"`   // start of the current active interval
	CheckOut  *time.Time `json:"check_out"`

	AccumulatedSeconds int64         `gorm:"not null;default:0" json:"accumulated_seconds"`
	TotalMinutes       int64         `gorm:"not null;default:0" json:"total_minutes"`
	Status             SessionStatus `gorm:"type:varchar(16);not null;index" json:"status"`

	// Version is bumped on every update and guards against lost writes
	Version int `gorm:"not null;default:0" json:"version"`

	// Relationships
	Breaks []Break `gorm:"foreignKey:WorkSessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"breaks"`
}

// BeforeCreate assigns an id when the caller did not
func (s *WorkSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// IsOpen reports whether the session has not been completed yet
func (s *WorkSession) IsOpen() bool {
	return s.Status != StatusCompleted
}

// OpenBreak returns the break that has not ended yet, if any
func (s *WorkSession) OpenBreak() *Break {
	for i := range s.Breaks {
		if s.Breaks[i].BreakEnd == nil {
			return &s.Breaks[i]
		}
	}
	return nil
}

// Clone returns a deep copy, so transitions can be computed without touching
// the state the caller is displaying
func (s *WorkSession) Clone() *WorkSession {
	c := *s
	if s.CheckOut != nil {
		out := *s.CheckOut
		c.CheckOut = &out
	}
	if s.Breaks != nil {
		c.Breaks = make([]Break, len(s.Breaks))
		for i, b := range s.Breaks {
			c.Breaks[i] = b.clone()
		}
	}
	return &c
}
