package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/tracker"
)

var _ tracker.Store = (*Store)(nil)

// orderedBreaks preloads breaks in the order they were taken
func orderedBreaks(db *gorm.DB) *gorm.DB {
	return db.Order("break_start ASC")
}

// FindOpenSession returns the user's session that is not completed, if any
func (s *Store) FindOpenSession(ctx context.Context, userID string) (*models.WorkSession, error) {
	var session models.WorkSession

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, models.StatusCompleted).
		Preload("Breaks", orderedBreaks).
		Order("started_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No open session is not an error
	}
	if err != nil {
		return nil, classify("find open session", err)
	}

	return &session, nil
}

// FindSessionByDate returns the user's latest session on a calendar date,
// whatever its status
func (s *Store) FindSessionByDate(ctx context.Context, userID, date string) (*models.WorkSession, error) {
	var session models.WorkSession

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Preload("Breaks", orderedBreaks).
		Order("started_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find session by date", err)
	}

	return &session, nil
}

// GetSession loads a session by id with its breaks
func (s *Store) GetSession(ctx context.Context, id string) (*models.WorkSession, error) {
	var session models.WorkSession

	err := s.db.WithContext(ctx).
		Preload("Breaks", orderedBreaks).
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, classify("get session", err)
	}

	return &session, nil
}

// InsertSession creates a new session; the id is assigned on create
func (s *Store) InsertSession(ctx context.Context, session *models.WorkSession) (*models.WorkSession, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}

	created := session.Clone()
	created.Version = 0
	if err := s.db.WithContext(ctx).Omit("Breaks").Create(created).Error; err != nil {
		return nil, classify("insert session", err)
	}

	if created.Breaks == nil {
		created.Breaks = []models.Break{}
	}
	return created, nil
}

// UpdateSession writes the mutable fields of a session. The write only lands
// if the stored version still equals expectedVersion.
func (s *Store) UpdateSession(ctx context.Context, session *models.WorkSession, expectedVersion int) (*models.WorkSession, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Model(&models.WorkSession{}).
		Where("id = ? AND version = ?", session.ID, expectedVersion).
		Updates(map[string]any{
			"check_in":            session.CheckIn.UTC(),
			"check_out":           utcPtr(session.CheckOut),
			"accumulated_seconds": session.AccumulatedSeconds,
			"total_minutes":       session.TotalMinutes,
			"status":              string(session.Status),
			"version":             expectedVersion + 1,
		})
	if res.Error != nil {
		return nil, classify("update session", res.Error)
	}

	if res.RowsAffected == 0 {
		// Tell a missing row apart from a lost race
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.WorkSession{}).Where("id = ?", session.ID).Count(&count).Error; err != nil {
			return nil, classify("update session", err)
		}
		if count == 0 {
			return nil, &tracker.StoreError{Op: "update session " + session.ID, Kind: tracker.StoreNotFound}
		}
		return nil, &tracker.ConflictError{SessionID: session.ID, ExpectedVersion: expectedVersion}
	}

	return s.GetSession(ctx, session.ID)
}

// InsertBreak opens a break on a session
func (s *Store) InsertBreak(ctx context.Context, sessionID string, start time.Time) (*models.Break, error) {
	if sessionID == "" {
		return nil, &tracker.ValidationError{Field: "work_session_id", Reason: "required"}
	}
	if start.IsZero() {
		return nil, &tracker.ValidationError{Field: "break_start", Reason: "missing timestamp"}
	}

	b := models.Break{
		WorkSessionID: sessionID,
		BreakStart:    start.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		return nil, classify("insert break", err)
	}

	return &b, nil
}

// UpdateBreak writes the end and duration of a break
func (s *Store) UpdateBreak(ctx context.Context, b *models.Break) (*models.Break, error) {
	if b.BreakEnd != nil && b.BreakEnd.Before(b.BreakStart) {
		return nil, &tracker.ValidationError{Field: "break_end", Reason: "before break_start"}
	}

	res := s.db.WithContext(ctx).
		Model(&models.Break{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"break_end":        utcPtr(b.BreakEnd),
			"duration_minutes": b.DurationMinutes,
		})
	if res.Error != nil {
		return nil, classify("update break", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &tracker.StoreError{Op: "update break " + b.ID, Kind: tracker.StoreNotFound}
	}

	var saved models.Break
	if err := s.db.WithContext(ctx).First(&saved, "id = ?", b.ID).Error; err != nil {
		return nil, classify("get break", err)
	}
	return &saved, nil
}

// FindOpenBreak returns the session's break without an end, if any
func (s *Store) FindOpenBreak(ctx context.Context, sessionID string) (*models.Break, error) {
	var b models.Break

	err := s.db.WithContext(ctx).
		Where("work_session_id = ? AND break_end IS NULL", sessionID).
		Order("break_start DESC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find open break", err)
	}

	return &b, nil
}

// ListCompleted returns completed sessions with fromDate <= date < toDate,
// newest date first
func (s *Store) ListCompleted(ctx context.Context, userID, fromDate, toDate string) ([]models.WorkSession, error) {
	var sessions []models.WorkSession

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND date >= ? AND date < ?", userID, models.StatusCompleted, fromDate, toDate).
		Preload("Breaks", orderedBreaks).
		Order("date DESC").
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, classify("list completed sessions", err)
	}

	return sessions, nil
}

// Atomic runs fn inside a database transaction
func (s *Store) Atomic(ctx context.Context, fn func(tracker.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// validateSession checks the linkage and timestamp fields every write needs
func validateSession(s *models.WorkSession) error {
	switch {
	case s == nil:
		return &tracker.ValidationError{Field: "session", Reason: "missing"}
	case s.UserID == "":
		return &tracker.ValidationError{Field: "user_id", Reason: "required"}
	case s.CompanyID == "":
		return &tracker.ValidationError{Field: "company_id", Reason: "required"}
	case s.CheckIn.IsZero():
		return &tracker.ValidationError{Field: "check_in", Reason: "missing timestamp"}
	case s.CheckOut != nil && s.CheckOut.Before(s.StartedAt):
		return &tracker.ValidationError{Field: "check_out", Reason: "before check-in"}
	case (s.CheckOut != nil) != (s.Status == models.StatusCompleted):
		return &tracker.ValidationError{Field: "check_out", Reason: "must be set exactly when the session is completed"}
	}
	if _, err := time.Parse(models.DateLayout, s.Date); err != nil {
		return &tracker.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
