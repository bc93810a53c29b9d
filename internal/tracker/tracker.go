package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// Store is the persistence boundary the tracker depends on. Find methods
// return (nil, nil) when nothing matches.
type Store interface {
	FindOpenSession(ctx context.Context, userID string) (*models.WorkSession, error)
	FindSessionByDate(ctx context.Context, userID, date string) (*models.WorkSession, error)
	InsertSession(ctx context.Context, s *models.WorkSession) (*models.WorkSession, error)
	UpdateSession(ctx context.Context, s *models.WorkSession, expectedVersion int) (*models.WorkSession, error)
	InsertBreak(ctx context.Context, sessionID string, start time.Time) (*models.Break, error)
	UpdateBreak(ctx context.Context, b *models.Break) (*models.Break, error)
	FindOpenBreak(ctx context.Context, sessionID string) (*models.Break, error)
	// ListCompleted returns completed sessions with fromDate <= date < toDate,
	// newest date first, with breaks loaded.
	ListCompleted(ctx context.Context, userID, fromDate, toDate string) ([]models.WorkSession, error)
	// Atomic runs fn against a store bound to a single transaction.
	Atomic(ctx context.Context, fn func(Store) error) error
}

// Policy decides which existing sessions block a new start
type Policy string

const (
	// PolicySingleOpen allows several sessions per day (split shifts) as long
	// as at most one is not completed.
	PolicySingleOpen Policy = "single-open"
	// PolicyOnePerDay allows exactly one session per calendar day.
	PolicyOnePerDay Policy = "one-per-day"
)

// ParsePolicy validates a policy name
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicySingleOpen, PolicyOnePerDay:
		return p, nil
	case "":
		return PolicySingleOpen, nil
	}
	return "", &ValidationError{Field: "session_policy", Reason: fmt.Sprintf("unknown policy %q (use %s or %s)", s, PolicySingleOpen, PolicyOnePerDay)}
}

// Clock returns the current time
type Clock func() time.Time

// Options configures a Tracker for one user
type Options struct {
	UserID    string
	CompanyID string
	Policy    Policy
	Location  *time.Location
	Clock     Clock
	Observer  Observer
}

// Tracker drives the work-session state machine for one user. It holds no
// session state of its own: every operation reads the store first.
type Tracker struct {
	store     Store
	userID    string
	companyID string
	policy    Policy
	loc       *time.Location
	clock     Clock
	observer  Observer
}

// New creates a tracker bound to a store and a user
func New(store Store, opts Options) *Tracker {
	t := &Tracker{
		store:     store,
		userID:    opts.UserID,
		companyID: opts.CompanyID,
		policy:    opts.Policy,
		loc:       opts.Location,
		clock:     opts.Clock,
		observer:  opts.Observer,
	}
	if t.policy == "" {
		t.policy = PolicySingleOpen
	}
	if t.loc == nil {
		t.loc = time.Local
	}
	if t.clock == nil {
		t.clock = time.Now
	}
	if t.observer == nil {
		t.observer = NoopObserver{}
	}
	return t
}

// Now returns the tracker clock's current time, normalized for recording
func (t *Tracker) Now() time.Time {
	return Stamp(t.clock())
}

// Location returns the location used to assign calendar dates
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Today returns the calendar date for now in the tracker's location
func (t *Tracker) Today() string {
	return t.Now().In(t.loc).Format(models.DateLayout)
}

// Snapshot is what a view needs to render the current session
type Snapshot struct {
	Session *models.WorkSession
	Elapsed time.Duration
	At      time.Time
}

// Current returns the user's open session, or nil when there is none
func (t *Tracker) Current(ctx context.Context) (*models.WorkSession, error) {
	if err := t.validateUser(); err != nil {
		return nil, err
	}
	return t.store.FindOpenSession(ctx, t.userID)
}

// Snapshot returns the open session together with its elapsed time
func (t *Tracker) Snapshot(ctx context.Context) (Snapshot, error) {
	s, err := t.Current(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	now := t.Now()
	return Snapshot{Session: s, Elapsed: Elapsed(s, now), At: now}, nil
}

// Start opens a new active session for today
func (t *Tracker) Start(ctx context.Context) (*models.WorkSession, error) {
	var created *models.WorkSession
	err := t.observe(ctx, "start", func() (*models.WorkSession, error) {
		if err := t.validateUser(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(t.companyID) == "" {
			return nil, &ValidationError{Field: "company_id", Reason: "required to start a session; run 'jornada init'"}
		}

		now := t.Now()
		date := now.In(t.loc).Format(models.DateLayout)

		err := t.store.Atomic(ctx, func(tx Store) error {
			if err := t.checkCanStart(ctx, tx, date); err != nil {
				return err
			}
			s, err := tx.InsertSession(ctx, NewSession(t.userID, t.companyID, date, now))
			if err != nil {
				return err
			}
			created = s
			return nil
		})
		return created, err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// checkCanStart is the single place the session policy is enforced
func (t *Tracker) checkCanStart(ctx context.Context, tx Store, date string) error {
	open, err := tx.FindOpenSession(ctx, t.userID)
	if err != nil {
		return err
	}
	if open != nil {
		return &DuplicateSessionError{UserID: t.userID, SessionID: open.ID, Date: open.Date, Status: open.Status}
	}

	if t.policy == PolicyOnePerDay {
		existing, err := tx.FindSessionByDate(ctx, t.userID, date)
		if err != nil {
			return err
		}
		if existing != nil {
			return &DuplicateSessionError{UserID: t.userID, SessionID: existing.ID, Date: date, Status: existing.Status}
		}
	}
	return nil
}

// Pause checkpoints the running interval and opens a break
func (t *Tracker) Pause(ctx context.Context, sessionID string) (*models.WorkSession, error) {
	return t.transition(ctx, "pause", sessionID, func(tx Store, current *models.WorkSession, now time.Time) (*models.WorkSession, error) {
		next := current.Clone()
		br, err := ApplyPause(next, now)
		if err != nil {
			return nil, err
		}
		updated, err := tx.UpdateSession(ctx, next, current.Version)
		if err != nil {
			return nil, err
		}
		opened, err := tx.InsertBreak(ctx, updated.ID, br.BreakStart)
		if err != nil {
			return nil, err
		}
		updated.Breaks = append(updated.Breaks, *opened)
		return updated, nil
	})
}

// Resume closes the open break and restarts the active interval
func (t *Tracker) Resume(ctx context.Context, sessionID string) (*models.WorkSession, error) {
	return t.transition(ctx, "resume", sessionID, func(tx Store, current *models.WorkSession, now time.Time) (*models.WorkSession, error) {
		open, err := tx.FindOpenBreak(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		next := current.Clone()
		if err := ApplyResume(next, open, now); err != nil {
			return nil, err
		}
		return t.persist(ctx, tx, current, next, open)
	})
}

// Stop completes the session, closing a dangling break first
func (t *Tracker) Stop(ctx context.Context, sessionID string) (*models.WorkSession, error) {
	return t.transition(ctx, "stop", sessionID, func(tx Store, current *models.WorkSession, now time.Time) (*models.WorkSession, error) {
		var open *models.Break
		if current.Status == models.StatusPaused {
			var err error
			if open, err = tx.FindOpenBreak(ctx, current.ID); err != nil {
				return nil, err
			}
		}
		next := current.Clone()
		if err := ApplyStop(next, open, now); err != nil {
			return nil, err
		}
		return t.persist(ctx, tx, current, next, open)
	})
}

// persist writes the session first, so a concurrent writer is detected
// before the break is touched, then closes the break if there was one.
func (t *Tracker) persist(ctx context.Context, tx Store, current, next *models.WorkSession, closed *models.Break) (*models.WorkSession, error) {
	updated, err := tx.UpdateSession(ctx, next, current.Version)
	if err != nil {
		return nil, err
	}
	if closed == nil {
		return updated, nil
	}
	saved, err := tx.UpdateBreak(ctx, closed)
	if err != nil {
		return nil, err
	}
	for i := range updated.Breaks {
		if updated.Breaks[i].ID == saved.ID {
			updated.Breaks[i] = *saved
		}
	}
	return updated, nil
}

type transitionFunc func(tx Store, current *models.WorkSession, now time.Time) (*models.WorkSession, error)

// transition loads the open session, checks it is the one the caller
// referenced and applies fn inside a transaction. On failure nothing is
// returned, so callers keep displaying their previous state.
func (t *Tracker) transition(ctx context.Context, name, sessionID string, fn transitionFunc) (*models.WorkSession, error) {
	var result *models.WorkSession
	err := t.observe(ctx, name, func() (*models.WorkSession, error) {
		if err := t.validateUser(); err != nil {
			return nil, err
		}
		err := t.store.Atomic(ctx, func(tx Store) error {
			current, err := tx.FindOpenSession(ctx, t.userID)
			if err != nil {
				return err
			}
			if current == nil {
				if sessionID != "" {
					return &SessionMismatchError{Requested: sessionID}
				}
				return ErrNoOpenSession
			}
			if sessionID != "" && sessionID != current.ID {
				return &SessionMismatchError{Requested: sessionID, Current: current.ID}
			}

			updated, err := fn(tx, current, t.Now())
			if err != nil {
				return err
			}
			result = updated
			return nil
		})
		return result, err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// History returns the user's completed sessions for a calendar month,
// newest first
func (t *Tracker) History(ctx context.Context, month time.Month, year int) ([]models.WorkSession, error) {
	if err := t.validateUser(); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, &ValidationError{Field: "month", Reason: fmt.Sprintf("%d is not a month", month)}
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, t.loc)
	to := from.AddDate(0, 1, 0)
	return t.store.ListCompleted(ctx, t.userID, from.Format(models.DateLayout), to.Format(models.DateLayout))
}

// Range returns completed sessions with from <= date < to
func (t *Tracker) Range(ctx context.Context, from, to time.Time) ([]models.WorkSession, error) {
	if err := t.validateUser(); err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, &ValidationError{Field: "range", Reason: "start must be before end"}
	}
	return t.store.ListCompleted(ctx, t.userID, from.In(t.loc).Format(models.DateLayout), to.In(t.loc).Format(models.DateLayout))
}

func (t *Tracker) validateUser() error {
	if strings.TrimSpace(t.userID) == "" {
		return &ValidationError{Field: "user_id", Reason: "required"}
	}
	return nil
}

func (t *Tracker) observe(ctx context.Context, name string, fn func() (*models.WorkSession, error)) error {
	started := time.Now()
	s, err := fn()

	event := Event{Name: name, Duration: time.Since(started), Err: err, StartedAt: started}
	if s != nil {
		event.SessionID = s.ID
		event.Status = string(s.Status)
	}
	t.observer.Observe(ctx, event)
	return err
}
