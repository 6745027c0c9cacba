// Package tracker owns the rolling weekly dining budget state for one user session.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theirongolddev/savor/internal/impact"
	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/pipeline"
)

// Error messages surfaced through WeeklyInvestmentState.ErrorMessage.
const (
	msgPreferencesUnavailable = "User preferences not available"
	msgLoadFailedPrefix       = "Failed to load investment data: "
)

var (
	// ErrPreferencesUnavailable is returned by Refresh when no preferences are supplied.
	ErrPreferencesUnavailable = errors.New("user preferences not available")
	// ErrClosed is returned by mutating calls after Close.
	ErrClosed = errors.New("tracker closed")
	// ErrInvalidCapacity is returned for negative capacities.
	ErrInvalidCapacity = errors.New("weekly capacity must not be negative")
)

// MealHistorySource supplies a user's meals within [start, end).
type MealHistorySource interface {
	GetMealsByDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Meal, error)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithWeekStart sets the weekday tracked weeks begin on. Defaults to Monday.
func WithWeekStart(d time.Weekday) Option {
	return func(t *Tracker) { t.weekday = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithTargetExperiences pins the weekly experience target instead of deriving
// it from the meal frequency preference.
func WithTargetExperiences(n int) Option {
	return func(t *Tracker) { t.targetOverride = n }
}

// Tracker is the single writer of a WeeklyInvestmentState.
//
// Writers serialize on mu. Every completed write publishes a fresh copy of the
// state through an atomic pointer, so State never waits on a refresh in flight
// and always observes the latest completed write.
type Tracker struct {
	source         MealHistorySource
	weekday        time.Weekday
	now            func() time.Time
	targetOverride int

	snapshot atomic.Pointer[model.WeeklyInvestmentState]

	mu        sync.Mutex
	state     model.WeeklyInvestmentState
	issued    uint64 // last refresh generation started
	settled   uint64 // newest refresh generation that completed, applied or failed
	closed    bool
	nextSubID int
	subs      map[int]chan model.WeeklyInvestmentState
}

// New returns a tracker reading meals from src.
func New(src MealHistorySource, opts ...Option) *Tracker {
	t := &Tracker{
		source:  src,
		weekday: time.Monday,
		now:     time.Now,
		subs:    make(map[int]chan model.WeeklyInvestmentState),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.state.WeekStartDate = pipeline.WeekStart(t.now(), t.weekday)
	t.state.TargetExperiences = t.targetOverride
	t.publishLocked()
	return t
}

// State returns a copy of the most recently completed state.
func (t *Tracker) State() model.WeeklyInvestmentState {
	return *t.snapshot.Load()
}

// Refresh reloads the current week's meals and recomputes the state.
//
// A failed fetch keeps the previous numbers and records ErrorMessage. When
// several refreshes overlap, a completion older than one already settled is
// discarded whole, so the state never mixes two fetches. IsLoading stays set
// while any issued refresh has not settled. After Close the call is ignored.
func (t *Tracker) Refresh(ctx context.Context, userID string, prefs *model.UserPreferences) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if prefs == nil {
		t.state.IsLoading = t.issued > t.settled
		t.state.ErrorMessage = msgPreferencesUnavailable
		t.publishLocked()
		t.mu.Unlock()
		return ErrPreferencesUnavailable
	}

	t.issued++
	gen := t.issued
	start := pipeline.WeekStart(t.now(), t.weekday)
	end := start.AddDate(0, 0, 7)
	t.state.IsLoading = true
	t.state.ErrorMessage = ""
	t.publishLocked()
	t.mu.Unlock()

	meals, err := t.source.GetMealsByDateRange(ctx, userID, start, end)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	if gen <= t.settled {
		slog.Debug("Discarding stale refresh", "user", userID, "generation", gen, "settled", t.settled)
		if err != nil {
			return fmt.Errorf("loading meals: %w", err)
		}
		return nil
	}
	t.settled = gen

	if err != nil {
		// A newer refresh is still in flight and will settle the state.
		if gen != t.issued {
			return fmt.Errorf("loading meals: %w", err)
		}
		t.state.IsLoading = false
		t.state.ErrorMessage = msgLoadFailedPrefix + err.Error()
		t.publishLocked()
		slog.Warn("Failed to refresh weekly state", "user", userID, "error", err)
		return fmt.Errorf("loading meals: %w", err)
	}

	// Guard against sources that ignore the range.
	inWeek := pipeline.FilterByTime(meals, start, end)

	next := t.state
	next.WeekStartDate = start
	next.WeeklyCapacity = prefs.WeeklyBudget
	next.CurrentSpent = pipeline.SumCost(inWeek)
	next.RemainingCapacity = model.Remaining(next.WeeklyCapacity, next.CurrentSpent)
	next.ExperiencesLogged = len(inWeek)
	next.TargetExperiences = prefs.WeeklyTarget()
	if t.targetOverride > 0 {
		next.TargetExperiences = t.targetOverride
	}
	next.IsLoading = t.issued > t.settled
	next.ErrorMessage = ""
	next.LastUpdated = t.now()

	t.state = next
	t.publishLocked()

	slog.Debug("Refreshed weekly state",
		"user", userID,
		"spent", next.CurrentSpent,
		"capacity", next.WeeklyCapacity,
		"experiences", next.ExperiencesLogged,
	)
	return nil
}

// UpdateWeeklyCapacity sets the capacity and recomputes the remaining amount
// without re-fetching meals.
func (t *Tracker) UpdateWeeklyCapacity(value float64) error {
	if value < 0 {
		return ErrInvalidCapacity
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}

	t.state.WeeklyCapacity = value
	t.state.RemainingCapacity = model.Remaining(value, t.state.CurrentSpent)
	t.publishLocked()
	return nil
}

// Rollover moves the tracked window to the week containing now. Spending
// counters reset until the next Refresh. It reports whether the window moved.
func (t *Tracker) Rollover(now time.Time) bool {
	start := pipeline.WeekStart(now, t.weekday)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || start.Equal(t.state.WeekStartDate) {
		return false
	}

	t.state.WeekStartDate = start
	t.state.CurrentSpent = 0
	t.state.ExperiencesLogged = 0
	t.state.RemainingCapacity = t.state.WeeklyCapacity
	t.publishLocked()
	return true
}

// CalculateMealImpact previews cost against the current state. It never mutates the tracker.
func (t *Tracker) CalculateMealImpact(cost float64) model.InvestmentImpact {
	return impact.Classify(t.State(), cost)
}

// Subscribe returns a channel that receives the state after every completed
// write. Slow subscribers miss updates rather than block the tracker.
func (t *Tracker) Subscribe() (<-chan model.WeeklyInvestmentState, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan model.WeeklyInvestmentState, 8)
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	t.nextSubID++
	id := t.nextSubID
	t.subs[id] = ch

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if c, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(c)
		}
	}
}

// Close tears the tracker down. In-flight refreshes complete without
// touching state, and subscriber channels are closed.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, ch := range t.subs {
		close(ch)
		delete(t.subs, id)
	}
}

func (t *Tracker) publishLocked() {
	snap := t.state
	t.snapshot.Store(&snap)

	for _, ch := range t.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
