// Package achievement evaluates the gamification rule catalogue and keeps an
// append-only ledger of unlocked achievements.
package achievement

import (
	"sync"
	"time"

	"github.com/theirongolddev/savor/internal/model"
)

// Engine owns one user's AchievementState.
//
// Evaluation is synchronous and does no I/O. Callers persist the unlocks
// returned by CheckAchievements themselves.
type Engine struct {
	rules []Rule
	now   func() time.Time

	mu       sync.Mutex
	state    model.AchievementState
	unlocked map[string]struct{}
}

// NewEngine returns an engine over the default catalogue.
func NewEngine() *Engine {
	return NewEngineWithRules(Catalog(), time.Now)
}

// NewEngineWithRules returns an engine over a custom rule set and clock.
func NewEngineWithRules(rules []Rule, now func() time.Time) *Engine {
	available := make([]model.Achievement, len(rules))
	for i, r := range rules {
		available[i] = r.Achievement
	}
	return &Engine{
		rules:    rules,
		now:      now,
		unlocked: make(map[string]struct{}),
		state: model.AchievementState{
			AvailableAchievements: available,
			CurrentLevel:          LevelFor(0),
		},
	}
}

// CheckAchievements evaluates every rule not yet unlocked and returns the
// newly unlocked achievements in catalogue order. Repeating a call with the
// same inputs unlocks nothing.
func (e *Engine) CheckAchievements(state model.WeeklyInvestmentState, meals []model.Meal) []model.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.unlocked) == len(e.rules) {
		return nil
	}

	facts := Gather(state, meals)
	now := e.now()

	var fresh []model.Achievement
	for _, r := range e.rules {
		if _, done := e.unlocked[r.Achievement.ID]; done {
			continue
		}
		if !r.Satisfied(facts) {
			continue
		}
		a := e.unlockLocked(r.Achievement, now)
		fresh = append(fresh, a)
	}
	return fresh
}

// Restore replays a persisted ledger in order. Unknown or repeated ids are skipped.
// The latest achievement is left unset so restored unlocks are not re-announced.
func (e *Engine) Restore(unlocks []model.Unlock) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, u := range unlocks {
		if _, done := e.unlocked[u.AchievementID]; done {
			continue
		}
		if r, ok := e.ruleLocked(u.AchievementID); ok {
			e.unlockLocked(r.Achievement, u.UnlockedAt)
		}
	}
	e.state.LatestAchievement = nil
}

// DismissLatestAchievement clears LatestAchievement only.
func (e *Engine) DismissLatestAchievement() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.LatestAchievement = nil
}

// State returns a deep copy of the current achievement state.
func (e *Engine) State() model.AchievementState {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	s.UnlockedAchievements = append([]model.Achievement(nil), e.state.UnlockedAchievements...)
	s.AvailableAchievements = make([]model.Achievement, len(e.state.AvailableAchievements))
	for i, a := range e.state.AvailableAchievements {
		if u, ok := e.findUnlockedLocked(a.ID); ok {
			a = u
		}
		s.AvailableAchievements[i] = a
	}
	if e.state.LatestAchievement != nil {
		latest := *e.state.LatestAchievement
		s.LatestAchievement = &latest
	}
	return s
}

// Progress returns the level progress for the current point total.
func (e *Engine) Progress() LevelProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ProgressFor(e.state.TotalPoints)
}

func (e *Engine) unlockLocked(a model.Achievement, at time.Time) model.Achievement {
	stamp := at
	a.IsUnlocked = true
	a.UnlockedAt = &stamp

	e.unlocked[a.ID] = struct{}{}
	e.state.UnlockedAchievements = append(e.state.UnlockedAchievements, a)
	e.state.TotalPoints += a.Points
	e.state.CurrentLevel = LevelFor(e.state.TotalPoints)
	latest := a
	e.state.LatestAchievement = &latest
	return a
}

func (e *Engine) ruleLocked(id string) (Rule, bool) {
	for _, r := range e.rules {
		if r.Achievement.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

func (e *Engine) findUnlockedLocked(id string) (model.Achievement, bool) {
	if _, ok := e.unlocked[id]; !ok {
		return model.Achievement{}, false
	}
	for _, a := range e.state.UnlockedAchievements {
		if a.ID == id {
			return a, true
		}
	}
	return model.Achievement{}, false
}
