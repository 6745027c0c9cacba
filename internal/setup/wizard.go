// Package setup implements the three-step budget setup wizard.
package setup

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Steps of the wizard.
const (
	StepCapacity    = 0
	StepPreferences = 1
	StepReview      = 2

	stepCount = 3
)

// DefaultWeeklyCapacity is the capacity a fresh wizard starts with.
const DefaultWeeklyCapacity = 200.0

var (
	// ErrNotFinalStep is returned by CompleteSetup before the review step.
	ErrNotFinalStep = errors.New("setup can only be completed from the review step")
	// ErrCannotProceed is returned when collected values fail validation.
	ErrCannotProceed = errors.New("setup values are incomplete")
)

// CapacityPresets are the weekly amounts offered on the capacity step.
var CapacityPresets = []float64{100, 150, 200, 300, 500}

// ExperienceOption is a selectable dining preference.
type ExperienceOption struct {
	Key   string
	Label string
}

// ExperienceOptions lists the preferences offered on step 1.
var ExperienceOptions = []ExperienceOption{
	{Key: "fine_dining", Label: "Fine dining"},
	{Key: "casual", Label: "Casual restaurants"},
	{Key: "street_food", Label: "Street food"},
	{Key: "cafe", Label: "Cafes & brunch"},
	{Key: "international", Label: "International cuisine"},
	{Key: "fast_casual", Label: "Quick bites"},
}

// State is the wizard's collected values.
type State struct {
	CurrentStep           int
	WeeklyCapacity        float64
	ExperiencePreferences map[string]struct{}
	CelebrateAchievements bool
	IsCompleted           bool
	CompletedAt           *time.Time
}

// Result is what a completed wizard hands to its sink.
type Result struct {
	WeeklyCapacity        float64
	ExperiencePreferences []string // sorted
	CelebrateAchievements bool
	CompletedAt           time.Time
}

// Sink receives the values of a completed setup, typically the preferences
// store and the weekly tracker.
type Sink interface {
	ApplySetup(Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Result) error

// ApplySetup calls f.
func (f SinkFunc) ApplySetup(r Result) error { return f(r) }

// Wizard is a linear state machine. It is not safe for concurrent use; one
// wizard belongs to one setup session.
type Wizard struct {
	state State
	sinks []Sink
	now   func() time.Time
}

// New returns a wizard at step 0 with default values. Sinks are called in
// order by CompleteSetup.
func New(sinks ...Sink) *Wizard {
	w := &Wizard{sinks: sinks, now: time.Now}
	w.Reset()
	return w
}

// State returns a copy of the wizard state.
func (w *Wizard) State() State {
	s := w.state
	s.ExperiencePreferences = make(map[string]struct{}, len(w.state.ExperiencePreferences))
	for k := range w.state.ExperiencePreferences {
		s.ExperiencePreferences[k] = struct{}{}
	}
	return s
}

// Step returns the current step index.
func (w *Wizard) Step() int { return w.state.CurrentStep }

// Preferences returns the selected preferences sorted.
func (w *Wizard) Preferences() []string {
	out := make([]string, 0, len(w.state.ExperiencePreferences))
	for k := range w.state.ExperiencePreferences {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CanProceed reports whether the current step's values allow moving on.
func (w *Wizard) CanProceed() bool {
	return w.state.CanProceed()
}

// CanProceed evaluates the step's validation rule.
func (s State) CanProceed() bool {
	switch s.CurrentStep {
	case StepCapacity:
		return s.WeeklyCapacity > 0
	case StepPreferences:
		return len(s.ExperiencePreferences) > 0
	default:
		return true
	}
}

// Progress returns the fraction of the wizard reached, for progress bars.
func (w *Wizard) Progress() float64 {
	return float64(w.state.CurrentStep+1) / stepCount
}

// UpdateWeeklyCapacity sets the capacity. Negative or non-finite values are
// stored as 0, which blocks the capacity step.
func (w *Wizard) UpdateWeeklyCapacity(v float64) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	w.state.WeeklyCapacity = v
}

// UpdateExperiencePreferences replaces the preference set. Blank entries are dropped.
func (w *Wizard) UpdateExperiencePreferences(prefs []string) {
	set := make(map[string]struct{}, len(prefs))
	for _, p := range prefs {
		if p = strings.TrimSpace(p); p != "" {
			set[p] = struct{}{}
		}
	}
	w.state.ExperiencePreferences = set
}

// ToggleExperience adds or removes one preference.
func (w *Wizard) ToggleExperience(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if _, ok := w.state.ExperiencePreferences[key]; ok {
		delete(w.state.ExperiencePreferences, key)
		return
	}
	w.state.ExperiencePreferences[key] = struct{}{}
}

// ToggleCelebrations flips CelebrateAchievements.
func (w *Wizard) ToggleCelebrations() {
	w.state.CelebrateAchievements = !w.state.CelebrateAchievements
}

// NextStep advances one step. It is a no-op at the last step. Validation is
// left to the caller through CanProceed.
func (w *Wizard) NextStep() {
	if w.state.CurrentStep < StepReview {
		w.state.CurrentStep++
	}
}

// PreviousStep goes back one step. It is a no-op at step 0.
func (w *Wizard) PreviousStep() {
	if w.state.CurrentStep > StepCapacity {
		w.state.CurrentStep--
	}
}

// CompleteSetup finishes the wizard from the review step and hands the
// values to every sink. The wizard is marked completed even if a sink fails;
// the first sink error is returned.
func (w *Wizard) CompleteSetup() (Result, error) {
	if w.state.CurrentStep != StepReview {
		return Result{}, ErrNotFinalStep
	}
	if w.state.WeeklyCapacity <= 0 || len(w.state.ExperiencePreferences) == 0 {
		return Result{}, ErrCannotProceed
	}

	now := w.now()
	w.state.IsCompleted = true
	w.state.CompletedAt = &now

	res := Result{
		WeeklyCapacity:        w.state.WeeklyCapacity,
		ExperiencePreferences: w.Preferences(),
		CelebrateAchievements: w.state.CelebrateAchievements,
		CompletedAt:           now,
	}

	var firstErr error
	for _, s := range w.sinks {
		if err := s.ApplySetup(res); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("applying setup: %w", err)
		}
	}
	return res, firstErr
}

// Reset restores every field to its default, including step 0.
func (w *Wizard) Reset() {
	w.state = State{
		CurrentStep:           StepCapacity,
		WeeklyCapacity:        DefaultWeeklyCapacity,
		ExperiencePreferences: make(map[string]struct{}),
		CelebrateAchievements: true,
	}
}

// Values are answers collected outside the wizard, e.g. by a form or flags.
type Values struct {
	WeeklyCapacity        float64
	ExperiencePreferences []string
	CelebrateAchievements bool
}

// Submit walks a reset wizard through every step with v and completes it.
// It stops at the first step whose values do not validate.
func (w *Wizard) Submit(v Values) (Result, error) {
	w.Reset()

	w.UpdateWeeklyCapacity(v.WeeklyCapacity)
	if !w.CanProceed() {
		return Result{}, fmt.Errorf("%w: weekly capacity must be positive", ErrCannotProceed)
	}
	w.NextStep()

	w.UpdateExperiencePreferences(v.ExperiencePreferences)
	if !w.CanProceed() {
		return Result{}, fmt.Errorf("%w: choose at least one experience", ErrCannotProceed)
	}
	w.NextStep()

	if w.state.CelebrateAchievements != v.CelebrateAchievements {
		w.ToggleCelebrations()
	}
	return w.CompleteSetup()
}
