package setup

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	w := New()
	s := w.State()

	assert.Equal(t, StepCapacity, s.CurrentStep)
	assert.Equal(t, 200.0, s.WeeklyCapacity)
	assert.Empty(t, s.ExperiencePreferences)
	assert.True(t, s.CelebrateAchievements)
	assert.False(t, s.IsCompleted)
	assert.Nil(t, s.CompletedAt)
	assert.True(t, w.CanProceed())
}

func TestCanProceed_CapacityStep(t *testing.T) {
	w := New()
	w.UpdateWeeklyCapacity(0)
	assert.False(t, w.CanProceed())

	w.UpdateWeeklyCapacity(-20)
	assert.Equal(t, 0.0, w.State().WeeklyCapacity)
	assert.False(t, w.CanProceed())

	w.UpdateWeeklyCapacity(math.Inf(1))
	assert.Equal(t, 0.0, w.State().WeeklyCapacity)
	assert.False(t, w.CanProceed())

	w.UpdateWeeklyCapacity(150)
	assert.True(t, w.CanProceed())
}

func TestCanProceed_PreferencesStep(t *testing.T) {
	s := State{CurrentStep: StepPreferences, ExperiencePreferences: map[string]struct{}{}}
	assert.False(t, s.CanProceed())

	s.ExperiencePreferences["casual"] = struct{}{}
	assert.True(t, s.CanProceed())
}

func TestCanProceed_ReviewAlwaysTrue(t *testing.T) {
	s := State{CurrentStep: StepReview}
	assert.True(t, s.CanProceed())
}

func TestStepNavigation_Clamps(t *testing.T) {
	w := New()
	w.PreviousStep()
	assert.Equal(t, StepCapacity, w.Step())

	w.NextStep()
	w.NextStep()
	w.NextStep()
	assert.Equal(t, StepReview, w.Step())
	assert.InDelta(t, 1.0, w.Progress(), 1e-9)

	w.PreviousStep()
	assert.Equal(t, StepPreferences, w.Step())
}

func TestPreferences(t *testing.T) {
	w := New()
	w.UpdateExperiencePreferences([]string{"street_food", " cafe ", "", "street_food"})
	assert.Equal(t, []string{"cafe", "street_food"}, w.Preferences())

	w.ToggleExperience("cafe")
	w.ToggleExperience("fine_dining")
	assert.Equal(t, []string{"fine_dining", "street_food"}, w.Preferences())
}

func TestToggleExperience_TrimsBeforeLookup(t *testing.T) {
	w := New()
	w.ToggleExperience(" cafe")
	assert.Equal(t, []string{"cafe"}, w.Preferences())

	w.ToggleExperience(" cafe")
	assert.Empty(t, w.Preferences())

	w.ToggleExperience("   ")
	assert.Empty(t, w.Preferences())
}

func TestToggleCelebrations(t *testing.T) {
	w := New()
	w.ToggleCelebrations()
	assert.False(t, w.State().CelebrateAchievements)
	w.ToggleCelebrations()
	assert.True(t, w.State().CelebrateAchievements)
}

func TestCompleteSetup(t *testing.T) {
	var got []Result
	w := New(SinkFunc(func(r Result) error {
		got = append(got, r)
		return nil
	}))
	now := time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	_, err := w.CompleteSetup()
	require.ErrorIs(t, err, ErrNotFinalStep)

	w.UpdateWeeklyCapacity(250)
	w.NextStep()
	w.UpdateExperiencePreferences([]string{"casual"})
	w.NextStep()
	w.ToggleCelebrations()

	res, err := w.CompleteSetup()
	require.NoError(t, err)
	assert.Equal(t, 250.0, res.WeeklyCapacity)
	assert.Equal(t, []string{"casual"}, res.ExperiencePreferences)
	assert.False(t, res.CelebrateAchievements)
	assert.Equal(t, now, res.CompletedAt)

	s := w.State()
	assert.True(t, s.IsCompleted)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, now, *s.CompletedAt)
	require.Len(t, got, 1)
}

func TestCompleteSetup_InvalidValues(t *testing.T) {
	w := New()
	w.NextStep()
	w.NextStep()

	_, err := w.CompleteSetup()
	assert.ErrorIs(t, err, ErrCannotProceed)
	assert.False(t, w.State().IsCompleted)
}

func TestCompleteSetup_SinkError(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0
	w := New(
		SinkFunc(func(Result) error { calls++; return boom }),
		SinkFunc(func(Result) error { calls++; return nil }),
	)
	w.UpdateExperiencePreferences([]string{"cafe"})
	w.NextStep()
	w.NextStep()

	_, err := w.CompleteSetup()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.True(t, w.State().IsCompleted)
}

func TestReset(t *testing.T) {
	w := New()
	w.UpdateWeeklyCapacity(90)
	w.UpdateExperiencePreferences([]string{"cafe"})
	w.ToggleCelebrations()
	w.NextStep()
	w.NextStep()
	_, err := w.CompleteSetup()
	require.NoError(t, err)

	w.Reset()
	s := w.State()
	assert.Equal(t, StepCapacity, s.CurrentStep)
	assert.Equal(t, DefaultWeeklyCapacity, s.WeeklyCapacity)
	assert.Empty(t, s.ExperiencePreferences)
	assert.True(t, s.CelebrateAchievements)
	assert.False(t, s.IsCompleted)
	assert.Nil(t, s.CompletedAt)
}

func TestState_IsCopy(t *testing.T) {
	w := New()
	s := w.State()
	s.ExperiencePreferences["leak"] = struct{}{}
	assert.Empty(t, w.Preferences())
}

func TestSubmit(t *testing.T) {
	var got Result
	w := New(SinkFunc(func(r Result) error { got = r; return nil }))

	res, err := w.Submit(Values{
		WeeklyCapacity:        150,
		ExperiencePreferences: []string{"street_food", "cafe", " "},
		CelebrateAchievements: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.WeeklyCapacity)
	assert.Equal(t, []string{"cafe", "street_food"}, res.ExperiencePreferences)
	assert.False(t, res.CelebrateAchievements)
	assert.Equal(t, res, got)
	assert.True(t, w.State().IsCompleted)
}

func TestSubmit_StopsAtInvalidStep(t *testing.T) {
	w := New()

	_, err := w.Submit(Values{WeeklyCapacity: 0, ExperiencePreferences: []string{"cafe"}})
	assert.ErrorIs(t, err, ErrCannotProceed)
	assert.Equal(t, StepCapacity, w.Step())

	_, err = w.Submit(Values{WeeklyCapacity: 100})
	assert.ErrorIs(t, err, ErrCannotProceed)
	assert.Equal(t, StepPreferences, w.Step())
	assert.False(t, w.State().IsCompleted)
}
