package tui

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/savor/internal/achievement"
	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/tracker"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	meals    []model.Meal
	unlocked []string
}

func (m *memStore) GetMealsByDateRange(_ context.Context, _ string, start, end time.Time) ([]model.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Meal
	for _, meal := range m.meals {
		if !meal.Date.Before(start) && meal.Date.Before(end) {
			out = append(out, meal)
		}
	}
	return out, nil
}

func (m *memStore) AddMeal(_ context.Context, meal model.Meal) (model.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meal.ID == "" {
		meal.ID = "meal-" + strconv.Itoa(len(m.meals)+1)
	}
	m.meals = append(m.meals, meal)
	return meal, nil
}

func (m *memStore) AllMeals(_ context.Context, _ string) ([]model.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Meal(nil), m.meals...), nil
}

func (m *memStore) SaveUnlocks(_ context.Context, _ string, unlocked []model.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range unlocked {
		m.unlocked = append(m.unlocked, a.ID)
	}
	return nil
}

func newTestApp(t *testing.T, st *memStore, prefs *model.UserPreferences) App {
	t.Helper()
	tr := tracker.New(st)
	t.Cleanup(tr.Close)
	app := NewApp(Options{
		UserID:                "u1",
		Store:                 st,
		Tracker:               tr,
		Engine:                achievement.NewEngine(),
		Preferences:           func() *model.UserPreferences { return prefs },
		CelebrateAchievements: true,
	})
	t.Cleanup(app.Close)
	return app
}

// step runs a command and feeds its message back into the model.
func step(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ := a.Update(cmd())
	return m.(App)
}

func send(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func typeText(a App, s string) App {
	for _, r := range s {
		a, _ = send(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return a
}

func TestRefreshLoadsWeekAndHistory(t *testing.T) {
	st := &memStore{}
	_, _ = st.AddMeal(context.Background(), model.Meal{UserID: "u1", MealType: "cafe", Cost: 30, Date: time.Now()})
	a := newTestApp(t, st, &model.UserPreferences{WeeklyBudget: 200, MealFrequencyPerDay: 1})

	a = step(t, a, refreshCmd(a.opts))

	assert.True(t, a.loaded)
	assert.Len(t, a.history, 1)
	assert.Equal(t, 30.0, a.state.CurrentSpent)
	assert.Equal(t, 170.0, a.state.RemainingCapacity)
	assert.Equal(t, 10, a.ach.TotalPoints, "first meal unlocks first_experience")
	assert.Equal(t, []string{achievement.FirstExperience}, st.unlocked)
	assert.Contains(t, a.flash, "First Experience")
}

func TestLogTabPreviewsImpactOnEveryKeystroke(t *testing.T) {
	st := &memStore{}
	_, _ = st.AddMeal(context.Background(), model.Meal{UserID: "u1", MealType: "casual", Cost: 50, Date: time.Now()})
	a := newTestApp(t, st, &model.UserPreferences{WeeklyBudget: 200})
	a = step(t, a, refreshCmd(a.opts))

	a, _ = send(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.Equal(t, tabLog, a.activeTab)
	assert.Nil(t, a.preview)

	a = typeText(a, "4")
	require.NotNil(t, a.preview)
	assert.Equal(t, 54.0, a.preview.ProjectedSpent)

	a = typeText(a, "0")
	require.NotNil(t, a.preview)
	assert.Equal(t, 90.0, a.preview.ProjectedSpent)
	assert.Equal(t, model.UsageModerate, a.preview.ImpactLevel)

	a = typeText(a, "0")
	require.NotNil(t, a.preview)
	assert.True(t, a.preview.ExceedsCapacity)
}

func TestSubmitMealStoresAndRefreshes(t *testing.T) {
	st := &memStore{}
	a := newTestApp(t, st, &model.UserPreferences{WeeklyBudget: 100})
	a = step(t, a, refreshCmd(a.opts))

	a, _ = send(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	a = typeText(a, "25")
	a, _ = send(a, tea.KeyMsg{Type: tea.KeyTab})
	a = typeText(a, "Birthday")

	a, cmd := send(a, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, a.logging)

	a, cmd = send(a, cmd())
	assert.False(t, a.logging)
	assert.Contains(t, a.flash, "$25.00")
	assert.Empty(t, a.inputs[fieldCost].Value())

	a = step(t, a, cmd)
	assert.Equal(t, 25.0, a.state.CurrentSpent)
	assert.Len(t, st.meals, 1)
}

func TestSubmitMealRejectsBadInput(t *testing.T) {
	a := newTestApp(t, &memStore{}, &model.UserPreferences{WeeklyBudget: 100})
	a = step(t, a, refreshCmd(a.opts))
	a, _ = send(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})

	a, cmd := send(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.NotEmpty(t, a.errMsg)

	a = typeText(a, "12")
	a, cmd = send(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "meal type is required")
	assert.Equal(t, fieldType, a.focus)
}

func TestMissingPreferencesStartsSetup(t *testing.T) {
	a := newTestApp(t, &memStore{}, nil)
	a = step(t, a, refreshCmd(a.opts))

	assert.True(t, a.needSetup)
	assert.NotNil(t, a.setupForm)
	assert.Equal(t, "User preferences not available", a.state.ErrorMessage)
}

func TestDismissLatestAchievement(t *testing.T) {
	st := &memStore{}
	_, _ = st.AddMeal(context.Background(), model.Meal{UserID: "u1", MealType: "cafe", Cost: 5, Date: time.Now()})
	a := newTestApp(t, st, &model.UserPreferences{WeeklyBudget: 100})
	a = step(t, a, refreshCmd(a.opts))
	require.NotNil(t, a.ach.LatestAchievement)

	a, _ = send(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	assert.Nil(t, a.ach.LatestAchievement)
	assert.Equal(t, 10, a.ach.TotalPoints)
}

func TestParseCost(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.5", 12.5, true},
		{" $8 ", 8, true},
		{"0", 0, true},
		{"", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseCost(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSetupValues(t *testing.T) {
	preset := newSetupValues(300, []string{"cafe"}, true, "")
	assert.Equal(t, 300.0, preset.capacityChoice)
	assert.Empty(t, preset.customAmount)

	custom := newSetupValues(275.5, nil, false, "terminal")
	assert.Equal(t, customCapacity, custom.capacityChoice)
	assert.Equal(t, "275.5", custom.customAmount)

	v, err := custom.wizardValues()
	require.NoError(t, err)
	assert.Equal(t, 275.5, v.WeeklyCapacity)

	custom.customAmount = "-4"
	_, err = custom.wizardValues()
	assert.Error(t, err)
}

func TestTruncStr(t *testing.T) {
	assert.Equal(t, "short", truncStr("short", 10))
	assert.Equal(t, "celebra…", truncStr("celebration", 8))
}
