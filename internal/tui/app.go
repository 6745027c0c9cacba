// Package tui provides the interactive Bubble Tea dashboard for savor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/savor/internal/achievement"
	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/pipeline"
	"github.com/theirongolddev/savor/internal/setup"
	"github.com/theirongolddev/savor/internal/tracker"
	"github.com/theirongolddev/savor/internal/tui/components"
	"github.com/theirongolddev/savor/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Store is the persistence the dashboard reads and writes.
type Store interface {
	AddMeal(ctx context.Context, m model.Meal) (model.Meal, error)
	AllMeals(ctx context.Context, userID string) ([]model.Meal, error)
	SaveUnlocks(ctx context.Context, userID string, unlocked []model.Achievement) error
}

// Options wires the dashboard to the budget engine.
type Options struct {
	UserID      string
	Store       Store
	Tracker     *tracker.Tracker
	Engine      *achievement.Engine
	Preferences func() *model.UserPreferences
	WeekStart   time.Weekday

	// SetupSink persists completed setup values. The tracker capacity is
	// updated separately.
	SetupSink             setup.Sink
	ExperiencePreferences []string
	CelebrateAchievements bool
	SaveTheme             func(name string) error
	NeedSetup             bool
}

// stateMsg carries a tracker state change.
type stateMsg struct {
	state model.WeeklyInvestmentState
	ok    bool
}

// refreshedMsg is sent when a refresh and achievement check complete.
type refreshedMsg struct {
	meals    []model.Meal
	unlocked []model.Achievement
	err      error
}

// mealLoggedMsg is sent after a meal is stored.
type mealLoggedMsg struct {
	meal model.Meal
	err  error
}

// Tab indexes.
const (
	tabWeek = iota
	tabLog
	tabAchievements
	tabHistory
)

// Log form fields.
const (
	fieldCost = iota
	fieldType
	fieldNotes
	fieldCount
)

const (
	minTerminalWidth = 70
	maxContentWidth  = 140
	minContentHeight = 5
	historyRows      = 12
	refreshTimeout   = 10 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	state   model.WeeklyInvestmentState
	ach     model.AchievementState
	history []model.Meal
	loaded  bool

	updates     <-chan model.WeeklyInvestmentState
	unsubscribe func()

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model
	flash     string
	errMsg    string

	// Log tab
	inputs  []textinput.Model
	focus   int
	preview *model.InvestmentImpact
	logging bool

	// Setup (huh form driving the wizard)
	setupForm    *huh.Form
	setupVals    *setupValues
	wizard       *setup.Wizard
	needSetup    bool
	setupOffered bool
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Preferences == nil {
		opts.Preferences = func() *model.UserPreferences { return nil }
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	updates, unsubscribe := opts.Tracker.Subscribe()

	sinks := []setup.Sink{setup.SinkFunc(func(r setup.Result) error {
		return opts.Tracker.UpdateWeeklyCapacity(r.WeeklyCapacity)
	})}
	if opts.SetupSink != nil {
		sinks = append([]setup.Sink{opts.SetupSink}, sinks...)
	}

	return App{
		opts:        opts,
		state:       opts.Tracker.State(),
		ach:         opts.Engine.State(),
		updates:     updates,
		unsubscribe: unsubscribe,
		spinner:     sp,
		inputs:      newLogInputs(),
		wizard:      setup.New(sinks...),
		needSetup:   opts.NeedSetup,
	}
}

func newLogInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)

	cost := textinput.New()
	cost.Placeholder = "0.00"
	cost.Prompt = "$ "
	cost.CharLimit = 12
	cost.Width = 14
	cost.Focus()
	inputs[fieldCost] = cost

	typ := textinput.New()
	typ.Placeholder = "casual, cafe, celebration…"
	typ.CharLimit = 40
	typ.Width = 32
	inputs[fieldType] = typ

	notes := textinput.New()
	notes.Placeholder = "optional"
	notes.CharLimit = 200
	notes.Width = 48
	inputs[fieldNotes] = notes

	return inputs
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		textinput.Blink,
		waitForState(a.updates),
		refreshCmd(a.opts),
	)
}

// Close releases the tracker subscription.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if !a.loaded {
			return a, nil
		}
		return a.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case stateMsg:
		if !msg.ok {
			return a, nil
		}
		a.state = msg.state
		a.recomputePreview()
		return a, waitForState(a.updates)

	case refreshedMsg:
		a.loaded = true
		a.state = a.opts.Tracker.State()
		a.ach = a.opts.Engine.State()
		if msg.meals != nil {
			a.history = msg.meals
		}
		a.errMsg = ""
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			if errors.Is(msg.err, tracker.ErrPreferencesUnavailable) {
				a.needSetup = true
			}
		}
		if len(msg.unlocked) > 0 && a.opts.CelebrateAchievements {
			a.flash = celebrationText(msg.unlocked)
		}
		a.recomputePreview()

		if a.needSetup && !a.setupOffered && a.setupForm == nil {
			a.setupOffered = true
			return a, a.startSetup()
		}
		return a, nil

	case mealLoggedMsg:
		a.logging = false
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			return a, nil
		}
		a.flash = fmt.Sprintf("Logged %s %s", cli.FormatCost(msg.meal.Cost), msg.meal.MealType)
		a.inputs = newLogInputs()
		a.focus = fieldCost
		a.preview = nil
		return a, refreshCmd(a.opts)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabLog {
		return a.updateInputs(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// The log form owns printable keys while it is active.
	if a.activeTab == tabLog {
		switch key {
		case "esc":
			a.activeTab = tabWeek
			return a, nil
		case "tab", "down":
			a.setFocus((a.focus + 1) % fieldCount)
			return a, nil
		case "shift+tab", "up":
			a.setFocus((a.focus + fieldCount - 1) % fieldCount)
			return a, nil
		case "enter":
			return a.submitMeal()
		}
		return a.updateInputs(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		return a, refreshCmd(a.opts)
	case "d":
		a.opts.Engine.DismissLatestAchievement()
		a.ach = a.opts.Engine.State()
		a.flash = ""
		return a, nil
	case "S":
		return a, a.startSetup()
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
			a.activeTab = tab
			if tab == tabLog {
				a.setFocus(fieldCost)
			}
		}
	}
	return a, nil
}

func (a *App) setFocus(i int) {
	a.focus = i
	for j := range a.inputs {
		if j == i {
			a.inputs[j].Focus()
		} else {
			a.inputs[j].Blur()
		}
	}
}

// updateInputs forwards msg to the focused input and re-classifies the cost
// on every keystroke.
func (a App) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	a.recomputePreview()
	return a, cmd
}

func (a *App) recomputePreview() {
	cost, ok := parseCost(a.inputs[fieldCost].Value())
	if !ok {
		a.preview = nil
		return
	}
	imp := a.opts.Tracker.CalculateMealImpact(cost)
	a.preview = &imp
}

// parseCost accepts a non-negative amount with an optional dollar sign.
func parseCost(s string) (float64, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !model.ValidCost(f) {
		return 0, false
	}
	return f, true
}

func (a App) submitMeal() (tea.Model, tea.Cmd) {
	if a.logging {
		return a, nil
	}
	cost, ok := parseCost(a.inputs[fieldCost].Value())
	if !ok {
		a.errMsg = "Enter a cost like 24.50"
		a.setFocus(fieldCost)
		return a, nil
	}
	mealType := strings.TrimSpace(a.inputs[fieldType].Value())
	if mealType == "" {
		a.errMsg = "Enter a meal type"
		a.setFocus(fieldType)
		return a, nil
	}

	a.errMsg = ""
	a.logging = true
	meal := model.Meal{
		UserID:   a.opts.UserID,
		MealType: mealType,
		Cost:     cost,
		Date:     time.Now(),
		Notes:    strings.TrimSpace(a.inputs[fieldNotes].Value()),
	}
	return a, logMealCmd(a.opts.Store, meal)
}

func (a *App) startSetup() tea.Cmd {
	prefs := a.opts.ExperiencePreferences
	vals := newSetupValues(a.state.WeeklyCapacity, prefs, a.opts.CelebrateAchievements, theme.Active.Name)
	a.setupVals = &vals
	a.setupForm = newSetupForm(a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupForm = nil
		a.needSetup = false
		return a.finishSetup()
	case huh.StateAborted:
		a.setupForm = nil
		a.needSetup = false
		return a, nil
	}
	return a, cmd
}

// finishSetup walks the wizard with the form answers, applying them to the
// config and the tracker, then reloads.
func (a App) finishSetup() (tea.Model, tea.Cmd) {
	vals, err := a.setupVals.wizardValues()
	if err != nil {
		a.errMsg = err.Error()
		return a, nil
	}
	res, err := a.wizard.Submit(vals)
	if err != nil {
		a.errMsg = err.Error()
	}
	if !res.CompletedAt.IsZero() {
		a.opts.ExperiencePreferences = res.ExperiencePreferences
		a.opts.CelebrateAchievements = res.CelebrateAchievements
	}

	if a.setupVals.themeName != theme.Active.Name {
		theme.SetActive(a.setupVals.themeName)
		if a.opts.SaveTheme != nil {
			if err := a.opts.SaveTheme(a.setupVals.themeName); err != nil {
				a.errMsg = err.Error()
			}
		}
	}
	if err == nil {
		a.flash = "Weekly capacity set to " + cli.FormatCost(res.WeeklyCapacity)
	}
	return a, refreshCmd(a.opts)
}

// ─── Commands ───────────────────────────────────────────────────

func waitForState(ch <-chan model.WeeklyInvestmentState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		return stateMsg{state: s, ok: ok}
	}
}

// refreshCmd reloads the week and history, then evaluates achievements and
// persists new unlocks.
func refreshCmd(o Options) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		refreshErr := o.Tracker.Refresh(ctx, o.UserID, o.Preferences())

		meals, err := o.Store.AllMeals(ctx, o.UserID)
		if err != nil {
			return refreshedMsg{err: fmt.Errorf("loading meal history: %w", err)}
		}
		if refreshErr != nil {
			return refreshedMsg{meals: meals, err: refreshErr}
		}

		unlocked := o.Engine.CheckAchievements(o.Tracker.State(), meals)
		if err := o.Store.SaveUnlocks(ctx, o.UserID, unlocked); err != nil {
			return refreshedMsg{meals: meals, unlocked: unlocked, err: err}
		}
		return refreshedMsg{meals: meals, unlocked: unlocked}
	}
}

func logMealCmd(st Store, meal model.Meal) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		saved, err := st.AddMeal(ctx, meal)
		return mealLoggedMsg{meal: saved, err: err}
	}
}

func celebrationText(unlocked []model.Achievement) string {
	titles := make([]string, len(unlocked))
	points := 0
	for i, u := range unlocked {
		titles[i] = u.Title
		points += u.Points
	}
	return fmt.Sprintf("★ Unlocked %s (+%d pts)", strings.Join(titles, ", "), points)
}

// ─── Views ──────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  savor needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	body := logoStyle.Render("◈ savor") + subtitleStyle.Render(" · Weekly dining budget") +
		"\n\n" + a.spinner.View() + subtitleStyle.Render(" Loading this week…")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body))
}

func (a App) viewHelp() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Highlight).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	bindings := []struct{ key, desc string }{
		{"w l a h", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"tab", "Next field (Log)"},
		{"enter", "Log meal (Log)"},
		{"esc", "Leave the Log form"},
		{"d", "Dismiss latest achievement"},
		{"r", "Refresh"},
		{"S", "Run budget setup"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	if banner := a.renderBanner(cw); banner != "" {
		header += "\n" + banner
	}

	age := ""
	if !a.state.LastUpdated.IsZero() {
		age = "Updated " + cli.FormatSince(a.state.LastUpdated)
	}
	errMsg := a.errMsg
	if errMsg == "" && a.state.HasError() {
		errMsg = a.state.ErrorMessage
	}
	statusBar := components.RenderStatusBar(w, age, a.state.IsLoading || a.logging, errMsg)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabWeek:
		content = a.renderWeekTab(cw)
	case tabLog:
		content = a.renderLogTab(cw)
	case tabAchievements:
		content = a.renderAchievementsTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw)
	}
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// renderBanner shows the latest achievement or a flash message.
func (a App) renderBanner(cw int) string {
	t := theme.Active
	if latest := a.ach.LatestAchievement; latest != nil && a.opts.CelebrateAchievements {
		style := lipgloss.NewStyle().Foreground(t.Achievement).Bold(true).Width(cw).Padding(0, 1)
		return style.Render(fmt.Sprintf("★ %s  +%d pts  %s", latest.Title, latest.Points,
			lipgloss.NewStyle().Foreground(t.TextDim).Render("[d] dismiss")))
	}
	if a.flash != "" {
		return lipgloss.NewStyle().Foreground(t.Under).Width(cw).Padding(0, 1).Render(a.flash)
	}
	return ""
}

func (a App) renderWeekTab(cw int) string {
	t := theme.Active
	s := a.state
	var b strings.Builder

	cards := []components.Metric{
		{Label: "Capacity", Value: cli.FormatCost(s.WeeklyCapacity), Delta: cli.FormatWeekRange(s.WeekStartDate)},
		{Label: "Spent", Value: cli.FormatCost(s.CurrentSpent), Delta: cli.FormatPercent(s.CapacityProgress()) + " used"},
		{Label: "Remaining", Value: cli.FormatCost(s.RemainingCapacity), Color: components.ColorForUsage(s.CapacityUsageLevel())},
		{Label: "Experiences", Value: cli.FormatExperiences(s.ExperiencesLogged, s.TargetExperiences)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n\n")

	barW := max(cw-24, 10)
	b.WriteString(" " + components.CapacityBar("Capacity", s.CapacityProgress(), s.CapacityUsageLevel(), 11, barW))
	b.WriteString("\n")
	b.WriteString(" " + components.CapacityBar("Experiences", s.ExperienceProgress(), model.UsageLow, 11, barW))
	b.WriteString("\n\n")

	guidance := s.InvestmentGuidanceLevel()
	b.WriteString(" " + lipgloss.NewStyle().Foreground(t.TextMuted).Render("Guidance  "))
	b.WriteString(lipgloss.NewStyle().Foreground(components.ColorForGuidance(guidance)).Bold(true).
		Render(cli.FormatLabel(string(guidance))))
	b.WriteString("\n\n")

	days := pipeline.AggregateDays(a.history, s.WeekStartDate, s.WeekEnd())
	bars := components.WeekBars(days, cli.FormatCost)
	b.WriteString(components.ContentCard("This week", components.HorizontalBars(bars, t.Accent, components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) renderLogTab(cw int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(8)
	focusStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Width(8)

	var form strings.Builder
	labels := []string{"Cost", "Type", "Notes"}
	for i, in := range a.inputs {
		style := labelStyle
		if i == a.focus {
			style = focusStyle
		}
		form.WriteString(style.Render(labels[i]))
		form.WriteString(in.View())
		form.WriteString("\n")
	}
	form.WriteString("\n")
	form.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("tab next field · enter log meal · esc back"))

	var impact string
	if a.preview == nil {
		impact = lipgloss.NewStyle().Foreground(t.TextDim).Render("Type a cost to preview its impact on this week.")
	} else {
		impact = renderImpact(*a.preview, components.CardInnerWidth(cw))
	}

	return components.ContentCard("Log a meal", form.String(), cw) + "\n" +
		components.ContentCard("Impact preview", impact, cw)
}

func renderImpact(imp model.InvestmentImpact, width int) string {
	t := theme.Active
	color := components.ColorForUsage(imp.ImpactLevel)
	label := cli.FormatImpactLevel(imp.ImpactLevel, imp.ExceedsCapacity)
	if imp.ExceedsCapacity {
		color = t.Over
	}
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(label))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		muted.Render("After this meal"), value.Render(cli.FormatCost(imp.ProjectedSpent)),
		muted.Render("Remaining"), value.Render(cli.FormatCost(imp.ProjectedRemaining)))
	b.WriteString(lipgloss.NewStyle().Width(width).Render(imp.Message))
	return b.String()
}

func (a App) renderAchievementsTab(cw int) string {
	t := theme.Active
	st := a.ach
	progress := achievement.ProgressFor(st.TotalPoints)

	var b strings.Builder
	levelLine := fmt.Sprintf("%s · %d pts", st.CurrentLevel, st.TotalPoints)
	if progress.Next != "" {
		levelLine += fmt.Sprintf(" · %d to %s", progress.PointsToNext, progress.Next)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render(levelLine))
	b.WriteString("\n")
	b.WriteString(components.ProgressBar(progress.Fraction, max(components.CardInnerWidth(cw)-6, 10)))
	b.WriteString("\n\n")

	done := lipgloss.NewStyle().Foreground(t.Under)
	todo := lipgloss.NewStyle().Foreground(t.TextDim)
	title := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted)

	for _, ach := range st.AvailableAchievements {
		mark := todo.Render("○")
		when := ""
		if ach.IsUnlocked {
			mark = done.Render("●")
			if ach.UnlockedAt != nil {
				when = desc.Render("  " + cli.FormatSince(*ach.UnlockedAt))
			}
		}
		fmt.Fprintf(&b, "%s %s %s%s\n  %s\n",
			mark, title.Render(ach.Title), desc.Render(fmt.Sprintf("+%d", ach.Points)), when,
			desc.Render(ach.Description))
	}

	return components.ContentCard("Achievements", b.String(), cw)
}

func (a App) renderHistoryTab(cw int) string {
	t := theme.Active
	half := components.LayoutRow(cw, 2)

	var recent strings.Builder
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	n := 0
	for i := len(a.history) - 1; i >= 0 && n < historyRows; i-- {
		m := a.history[i]
		fmt.Fprintf(&recent, "%s  %-14s %10s\n",
			muted.Render(cli.FormatDate(m.Date)),
			truncStr(m.MealType, 14),
			cli.FormatCost(m.Cost))
		n++
	}
	if n == 0 {
		recent.WriteString(muted.Render("No meals logged yet."))
	}

	weeks := pipeline.AggregateWeeks(a.history, a.opts.WeekStart)
	values := make([]float64, 0, len(weeks))
	for i := len(weeks) - 1; i >= 0; i-- {
		values = append(values, weeks[i].Cost)
	}

	types := pipeline.AggregateMealTypes(a.history)
	bars := make([]components.Bar, len(types))
	for i, mt := range types {
		bars[i] = components.Bar{Label: truncStr(mt.MealType, 14), Value: mt.Cost, Note: cli.FormatCost(mt.Cost)}
	}
	var byType strings.Builder
	byType.WriteString(components.HorizontalBars(bars, t.Achievement, components.CardInnerWidth(half[1])))
	if len(values) > 0 {
		byType.WriteString("\n\n")
		byType.WriteString(muted.Render("Weekly spend "))
		byType.WriteString(components.Sparkline(values, t.Accent))
	}

	return components.CardRow([]string{
		components.ContentCard("Recent meals", strings.TrimRight(recent.String(), "\n"), half[0]),
		components.ContentCard("By meal type", byType.String(), half[1]),
	})
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Count(s, "\n") + 1
	if lines >= h {
		return s
	}
	return s + strings.Repeat("\n", h-lines)
}
