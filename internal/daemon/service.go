// Package daemon provides the long-running weekly budget service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/theirongolddev/savor/internal/achievement"
	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/tracker"

	"github.com/robfig/cron/v3"
)

// Store is the persistence the daemon needs beyond the tracker's meal source.
type Store interface {
	AllMeals(ctx context.Context, userID string) ([]model.Meal, error)
	SaveUnlocks(ctx context.Context, userID string, unlocked []model.Achievement) error
}

// Config controls the daemon runtime behavior.
type Config struct {
	UserID       string
	Preferences  func() *model.UserPreferences
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	RolloverCron string // six-field cron spec, seconds first
}

// Snapshot is a compact weekly state for status/event payloads.
type Snapshot struct {
	At                time.Time `json:"at"`
	WeekStart         time.Time `json:"week_start"`
	WeeklyCapacity    float64   `json:"weekly_capacity"`
	CurrentSpent      float64   `json:"current_spent"`
	RemainingCapacity float64   `json:"remaining_capacity"`
	ExperiencesLogged int       `json:"experiences_logged"`
	TargetExperiences int       `json:"target_experiences"`
	UsageLevel        string    `json:"usage_level"`
	GuidanceLevel     string    `json:"guidance_level"`
	TotalPoints       int       `json:"total_points"`
	Level             string    `json:"level"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Spent       float64 `json:"spent"`
	Experiences int     `json:"experiences"`
	Capacity    float64 `json:"capacity"`
	Points      int     `json:"points"`
	WeekChanged bool    `json:"week_changed,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Spent == 0 &&
		d.Experiences == 0 &&
		d.Capacity == 0 &&
		d.Points == 0 &&
		!d.WeekChanged
}

// Event types.
const (
	EventSnapshot            = "snapshot"
	EventStateDelta          = "state_delta"
	EventAchievementUnlocked = "achievement_unlocked"
)

// Event is emitted whenever the weekly state or achievement ledger changes.
type Event struct {
	ID          int64              `json:"id"`
	Type        string             `json:"type"`
	Timestamp   time.Time          `json:"timestamp"`
	Snapshot    Snapshot           `json:"snapshot"`
	Delta       Delta              `json:"delta"`
	Achievement *model.Achievement `json:"achievement,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	UserID          string    `json:"user_id"`
	Week            Snapshot  `json:"week"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// AchievementsResponse is served at /v1/achievements.
type AchievementsResponse struct {
	Achievements []model.Achievement       `json:"achievements"`
	TotalPoints  int                       `json:"total_points"`
	Level        string                    `json:"level"`
	Progress     achievement.LevelProgress `json:"progress"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	store   Store
	tracker *tracker.Tracker
	engine  *achievement.Engine

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot

	hub *eventHub
}

// New returns a new daemon service with the provided config.
func New(cfg Config, st Store, tr *tracker.Tracker, eng *achievement.Engine) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.RolloverCron == "" {
		cfg.RolloverCron = "0 0 0 * * *"
	}
	if cfg.Preferences == nil {
		cfg.Preferences = func() *model.UserPreferences { return nil }
	}

	return &Service{
		cfg:       cfg,
		store:     st,
		tracker:   tr,
		engine:    eng,
		startedAt: time.Now(),
		hub:       newEventHub(cfg.EventsBuffer),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/impact", s.handleImpact)
	mux.HandleFunc("/v1/achievements", s.handleAchievements)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints, the rollover schedule and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sched := cron.New(cron.WithSeconds())
	if _, err := sched.AddFunc(s.cfg.RolloverCron, func() { s.rollover(ctx, time.Now()) }); err != nil {
		return fmt.Errorf("scheduling week rollover %q: %w", s.cfg.RolloverCron, err)
	}
	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	slog.Info("Daemon listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval, "user", s.cfg.UserID)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// rollover moves the tracker into the week containing now and re-polls.
func (s *Service) rollover(ctx context.Context, now time.Time) {
	if s.tracker.Rollover(now) {
		slog.Info("Week rolled over", "week_start", s.tracker.State().WeekStartDate.Format("2006-01-02"))
		s.pollOnce(ctx)
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	// Without a budget the week carries no numbers, but achievements that
	// only look at meal history can still unlock.
	refreshErr := s.tracker.Refresh(ctx, s.cfg.UserID, s.cfg.Preferences())
	if refreshErr != nil && !errors.Is(refreshErr, tracker.ErrPreferencesUnavailable) {
		s.recordPollError(refreshErr)
		return
	}

	unlocked, err := s.checkAchievements(ctx)
	if err != nil {
		s.recordPollError(err)
		return
	}

	now := time.Now()
	snap := s.currentSnapshot(now)

	var pending []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	if refreshErr != nil {
		s.lastError = refreshErr.Error()
	}

	if !prevExists {
		pending = append(pending, Event{
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		})
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		pending = append(pending, Event{
			Type:      EventStateDelta,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		})
	}
	for i := range unlocked {
		a := unlocked[i]
		pending = append(pending, Event{
			Type:        EventAchievementUnlocked,
			Timestamp:   now,
			Snapshot:    snap,
			Achievement: &a,
		})
	}
	s.mu.Unlock()

	for _, ev := range pending {
		s.hub.publish(ev)
	}
}

func (s *Service) recordPollError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = time.Now()
	s.pollCount++
	s.mu.Unlock()
	slog.Warn("Daemon poll failed", "user", s.cfg.UserID, "error", err)
}

// checkAchievements evaluates the full history and persists any new unlocks.
func (s *Service) checkAchievements(ctx context.Context) ([]model.Achievement, error) {
	meals, err := s.store.AllMeals(ctx, s.cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading meal history: %w", err)
	}

	unlocked := s.engine.CheckAchievements(s.tracker.State(), meals)
	if len(unlocked) == 0 {
		return nil, nil
	}
	if err := s.store.SaveUnlocks(ctx, s.cfg.UserID, unlocked); err != nil {
		return nil, err
	}
	for _, a := range unlocked {
		slog.Info("Achievement unlocked", "user", s.cfg.UserID, "id", a.ID, "points", a.Points)
	}
	return unlocked, nil
}

func (s *Service) currentSnapshot(at time.Time) Snapshot {
	return snapshotFromState(s.tracker.State(), s.engine.State(), at)
}

func snapshotFromState(w model.WeeklyInvestmentState, a model.AchievementState, at time.Time) Snapshot {
	return Snapshot{
		At:                at,
		WeekStart:         w.WeekStartDate,
		WeeklyCapacity:    w.WeeklyCapacity,
		CurrentSpent:      w.CurrentSpent,
		RemainingCapacity: w.RemainingCapacity,
		ExperiencesLogged: w.ExperiencesLogged,
		TargetExperiences: w.TargetExperiences,
		UsageLevel:        string(w.CapacityUsageLevel()),
		GuidanceLevel:     string(w.InvestmentGuidanceLevel()),
		TotalPoints:       a.TotalPoints,
		Level:             a.CurrentLevel,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Spent:       curr.CurrentSpent - prev.CurrentSpent,
		Experiences: curr.ExperiencesLogged - prev.ExperiencesLogged,
		Capacity:    curr.WeeklyCapacity - prev.WeeklyCapacity,
		Points:      curr.TotalPoints - prev.TotalPoints,
		WeekChanged: !curr.WeekStart.Equal(prev.WeekStart),
	}
}

func (s *Service) snapshotStatus() Status {
	events, subs := s.hub.counts()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		UserID:          s.cfg.UserID,
		Week:            s.snapshot,
		LastError:       s.lastError,
		EventCount:      events,
		SubscriberCount: subs,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleImpact(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("cost")
	cost, err := strconv.ParseFloat(raw, 64)
	if err != nil || !model.ValidCost(cost) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cost must be a non-negative number"})
		return
	}

	imp := s.tracker.CalculateMealImpact(cost)
	writeJSON(w, http.StatusOK, map[string]any{
		"meal_cost":           imp.MealCost,
		"projected_spent":     imp.ProjectedSpent,
		"projected_remaining": imp.ProjectedRemaining,
		"impact_level":        imp.ImpactLevel,
		"guidance_level":      imp.GuidanceLevel,
		"message":             imp.Message,
		"exceeds_capacity":    imp.ExceedsCapacity,
	})
}

func (s *Service) handleAchievements(w http.ResponseWriter, _ *http.Request) {
	st := s.engine.State()
	writeJSON(w, http.StatusOK, AchievementsResponse{
		Achievements: st.AvailableAchievements,
		TotalPoints:  st.TotalPoints,
		Level:        st.CurrentLevel,
		Progress:     s.engine.Progress(),
	})
}

// handleEvents lists retained events, optionally only those after ?since=<id>.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "since must be a non-negative event id"})
			return
		}
		since = v
	}
	writeJSON(w, http.StatusOK, s.hub.since(since))
}

// handleStream serves server-sent events. A client reconnecting with
// Last-Event-ID first receives the retained events it missed; otherwise the
// stream opens with the current snapshot.
func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := s.hub.subscribe(16)
	defer unsubscribe()

	var lastSent int64
	if lastID, err := strconv.ParseInt(r.Header.Get("Last-Event-ID"), 10, 64); err == nil {
		for _, ev := range s.hub.since(lastID) {
			if writeSSE(w, ev) != nil {
				return
			}
			lastSent = ev.ID
		}
	} else {
		current := Event{
			Type:      EventSnapshot,
			Timestamp: time.Now(),
			Snapshot:  s.snapshotStatus().Week,
		}
		if writeSSE(w, current) != nil {
			return
		}
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			if ev.ID <= lastSent {
				continue
			}
			if writeSSE(w, ev) != nil {
				return
			}
			flusher.Flush()
		}
	}
}
