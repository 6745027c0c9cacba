package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/savor/internal/cli"
	"github.com/theirongolddev/savor/internal/config"
	"github.com/theirongolddev/savor/internal/daemon"
	"github.com/theirongolddev/savor/internal/model"
	"github.com/theirongolddev/savor/internal/pipeline"

	"github.com/spf13/cobra"
)

type daemonRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	UserID    string    `json:"user_id"`
	DBPath    string    `json:"db_path"`
}

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background budget daemon with HTTP/SSE endpoints",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultPID := filepath.Join(pipeline.DataDir(), "savord.pid")
	defaultLog := filepath.Join(pipeline.DataDir(), "savord.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonAddr resolves the listen address from flags, then config.
func daemonAddr() string {
	if flagDaemonAddr != "" {
		return flagDaemonAddr
	}
	return cfg.Daemon.Addr
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground()
}

// startDaemonDetached re-executes the current command line as a background
// child with its output appended to the log file.
func startDaemonDetached() error {
	files := runtimeFiles{pidPath: flagDaemonPIDFile}
	if err := files.claim(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := append(filterDetachArg(os.Args[1:]), "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  Budget API: http://%s/v1/status\n", daemonAddr())
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return child.Process.Release()
}

func runDaemonForeground() error {
	files := runtimeFiles{pidPath: flagDaemonPIDFile}
	if err := files.claim(); err != nil {
		return err
	}

	addr := daemonAddr()
	err := files.write(daemonRuntimeState{
		PID:       os.Getpid(),
		Addr:      addr,
		StartedAt: time.Now(),
		UserID:    cfg.General.UserID,
		DBPath:    cfg.DBPath(),
	})
	if err != nil {
		return err
	}
	defer files.clear()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	interval := flagDaemonInterval
	if interval <= 0 {
		interval = cfg.DaemonInterval()
	}
	buffer := flagDaemonEventsBuffer
	if buffer <= 0 {
		buffer = cfg.Daemon.EventsBuffer
	}

	svc := daemon.New(daemon.Config{
		UserID:       cfg.General.UserID,
		Preferences:  livePreferences,
		Interval:     interval,
		Addr:         addr,
		EventsBuffer: buffer,
		RolloverCron: cfg.Daemon.RolloverCron,
	}, s.db, s.tracker, s.engine)

	fmt.Printf("  savor daemon listening on http://%s\n", addr)
	fmt.Printf("  Polling every %s from %s\n", interval, cfg.DBPath())
	fmt.Printf("  Stop with: savor daemon stop --pid-file %s\n", flagDaemonPIDFile)
	slog.Info("Daemon started", "addr", addr, "user", cfg.General.UserID, "interval", interval)

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// livePreferences rereads the config file so a budget changed with
// `savor setup` reaches a running daemon on its next poll.
func livePreferences() *model.UserPreferences {
	c, err := config.Load()
	if err != nil {
		slog.Warn("Reloading config failed, keeping startup budget", "error", err)
		return cfg.Preferences()
	}
	return c.Preferences()
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	files := runtimeFiles{pidPath: flagDaemonPIDFile}
	rt, err := files.read()
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}
	if !pidAlive(rt.PID) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", rt.PID)
		return nil
	}

	addr := rt.Addr
	if addr == "" {
		addr = daemonAddr()
	}

	fmt.Printf("  Daemon PID: %d\n", rt.PID)
	if !rt.StartedAt.IsZero() {
		fmt.Printf("  Up since: %s\n", cli.FormatSince(rt.StartedAt))
	}
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", cli.FormatSince(st.LastPollAt))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	fmt.Printf("  User: %s\n", st.UserID)
	fmt.Printf("  Week of %s: %s of %s spent, %s\n",
		cli.FormatWeekRange(st.Week.WeekStart),
		cli.FormatCost(st.Week.CurrentSpent),
		cli.FormatCost(st.Week.WeeklyCapacity),
		cli.FormatLabel(st.Week.UsageLevel))
	fmt.Printf("  Experiences: %s\n", cli.FormatExperiences(st.Week.ExperiencesLogged, st.Week.TargetExperiences))
	fmt.Printf("  Level: %s (%d pts)\n", st.Week.Level, st.Week.TotalPoints)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	files := runtimeFiles{pidPath: flagDaemonPIDFile}
	rt, err := files.read()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(rt.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !pidAlive(rt.PID) {
			files.clear()
			fmt.Printf("  Stopped daemon (pid %d)\n", rt.PID)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", rt.PID)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
