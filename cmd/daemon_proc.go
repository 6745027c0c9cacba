package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// runtimeFiles are the pid file of a running daemon and the JSON state file
// written next to it.
type runtimeFiles struct {
	pidPath string
}

func (f runtimeFiles) statePath() string {
	return f.pidPath + ".json"
}

// write records st.PID in the pid file and the full state beside it.
func (f runtimeFiles) write(st daemonRuntimeState) error {
	if err := os.MkdirAll(filepath.Dir(f.pidPath), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(f.pidPath, []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.statePath(), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write daemon state: %w", err)
	}
	return nil
}

// read returns the recorded state. The pid file is authoritative; a missing
// or unreadable state file leaves only PID set.
func (f runtimeFiles) read() (daemonRuntimeState, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	raw, err := os.ReadFile(f.pidPath)
	if err != nil {
		return daemonRuntimeState{}, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || pid <= 0 {
		return daemonRuntimeState{}, fmt.Errorf("invalid pid in %s", f.pidPath)
	}

	var st daemonRuntimeState
	//nolint:gosec // daemon state path is configured by the local user
	if data, err := os.ReadFile(f.statePath()); err == nil {
		_ = json.Unmarshal(data, &st)
	}
	st.PID = pid
	return st, nil
}

func (f runtimeFiles) clear() {
	_ = os.Remove(f.pidPath)
	_ = os.Remove(f.statePath())
}

// claim fails if a live daemon owns the pid file and clears a stale one.
func (f runtimeFiles) claim() error {
	st, err := f.read()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && pidAlive(st.PID) {
		return fmt.Errorf("daemon already running (pid %d)", st.PID)
	}
	f.clear()
	return nil
}

func pidAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
