package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning is returned by Acquire when a live process owns the pid file.
var ErrAlreadyRunning = errors.New("daemon already running")

// RuntimeState is written next to the pid file while the daemon runs, so
// status and stop can find it without flags.
type RuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

// PIDFile is the daemon pid file plus its JSON state sidecar.
type PIDFile struct {
	Path string
}

func (p PIDFile) statePath() string {
	return p.Path + ".json"
}

// Read returns the pid recorded in the file.
func (p PIDFile) Read() (int, error) {
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p.Path)
	}
	return pid, nil
}

// State returns the runtime state sidecar.
func (p PIDFile) State() (RuntimeState, error) {
	var st RuntimeState
	//nolint:gosec // daemon state path is configured by the local user
	data, err := os.ReadFile(p.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

// Running reports the recorded pid and whether that process is alive.
func (p PIDFile) Running() (int, bool) {
	pid, err := p.Read()
	if err != nil {
		return 0, false
	}
	return pid, ProcessAlive(pid)
}

// Clear removes a stale pid file. It fails if the recorded process is alive.
func (p PIDFile) Clear() error {
	pid, err := p.Read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err == nil && ProcessAlive(pid):
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	p.Release()
	return nil
}

// Acquire claims the pid file for st.PID and writes the state sidecar.
func (p PIDFile) Acquire(st RuntimeState) error {
	if err := p.Clear(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(p.Path, []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
}

// Release removes the pid file and state sidecar.
func (p PIDFile) Release() {
	_ = os.Remove(p.Path)
	_ = os.Remove(p.statePath())
}

// Stop sends SIGTERM to the recorded process and waits up to timeout for it
// to exit, then releases the pid file.
func (p PIDFile) Stop(timeout time.Duration) (int, error) {
	pid, err := p.Read()
	if err != nil {
		return 0, errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return pid, fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !ProcessAlive(pid) {
			p.Release()
			return pid, nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return pid, fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

// ProcessAlive reports whether a process with pid exists.
func ProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
