package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// deadPID is above the kernel's pid_max, so no process can hold it.
const deadPID = 999999999

func TestPIDFile_AcquireRelease(t *testing.T) {
	p := PIDFile{Path: filepath.Join(t.TempDir(), "run", "spendwised.pid")}
	started := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	err := p.Acquire(RuntimeState{PID: os.Getpid(), Addr: "127.0.0.1:8787", StartedAt: started, DBPath: "/tmp/x.db"})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	pid, alive := p.Running()
	if pid != os.Getpid() || !alive {
		t.Errorf("Running = %d, %v; want own pid alive", pid, alive)
	}
	st, err := p.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.Addr != "127.0.0.1:8787" || st.DBPath != "/tmp/x.db" || !st.StartedAt.Equal(started) {
		t.Errorf("state = %+v", st)
	}

	// A live owner blocks a second claim.
	if err := p.Acquire(RuntimeState{PID: os.Getpid()}); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Acquire err = %v, want ErrAlreadyRunning", err)
	}

	p.Release()
	if _, err := os.Stat(p.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("pid file still present: %v", err)
	}
	if _, err := p.State(); err == nil {
		t.Error("state sidecar still present")
	}
}

func TestPIDFile_StaleIsCleared(t *testing.T) {
	p := PIDFile{Path: filepath.Join(t.TempDir(), "spendwised.pid")}
	if err := p.Acquire(RuntimeState{PID: deadPID}); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, alive := p.Running(); alive {
		t.Fatal("dead pid reported alive")
	}
	if err := p.Acquire(RuntimeState{PID: os.Getpid()}); err != nil {
		t.Fatalf("Acquire over stale pid: %v", err)
	}
	if pid, _ := p.Read(); pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}
}

func TestPIDFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spendwised.pid")
	if err := os.WriteFile(path, []byte("not-a-pid\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := PIDFile{Path: path}
	if _, err := p.Read(); err == nil {
		t.Error("Read accepted garbage")
	}
	// Garbage is treated as stale.
	if err := p.Clear(); err != nil {
		t.Errorf("Clear: %v", err)
	}
}

func TestPIDFile_StopWithoutDaemon(t *testing.T) {
	p := PIDFile{Path: filepath.Join(t.TempDir(), "missing.pid")}
	if _, err := p.Stop(time.Second); err == nil {
		t.Error("Stop succeeded without a pid file")
	}
}
