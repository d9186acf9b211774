package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/spendwise/internal/cli"
	"github.com/theirongolddev/spendwise/internal/config"
	"github.com/theirongolddev/spendwise/internal/daemon"
	"github.com/theirongolddev/spendwise/internal/pipeline"

	"github.com/spf13/cobra"
)

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
	Short: "Run a background spending daemon with HTTP/SSE endpoints",
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
	defaultPID := filepath.Join(config.DataDir(), "spendwised.pid")
	defaultLog := filepath.Join(config.DataDir(), "spendwised.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// applyDaemonDefaults fills --addr and --interval from config when unset.
func applyDaemonDefaults() {
	if flagDaemonAddr == "" {
		flagDaemonAddr = appConfig.Daemon.Addr
	}
	if flagDaemonInterval <= 0 {
		flagDaemonInterval = time.Duration(appConfig.Daemon.IntervalSec) * time.Second
	}
}

func runDaemon(_ *cobra.Command, _ []string) error {
	applyDaemonDefaults()
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}

	return runDaemonForeground()
}

// daemonPIDFile returns the pid file selected by --pid-file.
func daemonPIDFile() daemon.PIDFile {
	return daemon.PIDFile{Path: flagDaemonPIDFile}
}

// startDaemonDetached re-executes the binary as a --child process with output
// appended to the daemon log.
func startDaemonDetached() error {
	if err := daemonPIDFile().Clear(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, append(filterDetachArg(os.Args[1:]), "--child")...) //nolint:gosec // re-exec of the current binary
	child.Stdout, child.Stderr = logf, logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", flagDaemonAddr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	policy, err := rolloverPolicy()
	if err != nil {
		return err
	}
	period, err := pipeline.ParseVelocityPeriod(appConfig.Velocity.Period)
	if err != nil {
		return err
	}

	pf := daemonPIDFile()
	err = pf.Acquire(daemon.RuntimeState{
		PID:       os.Getpid(),
		Addr:      flagDaemonAddr,
		StartedAt: time.Now(),
		DBPath:    flagDBPath,
	})
	if err != nil {
		return err
	}
	defer pf.Release()

	svc := daemon.New(daemon.Config{
		DBPath:         flagDBPath,
		Rollover:       policy,
		VelocityPeriod: period,
		Interval:       flagDaemonInterval,
		Addr:           flagDaemonAddr,
		EventsBuffer:   flagDaemonEventsBuffer,
		Logger:         logger,
	})

	fmt.Printf("  spendwise daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Polling every %s from %s\n", flagDaemonInterval, flagDBPath)
	fmt.Printf("  Stop with: spendwise daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	applyDaemonDefaults()
	pf := daemonPIDFile()
	pid, alive := pf.Running()
	switch {
	case pid == 0:
		fmt.Printf("  Daemon: not running (no pid file at %s)\n", flagDaemonPIDFile)
		return nil
	case !alive:
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagDaemonAddr
	if st, err := pf.State(); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	ov := daemon.NewClient(addr).FetchOverview(context.Background())
	if ov.Status == nil {
		fmt.Printf("  API status: unreachable (%v)\n", ov.Error)
		return nil
	}
	st := ov.Status

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	fmt.Printf("  Database: %s\n", st.DBPath)
	fmt.Printf("  Expenses: %d\n", st.Summary.Expenses)
	fmt.Printf("  This month: %s (today %s)\n", cli.FormatMoney(st.Summary.MonthSpent), cli.FormatMoney(st.Summary.TodaySpent))
	fmt.Printf("  Streak: %s\n", cli.FormatDays(st.Summary.CurrentStreak))
	if st.Summary.OverBudget > 0 {
		fmt.Printf("  Over budget: %d\n", st.Summary.OverBudget)
	}
	if v := ov.Velocity; v != nil && v.Velocity.HasBudget {
		fmt.Printf("  Velocity: %s/day (%s, %s)\n",
			cli.FormatMoney(v.Velocity.CurrentVelocity), cli.FormatRatio(v.Velocity.VelocityRatio), v.Velocity.RiskLevel)
	}
	for _, b := range ov.Budgets {
		fmt.Printf("  Budget %s: %s of %s (%s)\n", cli.ShortID(b.Budget.ID),
			cli.FormatMoney(b.Progress.TotalSpent), cli.FormatMoney(b.Budget.Amount), cli.FormatPercent(b.Progress.Percentage))
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	if ov.Error != nil {
		fmt.Printf("  API error: %v\n", ov.Error)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pid, err := daemonPIDFile().Stop(8 * time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("  Stopped daemon (pid %d)\n", pid)
	return nil
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
