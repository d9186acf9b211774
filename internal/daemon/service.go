// Package daemon provides the long-running background spending monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/pipeline"
	"github.com/theirongolddev/spendwise/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath         string
	Rollover       model.RolloverPolicy
	VelocityPeriod pipeline.VelocityPeriod
	Interval       time.Duration
	Addr           string
	EventsBuffer   int
	Logger         *slog.Logger

	// Source overrides opening DBPath on each poll.
	Source pipeline.Source
	// Now overrides the wall clock.
	Now func() time.Time
}

// Snapshot is a compact spending state for status/event payloads.
type Snapshot struct {
	At            time.Time       `json:"at"`
	MonthSpent    decimal.Decimal `json:"month_spent"`
	TodaySpent    decimal.Decimal `json:"today_spent"`
	Expenses      int             `json:"expenses"`
	CurrentStreak int             `json:"current_streak"`
	VelocityRatio float64         `json:"velocity_ratio"`
	RiskLevel     model.RiskLevel `json:"risk_level"`
	OverBudget    int             `json:"over_budget"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Expenses      int             `json:"expenses"`
	MonthSpent    decimal.Decimal `json:"month_spent"`
	TodaySpent    decimal.Decimal `json:"today_spent"`
	CurrentStreak int             `json:"current_streak"`
	OverBudget    int             `json:"over_budget"`
}

func (d Delta) isZero() bool {
	return d.Expenses == 0 &&
		d.MonthSpent.IsZero() &&
		d.TodaySpent.IsZero() &&
		d.CurrentStreak == 0 &&
		d.OverBudget == 0
}

// Event is emitted whenever the spending snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Rollover        string    `json:"rollover"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// BudgetStatus pairs a budget with its current progress.
type BudgetStatus struct {
	Budget   model.Budget         `json:"budget"`
	Progress model.BudgetProgress `json:"progress"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	dataset     *pipeline.Dataset
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Rollover == "" {
		cfg.Rollover = model.RolloverCalendar
	}
	if cfg.VelocityPeriod == "" {
		cfg.VelocityPeriod = pipeline.VelocityMonth
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		log:       logger.With("component", "daemon"),
		startedAt: cfg.Now(),
		dataset:   &pipeline.Dataset{},
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.HandleFunc("/v1/budgets", s.handleBudgets)
	mux.HandleFunc("/v1/streak", s.handleStreak)
	mux.HandleFunc("/v1/velocity", s.handleVelocity)
	mux.HandleFunc("/v1/level", s.handleLevel)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("daemon listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval)

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	ds, err := s.loadDataset()
	now := s.cfg.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("poll failed", "error", err)
		return
	}

	snap := buildSnapshot(ds, now, s.cfg.Rollover, s.cfg.VelocityPeriod)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.dataset = ds
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "usage_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.log.Debug("snapshot changed", "type", ev.Type, "expenses", snap.Expenses)
		s.publishEvent(ev)
	}
}

func (s *Service) loadDataset() (*pipeline.Dataset, error) {
	if s.cfg.Source != nil {
		return pipeline.Load(s.cfg.Source)
	}

	st, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()
	return pipeline.Load(st)
}

func buildSnapshot(ds *pipeline.Dataset, now time.Time, policy model.RolloverPolicy, period pipeline.VelocityPeriod) Snapshot {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	month := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())

	snap := Snapshot{
		At:            now,
		MonthSpent:    pipeline.Summarize(ds.Expenses, month, month.AddDate(0, 1, 0)).Total,
		TodaySpent:    pipeline.Summarize(ds.Expenses, today, today.AddDate(0, 0, 1)).Total,
		Expenses:      len(ds.Expenses),
		CurrentStreak: pipeline.CalculateStreak(ds.Expenses, now).CurrentStreak,
	}

	v := pipeline.AnalyzeVelocity(ds.Expenses, ds.Budgets, period, now).Velocity
	snap.VelocityRatio = v.VelocityRatio
	snap.RiskLevel = v.RiskLevel

	for _, p := range pipeline.BudgetProgressAll(ds.Budgets, ds.Expenses, now, policy) {
		if p.IsOverBudget {
			snap.OverBudget++
		}
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Expenses:      curr.Expenses - prev.Expenses,
		MonthSpent:    curr.MonthSpent.Sub(prev.MonthSpent),
		TodaySpent:    curr.TodaySpent.Sub(prev.TodaySpent),
		CurrentStreak: curr.CurrentStreak - prev.CurrentStreak,
		OverBudget:    curr.OverBudget - prev.OverBudget,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		Rollover:        string(s.cfg.Rollover),
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) currentDataset() *pipeline.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleBudgets(w http.ResponseWriter, _ *http.Request) {
	ds := s.currentDataset()
	now := s.cfg.Now()

	out := make([]BudgetStatus, 0, len(ds.Budgets))
	for _, b := range ds.ActiveBudgets() {
		out = append(out, BudgetStatus{
			Budget:   b,
			Progress: pipeline.BudgetProgressFor(b, ds.Expenses, now, s.cfg.Rollover),
		})
	}
	writeJSON(w, out)
}

func (s *Service) handleStreak(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, pipeline.CalculateStreak(s.currentDataset().Expenses, s.cfg.Now()))
}

func (s *Service) handleVelocity(w http.ResponseWriter, r *http.Request) {
	period := s.cfg.VelocityPeriod
	if q := r.URL.Query().Get("period"); q != "" {
		p, err := pipeline.ParseVelocityPeriod(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		period = p
	}
	ds := s.currentDataset()
	writeJSON(w, pipeline.AnalyzeVelocity(ds.Expenses, ds.Budgets, period, s.cfg.Now()))
}

func (s *Service) handleLevel(w http.ResponseWriter, _ *http.Request) {
	ds := s.currentDataset()
	writeJSON(w, pipeline.CalculateLevel(ds.Expenses, ds.Achievements, s.cfg.Now()))
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
