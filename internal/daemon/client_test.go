package daemon

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/pipeline"
)

func TestNewClient(t *testing.T) {
	if c := NewClient("  "); c != nil {
		t.Errorf("empty addr should return nil, got %+v", c)
	}
	if c := NewClient("127.0.0.1:8787"); c.base != "http://127.0.0.1:8787" {
		t.Errorf("base = %q", c.base)
	}
	if c := NewClient("http://localhost:9000/"); c.base != "http://localhost:9000" {
		t.Errorf("base = %q", c.base)
	}
}

func TestClient_FetchOverview(t *testing.T) {
	src := &memSource{
		expenses: []model.Expense{spend("25", testNow), spend("5", testNow.Add(-24*time.Hour))},
		budgets: []model.Budget{{
			ID: "b", Amount: decimal.NewFromInt(100), Period: model.PeriodMonthly,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true,
		}},
	}
	s := newTestService(src)
	s.pollOnce()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := NewClient(srv.URL)
	ov := c.FetchOverview(context.Background())
	if ov.Error != nil {
		t.Fatalf("FetchOverview error: %v", ov.Error)
	}
	if ov.Status == nil || ov.Status.Summary.Expenses != 2 {
		t.Errorf("status = %+v", ov.Status)
	}
	if len(ov.Budgets) != 1 || ov.Budgets[0].Progress.Percentage != 30 {
		t.Errorf("budgets = %+v", ov.Budgets)
	}
	if ov.Velocity == nil || !ov.Velocity.Velocity.HasBudget {
		t.Errorf("velocity = %+v", ov.Velocity)
	}

	streak, err := c.Streak(context.Background())
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if streak.CurrentStreak != 2 {
		t.Errorf("streak = %d, want 2", streak.CurrentStreak)
	}

	level, err := c.Level(context.Background())
	if err != nil {
		t.Fatalf("Level: %v", err)
	}
	if level.TotalXP == 0 {
		t.Error("level XP should be positive")
	}
}

func TestClient_BadPeriod(t *testing.T) {
	s := newTestService(&memSource{})
	s.pollOnce()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, err := NewClient(srv.URL).Velocity(context.Background(), pipeline.VelocityPeriod("decade"))
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(newTestService(&memSource{}).Handler())
	addr := srv.URL
	srv.Close()

	ov := NewClient(addr).FetchOverview(context.Background())
	if !errors.Is(ov.Error, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", ov.Error)
	}
	if ov.Status != nil {
		t.Error("status should be nil when the daemon is down")
	}
}
