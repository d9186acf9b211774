package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/spendwise/internal/model"
	"github.com/theirongolddev/spendwise/internal/pipeline"
)

const (
	requestTimeout = 2 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnavailable indicates nothing answered at the daemon address.
	ErrUnavailable = errors.New("daemon: unavailable")
	// ErrBadRequest indicates the daemon rejected a query parameter.
	ErrBadRequest = errors.New("daemon: bad request")
)

// Client reads the daemon HTTP API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for a daemon listening on addr (host:port or URL).
// Returns nil if addr is empty.
func NewClient(addr string) *Client {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		base: strings.TrimRight(addr, "/"),
		http: &http.Client{},
	}
}

// Overview bundles the main read endpoints.
type Overview struct {
	Status   *Status
	Budgets  []BudgetStatus
	Velocity *pipeline.VelocityReport
	Error    error
}

// FetchOverview fetches status, budgets and velocity. Partial data is
// returned even if some requests fail.
func (c *Client) FetchOverview(ctx context.Context) *Overview {
	out := &Overview{}

	st, err := c.Status(ctx)
	if err != nil {
		out.Error = err
		return out
	}
	out.Status = st

	budgets, budgetsErr := c.Budgets(ctx)
	if budgetsErr == nil {
		out.Budgets = budgets
	}
	velocity, velocityErr := c.Velocity(ctx, "")
	if velocityErr == nil {
		out.Velocity = velocity
	}

	// Surface first non-nil error for status display
	if budgetsErr != nil {
		out.Error = budgetsErr
	} else if velocityErr != nil {
		out.Error = velocityErr
	}
	return out
}

// Status returns the daemon runtime status.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.getJSON(ctx, "/v1/status", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Budgets returns progress for every active budget.
func (c *Client) Budgets(ctx context.Context) ([]BudgetStatus, error) {
	var out []BudgetStatus
	if err := c.getJSON(ctx, "/v1/budgets", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Velocity returns the velocity report. An empty period uses the daemon default.
func (c *Client) Velocity(ctx context.Context, period pipeline.VelocityPeriod) (*pipeline.VelocityReport, error) {
	path := "/v1/velocity"
	if period != "" {
		path += "?period=" + url.QueryEscape(string(period))
	}
	var r pipeline.VelocityReport
	if err := c.getJSON(ctx, path, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Streak returns the logging streak.
func (c *Client) Streak(ctx context.Context) (*model.StreakData, error) {
	var s model.StreakData
	if err := c.getJSON(ctx, "/v1/streak", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Level returns the current level.
func (c *Client) Level(ctx context.Context) (*model.LevelInfo, error) {
	var l model.LevelInfo
	if err := c.getJSON(ctx, "/v1/level", &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("daemon: parsing %s: %w", path, err)
	}
	return nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	//nolint:gosec // URL is the local daemon address
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, strings.TrimSpace(string(msg)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("daemon: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("daemon: reading response: %w", err)
	}
	return body, nil
}
