package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/contest/internal/domain/model"
	"github.com/okian/contest/internal/domain/types"
)

const (
	// sessionHeader selects the session on every roster route.
	sessionHeader  = "X-Session-ID"
	defaultTimeout = 30 * time.Second
)

// ErrNoSession is returned when a roster command runs without a session id.
var ErrNoSession = errors.New("no session id; run \"rosterctl session\" and pass -session")

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to the roster API for one session.
type Client struct {
	client    *http.Client
	baseURL   string
	sessionID string
}

// NewClient creates a client with the configured timeout.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		baseURL:   cfg.BaseURL,
		sessionID: cfg.SessionID,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		req.Header.Set(sessionHeader, c.sessionID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Code == "" {
			apiErr.Code = "http_error"
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return resp.StatusCode, apiErr
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) requireSession() error {
	if c.sessionID == "" {
		return ErrNoSession
	}
	return nil
}

// OpenSession starts a new session and remembers its id.
func (c *Client) OpenSession(ctx context.Context) (string, error) {
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/sessions", nil, &resp); err != nil {
		return "", err
	}
	c.sessionID = resp.SessionID
	return resp.SessionID, nil
}

// CloseSession ends the current session.
func (c *Client) CloseSession(ctx context.Context) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(c.sessionID), nil, nil)
	return err
}

// Contestants lists the contestant table.
func (c *Client) Contestants(ctx context.Context) ([]model.Contestant, error) {
	var rows []model.Contestant
	return rows, c.get(ctx, "/contestants", &rows)
}

// Judges lists the judge table.
func (c *Client) Judges(ctx context.Context) ([]model.Judge, error) {
	var rows []model.Judge
	return rows, c.get(ctx, "/judges", &rows)
}

// AddContestant adds a contestant. skills is comma separated text.
func (c *Client) AddContestant(ctx context.Context, name, skills string) (model.Contestant, error) {
	var row model.Contestant
	return row, c.send(ctx, http.MethodPost, "/contestants", memberRequest{Name: name, Skills: skills}, &row)
}

// AddJudge adds a judge. skills is comma separated text.
func (c *Client) AddJudge(ctx context.Context, name, skills string) (model.Judge, error) {
	var row model.Judge
	return row, c.send(ctx, http.MethodPost, "/judges", memberRequest{Name: name, Skills: skills}, &row)
}

// UpdateMember edits every row named name in table ("contestants" or
// "judges") and returns how many rows changed.
func (c *Client) UpdateMember(ctx context.Context, table, name, newName, skills string) (int, error) {
	var resp struct {
		Affected int `json:"affected"`
	}
	err := c.send(ctx, http.MethodPut, "/"+table+"/"+url.PathEscape(name), memberRequest{Name: newName, Skills: skills}, &resp)
	return resp.Affected, err
}

// RemoveMember deletes every row named name in table and returns how many
// rows were removed.
func (c *Client) RemoveMember(ctx context.Context, table, name string) (int, error) {
	var resp struct {
		Affected int `json:"affected"`
	}
	err := c.send(ctx, http.MethodDelete, "/"+table+"/"+url.PathEscape(name), nil, &resp)
	return resp.Affected, err
}

// Weights returns the skill weight map.
func (c *Client) Weights(ctx context.Context) (map[string]int, error) {
	var w map[string]int
	return w, c.get(ctx, "/weights", &w)
}

// SetWeight assigns weight to skill and returns the updated map.
func (c *Client) SetWeight(ctx context.Context, skill string, weight int) (map[string]int, error) {
	var w map[string]int
	body := struct {
		Weight int `json:"weight"`
	}{Weight: weight}
	return w, c.send(ctx, http.MethodPut, "/weights/"+url.PathEscape(skill), body, &w)
}

// SubmitScore appends a score entry.
func (c *Client) SubmitScore(ctx context.Context, entry model.ScoreEntry, submissionID string) (AckResponse, error) {
	var ack AckResponse
	body := scoreRequest{
		Judge:        entry.Judge,
		Contestant:   entry.Contestant,
		Skill:        entry.Skill,
		Score:        entry.Score,
		SubmissionID: submissionID,
	}
	return ack, c.send(ctx, http.MethodPost, "/scores", body, &ack)
}

// Scores returns the score log.
func (c *Client) Scores(ctx context.Context) ([]model.ScoreEntry, error) {
	var log []model.ScoreEntry
	return log, c.get(ctx, "/scores", &log)
}

// Totals returns the weighted total per contestant.
func (c *Client) Totals(ctx context.Context) (map[string]float64, error) {
	var totals map[string]float64
	return totals, c.get(ctx, "/totals", &totals)
}

// Leaderboard returns ranked totals. limit <= 0 lets the server choose.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	path := "/leaderboard"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var entries []types.Entry
	return entries, c.get(ctx, path, &entries)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	_, err := c.do(ctx, method, path, body, out)
	return err
}
