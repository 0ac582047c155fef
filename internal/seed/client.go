package seed

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
	"strings"
	"time"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/ranking"
	"github.com/okian/clubrank/internal/domain/types"
)

// ErrRequest is wrapped by every failed API call.
var ErrRequest = errors.New("request failed")

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return ErrRequest }

// Client talks to the club API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login signs in and keeps the token for later mutations.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var sess types.Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", types.LoginRequest{Email: email, Password: password}, &sess); err != nil {
		return err
	}
	c.token = sess.Token
	return nil
}

// Logout revokes the current token.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.token = ""
	return err
}

// CreateShooter posts a shooter.
func (c *Client) CreateShooter(ctx context.Context, in model.ShooterInput) (model.Shooter, error) {
	var out model.Shooter
	return out, c.do(ctx, http.MethodPost, "/shooters", in, &out)
}

// CreateEvent posts an event.
func (c *Client) CreateEvent(ctx context.Context, in model.EventInput) (model.Event, error) {
	var out model.Event
	return out, c.do(ctx, http.MethodPost, "/events", in, &out)
}

// CreateResult posts a result.
func (c *Client) CreateResult(ctx context.Context, in model.ResultInput) (model.Result, error) {
	var out model.Result
	return out, c.do(ctx, http.MethodPost, "/results", in, &out)
}

// Ranking fetches standings; season 0 asks for every season.
func (c *Client) Ranking(ctx context.Context, season int) (ranking.Standings, error) {
	q := url.Values{}
	if season == ranking.AllSeasons {
		q.Set("season", "all")
	} else {
		q.Set("season", strconv.Itoa(season))
	}
	var out ranking.Standings
	return out, c.do(ctx, http.MethodGet, "/ranking?"+q.Encode(), nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrRequest, method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
