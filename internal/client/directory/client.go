// Package directory is the HTTP client for the users API. It owns the
// retry/backoff policy and the valid-coordinate filtering that the map
// pipeline depends on.
package directory

import (
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

	"github.com/globalconnect/backend/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts    = 3
	defaultBaseBackoff    = time.Second
	defaultRequestTimeout = 10 * time.Second
	bodySnippetLimit      = 200
)

type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxAttempts    int
	BaseBackoff    time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger

	// sleep is swapped out by tests to observe backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// usersEnvelope is the wire shape of GET /api/users. The endpoint always
// answers 200 with this envelope, carrying an error string on failure.
type usersEnvelope struct {
	Users   []wireUser `json:"users"`
	Success bool       `json:"success"`
	Error   string     `json:"error"`
}

// wireUser tolerates coordinates arriving as JSON numbers or strings; the
// backing store has historically produced both.
type wireUser struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Bio          string      `json:"bio"`
	AvatarURL    string      `json:"avatar_url"`
	Latitude     flexFloat   `json:"latitude"`
	Longitude    flexFloat   `json:"longitude"`
	Gender       string      `json:"gender"`
	Age          *int        `json:"age"`
	LocationName string      `json:"location_name"`
	Interests    []string    `json:"interests"`
}

type flexFloat struct {
	value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		f.value = nil
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.value = nil
		return nil
	}
	f.value = &v
	return nil
}

// FetchUsers queries the directory with up to MaxAttempts tries and
// exponential backoff (base * 2^attempt). A 429 extends the wait instead of
// aborting. A successful response short-circuits the loop once it carries
// users; a successful empty response is retried and, if it is all we ever
// got, reported as zero matches with a nil error. The error is non-nil only
// when every attempt failed, so callers can tell "no matches" from "fetch
// broke".
func (c *Client) FetchUsers(ctx context.Context, filters domain.SearchFilters) ([]domain.User, error) {
	reqURL := c.buildURL(filters)

	var lastErr error
	sawSuccess := false

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.BaseBackoff * (1 << uint(attempt))
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		users, err := c.fetchOnce(ctx, reqURL)
		if err != nil {
			lastErr = err
			if isRateLimit(err) {
				// Give the window a chance to roll over before retrying.
				if sleepErr := c.sleep(ctx, c.cfg.BaseBackoff); sleepErr != nil {
					return nil, sleepErr
				}
			}
			c.logger.Warn("user fetch attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		sawSuccess = true
		if len(users) > 0 {
			return users, nil
		}
	}

	if sawSuccess {
		return []domain.User{}, nil
	}
	return nil, fmt.Errorf("fetching users failed after %d attempts: %w", c.cfg.MaxAttempts, lastErr)
}

// FetchUsersLenient keeps the original degrade-to-empty surface: any
// failure is logged and rendered as an empty directory.
func (c *Client) FetchUsersLenient(ctx context.Context, filters domain.SearchFilters) []domain.User {
	users, err := c.FetchUsers(ctx, filters)
	if err != nil {
		c.logger.Warn("user fetch degraded to empty", zap.Error(err))
		return []domain.User{}
	}
	return users
}

type rateLimitError struct{ retryAfter string }

func (e *rateLimitError) Error() string { return "rate limit exceeded (429)" }

func isRateLimit(err error) bool {
	var rl *rateLimitError
	return errors.As(err, &rl)
}

func (c *Client) fetchOnce(ctx context.Context, reqURL string) ([]domain.User, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &rateLimitError{retryAfter: resp.Header.Get("Retry-After")}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
		return nil, fmt.Errorf("unexpected content type %q, body: %s", contentType, snippet)
	}

	var envelope usersEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Error != "" {
		c.logger.Warn("directory reported error", zap.String("error", envelope.Error))
	}

	users := make([]domain.User, 0, len(envelope.Users))
	for _, w := range envelope.Users {
		u := domain.User{
			ID:        w.ID,
			Name:      w.Name,
			Email:     w.Email,
			Latitude:  w.Latitude.value,
			Longitude: w.Longitude.value,
			Age:       w.Age,
			Interests: w.Interests,
		}
		if w.Bio != "" {
			u.Bio = &w.Bio
		}
		if w.AvatarURL != "" {
			u.AvatarURL = &w.AvatarURL
		}
		if w.Gender != "" {
			u.Gender = &w.Gender
		}
		if w.LocationName != "" {
			u.LocationName = &w.LocationName
		}
		// A user without a plottable position cannot appear on the map.
		if !u.HasLocation() {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *Client) buildURL(filters domain.SearchFilters) string {
	params := url.Values{}
	if filters.Query != "" {
		params.Set("query", filters.Query)
	}
	if filters.Gender != "" {
		params.Set("gender", filters.Gender)
	}
	if filters.MinAge > 0 {
		params.Set("minAge", strconv.Itoa(filters.MinAge))
	}
	if filters.MaxAge > 0 && filters.MaxAge < 100 {
		params.Set("maxAge", strconv.Itoa(filters.MaxAge))
	}
	for _, interest := range filters.Interests {
		params.Add("interest", interest)
	}

	reqURL := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/users"
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}
	return reqURL
}
