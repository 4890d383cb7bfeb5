package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/globalconnect/backend/internal/domain"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) (*Client, *[]time.Duration) {
	t.Helper()
	c := NewClient(Config{
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
		MaxAttempts:    3,
		BaseBackoff:    time.Second,
	}, zap.NewNop())

	delays := &[]time.Duration{}
	c.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return c, delays
}

func usersJSON() string {
	return `{"users":[
		{"id":1,"name":"Alice","email":"alice@example.com","latitude":51.5,"longitude":-0.12,"interests":["Travel"]},
		{"id":2,"name":"Bob","email":"bob@example.com","latitude":"48.85","longitude":"2.35","interests":[]},
		{"id":3,"name":"Carol","email":"carol@example.com","latitude":null,"longitude":null,"interests":[]}
	],"success":true}`
}

func TestFetchUsers_RetryThenSuccess(t *testing.T) {
	var attempts int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(usersJSON()))
	}))
	defer ts.Close()

	c, delays := newTestClient(t, ts.URL)

	users, err := c.FetchUsers(context.Background(), domain.DefaultSearchFilters())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("attempts=%d want=3", got)
	}

	// Two inter-attempt delays, non-decreasing (1s*2^1 then 1s*2^2).
	if len(*delays) != 2 {
		t.Fatalf("delays=%d want=2", len(*delays))
	}
	if (*delays)[0] > (*delays)[1] {
		t.Fatalf("delays decreased: %v", *delays)
	}

	// Carol has no coordinates and must be dropped; Bob's string
	// coordinates must survive normalization.
	if len(users) != 2 {
		t.Fatalf("users=%d want=2", len(users))
	}
	if users[1].Name != "Bob" || *users[1].Latitude != 48.85 {
		t.Fatalf("bob not normalized: %+v", users[1])
	}
}

func TestFetchUsers_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	c, _ := newTestClient(t, ts.URL)

	users, err := c.FetchUsers(context.Background(), domain.DefaultSearchFilters())
	if err == nil {
		t.Fatal("want error after all attempts fail")
	}
	if users != nil {
		t.Fatalf("users=%v want=nil", users)
	}

	// The lenient surface degrades to empty without an error.
	lenient := c.FetchUsersLenient(context.Background(), domain.DefaultSearchFilters())
	if len(lenient) != 0 {
		t.Fatalf("lenient users=%d want=0", len(lenient))
	}
}

func TestFetchUsers_RateLimited(t *testing.T) {
	var attempts int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c, delays := newTestClient(t, ts.URL)

	_, err := c.FetchUsers(context.Background(), domain.DefaultSearchFilters())
	if err == nil {
		t.Fatal("want error when every attempt is rate limited")
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("attempts=%d want=3 (429 is retryable)", got)
	}
	// Each 429 adds a penalty wait on top of the backoff schedule.
	if len(*delays) < 3 {
		t.Fatalf("delays=%d want>=3", len(*delays))
	}
}

func TestFetchUsers_MalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"users": [{`))
	}))
	defer ts.Close()

	c, _ := newTestClient(t, ts.URL)

	if _, err := c.FetchUsers(context.Background(), domain.DefaultSearchFilters()); err == nil {
		t.Fatal("want error for malformed payload")
	}
	if users := c.FetchUsersLenient(context.Background(), domain.DefaultSearchFilters()); len(users) != 0 {
		t.Fatalf("lenient users=%d want=0", len(users))
	}
}

func TestFetchUsers_WrongContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>service temporarily unavailable</html>"))
	}))
	defer ts.Close()

	c, _ := newTestClient(t, ts.URL)

	if _, err := c.FetchUsers(context.Background(), domain.DefaultSearchFilters()); err == nil {
		t.Fatal("want error for non-JSON response")
	}
}

func TestFetchUsers_ZeroMatchesIsNotAnError(t *testing.T) {
	var attempts int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"users":[],"success":true}`))
	}))
	defer ts.Close()

	c, _ := newTestClient(t, ts.URL)

	users, err := c.FetchUsers(context.Background(), domain.DefaultSearchFilters())
	if err != nil {
		t.Fatalf("zero matches must not be an error: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("users=%v want empty non-nil", users)
	}
}

func TestBuildURL_RepeatsInterests(t *testing.T) {
	c, _ := newTestClient(t, "http://example.test")

	filters := domain.DefaultSearchFilters()
	filters.Query = "berlin"
	filters.Gender = "female"
	filters.MinAge = 20
	filters.MaxAge = 30
	filters.Interests = []string{"Travel", "Music"}

	got := c.buildURL(filters)
	want := "http://example.test/api/users?gender=female&interest=Travel&interest=Music&maxAge=30&minAge=20&query=berlin"
	if got != want {
		t.Fatalf("url=%q want=%q", got, want)
	}
}
