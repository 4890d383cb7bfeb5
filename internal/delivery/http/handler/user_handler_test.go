package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/globalconnect/backend/internal/delivery/http/middleware"
	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/ratelimit"
	"github.com/globalconnect/backend/internal/usecase/directory"
	"go.uber.org/zap"
)

// memoryUserRepo applies the same matching the SQL search does, against an
// in-memory fixture set.
type memoryUserRepo struct {
	users []domain.User
	err   error
}

func (r *memoryUserRepo) Create(context.Context, *domain.User, string) error { return nil }
func (r *memoryUserRepo) GetByID(context.Context, int) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *memoryUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *memoryUserRepo) SetLocation(context.Context, int, float64, float64, string) error {
	return nil
}

func (r *memoryUserRepo) Search(_ context.Context, filters domain.SearchFilters, limit int) ([]domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	var matched []domain.User
	for _, u := range r.users {
		if filters.Query != "" && !matchesQuery(u, filters.Query) {
			continue
		}
		if filters.Gender != "" && (u.Gender == nil || *u.Gender != filters.Gender) {
			continue
		}
		if u.Age != nil && (*u.Age < filters.MinAge || (filters.MaxAge < 100 && *u.Age > filters.MaxAge)) {
			continue
		}
		if len(filters.Interests) > 0 && !hasAnyInterest(u, filters.Interests) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func matchesQuery(u domain.User, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(u.Name), q) {
		return true
	}
	return u.LocationName != nil && strings.Contains(strings.ToLower(*u.LocationName), q)
}

func hasAnyInterest(u domain.User, wanted []string) bool {
	for _, w := range wanted {
		for _, have := range u.Interests {
			if have == w {
				return true
			}
		}
	}
	return false
}

type staticInterests []string

func (s staticInterests) ListDistinct(context.Context) ([]string, error) { return s, nil }

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func fixtureUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "Zoe", Gender: strPtr("female"), Age: intPtr(25),
			Interests: []string{"Travel", "Music"},
			Latitude:  floatPtr(52.52), Longitude: floatPtr(13.405)},
		{ID: 2, Name: "Anna", Gender: strPtr("female"), Age: intPtr(28),
			Interests: []string{"Travel"},
			Latitude:  floatPtr(52.53), Longitude: floatPtr(13.41)},
		{ID: 3, Name: "Maria", Gender: strPtr("female"), Age: intPtr(35), // outside age range
			Interests: []string{"Travel"},
			Latitude:  floatPtr(52.51), Longitude: floatPtr(13.40)},
		{ID: 4, Name: "Tom", Gender: strPtr("male"), Age: intPtr(25), // wrong gender
			Interests: []string{"Travel"},
			Latitude:  floatPtr(52.52), Longitude: floatPtr(13.41)},
		{ID: 5, Name: "Eva", Gender: strPtr("female"), Age: intPtr(22), // no matching interest
			Interests: []string{"Art"},
			Latitude:  floatPtr(52.52), Longitude: floatPtr(13.42)},
	}
}

func newTestRouter(t *testing.T, repo *memoryUserRepo, limiter ratelimit.Limiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := directory.NewDirectoryUseCase(repo, staticInterests{"Art", "Music", "Travel"},
		directory.Config{DefaultRadiusKm: 50, MaxRadiusKm: 100}, zap.NewNop())
	h := NewUserHandler(uc, zap.NewNop())

	r := gin.New()
	users := r.Group("/api")
	if limiter != nil {
		users.Use(middleware.NewRateLimitMiddleware(limiter, zap.NewNop()).Limit())
	}
	users.GET("/users", h.Search)
	users.GET("/interests", h.ListInterests)
	return r
}

func doSearch(t *testing.T, r *gin.Engine, rawQuery string) (int, UsersResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users?"+rawQuery, nil)
	r.ServeHTTP(w, req)

	var body UsersResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w.Code, body
}

func TestSearch_CombinedFilters(t *testing.T) {
	r := newTestRouter(t, &memoryUserRepo{users: fixtureUsers()}, nil)

	code, body := doSearch(t, r, "gender=female&minAge=20&maxAge=30&interest=Travel")
	if code != http.StatusOK {
		t.Fatalf("status=%d want=200", code)
	}
	if !body.Success || body.Error != "" {
		t.Fatalf("envelope=%+v", body)
	}

	// Only Anna and Zoe satisfy every filter, ordered by name.
	if len(body.Users) != 2 {
		t.Fatalf("users=%d want=2: %+v", len(body.Users), body.Users)
	}
	if body.Users[0].Name != "Anna" || body.Users[1].Name != "Zoe" {
		t.Fatalf("order=%q,%q want Anna,Zoe", body.Users[0].Name, body.Users[1].Name)
	}
}

func TestSearch_ProximityFilter(t *testing.T) {
	users := fixtureUsers()
	far := floatPtr(48.85)
	farLon := floatPtr(2.35)
	users[0].Latitude, users[0].Longitude = far, farLon // Zoe moves to Paris

	r := newTestRouter(t, &memoryUserRepo{users: users}, nil)

	code, body := doSearch(t, r, "gender=female&minAge=20&maxAge=30&interest=Travel&lat=52.52&lon=13.405&radius=50")
	if code != http.StatusOK {
		t.Fatalf("status=%d want=200", code)
	}
	if len(body.Users) != 1 || body.Users[0].Name != "Anna" {
		t.Fatalf("users=%+v want only Anna", body.Users)
	}
}

func TestSearch_FailureKeepsEnvelope(t *testing.T) {
	r := newTestRouter(t, &memoryUserRepo{err: context.DeadlineExceeded}, nil)

	code, body := doSearch(t, r, "")
	if code != http.StatusOK {
		t.Fatalf("status=%d want=200 (errors ride inside the envelope)", code)
	}
	if body.Success {
		t.Fatal("success=true on failure")
	}
	if body.Error == "" {
		t.Fatal("want non-empty error")
	}
	if body.Users == nil || len(body.Users) != 0 {
		t.Fatalf("users=%v want empty non-nil", body.Users)
	}
}

func TestSearch_EmptyResultIsSuccess(t *testing.T) {
	r := newTestRouter(t, &memoryUserRepo{users: fixtureUsers()}, nil)

	code, body := doSearch(t, r, "query=nobody-matches-this")
	if code != http.StatusOK {
		t.Fatalf("status=%d want=200", code)
	}
	if !body.Success || body.Error != "" {
		t.Fatalf("envelope=%+v", body)
	}
	if body.Users == nil || len(body.Users) != 0 {
		t.Fatalf("users=%v want empty non-nil", body.Users)
	}
}

func TestSearch_RateLimited(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(20, time.Minute)
	r := newTestRouter(t, &memoryUserRepo{users: fixtureUsers()}, limiter)

	for i := 0; i < 20; i++ {
		if code, _ := doSearch(t, r, ""); code != http.StatusOK {
			t.Fatalf("request %d: status=%d want=200", i+1, code)
		}
	}
	if code, _ := doSearch(t, r, ""); code != http.StatusTooManyRequests {
		t.Fatalf("request 21: status=%d want=429", code)
	}
}

func TestListInterests(t *testing.T) {
	r := newTestRouter(t, &memoryUserRepo{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/interests", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=200", w.Code)
	}
	var body struct {
		Interests []string `json:"interests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Interests) != 3 || body.Interests[2] != "Travel" {
		t.Fatalf("interests=%v", body.Interests)
	}
}
