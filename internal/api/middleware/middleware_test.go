package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/ports"
	"github.com/bookline/booking-gateway/internal/core/service"
)

type memSessionStore struct {
	rec     ports.SessionRecord
	present bool
}

func (s *memSessionStore) Save(_ context.Context, rec ports.SessionRecord) error {
	s.rec, s.present = rec, true
	return nil
}

func (s *memSessionStore) Load(context.Context) (ports.SessionRecord, bool, error) {
	return s.rec, s.present, nil
}

func (s *memSessionStore) Clear(context.Context) error {
	s.rec, s.present = ports.SessionRecord{}, false
	return nil
}

func TestRequireSession(t *testing.T) {
	e := echo.New()
	sessions := service.NewSessionManager(&memSessionStore{}, zerolog.Nop())
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	guarded := RequireSession(sessions)(next)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/calendar", nil), httptest.NewRecorder())
	err := guarded(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request = %v, want 401", err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "user-1",
		"role":      "ADMIN",
		"companyId": "t1",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if err := sessions.Login(context.Background(), token, "t1", "", ""); err != nil {
		t.Fatal(err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/calendar", nil), httptest.NewRecorder())
	if err := guarded(c); err != nil {
		t.Fatalf("authenticated request rejected: %v", err)
	}
	if c.Get("subject") != "user-1" || c.Get("tenant_id") != "t1" {
		t.Errorf("identity not injected: subject=%v tenant=%v", c.Get("subject"), c.Get("tenant_id"))
	}
}

func TestRateLimiterBurstThenReject(t *testing.T) {
	rl := NewRateLimiter(60, 3)
	defer rl.Close()

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	limited := rl.Middleware()(next)

	newCtx := func(ip string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/public/acme/services", nil)
		req.RemoteAddr = ip + ":1234"
		return e.NewContext(req, httptest.NewRecorder())
	}

	for i := 0; i < 3; i++ {
		if err := limited(newCtx("10.0.0.1")); err != nil {
			t.Fatalf("request %d within burst rejected: %v", i, err)
		}
	}

	err := limited(newCtx("10.0.0.1"))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("over-burst request = %v, want 429", err)
	}

	// Another client has its own budget.
	if err := limited(newCtx("10.0.0.2")); err != nil {
		t.Fatalf("second client rejected: %v", err)
	}
}
