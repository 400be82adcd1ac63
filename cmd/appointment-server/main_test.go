package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/PhilimonNag/doctor-appointment-api/internal/config"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(api *echo.Group) {
	api.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		Env:             "test",
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    100,
		RateLimitBurst:  200,
		BodyLimit:       "1M",
		ShutdownTimeout: time.Second,
	}
}

func TestNewServer_Health(t *testing.T) {
	e := newServer(testConfig(), zerolog.Nop(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestNewServer_RegistersRoutesUnderAPIV1(t *testing.T) {
	e := newServer(testConfig(), zerolog.Nop(), nil, pingRoutes{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("expected pong, got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-RateLimit-Limit") != "100" {
		t.Errorf("expected rate limit header, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestNewServer_UnknownRouteUsesEnvelope(t *testing.T) {
	e := newServer(testConfig(), zerolog.Nop(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("expected envelope body, got %s", rec.Body.String())
	}
}

func TestNewServer_CORS(t *testing.T) {
	e := newServer(testConfig(), zerolog.Nop(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected CORS origin header, got %q", got)
	}
}

func TestMigrateCmd_Subcommands(t *testing.T) {
	cmd := migrateCmd()
	want := map[string]bool{"up": false, "status": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected migrate %s subcommand", name)
		}
	}
}
