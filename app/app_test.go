package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Black-And-White-Club/dart-league/app/modules/division"
	divisiondomain "github.com/Black-And-White-Club/dart-league/app/modules/division/domain"
	"github.com/Black-And-White-Club/dart-league/app/modules/fixture"
	"github.com/Black-And-White-Club/dart-league/app/shared/clock"
	"github.com/Black-And-White-Club/dart-league/app/shared/featureflags"
	"github.com/Black-And-White-Club/dart-league/app/shared/httpmiddleware"
	"github.com/Black-And-White-Club/dart-league/app/shared/observability"
	"github.com/Black-And-White-Club/dart-league/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires the modules without a database; only routes that fail
// before reaching storage are exercised.
func newTestApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()

	obs, err := observability.Init(ctx, observability.Config{ServiceName: "dart-league", LogLevel: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	cfg := &config.Config{HTTP: config.HTTPConfig{
		RateLimit:       100,
		RateBurst:       100,
		ShutdownTimeout: time.Second,
		AllowedOrigins:  []string{"https://league.example"},
	}}
	app := NewApp(cfg, obs)

	clk := clock.NewAnchorClock(time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC))
	app.FixtureModule, err = fixture.NewFixtureModule(ctx, obs, nil, featureflags.Static{}, clk, nil)
	require.NoError(t, err)
	app.DivisionModule, err = division.NewDivisionModule(ctx, obs, nil, nil, featureflags.Static{}, clk, divisiondomain.DefaultPointsPolicy, nil, ctx, nil)
	require.NoError(t, err)
	return app
}

func TestHandlerRoutes(t *testing.T) {
	handler := newTestApp(t).Handler()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusNoContent},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "fixture id validated", method: http.MethodGet, path: "/api/fixtures/nope", wantStatus: http.StatusBadRequest},
		{name: "merge body validated", method: http.MethodPost, path: "/api/fixtures/3f1c1c8e-8a57-4a43-9c55-0f4f1d0f8c11/accept", wantStatus: http.StatusBadRequest},
		{name: "standings ids validated", method: http.MethodGet, path: "/api/divisions/x/seasons/y/standings", wantStatus: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/api/teams", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("not json"))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandlerEchoesCorrelationID(t *testing.T) {
	handler := newTestApp(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpmiddleware.CorrelationIDHeader, "corr-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "corr-123", rec.Header().Get(httpmiddleware.CorrelationIDHeader))
}

func TestHandlerAnswersPreflight(t *testing.T) {
	handler := newTestApp(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/fixtures/3f1c1c8e-8a57-4a43-9c55-0f4f1d0f8c11/accept", nil)
	req.Header.Set("Origin", "https://league.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://league.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
