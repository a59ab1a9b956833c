package app

import (
	"net/http"
	"time"

	"github.com/Black-And-White-Club/dart-league/app/shared/httpmiddleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const readHeaderTimeout = 5 * time.Second

// Handler builds the HTTP routes for the API, health and metrics.
func (app *App) Handler() http.Handler {
	cfg := app.Config.HTTP
	limiter := httpmiddleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.CorrelationIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Method(http.MethodGet, "/metrics", app.Observability.MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/fixtures", func(r chi.Router) {
			app.FixtureModule.Routes(r, httpmiddleware.RateLimitMiddleware(limiter))
		})
		r.Route("/divisions", app.DivisionModule.Routes)
	})

	return otelhttp.NewHandler(r, "http",
		otelhttp.WithTracerProvider(app.Observability.TracerProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
