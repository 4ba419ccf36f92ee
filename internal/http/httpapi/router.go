package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"muin/internal/http/handlers"
	"muin/internal/identity"
	"muin/internal/metrics"
	"muin/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	Logger          zerolog.Logger
	Metrics         metrics.Recorder
	Gatherer        prometheus.Gatherer
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	Identity        *identity.Provider
	SecureCookie    bool
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	if opts.Identity == nil {
		opts.Identity = identity.NewProvider(opts.Logger)
	}
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger, opts.Metrics),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(opts.Gatherer))
	}
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
			middleware.Identity(opts.Identity, opts.SecureCookie),
		)

		r.Get("/v1/me", app.Me)
		r.Route("/v1/questions", func(r chi.Router) {
			r.Post("/", app.AskQuestion)
			r.Get("/", app.ListQuestions)
			r.Post("/{id}/feedback", app.SubmitFeedback)
		})
		r.Route("/v1/favorites", func(r chi.Router) {
			r.Get("/", app.ListFavorites)
			r.Post("/", app.AddFavorite)
			r.Delete("/{questionId}", app.RemoveFavorite)
		})
		r.Get("/v1/quiz/today", app.QuizToday)
		r.Post("/v1/quiz/answer", app.QuizAnswer)
		r.Get("/v1/features", app.ListFeatures)
		r.Get("/v1/settings/background", app.Background)
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.With(middleware.RateLimit(10, time.Minute)).Post("/login", app.AdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(app.Auth))
			r.Post("/activations", app.AdminActivate)
			r.Get("/stats", app.AdminStats)
			r.Put("/settings/{key}", app.AdminPutSetting)
			r.Delete("/questions/{id}", app.AdminDeleteQuestion)
			r.Get("/export", app.AdminExport)
		})
	})

	return r
}
