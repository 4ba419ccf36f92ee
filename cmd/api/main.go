package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"muin/internal/adapter/repo"
	"muin/internal/admin"
	"muin/internal/db"
	"muin/internal/engagement"
	"muin/internal/entitlement"
	"muin/internal/http/handlers"
	httpapi "muin/internal/http/httpapi"
	"muin/internal/i18n"
	"muin/internal/identity"
	"muin/internal/infra"
	"muin/internal/infra/credentials"
	"muin/internal/infra/geoip"
	"muin/internal/metrics"
	"muin/internal/prompt"
	"muin/internal/providers/answer"
	"muin/internal/qa"
	"muin/internal/quiz"
	"muin/internal/quota"
	"muin/internal/usage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	loc := cfg.Location()

	ctx := context.Background()

	if cfg.MigrateOnStart {
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
		logger.Info().Msg("migrations applied")
	}

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	var quotaStore quota.Store = quota.NewMemoryStore()
	redisClient, err := infra.NewRedisClient(ctx, cfg)
	switch {
	case err != nil:
		logger.Fatal().Err(err).Msg("failed to connect redis")
	case redisClient != nil:
		defer redisClient.Close()
		quotaStore = quota.NewRedisStore(redisClient)
	default:
		logger.Warn().Msg("REDIS_URL not set; quota counters live in process memory")
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()

	apiKey := cfg.GeminiAPIKey
	if cfg.PromptProvider == answer.ProviderOpenAI {
		apiKey = cfg.OpenAIAPIKey
	}
	apiKey, err = credentials.NewStore(runner).Resolve(ctx, cfg.PromptProvider, apiKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load provider key from store")
	}
	proxy, err := newProxy(cfg, apiKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure answer provider")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	entitlements := repo.NewEntitlementRepository(runner)
	questions := repo.NewQuestionRepository(runner)
	stats := repo.NewStatsRepository(runner)
	settings := repo.NewSettingsRepository(runner)
	engagementRepo := repo.NewEngagementRepository(runner)

	manager := entitlement.NewManager(entitlements, cfg.TrialDays, cfg.PaidDays, logger, entitlement.WithFeatureCatalogue(entitlements))
	tracker := quota.NewTracker(quotaStore, settings, cfg.QuotaDailyLimit, loc, logger)

	auth, err := admin.NewAuthenticator(cfg.AdminTokenSecret, cfg.AdminPassHash, cfg.AdminActor, cfg.AdminTokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure admin auth")
	}
	if cfg.AdminPassHash == "" {
		logger.Warn().Msg("ADMIN_PASSWORD_HASH not set; admin login disabled")
	}

	app := &handlers.App{
		QA: qa.NewService(qa.Deps{
			Entitlements: manager,
			Quota:        tracker,
			Composer:     prompt.NewComposer(),
			Proxy:        proxy,
			Recorder:     usage.NewRecorder(questions, stats, loc, logger, collector),
			Questions:    questions,
			Metrics:      collector,
			Logger:       logger,
			MaxRunes:     cfg.MaxQuestionRunes,
		}),
		Entitlements: manager,
		Quota:        tracker,
		Engagement:   engagement.NewService(questions, engagementRepo, logger),
		Quiz:         quiz.NewService(repo.NewQuizRepository(runner), loc),
		Features:     entitlements,
		Console:      admin.NewConsole(questions, engagementRepo, stats, settings),
		Auth:         auth,
		Logger:       logger,
		Ping:         dbpool.Ping,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		Metrics:         collector,
		Gatherer:        reg,
		AllowedOrigins:  cfg.AllowedOrigins,
		DefaultLocale:   i18n.Arabic,
		CountryLookup:   geo.Lookup(),
		Identity:        identity.NewProvider(logger),
		SecureCookie:    cfg.AppEnv == "production",
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("provider", proxy.Name()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// newProxy builds the answer provider client. A missing key is a startup
// error: every question would otherwise fail with a provider error.
func newProxy(cfg *infra.Config, apiKey string) (answer.Proxy, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("no api key for provider %q: set it in the environment or store it with cmd/providerkey", cfg.PromptProvider)
	}
	opts := answer.Options{
		APIKey:  apiKey,
		Timeout: cfg.ProviderTimeout,
		Budget:  answer.Budget{Free: cfg.FreeMaxTokens, Premium: cfg.PremiumMaxTokens},
	}
	if cfg.PromptProvider == answer.ProviderOpenAI {
		opts.Model, opts.BaseURL, opts.Organization = cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.OpenAIOrg
	} else {
		opts.Model, opts.BaseURL = cfg.GeminiModel, cfg.GeminiBaseURL
	}
	return answer.New(cfg.PromptProvider, opts)
}
