package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	adapthttp "github.com/Alexeya-png/fitness-tracker-git/internal/adapter/http"
	"github.com/Alexeya-png/fitness-tracker-git/internal/adapter/openai"
	"github.com/Alexeya-png/fitness-tracker-git/internal/app"
	"github.com/Alexeya-png/fitness-tracker-git/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

const sessionSweepInterval = time.Hour

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Printf("invalid TZ %q, falling back to local time", cfg.TZ)
		loc = time.Local
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store open: %v", err)
	}
	defer func() { _ = st.Close() }()

	entrySvc := app.NewEntryService(st.entries, st.profiles, cfg.StoreTimeout)
	authSvc := app.NewAuthService(st.users, st.sessions, st.profiles)
	analysisSvc := app.NewAnalysisService(newCompleter(cfg), st.analyses, cfg.AnalyzeTimeout).WithStoreTimeout(cfg.StoreTimeout)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	opts := adapthttp.Options{
		WebDir:           cfg.WebDir,
		SimulatedClock:   cfg.SimulatedClock,
		TrustForwardAuth: cfg.TrustForwardAuth,
		CookieSecure:     cfg.CookieSecure,
	}

	if cfg.OIDCEnabled() {
		oidcCfg, err := newOIDC(sigCtx, cfg)
		if err != nil {
			log.Fatalf("oidc: %v", err)
		}
		opts.OIDC = oidcCfg
	}

	if cfg.RedisAddr != "" && cfg.AnalyzeRateLimit > 0 {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(sigCtx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("redis %s unreachable, rate limiting will fail open: %v", cfg.RedisAddr, err)
		}
		cancel()
		opts.Limiter = adapthttp.NewRedisLimiter(rdb, "analyze", cfg.AnalyzeRateLimit, cfg.AnalyzeRateWindow)
	}

	h := adapthttp.New(adapthttp.Services{
		Entries:  entrySvc,
		Stats:    app.NewStatsService(entrySvc),
		Analysis: analysisSvc,
		Auth:     authSvc,
		Clock:    app.NewClock(loc),
	}, opts).Handler()

	go sweepSessions(sigCtx, authSvc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("listening on %s (store: %s, tz: %s)", cfg.Addr, cfg.Store, loc)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newCompleter(cfg config.Config) app.Completer {
	if cfg.OpenAIAPIKey == "" {
		log.Printf("OPENAI_API_KEY not set, food analysis returns placeholder estimates")
		return openai.Unconfigured{}
	}
	return openai.New(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
}

func newOIDC(ctx context.Context, cfg config.Config) (adapthttp.OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func sweepSessions(ctx context.Context, authSvc *app.AuthService) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authSvc.PurgeExpiredSessions(ctx); err != nil {
				log.Printf("purge sessions: %v", err)
			}
		}
	}
}
