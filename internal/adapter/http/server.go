// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"github.com/Alexeya-png/fitness-tracker-git/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Services groups the application services the HTTP adapter drives.
type Services struct {
	Entries  *app.EntryService
	Stats    *app.StatsService
	Analysis *app.AnalysisService
	Auth     *app.AuthService
	Clock    *app.Clock
}

// OIDCConfig holds the SSO provider settings.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Options configures optional server behaviour.
type Options struct {
	WebDir           string
	OIDC             OIDCConfig
	Limiter          RateLimiter
	SimulatedClock   bool
	TrustForwardAuth bool
	CookieSecure     bool
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	entries  *app.EntryService
	stats    *app.StatsService
	analysis *app.AnalysisService
	authSvc  *app.AuthService
	clock    *app.Clock

	oidcConfig       OIDCConfig
	limiter          RateLimiter
	webDir           string
	simulatedClock   bool
	trustForwardAuth bool
	cookieSecure     bool
	disableAuth      bool
}

// New creates a Server wired to the given application services.
func New(svc Services, opts Options) *Server {
	clock := svc.Clock
	if clock == nil {
		clock = app.NewClock(nil)
	}
	return &Server{
		entries:          svc.Entries,
		stats:            svc.Stats,
		analysis:         svc.Analysis,
		authSvc:          svc.Auth,
		clock:            clock,
		oidcConfig:       opts.OIDC,
		limiter:          opts.Limiter,
		webDir:           opts.WebDir,
		simulatedClock:   opts.SimulatedClock,
		trustForwardAuth: opts.TrustForwardAuth,
		cookieSecure:     opts.CookieSecure,
	}
}

// WithoutAuth disables authentication and serves every request as user 1.
// It is meant for tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)

	api.HandleFunc("/auth/register", s.handleRegister)
	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)
	api.Handle("/me", s.authMiddleware(http.HandlerFunc(s.handleMe)))

	api.HandleFunc("/nutrition/target", s.handleNutritionTarget)

	api.Handle("/entries/today", s.authMiddleware(http.HandlerFunc(s.handleEntriesToday)))
	api.Handle("/entries", s.authMiddleware(http.HandlerFunc(s.handleEntries)))
	api.Handle("/entries/", s.authMiddleware(http.HandlerFunc(s.handleEntryByDate)))
	api.Handle("/streak/recompute", s.authMiddleware(http.HandlerFunc(s.handleStreakRecompute)))
	api.Handle("/stats", s.authMiddleware(http.HandlerFunc(s.handleStats)))

	api.Handle("/analyze-food", s.optionalAuthMiddleware(s.rateLimit(s.handleAnalyzeFood)))
	api.Handle("/analyses", s.authMiddleware(http.HandlerFunc(s.handleAnalyses)))

	api.Handle("/clock", s.authMiddleware(http.HandlerFunc(s.handleClock)))
	api.Handle("/clock/advance", s.authMiddleware(http.HandlerFunc(s.handleClockAdvance)))
	api.Handle("/clock/reset", s.authMiddleware(http.HandlerFunc(s.handleClockReset)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
