// Package auraservice wires configuration, storage, collaborators and
// the HTTP surface into a runnable service.
package auraservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/goldenaura/aura-server/internal/api"
	"github.com/goldenaura/aura-server/internal/config"
	"github.com/goldenaura/aura-server/internal/factory"
	"github.com/goldenaura/aura-server/internal/health"
	"github.com/goldenaura/aura-server/internal/logger"
	"github.com/goldenaura/aura-server/internal/ratelimit"
	"github.com/goldenaura/aura-server/internal/rules"
	"github.com/goldenaura/aura-server/internal/services"
	"github.com/goldenaura/aura-server/internal/speech"
	"github.com/goldenaura/aura-server/internal/store"
	"github.com/goldenaura/aura-server/internal/verifier"
)

// Run starts the aura service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("aura-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("store_driver", cfg.StoreDriver).
		Int("http_port", cfg.HTTPPort).
		Str("verifier_url", cfg.VerifierURL).
		Str("speech_url", cfg.SpeechURL).
		Str("default_neighborhood", cfg.DefaultNeighborhood).
		Msg("Aura service starting")

	ctx, stop := newServerContext()
	defer stop()

	st, err := factory.NewStore(cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer func() { _ = st.Close() }()

	cleanupVerifier := newVerifier(cfg)
	tts := speech.New(cfg.SpeechURL, cfg.SpeechAPIKey, cfg.SpeechVoiceID, time.Duration(cfg.SpeechTimeoutSeconds)*time.Second)

	router := buildRouter(st, cfg, cleanupVerifier, tts, log)
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	}).Handler(router)

	storeChecker := startHealthCheckers(ctx, cfg, log, st, cleanupVerifier, tts)

	// Block startup until the store reports healthy; fail fast otherwise.
	if err := waitUntilHealthy(ctx, cfg, storeChecker); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, handler)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

func newVerifier(cfg *config.Config) verifier.CleanupVerifier {
	if cfg.VerifierURL == "" {
		return verifier.Disabled{}
	}
	return verifier.NewHTTP(cfg.VerifierURL, time.Duration(cfg.VerifierTimeoutSeconds)*time.Second)
}

// buildRouter constructs services and wires HTTP routes to handlers.
func buildRouter(st store.Store, cfg *config.Config, cv verifier.CleanupVerifier, tts speech.Synthesizer, log zerolog.Logger) http.Handler {
	engine := rules.NewEngine(cfg)
	limiter := ratelimit.New(st.Counters(), cfg.MindfulnessDailyCap, nil)
	dirSvc := services.NewDirectoryService(st, cfg.DefaultNeighborhood)
	actionSvc := services.NewActionService(st, engine, limiter, cv, dirSvc, log)
	summarySvc := services.NewSummaryService(st, dirSvc)
	return api.NewRouter(actionSvc, summarySvc, dirSvc, tts, log)
}

// startHealthCheckers starts component checkers and the service-level
// aggregator, binds /api/health, and returns the store checker used to
// gate startup. Collaborator checkers run only when a pinger exists so
// an unreachable TTS service never blocks boot.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, cv verifier.CleanupVerifier, tts speech.Synthesizer) *health.PingChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	var checkers []health.HealthChecker

	storePinger, ok := st.(health.HealthPinger)
	if !ok {
		storePinger = pingFunc(func(context.Context) error { return nil })
	}
	storeChecker := health.NewPingChecker("store", storePinger, log, probeTimeout)
	go storeChecker.Start(ctx, interval)
	checkers = append(checkers, storeChecker)

	if p, ok := cv.(health.HealthPinger); ok {
		c := health.NewPingChecker("verifier", p, log, probeTimeout)
		go c.Start(ctx, interval)
		checkers = append(checkers, c)
	}
	if p, ok := tts.(health.HealthPinger); ok && cfg.SpeechAPIKey != "" {
		c := health.NewPingChecker("speech", p, log, probeTimeout)
		go c.Start(ctx, interval)
		checkers = append(checkers, c)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return storeChecker
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) HealthPing(ctx context.Context) error { return f(ctx) }

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// waitUntilHealthy blocks until the store is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, storeChecker *health.PingChecker) error {
	timeoutSeconds := cfg.HealthIntervalSeconds * 2
	if timeoutSeconds < 60 {
		timeoutSeconds = 60
	}
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if storeChecker.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: store not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
