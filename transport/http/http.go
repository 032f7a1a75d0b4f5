package http

import (
	"context"
	"errors"
	"hostel/config"
	_ "hostel/docs" // swagger spec
	"hostel/infras/metrics"
	"hostel/infras/otel"
	"hostel/internal/domains/desk"
	"hostel/shared/constant"
	"hostel/transport/http/middleware"
	"hostel/transport/http/response"
	"hostel/transport/http/router"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const readHeaderTimeout = 10 * time.Second

type HTTP struct {
	Config        *config.Config
	Router        router.Router
	AppMiddleware middleware.AppMiddleware
	Registry      *desk.Registry
	Otel          otel.Otel

	state     atomic.Int32
	once      sync.Once
	sweepOnce sync.Once
	mux       *chi.Mux
	server    *http.Server
	cancel    context.CancelFunc
}

func New(cfg *config.Config, r router.Router, app middleware.AppMiddleware, registry *desk.Registry, ot otel.Otel) *HTTP {
	return &HTTP{
		Config:        cfg,
		Router:        r,
		AppMiddleware: app,
		Registry:      registry,
		Otel:          ot,
	}
}

func (h *HTTP) Serve() {
	h.setup()
	h.startSweeper()

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	h.setupGracefulShutdown()

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// Handler returns the routes without starting a server, for serverless entry
// points. Idle workspaces are still evicted for as long as the instance lives.
func (h *HTTP) Handler() http.Handler {
	h.setup()
	h.startSweeper()

	return h.mux
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.state.Store(int32(ServerStateReady))
	})
}

// startSweeper runs the workspace eviction loop once; cancel stops it.
func (h *HTTP) startSweeper() {
	h.sweepOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel

		go h.Registry.Run(ctx)
	})
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(
		chiMiddleware.Recoverer,
		h.AppMiddleware.RequestID,
		h.AppMiddleware.Tracing,
		h.AppMiddleware.CORS(),
		h.AppMiddleware.RateLimit(),
	)

	h.mux.Get("/health", h.health)
	h.mux.Handle("/metrics", metrics.Handler())

	if h.Config.Server.Env != constant.ServerEnvProduction {
		h.mux.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	h.Router.SetupRoutes(h.mux)
}

// health godoc
// @Summary Health check
// @Description Reports 503 once the server is shutting down.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /health [get]
func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(w, http.StatusOK, "OK")
	case ServerStateInGracePeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer h.cancel()

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
		h.shutdown(context.Background())

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.state.Store(int32(ServerStateInGracePeriod))

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.state.Store(int32(ServerStateInCleanupPeriod))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	h.shutdown(ctx)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) shutdown(ctx context.Context) {
	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server")
	}

	if err := h.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}
}
