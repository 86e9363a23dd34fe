package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/accrabet/accrabet/internal/contest"
	"github.com/accrabet/accrabet/internal/database"
	"github.com/accrabet/accrabet/internal/handler"
	"github.com/accrabet/accrabet/internal/logger"
	"github.com/accrabet/accrabet/internal/metrics"
	"github.com/accrabet/accrabet/internal/reconcile"
	"github.com/accrabet/accrabet/internal/repository"
	"github.com/accrabet/accrabet/internal/wager"
)

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer wires the router. The auth middleware admits operator traffic by
// API key; webhook and referral paths are public by prefix.
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool,
	wagerService wager.Service, contestService contest.Service, reconcileService reconcile.Service,
	ledgerRepo repository.Ledger, userRepo repository.User) *Server {

	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(ClientIPMiddleware(trustedProxies))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	wagerHandler := handler.NewWagerHandler(wagerService)
	walletHandler := handler.NewWalletHandler(ledgerRepo)
	depositHandler := handler.NewDepositHandler(reconcileService)
	contestHandler := handler.NewContestHandler(contestService)
	webhookHandler := handler.NewWebhookHandler(reconcileService)
	referralHandler := handler.NewReferralHandler(reconcileService)
	userHandler := handler.NewUserHandler(userRepo)

	// External event intake (gateway-facing, no API key)
	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/payments", webhookHandler.HandlePaymentWebhook)
		r.Post("/sms", webhookHandler.HandleSMSWebhook)
	})

	// Referral short links (public)
	r.Get("/r/{code}", referralHandler.HandleReferralClick)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users/register", userHandler.HandleRegisterUser)

		r.Route("/wagers", func(r chi.Router) {
			r.Post("/", wagerHandler.HandlePlaceWager)
			r.Get("/", wagerHandler.HandleListWagers)
			r.Get("/{id}", wagerHandler.HandleGetWager)
		})

		r.Get("/wallet", walletHandler.HandleGetWallet)
		r.Post("/deposits", depositHandler.HandleInitiateDeposit)

		r.Get("/contests/{id}", contestHandler.HandleGetContest)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/contests", contestHandler.HandleCreateContest)
			r.Post("/contests/{id}/void", contestHandler.HandleVoidContest)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics.
		// HasPrefix catches potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
