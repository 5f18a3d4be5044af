package rpc

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"campusledger/core"
)

// Server exposes the node's entry points over HTTP. Transaction submission
// and signing live outside this core, so each request names its caller
// explicitly; the surrounding deployment is expected to front this listener
// with its own authentication.
type Server struct {
	node    *core.Node
	log     *slog.Logger
	limiter *rate.Limiter
	http    *http.Server
}

// NewServer builds the HTTP facade over the provided node.
func NewServer(node *core.Node, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		node:    node,
		log:     logger,
		limiter: rate.NewLimiter(rate.Limit(200), 400),
	}
	router := chi.NewRouter()
	router.Use(s.requestID, s.throttle)

	router.Post("/v1/token/mint", s.handleMint)
	router.Post("/v1/token/burn", s.handleBurn)
	router.Post("/v1/token/transfer", s.handleTransfer)
	router.Get("/v1/token/balance/{addr}", s.handleBalance)

	router.Post("/v1/admin/addStudent", s.handleAddStudent)
	router.Post("/v1/admin/removeStudent", s.handleRemoveStudent)
	router.Post("/v1/admin/addServiceProvider", s.handleAddProvider)
	router.Post("/v1/admin/updateServiceProvider", s.handleUpdateProvider)
	router.Post("/v1/admin/removeServiceProvider", s.handleRemoveProvider)
	router.Post("/v1/admin/setFeePercentage", s.handleSetFee)
	router.Post("/v1/admin/airdropStudents", s.handleAirdrop)

	router.Post("/v1/provider/addService", s.handleAddService)
	router.Post("/v1/provider/removeService", s.handleRemoveService)
	router.Post("/v1/provider/updateService", s.handleUpdateService)
	router.Post("/v1/provider/setServiceDiscount", s.handleSetDiscount)
	router.Get("/v1/provider/{addr}/rating", s.handleAverageRating)
	router.Get("/v1/provider/{addr}/service/{id}", s.handleGetService)

	router.Post("/v1/student/payForService", s.handlePay)
	router.Post("/v1/student/rateProvider", s.handleRate)

	router.Get("/v1/fees", s.handleGetFee)
	router.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Listen serves until the context is cancelled or the listener fails.
func (s *Server) Listen(ctx context.Context, addr string) error {
	s.http.Addr = addr
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		s.log.Debug("rpc request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
