package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/metrics"
)

// RouterConfig holds the middleware settings of the HTTP API.
type RouterConfig struct {
	APIKeys           []string
	RequestsPerSecond float64
	Burst             int
}

// NewRouter mounts the API on a chi router with the standard middleware chain:
// panic recovery, request id, canonical log line, auth, rate limit, metrics.
func NewRouter(server ServerInterface, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(logger))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(RateLimitMiddleware(cfg.RequestsPerSecond, cfg.Burst))
	r.Use(metrics.Middleware())

	return HandlerWithOptions(server, ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: ErrorHandler,
	})
}
