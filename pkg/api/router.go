package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires every endpoint onto a mux and wraps it with the middleware
// chain. registry may be nil to disable the /metrics endpoint.
func NewRouter(h *Handlers, registry *prometheus.Registry, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HandleHealth)

	mux.HandleFunc("POST /api/v1/add", h.HandleAdd)
	mux.HandleFunc("POST /api/v1/search/memories", h.HandleSearch)
	mux.HandleFunc("GET /api/v1/profile", h.HandleProfile)
	mux.HandleFunc("POST /api/v1/memories/forget", h.HandleForget)
	mux.HandleFunc("POST /api/v1/documents/list", h.HandleList)
	mux.HandleFunc("POST /api/v1/documents/deleteBulk", h.HandleDeleteBulk)
	mux.HandleFunc("POST /api/v1/profile/promote", h.HandlePromote)
	mux.HandleFunc("GET /api/v1/stats", h.HandleStats)
	mux.HandleFunc("DELETE /api/v1/container/{tag}", h.HandleWipeContainer)

	if registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return Chain(mux, Recovery(logger), RequestLogger(logger))
}
