package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quillhq/quill/pkg/api"
)

// handleRoot handles GET /, the unauthenticated liveness banner.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, api.RootResponse{
		Message:  "Quill API is running",
		Status:   "healthy",
		Version:  Version,
		Features: []string{"auth", "chat", "web_search", "url_crawling", "documents"},
	})
}

// handleHealth handles GET /health, reporting per-component status.
// The endpoint always answers 200: a degraded component is described,
// not hidden behind an opaque 5xx.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	storageStatus := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.HealthCheck(ctx); err != nil {
		storageStatus = fmt.Sprintf("unhealthy: %s", err.Error())
	}

	llmStatus := "not configured"
	if h.llm.Configured() {
		llmStatus = "configured"
	}

	WriteJSON(w, http.StatusOK, api.HealthResponse{
		API:     "healthy",
		Storage: storageStatus,
		LLM:     llmStatus,
		Search:  "available: " + strings.Join(h.searcher.Providers(), ", "),
	})
}
