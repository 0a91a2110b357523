package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/quillhq/quill/pkg/agent/search"
	"github.com/quillhq/quill/pkg/api"
	"github.com/quillhq/quill/pkg/auth"
	"github.com/quillhq/quill/pkg/llm"
	"github.com/quillhq/quill/pkg/storage"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Searcher is the slice of search.Multi the handlers need.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int) ([]search.Result, error)
	Providers() []string
}

// Fetcher is the slice of crawl.Crawler the handlers need.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Handler implements the API endpoints. One instance serves all requests.
type Handler struct {
	store       storage.Store
	tokens      *auth.Tokens
	llm         *llm.Client
	searcher    Searcher
	crawler     Fetcher
	maxBodySize int64
}

// decodeJSON reads the request body into dst, bounded by maxBodySize.
// A malformed or oversized body is a validation error.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) *api.APIError {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return api.NewValidationError("", "Request body too large")
		}
		return api.NewValidationError("", "Invalid JSON body")
	}
	return nil
}

// account returns the authenticated account the middleware resolved.
// Reaching a protected handler without one is a programming error.
func (h *Handler) account(r *http.Request) *storage.Account {
	a, ok := auth.AccountFromContext(r.Context())
	if !ok {
		panic("handler reached without authenticated account")
	}
	return a
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, *api.APIError) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, api.NewValidationError("id", "Invalid document id")
	}
	return id, nil
}

func accountSummary(a *storage.Account) api.AccountSummary {
	return api.AccountSummary{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
	}
}
