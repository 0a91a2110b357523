package transport

import (
	"fmt"
	"net/http"

	"github.com/quillhq/quill/pkg/agent/search"
	"github.com/quillhq/quill/pkg/api"
	"github.com/quillhq/quill/pkg/storage"
)

// agentSessionLabel names the session agent actions are recorded under.
const agentSessionLabel = "agent"

// handleAgent handles POST /api/agent. Both actions record an audit
// message best-effort; a degraded search or failed crawl still returns
// a well-formed outcome.
func (h *Handler) handleAgent(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	var req api.AgentRequest
	if apiErr := h.decodeJSON(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateAgent(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	session := sessionID(account.ID, agentSessionLabel)

	switch req.Action {
	case api.AgentActionWebSearch:
		results, err := h.searcher.Search(r.Context(), req.Query, search.DefaultResultCount)
		if err != nil {
			WriteError(w, err)
			return
		}

		views := make([]api.SearchResultView, 0, len(results))
		for _, res := range results {
			views = append(views, api.SearchResultView{
				Title:   res.Title,
				URL:     res.URL,
				Snippet: res.Snippet,
			})
		}

		h.appendMessage(r, session, storage.RoleAgent,
			fmt.Sprintf("Web search: %s - Found %d results", req.Query, len(views)))

		WriteJSON(w, http.StatusOK, api.AgentResponse{Result: api.SearchOutcome{
			Query:        req.Query,
			Results:      views,
			Summary:      fmt.Sprintf("Found %d results for: %s", len(views), req.Query),
			TotalResults: len(views),
		}})

	case api.AgentActionCrawlURL:
		// A failed fetch degrades to an error string in the outcome, so
		// the client always gets a well-formed result.
		content, err := h.crawler.Fetch(r.Context(), req.Query)
		if err != nil {
			content = fmt.Sprintf("Error: Unable to crawl URL - %s", err.Error())
		}

		h.appendMessage(r, session, storage.RoleAgent,
			fmt.Sprintf("URL crawl: %s - %d characters", req.Query, len(content)))

		WriteJSON(w, http.StatusOK, api.AgentResponse{Result: api.CrawlOutcome{
			URL:     req.Query,
			Content: content,
		}})
	}
}
