package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillhq/quill/pkg/api"
	"github.com/quillhq/quill/pkg/llm"
	"github.com/quillhq/quill/pkg/observability"
	"github.com/quillhq/quill/pkg/storage"
)

// defaultSessionLabel is used when the client does not name a session.
const defaultSessionLabel = "default"

// sessionID derives the stored session id from the account, so one
// account can never read or write another's history.
func sessionID(accountID int64, label string) string {
	if label == "" {
		label = defaultSessionLabel
	}
	return fmt.Sprintf("user_%d_%s", accountID, label)
}

// handleChat handles POST /api/chat: proxy the prompt to the LLM backend
// and persist both sides of the exchange.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	var req api.ChatRequest
	if apiErr := h.decodeJSON(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateChat(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	if !h.llm.Configured() {
		WriteAPIError(w, api.NewConfigurationError("AI service not configured. Please contact administrator."))
		return
	}

	start := time.Now()
	reply, err := h.llm.Complete(r.Context(), []llm.Message{
		{Role: llm.RoleUser, Content: req.Prompt},
	})
	if err != nil {
		observability.LLMRequestsTotal.WithLabelValues(h.llm.Model(), "error").Inc()
		slog.Error("chat completion", "account_id", account.ID, "error", err)
		WriteError(w, err)
		return
	}
	observability.LLMRequestsTotal.WithLabelValues(h.llm.Model(), "ok").Inc()
	observability.LLMLatency.WithLabelValues(h.llm.Model()).Observe(time.Since(start).Seconds())

	// Persist the exchange best-effort: a storage failure must not lose
	// the completion the user already paid for.
	session := sessionID(account.ID, req.SessionID)
	h.appendMessage(r, session, storage.RoleUser, req.Prompt)
	h.appendMessage(r, session, storage.RoleAssistant, reply)

	WriteJSON(w, http.StatusOK, api.ChatResponse{
		Response:  reply,
		SessionID: req.SessionID,
	})
}

// appendMessage stores a chat message, logging instead of failing.
func (h *Handler) appendMessage(r *http.Request, session, role, content string) {
	err := h.store.AppendMessage(r.Context(), &storage.ChatMessage{
		SessionID: session,
		Role:      role,
		Content:   content,
	})
	if err != nil {
		slog.Error("storing chat message", "session_id", session, "role", role, "error", err)
	}
}

// handleChatHistory handles GET /api/chat/history/{session_id}. The path
// segment is the client's label; the lookup always goes through the
// caller's derived session id.
func (h *Handler) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	label := r.PathValue("session_id")
	if len(label) > api.MaxSessionLabel {
		WriteAPIError(w, api.NewValidationError("session_id",
			fmt.Sprintf("session_id exceeds maximum of %d characters", api.MaxSessionLabel)))
		return
	}

	msgs, err := h.store.ListMessages(r.Context(), sessionID(account.ID, label))
	if err != nil {
		slog.Error("listing chat history", "account_id", account.ID, "error", err)
		WriteAPIError(w, api.NewStorageError("Failed to retrieve chat history"))
		return
	}

	views := make([]api.ChatMessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, api.ChatMessageView{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	WriteJSON(w, http.StatusOK, api.ChatHistoryResponse{
		SessionID: label,
		Messages:  views,
		Total:     len(views),
	})
}
