package transport

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/quillhq/quill/pkg/api"
	"github.com/quillhq/quill/pkg/storage"
)

// markdown renders document content for the render endpoint.
var markdown = goldmark.New()

func documentView(d *storage.Document) api.DocumentView {
	return api.DocumentView{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		IsPublic:  d.IsPublic,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// handleCreateDocument handles POST /api/documents.
func (h *Handler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	var req api.DocumentCreateRequest
	if apiErr := h.decodeJSON(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateDocumentCreate(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	doc := &storage.Document{
		Title:   req.Title,
		Content: req.Content,
		OwnerID: account.ID,
	}
	if err := h.store.CreateDocument(r.Context(), doc); err != nil {
		slog.Error("creating document", "account_id", account.ID, "error", err)
		WriteAPIError(w, api.NewStorageError("Failed to create document"))
		return
	}

	slog.Info("document created", "document_id", doc.ID, "account_id", account.ID)
	WriteJSON(w, http.StatusOK, api.DocumentResponse{Document: documentView(doc)})
}

// handleListDocuments handles GET /api/documents.
func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	docs, err := h.store.ListDocuments(r.Context(), account.ID)
	if err != nil {
		slog.Error("listing documents", "account_id", account.ID, "error", err)
		WriteAPIError(w, api.NewStorageError("Failed to list documents"))
		return
	}

	summaries := make([]api.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, api.DocumentSummary{
			ID:        d.ID,
			Title:     d.Title,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}

	WriteJSON(w, http.StatusOK, api.DocumentListResponse{
		Documents: summaries,
		Total:     len(summaries),
	})
}

// handleGetDocument handles GET /api/documents/{id}. Foreign-owned
// documents are indistinguishable from missing ones.
func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	id, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	doc, err := h.store.GetDocument(r.Context(), account.ID, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, api.DocumentResponse{Document: documentView(doc)})
}

// handleUpdateDocument handles PUT /api/documents/{id}.
func (h *Handler) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	id, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	var req api.DocumentUpdateRequest
	if apiErr := h.decodeJSON(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateDocumentUpdate(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	doc, err := h.store.UpdateDocument(r.Context(), account.ID, id, storage.DocumentUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	slog.Info("document updated", "document_id", doc.ID, "account_id", account.ID)
	WriteJSON(w, http.StatusOK, api.DocumentResponse{Document: documentView(doc)})
}

// handleDeleteDocument handles DELETE /api/documents/{id}.
func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	id, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	if err := h.store.DeleteDocument(r.Context(), account.ID, id); err != nil {
		WriteError(w, err)
		return
	}

	slog.Info("document deleted", "document_id", id, "account_id", account.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleRenderDocument handles GET /api/documents/{id}/render, returning
// the document content rendered from Markdown to HTML.
func (h *Handler) handleRenderDocument(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)

	id, apiErr := pathID(r)
	if apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	doc, err := h.store.GetDocument(r.Context(), account.ID, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(doc.Content), &buf); err != nil {
		slog.Error("rendering document", "document_id", doc.ID, "error", err)
		WriteAPIError(w, api.NewStorageError("Failed to render document"))
		return
	}

	WriteJSON(w, http.StatusOK, api.RenderResponse{
		ID:    doc.ID,
		Title: doc.Title,
		HTML:  buf.String(),
	})
}
