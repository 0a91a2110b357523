package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/quillhq/quill/pkg/api"
	"github.com/quillhq/quill/pkg/auth"
	"github.com/quillhq/quill/pkg/storage"
)

// handleRegister handles POST /api/auth/register.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if apiErr := h.decodeJSON(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateRegister(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		WriteAPIError(w, api.NewStorageError("Failed to create account"))
		return
	}

	account := &storage.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := h.store.CreateAccount(r.Context(), account); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			WriteAPIError(w, api.NewConflictError("Email already registered"))
			return
		}
		slog.Error("creating account", "error", err)
		WriteAPIError(w, api.NewStorageError("Failed to create account"))
		return
	}

	token, err := h.tokens.Issue(account.ID, account.Email)
	if err != nil {
		slog.Error("issuing token", "account_id", account.ID, "error", err)
		WriteAPIError(w, api.NewConfigurationError("Failed to issue token"))
		return
	}

	slog.Info("account registered", "account_id", account.ID)
	WriteJSON(w, http.StatusOK, api.AuthResponse{
		Token: token,
		User:  accountSummary(account),
	})
}

// handleLogin handles POST /api/auth/login. Unknown emails and digest
// mismatches produce the same response.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if apiErr := h.decodeJSON(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if apiErr := api.ValidateLogin(&req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	account, err := h.store.GetAccountByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteAPIError(w, api.NewAuthenticationError("Invalid credentials"))
			return
		}
		slog.Error("loading account", "error", err)
		WriteAPIError(w, api.NewStorageError("Login failed"))
		return
	}

	if err := auth.ComparePassword(account.PasswordHash, req.Password); err != nil {
		WriteAPIError(w, api.NewAuthenticationError("Invalid credentials"))
		return
	}
	if !account.IsActive {
		WriteAPIError(w, api.NewAuthenticationError("Invalid credentials"))
		return
	}

	token, err := h.tokens.Issue(account.ID, account.Email)
	if err != nil {
		slog.Error("issuing token", "account_id", account.ID, "error", err)
		WriteAPIError(w, api.NewConfigurationError("Failed to issue token"))
		return
	}

	slog.Info("account logged in", "account_id", account.ID)
	WriteJSON(w, http.StatusOK, api.AuthResponse{
		Token: token,
		User:  accountSummary(account),
	})
}

// handleMe handles GET /api/auth/me.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	account := h.account(r)
	WriteJSON(w, http.StatusOK, api.MeResponse{User: accountSummary(account)})
}
