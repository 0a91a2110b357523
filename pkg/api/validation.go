package api

import (
	"fmt"
	"strings"
)

// Field length limits matching the storage schema.
const (
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxTitleLength    = 255
	MaxPasswordLength = 128
	MinPasswordLength = 6
	MaxSessionLabel   = 128
)

// ValidateRegister checks a RegisterRequest. It returns an *APIError
// describing the first validation failure, or nil if the request is valid.
func ValidateRegister(req *RegisterRequest) *APIError {
	if strings.TrimSpace(req.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if len(req.Name) > MaxNameLength {
		return NewValidationError("name",
			fmt.Sprintf("name exceeds maximum of %d characters", MaxNameLength))
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if len(req.Password) < MinPasswordLength {
		return NewValidationError("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(req.Password) > MaxPasswordLength {
		return NewValidationError("password",
			fmt.Sprintf("password exceeds maximum of %d characters", MaxPasswordLength))
	}
	return nil
}

// ValidateLogin checks a LoginRequest.
func ValidateLogin(req *LoginRequest) *APIError {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return NewValidationError("password", "password is required")
	}
	return nil
}

// ValidateDocumentCreate checks a DocumentCreateRequest.
func ValidateDocumentCreate(req *DocumentCreateRequest) *APIError {
	if strings.TrimSpace(req.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	if len(req.Title) > MaxTitleLength {
		return NewValidationError("title",
			fmt.Sprintf("title exceeds maximum of %d characters", MaxTitleLength))
	}
	return nil
}

// ValidateDocumentUpdate checks a DocumentUpdateRequest. At least one field
// must be present, and a provided title must be non-empty.
func ValidateDocumentUpdate(req *DocumentUpdateRequest) *APIError {
	if req.Title == nil && req.Content == nil {
		return NewValidationError("", "at least one of title or content is required")
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return NewValidationError("title", "title must not be empty")
		}
		if len(*req.Title) > MaxTitleLength {
			return NewValidationError("title",
				fmt.Sprintf("title exceeds maximum of %d characters", MaxTitleLength))
		}
	}
	return nil
}

// ValidateChat checks a ChatRequest.
func ValidateChat(req *ChatRequest) *APIError {
	if strings.TrimSpace(req.Prompt) == "" {
		return NewValidationError("prompt", "prompt cannot be empty")
	}
	if len(req.SessionID) > MaxSessionLabel {
		return NewValidationError("session_id",
			fmt.Sprintf("session_id exceeds maximum of %d characters", MaxSessionLabel))
	}
	return nil
}

// ValidateAgent checks an AgentRequest.
func ValidateAgent(req *AgentRequest) *APIError {
	if strings.TrimSpace(req.Query) == "" {
		return NewValidationError("query", "query cannot be empty")
	}
	switch req.Action {
	case AgentActionWebSearch, AgentActionCrawlURL:
		return nil
	default:
		return NewValidationError("action",
			fmt.Sprintf("unsupported agent action: %q (supported: %s, %s)",
				req.Action, AgentActionWebSearch, AgentActionCrawlURL))
	}
}

// validateEmail applies a minimal structural check. Deliverability is not
// the server's concern; uniqueness is enforced by storage.
func validateEmail(email string) *APIError {
	if strings.TrimSpace(email) == "" {
		return NewValidationError("email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return NewValidationError("email",
			fmt.Sprintf("email exceeds maximum of %d characters", MaxEmailLength))
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return NewValidationError("email", "email is not valid")
	}
	return nil
}
