package api

import "time"

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountSummary is the public view of an account. The password digest
// never leaves the storage layer.
type AccountSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string         `json:"token"`
	User  AccountSummary `json:"user"`
}

// MeResponse is returned by GET /api/auth/me.
type MeResponse struct {
	User AccountSummary `json:"user"`
}

// DocumentCreateRequest is the body for POST /api/documents.
type DocumentCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DocumentUpdateRequest is the body for PUT /api/documents/{id}.
// Nil fields are left unchanged.
type DocumentUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// DocumentView is the full document representation.
type DocumentView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentSummary omits the content for list responses.
type DocumentSummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentResponse wraps a single document.
type DocumentResponse struct {
	Document DocumentView `json:"document"`
}

// DocumentListResponse wraps a document listing.
type DocumentListResponse struct {
	Documents []DocumentSummary `json:"documents"`
	Total     int               `json:"total"`
}

// ChatRequest is the body for POST /api/chat. SessionID is a client-chosen
// label; the server derives the stored session id from the account id.
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"session_id"`
}

// ChatResponse carries the completion text back to the client.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ChatMessageView is one message in a chat history response.
type ChatMessageView struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatHistoryResponse wraps a session's message log.
type ChatHistoryResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []ChatMessageView `json:"messages"`
	Total     int               `json:"total"`
}

// Agent actions accepted by POST /api/agent.
const (
	AgentActionWebSearch = "web_search"
	AgentActionCrawlURL  = "crawl_url"
)

// AgentRequest is the body for POST /api/agent.
type AgentRequest struct {
	Query  string `json:"query"`
	Action string `json:"action"`
}

// SearchResultView is one search hit in an agent response.
type SearchResultView struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchOutcome is the agent result payload for web_search.
type SearchOutcome struct {
	Query        string             `json:"query"`
	Results      []SearchResultView `json:"results"`
	Summary      string             `json:"summary"`
	TotalResults int                `json:"total_results"`
}

// CrawlOutcome is the agent result payload for crawl_url.
type CrawlOutcome struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// AgentResponse wraps an agent action result.
type AgentResponse struct {
	Result any `json:"result"`
}

// RenderResponse is returned by GET /api/documents/{id}/render.
type RenderResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// HealthResponse reports per-component health for GET /health.
type HealthResponse struct {
	API     string `json:"api"`
	Storage string `json:"storage"`
	LLM     string `json:"llm"`
	Search  string `json:"search"`
}

// RootResponse is the banner returned by GET /.
type RootResponse struct {
	Message  string   `json:"message"`
	Status   string   `json:"status"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}
