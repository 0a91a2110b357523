package storage

import (
	"context"
	"time"
)

// Account is a registered user identity.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	IsActive     bool
	CreatedAt    time.Time
}

// Document is a user-owned document. OwnerID references the account that
// created it; all access paths are filtered by it.
type Document struct {
	ID        int64
	Title     string
	Content   string
	OwnerID   int64
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleAgent     = "agent"
)

// ChatMessage is one append-only entry in a chat session. SessionID is
// derived from the owning account id plus the client session label, so the
// account scope is baked into the key itself.
type ChatMessage struct {
	ID        int64
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// DocumentUpdate carries a partial document update. Nil fields are left
// unchanged.
type DocumentUpdate struct {
	Title   *string
	Content *string
}

// Store is the persistence contract implemented by the postgres, sqlite,
// and memory adapters.
type Store interface {
	// CreateAccount inserts a new account, populating ID and CreatedAt.
	// Returns ErrConflict if the email is already registered.
	CreateAccount(ctx context.Context, a *Account) error

	// GetAccountByEmail returns the account for the given email, or ErrNotFound.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// GetAccountByID returns the account for the given id, or ErrNotFound.
	GetAccountByID(ctx context.Context, id int64) (*Account, error)

	// CreateDocument inserts a new document, populating ID, CreatedAt, and
	// UpdatedAt. OwnerID must be set by the caller.
	CreateDocument(ctx context.Context, d *Document) error

	// GetDocument returns the document with the given id owned by ownerID.
	// A document owned by another account yields ErrNotFound, exactly as a
	// missing one does.
	GetDocument(ctx context.Context, ownerID, docID int64) (*Document, error)

	// ListDocuments returns all documents owned by ownerID, newest first.
	ListDocuments(ctx context.Context, ownerID int64) ([]*Document, error)

	// UpdateDocument applies upd to the owner's document and returns the
	// updated row, or ErrNotFound.
	UpdateDocument(ctx context.Context, ownerID, docID int64, upd DocumentUpdate) (*Document, error)

	// DeleteDocument removes the owner's document, or returns ErrNotFound.
	DeleteDocument(ctx context.Context, ownerID, docID int64) error

	// AppendMessage inserts a chat message, populating ID and CreatedAt.
	AppendMessage(ctx context.Context, m *ChatMessage) error

	// ListMessages returns all messages for the session, oldest first.
	ListMessages(ctx context.Context, sessionID string) ([]*ChatMessage, error)

	// HealthCheck verifies the backing engine is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases the underlying resources.
	Close() error
}
