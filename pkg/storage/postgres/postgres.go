// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and applies embedded SQL migrations
// on startup.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillhq/quill/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// CreateAccount inserts a new account.
func (s *Store) CreateAccount(ctx context.Context, a *storage.Account) error {
	now := time.Now().UTC()

	err := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (name, email, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		a.Name, a.Email, a.PasswordHash, a.IsActive, now,
	).Scan(&a.ID)

	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting account: %w", err)
	}

	a.CreatedAt = now
	return nil
}

// GetAccountByEmail returns the account registered under email,
// case-insensitively.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*storage.Account, error) {
	return s.queryAccount(ctx, `
		SELECT id, name, email, password_hash, is_active, created_at
		FROM accounts WHERE lower(email) = lower($1)`, email)
}

// GetAccountByID returns the account with the given id.
func (s *Store) GetAccountByID(ctx context.Context, id int64) (*storage.Account, error) {
	return s.queryAccount(ctx, `
		SELECT id, name, email, password_hash, is_active, created_at
		FROM accounts WHERE id = $1`, id)
}

func (s *Store) queryAccount(ctx context.Context, query string, arg any) (*storage.Account, error) {
	var a storage.Account
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.IsActive, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	return &a, nil
}

// CreateDocument inserts a new document.
func (s *Store) CreateDocument(ctx context.Context, d *storage.Document) error {
	now := time.Now().UTC()

	err := s.pool.QueryRow(ctx, `
		INSERT INTO documents (title, content, owner_id, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		d.Title, d.Content, d.OwnerID, d.IsPublic, now, now,
	).Scan(&d.ID)

	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

// GetDocument returns the owner's document, or ErrNotFound.
func (s *Store) GetDocument(ctx context.Context, ownerID, docID int64) (*storage.Document, error) {
	var d storage.Document
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, content, owner_id, is_public, created_at, updated_at
		FROM documents WHERE id = $1 AND owner_id = $2`, docID, ownerID,
	).Scan(&d.ID, &d.Title, &d.Content, &d.OwnerID, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	return &d, nil
}

// ListDocuments returns the owner's documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, ownerID int64) ([]*storage.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, content, owner_id, is_public, created_at, updated_at
		FROM documents WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []*storage.Document
	for rows.Next() {
		var d storage.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.OwnerID, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// UpdateDocument applies upd to the owner's document and returns the
// updated row.
func (s *Store) UpdateDocument(ctx context.Context, ownerID, docID int64, upd storage.DocumentUpdate) (*storage.Document, error) {
	var sets []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if upd.Title != nil {
		sets = append(sets, "title = "+arg(*upd.Title))
	}
	if upd.Content != nil {
		sets = append(sets, "content = "+arg(*upd.Content))
	}
	sets = append(sets, "updated_at = "+arg(time.Now().UTC()))

	query := fmt.Sprintf(`
		UPDATE documents SET %s
		WHERE id = %s AND owner_id = %s
		RETURNING id, title, content, owner_id, is_public, created_at, updated_at`,
		strings.Join(sets, ", "), arg(docID), arg(ownerID))

	var d storage.Document
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&d.ID, &d.Title, &d.Content, &d.OwnerID, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	return &d, nil
}

// DeleteDocument removes the owner's document.
func (s *Store) DeleteDocument(ctx context.Context, ownerID, docID int64) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM documents WHERE id = $1 AND owner_id = $2", docID, ownerID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AppendMessage inserts a chat message.
func (s *Store) AppendMessage(ctx context.Context, m *storage.ChatMessage) error {
	now := time.Now().UTC()

	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		m.SessionID, m.Role, m.Content, now,
	).Scan(&m.ID)

	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	m.CreatedAt = now
	return nil
}

// ListMessages returns the session's messages, oldest first.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]*storage.ChatMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []*storage.ChatMessage
	for rows.Next() {
		var m storage.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

// HealthCheck verifies database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
