// Package sqlite provides an embedded implementation of storage.Store using
// modernc.org/sqlite. It is the fallback engine when no PostgreSQL DSN is
// configured: a single local file, no external dependencies.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quillhq/quill/pkg/storage"
)

// Store is a SQLite-backed storage.Store.
type Store struct {
	db *sql.DB
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New opens (or creates) the SQLite database at path and bootstraps the
// schema. Parent directories are created if needed. Use ":memory:" for an
// ephemeral database.
func New(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single writer connection sidesteps SQLITE_BUSY under concurrent
	// request handling.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	slog.Info("sqlite store initialized", "path", path)
	return s, nil
}

// createSchema creates the tables if they don't exist.
func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL,
			password_hash BLOB NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email
			ON accounts(lower(email));

		CREATE TABLE IF NOT EXISTS documents (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			owner_id   INTEGER NOT NULL,
			is_public  INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (owner_id) REFERENCES accounts(id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_owner
			ON documents(owner_id);

		CREATE TABLE IF NOT EXISTS chat_messages (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chat_messages_session
			ON chat_messages(session_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateAccount inserts a new account.
func (s *Store) CreateAccount(ctx context.Context, a *storage.Account) error {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (name, email, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.Name, a.Email, a.PasswordHash, a.IsActive, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading account id: %w", err)
	}
	a.ID = id
	a.CreatedAt = now
	return nil
}

// GetAccountByEmail returns the account registered under email,
// case-insensitively.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*storage.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, is_active, created_at
		FROM accounts WHERE lower(email) = lower(?)`, email)
	return scanAccount(row)
}

// GetAccountByID returns the account with the given id.
func (s *Store) GetAccountByID(ctx context.Context, id int64) (*storage.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, is_active, created_at
		FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*storage.Account, error) {
	var a storage.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	return &a, nil
}

// CreateDocument inserts a new document.
func (s *Store) CreateDocument(ctx context.Context, d *storage.Document) error {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (title, content, owner_id, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.Title, d.Content, d.OwnerID, d.IsPublic, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading document id: %w", err)
	}
	d.ID = id
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

// GetDocument returns the owner's document, or ErrNotFound.
func (s *Store) GetDocument(ctx context.Context, ownerID, docID int64) (*storage.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, owner_id, is_public, created_at, updated_at
		FROM documents WHERE id = ? AND owner_id = ?`, docID, ownerID)

	var d storage.Document
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.OwnerID, &d.IsPublic, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &d, nil
}

// ListDocuments returns the owner's documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, ownerID int64) ([]*storage.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, owner_id, is_public, created_at, updated_at
		FROM documents WHERE owner_id = ?
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

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())

	args = append(args, docID, ownerID)
	query := fmt.Sprintf("UPDATE documents SET %s WHERE id = ? AND owner_id = ?", strings.Join(sets, ", "))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return nil, storage.ErrNotFound
	}

	return s.GetDocument(ctx, ownerID, docID)
}

// DeleteDocument removes the owner's document.
func (s *Store) DeleteDocument(ctx context.Context, ownerID, docID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = ? AND owner_id = ?", docID, ownerID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AppendMessage inserts a chat message.
func (s *Store) AppendMessage(ctx context.Context, m *storage.ChatMessage) error {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (session_id, role, content, created_at)
		VALUES (?, ?, ?, ?)`,
		m.SessionID, m.Role, m.Content, now,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading message id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	return nil
}

// ListMessages returns the session's messages, oldest first.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]*storage.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages WHERE session_id = ?
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

// HealthCheck verifies the database file is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// isUniqueViolation checks for a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
