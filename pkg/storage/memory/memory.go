// Package memory provides an in-memory implementation of storage.Store for
// tests and lightweight deployments. All data is lost when the process
// restarts.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quillhq/quill/pkg/storage"
)

// Store is a mutex-guarded in-memory storage.Store.
type Store struct {
	mu sync.RWMutex

	accounts  map[int64]*storage.Account
	byEmail   map[string]int64
	documents map[int64]*storage.Document
	messages  []*storage.ChatMessage

	nextAccountID  int64
	nextDocumentID int64
	nextMessageID  int64
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:  make(map[int64]*storage.Account),
		byEmail:   make(map[string]int64),
		documents: make(map[int64]*storage.Document),
	}
}

// CreateAccount inserts a new account. Emails are compared case-insensitively.
func (s *Store) CreateAccount(ctx context.Context, a *storage.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(a.Email)
	if _, exists := s.byEmail[key]; exists {
		return storage.ErrConflict
	}

	s.nextAccountID++
	a.ID = s.nextAccountID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	cp := *a
	s.accounts[a.ID] = &cp
	s.byEmail[key] = a.ID
	return nil
}

// GetAccountByEmail returns the account registered under email.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

// GetAccountByID returns the account with the given id.
func (s *Store) GetAccountByID(ctx context.Context, id int64) (*storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// CreateDocument inserts a new document.
func (s *Store) CreateDocument(ctx context.Context, d *storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextDocumentID++
	d.ID = s.nextDocumentID
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	cp := *d
	s.documents[d.ID] = &cp
	return nil
}

// GetDocument returns the owner's document, or ErrNotFound. Foreign-owned
// documents are indistinguishable from missing ones.
func (s *Store) GetDocument(ctx context.Context, ownerID, docID int64) (*storage.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[docID]
	if !ok || d.OwnerID != ownerID {
		return nil, storage.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// ListDocuments returns the owner's documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, ownerID int64) ([]*storage.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*storage.Document
	for _, d := range s.documents {
		if d.OwnerID == ownerID {
			cp := *d
			docs = append(docs, &cp)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// UpdateDocument applies upd to the owner's document.
func (s *Store) UpdateDocument(ctx context.Context, ownerID, docID int64, upd storage.DocumentUpdate) (*storage.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[docID]
	if !ok || d.OwnerID != ownerID {
		return nil, storage.ErrNotFound
	}

	if upd.Title != nil {
		d.Title = *upd.Title
	}
	if upd.Content != nil {
		d.Content = *upd.Content
	}
	d.UpdatedAt = time.Now().UTC()

	cp := *d
	return &cp, nil
}

// DeleteDocument removes the owner's document.
func (s *Store) DeleteDocument(ctx context.Context, ownerID, docID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[docID]
	if !ok || d.OwnerID != ownerID {
		return storage.ErrNotFound
	}
	delete(s.documents, docID)
	return nil
}

// AppendMessage inserts a chat message.
func (s *Store) AppendMessage(ctx context.Context, m *storage.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMessageID++
	m.ID = s.nextMessageID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	cp := *m
	s.messages = append(s.messages, &cp)
	return nil
}

// ListMessages returns the session's messages, oldest first.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]*storage.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var msgs []*storage.ChatMessage
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			cp := *m
			msgs = append(msgs, &cp)
		}
	}
	return msgs, nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
