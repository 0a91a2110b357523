package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "quill_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAccountRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &storage.Account{Name: "Alice", Email: "alice@example.com", PasswordHash: []byte("digest"), IsActive: true}
	require.NoError(t, s.CreateAccount(ctx, a))
	require.NotZero(t, a.ID)

	got, err := s.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, []byte("digest"), got.PasswordHash)
	assert.True(t, got.IsActive)

	// Email lookup is case-insensitive.
	got, err = s.GetAccountByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestDuplicateEmailConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, &storage.Account{Name: "A", Email: "a@x.com", PasswordHash: []byte("h"), IsActive: true}))

	err := s.CreateAccount(ctx, &storage.Account{Name: "B", Email: "A@X.com", PasswordHash: []byte("h"), IsActive: true})
	assert.ErrorIs(t, err, storage.ErrConflict)

	// The first account is unaffected.
	got, err := s.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestDocumentCRUDScopedByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := &storage.Account{Name: "A", Email: "a@x.com", PasswordHash: []byte("h"), IsActive: true}
	other := &storage.Account{Name: "B", Email: "b@x.com", PasswordHash: []byte("h"), IsActive: true}
	require.NoError(t, s.CreateAccount(ctx, owner))
	require.NoError(t, s.CreateAccount(ctx, other))

	doc := &storage.Document{Title: "T", Content: "hello", OwnerID: owner.ID}
	require.NoError(t, s.CreateDocument(ctx, doc))
	require.NotZero(t, doc.ID)

	// Foreign reads, updates, deletes all behave as if the row is absent.
	_, err := s.GetDocument(ctx, other.ID, doc.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	title := "stolen"
	_, err = s.UpdateDocument(ctx, other.ID, doc.ID, storage.DocumentUpdate{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.DeleteDocument(ctx, other.ID, doc.ID), storage.ErrNotFound)

	// Owner update touches only provided fields.
	newTitle := "T2"
	updated, err := s.UpdateDocument(ctx, owner.ID, doc.ID, storage.DocumentUpdate{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "hello", updated.Content)

	// Owner delete works once.
	require.NoError(t, s.DeleteDocument(ctx, owner.ID, doc.ID))
	assert.ErrorIs(t, s.DeleteDocument(ctx, owner.ID, doc.ID), storage.ErrNotFound)
}

func TestListDocumentsOnlyOwn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &storage.Account{Name: "A", Email: "a@x.com", PasswordHash: []byte("h"), IsActive: true}
	b := &storage.Account{Name: "B", Email: "b@x.com", PasswordHash: []byte("h"), IsActive: true}
	require.NoError(t, s.CreateAccount(ctx, a))
	require.NoError(t, s.CreateAccount(ctx, b))

	require.NoError(t, s.CreateDocument(ctx, &storage.Document{Title: "a1", OwnerID: a.ID}))
	require.NoError(t, s.CreateDocument(ctx, &storage.Document{Title: "a2", OwnerID: a.ID}))
	require.NoError(t, s.CreateDocument(ctx, &storage.Document{Title: "b1", OwnerID: b.ID}))

	docs, err := s.ListDocuments(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.Equal(t, a.ID, d.OwnerID)
	}
}

func TestChatMessagesOrderedBySession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, c := range []string{"one", "two", "three"} {
		require.NoError(t, s.AppendMessage(ctx, &storage.ChatMessage{
			SessionID: "user_1_default", Role: storage.RoleUser, Content: c,
		}))
	}
	require.NoError(t, s.AppendMessage(ctx, &storage.ChatMessage{
		SessionID: "user_2_default", Role: storage.RoleAgent, Content: "noise",
	}))

	msgs, err := s.ListMessages(ctx, "user_1_default")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "three", msgs[2].Content)
}

func TestHealthCheck(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.HealthCheck(context.Background()))
}
