package auth

import (
	"context"

	"github.com/quillhq/quill/pkg/storage"
)

type contextKey struct{}

// SetAccount returns a context carrying the authenticated account.
func SetAccount(ctx context.Context, a *storage.Account) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// AccountFromContext extracts the authenticated account, if any.
func AccountFromContext(ctx context.Context) (*storage.Account, bool) {
	a, ok := ctx.Value(contextKey{}).(*storage.Account)
	return a, ok
}
