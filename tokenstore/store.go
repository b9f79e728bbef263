// Package tokenstore persists the console's bearer token under one well-known key.
// Stores perform no validation; an absent token means logged out.
package tokenstore

import (
	"context"

	apperrors "github.com/jrsteele09/go-assoc-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

// DefaultKey is the storage key the token is kept under
const DefaultKey = "assoc_admin_token"

// ErrNotFound is returned by Get when no token is stored
var ErrNotFound = apperrors.ErrNotFound

// Store is the persistent storage shim for the bearer token.
type Store interface {
	// Get returns the stored token or ErrNotFound. It has no side effects.
	Get(ctx context.Context) (string, error)

	// Set overwrites the stored token
	Set(ctx context.Context, token string) error

	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Degrading wraps a store so an unavailable backend reads as "no token" instead
// of failing. The session then simply doesn't survive a restart.
func Degrading(store Store) Store {
	return degradingStore{next: store}
}

type degradingStore struct {
	next Store
}

func (d degradingStore) Get(ctx context.Context) (string, error) {
	token, err := d.next.Get(ctx)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !apperrors.Is(err, ErrNotFound) {
		log.Warn().Err(err).Msg("token store unavailable, treating session as absent")
	}
	return "", ErrNotFound
}

func (d degradingStore) Set(ctx context.Context, token string) error {
	if err := d.next.Set(ctx, token); err != nil {
		log.Warn().Err(err).Msg("token store unavailable, session will not survive restart")
		return err
	}
	return nil
}

func (d degradingStore) Clear(ctx context.Context) error {
	if err := d.next.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to clear token store")
		return err
	}
	return nil
}
