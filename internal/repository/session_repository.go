package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stemsi/progresspoint/internal/config"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/storage"
)

// ErrCorruptData is returned when a stored blob cannot be decoded.
var ErrCorruptData = errors.New("stored data is corrupt")

// SessionRepository persists the logged-in admin.
type SessionRepository struct {
	store storage.Store
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(store storage.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Get returns the persisted admin, storage.ErrNotFound when nobody is
// logged in, or ErrCorruptData when the blob does not decode.
func (r *SessionRepository) Get(ctx context.Context) (*model.Admin, error) {
	raw, err := r.store.Read(ctx, config.StorageKey.SessionKey())
	if err != nil {
		return nil, err
	}

	var admin model.Admin
	if err := json.Unmarshal(raw, &admin); err != nil {
		return nil, fmt.Errorf("%w: session: %v", ErrCorruptData, err)
	}
	return &admin, nil
}

// Save persists admin as the current session.
func (r *SessionRepository) Save(ctx context.Context, admin model.Admin) error {
	raw, err := json.Marshal(admin)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.store.Write(ctx, config.StorageKey.SessionKey(), raw)
}

// Clear removes the persisted session.
func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, config.StorageKey.SessionKey())
}
