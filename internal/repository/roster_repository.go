package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stemsi/progresspoint/internal/config"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/storage"
)

// RosterRepository persists one roster per admin, keyed by lowercase username.
type RosterRepository struct {
	store storage.Store
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(store storage.Store) *RosterRepository {
	return &RosterRepository{store: store}
}

// Get returns the roster stored for username. It returns storage.ErrNotFound
// when nothing was saved yet and ErrCorruptData when the blob does not decode.
func (r *RosterRepository) Get(ctx context.Context, username string) ([]model.Student, error) {
	raw, err := r.store.Read(ctx, config.StorageKey.RosterKey(username))
	if err != nil {
		return nil, err
	}

	var students []model.Student
	if err := json.Unmarshal(raw, &students); err != nil {
		return nil, fmt.Errorf("%w: roster %s: %v", ErrCorruptData, username, err)
	}
	if students == nil {
		return nil, fmt.Errorf("%w: roster %s is null", ErrCorruptData, username)
	}

	model.FillAttendance(students)
	return students, nil
}

// Save replaces the roster stored for username.
func (r *RosterRepository) Save(ctx context.Context, username string, students []model.Student) error {
	raw, err := json.Marshal(students)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	return r.store.Write(ctx, config.StorageKey.RosterKey(username), raw)
}

// Delete drops the roster stored for username, so the next load starts
// again from the seed roster.
func (r *RosterRepository) Delete(ctx context.Context, username string) error {
	return r.store.Delete(ctx, config.StorageKey.RosterKey(username))
}
