package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/repository"
	"github.com/stemsi/progresspoint/internal/storage"
)

var errStoreDown = errors.New("store down")

// flakyStore wraps a MemoryStore, fails writes on demand and delays
// access to the keys listed in delays.
type flakyStore struct {
	*storage.MemoryStore
	failWrites bool
	delays     map[string]time.Duration
}

func (s *flakyStore) wait(key string) {
	if d, ok := s.delays[key]; ok {
		time.Sleep(d)
	}
}

func (s *flakyStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.wait(key)
	return s.MemoryStore.Read(ctx, key)
}

func (s *flakyStore) Write(ctx context.Context, key string, value []byte) error {
	s.wait(key)
	if s.failWrites {
		return errStoreDown
	}
	return s.MemoryStore.Write(ctx, key, value)
}

// recorder collects roster events.
type recorder struct {
	mu     sync.Mutex
	events []model.RosterEvent
}

func (r *recorder) Notify(ev model.RosterEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) last() model.RosterEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fixture struct {
	store  *flakyStore
	auth   *AuthService
	roster *RosterService
	events *recorder
}

func newFixture(t *testing.T, store *flakyStore) *fixture {
	t.Helper()
	if store == nil {
		store = &flakyStore{MemoryStore: storage.NewMemoryStore()}
	}
	log := zerolog.Nop()
	events := &recorder{}
	auth := NewAuthService(repository.NewSessionRepository(store), log)
	roster := NewRosterService(context.Background(), auth, repository.NewRosterRepository(store), events, log)
	return &fixture{store: store, auth: auth, roster: roster, events: events}
}
