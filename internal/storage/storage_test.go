package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Read(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "progresspoint_user", []byte(`{"id":"admin1"}`)))
	got, err := s.Read(ctx, "progresspoint_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"admin1"}`, string(got))

	require.NoError(t, s.Write(ctx, "progresspoint_user", []byte(`{"id":"admin2"}`)))
	got, err = s.Read(ctx, "progresspoint_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"admin2"}`, string(got))

	require.NoError(t, s.Delete(ctx, "progresspoint_user"))
	_, err = s.Read(ctx, "progresspoint_user")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "never-written"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, s.Write(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestBadgerStore(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)

	s := NewBadgerStore(db)
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := NewRedisStore(rdb)
	defer s.Close()
	exerciseStore(t, s)

	require.NoError(t, s.Write(context.Background(), "progresspoint_mei_students", []byte("[]")))
	assert.Equal(t, time.Duration(0), mr.TTL("progresspoint_mei_students"))
}
