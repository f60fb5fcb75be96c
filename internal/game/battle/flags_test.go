package battle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/cardbattle/internal/game/battle"
)

type memStore struct {
	data  map[string][]string
	saves int
	err   error
}

func (m *memStore) Load(_ context.Context, profile string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data[profile], nil
}

func (m *memStore) Save(_ context.Context, profile string, flags []string) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.data[profile] = flags
	return nil
}

func TestFlagSet(t *testing.T) {
	s := battle.NewFlagSet("b", "a")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Dirty())
	s.Set("a")
	assert.False(t, s.Dirty(), "setting a present flag is not a change")
	s.Set("c")
	assert.True(t, s.Dirty())
	assert.Equal(t, []string{"a", "b", "c"}, s.List())
}

func TestLoadSaveFlags(t *testing.T) {
	ctx := context.Background()
	store := &memStore{data: map[string][]string{"hero": {"x"}}}
	s, err := battle.LoadFlags(ctx, store, "hero")
	require.NoError(t, err)
	assert.True(t, s.Has("x"))

	require.NoError(t, battle.SaveFlags(ctx, store, "hero", s))
	assert.Zero(t, store.saves, "clean set is not written")

	s.Set("y")
	require.NoError(t, battle.SaveFlags(ctx, store, "hero", s))
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{"x", "y"}, store.data["hero"])
	assert.False(t, s.Dirty())
}

func TestLoadFlags_StoreError(t *testing.T) {
	store := &memStore{err: errors.New("down")}
	_, err := battle.LoadFlags(context.Background(), store, "hero")
	assert.Error(t, err)
}
