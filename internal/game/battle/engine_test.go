package battle_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/battle"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

func TestEngine_OpenDoEnd(t *testing.T) {
	e := battle.NewEngine(dummyRegistry(t, 40, 3), passive.DefaultRegistry(), zap.NewNop())
	id, err := e.Open(battle.Options{Kind: dummy, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{id}, e.IDs())

	err = e.Do(id, func(s *battle.Session) error {
		if err := s.Start(); err != nil {
			return err
		}
		_, err := s.PlayerTurn()
		return err
	})
	require.NoError(t, err)

	var closed *battle.Session
	require.NoError(t, e.Do(id, func(s *battle.Session) error { closed = s; return nil }))
	e.End(id)
	e.End(id)
	assert.True(t, closed.Closed())
	assert.Zero(t, e.Len())
	assert.Error(t, e.Do(id, func(*battle.Session) error { return nil }))
}

func TestEngine_OpenUnknownKind(t *testing.T) {
	e := battle.NewEngine(dummyRegistry(t, 40, 3), passive.DefaultRegistry(), zap.NewNop())
	_, err := e.Open(battle.Options{Kind: "ghost", Seed: 1})
	assert.Error(t, err)
	assert.Zero(t, e.Len())
}

func TestEngine_ConcurrentSessions(t *testing.T) {
	e := battle.NewEngine(dummyRegistry(t, 1000, 1), passive.DefaultRegistry(), zap.NewNop())
	const n = 8
	ids := make([]string, n)
	for i := range ids {
		id, err := e.Open(battle.Options{Kind: dummy, Seed: uint64(i + 1)})
		require.NoError(t, err)
		ids[i] = id
		require.NoError(t, e.Do(id, func(s *battle.Session) error { return s.Start() }))
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for w := 0; w < 3; w++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				for turn := 0; turn < 5; turn++ {
					_ = e.Do(id, func(s *battle.Session) error {
						if _, err := s.PlayerTurn(); err != nil {
							return err
						}
						_, err := s.EnemyTurn(battle.NoBlocker{})
						return err
					})
				}
			}(id)
		}
	}
	wg.Wait()

	for _, id := range ids {
		require.NoError(t, e.Do(id, func(s *battle.Session) error {
			assert.Equal(t, 15, s.Turn())
			assert.Equal(t, 1000-15*battle.DefaultPlayerStrike, s.Enemy().CurrentHP)
			return nil
		}))
		e.End(id)
	}
	assert.Zero(t, e.Len())
}
