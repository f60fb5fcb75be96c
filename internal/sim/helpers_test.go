package sim_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/config"
	"github.com/cory-johannsen/cardbattle/internal/sim"
)

func repoContent() config.ContentConfig {
	root := filepath.Join("..", "..", "content")
	return config.ContentConfig{
		PassivesDir: filepath.Join(root, "passives"),
		AttacksDir:  filepath.Join(root, "attacks"),
		ScriptsDir:  filepath.Join(root, "scripts"),
		EnemiesDir:  filepath.Join(root, "enemies"),
	}
}

func loadRepoContent(t *testing.T) *sim.Content {
	t.Helper()
	c, err := sim.LoadContent(repoContent(), config.ScriptingConfig{}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func battleConfig(enemy string, battles int) config.BattleConfig {
	return config.BattleConfig{
		Seed:         4242,
		Enemy:        enemy,
		Difficulty:   "normal",
		PlayerHP:     40,
		HandSize:     5,
		PlayerStrike: 6,
		Pledge:       1,
		Battles:      battles,
		MaxTurns:     40,
		StaggerDelay: 250 * time.Millisecond,
		Profile:      "hero",
	}
}

type memStore struct {
	mu    sync.Mutex
	data  map[string][]string
	saves int
}

func newMemStore() *memStore { return &memStore{data: make(map[string][]string)} }

func (m *memStore) Load(_ context.Context, profile string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[profile], nil
}

func (m *memStore) Save(_ context.Context, profile string, flags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[profile] = flags
	return nil
}
