package sim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/battle"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/sim"
)

func TestRunner_BatchAgainstScriptedEnemy(t *testing.T) {
	c := loadRepoContent(t)
	store := newMemStore()
	r := sim.NewRunner(c, battleConfig("bog_hag", 3), store, zap.NewNop())

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Outcomes, 3)
	assert.Equal(t, 3, rep.PlayerWins+rep.EnemyWins+rep.Unfinished)
	for i, o := range rep.Outcomes {
		assert.Equal(t, uint64(4242+i), o.Seed)
		assert.LessOrEqual(t, o.Turns, 40)
		switch o.Winner {
		case events.Player:
			assert.LessOrEqual(t, o.EnemyHP, 0)
		case events.Enemy:
			assert.LessOrEqual(t, o.PlayerHP, 0)
		}
	}
	assert.Zero(t, r.Engine().Len())
	assert.Equal(t, 1, store.saves)
	assert.Contains(t, store.data["hero"], "bog_hag_opening_seen")
}

func TestRunner_SameSeedSameBatch(t *testing.T) {
	c := loadRepoContent(t)
	run := func() []battle.Outcome {
		rep, err := sim.NewRunner(c, battleConfig("bog_hag", 2), nil, zap.NewNop()).Run(context.Background())
		require.NoError(t, err)
		for i := range rep.Outcomes {
			rep.Outcomes[i].SessionID = ""
		}
		return rep.Outcomes
	}
	assert.Equal(t, run(), run())
}

func TestRunner_UnchangedFlagsNotSaved(t *testing.T) {
	c := loadRepoContent(t)
	store := newMemStore()
	store.data["hero"] = []string{"bog_hag_opening_seen"}
	_, err := sim.NewRunner(c, battleConfig("bog_hag", 1), store, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, store.saves)
}

func TestRunner_UnknownEnemy(t *testing.T) {
	c := loadRepoContent(t)
	r := sim.NewRunner(c, battleConfig("dragon", 2), nil, zap.NewNop())
	_, err := r.Run(context.Background())
	assert.Error(t, err)
	assert.Zero(t, r.Engine().Len())
}

func TestRunner_BadDifficulty(t *testing.T) {
	c := loadRepoContent(t)
	cfg := battleConfig("skeleton", 1)
	cfg.Difficulty = "brutal"
	_, err := sim.NewRunner(c, cfg, nil, zap.NewNop()).Run(context.Background())
	assert.Error(t, err)
}

func TestRunner_CancelledContext(t *testing.T) {
	c := loadRepoContent(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := sim.NewRunner(c, battleConfig("skeleton", 2), nil, zap.NewNop())
	rep, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, rep.Unfinished)
	assert.Zero(t, r.Engine().Len())
}
