package battle_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/battle"
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/enemy"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const dummy enemy.Kind = "dummy"

type fixedPolicy struct {
	enemy.NoLifecycle
	ids []combat.AttackID
}

func (p fixedPolicy) SelectAttacks(*enemy.Enemy, *combat.Battle, int) []combat.AttackID {
	return p.ids
}

// dummyRegistry holds one enemy with hp health that jabs for damage every turn.
func dummyRegistry(t *testing.T, hp, damage int) *enemy.Registry {
	t.Helper()
	r := enemy.NewRegistry(zap.NewNop())
	require.NoError(t, r.RegisterAttack(&combat.Definition{ID: "jab", Name: "Jab", Damage: damage, Text: "A plain jab."}))
	require.NoError(t, r.RegisterSpec(&enemy.Spec{
		Kind:   dummy,
		Name:   "Dummy",
		Health: enemy.Health{Easy: hp, Normal: hp, Hard: hp, Nightmare: hp},
		NewBehavior: func() enemy.Behavior {
			return fixedPolicy{ids: []combat.AttackID{"jab"}}
		},
	}))
	return r
}

func newSession(t *testing.T, reg *enemy.Registry, opts battle.Options) *battle.Session {
	t.Helper()
	if opts.Kind == "" {
		opts.Kind = dummy
	}
	if opts.Seed == 0 {
		opts.Seed = 99
	}
	s, err := battle.NewSession(opts, reg, passive.DefaultRegistry(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func plainCards(blocks ...int) []*combat.Card {
	out := make([]*combat.Card, len(blocks))
	for i, b := range blocks {
		out[i] = &combat.Card{ID: string(rune('a' + i)), Color: combat.Colors[i%len(combat.Colors)], Block: b}
	}
	return out
}
