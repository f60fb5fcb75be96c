package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const (
	Ignite   combat.AttackID = "ignite"
	Enflame  combat.AttackID = "enflame"
	Fireball combat.AttackID = "fireball"
)

func pyromancerAttacks() []*combat.Definition {
	return []*combat.Definition{
		define(Ignite, "Ignite", 3, hit, "On hit: apply [2] burn.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Burn, v)
				}
			},
		})),
		define(Enflame, "Enflame", 1, none, "Apply [1] enflamed.", hooks(combat.Hooks{
			OnReveal: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Enflamed, v)
				}
			},
		})),
		define(Fireball, "Fireball", 11, underBlocked(3), "If blocked by fewer than 3 cards, apply [3] burn. Deals [1] more damage for each pledge this turn.", hooks(combat.Hooks{
			OnReveal: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 1); ok {
					a.Damage += v * b.TurnCount(combat.TrackPledgeAdded)
				}
			},
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Burn, v)
				}
			},
		})),
	}
}

type pyromancer struct {
	NoLifecycle
}

// StartOfBattle burns the player for their enflamed stacks on every pledge.
func (pyromancer) StartOfBattle(e *Enemy, b *combat.Battle) {
	Listen(e, func(ev events.PledgeAdded) {
		if ev.Owner != events.Player {
			return
		}
		n := b.Stacks(events.Player, passive.Enflamed)
		if n <= 0 {
			return
		}
		b.PassiveTriggered(events.Player, passive.Enflamed)
		b.Damage(e.Role, events.Player, n, events.DamagePassive)
	})
}

// SelectAttacks rolls a pattern; Fireball is never cast two turns running.
func (pyromancer) SelectAttacks(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	bands := []dice.Band[[]combat.AttackID]{
		{Below: 30, Value: ids(Enflame, Ignite)},
		{Below: 70, Value: ids(Ignite, Ignite)},
		{Below: 100, Value: ids(Fireball)},
	}
	roll := b.RNG.Percent(label(e, turn, "pattern"))
	if e.Memory.Streak(Fireball) > 0 {
		// Rescale the roll onto the non-fireball bands.
		roll = roll * 70 / 100
	}
	pick, _ := dice.PickBand(roll, bands...)
	return pick
}

func pyromancerSpec() *Spec {
	return &Spec{
		Kind:        Pyromancer,
		Name:        "Pyromancer",
		Health:      Health{Easy: 32, Normal: 38, Hard: 45, Nightmare: 53},
		NewBehavior: func() Behavior { return pyromancer{} },
	}
}
