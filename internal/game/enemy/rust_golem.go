package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const (
	Corrode  combat.AttackID = "corrode"
	Oxidize  combat.AttackID = "oxidize"
	SlagSlam combat.AttackID = "slag_slam"
)

func rustGolemAttacks() []*combat.Definition {
	return []*combat.Definition{
		// Corrode lowers the blocking card itself, not this attack's damage:
		// the assigned block total was already taken.
		define(Corrode, "Corrode", 4, none, "Blocking cards permanently lose [1] block.", hooks(combat.Hooks{
			OnBlockProcessed: func(b *combat.Battle, a *combat.Attack, card *combat.Card) {
				if v, ok := b.Value(a, 0); ok {
					card.Corrode(v)
				}
			},
		})),
		define(Oxidize, "Oxidize", 3, hit, "On hit: apply [2] poison.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Poison, v)
				}
			},
		})),
		define(SlagSlam, "Slag Slam", 10, underBlocked(3), "If blocked by fewer than 3 cards, apply [1] shackled.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Shackled, v)
				}
			},
		})),
	}
}

func rustGolemSpec() *Spec {
	return &Spec{
		Kind:   RustGolem,
		Name:   "Rust Golem",
		Health: Health{Easy: 50, Normal: 60, Hard: 70, Nightmare: 82},
		NewBehavior: func() Behavior {
			return policy{sel: selectRustGolem}
		},
	}
}

// selectRustGolem draws linkers with replacement (two from turn 3 on), then
// ends with Slag Slam when the player is heavily poisoned or on a 40% roll.
func selectRustGolem(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	n := 1
	if turn >= 3 {
		n = 2
	}
	out := dice.TakeWithReplacement(b.RNG, []combat.AttackID{Corrode, Oxidize}, n)
	if b.Stacks(events.Player, passive.Poison) >= 3 || b.RNG.Percent(label(e, turn, "ender")) < 40 {
		out = append(out, SlagSlam)
	}
	return out
}
