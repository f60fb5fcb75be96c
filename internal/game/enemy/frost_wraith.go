package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const (
	GlacialGrasp combat.AttackID = "glacial_grasp"
	RimeHowl     combat.AttackID = "rime_howl"
	Whiteout     combat.AttackID = "whiteout"
)

// FrostbiteThreshold is the frostbite stack count at which a card freezes
// when the player's turn starts.
const FrostbiteThreshold = 3

func frostWraithAttacks() []*combat.Definition {
	return []*combat.Definition{
		define(GlacialGrasp, "Glacial Grasp", 4, hit, "On hit: freeze [1] card and apply [1] frostbite.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.Freeze(v, events.SelectRandom)
				}
				if v, ok := b.Value(a, 1); ok {
					b.ApplyPassive(a.Target, passive.Frostbite, v)
				}
			},
		})),
		define(RimeHowl, "Rime Howl", 2, none, "Intimidate [1]. Apply [1] frostbite.", hooks(combat.Hooks{
			OnReveal: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.Intimidate(v)
				}
				if v, ok := b.Value(a, 1); ok {
					b.ApplyPassive(a.Target, passive.Frostbite, v)
				}
			},
		})),
		define(Whiteout, "Whiteout", 7, mustAtLeast(2), "On hit: apply [2] frostbite.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Frostbite, v)
				}
			},
		})),
	}
}

type frostWraith struct {
	NoLifecycle
}

// StartOfBattle listens for the player's turn: at the threshold, frostbite
// is spent to freeze a card.
func (frostWraith) StartOfBattle(e *Enemy, b *combat.Battle) {
	Listen(e, func(ev events.ChangeBattlePhase) {
		if ev.Phase != events.PlayerTurnStart {
			return
		}
		if b.Stacks(events.Player, passive.Frostbite) < FrostbiteThreshold {
			return
		}
		b.PassiveTriggered(events.Player, passive.Frostbite)
		b.Freeze(1, events.SelectRandom)
		b.ApplyPassive(events.Player, passive.Frostbite, -FrostbiteThreshold)
	})
}

// SelectAttacks draws two distinct attacks.
func (frostWraith) SelectAttacks(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	return dice.TakeWithoutReplacement(b.RNG, []combat.AttackID{GlacialGrasp, RimeHowl, Whiteout}, 2)
}

func frostWraithSpec() *Spec {
	return &Spec{
		Kind:        FrostWraith,
		Name:        "Frost Wraith",
		Health:      Health{Easy: 34, Normal: 41, Hard: 48, Nightmare: 57},
		NewBehavior: func() Behavior { return frostWraith{} },
	}
}
