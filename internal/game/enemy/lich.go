package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const (
	PhylacteryWard combat.AttackID = "phylactery_ward"
	CrackTheSeal   combat.AttackID = "crack_the_seal"
	SoulRend       combat.AttackID = "soul_rend"
)

// LichOpeningFlag is the save flag set once the player has seen the lich's
// opening combo.
const LichOpeningFlag = "lich_opening_seen"

func lichAttacks() []*combat.Definition {
	return []*combat.Definition{
		define(PhylacteryWard, "Phylactery Ward", 0, none, "Gain [5] aegis.", hooks(combat.Hooks{
			OnReveal: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Source, passive.Aegis, v)
				}
			},
		})),
		define(CrackTheSeal, "Crack the Seal", 3, hit, "On hit: add [2] seal cracks.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ModifySealCracks(v)
				}
			},
		})),
		define(SoulRend, "Soul Rend", 14, mustAtLeast(3), "On hit: apply [2] bleed.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Bleed, v)
				}
			},
		})),
	}
}

func lichSpec() *Spec {
	return &Spec{
		Kind:   Lich,
		Name:   "Lich",
		Health: Health{Easy: 60, Normal: 72, Hard: 84, Nightmare: 98},
		NewBehavior: func() Behavior {
			return policy{sel: selectLich}
		},
	}
}

// selectLich plays its opening combo on turn 1 unless the player has already
// seen it. Soul Rend is never chosen two turns in a row.
func selectLich(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	if turn == 1 && !b.HasFlag(LichOpeningFlag) {
		b.SetFlag(LichOpeningFlag)
		return ids(PhylacteryWard, CrackTheSeal, SoulRend)
	}
	bands := []dice.Band[[]combat.AttackID]{
		{Below: 45, Value: ids(CrackTheSeal, CrackTheSeal)},
		{Below: 75, Value: ids(PhylacteryWard, CrackTheSeal)},
		{Below: 100, Value: ids(SoulRend)},
	}
	roll := b.RNG.Percent(label(e, turn, "pattern"))
	if e.Memory.Streak(SoulRend) > 0 {
		roll = roll * 75 / 100
	}
	pick, _ := dice.PickBand(roll, bands...)
	return pick
}
