package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const (
	CrimsonHex combat.AttackID = "crimson_hex"
	Hemorrhage combat.AttackID = "hemorrhage"
	BloodPact  combat.AttackID = "blood_pact"
)

// crimsonHex picks a color from the player's hand once, at reveal, and
// applies bleed for each blocking card of that color.
type crimsonHex struct {
	combat.NoHooks
	color combat.Color
}

// Color returns the color fixed at reveal, or "" before reveal.
func (h *crimsonHex) Color() combat.Color { return h.color }

func (h *crimsonHex) Reveal(b *combat.Battle, a *combat.Attack) {
	h.color = b.RandomHandColor(string(a.Def.ID)+".color", combat.Red)
	a.Text.Replace("{color}", string(h.color))
}

func (h *crimsonHex) BlockProcessed(b *combat.Battle, a *combat.Attack, card *combat.Card) {
	if card.Color != h.color {
		return
	}
	if v, ok := b.Value(a, 0); ok {
		b.ApplyPassive(a.Target, passive.Bleed, v)
	}
}

func bloodWitchAttacks() []*combat.Definition {
	return []*combat.Definition{
		define(CrimsonHex, "Crimson Hex", 3, none, "Apply [1] bleed for each {color} card that blocks this.",
			func() combat.Behavior { return &crimsonHex{} }),
		define(Hemorrhage, "Hemorrhage", 5, underBlocked(2), "If blocked by fewer than 2 cards, apply [3] bleed.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Bleed, v)
				}
			},
		})),
		define(BloodPact, "Blood Pact", 0, none, "Heal [4]. Gain [1] strength.", hooks(combat.Hooks{
			OnReveal: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.Heal(a.Source, v)
				}
				if v, ok := b.Value(a, 1); ok {
					b.ApplyPassive(a.Source, passive.Strength, v)
				}
			},
		})),
	}
}

func bloodWitchSpec() *Spec {
	return &Spec{
		Kind:   BloodWitch,
		Name:   "Blood Witch",
		Health: Health{Easy: 38, Normal: 46, Hard: 54, Nightmare: 64},
		NewBehavior: func() Behavior {
			return policy{sel: selectBloodWitch}
		},
	}
}

// selectBloodWitch makes a pact when below half health, at most once every
// three turns; otherwise it plays hex and hemorrhage in random order.
func selectBloodWitch(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	since := e.Memory.TurnsSince(BloodPact)
	if e.CurrentHP*2 < e.MaxHP && (since < 0 || since >= 2) {
		return ids(BloodPact, CrimsonHex)
	}
	return dice.TakeWithoutReplacement(b.RNG, []combat.AttackID{CrimsonHex, Hemorrhage}, 2)
}
