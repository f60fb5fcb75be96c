package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const (
	BoneToss     combat.AttackID = "bone_toss"
	Rattle       combat.AttackID = "rattle"
	MarrowJab    combat.AttackID = "marrow_jab"
	SkullCrusher combat.AttackID = "skull_crusher"
)

func skeletonAttacks() []*combat.Definition {
	return []*combat.Definition{
		define(BoneToss, "Bone Toss", 3, none, "Toss a bone.", nil),
		define(Rattle, "Rattle", 2, hit, "On hit: gain [1] armor.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Source, passive.Armor, v)
				}
			},
		})),
		define(MarrowJab, "Marrow Jab", 4, underBlocked(2), "If blocked by fewer than 2 cards, apply [2] bleed.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Bleed, v)
				}
			},
		})),
		define(SkullCrusher, "Skull Crusher", 9, mustAtLeast(3), "On hit: intimidate [1].", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.Intimidate(v)
				}
			},
		})),
	}
}

// skeletonComboChance is the percentile below which the skeleton opens with
// its linker combo rather than Skull Crusher.
func skeletonComboChance(d Difficulty) int {
	return 65 - 5*max(0, int(d-Normal))
}

func skeletonSpec() *Spec {
	return &Spec{
		Kind:   Skeleton,
		Name:   "Skeleton",
		Health: Health{Easy: 30, Normal: 36, Hard: 42, Nightmare: 50},
		NewBehavior: func() Behavior {
			return policy{sel: selectSkeleton}
		},
	}
}

// selectSkeleton: two linkers drawn with replacement then Marrow Jab, or a
// lone Skull Crusher. Skull Crusher never runs two turns in a row.
func selectSkeleton(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	combo := func() []combat.AttackID {
		linkers := dice.TakeWithReplacement(b.RNG, []combat.AttackID{BoneToss, Rattle}, 2)
		return append(linkers, MarrowJab)
	}
	roll := b.RNG.Percent(label(e, turn, "branch"))
	if roll < skeletonComboChance(e.Difficulty) || e.Memory.Streak(SkullCrusher) > 0 {
		return combo()
	}
	return ids(SkullCrusher)
}
