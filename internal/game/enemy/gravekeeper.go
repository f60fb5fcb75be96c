package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

const (
	Entomb       combat.AttackID = "entomb"
	SealTheCrypt combat.AttackID = "seal_the_crypt"
	GraveDirt    combat.AttackID = "grave_dirt"
)

// entomb prevents all of its damage only when blocked by exactly N
// non-equipment cards; every participating card, equipment included, is
// exhausted afterwards.
type entomb struct {
	combat.NoHooks
}

func (entomb) OverrideProgress(b *combat.Battle, a *combat.Attack, p *combat.Progress) bool {
	blocks := a.Blocks()
	if blocks.NonEquipmentCount() != a.Condition.N {
		p.IsConditionMet = false
		return false
	}
	p.IsConditionMet = true
	p.FullyPreventedBySpecial = true
	for _, c := range blocks {
		c.Exhaust = true
	}
	return false
}

// sealTheCrypt seals cards on reveal and marks every sealed card unable to
// block this attack; the marks are lifted once blocks are confirmed.
type sealTheCrypt struct {
	combat.NoHooks
	marked []*combat.Card
}

func (s *sealTheCrypt) Reveal(b *combat.Battle, a *combat.Attack) {
	if v, ok := b.Value(a, 0); ok {
		b.Seal(v, events.SelectHighestBlock)
	}
	for _, c := range b.Hand() {
		if c.Sealed && !c.CannotBlock {
			c.CannotBlock = true
			s.marked = append(s.marked, c)
		}
	}
}

func (s *sealTheCrypt) BlocksConfirmed(*combat.Battle, *combat.Attack) {
	for _, c := range s.marked {
		c.CannotBlock = false
	}
	s.marked = nil
}

func gravekeeperAttacks() []*combat.Definition {
	return []*combat.Definition{
		define(Entomb, "Entomb", 12, mustExactly(3), "Block with exactly [3] cards to prevent all damage. They are exhausted.",
			func() combat.Behavior { return entomb{} }),
		define(SealTheCrypt, "Seal the Crypt", 6, none, "Seal [2] cards. Sealed cards cannot block this.",
			func() combat.Behavior { return &sealTheCrypt{} }),
		define(GraveDirt, "Grave Dirt", 4, hit, "On hit: add [1] seal crack.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ModifySealCracks(v)
				}
			},
		})),
	}
}

func gravekeeperSpec() *Spec {
	return &Spec{
		Kind:   Gravekeeper,
		Name:   "Gravekeeper",
		Health: Health{Easy: 45, Normal: 54, Hard: 63, Nightmare: 74},
		NewBehavior: func() Behavior {
			return policy{sel: selectGravekeeper}
		},
	}
}

// selectGravekeeper opens with dirt and a seal, entombs every third turn, and
// otherwise rolls.
func selectGravekeeper(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	switch {
	case turn == 1:
		return ids(GraveDirt, SealTheCrypt)
	case turn%3 == 0:
		return ids(Entomb)
	}
	return dice.RollBands(b.RNG,
		dice.Band[[]combat.AttackID]{Below: 50, Value: ids(GraveDirt, GraveDirt)},
		dice.Band[[]combat.AttackID]{Below: 100, Value: ids(SealTheCrypt)},
	)
}
