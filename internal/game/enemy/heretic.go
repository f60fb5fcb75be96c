package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const (
	ProfaneChant  combat.AttackID = "profane_chant"
	Censure       combat.AttackID = "censure"
	Excommunicate combat.AttackID = "excommunicate"
)

func hereticAttacks() []*combat.Definition {
	return []*combat.Definition{
		define(ProfaneChant, "Profane Chant", 0, none, "Apply [2] anathema.", hooks(combat.Hooks{
			OnReveal: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Anathema, v)
				}
			},
		})),
		define(Censure, "Censure", 5, hit, "On hit: seal [1] card.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.Seal(v, events.SelectRandom)
				}
			},
		})),
		define(Excommunicate, "Excommunicate", 9, underBlocked(2), "If blocked by fewer than 2 cards, apply [2] anathema.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Anathema, v)
				}
			},
		})),
	}
}

type heretic struct {
	NoLifecycle
}

// StartOfBattle damages the player for their anathema stacks whenever their
// turn begins.
func (heretic) StartOfBattle(e *Enemy, b *combat.Battle) {
	Listen(e, func(ev events.ChangeBattlePhase) {
		if ev.Phase != events.PlayerTurnStart {
			return
		}
		n := b.Stacks(events.Player, passive.Anathema)
		if n <= 0 {
			return
		}
		b.PassiveTriggered(events.Player, passive.Anathema)
		b.Damage(e.Role, events.Player, n, events.DamagePassive)
	})
}

// SelectAttacks always chants on turn 1. Afterwards Excommunicate is capped
// at two turns in a row.
func (heretic) SelectAttacks(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	if turn == 1 {
		return ids(ProfaneChant)
	}
	roll := b.RNG.Percent(label(e, turn, "pattern"))
	if roll >= 40 && e.Memory.Streak(Excommunicate) < 2 {
		return ids(Excommunicate)
	}
	return ids(ProfaneChant, Censure)
}

func hereticSpec() *Spec {
	return &Spec{
		Kind:        Heretic,
		Name:        "Heretic",
		Health:      Health{Easy: 36, Normal: 43, Hard: 50, Nightmare: 60},
		NewBehavior: func() Behavior { return heretic{} },
	}
}
