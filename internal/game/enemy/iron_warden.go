package enemy

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

const (
	ShackleSlam combat.AttackID = "shackle_slam"
	IronVerdict combat.AttackID = "iron_verdict"
	Bulwark     combat.AttackID = "bulwark"
)

// verdictDenied counts Iron Verdicts replaced since the warden last fell
// back to Bulwark.
const (
	verdictDenied         = "verdict_denied"
	ironWardenDenialLimit = 2
)

// ironWardenStartArmor is the armor the warden grants itself at the start of
// battle, before difficulty.
const ironWardenStartArmor = 3

func ironWardenAttacks() []*combat.Definition {
	return []*combat.Definition{
		define(ShackleSlam, "Shackle Slam", 5, hit, "On hit: apply [1] shackled.", hooks(combat.Hooks{
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Target, passive.Shackled, v)
				}
			},
		})),
		define(IronVerdict, "Iron Verdict", 8, underBlocked(2), "If blocked by fewer than 2 cards, gain [2] armor. Deals [1] more damage for every [6] cards blocked this battle.", hooks(combat.Hooks{
			OnReveal: func(b *combat.Battle, a *combat.Attack) {
				v, ok := b.Value(a, 1)
				per, ok2 := b.Value(a, 2)
				if ok && ok2 && per > 0 {
					a.Damage += v * (b.BattleCount(combat.TrackCardBlocked) / per)
				}
			},
			OnHit: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Source, passive.Armor, v)
				}
			},
		})),
		define(Bulwark, "Bulwark", 0, none, "Gain [4] armor.", hooks(combat.Hooks{
			OnReveal: func(b *combat.Battle, a *combat.Attack) {
				if v, ok := b.Value(a, 0); ok {
					b.ApplyPassive(a.Source, passive.Armor, v)
				}
			},
		})),
	}
}

type ironWarden struct{}

func (ironWarden) Create(*Enemy, *combat.Battle) {}

// StartOfBattle sequences the warden's armor and the player's shackles into
// separate beats on the trigger queue.
func (ironWarden) StartOfBattle(e *Enemy, b *combat.Battle) {
	b.Stagger(e.TriggerSource(),
		func() { b.ApplyPassive(e.Role, passive.Armor, ironWardenStartArmor+e.Difficulty.DamageBonus()) },
		func() { b.ApplyPassive(events.Player, passive.Shackled, 1) },
	)
}

// SelectAttacks rolls one attack. A third Iron Verdict in a row is replaced
// by a roll over the remaining attacks; every second time that happens the
// warden raises Bulwark instead.
func (ironWarden) SelectAttacks(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	pick := dice.RollBands(b.RNG,
		dice.Band[combat.AttackID]{Below: 50, Value: IronVerdict},
		dice.Band[combat.AttackID]{Below: 80, Value: ShackleSlam},
		dice.Band[combat.AttackID]{Below: 100, Value: Bulwark},
	)
	if pick != IronVerdict || e.Memory.Streak(IronVerdict) < 2 {
		return ids(pick)
	}
	if e.Memory.Incr(verdictDenied) >= ironWardenDenialLimit {
		e.Memory.Reset(verdictDenied)
		return ids(Bulwark)
	}
	pick = dice.RollBands(b.RNG,
		dice.Band[combat.AttackID]{Below: 60, Value: ShackleSlam},
		dice.Band[combat.AttackID]{Below: 100, Value: Bulwark},
	)
	return ids(pick)
}

func ironWardenSpec() *Spec {
	return &Spec{
		Kind:        IronWarden,
		Name:        "Iron Warden",
		Health:      Health{Easy: 40, Normal: 48, Hard: 56, Nightmare: 66},
		NewBehavior: func() Behavior { return ironWarden{} },
	}
}
