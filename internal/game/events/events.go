// Package events is the catalog of messages exchanged over the battle bus.
// Field sets are the contract: consumers must not assume anything else.
package events

import "github.com/cory-johannsen/cardbattle/internal/game/passive"

// Roles used as entity names on the bus.
const (
	Player = "Player"
	Enemy  = "Enemy"
)

// ApplyPassive requests a stack change from the passive service.
type ApplyPassive struct {
	Target string
	Type   passive.Type
	Delta  int
}

// PassiveChanged reports a stack change. Display-only.
type PassiveChanged struct {
	Owner    string
	Type     passive.Type
	Previous int
	Current  int
}

// PassiveTriggered reports that a passive's triggered effect fired.
type PassiveTriggered struct {
	Owner string
	Type  passive.Type
}

// DamageType classifies a health change.
type DamageType int

const (
	DamageAttack DamageType = iota
	DamagePassive
	DamageSelf
	DamageHeal
)

func (d DamageType) String() string {
	switch d {
	case DamageAttack:
		return "attack"
	case DamagePassive:
		return "passive"
	case DamageSelf:
		return "self"
	case DamageHeal:
		return "heal"
	}
	return "unknown"
}

// ModifyHPRequest asks the health system to change Target's health.
// Negative Delta is damage. Source is empty when there is no attributable source.
type ModifyHPRequest struct {
	Source     string
	Target     string
	Delta      int
	DamageType DamageType
}

// BlockRequirement is the kind of a MustBeBlocked advisory.
type BlockRequirement int

const (
	AtLeast BlockRequirement = iota
	Exactly
)

func (r BlockRequirement) String() string {
	if r == Exactly {
		return "exactly"
	}
	return "at_least"
}

// MustBeBlocked advises the blocking side how many cards an attack wants.
type MustBeBlocked struct {
	Threshold int
	Type      BlockRequirement
}

// CardSelection picks which cards in hand a card-state request targets.
type CardSelection int

const (
	SelectRandom CardSelection = iota
	SelectHighestBlock
	SelectLeftmost
)

// FreezeCards requests Amount cards in hand be frozen.
type FreezeCards struct {
	Amount int
	Type   CardSelection
}

// SealCards requests Amount cards in hand be sealed.
type SealCards struct {
	Amount int
	Type   CardSelection
}

// Intimidate requests Amount cards be discarded from the next draw.
type Intimidate struct {
	Amount int
}

// ModifySealCracks changes the player's seal crack counter.
type ModifySealCracks struct {
	Delta int
}

// Phase is a battle phase.
type Phase int

const (
	StartOfBattle Phase = iota
	PlayerTurnStart
	EnemyTurnStart
	EnemyTurnEnd
	EndOfBattle
)

func (p Phase) String() string {
	switch p {
	case StartOfBattle:
		return "start_of_battle"
	case PlayerTurnStart:
		return "player_turn_start"
	case EnemyTurnStart:
		return "enemy_turn_start"
	case EnemyTurnEnd:
		return "enemy_turn_end"
	case EndOfBattle:
		return "end_of_battle"
	}
	return "unknown"
}

// ChangeBattlePhase announces entry into Phase on Turn.
type ChangeBattlePhase struct {
	Phase Phase
	Turn  int
}

// PledgeAdded announces that Owner committed a pledge worth Amount.
type PledgeAdded struct {
	Owner  string
	Amount int
}

// AttackRevealed announces an attack after its reveal hook ran.
type AttackRevealed struct {
	AttackID   string
	InstanceID string
	Name       string
	Damage     int
	Text       string
}

// CardBlocked announces one blocking card being processed.
type CardBlocked struct {
	InstanceID string
	CardID     string
}

// AttackResolved reports the outcome of one attack.
type AttackResolved struct {
	AttackID       string
	InstanceID     string
	Damage         int
	Prevented      int
	ConditionMet   bool
	FullyPrevented bool
}

// CardsExhausted lists cards removed from play after blocking.
type CardsExhausted struct {
	CardIDs []string
}

// EntityDied announces that an entity's health reached zero.
type EntityDied struct {
	ID string
}
