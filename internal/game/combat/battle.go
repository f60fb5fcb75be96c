package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
	"github.com/cory-johannsen/cardbattle/internal/game/trigger"
)

// Entities looks up battle participants and the player's hand.
type Entities interface {
	// Entity returns the combatant playing role, or nil.
	Entity(role string) *Combatant
	// Hand returns the cards currently in the player's hand.
	Hand() []*Card
}

// Names counted by a Tracker.
const (
	TrackAttackRevealed   = "attack_revealed"
	TrackCardBlocked      = "card_blocked"
	TrackPledgeAdded      = "pledge_added"
	TrackPassiveTriggered = "passive_triggered"
	TrackDamageTaken      = "damage_taken"
	TrackCardsExhausted   = "cards_exhausted"
)

// Tracker counts named events this turn and this battle. It is written by
// the battle session and only read by hooks.
type Tracker interface {
	TurnCount(name string) int
	BattleCount(name string) int
}

// Flags is the player's persistent save-flag set.
type Flags interface {
	Has(flag string) bool
	Set(flag string)
}

// PassiveReader is the read side of the passive service.
type PassiveReader interface {
	Query(owner string, t passive.Type) int
}

// Battle is the context every hook receives. Hooks change state only by
// publishing on Bus or scheduling on Triggers; the helpers below do both.
//
// A nil Entities, Tracker or Flags behaves as empty.
type Battle struct {
	ID       string
	Turn     int
	Bus      *eventbus.Bus
	Passives PassiveReader
	Triggers *trigger.Queue
	RNG      *dice.Roller
	Entities Entities
	Tracker  Tracker
	Flags    Flags
	Logger   *zap.Logger
	// StaggerDelay spaces triggers scheduled with Stagger.
	StaggerDelay time.Duration
}

// Entity returns the combatant playing role, or nil.
func (b *Battle) Entity(role string) *Combatant {
	if b.Entities == nil {
		return nil
	}
	return b.Entities.Entity(role)
}

// Hand returns the player's hand, or nil.
func (b *Battle) Hand() []*Card {
	if b.Entities == nil {
		return nil
	}
	return b.Entities.Hand()
}

// Stacks returns owner's stacks of t.
func (b *Battle) Stacks(owner string, t passive.Type) int {
	if b.Passives == nil {
		return 0
	}
	return b.Passives.Query(owner, t)
}

// TurnCount returns how many times name occurred this turn.
func (b *Battle) TurnCount(name string) int {
	if b.Tracker == nil {
		return 0
	}
	return b.Tracker.TurnCount(name)
}

// BattleCount returns how many times name occurred this battle.
func (b *Battle) BattleCount(name string) int {
	if b.Tracker == nil {
		return 0
	}
	return b.Tracker.BattleCount(name)
}

// HasFlag reports whether the save flag is set.
func (b *Battle) HasFlag(flag string) bool {
	return b.Flags != nil && b.Flags.Has(flag)
}

// SetFlag sets a save flag.
func (b *Battle) SetFlag(flag string) {
	if b.Flags != nil {
		b.Flags.Set(flag)
	}
}

// ApplyPassive requests a stack change on target.
func (b *Battle) ApplyPassive(target string, t passive.Type, delta int) {
	if delta == 0 {
		return
	}
	eventbus.Publish(b.Bus, events.ApplyPassive{Target: target, Type: t, Delta: delta})
}

// Damage requests amount of damage from source to target.
func (b *Battle) Damage(source, target string, amount int, kind events.DamageType) {
	if amount <= 0 {
		return
	}
	eventbus.Publish(b.Bus, events.ModifyHPRequest{Source: source, Target: target, Delta: -amount, DamageType: kind})
}

// Heal requests amount of healing on target.
func (b *Battle) Heal(target string, amount int) {
	if amount <= 0 {
		return
	}
	eventbus.Publish(b.Bus, events.ModifyHPRequest{Target: target, Delta: amount, DamageType: events.DamageHeal})
}

// Freeze requests n cards in hand be frozen.
func (b *Battle) Freeze(n int, sel events.CardSelection) {
	if n > 0 {
		eventbus.Publish(b.Bus, events.FreezeCards{Amount: n, Type: sel})
	}
}

// Seal requests n cards in hand be sealed.
func (b *Battle) Seal(n int, sel events.CardSelection) {
	if n > 0 {
		eventbus.Publish(b.Bus, events.SealCards{Amount: n, Type: sel})
	}
}

// Intimidate requests n cards be discarded from the next draw.
func (b *Battle) Intimidate(n int) {
	if n > 0 {
		eventbus.Publish(b.Bus, events.Intimidate{Amount: n})
	}
}

// ModifySealCracks changes the player's seal crack counter.
func (b *Battle) ModifySealCracks(delta int) {
	if delta != 0 {
		eventbus.Publish(b.Bus, events.ModifySealCracks{Delta: delta})
	}
}

// PassiveTriggered announces that owner's passive t fired.
func (b *Battle) PassiveTriggered(owner string, t passive.Type) {
	eventbus.Publish(b.Bus, events.PassiveTriggered{Owner: owner, Type: t})
}

// Stagger schedules fns on the trigger queue, StaggerDelay apart, under
// source. Without a queue they run immediately in order.
func (b *Battle) Stagger(source string, fns ...func()) {
	if b.Triggers == nil {
		for _, fn := range fns {
			fn()
		}
		return
	}
	b.Triggers.Stagger(source, b.StaggerDelay, fns...)
}

// RandomHandColor returns the color of a random non-equipment card in hand,
// or fallback when the hand holds none.
func (b *Battle) RandomHandColor(label string, fallback Color) Color {
	var colors []Color
	for _, c := range b.Hand() {
		if !c.Equipment && c.Color != "" {
			colors = append(colors, c.Color)
		}
	}
	if len(colors) == 0 || b.RNG == nil {
		b.Log().Debug("no colored card in hand; using fallback", zap.String("fallback", string(fallback)))
		return fallback
	}
	return colors[b.RNG.Draw(label, len(colors))]
}

// Log returns the battle logger, or a no-op logger when none is set.
func (b *Battle) Log() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Value returns the i-th text value of a. A missing value is logged and
// reported as not ok so the calling hook can skip its effect.
func (b *Battle) Value(a *Attack, i int) (int, bool) {
	v, ok := a.Text.Value(i)
	if !ok {
		b.Log().Debug("attack text has no value at index; effect skipped",
			zap.String("attack", string(a.Def.ID)), zap.Int("index", i))
	}
	return v, ok
}
