package combat

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

// Stage is a point in an attack's lifecycle.
type Stage int

const (
	Declared Stage = iota
	Revealed
	BlockAssigned
	BlocksConfirmed
	Resolved
)

func (s Stage) String() string {
	switch s {
	case Declared:
		return "declared"
	case Revealed:
		return "revealed"
	case BlockAssigned:
		return "block_assigned"
	case BlocksConfirmed:
		return "blocks_confirmed"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// ErrStage is returned when a transition is attempted out of order.
var ErrStage = errors.New("combat: attack stage out of order")

// Attack is one instance of a Definition moving through
// Declared → Revealed → BlockAssigned → BlocksConfirmed → Resolved.
//
// Attack is not safe for concurrent use.
type Attack struct {
	InstanceID string
	Def        *Definition
	// Source and Target are the attacker's and defender's roles.
	Source string
	Target string

	// Damage, Condition and Text start as copies of the definition and may
	// be changed by the Reveal hook.
	Damage    int
	Condition Condition
	Text      Text

	stage    Stage
	behavior Behavior
	blocks   BlockAssignment
	progress Progress
	verdict  Verdict
}

// Result is the outcome of Resolve.
type Result struct {
	Progress Progress
	Verdict  Verdict
	HitFired bool
}

// NewAttack declares an enemy attack against the player. bonus is added to
// the definition's damage.
//
// Precondition: def must be non-nil.
// Postcondition: Stage() == Declared.
func NewAttack(def *Definition, bonus int) *Attack {
	var beh Behavior = NoHooks{}
	if def.NewBehavior != nil {
		if nb := def.NewBehavior(); nb != nil {
			beh = nb
		}
	}
	return &Attack{
		InstanceID: uuid.NewString(),
		Def:        def,
		Source:     events.Enemy,
		Target:     events.Player,
		Damage:     max(def.Damage+bonus, 0),
		Condition:  def.Condition,
		Text:       ParseText(def.Text),
		behavior:   beh,
	}
}

// Stage returns the current stage.
func (a *Attack) Stage() Stage { return a.stage }

// Behavior returns the instance's hooks.
func (a *Attack) Behavior() Behavior { return a.behavior }

// Blocks returns the assigned blocking cards.
func (a *Attack) Blocks() BlockAssignment { return a.blocks }

// Progress returns a copy of the resolution record.
func (a *Attack) Progress() Progress { return a.progress }

// Verdict returns the condition verdict, valid once resolved.
func (a *Attack) Verdict() Verdict { return a.verdict }

func (a *Attack) advance(from, to Stage) error {
	if a.stage != from {
		return fmt.Errorf("%w: %s is %s, want %s", ErrStage, a.Def.ID, a.stage, from)
	}
	a.stage = to
	return nil
}

// Reveal runs the Reveal hook, advises soft block requirements and announces
// the attack.
func (a *Attack) Reveal(b *Battle) error {
	if err := a.advance(Declared, Revealed); err != nil {
		return err
	}
	a.behavior.Reveal(b, a)
	a.progress = Progress{BaseDamage: a.Damage}
	if adv, ok := a.Condition.Advisory(); ok {
		eventbus.Publish(b.Bus, adv)
	}
	eventbus.Publish(b.Bus, events.AttackRevealed{
		AttackID:   string(a.Def.ID),
		InstanceID: a.InstanceID,
		Name:       a.Def.Name,
		Damage:     a.Damage,
		Text:       a.Text.Display(),
	})
	return nil
}

// AssignBlocks commits cards against the attack. Cards that cannot block are
// dropped, as is any card already committed (same pointer or same non-empty
// ID). BlockProcessed fires once per remaining non-equipment card in the
// order given.
//
// Postcondition: Progress().AssignedBlockTotal is the committed block value
// before any BlockProcessed hook ran; each card counts at most once.
func (a *Attack) AssignBlocks(b *Battle, cards ...*Card) error {
	if err := a.advance(Revealed, BlockAssigned); err != nil {
		return err
	}
	a.blocks = a.blocks[:0]
	seen := make(map[*Card]bool, len(cards))
	seenID := make(map[string]bool, len(cards))
	for _, c := range cards {
		if c == nil {
			continue
		}
		if seen[c] || (c.ID != "" && seenID[c.ID]) {
			b.Log().Debug("card already committed; dropped", zap.String("card", c.ID), zap.String("attack", string(a.Def.ID)))
			continue
		}
		if !c.CanBlock() {
			b.Log().Debug("card cannot block; dropped", zap.String("card", c.ID), zap.String("attack", string(a.Def.ID)))
			continue
		}
		seen[c] = true
		if c.ID != "" {
			seenID[c.ID] = true
		}
		a.blocks = append(a.blocks, c)
	}
	a.progress.AssignedBlockTotal = a.blocks.Total()
	for _, c := range a.blocks {
		if c.Equipment {
			continue
		}
		a.behavior.BlockProcessed(b, a, c)
		eventbus.Publish(b.Bus, events.CardBlocked{InstanceID: a.InstanceID, CardID: c.ID})
	}
	return nil
}

// ConfirmBlocks runs the BlocksConfirmed hook once.
func (a *Attack) ConfirmBlocks(b *Battle) error {
	if err := a.advance(BlockAssigned, BlocksConfirmed); err != nil {
		return err
	}
	a.behavior.BlocksConfirmed(b, a)
	return nil
}

// Resolve computes damage and applies it.
//
// Block reduction is the assigned block total less the target's Shackled
// stacks. Aegis then armor absorb what gets through. A behavior implementing
// Overrider replaces condition evaluation; otherwise Evaluate decides it.
// When FullyPreventedBySpecial is set no damage is dealt and no defence is
// consumed.
//
// Postcondition: Stage() == Resolved; Hit ran iff Result.HitFired.
func (a *Attack) Resolve(b *Battle) (Result, error) {
	if err := a.advance(BlocksConfirmed, Resolved); err != nil {
		return Result{}, err
	}
	p := &a.progress
	p.BaseDamage = max(0, a.Damage+b.Stacks(a.Source, passive.Strength))

	block := max(0, p.AssignedBlockTotal-b.Stacks(a.Target, passive.Shackled))
	afterBlock := max(0, p.BaseDamage-block)
	p.PreventedDamageFromBlockCondition = p.BaseDamage - afterBlock
	m := Mitigate(afterBlock, b.Stacks(a.Target, passive.Aegis), b.Stacks(a.Target, passive.Armor))
	p.AegisTotal = m.Absorbed()
	p.ActualDamage = m.Remaining
	p.TotalPreventedDamage = p.PreventedDamageFromBlockCondition + p.AegisTotal

	if o, ok := a.behavior.(Overrider); ok {
		_ = o.OverrideProgress(b, a, p)
		a.verdict = Verdict{Met: p.IsConditionMet, Text: a.Condition.Describe(p.IsConditionMet)}
	} else {
		a.verdict = Evaluate(a.Condition, a.blocks, p)
		p.IsConditionMet = a.verdict.Met
	}

	if p.FullyPreventedBySpecial {
		p.ActualDamage = 0
		p.AegisTotal = 0
		p.TotalPreventedDamage = p.BaseDamage
	} else {
		if m.Aegis > 0 {
			b.ApplyPassive(a.Target, passive.Aegis, -m.Aegis)
		}
		if m.Armor > 0 {
			b.ApplyPassive(a.Target, passive.Armor, -m.Armor)
		}
		b.Damage(a.Source, a.Target, p.ActualDamage, events.DamageAttack)
	}

	hit := a.shouldHit(p)
	if hit {
		a.behavior.Hit(b, a)
	}

	var exhausted []string
	for _, c := range a.blocks {
		if c.Exhaust {
			exhausted = append(exhausted, c.ID)
		}
	}
	if len(exhausted) > 0 {
		eventbus.Publish(b.Bus, events.CardsExhausted{CardIDs: exhausted})
	}

	eventbus.Publish(b.Bus, events.AttackResolved{
		AttackID:       string(a.Def.ID),
		InstanceID:     a.InstanceID,
		Damage:         p.ActualDamage,
		Prevented:      p.TotalPreventedDamage,
		ConditionMet:   p.IsConditionMet,
		FullyPrevented: p.FullyPreventedBySpecial,
	})
	return Result{Progress: *p, Verdict: a.verdict, HitFired: hit}, nil
}

func (a *Attack) shouldHit(p *Progress) bool {
	if p.FullyPreventedBySpecial {
		return false
	}
	switch a.Condition.Type {
	case OnBlockedByAtLeastN:
		return p.IsConditionMet
	case OnHit:
		return p.IsConditionMet || p.ActualDamage > 0
	}
	return p.ActualDamage > 0
}

// Run drives the attack through every stage with blocks, for callers that do
// not need to interleave anything between stages.
func (a *Attack) Run(b *Battle, blocks ...*Card) (Result, error) {
	if err := a.Reveal(b); err != nil {
		return Result{}, err
	}
	if err := a.AssignBlocks(b, blocks...); err != nil {
		return Result{}, err
	}
	if err := a.ConfirmBlocks(b); err != nil {
		return Result{}, err
	}
	return a.Resolve(b)
}
