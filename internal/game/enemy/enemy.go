// Package enemy holds the catalog of enemies and their attacks, and the
// per-enemy attack selection policies that decide each turn's attacks.
package enemy

import (
	"fmt"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/trigger"
)

// Kind identifies an enemy type.
type Kind string

// Behavior is an enemy's lifecycle and attack selection policy.
type Behavior interface {
	// Create runs once when the enemy is spawned.
	Create(e *Enemy, b *combat.Battle)
	// StartOfBattle runs once when the battle begins.
	StartOfBattle(e *Enemy, b *combat.Battle)
	// SelectAttacks returns this turn's attacks in execution order.
	SelectAttacks(e *Enemy, b *combat.Battle, turn int) []combat.AttackID
}

// NoLifecycle supplies empty Create and StartOfBattle hooks.
type NoLifecycle struct{}

func (NoLifecycle) Create(*Enemy, *combat.Battle)        {}
func (NoLifecycle) StartOfBattle(*Enemy, *combat.Battle) {}

// Spec is the static description of an enemy kind.
type Spec struct {
	Kind   Kind
	Name   string
	Health Health
	// NewBehavior builds a fresh Behavior per spawned enemy.
	NewBehavior func() Behavior
}

// Validate checks the spec's invariants.
func (s *Spec) Validate() error {
	if s.Kind == "" {
		return fmt.Errorf("enemy spec: kind must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("enemy spec %q: name must not be empty", s.Kind)
	}
	if err := s.Health.Validate(); err != nil {
		return fmt.Errorf("enemy spec %q: %w", s.Kind, err)
	}
	if s.NewBehavior == nil {
		return fmt.Errorf("enemy spec %q: behavior must not be nil", s.Kind)
	}
	return nil
}

// Enemy is a live enemy in one battle. Every bus handler it registers goes
// through its Scope, so Dispose releases all of them.
type Enemy struct {
	*combat.Combatant
	Kind       Kind
	Difficulty Difficulty
	Memory     *Memory

	behavior Behavior
	scope    *eventbus.Scope
	triggers *trigger.Queue
	disposed bool
}

// Listen subscribes fn on the enemy's scope. After Dispose it registers
// nothing and returns nil.
func Listen[T any](e *Enemy, fn func(T), opts ...eventbus.Option) *eventbus.Subscription {
	return eventbus.On(e.scope, fn, opts...)
}

// Scope returns the scope owning the enemy's subscriptions.
func (e *Enemy) Scope() *eventbus.Scope { return e.scope }

// TriggerSource is the trigger queue source tag for the enemy's staggered effects.
func (e *Enemy) TriggerSource() string { return "enemy:" + e.ID }

// StartOfBattle runs the behavior's start-of-battle hook.
func (e *Enemy) StartOfBattle(b *combat.Battle) {
	if e.disposed {
		return
	}
	e.behavior.StartOfBattle(e, b)
}

// SelectAttacks asks the policy for this turn's attacks and records them in Memory.
func (e *Enemy) SelectAttacks(b *combat.Battle, turn int) []combat.AttackID {
	if e.disposed {
		return nil
	}
	ids := e.behavior.SelectAttacks(e, b, turn)
	e.Memory.Record(ids)
	return ids
}

// Dispose releases every subscription and pending trigger the enemy owns.
// Safe to call repeatedly.
//
// Postcondition: Scope().Len() == 0 and no trigger from TriggerSource() is pending.
func (e *Enemy) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.scope.Close()
	if e.triggers != nil {
		e.triggers.Cancel(e.TriggerSource())
	}
}

// Disposed reports whether Dispose has run.
func (e *Enemy) Disposed() bool { return e.disposed }
