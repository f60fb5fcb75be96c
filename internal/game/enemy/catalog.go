package enemy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
)

// Builtin enemy kinds.
const (
	Skeleton    Kind = "skeleton"
	IronWarden  Kind = "iron_warden"
	Gravekeeper Kind = "gravekeeper"
	BloodWitch  Kind = "blood_witch"
	RustGolem   Kind = "rust_golem"
	FrostWraith Kind = "frost_wraith"
	Pyromancer  Kind = "pyromancer"
	Heretic     Kind = "heretic"
	Lich        Kind = "lich"
)

type catalogEntry struct {
	spec    func() *Spec
	attacks func() []*combat.Definition
}

var catalog = []catalogEntry{
	{skeletonSpec, skeletonAttacks},
	{ironWardenSpec, ironWardenAttacks},
	{gravekeeperSpec, gravekeeperAttacks},
	{bloodWitchSpec, bloodWitchAttacks},
	{rustGolemSpec, rustGolemAttacks},
	{frostWraithSpec, frostWraithAttacks},
	{pyromancerSpec, pyromancerAttacks},
	{hereticSpec, hereticAttacks},
	{lichSpec, lichAttacks},
}

// DefaultRegistry returns a Registry holding the builtin enemies and attacks.
//
// Precondition: logger must be non-nil.
func DefaultRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	for _, entry := range catalog {
		for _, def := range entry.attacks() {
			if err := r.RegisterAttack(def); err != nil {
				panic(err)
			}
		}
		if err := r.RegisterSpec(entry.spec()); err != nil {
			panic(err)
		}
	}
	return r
}

// policy adapts a selection function into a Behavior with no lifecycle hooks.
type policy struct {
	NoLifecycle
	sel func(e *Enemy, b *combat.Battle, turn int) []combat.AttackID
}

func (p policy) SelectAttacks(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	return p.sel(e, b, turn)
}

func define(id combat.AttackID, name string, damage int, cond combat.Condition, text string, nb func() combat.Behavior) *combat.Definition {
	return &combat.Definition{ID: id, Name: name, Damage: damage, Condition: cond, Text: text, NewBehavior: nb}
}

func hooks(h combat.Hooks) func() combat.Behavior {
	return func() combat.Behavior { return h }
}

func label(e *Enemy, turn int, what string) string {
	return fmt.Sprintf("%s.turn%d.%s", e.Kind, turn, what)
}

func ids(xs ...combat.AttackID) []combat.AttackID { return xs }

var (
	none = combat.Condition{}
	hit  = combat.Condition{Type: combat.OnHit}
)

func underBlocked(n int) combat.Condition {
	return combat.Condition{Type: combat.OnBlockedByAtLeastN, N: n}
}

func mustAtLeast(n int) combat.Condition {
	return combat.Condition{Type: combat.MustBeBlockedByAtLeastN, N: n}
}

func mustExactly(n int) combat.Condition {
	return combat.Condition{Type: combat.MustBeBlockedByExactlyN, N: n}
}
