package enemy

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

// Registry is the catalog of enemy kinds and attack definitions.
//
// Registration is not safe for concurrent use; a populated Registry may be
// read from many sessions at once.
type Registry struct {
	specs   map[Kind]*Spec
	attacks map[combat.AttackID]*combat.Definition
	logger  *zap.Logger
}

// NewRegistry creates an empty Registry.
//
// Precondition: logger must be non-nil.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		specs:   make(map[Kind]*Spec),
		attacks: make(map[combat.AttackID]*combat.Definition),
		logger:  logger,
	}
}

// RegisterAttack adds def, replacing any definition with the same ID.
func (r *Registry) RegisterAttack(def *combat.Definition) error {
	if def == nil || def.ID == "" {
		return fmt.Errorf("enemy: attack definition must have an id")
	}
	if def.Damage < 0 {
		return fmt.Errorf("enemy: attack %q: damage must be >= 0", def.ID)
	}
	if _, exists := r.attacks[def.ID]; exists {
		r.logger.Info("replacing attack definition", zap.String("attack", string(def.ID)))
	}
	r.attacks[def.ID] = def
	return nil
}

// RegisterSpec adds spec, replacing any spec of the same kind.
func (r *Registry) RegisterSpec(spec *Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	r.specs[spec.Kind] = spec
	return nil
}

// RegisterTemplate registers a data-driven enemy. Every attack it names must
// already be registered.
func (r *Registry) RegisterTemplate(t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for _, id := range t.attackIDs() {
		if _, ok := r.attacks[id]; !ok {
			return fmt.Errorf("enemy template %q: unknown attack %q", t.Kind, id)
		}
	}
	return r.RegisterSpec(t.Spec())
}

// Attack returns the definition for id.
func (r *Registry) Attack(id combat.AttackID) (*combat.Definition, bool) {
	d, ok := r.attacks[id]
	return d, ok
}

// Spec returns the spec for kind.
func (r *Registry) Spec(kind Kind) (*Spec, bool) {
	s, ok := r.specs[kind]
	return s, ok
}

// Kinds returns every registered kind, sorted.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.specs))
	for k := range r.specs {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Spawn creates an enemy of kind at difficulty for battle b and runs its
// Create hook.
//
// Precondition: b.Bus must be non-nil.
// Postcondition: the returned enemy plays events.Enemy and is at full health.
func (r *Registry) Spawn(kind Kind, d Difficulty, b *combat.Battle) (*Enemy, error) {
	spec, ok := r.specs[kind]
	if !ok {
		return nil, fmt.Errorf("enemy: unknown kind %q", kind)
	}
	hp := spec.Health.For(d)
	e := &Enemy{
		Combatant: &combat.Combatant{
			ID:        uuid.NewString(),
			Role:      events.Enemy,
			Name:      spec.Name,
			MaxHP:     hp,
			CurrentHP: hp,
		},
		Kind:       kind,
		Difficulty: d,
		Memory:     NewMemory(),
		behavior:   spec.NewBehavior(),
		scope:      eventbus.NewScope(b.Bus),
		triggers:   b.Triggers,
	}
	e.behavior.Create(e, b)
	r.logger.Debug("enemy spawned",
		zap.String("kind", string(kind)),
		zap.String("difficulty", d.String()),
		zap.String("id", e.ID),
		zap.Int("hp", hp),
	)
	return e, nil
}

// Instantiate declares attacks for ids in order. Unknown ids are skipped and
// logged. The enemy's difficulty bonus is added to each attack's damage.
func (r *Registry) Instantiate(e *Enemy, ids []combat.AttackID) []*combat.Attack {
	out := make([]*combat.Attack, 0, len(ids))
	for _, id := range ids {
		def, ok := r.attacks[id]
		if !ok {
			r.logger.Warn("unknown attack skipped", zap.String("attack", string(id)), zap.String("enemy", string(e.Kind)))
			continue
		}
		a := combat.NewAttack(def, e.Difficulty.DamageBonus())
		a.Source = e.Role
		out = append(out, a)
	}
	return out
}
