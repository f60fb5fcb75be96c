package combat

// AttackID identifies an attack definition.
type AttackID string

// Definition is the static data of an attack. Hooks live in the Behavior
// produced by NewBehavior, one fresh value per attack instance, so state a
// hook caches at reveal belongs to that instance alone.
type Definition struct {
	ID        AttackID
	Name      string
	Damage    int
	Condition Condition
	Text      string
	// NewBehavior builds the hooks for one instance. nil means no hooks.
	NewBehavior func() Behavior
}

// Behavior is the set of hook points every attack supplies. Attacks that do
// not need a hook embed NoHooks to omit it explicitly.
type Behavior interface {
	// Reveal runs once when the attack is revealed. It may change the
	// instance's Damage, Condition and Text.
	Reveal(b *Battle, a *Attack)
	// BlockProcessed runs once per non-equipment blocking card, in
	// assignment order.
	BlockProcessed(b *Battle, a *Attack, card *Card)
	// BlocksConfirmed runs once after every blocking card was processed.
	BlocksConfirmed(b *Battle, a *Attack)
	// Hit runs after damage when the attack connected, or when its gating
	// condition was met.
	Hit(b *Battle, a *Attack)
}

// Overrider is implemented by behaviors that replace standard condition
// evaluation. OverrideProgress is the sole authority on IsConditionMet,
// ActualDamage and FullyPreventedBySpecial for its attack. The returned
// boolean is reserved and ignored by Resolve.
type Overrider interface {
	OverrideProgress(b *Battle, a *Attack, p *Progress) bool
}

// NoHooks implements Behavior with no-ops.
type NoHooks struct{}

func (NoHooks) Reveal(*Battle, *Attack)                {}
func (NoHooks) BlockProcessed(*Battle, *Attack, *Card) {}
func (NoHooks) BlocksConfirmed(*Battle, *Attack)       {}
func (NoHooks) Hit(*Battle, *Attack)                   {}

// Hooks adapts optional functions into a Behavior. It suits attacks whose
// hooks carry no per-instance state.
type Hooks struct {
	OnReveal          func(b *Battle, a *Attack)
	OnBlockProcessed  func(b *Battle, a *Attack, card *Card)
	OnBlocksConfirmed func(b *Battle, a *Attack)
	OnHit             func(b *Battle, a *Attack)
}

func (h Hooks) Reveal(b *Battle, a *Attack) {
	if h.OnReveal != nil {
		h.OnReveal(b, a)
	}
}

func (h Hooks) BlockProcessed(b *Battle, a *Attack, card *Card) {
	if h.OnBlockProcessed != nil {
		h.OnBlockProcessed(b, a, card)
	}
}

func (h Hooks) BlocksConfirmed(b *Battle, a *Attack) {
	if h.OnBlocksConfirmed != nil {
		h.OnBlocksConfirmed(b, a)
	}
}

func (h Hooks) Hit(b *Battle, a *Attack) {
	if h.OnHit != nil {
		h.OnHit(b, a)
	}
}
