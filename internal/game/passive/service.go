package passive

import (
	"sort"

	"go.uber.org/zap"
)

// Change describes one stack mutation.
type Change struct {
	Owner    string
	Type     Type
	Previous int
	Current  int
}

// Tick is the result of ticking one passive on its owner.
type Tick struct {
	Type   Type
	Damage int
}

// Service tracks passive stacks for every combatant in a battle.
// It is not safe for concurrent use; the caller must serialise access.
type Service struct {
	reg       *Registry
	stacks    map[string]map[Type]int
	listeners []func(Change)
	logger    *zap.Logger
}

// NewService creates a Service resolving definitions from reg.
//
// Precondition: reg and logger must be non-nil.
func NewService(reg *Registry, logger *zap.Logger) *Service {
	return &Service{
		reg:    reg,
		stacks: make(map[string]map[Type]int),
		logger: logger,
	}
}

// OnChange registers fn to be called after every stack change.
func (s *Service) OnChange(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Service) def(t Type) *Def {
	if d, ok := s.reg.Get(t); ok {
		return d
	}
	s.logger.Warn("passive: unknown type; treating as non-negative", zap.String("type", string(t)))
	return &Def{ID: t, Name: string(t)}
}

// Apply adds delta to owner's stack of t and returns the resulting stack.
// Stacks floor at 0 unless the type allows debt, and are capped at the type's Max.
//
// Postcondition: delta == 0 is a no-op; listeners are notified only when the
// stack value actually changes.
func (s *Service) Apply(owner string, t Type, delta int) int {
	prev := s.Query(owner, t)
	if delta == 0 {
		return prev
	}
	next := s.def(t).clamp(prev + delta)
	if next == prev {
		return prev
	}
	set, ok := s.stacks[owner]
	if !ok {
		set = make(map[Type]int)
		s.stacks[owner] = set
	}
	if next == 0 {
		delete(set, t)
	} else {
		set[t] = next
	}
	s.logger.Debug("passive applied",
		zap.String("owner", owner),
		zap.String("type", string(t)),
		zap.Int("delta", delta),
		zap.Int("stacks", next),
	)
	c := Change{Owner: owner, Type: t, Previous: prev, Current: next}
	for _, fn := range s.listeners {
		fn(c)
	}
	return next
}

// Query returns owner's current stack of t, or 0 when absent.
func (s *Service) Query(owner string, t Type) int {
	return s.stacks[owner][t]
}

// Snapshot returns a copy of every non-zero stack held by owner.
func (s *Service) Snapshot(owner string) map[Type]int {
	out := make(map[Type]int, len(s.stacks[owner]))
	for t, n := range s.stacks[owner] {
		out[t] = n
	}
	return out
}

// Clear removes every stack held by owner, notifying listeners per stack.
func (s *Service) Clear(owner string) {
	for _, t := range s.types(owner) {
		s.Apply(owner, t, -s.Query(owner, t))
	}
	delete(s.stacks, owner)
}

// Tick evaluates every tick_damage passive on owner and applies decay.
// Damage equals the stack count before decay. The caller is responsible for
// turning the returned damage into health requests.
func (s *Service) Tick(owner string) []Tick {
	var out []Tick
	for _, t := range s.types(owner) {
		d := s.def(t)
		n := s.Query(owner, t)
		if d.TickDamage && n > 0 {
			out = append(out, Tick{Type: t, Damage: n})
		}
		if d.Decay > 0 && n > 0 {
			s.Apply(owner, t, -d.Decay)
		}
	}
	return out
}

// types returns owner's passive types in a stable order.
func (s *Service) types(owner string) []Type {
	out := make([]Type, 0, len(s.stacks[owner]))
	for t := range s.stacks[owner] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
