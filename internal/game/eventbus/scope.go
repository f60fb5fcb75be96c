package eventbus

// Scope owns a set of subscriptions and releases them together. Enemies hold a
// Scope for their lifetime so that disposing the enemy drops every handler it
// registered, without per-handler bookkeeping.
type Scope struct {
	bus    *Bus
	subs   []*Subscription
	closed bool
}

// NewScope creates a Scope bound to b.
func NewScope(b *Bus) *Scope {
	return &Scope{bus: b}
}

// On subscribes fn to T and records the subscription in s.
// Subscribing on a closed scope returns nil and registers nothing.
func On[T any](s *Scope, fn func(T), opts ...Option) *Subscription {
	if s.closed {
		return nil
	}
	sub := Subscribe(s.bus, fn, opts...)
	s.subs = append(s.subs, sub)
	return sub
}

// Bus returns the bus the scope subscribes on.
func (s *Scope) Bus() *Bus { return s.bus }

// Len returns the number of live subscriptions owned by s.
func (s *Scope) Len() int {
	n := 0
	for _, sub := range s.subs {
		if sub.Active() {
			n++
		}
	}
	return n
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool { return s.closed }

// Close unsubscribes every subscription owned by s. Safe to call repeatedly.
//
// Postcondition: Len() == 0 and further On calls are no-ops.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
}
