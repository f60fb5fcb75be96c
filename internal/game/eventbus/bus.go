// Package eventbus provides the typed publish/subscribe dispatcher that every
// combat component communicates through. One Bus is constructed per battle
// session; there is no package-level bus.
package eventbus

import (
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// MaxDepth bounds nested Publish calls. A publish beyond this depth is dropped
// and logged rather than overflowing the stack.
const MaxDepth = 64

type handler struct {
	id       uint64
	priority int
	typ      reflect.Type
	fn       any
	active   bool
}

// Bus dispatches events to subscribers keyed by the event's Go type.
//
// Bus is not safe for concurrent use; the combat core is single-threaded and
// the caller must serialise access.
type Bus struct {
	handlers map[reflect.Type][]*handler
	seq      uint64
	depth    int
	logger   *zap.Logger
}

// New creates an empty Bus.
//
// Precondition: logger must be non-nil.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]*handler),
		logger:   logger,
	}
}

// Option configures a subscription.
type Option func(*handler)

// WithPriority sets the dispatch priority. Higher priorities run first; equal
// priorities run in subscription order. The default priority is 0.
func WithPriority(p int) Option {
	return func(h *handler) { h.priority = p }
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus *Bus
	h   *handler
}

// Subscribe registers fn for events of type T.
//
// Precondition: b and fn must be non-nil.
// Postcondition: fn receives every T published after Subscribe returns, until
// the returned Subscription is unsubscribed.
func Subscribe[T any](b *Bus, fn func(T), opts ...Option) *Subscription {
	b.seq++
	h := &handler{
		id:     b.seq,
		typ:    reflect.TypeFor[T](),
		fn:     fn,
		active: true,
	}
	for _, o := range opts {
		o(h)
	}
	list := append(b.handlers[h.typ], h)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority > list[j].priority
		}
		return list[i].id < list[j].id
	})
	b.handlers[h.typ] = list
	return &Subscription{bus: b, h: h}
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
//
// Postcondition: the handler is never invoked again, including for the
// remainder of a dispatch that is currently in flight.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.h.active {
		return
	}
	s.h.active = false
	list := s.bus.handlers[s.h.typ]
	for i, h := range list {
		if h == s.h {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.bus.handlers, s.h.typ)
		return
	}
	s.bus.handlers[s.h.typ] = list
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool { return s != nil && s.h.active }

// Publish delivers ev to every handler subscribed to T, synchronously, in
// priority order. A handler may publish further events; those nested
// dispatches complete before the outer dispatch resumes.
//
// Postcondition: publishing with no subscribers is a no-op.
func Publish[T any](b *Bus, ev T) {
	list := b.handlers[reflect.TypeFor[T]()]
	if len(list) == 0 {
		return
	}
	if b.depth >= MaxDepth {
		b.logger.Error("eventbus: publish depth exceeded; event dropped",
			zap.String("event", reflect.TypeFor[T]().String()),
			zap.Int("depth", b.depth),
		)
		return
	}
	snapshot := make([]*handler, len(list))
	copy(snapshot, list)

	b.depth++
	defer func() { b.depth-- }()
	for _, h := range snapshot {
		if !h.active {
			continue
		}
		h.fn.(func(T))(ev)
	}
}

// SubscriberCount returns the number of live handlers for T.
func SubscriberCount[T any](b *Bus) int {
	return len(b.handlers[reflect.TypeFor[T]()])
}

// Depth returns the current nesting depth of Publish calls; 0 outside a dispatch.
func (b *Bus) Depth() int { return b.depth }
