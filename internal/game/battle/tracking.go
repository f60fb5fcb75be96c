package battle

import (
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

// Tracked event names.
const (
	TrackAttackRevealed   = combat.TrackAttackRevealed
	TrackCardBlocked      = combat.TrackCardBlocked
	TrackPledgeAdded      = combat.TrackPledgeAdded
	TrackPassiveTriggered = combat.TrackPassiveTriggered
	TrackDamageTaken      = combat.TrackDamageTaken
	TrackCardsExhausted   = combat.TrackCardsExhausted
)

// Tracking counts named events this turn and this battle. It implements
// combat.Tracker.
type Tracking struct {
	turn   map[string]int
	battle map[string]int
}

var _ combat.Tracker = (*Tracking)(nil)

// NewTracking returns empty counters.
func NewTracking() *Tracking {
	return &Tracking{turn: make(map[string]int), battle: make(map[string]int)}
}

// Record counts one occurrence of name.
func (t *Tracking) Record(name string) {
	t.turn[name]++
	t.battle[name]++
}

// NewTurn clears the per-turn counters.
func (t *Tracking) NewTurn() {
	t.turn = make(map[string]int)
}

// TurnCount returns occurrences of name this turn.
func (t *Tracking) TurnCount(name string) int { return t.turn[name] }

// BattleCount returns occurrences of name this battle.
func (t *Tracking) BattleCount(name string) int { return t.battle[name] }

// Attach subscribes the counters to the events they track.
func (t *Tracking) Attach(s *eventbus.Scope) {
	eventbus.On(s, func(events.AttackRevealed) { t.Record(TrackAttackRevealed) })
	eventbus.On(s, func(events.CardBlocked) { t.Record(TrackCardBlocked) })
	eventbus.On(s, func(events.PledgeAdded) { t.Record(TrackPledgeAdded) })
	eventbus.On(s, func(events.PassiveTriggered) { t.Record(TrackPassiveTriggered) })
	eventbus.On(s, func(events.CardsExhausted) { t.Record(TrackCardsExhausted) })
	eventbus.On(s, func(e events.ModifyHPRequest) {
		if e.Target == events.Player && e.Delta < 0 {
			t.Record(TrackDamageTaken)
		}
	})
}
