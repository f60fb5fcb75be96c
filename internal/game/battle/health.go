package battle

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

// HealthSystem applies ModifyHPRequest events to combatants and announces
// deaths.
type HealthSystem struct {
	bus      *eventbus.Bus
	entities combat.Entities
	logger   *zap.Logger
}

// NewHealthSystem subscribes a HealthSystem on s.
//
// Precondition: s, entities and logger must be non-nil.
func NewHealthSystem(s *eventbus.Scope, entities combat.Entities, logger *zap.Logger) *HealthSystem {
	h := &HealthSystem{bus: s.Bus(), entities: entities, logger: logger}
	eventbus.On(s, h.handle)
	return h
}

func (h *HealthSystem) handle(e events.ModifyHPRequest) {
	target := h.entities.Entity(e.Target)
	if target == nil {
		h.logger.Debug("hp request for missing entity ignored", zap.String("target", e.Target))
		return
	}
	if target.IsDead() {
		return
	}
	if e.Delta >= 0 {
		healed := target.Heal(e.Delta)
		h.logger.Debug("healed", zap.String("target", e.Target), zap.Int("amount", healed), zap.Int("hp", target.CurrentHP))
		return
	}
	lost := target.ApplyDamage(-e.Delta)
	h.logger.Debug("damaged",
		zap.String("source", e.Source),
		zap.String("target", e.Target),
		zap.String("type", e.DamageType.String()),
		zap.Int("amount", lost),
		zap.Int("hp", target.CurrentHP),
	)
	if target.IsDead() {
		eventbus.Publish(h.bus, events.EntityDied{ID: e.Target})
	}
}
