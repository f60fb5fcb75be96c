package battle

import (
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

// bindPassives routes ApplyPassive requests into svc and republishes every
// stack change as PassiveChanged.
func bindPassives(s *eventbus.Scope, svc *passive.Service) {
	eventbus.On(s, func(e events.ApplyPassive) { svc.Apply(e.Target, e.Type, e.Delta) })
	bus := s.Bus()
	svc.OnChange(func(c passive.Change) {
		if s.Closed() {
			return
		}
		eventbus.Publish(bus, events.PassiveChanged{
			Owner:    c.Owner,
			Type:     c.Type,
			Previous: c.Previous,
			Current:  c.Current,
		})
	})
}

// tickPassives applies owner's damage-over-time passives, announcing each one
// before its damage.
func tickPassives(bus *eventbus.Bus, svc *passive.Service, owner string) int {
	total := 0
	for _, t := range svc.Tick(owner) {
		eventbus.Publish(bus, events.PassiveTriggered{Owner: owner, Type: t.Type})
		eventbus.Publish(bus, events.ModifyHPRequest{
			Target:     owner,
			Delta:      -t.Damage,
			DamageType: events.DamagePassive,
		})
		total += t.Damage
	}
	return total
}
