package battle

import (
	"sort"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

// Blocker chooses which cards block a revealed attack.
type Blocker interface {
	Block(a *combat.Attack, available []*combat.Card) []*combat.Card
}

// NoBlocker never blocks.
type NoBlocker struct{}

func (NoBlocker) Block(*combat.Attack, []*combat.Card) []*combat.Card { return nil }

// Advisor remembers the MustBeBlocked advisory of the attack being resolved.
type Advisor struct {
	current events.MustBeBlocked
	ok      bool
}

// NewAdvisor subscribes an Advisor on s.
func NewAdvisor(s *eventbus.Scope) *Advisor {
	a := &Advisor{}
	eventbus.On(s, func(e events.MustBeBlocked) { a.current, a.ok = e, true })
	eventbus.On(s, func(events.AttackResolved) { a.current, a.ok = events.MustBeBlocked{}, false })
	return a
}

// Current returns the advisory for the attack in flight.
func (a *Advisor) Current() (events.MustBeBlocked, bool) {
	if a == nil {
		return events.MustBeBlocked{}, false
	}
	return a.current, a.ok
}

// GreedyBlocker blocks with the highest-value cards until the attack's
// damage is covered, honoring any MustBeBlocked advisory.
type GreedyBlocker struct {
	Advisor *Advisor
}

func (g GreedyBlocker) Block(a *combat.Attack, available []*combat.Card) []*combat.Card {
	var cards []*combat.Card
	for _, c := range available {
		if c.CanBlock() {
			cards = append(cards, c)
		}
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Block > cards[j].Block })

	if adv, ok := g.Advisor.Current(); ok {
		var plain []*combat.Card
		for _, c := range cards {
			if !c.Equipment {
				plain = append(plain, c)
			}
		}
		if len(plain) >= adv.Threshold {
			if adv.Type == events.Exactly {
				return plain[:adv.Threshold]
			}
			chosen := append([]*combat.Card(nil), plain[:adv.Threshold]...)
			return topUp(chosen, cards, a.Damage)
		}
	}
	if a.Damage <= 0 {
		return nil
	}
	return topUp(nil, cards, a.Damage)
}

// topUp adds cards from pool, in order, until chosen covers damage.
func topUp(chosen, pool []*combat.Card, damage int) []*combat.Card {
	in := make(map[*combat.Card]bool, len(chosen))
	total := 0
	for _, c := range chosen {
		in[c] = true
		total += c.Block
	}
	for _, c := range pool {
		if total >= damage {
			break
		}
		if in[c] {
			continue
		}
		chosen = append(chosen, c)
		total += c.Block
	}
	return chosen
}
