package battle

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

// SealBreakCracks is the number of seal cracks at which every sealed card is
// released.
const SealBreakCracks = 3

// Hand is the player's deck, hand and discard pile. It carries out the
// card-state requests attacks publish.
type Hand struct {
	draw       []*combat.Card
	hand       []*combat.Card
	discard    []*combat.Card
	exhausted  []*combat.Card
	size       int
	intimidate int
	cracks     int
	rng        dice.Source
	logger     *zap.Logger
}

// StarterDeck returns the default twelve-card deck: ten colored cards and two
// pieces of equipment.
func StarterDeck() []*combat.Card {
	var deck []*combat.Card
	for i := 0; i < 10; i++ {
		deck = append(deck, &combat.Card{
			ID:    uuid.NewString(),
			Name:  "Guard",
			Color: combat.Colors[i%len(combat.Colors)],
			Block: 1 + i%3,
		})
	}
	deck = append(deck,
		&combat.Card{ID: uuid.NewString(), Name: "Iron Helm", Block: 2, Equipment: true},
		&combat.Card{ID: uuid.NewString(), Name: "Tower Shield", Block: 3, Equipment: true},
	)
	return deck
}

// NewHand shuffles deck into a draw pile. Nothing is drawn until Draw.
//
// Precondition: size >= 1; rng and logger must be non-nil.
func NewHand(deck []*combat.Card, size int, rng dice.Source, logger *zap.Logger) *Hand {
	return &Hand{
		draw:   dice.TakeWithoutReplacement(rng, deck, len(deck)),
		size:   size,
		rng:    rng,
		logger: logger,
	}
}

// Attach subscribes the hand to card-state requests.
func (h *Hand) Attach(s *eventbus.Scope) {
	eventbus.On(s, func(e events.FreezeCards) {
		for _, c := range h.pick(e.Amount, e.Type, func(c *combat.Card) bool { return !c.Frozen }) {
			c.Frozen = true
		}
	})
	eventbus.On(s, func(e events.SealCards) {
		for _, c := range h.pick(e.Amount, e.Type, func(c *combat.Card) bool { return !c.Sealed && !c.Equipment }) {
			c.Sealed = true
		}
	})
	eventbus.On(s, func(e events.Intimidate) { h.intimidate += e.Amount })
	eventbus.On(s, func(e events.ModifySealCracks) { h.addCracks(e.Delta) })
	eventbus.On(s, func(e events.CardsExhausted) { h.exhaust(e.CardIDs) })
}

// Cards returns the cards in hand.
func (h *Hand) Cards() []*combat.Card { return h.hand }

// SealCracks returns the current seal crack count.
func (h *Hand) SealCracks() int { return h.cracks }

// Exhausted returns the cards removed from play this battle.
func (h *Hand) Exhausted() []*combat.Card { return h.exhausted }

// Draw discards the current hand and draws a new one, less any pending
// intimidation, never fewer than one card. Frozen cards thaw on discard.
//
// Postcondition: returns the number of cards drawn.
func (h *Hand) Draw() int {
	for _, c := range h.hand {
		c.Frozen = false
		c.CannotBlock = false
		h.discard = append(h.discard, c)
	}
	h.hand = nil
	n := max(1, h.size-h.intimidate)
	h.intimidate = 0
	for i := 0; i < n; i++ {
		if len(h.draw) == 0 {
			if len(h.discard) == 0 {
				break
			}
			h.draw = dice.TakeWithoutReplacement(h.rng, h.discard, len(h.discard))
			h.discard = nil
		}
		h.hand = append(h.hand, h.draw[0])
		h.draw = h.draw[1:]
	}
	return len(h.hand)
}

func (h *Hand) pick(n int, sel events.CardSelection, eligible func(*combat.Card) bool) []*combat.Card {
	var pool []*combat.Card
	for _, c := range h.hand {
		if eligible(c) {
			pool = append(pool, c)
		}
	}
	switch sel {
	case events.SelectHighestBlock:
		sort.SliceStable(pool, func(i, j int) bool { return pool[i].Block > pool[j].Block })
	case events.SelectRandom:
		pool = dice.TakeWithoutReplacement(h.rng, pool, len(pool))
	}
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

func (h *Hand) addCracks(delta int) {
	h.cracks = max(0, h.cracks+delta)
	if h.cracks < SealBreakCracks {
		return
	}
	released := 0
	for _, pile := range [][]*combat.Card{h.hand, h.draw, h.discard} {
		for _, c := range pile {
			if c.Sealed {
				c.Sealed = false
				released++
			}
		}
	}
	h.logger.Debug("seals broken", zap.Int("released", released))
	h.cracks = 0
}

func (h *Hand) exhaust(ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := h.hand[:0]
	for _, c := range h.hand {
		if drop[c.ID] {
			h.exhausted = append(h.exhausted, c)
			continue
		}
		kept = append(kept, c)
	}
	h.hand = kept
}
