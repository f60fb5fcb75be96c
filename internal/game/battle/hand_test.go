package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/cardbattle/internal/game/battle"
	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

func newHand(t *testing.T, deck []*combat.Card, size int) (*battle.Hand, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.New(zap.NewNop())
	h := battle.NewHand(deck, size, dice.NewSeededSource(5), zap.NewNop())
	h.Attach(eventbus.NewScope(bus))
	return h, bus
}

func TestStarterDeck(t *testing.T) {
	deck := battle.StarterDeck()
	require.Len(t, deck, 12)
	ids := map[string]bool{}
	equipment := 0
	for _, c := range deck {
		ids[c.ID] = true
		if c.Equipment {
			equipment++
		}
	}
	assert.Len(t, ids, 12)
	assert.Equal(t, 2, equipment)
}

func TestHand_DrawAndIntimidate(t *testing.T) {
	h, bus := newHand(t, battle.StarterDeck(), 5)
	assert.Equal(t, 5, h.Draw())

	eventbus.Publish(bus, events.Intimidate{Amount: 2})
	assert.Equal(t, 3, h.Draw())
	assert.Equal(t, 5, h.Draw(), "intimidation lasts one draw")

	eventbus.Publish(bus, events.Intimidate{Amount: 9})
	assert.Equal(t, 1, h.Draw())
}

func TestHand_FreezeHighestBlockThawsOnDraw(t *testing.T) {
	h, bus := newHand(t, plainCards(1, 3, 2), 3)
	h.Draw()

	eventbus.Publish(bus, events.FreezeCards{Amount: 1, Type: events.SelectHighestBlock})
	var frozen []*combat.Card
	for _, c := range h.Cards() {
		if c.Frozen {
			frozen = append(frozen, c)
		}
	}
	require.Len(t, frozen, 1)
	assert.Equal(t, 3, frozen[0].Block)

	h.Draw()
	for _, c := range h.Cards() {
		assert.False(t, c.Frozen)
	}
}

func TestHand_FreezeLeftmost(t *testing.T) {
	h, bus := newHand(t, plainCards(1, 3, 2), 3)
	h.Draw()
	eventbus.Publish(bus, events.FreezeCards{Amount: 2, Type: events.SelectLeftmost})
	cards := h.Cards()
	assert.True(t, cards[0].Frozen)
	assert.True(t, cards[1].Frozen)
	assert.False(t, cards[2].Frozen)
}

func TestHand_SealCracksReleaseSeals(t *testing.T) {
	h, bus := newHand(t, plainCards(1, 2, 3, 4), 4)
	h.Draw()
	eventbus.Publish(bus, events.SealCards{Amount: 2, Type: events.SelectRandom})
	sealed := func() int {
		n := 0
		for _, c := range h.Cards() {
			if c.Sealed {
				n++
			}
		}
		return n
	}
	require.Equal(t, 2, sealed())

	eventbus.Publish(bus, events.ModifySealCracks{Delta: 2})
	assert.Equal(t, 2, sealed())
	assert.Equal(t, 2, h.SealCracks())

	eventbus.Publish(bus, events.ModifySealCracks{Delta: 1})
	assert.Equal(t, 0, sealed())
	assert.Equal(t, 0, h.SealCracks())
}

func TestHand_SealBreakReachesDiscardPile(t *testing.T) {
	h, bus := newHand(t, plainCards(1, 2, 3, 4), 2)
	h.Draw()
	eventbus.Publish(bus, events.SealCards{Amount: 2, Type: events.SelectHighestBlock})
	sealed := append([]*combat.Card(nil), h.Cards()...)
	for _, c := range sealed {
		require.True(t, c.Sealed)
	}
	h.Draw()
	for _, c := range sealed {
		assert.NotContains(t, h.Cards(), c)
	}

	eventbus.Publish(bus, events.ModifySealCracks{Delta: battle.SealBreakCracks})
	for _, c := range sealed {
		assert.False(t, c.Sealed, c.ID)
	}
}

func TestHand_SealSkipsEquipment(t *testing.T) {
	deck := []*combat.Card{{ID: "helm", Block: 5, Equipment: true}, {ID: "a", Block: 1, Color: combat.Red}}
	h, bus := newHand(t, deck, 2)
	h.Draw()
	eventbus.Publish(bus, events.SealCards{Amount: 2, Type: events.SelectHighestBlock})
	for _, c := range h.Cards() {
		assert.Equal(t, !c.Equipment, c.Sealed, c.ID)
	}
}

func TestHand_ExhaustedCardsLeavePlay(t *testing.T) {
	deck := plainCards(1, 2, 3)
	h, bus := newHand(t, deck, 3)
	h.Draw()
	gone := h.Cards()[0].ID
	eventbus.Publish(bus, events.CardsExhausted{CardIDs: []string{gone}})

	assert.Len(t, h.Cards(), 2)
	require.Len(t, h.Exhausted(), 1)
	assert.Equal(t, gone, h.Exhausted()[0].ID)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 2, h.Draw())
		for _, c := range h.Cards() {
			assert.NotEqual(t, gone, c.ID)
		}
	}
}

func TestPropertyHand_DrawNeverDuplicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(1, 8).Draw(t, "size")
		draws := rapid.IntRange(1, 10).Draw(t, "draws")
		seed := rapid.Uint64().Draw(t, "seed")
		h := battle.NewHand(battle.StarterDeck(), size, dice.NewSeededSource(seed), zap.NewNop())
		for i := 0; i < draws; i++ {
			n := h.Draw()
			assert.Equal(t, min(size, 12), n)
			seen := map[string]bool{}
			for _, c := range h.Cards() {
				assert.False(t, seen[c.ID])
				seen[c.ID] = true
			}
		}
	})
}
