package enemy_test

import (
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/enemy"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
	"github.com/cory-johannsen/cardbattle/internal/game/trigger"
)

type world struct {
	player *combat.Combatant
	foe    *combat.Combatant
	hand   []*combat.Card
	flags  map[string]bool
}

func (w *world) Entity(role string) *combat.Combatant {
	switch role {
	case events.Player:
		return w.player
	case events.Enemy:
		return w.foe
	}
	return nil
}

func (w *world) Hand() []*combat.Card { return w.hand }

func (w *world) Has(flag string) bool { return w.flags[flag] }
func (w *world) Set(flag string)      { w.flags[flag] = true }

type tally struct {
	turn   map[string]int
	battle map[string]int
}

func (t *tally) TurnCount(name string) int   { return t.turn[name] }
func (t *tally) BattleCount(name string) int { return t.battle[name] }

type fixture struct {
	t        *testing.T
	battle   *combat.Battle
	passives *passive.Service
	world    *world
	track    *tally
	reg      *enemy.Registry
	hp       []events.ModifyHPRequest
	frozen   int
	intim    int
	cracks   int
	seals    []events.SealCards
	fired    []events.PassiveTriggered
}

func newFixture(t *testing.T, seed uint64) *fixture {
	t.Helper()
	logger := zap.NewNop()
	bus := eventbus.New(logger)
	svc := passive.NewService(passive.DefaultRegistry(), logger)
	w := &world{
		player: &combat.Combatant{ID: "p", Role: events.Player, Name: "Player", MaxHP: 50, CurrentHP: 50},
		flags:  map[string]bool{},
	}
	f := &fixture{
		t:        t,
		passives: svc,
		world:    w,
		track:    &tally{turn: map[string]int{}, battle: map[string]int{}},
		reg:      enemy.DefaultRegistry(logger),
	}
	eventbus.Subscribe(bus, func(e events.ApplyPassive) { svc.Apply(e.Target, e.Type, e.Delta) })
	eventbus.Subscribe(bus, func(e events.ModifyHPRequest) { f.hp = append(f.hp, e) })
	eventbus.Subscribe(bus, func(e events.FreezeCards) { f.frozen += e.Amount })
	eventbus.Subscribe(bus, func(e events.Intimidate) { f.intim += e.Amount })
	eventbus.Subscribe(bus, func(e events.ModifySealCracks) { f.cracks += e.Delta })
	eventbus.Subscribe(bus, func(e events.PassiveTriggered) { f.fired = append(f.fired, e) })
	eventbus.Subscribe(bus, func(e events.SealCards) {
		f.seals = append(f.seals, e)
		// Seal the highest-block unsealed cards.
		cards := append([]*combat.Card(nil), w.hand...)
		sort.SliceStable(cards, func(i, j int) bool { return cards[i].Block > cards[j].Block })
		n := e.Amount
		for _, c := range cards {
			if n == 0 {
				break
			}
			if !c.Sealed {
				c.Sealed = true
				n--
			}
		}
	})
	f.battle = &combat.Battle{
		ID:           "b",
		Turn:         1,
		Bus:          bus,
		Passives:     svc,
		Triggers:     trigger.NewQueue(logger),
		RNG:          dice.NewRoller(dice.NewSeededSource(seed), logger),
		Entities:     w,
		Tracker:      f.track,
		Flags:        w,
		Logger:       logger,
		StaggerDelay: 250 * time.Millisecond,
	}
	return f
}

func (f *fixture) spawn(kind enemy.Kind, d enemy.Difficulty) *enemy.Enemy {
	f.t.Helper()
	e, err := f.reg.Spawn(kind, d, f.battle)
	if err != nil {
		f.t.Fatalf("spawn %s: %v", kind, err)
	}
	f.world.foe = e.Combatant
	return e
}

func (f *fixture) attack(id combat.AttackID) *combat.Attack {
	f.t.Helper()
	def, ok := f.reg.Attack(id)
	if !ok {
		f.t.Fatalf("unknown attack %s", id)
	}
	return combat.NewAttack(def, 0)
}

func (f *fixture) damageTo(role string) int {
	total := 0
	for _, r := range f.hp {
		if r.Target == role && r.Delta < 0 {
			total -= r.Delta
		}
	}
	return total
}

func redCards(n, block int) []*combat.Card {
	out := make([]*combat.Card, n)
	for i := range out {
		out[i] = &combat.Card{ID: string(rune('a' + i)), Color: combat.Red, Block: block}
	}
	return out
}
