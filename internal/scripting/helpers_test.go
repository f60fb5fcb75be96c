package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/eventbus"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
	"github.com/cory-johannsen/cardbattle/internal/scripting"
)

func newTestManager(t testing.TB, limit int) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	m := scripting.NewManager(limit, zap.New(core))
	t.Cleanup(m.Close)
	return m, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0o644))
	return dir
}

func loadScript(t testing.TB, m *scripting.Manager, src string) {
	t.Helper()
	require.NoError(t, m.Load(writeTempLua(t, "test.lua", src)))
}

type world struct {
	player, foe *combat.Combatant
	hand        []*combat.Card
	flags       map[string]bool
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
func (w *world) Has(f string) bool    { return w.flags[f] }
func (w *world) Set(f string)         { w.flags[f] = true }

type tally struct {
	turn   map[string]int
	battle map[string]int
}

func (t *tally) TurnCount(name string) int   { return t.turn[name] }
func (t *tally) BattleCount(name string) int { return t.battle[name] }

type harness struct {
	battle   *combat.Battle
	passives *passive.Service
	world    *world
	track    *tally
	hp       []events.ModifyHPRequest
	frozen   int
	sealed   int
	intim    int
	cracks   int
}

func newHarness(t testing.TB, seed uint64) *harness {
	t.Helper()
	logger := zap.NewNop()
	bus := eventbus.New(logger)
	svc := passive.NewService(passive.DefaultRegistry(), logger)
	w := &world{
		player: &combat.Combatant{Role: events.Player, MaxHP: 30, CurrentHP: 30},
		foe:    &combat.Combatant{Role: events.Enemy, MaxHP: 30, CurrentHP: 20},
		flags:  map[string]bool{},
	}
	h := &harness{passives: svc, world: w, track: &tally{turn: map[string]int{}, battle: map[string]int{}}}
	eventbus.Subscribe(bus, func(e events.ApplyPassive) { svc.Apply(e.Target, e.Type, e.Delta) })
	eventbus.Subscribe(bus, func(e events.ModifyHPRequest) { h.hp = append(h.hp, e) })
	eventbus.Subscribe(bus, func(e events.FreezeCards) { h.frozen += e.Amount })
	eventbus.Subscribe(bus, func(e events.SealCards) { h.sealed += e.Amount })
	eventbus.Subscribe(bus, func(e events.Intimidate) { h.intim += e.Amount })
	eventbus.Subscribe(bus, func(e events.ModifySealCracks) { h.cracks += e.Delta })
	h.battle = &combat.Battle{
		ID:       "b",
		Turn:     2,
		Bus:      bus,
		Passives: svc,
		RNG:      dice.NewRoller(dice.NewSeededSource(seed), logger),
		Entities: w,
		Tracker:  h.track,
		Flags:    w,
		Logger:   logger,
	}
	return h
}
