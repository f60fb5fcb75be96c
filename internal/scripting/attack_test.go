package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/enemy"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
	"github.com/cory-johannsen/cardbattle/internal/scripting"
)

const venomSpit = `
id: venom_spit
name: Venom Spit
damage: 3
condition: on_hit
text: "On hit: apply [2] poison."
hooks:
  hit: venom_spit_hit
`

const mireGrip = `
id: mire_grip
name: Mire Grip
damage_roll: 1d4+2
condition: on_blocked_by_at_least_n
condition_n: 2
text: "If blocked by fewer than 2 cards, apply [1] shackled. Each blocking green card is corroded by [1]."
hooks:
  block_processed: mire_grip_block
  hit: mire_grip_hit
`

const swampScript = `
function venom_spit_hit()
	engine.battle.apply_passive("target", "poison", engine.attack.value(0))
end

function mire_grip_block()
	if engine.attack.card_color() == "green" then
		engine.attack.corrode_card(engine.attack.value(1))
	end
end

function mire_grip_hit()
	engine.battle.apply_passive("target", "shackled", engine.attack.value(0))
end
`

func TestLoadAttackDefs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_mire_grip.yaml"), []byte(mireGrip), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_venom_spit.yaml"), []byte(venomSpit), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("skip"), 0o644))
	defs, err := scripting.LoadAttackDefs(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "venom_spit", defs[0].ID)
	assert.Equal(t, "mire_grip_block", defs[1].Hooks.BlockProcessed)
	assert.Equal(t, 2, defs[1].ConditionN)
}

func TestAttackDef_Validate(t *testing.T) {
	for name, src := range map[string]string{
		"unknown field":     "id: x\nname: X\nspeed: 1\n",
		"missing id":        "name: X\n",
		"missing name":      "id: x\n",
		"negative damage":   "id: x\nname: X\ndamage: -1\n",
		"bad roll":          "id: x\nname: X\ndamage_roll: many\n",
		"unknown condition": "id: x\nname: X\ncondition: sometimes\n",
		"missing n":         "id: x\nname: X\ncondition: must_be_blocked_by_exactly_n\n",
	} {
		_, err := scripting.LoadAttackDefFromBytes([]byte(src))
		assert.Error(t, err, name)
	}
}

func compile(t *testing.T, m *scripting.Manager, src string) *combat.Definition {
	t.Helper()
	def, err := scripting.LoadAttackDefFromBytes([]byte(src))
	require.NoError(t, err)
	cd, err := m.Definition(def)
	require.NoError(t, err)
	return cd
}

func TestDefinition_MissingHookFunction(t *testing.T) {
	m, _ := newTestManager(t, 0)
	def, err := scripting.LoadAttackDefFromBytes([]byte(venomSpit))
	require.NoError(t, err)
	_, err = m.Definition(def)
	assert.ErrorContains(t, err, "venom_spit_hit")
}

func TestScriptedAttack_HitHook(t *testing.T) {
	m, _ := newTestManager(t, 0)
	loadScript(t, m, swampScript)
	h := newHarness(t, 1)
	a := combat.NewAttack(compile(t, m, venomSpit), 0)

	res, err := a.Run(h.battle)
	require.NoError(t, err)
	assert.True(t, res.HitFired)
	assert.Equal(t, 3, res.Progress.ActualDamage)
	assert.Equal(t, 2, h.passives.Query(events.Player, passive.Poison))
}

func TestScriptedAttack_BlockedNoHit(t *testing.T) {
	m, _ := newTestManager(t, 0)
	loadScript(t, m, swampScript)
	h := newHarness(t, 1)
	a := combat.NewAttack(compile(t, m, venomSpit), 0)

	res, err := a.Run(h.battle, &combat.Card{ID: "c", Color: combat.Red, Block: 5})
	require.NoError(t, err)
	assert.False(t, res.HitFired)
	assert.Zero(t, h.passives.Query(events.Player, passive.Poison))
}

func TestScriptedAttack_DamageRollAndBlockHook(t *testing.T) {
	m, _ := newTestManager(t, 0)
	loadScript(t, m, swampScript)
	h := newHarness(t, 1)
	a := combat.NewAttack(compile(t, m, mireGrip), 1)

	green := &combat.Card{ID: "g", Color: combat.Green, Block: 1}
	res, err := a.Run(h.battle, green)
	require.NoError(t, err)
	// 1d4+2 plus the bonus of 1.
	assert.GreaterOrEqual(t, a.Damage, 4)
	assert.LessOrEqual(t, a.Damage, 7)
	assert.Zero(t, green.Block)
	assert.True(t, res.Verdict.Met)
	assert.True(t, res.HitFired)
	assert.Equal(t, 1, h.passives.Query(events.Player, passive.Shackled))
}

func TestScriptedAttack_DamageRollReproducible(t *testing.T) {
	m, _ := newTestManager(t, 0)
	loadScript(t, m, swampScript)
	def := compile(t, m, mireGrip)
	roll := func() []int {
		h := newHarness(t, 42)
		var out []int
		for i := 0; i < 10; i++ {
			a := combat.NewAttack(def, 0)
			require.NoError(t, a.Reveal(h.battle))
			out = append(out, a.Damage)
		}
		return out
	}
	assert.Equal(t, roll(), roll())
}

func TestScriptedAttack_HookErrorDoesNotStopResolution(t *testing.T) {
	m, logs := newTestManager(t, 0)
	loadScript(t, m, `function venom_spit_hit() error("broken") end`)
	h := newHarness(t, 1)
	a := combat.NewAttack(compile(t, m, venomSpit), 0)
	res, err := a.Run(h.battle)
	require.NoError(t, err)
	assert.Equal(t, combat.Resolved, a.Stage())
	assert.True(t, res.HitFired)
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestRegisterAll_FeedsEnemyTemplates(t *testing.T) {
	m, _ := newTestManager(t, 0)
	loadScript(t, m, swampScript)
	var defs []*scripting.AttackDef
	for _, src := range []string{venomSpit, mireGrip} {
		d, err := scripting.LoadAttackDefFromBytes([]byte(src))
		require.NoError(t, err)
		defs = append(defs, d)
	}
	reg := enemy.NewRegistry(zap.NewNop())
	require.NoError(t, m.RegisterAll(reg, defs))
	_, ok := reg.Attack("mire_grip")
	assert.True(t, ok)

	tmpl, err := enemy.LoadTemplateFromBytes([]byte(`
kind: mire_thing
name: Mire Thing
health: {easy: 10, normal: 12, hard: 14, nightmare: 16}
bands:
  - below: 100
    attacks: [venom_spit, mire_grip]
`))
	require.NoError(t, err)
	assert.NoError(t, reg.RegisterTemplate(tmpl))
}
