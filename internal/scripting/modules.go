package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

// RegisterModules registers the engine.log, engine.dice, engine.attack and
// engine.battle tables into L. Outside a hook call every function that needs
// battle state is a no-op returning nil.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "PLAYER", lua.LString(events.Player))
	L.SetField(engine, "ENEMY", lua.LString(events.Enemy))
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "attack", m.attackModule(L))
	L.SetField(engine, "battle", m.battleModule(L))
	L.SetGlobal("engine", engine)
}

func funcs(L *lua.LState, fns map[string]lua.LGFunction) *lua.LTable {
	t := L.NewTable()
	for name, fn := range fns {
		L.SetField(t, name, L.NewFunction(fn))
	}
	return t
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	level := func(log func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			fields := []zap.Field{zap.String("source", "lua")}
			if m.cur != nil && m.cur.Attack != nil {
				fields = append(fields, zap.String("attack", string(m.cur.Attack.Def.ID)))
			}
			log(L.CheckString(1), fields...)
			return 0
		}
	}
	return funcs(L, map[string]lua.LGFunction{
		"debug": level(m.logger.Debug),
		"info":  level(m.logger.Info),
		"warn":  level(m.logger.Warn),
		"error": level(m.logger.Error),
	})
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	return funcs(L, map[string]lua.LGFunction{
		// roll(expr) -> {total, dice, modifier}
		"roll": func(L *lua.LState) int {
			b := m.battle()
			if b == nil || b.RNG == nil {
				L.Push(lua.LNil)
				return 1
			}
			res, err := b.RNG.RollExpr(L.CheckString(1))
			if err != nil {
				L.RaiseError("engine.dice.roll: %s", err.Error())
				return 0
			}
			sum := 0
			for _, d := range res.Dice {
				sum += d
			}
			t := L.NewTable()
			L.SetField(t, "total", lua.LNumber(res.Total()))
			L.SetField(t, "dice", lua.LNumber(sum))
			L.SetField(t, "modifier", lua.LNumber(res.Modifier))
			L.Push(t)
			return 1
		},
		// random(n) -> integer in [0, n)
		"random": func(L *lua.LState) int {
			b := m.battle()
			n := L.CheckInt(1)
			if b == nil || b.RNG == nil || n <= 0 {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(b.RNG.Draw(m.label("random"), n)))
			return 1
		},
	})
}

func (m *Manager) attackModule(L *lua.LState) *lua.LTable {
	return funcs(L, map[string]lua.LGFunction{
		"id": func(L *lua.LState) int {
			a := m.attack()
			if a == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(a.Def.ID))
			return 1
		},
		// value(i) -> the i-th bracketed text value (0-based), or nil.
		"value": func(L *lua.LState) int {
			a := m.attack()
			if a == nil {
				L.Push(lua.LNil)
				return 1
			}
			v, ok := m.cur.Battle.Value(a, L.CheckInt(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(v))
			return 1
		},
		"damage": func(L *lua.LState) int {
			a := m.attack()
			if a == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(a.Damage))
			return 1
		},
		"set_damage": func(L *lua.LState) int {
			if a := m.attack(); a != nil {
				a.Damage = max(0, L.CheckInt(1))
			}
			return 0
		},
		// blocks() -> number of non-equipment blocking cards so far.
		"blocks": func(L *lua.LState) int {
			a := m.attack()
			if a == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(a.Blocks().NonEquipmentCount()))
			return 1
		},
		"card_color": func(L *lua.LState) int {
			c := m.card()
			if c == nil || c.Color == "" {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(c.Color))
			return 1
		},
		"card_block": func(L *lua.LState) int {
			c := m.card()
			if c == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(c.Block))
			return 1
		},
		"corrode_card": func(L *lua.LState) int {
			if c := m.card(); c != nil {
				L.Push(lua.LNumber(c.Corrode(L.CheckInt(1))))
				return 1
			}
			L.Push(lua.LNil)
			return 1
		},
	})
}

func (m *Manager) battleModule(L *lua.LState) *lua.LTable {
	count := func(do func(b *combat.Battle, n int)) lua.LGFunction {
		return func(L *lua.LState) int {
			if b := m.battle(); b != nil {
				do(b, L.CheckInt(1))
			}
			return 0
		}
	}
	tracked := func(read func(b *combat.Battle, name string) int) lua.LGFunction {
		return func(L *lua.LState) int {
			b := m.battle()
			if b == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(read(b, L.CheckString(1))))
			return 1
		}
	}
	return funcs(L, map[string]lua.LGFunction{
		"turn": func(L *lua.LState) int {
			b := m.battle()
			if b == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(b.Turn))
			return 1
		},
		// turn_count(name) and battle_count(name) read the battle's event
		// counters, e.g. "card_blocked" or "pledge_added".
		"turn_count":   tracked(func(b *combat.Battle, name string) int { return b.TurnCount(name) }),
		"battle_count": tracked(func(b *combat.Battle, name string) int { return b.BattleCount(name) }),
		// apply_passive(role, type, delta)
		"apply_passive": func(L *lua.LState) int {
			if b := m.battle(); b != nil {
				b.ApplyPassive(m.role(L.CheckString(1)), passive.Type(L.CheckString(2)), L.CheckInt(3))
			}
			return 0
		},
		// stacks(role, type) -> int
		"stacks": func(L *lua.LState) int {
			b := m.battle()
			if b == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(b.Stacks(m.role(L.CheckString(1)), passive.Type(L.CheckString(2)))))
			return 1
		},
		// damage(role, amount) deals self-inflicted or extra damage from the attacker.
		"damage": func(L *lua.LState) int {
			b := m.battle()
			if b == nil {
				return 0
			}
			target := m.role(L.CheckString(1))
			kind := events.DamageAttack
			source := ""
			if a := m.attack(); a != nil {
				source = a.Source
				if target == a.Source {
					kind = events.DamageSelf
				}
			}
			b.Damage(source, target, L.CheckInt(2), kind)
			return 0
		},
		"heal": func(L *lua.LState) int {
			if b := m.battle(); b != nil {
				b.Heal(m.role(L.CheckString(1)), L.CheckInt(2))
			}
			return 0
		},
		"hp": func(L *lua.LState) int {
			b := m.battle()
			if b == nil {
				L.Push(lua.LNil)
				return 1
			}
			e := b.Entity(m.role(L.CheckString(1)))
			if e == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(e.CurrentHP))
			return 1
		},
		"freeze":      count(func(b *combat.Battle, n int) { b.Freeze(n, events.SelectRandom) }),
		"seal":        count(func(b *combat.Battle, n int) { b.Seal(n, events.SelectHighestBlock) }),
		"intimidate":  count(func(b *combat.Battle, n int) { b.Intimidate(n) }),
		"seal_cracks": count(func(b *combat.Battle, n int) { b.ModifySealCracks(n) }),
		"has_flag": func(L *lua.LState) int {
			b := m.battle()
			L.Push(lua.LBool(b != nil && b.HasFlag(L.CheckString(1))))
			return 1
		},
		"set_flag": func(L *lua.LState) int {
			if b := m.battle(); b != nil {
				b.SetFlag(L.CheckString(1))
			}
			return 0
		},
	})
}

func (m *Manager) battle() *combat.Battle {
	if m.cur == nil {
		return nil
	}
	return m.cur.Battle
}

func (m *Manager) attack() *combat.Attack {
	if m.cur == nil || m.cur.Battle == nil {
		return nil
	}
	return m.cur.Attack
}

func (m *Manager) card() *combat.Card {
	if m.cur == nil {
		return nil
	}
	return m.cur.Card
}

// role resolves "self" and "target" against the current attack; any other
// name is used as given.
func (m *Manager) role(name string) string {
	a := m.attack()
	switch {
	case a != nil && name == "self":
		return a.Source
	case a != nil && name == "target":
		return a.Target
	}
	return name
}

func (m *Manager) label(what string) string {
	if a := m.attack(); a != nil {
		return "script:" + string(a.Def.ID) + ":" + what
	}
	return "script:" + what
}
