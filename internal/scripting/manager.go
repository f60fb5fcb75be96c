package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
)

// Call is the battle state a hook runs against. Card is set only for
// block_processed hooks.
type Call struct {
	Battle *combat.Battle
	Attack *combat.Attack
	Card   *combat.Card
}

// Manager owns the sandboxed VM that every attack script is loaded into and
// dispatches hooks to it.
//
// Manager is safe for concurrent use: hook calls are serialized on the one
// VM. A hook must not trigger another scripted hook while it runs.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	cur    *Call
	logger *zap.Logger
}

// NewManager creates a Manager with an empty VM.
//
// Precondition: logger must be non-nil; instLimit 0 uses DefaultInstructionLimit.
// Postcondition: the engine.* module is registered.
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	m := &Manager{
		L:      NewSandboxedState(instLimit),
		limit:  instLimit,
		logger: logger,
	}
	m.RegisterModules(m.L)
	return m
}

// Load executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: returns an error naming the first file that fails to load;
// files before it stay loaded.
func (m *Manager) Load(scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range luaFiles {
		release := limitCall(m.L, m.limit)
		err := m.L.DoFile(path)
		release()
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
		m.logger.Debug("script loaded", zap.String("path", path))
	}
	return nil
}

// HasFunction reports whether name is a global Lua function.
func (m *Manager) HasFunction(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.L.GetGlobal(name).(*lua.LFunction)
	return ok
}

// CallHook calls the global Lua function hook with c as the engine.* context.
// Returns LNil if the hook is not defined. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and never
// propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, c Call, args ...lua.LValue) lua.LValue {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn := m.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}
	m.cur = &c
	defer func() { m.cur = nil }()
	release := limitCall(m.L, m.limit)
	defer release()

	if err := m.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		fields := []zap.Field{zap.String("hook", hook), zap.Error(err)}
		if c.Attack != nil {
			fields = append(fields, zap.String("attack", string(c.Attack.Def.ID)))
		}
		m.logger.Warn("scripting: Lua runtime error", fields...)
		return lua.LNil
	}
	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L.Close()
}
