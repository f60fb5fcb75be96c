package battle

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardbattle/internal/game/enemy"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

// Engine manages every live Session, keyed by session ID.
// All methods are safe for concurrent use. A Session itself is not; callers
// must use Do to act on one.
type Engine struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	enemies  *enemy.Registry
	passives *passive.Registry
	logger   *zap.Logger
}

type entry struct {
	mu sync.Mutex
	s  *Session
}

// NewEngine creates an Engine spawning enemies from enemies.
//
// Precondition: enemies, passives and logger must be non-nil.
func NewEngine(enemies *enemy.Registry, passives *passive.Registry, logger *zap.Logger) *Engine {
	return &Engine{
		sessions: make(map[string]*entry),
		enemies:  enemies,
		passives: passives,
		logger:   logger,
	}
}

// Open creates a session and registers it.
//
// Postcondition: returns the new session ID, or an error from NewSession.
func (e *Engine) Open(opts Options) (string, error) {
	s, err := NewSession(opts, e.enemies, e.passives, e.logger)
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions[s.ID] = &entry{s: s}
	return s.ID, nil
}

// Do runs fn with exclusive access to the session id.
//
// Postcondition: returns an error if id is unknown, otherwise fn's error.
func (e *Engine) Do(id string, fn func(*Session) error) error {
	e.mu.RLock()
	en, ok := e.sessions[id]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("battle %q not found", id)
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return fn(en.s)
}

// End closes and removes the session id. Unknown ids are ignored.
func (e *Engine) End(id string) {
	e.mu.Lock()
	en, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()
	if !ok {
		return
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	en.s.Close()
}

// IDs returns every live session ID, sorted.
func (e *Engine) IDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of live sessions.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}
