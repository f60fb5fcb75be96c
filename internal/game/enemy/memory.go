package enemy

import "github.com/cory-johannsen/cardbattle/internal/game/combat"

// Memory is per-enemy state that survives across turns for one battle:
// named counters and the history of selected attacks.
type Memory struct {
	counters map[string]int
	history  [][]combat.AttackID
}

// NewMemory returns empty Memory.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int)}
}

// Count returns counter key.
func (m *Memory) Count(key string) int { return m.counters[key] }

// Incr increments counter key and returns the new value.
func (m *Memory) Incr(key string) int {
	m.counters[key]++
	return m.counters[key]
}

// Reset zeroes counter key.
func (m *Memory) Reset(key string) { delete(m.counters, key) }

// Record appends one turn's selection to the history.
func (m *Memory) Record(ids []combat.AttackID) {
	cp := make([]combat.AttackID, len(ids))
	copy(cp, ids)
	m.history = append(m.history, cp)
}

// Turns returns the number of recorded turns.
func (m *Memory) Turns() int { return len(m.history) }

// Last returns the most recent selection, or nil.
func (m *Memory) Last() []combat.AttackID {
	if len(m.history) == 0 {
		return nil
	}
	return m.history[len(m.history)-1]
}

// Streak returns how many of the most recent consecutive turns selected id.
func (m *Memory) Streak(id combat.AttackID) int {
	n := 0
	for i := len(m.history) - 1; i >= 0; i-- {
		if !containsID(m.history[i], id) {
			break
		}
		n++
	}
	return n
}

// TurnsSince returns how many turns ago id was last selected, or -1 if never.
func (m *Memory) TurnsSince(id combat.AttackID) int {
	for i := len(m.history) - 1; i >= 0; i-- {
		if containsID(m.history[i], id) {
			return len(m.history) - 1 - i
		}
	}
	return -1
}

func containsID(ids []combat.AttackID, id combat.AttackID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
