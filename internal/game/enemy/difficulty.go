package enemy

import (
	"fmt"
	"strings"
)

// Difficulty is the tier an encounter is played at.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
	Nightmare
)

var difficultyNames = [...]string{"easy", "normal", "hard", "nightmare"}

func (d Difficulty) String() string {
	if d < Easy || d > Nightmare {
		return "unknown"
	}
	return difficultyNames[d]
}

// ParseDifficulty maps a case-insensitive name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if strings.EqualFold(s, name) {
			return Difficulty(i), nil
		}
	}
	return Easy, fmt.Errorf("enemy: unknown difficulty %q", s)
}

// DamageBonus is added to every attack an enemy performs at d.
//
// Postcondition: Returns 0 for Easy through 3 for Nightmare.
func (d Difficulty) DamageBonus() int {
	if d < Easy {
		return 0
	}
	if d > Nightmare {
		return int(Nightmare)
	}
	return int(d)
}

// Health is a max-health value per difficulty.
type Health struct {
	Easy      int `yaml:"easy"`
	Normal    int `yaml:"normal"`
	Hard      int `yaml:"hard"`
	Nightmare int `yaml:"nightmare"`
}

// For returns the max health at d.
func (h Health) For(d Difficulty) int {
	switch d {
	case Normal:
		return h.Normal
	case Hard:
		return h.Hard
	case Nightmare:
		return h.Nightmare
	}
	return h.Easy
}

// Validate requires every tier to be positive.
func (h Health) Validate() error {
	for d := Easy; d <= Nightmare; d++ {
		if h.For(d) < 1 {
			return fmt.Errorf("health at %s must be >= 1", d)
		}
	}
	return nil
}
