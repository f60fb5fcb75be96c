package combat

import (
	"fmt"

	"github.com/cory-johannsen/cardbattle/internal/game/events"
)

// ConditionType selects how an attack's condition is evaluated.
type ConditionType int

const (
	// ConditionNone never gates anything.
	ConditionNone ConditionType = iota
	// OnHit is met when the attack connects for at least 1 damage.
	OnHit
	// OnBlockedByAtLeastN is a penalty for under-blocking: met when fewer
	// than N non-equipment cards block.
	OnBlockedByAtLeastN
	// MustBeBlockedByAtLeastN is an advisory only.
	MustBeBlockedByAtLeastN
	// MustBeBlockedByExactlyN is an advisory only.
	MustBeBlockedByExactlyN
)

var conditionNames = map[ConditionType]string{
	ConditionNone:           "none",
	OnHit:                   "on_hit",
	OnBlockedByAtLeastN:     "on_blocked_by_at_least_n",
	MustBeBlockedByAtLeastN: "must_be_blocked_by_at_least_n",
	MustBeBlockedByExactlyN: "must_be_blocked_by_exactly_n",
}

func (c ConditionType) String() string {
	if s, ok := conditionNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseConditionType maps a content name to a ConditionType. The empty string
// is ConditionNone.
func ParseConditionType(s string) (ConditionType, error) {
	if s == "" {
		return ConditionNone, nil
	}
	for t, name := range conditionNames {
		if name == s {
			return t, nil
		}
	}
	return ConditionNone, fmt.Errorf("combat: unknown condition %q", s)
}

// Condition is an attack's declared condition with its threshold.
type Condition struct {
	Type ConditionType
	N    int
}

// Gates reports whether the condition decides if the Hit hook fires.
func (c Condition) Gates() bool {
	return c.Type == OnHit || c.Type == OnBlockedByAtLeastN
}

// UsesN reports whether the condition reads its threshold N.
func (c Condition) UsesN() bool {
	switch c.Type {
	case OnBlockedByAtLeastN, MustBeBlockedByAtLeastN, MustBeBlockedByExactlyN:
		return true
	}
	return false
}

// Advisory returns the MustBeBlocked event published on reveal for soft block
// requirements.
func (c Condition) Advisory() (events.MustBeBlocked, bool) {
	switch c.Type {
	case MustBeBlockedByAtLeastN:
		return events.MustBeBlocked{Threshold: c.N, Type: events.AtLeast}, true
	case MustBeBlockedByExactlyN:
		return events.MustBeBlocked{Threshold: c.N, Type: events.Exactly}, true
	}
	return events.MustBeBlocked{}, false
}

// Describe returns the condition text shown for the met or unmet variant.
func (c Condition) Describe(met bool) string {
	switch c.Type {
	case OnHit:
		if met {
			return "Hit!"
		}
		return "On hit"
	case OnBlockedByAtLeastN:
		if met {
			return fmt.Sprintf("Blocked by fewer than %d cards!", c.N)
		}
		return fmt.Sprintf("If blocked by fewer than %d cards", c.N)
	case MustBeBlockedByAtLeastN:
		if met {
			return fmt.Sprintf("Blocked by %d or more cards", c.N)
		}
		return fmt.Sprintf("Must be blocked by at least %d cards", c.N)
	case MustBeBlockedByExactlyN:
		if met {
			return fmt.Sprintf("Blocked by exactly %d cards", c.N)
		}
		return fmt.Sprintf("Must be blocked by exactly %d cards", c.N)
	}
	return ""
}

// Verdict is the Condition Evaluator's output.
type Verdict struct {
	Met  bool
	Text string
}

// Evaluate decides whether cond is met for blocks and the computed progress.
//
// Precondition: p.ActualDamage has been computed.
// Postcondition: OnHit is met iff p is not fully prevented and ActualDamage >= 1.
// OnBlockedByAtLeastN is met iff fewer than N non-equipment cards block.
// The Must* advisories report whether the requirement was satisfied but never
// gate hooks. ConditionNone is never met.
func Evaluate(cond Condition, blocks BlockAssignment, p *Progress) Verdict {
	count := blocks.NonEquipmentCount()
	met := false
	switch cond.Type {
	case OnHit:
		met = !p.FullyPreventedBySpecial && p.ActualDamage >= 1
	case OnBlockedByAtLeastN:
		met = count < cond.N
	case MustBeBlockedByAtLeastN:
		met = count >= cond.N
	case MustBeBlockedByExactlyN:
		met = count == cond.N
	}
	return Verdict{Met: met, Text: cond.Describe(met)}
}
