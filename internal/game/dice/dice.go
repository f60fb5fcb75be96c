// Package dice is the randomness layer of the combat core: a Source threaded
// explicitly through every component that rolls, the weighted-band and
// sampling primitives enemies use to pick attacks, and dice expressions for
// damage variance.
package dice

import "fmt"

// RollResult holds the audit trail for one dice expression evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String formats the roll as "2d6+3 = [4 5] +3 = 12".
func (r RollResult) String() string {
	return fmt.Sprintf("%s = %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for the combat core.
//
// A Source belongs to a single battle session and is not required to be safe
// for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
