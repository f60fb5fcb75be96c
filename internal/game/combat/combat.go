// Package combat implements attack resolution for the card battle: block
// assignment, condition evaluation and the reveal/block/resolve pipeline that
// carries each enemy attack to its damage.
package combat

// Combatant is one side of a battle.
type Combatant struct {
	ID        string
	Role      string
	Name      string
	MaxHP     int
	CurrentHP int
}

// IsDead reports whether CurrentHP has reached zero.
func (c *Combatant) IsDead() bool { return c.CurrentHP <= 0 }

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentHP >= 0. Returns the health actually lost.
func (c *Combatant) ApplyDamage(amount int) int {
	before := c.CurrentHP
	c.CurrentHP -= amount
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
	return before - c.CurrentHP
}

// Heal raises CurrentHP by amount, capped at MaxHP.
//
// Postcondition: CurrentHP <= MaxHP. Returns the health actually restored.
func (c *Combatant) Heal(amount int) int {
	if c.IsDead() || amount <= 0 {
		return 0
	}
	before := c.CurrentHP
	c.CurrentHP += amount
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
	return c.CurrentHP - before
}
