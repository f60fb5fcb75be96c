package combat

import "fmt"

// Color is a card color.
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
)

// Colors lists every card color in display order.
var Colors = []Color{Red, Blue, Green, Yellow}

// ParseColor validates a color name.
func ParseColor(s string) (Color, error) {
	for _, c := range Colors {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("combat: unknown color %q", s)
}

// Card is a card in the player's hand. Block is mutable: corrode effects
// lower it permanently.
type Card struct {
	ID        string
	Name      string
	Color     Color
	Block     int
	Equipment bool

	Sealed      bool
	Frozen      bool
	CannotBlock bool
	Exhaust     bool
}

// Corrode permanently lowers the card's block value by n, flooring at 0.
// This is a property of the card and outlives the attack that applied it.
//
// Postcondition: returns the new block value.
func (c *Card) Corrode(n int) int {
	c.Block -= n
	if c.Block < 0 {
		c.Block = 0
	}
	return c.Block
}

// CanBlock reports whether the card may be committed to a block.
func (c *Card) CanBlock() bool {
	return !c.CannotBlock && !c.Frozen && !c.Exhaust
}

// BlockAssignment is the ordered set of cards committed against one attack.
type BlockAssignment []*Card

// NonEquipment returns the non-equipment cards in assignment order.
func (b BlockAssignment) NonEquipment() []*Card {
	var out []*Card
	for _, c := range b {
		if !c.Equipment {
			out = append(out, c)
		}
	}
	return out
}

// NonEquipmentCount returns the number of non-equipment cards.
func (b BlockAssignment) NonEquipmentCount() int {
	n := 0
	for _, c := range b {
		if !c.Equipment {
			n++
		}
	}
	return n
}

// Total returns the summed block value of every card, equipment included.
func (b BlockAssignment) Total() int {
	t := 0
	for _, c := range b {
		t += c.Block
	}
	return t
}

// CountColor returns the number of non-equipment cards of color.
func (b BlockAssignment) CountColor(color Color) int {
	n := 0
	for _, c := range b {
		if !c.Equipment && c.Color == color {
			n++
		}
	}
	return n
}
