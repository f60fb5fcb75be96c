package combat

// Progress is the mutable record of one attack's resolution. It is created
// at reveal, filled in by Resolve and any progress override, and discarded
// once damage is applied.
type Progress struct {
	// AssignedBlockTotal is the block value committed, snapshotted when
	// blocks were assigned.
	AssignedBlockTotal int
	BaseDamage         int
	ActualDamage       int
	IsConditionMet     bool
	// AegisTotal is damage absorbed by the target's Aegis and Armor stacks.
	AegisTotal int
	// PreventedDamageFromBlockCondition is damage stopped by blocking cards.
	PreventedDamageFromBlockCondition int
	TotalPreventedDamage              int
	// FullyPreventedBySpecial may only be set by a progress override. When
	// set, the attack deals no damage regardless of the computed totals.
	FullyPreventedBySpecial bool
}

// Mitigation is the split of incoming damage between a target's defences.
type Mitigation struct {
	Remaining int
	Aegis     int
	Armor     int
}

// Absorbed returns the damage stopped by aegis and armor together.
func (m Mitigation) Absorbed() int { return m.Aegis + m.Armor }

// Mitigate splits amount between aegis and armor stacks, aegis first.
//
// Postcondition: Remaining + Aegis + Armor == max(0, amount).
func Mitigate(amount, aegis, armor int) Mitigation {
	if amount < 0 {
		amount = 0
	}
	m := Mitigation{Remaining: amount}
	m.Aegis = min(max(aegis, 0), m.Remaining)
	m.Remaining -= m.Aegis
	m.Armor = min(max(armor, 0), m.Remaining)
	m.Remaining -= m.Armor
	return m
}
