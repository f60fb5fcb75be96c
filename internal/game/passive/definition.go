// Package passive owns per-combatant stacks of named status effects
// ("passives") such as Burn, Bleed and Armor.
package passive

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type identifies a passive.
type Type string

const (
	Burn      Type = "burn"
	Bleed     Type = "bleed"
	Armor     Type = "armor"
	Shackled  Type = "shackled"
	Anathema  Type = "anathema"
	Frostbite Type = "frostbite"
	Enflamed  Type = "enflamed"
	Aegis     Type = "aegis"
	Strength  Type = "strength"
	Poison    Type = "poison"
)

// Def is the static definition of a passive, loaded from YAML.
type Def struct {
	ID          Type   `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// AllowDebt lets the stack go negative. Otherwise stacks floor at 0.
	AllowDebt bool `yaml:"allow_debt"`
	// Max caps the stack; 0 = uncapped.
	Max int `yaml:"max"`
	// TickDamage deals damage equal to the stack count to the owner on each Tick.
	TickDamage bool `yaml:"tick_damage"`
	// Decay is subtracted from the stack on each Tick.
	Decay int `yaml:"decay"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty and Max and Decay are >= 0.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("passive: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("passive %q: name must not be empty", d.ID)
	}
	if d.Max < 0 {
		return fmt.Errorf("passive %q: max must be >= 0, got %d", d.ID, d.Max)
	}
	if d.Decay < 0 {
		return fmt.Errorf("passive %q: decay must be >= 0, got %d", d.ID, d.Decay)
	}
	return nil
}

// clamp applies the definition's floor and cap to n.
func (d *Def) clamp(n int) int {
	if !d.AllowDebt && n < 0 {
		n = 0
	}
	if d.Max > 0 && n > d.Max {
		n = d.Max
	}
	return n
}

// Registry holds every known Def keyed by ID.
type Registry struct {
	defs map[Type]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Type]*Def)}
}

// Register adds def, overwriting any existing entry with the same ID.
// Precondition: def must not be nil.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if unknown.
func (r *Registry) Get(id Type) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered Def sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultRegistry returns the builtin passive set used when no content
// directory is configured.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range []*Def{
		{ID: Burn, Name: "Burn", Description: "Take damage equal to stacks at turn start, then lose 1.", TickDamage: true, Decay: 1},
		{ID: Bleed, Name: "Bleed", Description: "Take damage equal to stacks at turn start, then lose 1.", TickDamage: true, Decay: 1},
		{ID: Poison, Name: "Poison", Description: "Take damage equal to stacks at turn start.", TickDamage: true},
		{ID: Armor, Name: "Armor", Description: "Absorbs incoming attack damage."},
		{ID: Aegis, Name: "Aegis", Description: "Prevents incoming attack damage before it reaches health."},
		{ID: Shackled, Name: "Shackled", Description: "Each stack reduces the block total of every blocking assignment by 1.", Max: 5},
		{ID: Anathema, Name: "Anathema", Description: "Take damage equal to stacks whenever your turn begins."},
		{ID: Frostbite, Name: "Frostbite", Description: "At 3 stacks, a card in hand freezes."},
		{ID: Enflamed, Name: "Enflamed", Description: "Take damage equal to stacks whenever you add a pledge."},
		{ID: Strength, Name: "Strength", Description: "Adds to attack damage. May go negative.", AllowDebt: true},
	} {
		r.Register(d)
	}
	return r
}

// LoadDirectory reads every *.yaml file in dir as a Def and returns a Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a populated Registry, or an error naming the first
// file that fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading passive dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
