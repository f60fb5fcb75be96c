package scripting

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
)

// HookNames names the global Lua functions implementing an attack's hooks.
// Empty names are no-ops.
type HookNames struct {
	Reveal          string `yaml:"reveal"`
	BlockProcessed  string `yaml:"block_processed"`
	BlocksConfirmed string `yaml:"blocks_confirmed"`
	Hit             string `yaml:"hit"`
}

func (h HookNames) all() []string {
	var out []string
	for _, n := range []string{h.Reveal, h.BlockProcessed, h.BlocksConfirmed, h.Hit} {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// AttackDef is a data-driven attack loaded from YAML.
type AttackDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Damage int    `yaml:"damage"`
	// DamageRoll, when set, replaces Damage with a dice roll at reveal.
	DamageRoll string    `yaml:"damage_roll"`
	Condition  string    `yaml:"condition"`
	ConditionN int       `yaml:"condition_n"`
	Text       string    `yaml:"text"`
	Hooks      HookNames `yaml:"hooks"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff ID and Name are set, Damage >= 0, DamageRoll
// is empty or parses, and Condition names a known condition whose threshold
// is positive when it takes one.
func (d *AttackDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("attack: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("attack %q: name must not be empty", d.ID)
	}
	if d.Damage < 0 {
		return fmt.Errorf("attack %q: damage must be >= 0, got %d", d.ID, d.Damage)
	}
	if d.DamageRoll != "" {
		if _, err := dice.Parse(d.DamageRoll); err != nil {
			return fmt.Errorf("attack %q: %w", d.ID, err)
		}
	}
	cond, err := d.condition()
	if err != nil {
		return fmt.Errorf("attack %q: %w", d.ID, err)
	}
	if cond.UsesN() && cond.N < 1 {
		return fmt.Errorf("attack %q: condition %s needs condition_n >= 1", d.ID, d.Condition)
	}
	return nil
}

func (d *AttackDef) condition() (combat.Condition, error) {
	t, err := combat.ParseConditionType(d.Condition)
	if err != nil {
		return combat.Condition{}, err
	}
	return combat.Condition{Type: t, N: d.ConditionN}, nil
}

// LoadAttackDefFromBytes parses and validates one YAML attack definition.
func LoadAttackDefFromBytes(data []byte) (*AttackDef, error) {
	var def AttackDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parsing attack: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadAttackDefs reads every *.yaml file in dir, sorted by file name.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns every definition, or an error naming the first file
// that fails to parse or validate.
func LoadAttackDefs(dir string) ([]*AttackDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading attack dir %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	out := make([]*AttackDef, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		def, err := LoadAttackDefFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		out = append(out, def)
	}
	return out, nil
}

// Definition compiles def into an attack definition whose hooks call into
// m's VM.
//
// Precondition: the scripts defining def's hooks are already loaded.
// Postcondition: returns an error if def is invalid or names a hook function
// the VM does not define.
func (m *Manager) Definition(def *AttackDef) (*combat.Definition, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	for _, fn := range def.Hooks.all() {
		if !m.HasFunction(fn) {
			return nil, fmt.Errorf("attack %q: hook function %q is not defined", def.ID, fn)
		}
	}
	cond, _ := def.condition()
	var roll *dice.Expression
	if def.DamageRoll != "" {
		e := dice.MustParse(def.DamageRoll)
		roll = &e
	}
	hooks := def.Hooks
	return &combat.Definition{
		ID:        combat.AttackID(def.ID),
		Name:      def.Name,
		Damage:    def.Damage,
		Condition: cond,
		Text:      def.Text,
		NewBehavior: func() combat.Behavior {
			return &scripted{m: m, hooks: hooks, roll: roll, base: def.Damage}
		},
	}, nil
}

// scripted adapts Lua hook functions to combat.Behavior.
type scripted struct {
	m     *Manager
	hooks HookNames
	roll  *dice.Expression
	base  int
}

func (s *scripted) Reveal(b *combat.Battle, a *combat.Attack) {
	if s.roll != nil && b.RNG != nil {
		// Keep whatever was added on top of the base damage, such as the
		// difficulty bonus.
		bonus := a.Damage - s.base
		a.Damage = max(0, b.RNG.Roll(*s.roll).Total()+bonus)
	}
	s.call(s.hooks.Reveal, b, a, nil)
}

func (s *scripted) BlockProcessed(b *combat.Battle, a *combat.Attack, card *combat.Card) {
	s.call(s.hooks.BlockProcessed, b, a, card)
}

func (s *scripted) BlocksConfirmed(b *combat.Battle, a *combat.Attack) {
	s.call(s.hooks.BlocksConfirmed, b, a, nil)
}

func (s *scripted) Hit(b *combat.Battle, a *combat.Attack) {
	s.call(s.hooks.Hit, b, a, nil)
}

func (s *scripted) call(fn string, b *combat.Battle, a *combat.Attack, card *combat.Card) {
	if fn == "" {
		return
	}
	s.m.CallHook(fn, Call{Battle: b, Attack: a, Card: card})
}

// Registrar is the part of the enemy registry scripted attacks are added to.
type Registrar interface {
	RegisterAttack(def *combat.Definition) error
}

// RegisterAll compiles every def and registers it with reg.
//
// Postcondition: returns the first compile or registration error; earlier
// definitions stay registered.
func (m *Manager) RegisterAll(reg Registrar, defs []*AttackDef) error {
	for _, d := range defs {
		cd, err := m.Definition(d)
		if err != nil {
			return err
		}
		if err := reg.RegisterAttack(cd); err != nil {
			return fmt.Errorf("registering attack %q: %w", d.ID, err)
		}
	}
	return nil
}
