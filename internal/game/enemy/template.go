package enemy

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/cardbattle/internal/game/combat"
	"github.com/cory-johannsen/cardbattle/internal/game/dice"
	"github.com/cory-johannsen/cardbattle/internal/game/events"
	"github.com/cory-johannsen/cardbattle/internal/game/passive"
)

// BandSpec maps a percentile band to a list of attacks.
type BandSpec struct {
	Below   int      `yaml:"below"`
	Attacks []string `yaml:"attacks"`
}

// StartPassive is a passive applied at the start of battle.
type StartPassive struct {
	Target string       `yaml:"target"`
	Type   passive.Type `yaml:"type"`
	Delta  int          `yaml:"delta"`
}

// Template is a data-driven enemy loaded from YAML.
type Template struct {
	Kind          Kind           `yaml:"kind"`
	Name          string         `yaml:"name"`
	Health        Health         `yaml:"health"`
	Opening       []string       `yaml:"opening"`
	OpeningFlag   string         `yaml:"opening_flag"`
	Bands         []BandSpec     `yaml:"bands"`
	NoRepeat      []string       `yaml:"no_repeat"`
	StartPassives []StartPassive `yaml:"start_passives"`
}

// Validate checks the template's invariants.
//
// Postcondition: Returns nil iff Kind and Name are set, health is positive at
// every difficulty, and bands are non-empty with strictly increasing Below
// values ending at 100.
func (t *Template) Validate() error {
	if t.Kind == "" {
		return fmt.Errorf("enemy template: kind must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", t.Kind)
	}
	if err := t.Health.Validate(); err != nil {
		return fmt.Errorf("enemy template %q: %w", t.Kind, err)
	}
	if len(t.Bands) == 0 {
		return fmt.Errorf("enemy template %q: at least one band is required", t.Kind)
	}
	prev := 0
	for i, b := range t.Bands {
		if b.Below <= prev {
			return fmt.Errorf("enemy template %q: band %d below=%d must exceed %d", t.Kind, i, b.Below, prev)
		}
		if len(b.Attacks) == 0 {
			return fmt.Errorf("enemy template %q: band %d has no attacks", t.Kind, i)
		}
		prev = b.Below
	}
	if prev != 100 {
		return fmt.Errorf("enemy template %q: last band must end at 100, got %d", t.Kind, prev)
	}
	for _, sp := range t.StartPassives {
		if sp.Target != events.Player && sp.Target != events.Enemy {
			return fmt.Errorf("enemy template %q: start passive target %q must be %s or %s", t.Kind, sp.Target, events.Player, events.Enemy)
		}
	}
	return nil
}

func (t *Template) attackIDs() []combat.AttackID {
	var out []combat.AttackID
	for _, id := range t.Opening {
		out = append(out, combat.AttackID(id))
	}
	for _, b := range t.Bands {
		for _, id := range b.Attacks {
			out = append(out, combat.AttackID(id))
		}
	}
	return out
}

// Spec builds the enemy spec the template describes.
func (t *Template) Spec() *Spec {
	return &Spec{
		Kind:        t.Kind,
		Name:        t.Name,
		Health:      t.Health,
		NewBehavior: func() Behavior { return &templateBehavior{t: t} },
	}
}

type templateBehavior struct {
	t *Template
}

func (tb *templateBehavior) Create(*Enemy, *combat.Battle) {}

func (tb *templateBehavior) StartOfBattle(e *Enemy, b *combat.Battle) {
	fns := make([]func(), 0, len(tb.t.StartPassives))
	for _, sp := range tb.t.StartPassives {
		sp := sp
		fns = append(fns, func() { b.ApplyPassive(sp.Target, sp.Type, sp.Delta) })
	}
	b.Stagger(e.TriggerSource(), fns...)
}

func (tb *templateBehavior) SelectAttacks(e *Enemy, b *combat.Battle, turn int) []combat.AttackID {
	if turn == 1 && len(tb.t.Opening) > 0 && (tb.t.OpeningFlag == "" || !b.HasFlag(tb.t.OpeningFlag)) {
		if tb.t.OpeningFlag != "" {
			b.SetFlag(tb.t.OpeningFlag)
		}
		return toIDs(tb.t.Opening)
	}
	roll := b.RNG.Percent(fmt.Sprintf("%s.turn%d", tb.t.Kind, turn))
	bands := make([]dice.Band[[]string], len(tb.t.Bands))
	for i, bs := range tb.t.Bands {
		bands[i] = dice.Band[[]string]{Below: bs.Below, Value: bs.Attacks}
	}
	picked, _ := dice.PickBand(roll, bands...)
	if tb.repeats(e, picked) {
		// Fall back to the first band, in declaration order, that repeats nothing.
		for _, bs := range tb.t.Bands {
			if !tb.repeats(e, bs.Attacks) {
				picked = bs.Attacks
				break
			}
		}
	}
	return toIDs(picked)
}

func (tb *templateBehavior) repeats(e *Enemy, attacks []string) bool {
	for _, id := range tb.t.NoRepeat {
		if e.Memory.Streak(combat.AttackID(id)) > 0 && containsID(toIDs(attacks), combat.AttackID(id)) {
			return true
		}
	}
	return false
}

func toIDs(ss []string) []combat.AttackID {
	out := make([]combat.AttackID, len(ss))
	for i, s := range ss {
		out[i] = combat.AttackID(s)
	}
	return out
}

// LoadTemplateFromBytes parses and validates a single template.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var t Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing enemy template YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTemplates reads every *.yaml file in dir.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error naming the first file that
// fails to parse or validate.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}
	var out []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		t, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		out = append(out, t)
	}
	return out, nil
}
