package battle

import (
	"context"
	"sort"
)

// FlagStore persists a profile's save flags.
type FlagStore interface {
	Load(ctx context.Context, profile string) ([]string, error)
	Save(ctx context.Context, profile string, flags []string) error
}

// FlagSet is the in-memory save-flag set hooks read and write during a
// battle. It is loaded before and saved after, so no hook ever blocks on
// storage.
type FlagSet struct {
	flags map[string]bool
	dirty bool
}

// NewFlagSet returns a set holding flags.
func NewFlagSet(flags ...string) *FlagSet {
	s := &FlagSet{flags: make(map[string]bool, len(flags))}
	for _, f := range flags {
		s.flags[f] = true
	}
	return s
}

// Has reports whether flag is set.
func (s *FlagSet) Has(flag string) bool { return s.flags[flag] }

// Set sets flag.
func (s *FlagSet) Set(flag string) {
	if !s.flags[flag] {
		s.flags[flag] = true
		s.dirty = true
	}
}

// Dirty reports whether Set added a flag since the set was created.
func (s *FlagSet) Dirty() bool { return s.dirty }

// List returns every flag, sorted.
func (s *FlagSet) List() []string {
	out := make([]string, 0, len(s.flags))
	for f := range s.flags {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// LoadFlags reads profile's flags from store.
func LoadFlags(ctx context.Context, store FlagStore, profile string) (*FlagSet, error) {
	flags, err := store.Load(ctx, profile)
	if err != nil {
		return nil, err
	}
	return NewFlagSet(flags...), nil
}

// SaveFlags writes s to store when it changed.
func SaveFlags(ctx context.Context, store FlagStore, profile string, s *FlagSet) error {
	if !s.Dirty() {
		return nil
	}
	if err := store.Save(ctx, profile, s.List()); err != nil {
		return err
	}
	s.dirty = false
	return nil
}
