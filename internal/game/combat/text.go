package combat

import (
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\[(-?\d+)\]`)

// Text is an attack text template parsed once into literal segments and the
// numeric values found in its bracketed placeholders. "Gain [2] bleed"
// displays as "Gain 2 bleed" and carries the value 2.
type Text struct {
	parts  []string
	values []int
}

// ParseText parses template. A template with no placeholders displays
// unchanged and has no values.
//
// Postcondition: len(parts) == len(values)+1.
func ParseText(template string) Text {
	locs := placeholder.FindAllStringSubmatchIndex(template, -1)
	t := Text{parts: make([]string, 0, len(locs)+1), values: make([]int, 0, len(locs))}
	last := 0
	for _, loc := range locs {
		n, err := strconv.Atoi(template[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		t.parts = append(t.parts, template[last:loc[0]])
		t.values = append(t.values, n)
		last = loc[1]
	}
	t.parts = append(t.parts, template[last:])
	return t
}

// Display returns the text with brackets stripped.
func (t Text) Display() string {
	if len(t.parts) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.parts[0])
	for i, v := range t.values {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteString(t.parts[i+1])
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (t Text) String() string { return t.Display() }

// Values returns a copy of the parsed values, empty when the template had none.
func (t Text) Values() []int {
	out := make([]int, len(t.values))
	copy(out, t.values)
	return out
}

// Len returns the number of numeric placeholders.
func (t Text) Len() int { return len(t.values) }

// Value returns the i-th placeholder value. ok is false when the template has
// no i-th placeholder.
func (t Text) Value(i int) (v int, ok bool) {
	if i < 0 || i >= len(t.values) {
		return 0, false
	}
	return t.values[i], true
}

// ValueOr returns the i-th placeholder value, or def when there is none.
func (t Text) ValueOr(i, def int) int {
	if v, ok := t.Value(i); ok {
		return v
	}
	return def
}

// SetValue overwrites the i-th placeholder value. It reports false and leaves
// the text unchanged when there is no i-th placeholder.
func (t *Text) SetValue(i, v int) bool {
	if i < 0 || i >= len(t.values) {
		return false
	}
	values := make([]int, len(t.values))
	copy(values, t.values)
	values[i] = v
	t.values = values
	return true
}

// Replace substitutes every occurrence of old in the literal segments with
// new. Placeholder values are untouched.
func (t *Text) Replace(old, new string) {
	parts := make([]string, len(t.parts))
	for i, p := range t.parts {
		parts[i] = strings.ReplaceAll(p, old, new)
	}
	t.parts = parts
}
