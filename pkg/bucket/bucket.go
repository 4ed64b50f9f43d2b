// Package bucket quantizes continuous world-state values into a small
// set of named ranges so that nearby states derive the same signature.
package bucket

import (
	"sort"
	"strings"
)

// Range maps the half-open interval [Min, Max) to a bucket label. The
// final range of a field is closed at its Max so the top edge value
// still lands in a bucket.
type Range struct {
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Label string  `json:"label" yaml:"label"`
}

// Table holds per-field bucket ranges.
type Table map[string][]Range

// Field is one bucketed (name, label) pair.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// State is the canonical bucketed form of a world-state snapshot,
// sorted by field name so key ordering never affects the signature.
type State []Field

// String renders the state as "field:label,field:label".
func (s State) String() string {
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = f.Name + ":" + f.Label
	}
	return strings.Join(parts, ",")
}

// DefaultTable returns the built-in breakpoint table.
func DefaultTable() Table {
	return Table{
		"approval": {
			{Min: 0, Max: 30, Label: "very_low"},
			{Min: 30, Max: 50, Label: "low"},
			{Min: 50, Max: 70, Label: "medium"},
			{Min: 70, Max: 85, Label: "high"},
			{Min: 85, Max: 100, Label: "very_high"},
		},
		"economy": {
			{Min: -100, Max: -50, Label: "crisis"},
			{Min: -50, Max: -10, Label: "recession"},
			{Min: -10, Max: 10, Label: "stable"},
			{Min: 10, Max: 50, Label: "growing"},
			{Min: 50, Max: 100, Label: "booming"},
		},
		"tension": {
			{Min: 0, Max: 25, Label: "calm"},
			{Min: 25, Max: 50, Label: "uneasy"},
			{Min: 50, Max: 75, Label: "tense"},
			{Min: 75, Max: 100, Label: "critical"},
		},
	}
}

// Bucketer applies a breakpoint table to world-state snapshots.
type Bucketer struct {
	table Table
}

// New creates a Bucketer. A nil table uses DefaultTable. Ranges are
// sorted by Min so lookups scan in order.
func New(table Table) *Bucketer {
	if table == nil {
		table = DefaultTable()
	}
	sorted := make(Table, len(table))
	for field, ranges := range table {
		rs := make([]Range, len(ranges))
		copy(rs, ranges)
		sort.Slice(rs, func(i, j int) bool { return rs[i].Min < rs[j].Min })
		sorted[field] = rs
	}
	return &Bucketer{table: sorted}
}

// Bucket quantizes a snapshot into its canonical State. Numeric fields
// require a configured range set and clamp to the nearest edge bucket
// when out of bounds; string fields pass through lowercased; booleans
// become "true"/"false". Fields with no applicable rule are omitted
// rather than rejected, so an unexpected field never blocks an
// interaction.
func (b *Bucketer) Bucket(snapshot map[string]any) State {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	state := make(State, 0, len(names))
	for _, name := range names {
		switch v := snapshot[name].(type) {
		case string:
			state = append(state, Field{Name: name, Label: strings.ToLower(v)})
		case bool:
			label := "false"
			if v {
				label = "true"
			}
			state = append(state, Field{Name: name, Label: label})
		default:
			num, ok := toFloat(v)
			if !ok {
				continue
			}
			ranges, ok := b.table[name]
			if !ok || len(ranges) == 0 {
				continue
			}
			state = append(state, Field{Name: name, Label: bucketValue(num, ranges)})
		}
	}
	return state
}

// bucketValue assigns v to a bucket label. Ranges are sorted by Min;
// values below the first range or above the last clamp to the edge
// buckets.
func bucketValue(v float64, ranges []Range) string {
	if v < ranges[0].Min {
		return ranges[0].Label
	}
	last := ranges[len(ranges)-1]
	if v >= last.Max {
		return last.Label
	}
	for _, r := range ranges {
		if v < r.Max {
			return r.Label
		}
	}
	return last.Label
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
