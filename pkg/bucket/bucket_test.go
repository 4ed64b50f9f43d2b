package bucket

import "testing"

func TestBucketValueBoundaries(t *testing.T) {
	b := New(Table{
		"approval": {
			{Min: 0, Max: 40, Label: "low"},
			{Min: 40, Max: 70, Label: "medium"},
			{Min: 70, Max: 100, Label: "high"},
		},
	})

	cases := []struct {
		value float64
		want  string
	}{
		{0, "low"},
		{39.999, "low"},
		{40, "medium"}, // breakpoint belongs to the upper bucket
		{40.001, "medium"},
		{63, "medium"},
		{69.999, "medium"},
		{70, "high"},
		{100, "high"}, // top edge is closed
	}
	for _, c := range cases {
		state := b.Bucket(map[string]any{"approval": c.value})
		if len(state) != 1 {
			t.Fatalf("value %v: expected 1 field, got %d", c.value, len(state))
		}
		if state[0].Label != c.want {
			t.Errorf("value %v: got %q, want %q", c.value, state[0].Label, c.want)
		}
	}
}

func TestBucketClampsOutOfRange(t *testing.T) {
	b := New(nil)

	low := b.Bucket(map[string]any{"approval": -50})
	if low[0].Label != "very_low" {
		t.Errorf("below range: got %q, want very_low", low[0].Label)
	}

	high := b.Bucket(map[string]any{"approval": 250})
	if high[0].Label != "very_high" {
		t.Errorf("above range: got %q, want very_high", high[0].Label)
	}
}

func TestBucketCanonicalOrdering(t *testing.T) {
	b := New(nil)
	state := b.Bucket(map[string]any{
		"tension":  80,
		"approval": 67,
		"economy":  5,
	})

	got := state.String()
	want := "approval:medium,economy:stable,tension:critical"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBucketPassthroughAndOmission(t *testing.T) {
	b := New(nil)
	state := b.Bucket(map[string]any{
		"coalition":  "Fragile",
		"at_war":     true,
		"mystery":    42.0,              // numeric with no configured ranges
		"unhandled":  []string{"a"},     // unsupported type
		"approval":   55,
	})

	got := state.String()
	want := "approval:medium,at_war:true,coalition:fragile"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBucketIntAndFloatAgree(t *testing.T) {
	b := New(nil)
	asInt := b.Bucket(map[string]any{"approval": 63})
	asFloat := b.Bucket(map[string]any{"approval": 63.0})
	if asInt.String() != asFloat.String() {
		t.Errorf("int and float inputs disagree: %q vs %q", asInt.String(), asFloat.String())
	}
}
