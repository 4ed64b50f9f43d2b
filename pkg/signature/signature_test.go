package signature

import (
	"testing"

	"github.com/rehash-ai/rehash/pkg/bucket"
)

func TestComputeDeterministic(t *testing.T) {
	state := bucket.State{{Name: "approval", Label: "medium"}}

	first, err := Compute("pm", "crisis", state, "askPosition")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		again, err := Compute("pm", "crisis", state, "askPosition")
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("signature not deterministic: %s vs %s", again, first)
		}
	}
	if len(first) != 16 {
		t.Errorf("expected 16-char signature, got %d: %s", len(first), first)
	}
}

func TestComputeRejectsEmptyIdentity(t *testing.T) {
	if _, err := Compute("", "crisis", nil, "askPosition"); err == nil {
		t.Error("expected error for empty agent id")
	}
	if _, err := Compute("pm", "", nil, "askPosition"); err == nil {
		t.Error("expected error for empty situation category")
	}
}

func TestComputeNoDelimiterCollisions(t *testing.T) {
	// Tuples whose naive concatenation is identical must still hash apart.
	a, err := Compute("ab", "c", nil, "x")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compute("a", "bc", nil, "x")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("boundary-shifted tuples collided")
	}

	c, _ := Compute("pm", "crisis", bucket.State{{Name: "a", Label: "b"}}, "")
	d, _ := Compute("pm", "crisis", nil, "a:b")
	if c == d {
		t.Error("state and intent components collided")
	}
}

func TestComputeStateFieldsAreSelfDelimiting(t *testing.T) {
	// Categorical labels pass through from the snapshot unescaped, so
	// delimiter characters inside a label must not let one field
	// masquerade as two.
	merged, err := Compute("pm", "crisis", bucket.State{{Name: "a", Label: "x,b:y"}}, "askPosition")
	if err != nil {
		t.Fatal(err)
	}
	split, err := Compute("pm", "crisis", bucket.State{
		{Name: "a", Label: "x"},
		{Name: "b", Label: "y"},
	}, "askPosition")
	if err != nil {
		t.Fatal(err)
	}
	if merged == split {
		t.Error("distinct bucketed states collided")
	}

	nameShift, _ := Compute("pm", "crisis", bucket.State{{Name: "a:b", Label: "c"}}, "askPosition")
	labelShift, _ := Compute("pm", "crisis", bucket.State{{Name: "a", Label: "b:c"}}, "askPosition")
	if nameShift == labelShift {
		t.Error("field name and label boundaries collided")
	}
}

func TestComputeDistinguishesComponents(t *testing.T) {
	base, _ := Compute("pm", "crisis", nil, "askPosition")

	otherAgent, _ := Compute("fm", "crisis", nil, "askPosition")
	if otherAgent == base {
		t.Error("agent id not reflected in signature")
	}
	otherIntent, _ := Compute("pm", "crisis", nil, "askBudget")
	if otherIntent == base {
		t.Error("intent not reflected in signature")
	}
	otherState, _ := Compute("pm", "crisis", bucket.State{{Name: "approval", Label: "low"}}, "askPosition")
	if otherState == base {
		t.Error("bucketed state not reflected in signature")
	}
}

func TestNormalizeIntent(t *testing.T) {
	got := NormalizeIntent("  Ask   POSITION\ton budget ")
	want := "ask position on budget"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
