package router

import (
	"errors"
	"testing"

	"github.com/rehash-ai/rehash/pkg/models"
)

func fullTiers() map[models.TaskType]string {
	return map[models.TaskType]string{
		models.TaskCompaction:       "economy",
		models.TaskSummarization:    "economy",
		models.TaskCoreInteraction:  "standard",
		models.TaskComplexReasoning: "premium",
	}
}

func TestResolve(t *testing.T) {
	r, err := New(fullTiers())
	if err != nil {
		t.Fatal(err)
	}

	tier, err := r.Resolve(models.TaskCoreInteraction, "")
	if err != nil {
		t.Fatal(err)
	}
	if tier != "standard" {
		t.Errorf("got %q, want standard", tier)
	}

	tier, err = r.Resolve(models.TaskCompaction, "")
	if err != nil {
		t.Fatal(err)
	}
	if tier != "economy" {
		t.Errorf("got %q, want economy", tier)
	}
}

func TestResolveOverrideWins(t *testing.T) {
	r, _ := New(fullTiers())
	tier, err := r.Resolve(models.TaskCompaction, "premium")
	if err != nil {
		t.Fatal(err)
	}
	if tier != "premium" {
		t.Errorf("override ignored: got %q", tier)
	}
}

func TestResolveUnknownTaskFails(t *testing.T) {
	r, _ := New(fullTiers())
	_, err := r.Resolve(models.TaskType("telepathy"), "")
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewRejectsIncompleteMapping(t *testing.T) {
	tiers := fullTiers()
	delete(tiers, models.TaskSummarization)
	if _, err := New(tiers); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for missing mapping, got %v", err)
	}
}

func TestNewRejectsUnknownTaskType(t *testing.T) {
	tiers := fullTiers()
	tiers[models.TaskType("divination")] = "premium"
	if _, err := New(tiers); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for unknown task type, got %v", err)
	}
}

func TestDefaultCoversAllTaskTypes(t *testing.T) {
	r := Default()
	if r == nil {
		t.Fatal("default router is nil")
	}
	for _, task := range models.TaskTypes {
		if _, err := r.Resolve(task, ""); err != nil {
			t.Errorf("default router cannot resolve %q: %v", task, err)
		}
	}
}
