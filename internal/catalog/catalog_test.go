package catalog

import (
	"errors"
	"testing"
)

func TestGet(t *testing.T) {
	c := New(Template{Type: "summit", Name: "Summit", MinParticipants: 2, MaxParticipants: 5})

	tpl, err := c.Get("summit")
	if err != nil {
		t.Fatalf("Get(summit): %v", err)
	}
	if tpl.Name != "Summit" {
		t.Errorf("Name = %q, want Summit", tpl.Name)
	}

	if _, err := c.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope): got %v, want ErrNotFound", err)
	}
}

func TestInvertedParticipantBoundsRepaired(t *testing.T) {
	c := New(Template{Type: "broken", MinParticipants: 10, MaxParticipants: 2})

	tpl, err := c.Get("broken")
	if err != nil {
		t.Fatal(err)
	}
	if tpl.MaxParticipants != 10 {
		t.Errorf("MaxParticipants = %d, want raised to 10", tpl.MaxParticipants)
	}
}

func TestDuplicateKeepsFirst(t *testing.T) {
	c := New(
		Template{Type: "summit", Name: "First"},
		Template{Type: "summit", Name: "Second"},
	)

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	tpl, _ := c.Get("summit")
	if tpl.Name != "First" {
		t.Errorf("Name = %q, want First", tpl.Name)
	}
}

func TestAllPreservesOrder(t *testing.T) {
	c := New(
		Template{Type: "c"},
		Template{Type: "a"},
		Template{Type: "b"},
	)

	got := c.All()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("All returned %d templates, want %d", len(got), len(want))
	}
	for i, typ := range want {
		if got[i].Type != typ {
			t.Errorf("All[%d].Type = %q, want %q", i, got[i].Type, typ)
		}
	}
}

func TestBuiltin(t *testing.T) {
	c := Builtin()

	if c.Len() != 6 {
		t.Fatalf("builtin catalog has %d templates, want 6", c.Len())
	}

	for _, tpl := range c.All() {
		if tpl.Type == "" || tpl.Name == "" {
			t.Errorf("template %+v missing type or name", tpl)
		}
		if tpl.MinParticipants < 1 || tpl.MaxParticipants < tpl.MinParticipants {
			t.Errorf("%s: bad participant bounds %d–%d",
				tpl.Type, tpl.MinParticipants, tpl.MaxParticipants)
		}
		if tpl.Duration <= 0 {
			t.Errorf("%s: non-positive duration", tpl.Type)
		}
		for _, spec := range tpl.Activities {
			if spec.Chance < 0 || spec.Chance > 1 {
				t.Errorf("%s/%s: chance %v outside [0, 1]", tpl.Type, spec.Type, spec.Chance)
			}
		}
	}

	// The crisis summit is ad hoc: never auto-scheduled, only proposed.
	crisis, err := c.Get(TypeCrisisSummit)
	if err != nil {
		t.Fatalf("Get(%s): %v", TypeCrisisSummit, err)
	}
	if crisis.Recurrence != 0 {
		t.Errorf("crisis summit recurrence = %v, want 0", crisis.Recurrence)
	}
}
