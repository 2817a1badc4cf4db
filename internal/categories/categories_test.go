package categories

import (
	"testing"
)

func TestLoad(t *testing.T) {
	list, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	names := list.Names()
	if len(names) == 0 {
		t.Fatal("embedded category list should not be empty")
	}

	// Names() must return a copy, not the backing slice.
	names[0] = "mutated"
	if list.Names()[0] == "mutated" {
		t.Error("Names() should return a defensive copy")
	}
}

func TestSuggest(t *testing.T) {
	list, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("exact match returns only itself", func(t *testing.T) {
		got := list.Suggest("food", 3)
		if len(got) != 1 || got[0] != "food" {
			t.Errorf("Suggest(food) = %v, want [food]", got)
		}
	})

	t.Run("case-insensitive exact match", func(t *testing.T) {
		got := list.Suggest("FOOD", 3)
		if len(got) != 1 || got[0] != "food" {
			t.Errorf("Suggest(FOOD) = %v, want [food]", got)
		}
	})

	t.Run("near miss ranks closest first", func(t *testing.T) {
		got := list.Suggest("trnsport", 3)
		if len(got) == 0 || got[0] != "transport" {
			t.Errorf("Suggest(trnsport) = %v, want transport first", got)
		}
	})

	t.Run("respects max", func(t *testing.T) {
		got := list.Suggest("xyz", 2)
		if len(got) != 2 {
			t.Errorf("Suggest with max=2 returned %d results", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := list.Suggest("  ", 3); got != nil {
			t.Errorf("Suggest on blank input = %v, want nil", got)
		}
	})
}
