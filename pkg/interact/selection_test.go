package interact

import "testing"

func TestSelectionTapReplacesInSingleMode(t *testing.T) {
	s := newSelection(false)
	s.Tap("a", false)
	sel, desel := s.Tap("b", true)
	if len(sel) != 1 || sel[0] != "b" {
		t.Fatalf("selected = %v, want [b]", sel)
	}
	if len(desel) != 1 || desel[0] != "a" {
		t.Fatalf("deselected = %v, want [a]", desel)
	}
	if s.Mode() != SelectionSingle {
		t.Fatalf("mode = %v, want SelectionSingle", s.Mode())
	}
}

func TestSelectionTapTogglesOff(t *testing.T) {
	s := newSelection(true)
	s.Tap("a", true)
	s.Tap("b", true)
	sel, desel := s.Tap("a", true)
	if len(sel) != 0 {
		t.Fatalf("selected = %v, want none", sel)
	}
	if len(desel) != 1 || desel[0] != "a" {
		t.Fatalf("deselected = %v, want exactly [a]", desel)
	}
	if got := s.IDs(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("IDs() = %v, want [b]", got)
	}
}

func TestSelectionPlainRetapIsNoOp(t *testing.T) {
	s := newSelection(true)
	s.Tap("a", false)
	sel, desel := s.Tap("a", false)
	if len(sel) != 0 || len(desel) != 0 {
		t.Fatalf("re-tap selected = %v deselected = %v, want neither", sel, desel)
	}
	if got := s.IDs(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("IDs() = %v, want [a]", got)
	}
}

func TestSelectionModeTransitions(t *testing.T) {
	s := newSelection(true)
	if s.Mode() != SelectionEmpty {
		t.Fatalf("mode = %v, want SelectionEmpty", s.Mode())
	}
	s.Tap("a", true)
	if s.Mode() != SelectionSingle {
		t.Fatalf("mode = %v, want SelectionSingle", s.Mode())
	}
	s.Tap("b", true)
	if s.Mode() != SelectionMulti {
		t.Fatalf("mode = %v, want SelectionMulti", s.Mode())
	}
	desel := s.Clear()
	if len(desel) != 2 || s.Mode() != SelectionEmpty {
		t.Fatalf("Clear() = %v mode = %v, want both ids and SelectionEmpty", desel, s.Mode())
	}
}

func TestSelectionPruneKeepsOrder(t *testing.T) {
	s := newSelection(true)
	s.Tap("a", true)
	s.Tap("b", true)
	s.Tap("c", true)
	s.Prune(map[string]bool{"a": true, "c": true})
	got := s.IDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("IDs() = %v, want [a c]", got)
	}
}
