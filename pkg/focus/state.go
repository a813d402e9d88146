package focus

import "github.com/matzehuels/ringmap/pkg/graph"

// State tracks the two independent pieces of single-valued pointer state:
// which element is hovered and which is selected. At most one of each exists
// at a time. The focused element mirrors the selection.
//
// State is a value type: every transition returns a new State, leaving the
// receiver untouched, so callers own exactly the state they threaded in.
type State struct {
	hovered  *graph.ElementRef
	selected *graph.ElementRef
}

// Hovered returns the currently hovered element, or nil.
func (s State) Hovered() *graph.ElementRef { return s.hovered }

// Selected returns the currently selected element, or nil.
func (s State) Selected() *graph.ElementRef { return s.selected }

// Focused returns the element driving focus dimming. It mirrors the
// selection.
func (s State) Focused() *graph.ElementRef { return s.selected }

// Enter records a pointer entering ref. References that do not resolve
// against the map are stale and leave the state unchanged.
func (s State) Enter(ref graph.ElementRef, m *graph.Map) State {
	if !m.Has(ref) {
		return s
	}
	s.hovered = &graph.ElementRef{Role: ref.Role, Name: ref.Name}
	return s
}

// Leave clears the hover state. Hover is independent of selection, so the
// selection survives.
func (s State) Leave() State {
	s.hovered = nil
	return s
}

// Click selects ref, or clears the selection when ref is already selected -
// toggle semantics, never a no-op re-select. Stale references leave the
// state unchanged.
func (s State) Click(ref graph.ElementRef, m *graph.Map) State {
	if !m.Has(ref) {
		return s
	}
	if s.selected != nil && *s.selected == ref {
		s.selected = nil
		return s
	}
	s.selected = &graph.ElementRef{Role: ref.Role, Name: ref.Name}
	return s
}

// ClickBackground clears the selection, as a click on empty canvas does.
func (s State) ClickBackground() State {
	s.selected = nil
	return s
}
