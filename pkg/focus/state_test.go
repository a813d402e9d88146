package focus

import (
	"testing"

	"github.com/matzehuels/ringmap/pkg/graph"
)

func TestStateClickToggle(t *testing.T) {
	m := testMap()
	target := graph.ElementRef{Role: graph.RoleGateway, Name: "PaymentGW"}

	var s State
	s = s.Click(target, m)
	if s.Selected() == nil || *s.Selected() != target {
		t.Fatalf("after click: selected = %v, want %v", s.Selected(), target)
	}
	if s.Focused() == nil || *s.Focused() != target {
		t.Fatalf("focused does not mirror selection")
	}

	// Clicking the selected element again returns to the unselected state.
	s = s.Click(target, m)
	if s.Selected() != nil {
		t.Errorf("after second click: selected = %v, want nil", s.Selected())
	}
	if s.Focused() != nil {
		t.Errorf("after second click: focused = %v, want nil", s.Focused())
	}
}

func TestStateClickSwitchesSelection(t *testing.T) {
	m := testMap()
	first := graph.ElementRef{Role: graph.RoleGateway, Name: "PaymentGW"}
	second := graph.ElementRef{Role: graph.RoleInbound, Name: "A"}

	s := State{}.Click(first, m).Click(second, m)
	if s.Selected() == nil || *s.Selected() != second {
		t.Errorf("selected = %v, want %v", s.Selected(), second)
	}
}

func TestStateHoverIndependentOfSelection(t *testing.T) {
	m := testMap()
	selected := graph.ElementRef{Role: graph.RoleGateway, Name: "PaymentGW"}
	hovered := graph.ElementRef{Role: graph.RoleOutbound, Name: "C"}

	s := State{}.Click(selected, m).Enter(hovered, m)
	if s.Hovered() == nil || *s.Hovered() != hovered {
		t.Fatalf("hovered = %v, want %v", s.Hovered(), hovered)
	}

	s = s.Leave()
	if s.Hovered() != nil {
		t.Errorf("after leave: hovered = %v, want nil", s.Hovered())
	}
	if s.Selected() == nil || *s.Selected() != selected {
		t.Errorf("leave cleared the selection")
	}
}

func TestStateBackgroundClickClears(t *testing.T) {
	m := testMap()
	s := State{}.Click(graph.ElementRef{Role: graph.RoleRoot, Name: "OrderService"}, m)

	s = s.ClickBackground()
	if s.Selected() != nil || s.Focused() != nil {
		t.Errorf("background click left selection %v focus %v", s.Selected(), s.Focused())
	}
}

func TestStateStaleRefsNoOp(t *testing.T) {
	m := testMap()
	stale := graph.ElementRef{Role: graph.RoleGateway, Name: "RemovedGW"}
	wrongRole := graph.ElementRef{Role: graph.RoleInbound, Name: "C"} // C is outbound only

	var s State
	for _, ref := range []graph.ElementRef{stale, wrongRole} {
		if got := s.Click(ref, m); got.Selected() != nil {
			t.Errorf("click on %v selected something", ref)
		}
		if got := s.Enter(ref, m); got.Hovered() != nil {
			t.Errorf("enter on %v hovered something", ref)
		}
	}
}

func TestStateValueSemantics(t *testing.T) {
	m := testMap()
	base := State{}.Click(graph.ElementRef{Role: graph.RoleRoot, Name: "OrderService"}, m)

	_ = base.ClickBackground()
	if base.Selected() == nil {
		t.Error("transition mutated the receiver")
	}
}
