package models

import "testing"

func TestWorkflowTransitions(t *testing.T) {
	cases := []struct {
		from, to WorkflowState
		ok       bool
	}{
		{StateE1, StateE2, true},
		{StateE1, StateE3, true},
		{StateE1, StateE6, false},
		{StateE2, StateE6, true},
		{StateE2, StateE5, true},
		{StateE4, StateE2, true},
		{StateE4, StateE6, true},
		{StateE5, StateE3, true},
		{StateE6, StateE7, true},
		{StateE6, StateE8, true},
		{StateE6, StateE4, true},
		{StateE6, StateE5, true},
		{StateE7, StateE6, true},
		{StateE8, StateE9, true},
		{StateE8, StateE4, true},
		{StateE9, StateE10, true},
		{StateE9, StateE8, true},
		{StateE10, StateE11, true},
		{StateE10, StateE9, true},
		{StateE11, StateE12, true},
		{StateE11, StateE10, true},
		{StateE12, StateE13, true},
		{StateE12, StateE11, false},
		{StateE13, StateE14, true},
		{StateE14, StateE15, true},
		{StateE1, StateE15, false},
		{StateE2, StateE2, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []WorkflowState{StateE3, StateE15} {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
		if n := len(s.AllowedTransitions()); n != 0 {
			t.Errorf("terminal state %s has %d outgoing transitions", s, n)
		}
	}
	for _, s := range []WorkflowState{StateE1, StateE2, StateE6, StateE12, StateE14} {
		if s.IsTerminal() {
			t.Errorf("did not expect %s to be terminal", s)
		}
	}
}

// No transition table entry may lead out of a terminal state or into an
// undefined one.
func TestTransitionTableClosed(t *testing.T) {
	for from, targets := range workflowTransitions {
		if !from.IsValid() {
			t.Errorf("transition table keyed by invalid state %q", from)
		}
		if from.IsTerminal() && len(targets) > 0 {
			t.Errorf("terminal state %s has outgoing transitions %v", from, targets)
		}
		for _, to := range targets {
			if !to.IsValid() {
				t.Errorf("transition %s -> %q targets invalid state", from, to)
			}
		}
	}
}

func TestCheckTransition(t *testing.T) {
	if err := CheckTransition(StateE1, StateE2); err != nil {
		t.Errorf("expected E1 -> E2 to pass: %v", err)
	}
	err := CheckTransition(StateE3, StateE2)
	if err == nil {
		t.Fatal("expected error transitioning out of terminal E3")
	}
	te, ok := err.(*TransitionError)
	if !ok {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if te.From != StateE3 || te.To != StateE2 {
		t.Errorf("unexpected error payload: %+v", te)
	}
}

func TestParseWorkflowState(t *testing.T) {
	for _, raw := range []string{"E7", "e7"} {
		s, err := ParseWorkflowState(raw)
		if err != nil || s != StateE7 {
			t.Errorf("ParseWorkflowState(%q) = %s, %v", raw, s, err)
		}
	}
	if _, err := ParseWorkflowState("E16"); err == nil {
		t.Error("expected error for E16")
	}
	if _, err := ParseWorkflowState(""); err == nil {
		t.Error("expected error for empty state")
	}
}

func TestParseWorkflowStateLenient(t *testing.T) {
	if s, ok := ParseWorkflowStateLenient("e12"); !ok || s != StateE12 {
		t.Errorf("lenient parse of e12 = %s, %v", s, ok)
	}
	if s, ok := ParseWorkflowStateLenient("garbage"); ok || s != StateUnknown {
		t.Errorf("lenient parse of garbage = %s, %v", s, ok)
	}
}

func TestDisplayNames(t *testing.T) {
	for _, s := range []WorkflowState{
		StateE1, StateE2, StateE3, StateE4, StateE5, StateE6, StateE7, StateE8,
		StateE9, StateE10, StateE11, StateE12, StateE13, StateE14, StateE15,
	} {
		if s.DisplayName() == "" {
			t.Errorf("state %s has no display name", s)
		}
	}
}
