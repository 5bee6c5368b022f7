package models

import (
	"fmt"
	"strings"
)

// WorkflowState is one of the fifteen lifecycle states of an ensayo (E1-E15).
type WorkflowState string

const (
	StateE1  WorkflowState = "E1"  // Sin programación
	StateE2  WorkflowState = "E2"  // Programado
	StateE3  WorkflowState = "E3"  // Anulado (terminal)
	StateE4  WorkflowState = "E4"  // Repetición
	StateE5  WorkflowState = "E5"  // Novedad
	StateE6  WorkflowState = "E6"  // En ejecución
	StateE7  WorkflowState = "E7"  // Espera ensayos
	StateE8  WorkflowState = "E8"  // Procesamiento
	StateE9  WorkflowState = "E9"  // Rev. Técnica
	StateE10 WorkflowState = "E10" // Rev. Coordinación
	StateE11 WorkflowState = "E11" // Rev. Dirección
	StateE12 WorkflowState = "E12" // Por enviar
	StateE13 WorkflowState = "E13" // Enviado
	StateE14 WorkflowState = "E14" // Entregado
	StateE15 WorkflowState = "E15" // Facturado (terminal)

	// StateUnknown marks a persisted or spreadsheet value that could not be
	// parsed. It is never a valid transition target and carries no outgoing
	// transitions; it exists so that corrupt data stays observable instead of
	// being silently collapsed into E1.
	StateUnknown WorkflowState = "unknown"
)

// InitialState is the state every new ensayo starts in.
const InitialState = StateE1

// workflowTransitions is the static adjacency table of the ensayo workflow.
// This is business policy, maintained by hand; it is not derived from data.
// E3 and E15 are terminal and must never gain outgoing edges.
var workflowTransitions = map[WorkflowState][]WorkflowState{
	StateE1:  {StateE2, StateE3},
	StateE2:  {StateE6, StateE3, StateE5},
	StateE3:  {}, // terminal
	StateE4:  {StateE2, StateE6},
	StateE5:  {StateE2, StateE3},
	StateE6:  {StateE7, StateE8, StateE4, StateE5},
	StateE7:  {StateE6, StateE8},
	StateE8:  {StateE9, StateE4},
	StateE9:  {StateE10, StateE8},
	StateE10: {StateE11, StateE9},
	StateE11: {StateE12, StateE10},
	StateE12: {StateE13},
	StateE13: {StateE14},
	StateE14: {StateE15},
	StateE15: {}, // terminal
}

var workflowDisplayNames = map[WorkflowState]string{
	StateE1:  "Sin programación",
	StateE2:  "Programado",
	StateE3:  "Anulado",
	StateE4:  "Repetición",
	StateE5:  "Novedad",
	StateE6:  "En ejecución",
	StateE7:  "Espera ensayos",
	StateE8:  "Procesamiento",
	StateE9:  "Rev. Técnica",
	StateE10: "Rev. Coordinación",
	StateE11: "Rev. Dirección",
	StateE12: "Por enviar",
	StateE13: "Enviado",
	StateE14: "Entregado",
	StateE15: "Facturado",
}

// String returns the serialized label (E1..E15).
func (s WorkflowState) String() string {
	return string(s)
}

// DisplayName returns the human-readable name, used in logs and error messages.
func (s WorkflowState) DisplayName() string {
	if name, ok := workflowDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// IsValid reports whether s is one of the fifteen known states.
func (s WorkflowState) IsValid() bool {
	_, ok := workflowTransitions[s]
	return ok
}

// AllowedTransitions returns the set of states reachable from s.
// An empty result for a valid state means s is terminal.
func (s WorkflowState) AllowedTransitions() []WorkflowState {
	next, ok := workflowTransitions[s]
	if !ok {
		return nil
	}
	out := make([]WorkflowState, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether the transition s -> target is allowed.
func (s WorkflowState) CanTransitionTo(target WorkflowState) bool {
	for _, next := range workflowTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is a terminal state (no outgoing transitions).
func (s WorkflowState) IsTerminal() bool {
	next, ok := workflowTransitions[s]
	return ok && len(next) == 0
}

// ParseWorkflowState parses a serialized label, case-insensitively.
// Unrecognized labels are a hard error; callers at the API boundary decide
// the fallback themselves.
func ParseWorkflowState(label string) (WorkflowState, error) {
	s := WorkflowState(strings.ToUpper(strings.TrimSpace(label)))
	if !s.IsValid() {
		return StateUnknown, fmt.Errorf("invalid workflow state %q: valid values are E1-E15", label)
	}
	return s, nil
}

// ParseWorkflowStateLenient parses a serialized label, returning
// (StateUnknown, false) for unrecognized input instead of an error. Used on
// the entity-decode path where a malformed cell must not abort the row.
func ParseWorkflowStateLenient(label string) (WorkflowState, bool) {
	s, err := ParseWorkflowState(label)
	if err != nil {
		return StateUnknown, false
	}
	return s, true
}

// TransitionError is returned when a requested workflow transition is not in
// the adjacency table. It carries everything the caller needs to render a
// useful rejection: current state, requested state and the allowed set.
type TransitionError struct {
	From    WorkflowState
	To      WorkflowState
	Allowed []WorkflowState
}

func (e *TransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = s.String()
	}
	return fmt.Sprintf("transition %s -> %s not allowed (allowed from %s: [%s])",
		e.From, e.To, e.From, strings.Join(allowed, ", "))
}

// CheckTransition validates from -> to against the static table and returns a
// TransitionError on denial.
func CheckTransition(from, to WorkflowState) error {
	if from.CanTransitionTo(to) {
		return nil
	}
	return &TransitionError{From: from, To: to, Allowed: from.AllowedTransitions()}
}
