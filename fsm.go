// Package tickfsm provides a minimal, tick-driven Finite State Machine driver for Go.
//
// A machine is bound to an owner value and a closed set of states. Each state may define up to three callbacks:
//   - Init runs once when the state is entered.
//   - Proc runs once per Update while the machine rests in the state.
//   - Term runs once when the state is exited.
//
// Callbacks may call Set on the machine to request the next state. The transition is realised lazily on the next
// call to Update, which first settles every pending transition (including transitions requested from Init
// callbacks, which chain within the same Update) and then runs the settled state's Proc callback exactly once.
//
// Usage:
//
//	// Define your states as a custom unsigned type.
//	type State uint
//
//	// Create a new specification builder for an owner type.
//	builder := tickfsm.NewSpecBuilder[State, *Owner](numStates)
//
//	// Define the callbacks each state needs. Missing callbacks are no-ops.
//	builder.State(Start).OnInit(...)
//	builder.State(Running).OnProc(...).OnTerm(...)
//
//	// Build the specification (thread-safe, read-only).
//	spec := builder.Build()
//
//	// Bind a machine to its owner. It starts in state 0.
//	machine, err := tickfsm.New(spec, owner)
//
//	// Drive it on whatever cadence suits the caller.
//	for !machine.IsIn(Done) {
//		if err := machine.Update(ctx); err != nil { ... }
//	}
package tickfsm

import (
	"context"
	"fmt"
	"strings"
)

// Callback is a lifecycle callback invoked with the machine's owner.
type Callback[O any] func(ctx context.Context, owner O) error

// StateCallbacks holds the callbacks of a single state. A nil field is an absent callback.
type StateCallbacks[O any] struct {
	Init Callback[O]
	Proc Callback[O]
	Term Callback[O]
}

type specBuilder[S ~uint, O any] struct {
	stateCount    uint
	stateBuilders []*stateBuilder[S, O]
}

// NewSpecBuilder creates a new specBuilder used for building specifications for a closed set of states [0, numStates).
func NewSpecBuilder[S ~uint, O any](numStates uint) *specBuilder[S, O] {
	if numStates == 0 {
		panic("number of states must be greater than zero")
	}

	return &specBuilder[S, O]{
		stateCount: numStates,
	}
}

// State begins the definition of the callbacks for a state.
func (b *specBuilder[S, O]) State(state S) *stateBuilder[S, O] {
	sb := &stateBuilder[S, O]{
		b:     b,
		state: state,
	}
	b.stateBuilders = append(b.stateBuilders, sb)
	return sb
}

// Build finalizes the specification and returns a new Spec instance.
//
// It panics if a state is outside the declared range or if the same state is defined more than once.
func (b *specBuilder[S, O]) Build() *Spec[S, O] {
	callbacks := make([]StateCallbacks[O], b.stateCount)
	defined := make([]bool, b.stateCount)
	for _, sb := range b.stateBuilders {
		if uint(sb.state) >= b.stateCount {
			panic(fmt.Sprintf("state (%v) is outside the declared range of %d states", sb.state, b.stateCount))
		}
		if defined[sb.state] {
			panic(fmt.Sprintf("state (%v) is defined more than once", sb.state))
		}
		defined[sb.state] = true
		callbacks[sb.state] = sb.callbacks
	}
	b.stateBuilders = nil // Remove circular references.

	return &Spec[S, O]{
		stateCount: b.stateCount,
		callbacks:  callbacks,
	}
}

type stateBuilder[S ~uint, O any] struct {
	b         *specBuilder[S, O]
	state     S
	callbacks StateCallbacks[O]
}

// OnInit sets the Init callback for the state. It is called once when the state is entered.
//
// An Init callback may call Set to move on immediately. The machine then exits the state without ever running its
// Proc callback.
func (sb *stateBuilder[S, O]) OnInit(cb Callback[O]) *stateBuilder[S, O] {
	sb.callbacks.Init = cb
	return sb
}

// OnProc sets the Proc callback for the state. It is called once per Update while the machine rests in the state.
func (sb *stateBuilder[S, O]) OnProc(cb Callback[O]) *stateBuilder[S, O] {
	sb.callbacks.Proc = cb
	return sb
}

// OnTerm sets the Term callback for the state. It is called once when the state is exited.
func (sb *stateBuilder[S, O]) OnTerm(cb Callback[O]) *stateBuilder[S, O] {
	sb.callbacks.Term = cb
	return sb
}

// Spec is the resolved callback table for a closed set of states. It is built once and never changes, making it safe
// to share between machines and goroutines.
type Spec[S ~uint, O any] struct {
	stateCount uint
	callbacks  []StateCallbacks[O]
}

// NumStates returns the number of declared states.
func (spec *Spec[S, O]) NumStates() uint {
	return spec.stateCount
}

// Callbacks returns the callbacks resolved for state. The boolean is false if state is out of range.
func (spec *Spec[S, O]) Callbacks(state S) (StateCallbacks[O], bool) {
	if !spec.contains(state) {
		return StateCallbacks[O]{}, false
	}
	return spec.callbacks[state], true
}

func (spec *Spec[S, O]) contains(state S) bool {
	return uint(state) < spec.stateCount
}

// MermaidJSDiagram returns a state diagram in Mermaid.js syntax for the Spec.
//
// Transitions are requested at runtime from callback bodies, so the diagram lists the declared states, the default
// start state and the callbacks each state defines.
func (spec *Spec[S, O]) MermaidJSDiagram() string {
	var diagram strings.Builder
	diagram.WriteString("stateDiagram-v2\n")
	diagram.WriteString("[*] --> " + fmt.Sprintf("%v", S(0)) + "\n")
	for state := uint(0); state < spec.stateCount; state++ {
		name := fmt.Sprintf("%v", S(state))
		cbs := spec.callbacks[state]
		var defined []string
		if cbs.Init != nil {
			defined = append(defined, "Init")
		}
		if cbs.Proc != nil {
			defined = append(defined, "Proc")
		}
		if cbs.Term != nil {
			defined = append(defined, "Term")
		}
		if len(defined) == 0 {
			diagram.WriteString(name + "\n")
			continue
		}
		diagram.WriteString(name + " : " + strings.Join(defined, ", ") + "\n")
	}
	return diagram.String()
}
