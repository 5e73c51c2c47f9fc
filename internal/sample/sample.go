// Package sample contains the reference owner used by the demo: a three-state machine that starts in Init, chains
// straight into State0, and moves on to State1 from State0's Proc callback.
package sample

import (
	"context"
	"fmt"

	"github.com/enetx/g"
	"github.com/tobbstr/tickfsm"
)

// State is a state of the sample machine.
type State uint

const (
	Init State = iota
	State0
	State1
	numStates
)

func (s State) String() string {
	switch s {
	case Init:
		return "Init"
	case State0:
		return "State0"
	case State1:
		return "State1"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// spec is shared by every SampleSM; it is read-only once built.
var spec = buildSpec()

func buildSpec() *tickfsm.Spec[State, *SampleSM] {
	b := tickfsm.NewSpecBuilder[State, *SampleSM](uint(numStates))
	b.State(Init).
		OnInit(func(ctx context.Context, s *SampleSM) error { return s.initInit() })
	b.State(State0).
		OnProc(func(ctx context.Context, s *SampleSM) error { return s.state0Proc() }).
		OnTerm(func(ctx context.Context, s *SampleSM) error { return s.state0Term() })
	return b.Build()
}

// SampleSM owns a state machine and records every callback the machine invokes on it.
type SampleSM struct {
	state *tickfsm.Machine[State, *SampleSM]
	trace g.Slice[g.String]
}

// New creates a SampleSM resting before its first update in Init.
func New(opts ...tickfsm.Option) *SampleSM {
	s := &SampleSM{}
	s.state = tickfsm.MustNew(spec, s, opts...)
	return s
}

// Update advances the machine by one tick.
func (s *SampleSM) Update(ctx context.Context) error {
	return s.state.Update(ctx)
}

// IsEnd reports whether the machine has settled in State1.
func (s *SampleSM) IsEnd() bool {
	return s.state.IsIn(State1)
}

// Trace returns a copy of the callbacks invoked so far, in order.
func (s *SampleSM) Trace() g.Slice[g.String] {
	return s.trace.Clone()
}

// Diagram renders the sample machine as a Mermaid.js state diagram.
func Diagram() string {
	return spec.MermaidJSDiagram()
}

func (s *SampleSM) initInit() error {
	s.trace.Push("Init_Init")
	s.state.Set(State0) // Chaining inits is fine.
	return nil
}

func (s *SampleSM) state0Proc() error {
	s.trace.Push("State0_Proc")
	s.state.Set(State1)
	return nil
}

func (s *SampleSM) state0Term() error {
	s.trace.Push("State0_Term")
	return nil
}
