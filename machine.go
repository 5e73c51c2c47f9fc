package tickfsm

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
)

// noState marks that no state has settled since the machine was created or last reset with Init.
const noState = -1

// Machine drives the callbacks of a Spec against a single owner. It keeps track of the last settled state and the
// state requested next, and realises transitions on Update.
//
// A Machine is not safe for concurrent use. Callbacks may call Set and Init on the machine they run on, but not Update.
type Machine[S ~uint, O any] struct {
	spec     Spec[S, O]
	owner    O
	previous int
	current  S
	updating bool

	logger   *slog.Logger
	maxChain int
}

// New creates a new machine bound to owner and initialised to state 0.
//
// It returns ErrNilOwner if owner is nil.
func New[S ~uint, O any](spec *Spec[S, O], owner O, opts ...Option) (*Machine[S, O], error) {
	if isNil(owner) {
		return nil, ErrNilOwner
	}

	o := options{logger: Logger}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Machine[S, O]{
		spec:     *spec,
		owner:    owner,
		logger:   o.logger,
		maxChain: o.maxChain,
	}
	m.Init(0)
	return m, nil
}

// MustNew works like New but panics if the machine cannot be created.
func MustNew[S ~uint, O any](spec *Spec[S, O], owner O, opts ...Option) *Machine[S, O] {
	m, err := New(spec, owner, opts...)
	if err != nil {
		panic(fmt.Sprintf("creating state machine: %v", err))
	}
	return m
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// State returns the last settled state, i.e. the state whose transition fully completed. The boolean is false until
// the first Update after New or Init.
func (m *Machine[S, O]) State() (S, bool) {
	if m.previous == noState {
		var zero S
		return zero, false
	}
	return S(m.previous), true
}

// IsIn reports whether the machine has settled in state.
func (m *Machine[S, O]) IsIn(state S) bool {
	return m.previous != noState && S(m.previous) == state
}

// Pending returns the state the next Update settles on. It equals the settled state when no transition is pending.
func (m *Machine[S, O]) Pending() S {
	return m.current
}

// Set requests a transition to state. No callback runs until the next Update.
//
// Set panics with an error wrapping ErrStateOutOfRange if state was not declared.
func (m *Machine[S, O]) Set(state S) {
	m.mustContain(state)
	m.current = state
}

// Init resets the machine into state. Any pending transition is dropped and the Term callback of the state being
// left is not run. The next Update runs the Init callback of state.
//
// Init panics with an error wrapping ErrStateOutOfRange if state was not declared.
func (m *Machine[S, O]) Init(state S) {
	m.mustContain(state)
	m.previous = noState
	m.current = state
}

func (m *Machine[S, O]) mustContain(state S) {
	if !m.spec.contains(state) {
		panic(fmt.Errorf("state (%v) with %d declared states: %w", state, m.spec.stateCount, ErrStateOutOfRange))
	}
}

// Update settles all pending transitions and then runs the Proc callback of the settled state once.
//
// While the requested state differs from the settled one, the settled state's Term callback runs, the requested state
// becomes the settled one and its Init callback runs. An Init callback that calls Set chains into a further transition
// within the same Update, so Proc only ever runs for the state the machine rests in.
//
// A callback error aborts Update and is returned as a *CallbackError. Callbacks that already ran are not undone.
func (m *Machine[S, O]) Update(ctx context.Context) error {
	if m.updating {
		return ErrReentrantUpdate
	}
	m.updating = true
	defer func() { m.updating = false }()

	chain := 0
	for m.previous != int(m.current) {
		if m.maxChain > 0 && chain >= m.maxChain {
			return fmt.Errorf("settling state (%v) after %d transitions: %w", m.current, chain, ErrChainLimitExceeded)
		}
		chain++

		from := m.previous
		if from != noState {
			if term := m.spec.callbacks[from].Term; term != nil {
				if err := term(ctx, m.owner); err != nil {
					return callbackError(KindTerm, S(from), err)
				}
			}
		}

		m.previous = int(m.current)
		m.logTransition(ctx, from, m.current, chain)

		if init := m.spec.callbacks[m.previous].Init; init != nil {
			if err := init(ctx, m.owner); err != nil {
				return callbackError(KindInit, S(m.previous), err)
			}
		}
	}

	if proc := m.spec.callbacks[m.current].Proc; proc != nil {
		if err := proc(ctx, m.owner); err != nil {
			return callbackError(KindProc, m.current, err)
		}
	}
	return nil
}

func callbackError[S ~uint](kind CallbackKind, state S, err error) error {
	return &CallbackError{Kind: kind, State: fmt.Sprintf("%v", state), Err: err}
}

func (m *Machine[S, O]) logTransition(ctx context.Context, from int, to S, chain int) {
	if !m.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	attrs := []slog.Attr{slog.String("to", fmt.Sprintf("%v", to)), slog.Int("chain", chain)}
	if from != noState {
		attrs = append(attrs, slog.String("from", fmt.Sprintf("%v", S(from))))
	}
	m.logger.LogAttrs(ctx, slog.LevelDebug, "state entered", attrs...)
}
