package fsm

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
)

// State is one node of the game-flow graph.
type State string

const (
	Loading       State = "LOADING"
	HomeRoom      State = "HOME_ROOM"
	EnteringArena State = "ENTERING_ARENA"
	GuidedIntro   State = "GUIDED_INTRO"
	ArenaActive   State = "ARENA_ACTIVE"
	Success       State = "SUCCESS"
	PostSuccess   State = "POST_SUCCESS"
	Share         State = "SHARE"
	ReturningHome State = "RETURNING_HOME"
)

var ErrUnknownState = errors.New("fsm: unknown state")

// Graph is the adjacency table: state -> states it may move to.
type Graph map[State][]State

// DefaultGraph returns the flow shared by every variant.
func DefaultGraph() Graph {
	return Graph{
		Loading:       {HomeRoom},
		HomeRoom:      {EnteringArena},
		EnteringArena: {GuidedIntro, ArenaActive},
		GuidedIntro:   {ArenaActive},
		ArenaActive:   {Success, ReturningHome},
		Success:       {PostSuccess},
		PostSuccess:   {Share, ReturningHome},
		Share:         {ReturningHome},
		ReturningHome: {HomeRoom},
	}
}

// Validate checks that Loading is present and every edge points at a declared state.
func (g Graph) Validate() error {
	if _, ok := g[Loading]; !ok {
		return fmt.Errorf("graph has no %s state: %w", Loading, ErrUnknownState)
	}
	for from, targets := range g {
		for _, to := range targets {
			if _, ok := g[to]; !ok {
				return fmt.Errorf("edge %s -> %s: %w", from, to, ErrUnknownState)
			}
			if to == Loading {
				return fmt.Errorf("edge %s -> %s: %s is only reachable at construction", from, to, Loading)
			}
		}
	}
	return nil
}

// States lists the graph's states in a stable order.
func (g Graph) States() []State {
	out := make([]State, 0, len(g))
	for s := range g {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g Graph) Allows(from, to State) bool {
	for _, s := range g[from] {
		if s == to {
			return true
		}
	}
	return false
}

// EnterFunc runs after the machine has moved into a state. It receives the
// state that was left.
type EnterFunc func(from State)

// ChangeFunc observes every accepted transition.
type ChangeFunc func(from, to State)

// Machine holds exactly one current state. It has no timers and never queues:
// a handler that needs to wait schedules its own work and calls Transition
// again when done.
type Machine struct {
	graph    Graph
	current  State
	enter    map[State][]EnterFunc
	onChange []ChangeFunc
	logger   *log.Logger
}

type Option func(*Machine)

func WithLogger(l *log.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// New builds a machine parked in Loading.
func New(g Graph, opts ...Option) (*Machine, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		graph:   g,
		current: Loading,
		enter:   make(map[State][]EnterFunc),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// On registers an enter handler. Handlers for a state run in registration order.
func (m *Machine) On(s State, fn EnterFunc) {
	if fn == nil {
		return
	}
	m.enter[s] = append(m.enter[s], fn)
}

func (m *Machine) OnChange(fn ChangeFunc) {
	if fn == nil {
		return
	}
	m.onChange = append(m.onChange, fn)
}

// Transition moves to target if the graph allows it from the current state.
// Rejected requests are logged and leave the machine untouched.
func (m *Machine) Transition(target State) bool {
	if !m.graph.Allows(m.current, target) {
		m.logger.Printf("fsm: invalid transition %s -> %s", m.current, target)
		return false
	}
	from := m.current
	m.current = target

	for _, fn := range m.onChange {
		fn(from, target)
	}
	// Copy so a handler registering more handlers does not affect this pass.
	handlers := append([]EnterFunc(nil), m.enter[target]...)
	for _, fn := range handlers {
		fn(from)
	}
	return true
}

func (m *Machine) Is(s State) bool {
	return m.current == s
}

// In reports whether the current state is any of states.
func (m *Machine) In(states ...State) bool {
	for _, s := range states {
		if m.current == s {
			return true
		}
	}
	return false
}

func (m *Machine) Current() State {
	return m.current
}

func (m *Machine) CanTransition(target State) bool {
	return m.graph.Allows(m.current, target)
}
