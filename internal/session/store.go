package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrStale is returned by BatchAt when the session was backed out of or reset
// after the caller read its generation.
var ErrStale = errors.New("session moved on")

// Listener is notified after each successful transition.
type Listener func(prev, next State, a Action)

// Store serializes transitions for one session. It also owns the background
// tasks started on the session's behalf, which are cancelled on back and reset.
type Store struct {
	id        string
	mu        sync.Mutex
	state     State
	gen       uint64
	listeners map[int]Listener
	nextID    int
	tasks     map[int]context.CancelFunc
	nextTask  int
	touched   time.Time
}

// NewStore returns a store at the initial state with a random id.
func NewStore() *Store {
	return newStore(uuid.NewString())
}

func newStore(id string) *Store {
	return &Store{
		id:        id,
		state:     Initial(),
		listeners: make(map[int]Listener),
		tasks:     make(map[int]context.CancelFunc),
		touched:   time.Now(),
	}
}

// ID is the client session id the store belongs to.
func (s *Store) ID() string { return s.id }

// Generation identifies the current document lifecycle. It advances on every
// back and reset.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a single action.
func (s *Store) Dispatch(a Action) (State, error) {
	return s.Batch(nil, a)
}

// Batch applies actions atomically after guard approves the current state.
// If guard or any action fails, no action is applied.
func (s *Store) Batch(guard func(State) error, actions ...Action) (State, error) {
	return s.batch(nil, guard, actions)
}

// BatchAt is Batch for work started at generation gen. It fails with ErrStale,
// applying nothing, once the session has been backed out of or reset.
func (s *Store) BatchAt(gen uint64, guard func(State) error, actions ...Action) (State, error) {
	return s.batch(&gen, guard, actions)
}

func (s *Store) batch(gen *uint64, guard func(State) error, actions []Action) (State, error) {
	s.mu.Lock()
	s.touched = time.Now()
	if gen != nil && *gen != s.gen {
		st := s.state
		s.mu.Unlock()
		return st, ErrStale
	}
	if guard != nil {
		if err := guard(s.state); err != nil {
			st := s.state
			s.mu.Unlock()
			return st, err
		}
	}

	prev := s.state
	next := prev
	type step struct {
		prev, next State
		a          Action
	}
	steps := make([]step, 0, len(actions))
	for _, a := range actions {
		after, err := Reduce(next, a)
		if err != nil {
			s.mu.Unlock()
			return prev, err
		}
		steps = append(steps, step{prev: next, next: after, a: a})
		next = after
	}
	s.state = next

	var cancel []context.CancelFunc
	for _, a := range actions {
		if a.Type == ActionClearDocument || a.Type == ActionResetState {
			s.gen++
			cancel = s.drainTasksLocked()
			break
		}
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, c := range cancel {
		c()
	}
	for _, st := range steps {
		for _, l := range listeners {
			l(st.prev, st.next, st.a)
		}
	}
	return next, nil
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Go runs fn in a goroutine bound to the session. The context passed to fn is
// cancelled on back, reset or Close. The returned function cancels the task early.
func (s *Store) Go(parent context.Context, fn func(ctx context.Context)) context.CancelFunc {
	ctx, release := s.Bind(parent)
	go func() {
		defer release()
		fn(ctx)
	}()
	return release
}

// Bind derives a context from parent that is cancelled on back, reset or
// Close. Callers must call the returned function when the work is done.
func (s *Store) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	id := s.nextTask
	s.nextTask++
	s.tasks[id] = cancel
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		delete(s.tasks, id)
		s.mu.Unlock()
		cancel()
	}
}

// Tasks returns the number of running background tasks.
func (s *Store) Tasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close cancels every background task.
func (s *Store) Close() {
	s.mu.Lock()
	cancel := s.drainTasksLocked()
	s.mu.Unlock()
	for _, c := range cancel {
		c()
	}
}

func (s *Store) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Store) drainTasksLocked() []context.CancelFunc {
	out := make([]context.CancelFunc, 0, len(s.tasks))
	for id, c := range s.tasks {
		out = append(out, c)
		delete(s.tasks, id)
	}
	return out
}
