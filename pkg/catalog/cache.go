package catalog

import (
	"context"
	"errors"
	"sync"
)

// API is the remote side of the cache. *Client implements it.
type API interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, in NewProduct) (*Product, error)
	Update(ctx context.Context, p Product) (*Product, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Listener receives every state the store moves to
type Listener func(State)

// ErrStoreClosed is returned by operations that settle after Close
var ErrStoreClosed = errors.New("catalog: store closed")

// Store is a goroutine-safe product cache. Operations may run concurrently;
// their results are applied in the order they settle, so a slow stale
// response can overwrite a newer one.
//
// Listeners run synchronously in settlement order. They may call the
// read-only selectors but must not call the mutating methods of the same
// Store.
type Store struct {
	api API

	mu        sync.Mutex
	state     State
	closed    bool
	listeners map[int]Listener
	nextID    int
	nextSeq   uint64 // ticket of the next notification, guarded by mu

	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	delivered  uint64 // tickets fully notified, guarded by notifyMu
}

// NewStore creates an idle, empty store backed by api
func NewStore(api API) *Store {
	s := &Store{
		api:       api,
		state:     InitialState(),
		listeners: make(map[int]Listener),
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	return s
}

// Subscribe registers l and returns a function that removes it
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close detaches the store from its consumer. Operations still in flight
// settle silently and listeners are no longer called.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.listeners = make(map[int]Listener)
	s.mu.Unlock()
}

// dispatch reduces a into the state and notifies listeners.
// It reports false when the store is closed.
func (s *Store) dispatch(a Action) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.state = Reduce(s.state, a)
	snapshot := copyState(s.state)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	ticket := s.nextSeq
	s.nextSeq++
	s.mu.Unlock()

	s.notify(ticket, snapshot, listeners)
	return true
}

// notify delivers snapshot once every earlier ticket has been delivered,
// so listeners observe states in reduction order. mu is not held here.
func (s *Store) notify(ticket uint64, snapshot State, listeners []Listener) {
	s.notifyMu.Lock()
	for s.delivered != ticket {
		s.notifyCond.Wait()
	}
	s.notifyMu.Unlock()

	defer func() {
		s.notifyMu.Lock()
		s.delivered++
		s.notifyCond.Broadcast()
		s.notifyMu.Unlock()
	}()
	for _, l := range listeners {
		l(copyState(snapshot))
	}
}

// settle applies the outcome of op and returns the error seen by the caller
func (s *Store) settle(op Op, fulfilled Action, err error) error {
	if err != nil {
		if !s.dispatch(Action{Op: op, Phase: PhaseRejected, Err: rejectionMessage(err)}) {
			return ErrStoreClosed
		}
		return err
	}
	fulfilled.Op = op
	fulfilled.Phase = PhaseFulfilled
	if !s.dispatch(fulfilled) {
		return ErrStoreClosed
	}
	return nil
}

func rejectionMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// FetchAll replaces the cached collection with the server's
func (s *Store) FetchAll(ctx context.Context) error {
	if !s.dispatch(Action{Op: OpFetchAll, Phase: PhasePending}) {
		return ErrStoreClosed
	}
	products, err := s.api.List(ctx)
	return s.settle(OpFetchAll, Action{Products: products}, err)
}

// FetchOne loads one product, upserts it and selects it
func (s *Store) FetchOne(ctx context.Context, id int64) error {
	if !s.dispatch(Action{Op: OpFetchOne, Phase: PhasePending}) {
		return ErrStoreClosed
	}
	p, err := s.api.Get(ctx, id)
	return s.settle(OpFetchOne, Action{Product: p}, err)
}

// Create adds a product on the server, then to the cache
func (s *Store) Create(ctx context.Context, in NewProduct) (*Product, error) {
	if !s.dispatch(Action{Op: OpCreate, Phase: PhasePending}) {
		return nil, ErrStoreClosed
	}
	p, err := s.api.Create(ctx, in)
	if err := s.settle(OpCreate, Action{Product: p}, err); err != nil {
		return nil, err
	}
	return cloneProduct(p), nil
}

// Update writes p to the server, then patches the cache
func (s *Store) Update(ctx context.Context, p Product) (*Product, error) {
	if !s.dispatch(Action{Op: OpUpdate, Phase: PhasePending}) {
		return nil, ErrStoreClosed
	}
	updated, err := s.api.Update(ctx, p)
	if err := s.settle(OpUpdate, Action{Product: updated}, err); err != nil {
		return nil, err
	}
	return cloneProduct(updated), nil
}

// Delete removes a product on the server, then from the cache
func (s *Store) Delete(ctx context.Context, id int64) error {
	if !s.dispatch(Action{Op: OpDelete, Phase: PhasePending}) {
		return ErrStoreClosed
	}
	deleted, err := s.api.Delete(ctx, id)
	return s.settle(OpDelete, Action{ID: deleted}, err)
}

// ClearSelected drops the selection without touching status
func (s *Store) ClearSelected() {
	s.dispatch(Action{Op: OpClearSelected})
}

// Snapshot returns a copy of the whole state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// Products returns the cached collection
func (s *Store) Products() []Product {
	return s.Snapshot().Entities
}

// Status returns the lifecycle status
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

// Err returns the last failure message, "" if none
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Error
}

// Selected returns the selected product, or nil
func (s *Store) Selected() *Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProduct(s.state.Selected)
}

func copyState(st State) State {
	st.Entities = cloneProducts(st.Entities)
	st.Selected = cloneProduct(st.Selected)
	return st
}
