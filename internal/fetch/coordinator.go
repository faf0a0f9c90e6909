package fetch

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a load whose result was discarded because a
// newer load for the same view started before it finished.
var ErrSuperseded = errors.New("fetch: superseded by a newer request")

// Coordinator hands out generation tickets per view key. Starting a new
// ticket cancels the previous one for that key.
type Coordinator struct {
	mu    sync.Mutex
	views map[string]*view
}

type view struct {
	generation uint64
	cancel     context.CancelFunc
}

func NewCoordinator() *Coordinator {
	return &Coordinator{views: make(map[string]*view)}
}

// Ticket identifies one generation of a view's load.
type Ticket struct {
	ctx        context.Context
	cancel     context.CancelFunc
	key        string
	generation uint64
	owner      *Coordinator
}

// Begin starts a new generation for key and cancels the one in flight.
func (c *Coordinator) Begin(ctx context.Context, key string) *Ticket {
	loadCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.views[key]
	if !ok {
		v = &view{}
		c.views[key] = v
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.generation++
	v.cancel = cancel

	return &Ticket{
		ctx:        loadCtx,
		cancel:     cancel,
		key:        key,
		generation: v.generation,
		owner:      c,
	}
}

// Generation reports the latest generation started for key.
func (c *Coordinator) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.views[key]; ok {
		return v.generation
	}
	return 0
}

func (t *Ticket) Context() context.Context { return t.ctx }

func (t *Ticket) Generation() uint64 { return t.generation }

// Current reports whether no newer ticket has been issued for the key.
func (t *Ticket) Current() bool {
	return t.owner.Generation(t.key) == t.generation
}

// Done releases the ticket's context. The view entry is dropped only if
// this ticket is still the latest one.
func (t *Ticket) Done() {
	t.cancel()

	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if v, ok := t.owner.views[t.key]; ok && v.generation == t.generation {
		v.cancel = nil
	}
}

// Do runs fn under a fresh ticket for key. The result is returned only when
// no newer call for the same key started meanwhile; otherwise ErrSuperseded.
func Do[T any](ctx context.Context, c *Coordinator, key string, fn func(context.Context) (T, error)) (T, error) {
	ticket := c.Begin(ctx, key)
	defer ticket.Done()

	result, err := fn(ticket.Context())

	var zero T
	if !ticket.Current() {
		return zero, ErrSuperseded
	}
	if err != nil {
		return zero, err
	}
	return result, nil
}
