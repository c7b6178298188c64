package client

import (
	"context"
	"sync"
	"time"

	"github.com/tasklight/tasklight/internal/models"
)

// State is the controller's top-level lifecycle state.
type State int

const (
	StateBootstrapping State = iota
	StateUnauthenticated
	StateAuthenticated
)

// SyncStatus describes the persistence state while authenticated.
type SyncStatus int

const (
	StatusSynced SyncStatus = iota
	StatusSaving
	StatusError
)

// DefaultDebounce is the quiescence window that collapses a burst of edits
// into a single network write.
const DefaultDebounce = 500 * time.Millisecond

// Controller drives the client side of the sync protocol: it bootstraps the
// session, lazily loads lists once authenticated, and debounces outbound
// saves. All exported methods are safe for concurrent use.
type Controller struct {
	api      *API
	debounce time.Duration

	mu       sync.Mutex
	ctx      context.Context
	state    State
	status   SyncStatus
	user     *models.PublicUser
	lists    models.ListSet
	timer    *time.Timer
	gen      uint64 // bumped on every reschedule/cancel; stale timers check it
	onChange func()
}

// NewController wraps api. A zero debounce selects DefaultDebounce; tests
// pass something shorter.
func NewController(api *API, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		api:      api,
		debounce: debounce,
		ctx:      context.Background(),
		state:    StateBootstrapping,
		status:   StatusSynced,
		lists:    models.EmptyListSet(),
	}
}

// OnChange registers a callback invoked (outside the controller lock) after
// every observable state change.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Start probes the current session. With no live session the controller
// becomes unauthenticated; with one it becomes authenticated immediately and
// fetches the lists in the background, without blocking the transition.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	user, err := c.api.Session(ctx)
	if err != nil || user == nil {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.mu.Unlock()
		c.notify()
		return err
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.status = StatusSynced
	c.user = user
	c.mu.Unlock()
	c.notify()

	go c.refreshLists(ctx)
	return nil
}

func (c *Controller) refreshLists(ctx context.Context) {
	set, err := c.api.GetLists(ctx)

	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.status = StatusError
	} else {
		c.lists = set
	}
	c.mu.Unlock()
	c.notify()
}

// Login authenticates, fetches lists, and transitions to authenticated. On
// authentication failure the controller stays unauthenticated and the error
// carries the server's message.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	user, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.mu.Unlock()
		c.notify()
		return err
	}
	c.becomeAuthenticated(ctx, user)
	return nil
}

// Signup registers a new account and transitions to authenticated, like
// Login.
func (c *Controller) Signup(ctx context.Context, name, email, password string) error {
	user, err := c.api.Signup(ctx, name, email, password)
	if err != nil {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.mu.Unlock()
		c.notify()
		return err
	}
	c.becomeAuthenticated(ctx, user)
	return nil
}

func (c *Controller) becomeAuthenticated(ctx context.Context, user *models.PublicUser) {
	set, err := c.api.GetLists(ctx)

	c.mu.Lock()
	c.ctx = ctx
	c.state = StateAuthenticated
	c.user = user
	if err != nil {
		c.status = StatusError
		c.lists = models.EmptyListSet()
	} else {
		c.status = StatusSynced
		c.lists = set
	}
	c.mu.Unlock()
	c.notify()
}

// Mutate applies fn to the local lists and schedules a debounced save,
// canceling any previously scheduled one so a burst of edits collapses into
// one write carrying the latest state. Reports whether the mutation was
// applied (it is a no-op unless authenticated).
func (c *Controller) Mutate(fn func(*models.ListSet)) bool {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return false
	}

	fn(&c.lists)
	c.status = StatusSaving

	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.debounce, func() { c.flush(gen) })
	c.mu.Unlock()

	c.notify()
	return true
}

func (c *Controller) flush(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateAuthenticated {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	snapshot := cloneSet(c.lists)
	c.mu.Unlock()

	saved, err := c.api.SaveLists(ctx, snapshot)

	c.mu.Lock()
	if gen != c.gen || c.state != StateAuthenticated {
		// A newer edit or a logout superseded this write.
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.status = StatusError
	} else {
		c.lists = saved
		c.status = StatusSynced
	}
	c.mu.Unlock()
	c.notify()
}

// Logout discards local state and returns to unauthenticated, canceling any
// pending debounced save. A save already on the wire may still reach the
// server; that race is accepted.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.state = StateUnauthenticated
	c.user = nil
	c.lists = models.EmptyListSet()
	c.status = StatusSynced
	c.mu.Unlock()
	c.notify()

	return c.api.Logout(ctx)
}

// Close cancels any pending debounced save. The controller is not usable
// afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.mu.Unlock()
}

func (c *Controller) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the current sync status.
func (c *Controller) Status() SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// User returns the authenticated user, or nil.
func (c *Controller) User() *models.PublicUser {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Lists returns a copy of the local lists.
func (c *Controller) Lists() models.ListSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSet(c.lists)
}

func cloneSet(set models.ListSet) models.ListSet {
	out := models.ListSet{
		Private: make([]models.Task, len(set.Private)),
		Public:  make([]models.Task, len(set.Public)),
	}
	copy(out.Private, set.Private)
	copy(out.Public, set.Public)
	return out
}
