package navigation

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/browsim/internal/domain/history"
	"github.com/GriffinCanCode/browsim/internal/domain/resolver"
	"github.com/GriffinCanCode/browsim/internal/domain/tabs"
	"github.com/GriffinCanCode/browsim/internal/shared/id"
)

// Listener is called with the new state after every intent. Calls are
// serialized and arrive in intent order. A listener must not call back into
// the Coordinator; it should hand the snapshot off and return.
type Listener func(State)

// Coordinator handles user intents one at a time
type Coordinator struct {
	mu       sync.Mutex
	notifyMu sync.Mutex // held across listener calls so notifications stay ordered

	resolver *resolver.Resolver
	tabs     *tabs.Collection
	history  *history.Store
	logger   *zap.Logger
	metrics  Recorder

	pendingInput string
	current      *resolver.Destination

	listenersMu  sync.RWMutex
	listeners    []subscription // ordered by key
	nextListener int
}

type subscription struct {
	key int
	fn  Listener
}

// Option customises a Coordinator
type Option func(*Coordinator)

// WithLogger sets the logger. Default: no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.metrics = r
		}
	}
}

// New creates a coordinator over the given components
func New(res *resolver.Resolver, tabCollection *tabs.Collection, store *history.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		resolver:  res,
		tabs:      tabCollection,
		history:   store,
		logger:    zap.NewNop(),
		metrics:   nopRecorder{},
	}
	for _, o := range opts {
		o(c)
	}
	c.syncFromActive()
	return c
}

// Hydrate loads persisted history. A read failure leaves history empty and is returned.
func (c *Coordinator) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.history.Load(ctx)
	c.updateGauges()
	return err
}

// Submit navigates the active tab to the resolved input. Blank input is ignored.
func (c *Coordinator) Submit(ctx context.Context, text string) State {
	return c.run(IntentSubmit, func() error {
		dest, err := c.resolver.Resolve(text)
		if errors.Is(err, resolver.ErrEmptyInput) {
			return nil
		}
		if err != nil {
			return err
		}

		// The visit is already applied in memory; finish writing it even if the caller left
		if _, err := c.history.Append(context.WithoutCancel(ctx), dest.ResolvedURL, dest.RawQuery); err != nil {
			c.persistFailed("append", err)
		}
		c.tabs.UpdateActive(dest.ResolvedURL, dest.RawQuery)
		c.pendingInput = dest.RawQuery
		c.current = &dest

		c.logger.Debug("Navigated",
			zap.String("query", dest.RawQuery),
			zap.String("url", dest.ResolvedURL),
		)
		return nil
	})
}

// NewTab opens a blank tab and clears the address bar
func (c *Coordinator) NewTab() State {
	return c.run(IntentNewTab, func() error {
		tab := c.tabs.Add()
		c.pendingInput = ""
		c.current = nil

		c.logger.Debug("Tab opened", zap.String("tab_id", tab.ID.String()))
		return nil
	})
}

// CloseTab closes a tab. Closing the only tab is a no-op; an unknown ID
// returns tabs.ErrTabNotFound and changes nothing.
func (c *Coordinator) CloseTab(tabID id.TabID) (State, error) {
	return c.runErr(IntentCloseTab, func() error {
		res, err := c.tabs.Close(tabID)
		if err != nil {
			c.logger.Warn("Close requested for unknown tab", zap.String("tab_id", tabID.String()))
			return err
		}
		if res.Closed && res.WasActive {
			c.syncFromActive()
		}
		return nil
	})
}

// SwitchTab activates a tab. An unknown ID returns tabs.ErrTabNotFound and changes nothing.
func (c *Coordinator) SwitchTab(tabID id.TabID) (State, error) {
	return c.runErr(IntentSwitchTab, func() error {
		if _, err := c.tabs.SwitchTo(tabID); err != nil {
			c.logger.Warn("Switch requested to unknown tab", zap.String("tab_id", tabID.String()))
			return err
		}
		c.syncFromActive()
		return nil
	})
}

// OpenHistory replays an entry into the active tab. No history is recorded.
func (c *Coordinator) OpenHistory(entry history.Entry) State {
	return c.run(IntentOpenHistory, func() error {
		c.openEntry(entry)
		return nil
	})
}

// OpenHistoryByID replays the entry with the given ID
func (c *Coordinator) OpenHistoryByID(entryID id.EntryID) (State, error) {
	return c.runErr(IntentOpenHistory, func() error {
		entry, err := c.history.Get(entryID)
		if err != nil {
			return err
		}
		c.openEntry(entry)
		return nil
	})
}

// ClearHistory empties the history log
func (c *Coordinator) ClearHistory(ctx context.Context) State {
	return c.run(IntentClearHistory, func() error {
		if err := c.history.Clear(context.WithoutCancel(ctx)); err != nil {
			c.persistFailed("clear", err)
		}
		return nil
	})
}

// SetInput records address bar edits without navigating
func (c *Coordinator) SetInput(text string) State {
	return c.run(IntentInput, func() error {
		c.pendingInput = text
		return nil
	})
}

// State returns the current snapshot
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subscribe registers a listener and returns a function that removes it
func (c *Coordinator) Subscribe(l Listener) (unsubscribe func()) {
	return c.subscribe(l, false)
}

// Watch is Subscribe, but l first receives the current state. No change is
// missed or delivered out of order between that snapshot and later ones.
func (c *Coordinator) Watch(l Listener) (unsubscribe func()) {
	return c.subscribe(l, true)
}

func (c *Coordinator) subscribe(l Listener, replay bool) func() {
	c.mu.Lock()

	c.listenersMu.Lock()
	key := c.nextListener
	c.nextListener++
	c.listeners = append(c.listeners, subscription{key: key, fn: l})
	c.listenersMu.Unlock()

	if replay {
		state := c.snapshot()
		c.notifyMu.Lock()
		c.mu.Unlock()
		l(state)
		c.notifyMu.Unlock()
	} else {
		c.mu.Unlock()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.listenersMu.Lock()
			c.listeners = slices.DeleteFunc(c.listeners, func(s subscription) bool { return s.key == key })
			c.listenersMu.Unlock()
		})
	}
}

func (c *Coordinator) run(intent Intent, fn func() error) State {
	state, _ := c.runErr(intent, fn)
	return state
}

// runErr executes fn under the intent lock, then notifies listeners in
// subscription order.
// Listeners are skipped when fn fails, since nothing changed.
func (c *Coordinator) runErr(intent Intent, fn func() error) (State, error) {
	c.mu.Lock()
	err := fn()
	c.checkInvariant(intent)
	c.updateGauges()
	state := c.snapshot()

	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	c.metrics.RecordIntent(string(intent))
	if err != nil {
		return state, err
	}

	c.listenersMu.RLock()
	listeners := slices.Clone(c.listeners)
	c.listenersMu.RUnlock()

	for _, s := range listeners {
		s.fn(state)
	}
	return state, nil
}

func (c *Coordinator) openEntry(entry history.Entry) {
	c.pendingInput = entry.Title
	c.current = &resolver.Destination{
		RawQuery:    entry.Title,
		ResolvedURL: entry.URL,
	}
	c.tabs.UpdateActive(entry.URL, entry.Title)
}

// syncFromActive derives address bar text and destination from the active tab.
// A blank tab has neither.
func (c *Coordinator) syncFromActive() {
	tab := c.tabs.Active()
	if tab.IsBlank() {
		c.pendingInput = ""
		c.current = nil
		return
	}
	c.pendingInput = tab.Title
	c.current = &resolver.Destination{
		RawQuery:    tab.Title,
		ResolvedURL: tab.URL,
	}
}

func (c *Coordinator) snapshot() State {
	state := State{
		ActiveTabID:  c.tabs.Active().ID,
		Tabs:         c.tabs.List(),
		Closable:     c.tabs.Closable(),
		History:      c.history.LoadAll(),
		PendingInput: c.pendingInput,
	}
	if c.current != nil {
		dest := *c.current
		state.Current = &dest
		state.Viewer = &Viewer{Src: dest.ResolvedURL, Sandbox: SandboxPolicy}
	}
	return state
}

func (c *Coordinator) checkInvariant(intent Intent) {
	if err := c.tabs.CheckInvariant(); err != nil {
		// DPanic panics in development loggers and logs otherwise
		c.logger.DPanic("Tab invariant violated",
			zap.String("intent", string(intent)),
			zap.Error(err),
		)
	}
}

func (c *Coordinator) updateGauges() {
	c.metrics.SetTabsOpen(c.tabs.Len())
	c.metrics.SetHistoryEntries(c.history.Len())
}

func (c *Coordinator) persistFailed(op string, err error) {
	c.metrics.RecordPersistError()
	c.logger.Error("Failed to persist history",
		zap.String("op", op),
		zap.Error(err),
	)
}
