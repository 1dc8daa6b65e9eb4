// Package tabs implements the ordered tab collection with a single active tab.
//
// The collection is never empty and exactly one tab is active at all times.
// Closing the sole tab is a no-op. Closing the active tab activates the tab
// that slides into its slot, or the new last tab when the closed tab was last.
package tabs

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/browsim/internal/shared/id"
)

// DefaultTitle is the title of a blank tab
const DefaultTitle = "New Tab"

// ErrTabNotFound is returned when no tab has the requested ID
var ErrTabNotFound = errors.New("tab not found")

// Tab is one navigable slot
type Tab struct {
	ID       id.TabID `json:"id"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	IsActive bool     `json:"is_active"`
}

// IsBlank reports whether the tab has never navigated
func (t Tab) IsBlank() bool {
	return t.URL == ""
}

// CloseResult describes the outcome of Close
type CloseResult struct {
	Closed    bool // false when the tab was the only one
	WasActive bool // the closed tab held activation
	Active    Tab  // the active tab after the call
}

// Collection owns the tab records. It is not safe for concurrent use;
// the navigation coordinator serializes access.
type Collection struct {
	tabs []Tab
	ids  *id.Generator
}

// New creates a collection holding one active blank tab
func New() *Collection {
	return NewWithGenerator(id.Default())
}

// NewWithGenerator creates a collection using gen for tab IDs
func NewWithGenerator(gen *id.Generator) *Collection {
	c := &Collection{ids: gen}
	c.tabs = []Tab{c.blank(true)}
	return c
}

// Add deactivates every tab and appends a new active blank tab
func (c *Collection) Add() Tab {
	for i := range c.tabs {
		c.tabs[i].IsActive = false
	}
	tab := c.blank(true)
	c.tabs = append(c.tabs, tab)
	return tab
}

// Close removes the tab with the given ID unless it is the only tab
func (c *Collection) Close(tabID id.TabID) (CloseResult, error) {
	index := c.indexOf(tabID)
	if index < 0 {
		return CloseResult{Active: c.Active()}, fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}
	if len(c.tabs) == 1 {
		return CloseResult{Active: c.tabs[0]}, nil
	}

	wasActive := c.tabs[index].IsActive
	c.tabs = append(c.tabs[:index], c.tabs[index+1:]...)

	if wasActive {
		next := min(index, len(c.tabs)-1)
		c.tabs[next].IsActive = true
	}

	return CloseResult{
		Closed:    true,
		WasActive: wasActive,
		Active:    c.Active(),
	}, nil
}

// SwitchTo activates the tab with the given ID. An unknown ID leaves
// activation unchanged.
func (c *Collection) SwitchTo(tabID id.TabID) (Tab, error) {
	index := c.indexOf(tabID)
	if index < 0 {
		return c.Active(), fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}

	for i := range c.tabs {
		c.tabs[i].IsActive = i == index
	}
	return c.tabs[index], nil
}

// UpdateActive overwrites the active tab's url and title
func (c *Collection) UpdateActive(url, title string) Tab {
	i := c.activeIndex()
	c.tabs[i].URL = url
	c.tabs[i].Title = title
	return c.tabs[i]
}

// Active returns the active tab
func (c *Collection) Active() Tab {
	return c.tabs[c.activeIndex()]
}

// Get returns the tab with the given ID
func (c *Collection) Get(tabID id.TabID) (Tab, error) {
	index := c.indexOf(tabID)
	if index < 0 {
		return Tab{}, fmt.Errorf("%w: %s", ErrTabNotFound, tabID)
	}
	return c.tabs[index], nil
}

// List returns a copy of the tabs in display order
func (c *Collection) List() []Tab {
	out := make([]Tab, len(c.tabs))
	copy(out, c.tabs)
	return out
}

// Len returns the number of tabs
func (c *Collection) Len() int {
	return len(c.tabs)
}

// Closable reports whether any tab may be closed
func (c *Collection) Closable() bool {
	return len(c.tabs) > 1
}

// CheckInvariant verifies the collection is non-empty with exactly one active tab
func (c *Collection) CheckInvariant() error {
	if len(c.tabs) == 0 {
		return errors.New("tab collection is empty")
	}
	active := 0
	for _, t := range c.tabs {
		if t.IsActive {
			active++
		}
	}
	if active != 1 {
		return fmt.Errorf("expected exactly one active tab, found %d", active)
	}
	return nil
}

func (c *Collection) blank(active bool) Tab {
	return Tab{
		ID:       c.ids.NewTabID(),
		Title:    DefaultTitle,
		IsActive: active,
	}
}

func (c *Collection) indexOf(tabID id.TabID) int {
	for i, t := range c.tabs {
		if t.ID == tabID {
			return i
		}
	}
	return -1
}

// activeIndex returns the active slot. The invariant guarantees one exists;
// slot 0 is the fallback if it was ever violated.
func (c *Collection) activeIndex() int {
	for i, t := range c.tabs {
		if t.IsActive {
			return i
		}
	}
	return 0
}
