package navigation

import (
	"github.com/GriffinCanCode/browsim/internal/domain/history"
	"github.com/GriffinCanCode/browsim/internal/domain/resolver"
	"github.com/GriffinCanCode/browsim/internal/domain/tabs"
	"github.com/GriffinCanCode/browsim/internal/shared/id"
)

// SandboxPolicy is the sandbox attribute for the embedded content frame
const SandboxPolicy = "allow-same-origin allow-scripts allow-popups allow-forms"

// Viewer tells the presentation layer what to load into the content frame
type Viewer struct {
	Src     string `json:"src"`
	Sandbox string `json:"sandbox"`
}

// State is a snapshot of everything the presentation layer renders
type State struct {
	ActiveTabID  id.TabID              `json:"active_tab_id"`
	Tabs         []tabs.Tab            `json:"tabs"`
	Closable     bool                  `json:"closable"`
	History      []history.Entry       `json:"history"`
	PendingInput string                `json:"pending_input"`
	Current      *resolver.Destination `json:"current_destination,omitempty"`
	Viewer       *Viewer               `json:"viewer,omitempty"`
}

// ActiveTab returns the active tab from the snapshot
func (s State) ActiveTab() (tabs.Tab, bool) {
	for _, t := range s.Tabs {
		if t.ID == s.ActiveTabID {
			return t, true
		}
	}
	return tabs.Tab{}, false
}

// Intent names an event handled by the Coordinator
type Intent string

const (
	IntentSubmit       Intent = "submit"
	IntentNewTab       Intent = "new_tab"
	IntentCloseTab     Intent = "close_tab"
	IntentSwitchTab    Intent = "switch_tab"
	IntentOpenHistory  Intent = "open_history"
	IntentClearHistory Intent = "clear_history"
	IntentInput        Intent = "input"
)

// Recorder receives coordinator metrics
type Recorder interface {
	RecordIntent(intent string)
	RecordPersistError()
	SetTabsOpen(count int)
	SetHistoryEntries(count int)
}

type nopRecorder struct{}

func (nopRecorder) RecordIntent(string)   {}
func (nopRecorder) RecordPersistError()   {}
func (nopRecorder) SetTabsOpen(int)       {}
func (nopRecorder) SetHistoryEntries(int) {}
