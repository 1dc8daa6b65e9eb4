package history

import (
	"errors"
	"time"

	"github.com/GriffinCanCode/browsim/internal/shared/id"
)

// ErrEntryNotFound is returned when no entry has the requested ID
var ErrEntryNotFound = errors.New("history entry not found")

// Entry is an immutable record of one successful navigation
type Entry struct {
	ID        id.EntryID `json:"id"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	VisitedAt time.Time  `json:"visited_at"`
}

// record is the persisted shape of an Entry
type record struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"`
}

func toRecord(e Entry) record {
	return record{
		ID:        e.ID.String(),
		URL:       e.URL,
		Title:     e.Title,
		Timestamp: e.VisitedAt.UnixMilli(),
	}
}

func (r record) valid() bool {
	return r.ID != "" && r.URL != ""
}

func (r record) entry() Entry {
	return Entry{
		ID:        id.EntryID(r.ID),
		URL:       r.URL,
		Title:     r.Title,
		VisitedAt: time.UnixMilli(r.Timestamp),
	}
}
