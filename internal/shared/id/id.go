// Package id provides prefixed ULID generation for tabs and history entries.
//
// ULIDs are lexicographically sortable by creation time, so a history log
// keyed by entry ID reads in visit order even without the timestamp. The
// prefix makes IDs readable in logs (tab_*, hist_*).
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TabID identifies a tab within a collection
type TabID string

// EntryID identifies a history entry
type EntryID string

const (
	TabPrefix   = "tab"
	EntryPrefix = "hist"
)

// Generator generates ULIDs with optional prefixes.
// Monotonic entropy guarantees strictly increasing IDs within the same millisecond.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(rand.Reader)
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: ulid.Monotonic(entropy, 0),
		now:     time.Now,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewTabID generates a tab ID
func (g *Generator) NewTabID() TabID {
	return TabID(g.GenerateWithPrefix(TabPrefix))
}

// NewEntryID generates a history entry ID
func (g *Generator) NewEntryID() EntryID {
	return EntryID(g.GenerateWithPrefix(EntryPrefix))
}

func (id TabID) String() string   { return string(id) }
func (id EntryID) String() string { return string(id) }

// IsValid checks if an ID string is a valid ULID, with or without prefix
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Parse parses a ULID string, stripping any "prefix_" part
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}
