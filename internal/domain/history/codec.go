package history

import (
	"fmt"
	"sort"

	"github.com/bytedance/sonic"
)

// encode serializes entries in their in-memory (newest-first) order
func encode(entries []Entry) ([]byte, error) {
	records := make([]record, len(entries))
	for i, e := range entries {
		records[i] = toRecord(e)
	}

	data, err := sonic.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}

// decode parses persisted history. Records without an id or url are dropped
// and the result is ordered newest first. dropped counts discarded records.
func decode(data []byte) (entries []Entry, dropped int, err error) {
	var records []record
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode history: %w", err)
	}

	entries = make([]Entry, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if !r.valid() {
			dropped++
			continue
		}
		if _, dup := seen[r.ID]; dup {
			dropped++
			continue
		}
		seen[r.ID] = struct{}{}
		entries = append(entries, r.entry())
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].VisitedAt.After(entries[j].VisitedAt)
	})

	return entries, dropped, nil
}
