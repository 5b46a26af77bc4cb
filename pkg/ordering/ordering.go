// Package ordering establishes the total order of snapshots in a collage.
//
// The order decides every tile's final pixel position, so it must be total
// and reproducible: snapshots are sorted by capture instant, and snapshots
// captured at the same instant are sorted by identifier. Snapshots without a
// usable timestamp have no position and are excluded.
package ordering

import (
	"cmp"
	"slices"
	"time"

	"github.com/ehelvetica/webcollage/pkg/catalog"
)

// Result is the ordered identifier sequence and the identifiers left out.
type Result struct {
	IDs      []string // ordered by (timestamp, identifier)
	Excluded []string // identifiers without a usable timestamp, sorted
}

type entry struct {
	id string
	at time.Time
}

// ByTimestamp orders the snapshots of a catalog by wayback timestamp.
func ByTimestamp(snapshots map[string]*catalog.Snapshot) Result {
	entries := make([]entry, 0, len(snapshots))
	var excluded []string
	for id, s := range snapshots {
		at, ok := s.WaybackDate.Time()
		if !ok {
			excluded = append(excluded, id)
			continue
		}
		entries = append(entries, entry{id: id, at: at})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	slices.Sort(excluded)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return Result{IDs: ids, Excluded: excluded}
}
