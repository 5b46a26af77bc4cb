package screenshot

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/ehelvetica/webcollage/pkg/catalog"
)

// MatchResult describes how screenshot files were assigned to snapshots.
type MatchResult struct {
	// Matched lists the files that ended up assigned to a snapshot, in
	// input order.
	Matched []string

	// Orphans are files whose identifier is not in the catalog.
	Orphans []string

	// Replaced are files that were assigned first and later superseded by
	// the canonical file for the same snapshot.
	Replaced []string

	// Discarded are duplicate files that did not match the snapshot's
	// canonical source URL.
	Discarded []string

	// Fallbacks counts files whose name could not be decoded.
	Fallbacks int
}

// Match assigns files to the snapshots they depict by setting
// Snapshot.Filename. The first file for a snapshot is assigned; a later file
// replaces it only if its decoded source equals the snapshot's start URL.
// A nil logger discards warnings.
func Match(files []string, snapshots map[string]*catalog.Snapshot, logger *log.Logger) MatchResult {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var res MatchResult
	for _, f := range files {
		key := Decode(f)
		if key.Kind == KindFallback {
			res.Fallbacks++
			logger.Debug("undecodable file name, using raw name", "file", f)
		}

		s, ok := snapshots[key.ID]
		switch {
		case !ok:
			res.Orphans = append(res.Orphans, f)
			logger.Warn("no snapshot for file", "file", f, "id", key.ID)
		case s.Filename == "":
			s.Filename = f
		case s.Filename == f:
		case isCanonical(key, s):
			logger.Warn("replacing screenshot with canonical capture", "id", key.ID, "old", s.Filename, "new", f)
			res.Replaced = append(res.Replaced, s.Filename)
			s.Filename = f
		default:
			res.Discarded = append(res.Discarded, f)
			logger.Warn("duplicate screenshot for snapshot", "id", key.ID, "file", f, "kept", s.Filename)
		}
	}

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f] {
			continue
		}
		seen[f] = true
		if s, ok := snapshots[Decode(f).ID]; ok && s.Filename == f {
			res.Matched = append(res.Matched, f)
		}
	}
	return res
}

func isCanonical(key Key, s *catalog.Snapshot) bool {
	src, ok := key.Canonical()
	return ok && src == s.StartURL
}
