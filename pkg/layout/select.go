package layout

import "github.com/ehelvetica/webcollage/pkg/catalog"

// Select returns, in order, the filenames of the identified snapshots that
// were matched to a screenshot. Unmatched snapshots take no grid cell.
func Select(ids []string, snapshots map[string]*catalog.Snapshot) []string {
	files := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := snapshots[id]; ok && s.Filename != "" {
			files = append(files, s.Filename)
		}
	}
	return files
}

// Window returns files[offset : offset+count], clamped to the slice bounds.
// A count <= 0 selects everything from offset on.
func Window(files []string, offset, count int) []string {
	n := len(files)
	start := min(max(offset, 0), n)
	end := n
	if count > 0 && count < n-start {
		end = start + count
	}
	return files[start:end]
}
