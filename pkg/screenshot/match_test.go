package screenshot

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ehelvetica/webcollage/pkg/catalog"
)

func snapshots(ss ...*catalog.Snapshot) map[string]*catalog.Snapshot {
	m := make(map[string]*catalog.Snapshot, len(ss))
	for _, s := range ss {
		m[s.ID] = s
	}
	return m
}

func TestMatchAssigns(t *testing.T) {
	snaps := snapshots(
		&catalog.Snapshot{ID: "bel-1", StartURL: "https://a.ch"},
		&catalog.Snapshot{ID: "bel-2", StartURL: "https://b.ch"},
		&catalog.Snapshot{ID: "bel-3", StartURL: "https://c.ch"},
	)
	files := []string{
		"/s/bel-2-https%3A%2F%2Fb.ch.jpg",
		"/s/bel-1-https%3A%2F%2Fa.ch.jpg",
		"/s/bel-9-https%3A%2F%2Fz.ch.jpg",
	}

	var buf bytes.Buffer
	res := Match(files, snaps, log.New(&buf))

	if want := files[:2]; !slices.Equal(res.Matched, want) {
		t.Errorf("Matched = %v, want %v", res.Matched, want)
	}
	if !slices.Equal(res.Orphans, files[2:]) {
		t.Errorf("Orphans = %v", res.Orphans)
	}
	if snaps["bel-1"].Filename != files[1] || snaps["bel-2"].Filename != files[0] {
		t.Error("filenames not assigned")
	}
	if snaps["bel-3"].Filename != "" {
		t.Error("unmatched snapshot should keep an empty filename")
	}
	if !strings.Contains(buf.String(), "no snapshot for file") {
		t.Errorf("expected orphan warning, got %q", buf.String())
	}
}

func TestMatchDuplicateCanonicalOverrides(t *testing.T) {
	x := &catalog.Snapshot{ID: "bel-7", StartURL: "https://x.ch"}
	first := "/s/bel-7-https%3A%2F%2Fx.ch%2Fold.jpg"
	second := "/s/bel-7-https%3A%2F%2Fx.ch.jpg"

	res := Match([]string{first, second}, snapshots(x), nil)

	if x.Filename != second {
		t.Errorf("Filename = %q, want second file", x.Filename)
	}
	if !slices.Equal(res.Matched, []string{second}) {
		t.Errorf("Matched = %v", res.Matched)
	}
	if !slices.Equal(res.Replaced, []string{first}) {
		t.Errorf("Replaced = %v", res.Replaced)
	}
	if len(res.Discarded) != 0 {
		t.Errorf("Discarded = %v", res.Discarded)
	}
}

func TestMatchDuplicateNonCanonicalDiscarded(t *testing.T) {
	x := &catalog.Snapshot{ID: "bel-7", StartURL: "https://x.ch"}
	first := "/s/bel-7-https%3A%2F%2Fx.ch.jpg"
	second := "/s/bel-7-https%3A%2F%2Fx.ch%2F.jpg"

	res := Match([]string{first, second}, snapshots(x), nil)

	if x.Filename != first {
		t.Errorf("Filename = %q, want first file", x.Filename)
	}
	if !slices.Equal(res.Discarded, []string{second}) {
		t.Errorf("Discarded = %v", res.Discarded)
	}
	if !slices.Equal(res.Matched, []string{first}) {
		t.Errorf("Matched = %v", res.Matched)
	}
}

func TestMatchFallbackKey(t *testing.T) {
	s := &catalog.Snapshot{ID: "odd%zz", StartURL: "odd%zz"}
	res := Match([]string{"/s/odd%zz.jpg", "/s/odd%zz.webp"}, snapshots(s), nil)

	if res.Fallbacks != 2 {
		t.Errorf("Fallbacks = %d, want 2", res.Fallbacks)
	}
	// fallbacks have no canonical source, so the second file never overrides
	if s.Filename != "/s/odd%zz.jpg" || len(res.Discarded) != 1 {
		t.Errorf("Filename = %q, Discarded = %v", s.Filename, res.Discarded)
	}
}

func TestMatchRepeatedPath(t *testing.T) {
	s := &catalog.Snapshot{ID: "bel-1"}
	f := "/s/bel-1-a.jpg"
	res := Match([]string{f, f}, snapshots(s), nil)
	if !slices.Equal(res.Matched, []string{f}) {
		t.Errorf("Matched = %v", res.Matched)
	}
	if len(res.Discarded)+len(res.Replaced) != 0 {
		t.Errorf("repeated path should be a no-op: %+v", res)
	}
}

func TestMatchEmpty(t *testing.T) {
	res := Match(nil, snapshots(), nil)
	if len(res.Matched) != 0 || len(res.Orphans) != 0 {
		t.Errorf("Match(nil) = %+v", res)
	}
}
