package layout

import (
	"slices"
	"testing"

	"github.com/ehelvetica/webcollage/pkg/catalog"
	"github.com/ehelvetica/webcollage/pkg/errors"
)

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"2724x2048", 2724, 2048, false},
		{" 100X50 ", 100, 50, false},
		{"100", 0, 0, true},
		{"x50", 0, 0, true},
		{"0x50", 0, 0, true},
		{"-1x50", 0, 0, true},
		{"axb", 0, 0, true},
	}
	for _, tt := range tests {
		w, h, err := ParseResolution(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidGrid) {
				t.Errorf("ParseResolution(%q) error = %v, want INVALID_GRID", tt.in, err)
			}
			continue
		}
		if err != nil || w != tt.w || h != tt.h {
			t.Errorf("ParseResolution(%q) = %d, %d, %v", tt.in, w, h, err)
		}
	}
}

func TestDefaultResolution(t *testing.T) {
	w, h, err := ParseResolution(DefaultResolution)
	if err != nil || w != DefaultTileWidth || h != DefaultTileHeight {
		t.Errorf("DefaultResolution %q does not round trip", DefaultResolution)
	}
}

func TestWindow(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e"}
	tests := []struct {
		offset, count int
		want          []string
	}{
		{0, 0, files},
		{0, -1, files},
		{1, 2, []string{"b", "c"}},
		{3, 10, []string{"d", "e"}},
		{5, 1, []string{}},
		{9, 0, []string{}},
		{-3, 2, []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := Window(files, tt.offset, tt.count)
		if !slices.Equal(got, tt.want) {
			t.Errorf("Window(%d, %d) = %v, want %v", tt.offset, tt.count, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	snaps := map[string]*catalog.Snapshot{
		"a": {ID: "a", Filename: "a.jpg"},
		"b": {ID: "b"},
		"c": {ID: "c", Filename: "c.jpg"},
	}
	got := Select([]string{"c", "b", "missing", "a"}, snaps)
	if want := []string{"c.jpg", "a.jpg"}; !slices.Equal(got, want) {
		t.Errorf("Select() = %v, want %v", got, want)
	}
}
