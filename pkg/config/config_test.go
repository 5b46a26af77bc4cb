package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ehelvetica/webcollage/pkg/compositor"
	"github.com/ehelvetica/webcollage/pkg/errors"
	"github.com/ehelvetica/webcollage/pkg/layout"
)

func writeRunFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if f.Grid.Resolution != layout.DefaultResolution {
		t.Errorf("Resolution = %q", f.Grid.Resolution)
	}
	if f.Compositor.Backend != compositor.BackendVips {
		t.Errorf("Backend = %q", f.Compositor.Backend)
	}
}

func TestLoadRunFile(t *testing.T) {
	path := writeRunFile(t, `
catalog     = "/data/webarchives.json.gz"
screenshots = "/data/shots"
data_out    = "/data/out"
dry_run     = true

[grid]
resolution = "100x50"
row_size   = 7
count      = 20

[compositor]
backend        = "script"
parallel       = 3
disc_threshold = 500
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if f.Catalog != "/data/webarchives.json.gz" || !f.DryRun {
		t.Errorf("top-level settings = %+v", f)
	}
	if f.Grid.RowSize != 7 || f.Grid.Count != 20 {
		t.Errorf("Grid = %+v", f.Grid)
	}
	if f.Grid.ItemsPerSuperRow != layout.DefaultItemsPerSuperRow {
		t.Errorf("unset keys should keep defaults, ItemsPerSuperRow = %d", f.Grid.ItemsPerSuperRow)
	}
	if f.Compositor.Backend != "script" || f.Compositor.Parallel != 3 || f.Compositor.DiscThreshold != 500 {
		t.Errorf("Compositor = %+v", f.Compositor)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeRunFile(t, "catalog = \"x\"\n[grid]\nrows = 3\n")
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want INVALID_CONFIG", err)
	}
	if !strings.Contains(err.Error(), "grid.rows") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeRunFile(t, "catalog = \n")
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("WEBCOLLAGE_DATA_OUT", "/env/out")
	t.Setenv("WEBCOLLAGE_ROW_SIZE", "9")
	t.Setenv("VIPS_CONCURRENCY", "8")

	path := writeRunFile(t, "data_out = \"/file/out\"\n[grid]\nrow_size = 4\n")
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if f.DataOut != "/env/out" {
		t.Errorf("DataOut = %q, environment should win over the file", f.DataOut)
	}
	if f.Grid.RowSize != 9 {
		t.Errorf("RowSize = %d, want 9", f.Grid.RowSize)
	}
	if f.Compositor.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", f.Compositor.Concurrency)
	}
}

func TestLoadEnvironmentInvalid(t *testing.T) {
	t.Setenv("WEBCOLLAGE_PARALLEL", "many")
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestOptions(t *testing.T) {
	f := Default()
	f.Catalog = "cat.json"
	f.Grid.Resolution = "300x200"
	f.Grid.Offset = 5
	f.Compositor.Retries = 2
	f.Compositor.Concurrency = 6

	opts, err := f.Options()
	if err != nil {
		t.Fatalf("Options() error: %v", err)
	}
	if opts.Catalog != "cat.json" || opts.Retries != 2 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Grid.TileWidth != 300 || opts.Grid.TileHeight != 200 || opts.Grid.Offset != 5 {
		t.Errorf("Grid = %+v", opts.Grid)
	}
	if opts.Compositor.Limits.Concurrency != 6 || opts.Compositor.Backend != compositor.BackendVips {
		t.Errorf("Compositor = %+v", opts.Compositor)
	}
}

func TestOptionsBadResolution(t *testing.T) {
	f := Default()
	f.Grid.Resolution = "wide"
	if _, err := f.Options(); !errors.Is(err, errors.ErrCodeInvalidGrid) {
		t.Errorf("error = %v, want INVALID_GRID", err)
	}
}
