// Package config loads run settings from a TOML file and the environment.
//
// Settings are layered, later layers win:
//
//  1. built-in defaults
//  2. the TOML run file (optional)
//  3. environment variables (WEBCOLLAGE_*, VIPS_CONCURRENCY, VIPS_DISC_THRESHOLD)
//
// Command line flags are applied on top by the CLI. A run file looks like:
//
//	catalog     = "/data/webarchives.json.gz"
//	screenshots = "/data/screenshots"
//	images_out  = "/data/images"
//	data_out    = "/data/collages"
//
//	[grid]
//	resolution          = "2724x2048"
//	items_per_super_row = 5000
//
//	[compositor]
//	backend        = "vips"
//	parallel       = 2
//	concurrency    = 4
//	disc_threshold = 500
package config

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"

	"github.com/ehelvetica/webcollage/pkg/compositor"
	"github.com/ehelvetica/webcollage/pkg/errors"
	"github.com/ehelvetica/webcollage/pkg/layout"
	"github.com/ehelvetica/webcollage/pkg/pipeline"
)

// File holds every setting of a collage run. Fields without a value keep
// the defaults of [Default].
type File struct {
	Catalog     string `toml:"catalog" env:"WEBCOLLAGE_CATALOG"`
	Screenshots string `toml:"screenshots" env:"WEBCOLLAGE_SCREENSHOTS"`
	ImagesOut   string `toml:"images_out" env:"WEBCOLLAGE_IMAGES_OUT"`
	DataOut     string `toml:"data_out" env:"WEBCOLLAGE_DATA_OUT"`
	ID          string `toml:"id" env:"WEBCOLLAGE_ID"`
	DryRun      bool   `toml:"dry_run" env:"WEBCOLLAGE_DRY_RUN"`

	Grid       Grid       `toml:"grid"`
	Compositor Compositor `toml:"compositor"`
}

// Grid holds the layout settings.
type Grid struct {
	Resolution       string `toml:"resolution" env:"WEBCOLLAGE_RESOLUTION"`
	RowSize          int    `toml:"row_size" env:"WEBCOLLAGE_ROW_SIZE"`
	SuperRowSize     int    `toml:"super_row_size" env:"WEBCOLLAGE_SUPER_ROW_SIZE"`
	ItemsPerSuperRow int    `toml:"items_per_super_row" env:"WEBCOLLAGE_ITEMS_PER_SUPER_ROW"`
	Offset           int    `toml:"offset" env:"WEBCOLLAGE_OFFSET"`
	Count            int    `toml:"count" env:"WEBCOLLAGE_COUNT"`
}

// Compositor holds the compositor settings.
type Compositor struct {
	Backend       string `toml:"backend" env:"WEBCOLLAGE_COMPOSITOR"`
	Parallel      int    `toml:"parallel" env:"WEBCOLLAGE_PARALLEL"`
	Retries       int    `toml:"retries" env:"WEBCOLLAGE_RETRIES"`
	VipsBinary    string `toml:"vips" env:"WEBCOLLAGE_VIPS"`
	Python        string `toml:"python" env:"WEBCOLLAGE_PYTHON"`
	Script        string `toml:"script" env:"WEBCOLLAGE_SCRIPT"`
	TempDir       string `toml:"temp_dir" env:"WEBCOLLAGE_TEMP_DIR"`
	Concurrency   int    `toml:"concurrency" env:"VIPS_CONCURRENCY"`
	DiscThreshold int    `toml:"disc_threshold" env:"VIPS_DISC_THRESHOLD"` // MB
}

// Default returns the built-in settings.
func Default() *File {
	return &File{
		Grid: Grid{
			Resolution:       layout.DefaultResolution,
			ItemsPerSuperRow: layout.DefaultItemsPerSuperRow,
		},
		Compositor: Compositor{
			Backend:       compositor.BackendVips,
			Parallel:      pipeline.DefaultParallel,
			VipsBinary:    compositor.DefaultVipsBinary,
			Python:        compositor.DefaultPython,
			Script:        compositor.DefaultScript,
			Concurrency:   compositor.DefaultConcurrency,
			DiscThreshold: compositor.DefaultDiscThreshold,
		},
	}
}

// Load returns the defaults overlaid with the run file at path (skipped when
// path is empty) and then with the environment.
func Load(path string) (*File, error) {
	f := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read run file %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown settings in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	if err := env.Parse(f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}
	return f, nil
}

// Options converts the settings to pipeline options.
func (f *File) Options() (pipeline.Options, error) {
	w, h, err := layout.ParseResolution(f.Grid.Resolution)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Catalog:     f.Catalog,
		Screenshots: f.Screenshots,
		ImagesOut:   f.ImagesOut,
		DataOut:     f.DataOut,
		ID:          f.ID,
		DryRun:      f.DryRun,
		Grid: layout.Params{
			TileWidth:        w,
			TileHeight:       h,
			RowSize:          f.Grid.RowSize,
			SuperRowSize:     f.Grid.SuperRowSize,
			ItemsPerSuperRow: f.Grid.ItemsPerSuperRow,
			Offset:           f.Grid.Offset,
			Count:            f.Grid.Count,
		},
		Parallel: f.Compositor.Parallel,
		Retries:  f.Compositor.Retries,
		Compositor: compositor.Config{
			Backend:    f.Compositor.Backend,
			VipsBinary: f.Compositor.VipsBinary,
			Python:     f.Compositor.Python,
			Script:     f.Compositor.Script,
			TempDir:    f.Compositor.TempDir,
			Limits: compositor.Limits{
				Concurrency:   f.Compositor.Concurrency,
				DiscThreshold: f.Compositor.DiscThreshold,
			},
		},
	}, nil
}
