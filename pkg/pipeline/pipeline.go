// Package pipeline provides the collage pipeline shared by every entry point.
//
// A run reads the catalog, orders its snapshots, matches them against the
// screenshots on disk, lays the matched screenshots out on a grid, writes the
// collage files and finally drives the compositor once per super-row.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Read: Stream the catalog and index snapshots and groups
//  2. Reconcile: Order snapshots by timestamp and match screenshot files
//  3. Layout: Partition the matched files into blocks with pixel rectangles
//  4. Write: Write the collage config, spatial index and cleaned metadata
//  5. Composite: Run the compositor per block (skipped in dry-run mode)
//
// Stages 1 to 4 run sequentially. Stage 5 runs blocks in parallel up to
// Options.Parallel. Recoverable problems (duplicates, orphans, missing
// timestamps, failed blocks) are counted in [Stats] instead of aborting.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Catalog:     "/data/webarchives.json",
//	    Screenshots: "/data/screenshots",
//	    ImagesOut:   "/data/images",
//	    DataOut:     "/data/collages",
//	})
//
// When blocks fail, Execute returns the result together with an error
// carrying the COMPOSITOR_FAILED code; the collage files are written anyway.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ehelvetica/webcollage/pkg/catalog"
	"github.com/ehelvetica/webcollage/pkg/collage"
	"github.com/ehelvetica/webcollage/pkg/compositor"
	"github.com/ehelvetica/webcollage/pkg/errors"
	"github.com/ehelvetica/webcollage/pkg/layout"
	"github.com/ehelvetica/webcollage/pkg/spatial"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config files
// =============================================================================

const (
	// DefaultParallel is the number of blocks composited at the same time.
	// Each invocation may hold thousands of images, so this stays at one
	// unless the machine has memory to spare.
	DefaultParallel = 1

	// DefaultCompositor is the default compositor backend.
	DefaultCompositor = compositor.BackendVips
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a collage run.
type Options struct {
	// Inputs
	Catalog     string `json:"catalog"`
	Screenshots string `json:"screenshots"`

	// Outputs
	ImagesOut string `json:"images_out,omitempty"` // compositor output, unused in dry-run mode
	DataOut   string `json:"data_out"`
	ID        string `json:"id,omitempty"` // collage id, defaults to the catalog base name

	// Layout
	Grid layout.Params `json:"grid"`

	// Compositing
	DryRun     bool              `json:"dry_run,omitempty"`
	Parallel   int               `json:"parallel,omitempty"`
	Retries    int               `json:"retries,omitempty"`
	Compositor compositor.Config `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// ID is the collage id written to the config.
	ID string

	// Paths are the collage files written to DataOut.
	Paths collage.Paths

	// Descriptor summarizes the grid.
	Descriptor spatial.Descriptor

	// IndexDigest is the SHA-256 of the spatial index file.
	IndexDigest string

	// Plan is the computed layout.
	Plan *layout.Plan

	// Requests are the compositor invocations of the run, one per block.
	Requests []compositor.Request

	// Report holds the compositor outcomes (nil in dry-run mode).
	Report *compositor.Report

	// Excluded lists snapshots without a usable timestamp.
	Excluded []string

	// Orphans lists screenshot files without a snapshot.
	Orphans []string

	// Stats contains counters and timings.
	Stats Stats
}

// Stats contains run-scoped counters and timings.
type Stats struct {
	// Catalog
	Groups             int
	Snapshots          int
	DuplicateSnapshots int
	DuplicateGroups    int
	MissingIDs         int

	// Ordering
	Ordered  int
	Excluded int

	// Matching
	Files     int
	Matched   int
	Orphans   int
	Replaced  int
	Discarded int
	Fallbacks int

	// Layout
	Placed       int
	Blocks       int
	Indexed      int
	DroppedRects int

	// Compositing
	Composited int
	Skipped    int
	Failed     int

	ReadTime      time.Duration
	MatchTime     time.Duration
	LayoutTime    time.Duration
	WriteTime     time.Duration
	CompositeTime time.Duration
}

// Warnings returns the number of recovered problems.
func (s Stats) Warnings() int {
	return s.DuplicateSnapshots + s.DuplicateGroups + s.MissingIDs + s.Excluded +
		s.Orphans + s.Discarded + s.DroppedRects
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateInputs(); err != nil {
		return err
	}
	if err := errors.ValidateDir(o.DataOut, "data output directory"); err != nil {
		return err
	}
	if !o.DryRun && o.ImagesOut == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "image output directory is required")
	}

	if o.ID == "" {
		o.ID = catalog.BaseName(o.Catalog)
	}
	if err := errors.ValidateCollageID(o.ID); err != nil {
		return err
	}

	o.SetLayoutDefaults()
	if err := o.Grid.Validate(); err != nil {
		return err
	}

	o.SetCompositorDefaults()
	if o.Parallel < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "parallel must be at least 1, got %d", o.Parallel)
	}
	if o.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "retries must not be negative, got %d", o.Retries)
	}
	if !compositor.ValidBackends[o.Compositor.Backend] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid compositor: %q (must be one of: vips, script)", o.Compositor.Backend)
	}

	o.validated = true
	return nil
}

// ValidateInputs checks the catalog and screenshot paths.
func (o *Options) ValidateInputs() error {
	if err := errors.ValidateFile(o.Catalog, "catalog"); err != nil {
		return err
	}
	if err := errors.ValidateDir(o.Screenshots, "screenshot directory"); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults fills in the tile size and super-row target.
func (o *Options) SetLayoutDefaults() {
	if o.Grid.TileWidth == 0 {
		o.Grid.TileWidth = layout.DefaultTileWidth
	}
	if o.Grid.TileHeight == 0 {
		o.Grid.TileHeight = layout.DefaultTileHeight
	}
	if o.Grid.ItemsPerSuperRow == 0 {
		o.Grid.ItemsPerSuperRow = layout.DefaultItemsPerSuperRow
	}
}

// SetCompositorDefaults fills in the compositor backend and limits.
func (o *Options) SetCompositorDefaults() {
	if o.Parallel == 0 {
		o.Parallel = DefaultParallel
	}
	if o.Compositor.Backend == "" {
		o.Compositor.Backend = DefaultCompositor
	}
	if o.Compositor.Limits.Concurrency == 0 {
		o.Compositor.Limits.Concurrency = compositor.DefaultConcurrency
	}
	if o.Compositor.Limits.DiscThreshold == 0 {
		o.Compositor.Limits.DiscThreshold = compositor.DefaultDiscThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
