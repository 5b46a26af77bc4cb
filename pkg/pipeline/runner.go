package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ehelvetica/webcollage/pkg/cache"
	"github.com/ehelvetica/webcollage/pkg/compositor"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the compositor, the block cache and
// the logger - it doesn't store run results. Multiple goroutines can use the
// same Runner with different options as long as their outputs differ.
type Runner struct {
	// Compositor overrides the backend selected by Options.Compositor.
	Compositor compositor.Compositor
	Cache      cache.Cache
	Logger     *log.Logger
}

// NewRunner creates a runner.
// If c is nil, the compositor is built from the options of each run.
// If blocks is nil, a NullCache is used (every block is composited).
func NewRunner(c compositor.Compositor, blocks cache.Cache, logger *log.Logger) *Runner {
	if blocks == nil {
		blocks = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Compositor: c,
		Cache:      blocks,
		Logger:     logger,
	}
}

// Close releases the block cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the complete read → reconcile → layout → write → composite
// pipeline. Configuration and catalog errors abort the run before anything
// is written. Failed blocks do not: the result is complete and the returned
// error lists the failed blocks.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])
	opts.Logger = logger

	result := &Result{RunID: runID, ID: opts.ID}

	// Stage 1: Read
	readStart := time.Now()
	cat, err := r.ReadCatalog(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ReadTime = time.Since(readStart)
	result.Stats.Groups = cat.Stats.Groups
	result.Stats.Snapshots = cat.Stats.Snapshots
	result.Stats.DuplicateSnapshots = cat.Stats.DuplicateSnapshots
	result.Stats.DuplicateGroups = cat.Stats.DuplicateGroups
	result.Stats.MissingIDs = cat.Stats.MissingIDs

	logger.Info("read catalog",
		"groups", cat.Stats.Groups,
		"snapshots", len(cat.Snapshots),
		"duration", result.Stats.ReadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Reconcile
	matchStart := time.Now()
	rec, err := r.Reconcile(ctx, cat, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.MatchTime = time.Since(matchStart)
	result.Excluded = rec.Order.Excluded
	result.Orphans = rec.Match.Orphans
	result.Stats.Ordered = len(rec.Order.IDs)
	result.Stats.Excluded = len(rec.Order.Excluded)
	result.Stats.Files = len(rec.Files)
	result.Stats.Matched = len(rec.Match.Matched)
	result.Stats.Orphans = len(rec.Match.Orphans)
	result.Stats.Replaced = len(rec.Match.Replaced)
	result.Stats.Discarded = len(rec.Match.Discarded)
	result.Stats.Fallbacks = rec.Match.Fallbacks

	logger.Info("matched screenshots",
		"files", len(rec.Files),
		"matched", len(rec.Match.Matched),
		"orphans", len(rec.Match.Orphans),
		"duration", result.Stats.MatchTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Layout
	layoutStart := time.Now()
	plan, idx, err := r.Layout(ctx, rec, opts)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.Descriptor = idx.descriptor
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Placed = plan.Total
	result.Stats.Blocks = len(plan.Blocks)
	result.Stats.Indexed = idx.builder.Len()
	result.Stats.DroppedRects = len(idx.builder.Dropped())

	logger.Info("computed layout",
		"placed", plan.Total,
		"blocks", len(plan.Blocks),
		"rowSize", plan.RowSize,
		"superRowSize", plan.SuperRowSize,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Write
	writeStart := time.Now()
	paths, digest, err := r.WriteOutputs(cat, idx, opts)
	if err != nil {
		return nil, err
	}
	result.Paths = paths
	result.IndexDigest = digest
	result.Stats.WriteTime = time.Since(writeStart)

	logger.Info("wrote collage files",
		"dir", opts.DataOut,
		"sha256", digest[:12],
		"duration", result.Stats.WriteTime)

	// Stage 5: Composite
	result.Requests = requests(plan, opts.ImagesOut)
	if opts.DryRun {
		for _, req := range result.Requests {
			logger.Info("dry run, not compositing",
				"block", req.Block,
				"images", len(req.Images),
				"across", req.Across,
				"out", req.Output())
		}
		return result, nil
	}

	compositeStart := time.Now()
	rep, err := r.Composite(ctx, result.Requests, opts)
	if err != nil {
		return nil, err
	}
	result.Report = rep
	result.Stats.CompositeTime = time.Since(compositeStart)
	result.Stats.Skipped = rep.Skipped()
	result.Stats.Failed = len(rep.Failed())
	result.Stats.Composited = len(rep.Outcomes) - result.Stats.Skipped - result.Stats.Failed

	logger.Info("composited blocks",
		"done", result.Stats.Composited,
		"skipped", result.Stats.Skipped,
		"failed", result.Stats.Failed,
		"duration", result.Stats.CompositeTime)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := rep.Err(); err != nil {
		return result, fmt.Errorf("composite: %w", err)
	}
	return result, nil
}
