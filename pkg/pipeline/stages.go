package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/ehelvetica/webcollage/pkg/catalog"
	"github.com/ehelvetica/webcollage/pkg/collage"
	"github.com/ehelvetica/webcollage/pkg/compositor"
	"github.com/ehelvetica/webcollage/pkg/errors"
	"github.com/ehelvetica/webcollage/pkg/layout"
	"github.com/ehelvetica/webcollage/pkg/observability"
	"github.com/ehelvetica/webcollage/pkg/ordering"
	"github.com/ehelvetica/webcollage/pkg/screenshot"
	"github.com/ehelvetica/webcollage/pkg/spatial"
)

// progressEvery is the number of groups between catalog progress logs.
const progressEvery = 1000

// Reconciled is the output of the reconcile stage.
type Reconciled struct {
	Catalog *catalog.Catalog
	Order   ordering.Result
	Files   []string // screenshot files found on disk
	Match   screenshot.MatchResult
}

// index is the output of the layout stage.
type index struct {
	builder    *spatial.Builder
	descriptor spatial.Descriptor
}

// ReadCatalog streams the catalog named by opts.Catalog.
func (r *Runner) ReadCatalog(ctx context.Context, opts Options) (*catalog.Catalog, error) {
	if err := opts.ValidateInputs(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	start := time.Now()
	cat, err := catalog.ReadFile(opts.Catalog,
		catalog.WithLogger(logger),
		catalog.WithProgress(progressEvery, func(groups, snapshots int) {
			logger.Debug("reading catalog", "groups", groups, "snapshots", snapshots)
		}),
	)
	switch {
	case os.IsNotExist(err):
		err = errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog")
	case err != nil:
		err = errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read catalog")
	}

	var groups, snapshots int
	if cat != nil {
		groups, snapshots = cat.Stats.Groups, cat.Stats.Snapshots
	}
	observability.Pipeline().OnCatalogRead(ctx, opts.Catalog, groups, snapshots, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// Reconcile orders the catalog snapshots and assigns screenshot files to
// them. Snapshot filenames are set in place.
func (r *Runner) Reconcile(ctx context.Context, cat *catalog.Catalog, opts Options) (*Reconciled, error) {
	logger := opts.Logger
	start := time.Now()

	order := ordering.ByTimestamp(cat.Snapshots)
	if len(order.Excluded) > 0 {
		logger.Warn("snapshots without usable timestamp excluded", "count", len(order.Excluded))
		for _, id := range order.Excluded {
			logger.Debug("no timestamp", "id", id)
		}
	}

	files, err := screenshot.Scan(opts.Screenshots)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan screenshots")
	}

	match := screenshot.Match(files, cat.Snapshots, logger)
	observability.Pipeline().OnMatchComplete(ctx, len(files), len(match.Matched), len(match.Orphans), time.Since(start))

	return &Reconciled{
		Catalog: cat,
		Order:   order,
		Files:   files,
		Match:   match,
	}, nil
}

// Layout places the ordered, matched files and indexes their rectangles.
func (r *Runner) Layout(ctx context.Context, rec *Reconciled, opts Options) (*layout.Plan, *index, error) {
	start := time.Now()

	files := layout.Select(rec.Order.IDs, rec.Catalog.Snapshots)
	plan, err := layout.Compute(files, opts.Grid)
	if err != nil {
		return nil, nil, err
	}

	b := spatial.Build(plan)
	for _, f := range b.Dropped() {
		opts.Logger.Warn("identifier already indexed, rectangle dropped", "file", f)
	}
	observability.Pipeline().OnLayoutComplete(ctx, plan.Total, len(plan.Blocks), time.Since(start))

	return plan, &index{builder: b, descriptor: spatial.Describe(plan)}, nil
}

// WriteOutputs writes the spatial index, cleaned metadata and collage
// config. It returns the output paths and the digest of the index.
func (r *Runner) WriteOutputs(cat *catalog.Catalog, idx *index, opts Options) (collage.Paths, string, error) {
	paths := collage.PathsFor(opts.DataOut, catalog.BaseName(opts.Catalog))

	digest, err := collage.WriteIndex(paths.Index, idx.builder.Rects())
	if err != nil {
		return paths, "", errors.Wrap(errors.ErrCodeInternal, err, "write spatial index")
	}
	if err := collage.WriteMetadata(paths.Metadata, cat.Groups); err != nil {
		return paths, "", errors.Wrap(errors.ErrCodeInternal, err, "write metadata")
	}
	cfg := collage.NewConfig(opts.ID, paths, idx.descriptor)
	if err := collage.WriteConfig(paths.Config, cfg); err != nil {
		return paths, "", errors.Wrap(errors.ErrCodeInternal, err, "write config")
	}
	return paths, digest, nil
}

// Composite runs the compositor for every request.
func (r *Runner) Composite(ctx context.Context, reqs []compositor.Request, opts Options) (*compositor.Report, error) {
	c := r.Compositor
	if c == nil {
		cfg := opts.Compositor
		cfg.Logger = opts.Logger
		var err error
		if c, err = compositor.New(cfg); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(opts.ImagesOut, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create image output directory")
	}

	return compositor.Dispatch(ctx, c, reqs, compositor.DispatchOptions{
		Parallel: opts.Parallel,
		Retries:  opts.Retries,
		Cache:    r.Cache,
		Logger:   opts.Logger,
	}), nil
}

func requests(plan *layout.Plan, dir string) []compositor.Request {
	reqs := make([]compositor.Request, len(plan.Blocks))
	for i, b := range plan.Blocks {
		reqs[i] = compositor.NewRequest(b, dir)
	}
	return reqs
}
