package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ehelvetica/webcollage/pkg/config"
	"github.com/ehelvetica/webcollage/pkg/pipeline"
)

// montageOpts holds the command-line flags for the montage command.
// Only flags set explicitly override the run file and the environment.
type montageOpts struct {
	config           string // TOML run file
	catalog          string // metadata catalog (.json or .json.gz)
	dataOut          string // directory for config, index and metadata
	id               string // collage id
	offset           int    // first screenshot of the window
	count            int    // window length, 0 for all
	rowSize          int    // images per row, 0 for a square grid
	superRowSize     int    // rows per block, 0 to derive it
	itemsPerSuperRow int    // target images per block
	resolution       string // tile size WIDTHxHEIGHT
	dryRun           bool   // plan and write files, skip the compositor
	parallel         int    // blocks composited at the same time
	retries          int    // retries per failed block
	compositor       string // vips or script
	script           string // montage script for the script backend
	noCache          bool   // recomposite blocks even when up to date
}

// montageCommand creates the montage command.
func (c *CLI) montageCommand() *cobra.Command {
	var opts montageOpts

	cmd := &cobra.Command{
		Use:   "montage [screenshots] [images-out]",
		Short: "Build a collage from a catalog and its screenshots",
		Long: `Build a collage from a catalog and its screenshots.

Snapshots are ordered by capture date and matched to the screenshot files.
The matched screenshots are laid out on a grid and written as a spatial
index, a collage config and the cleaned catalog metadata. Every super-row of
the grid is then composited into one tiled TIFF pyramid.

Settings come from the built-in defaults, the run file given with --config,
WEBCOLLAGE_* environment variables and finally the flags on the command line.

Examples:
  webcollage montage shots/ images/ --catalog webarchives.json.gz --data-out collages/
  webcollage montage shots/ images/ --catalog nl.json --data-out out/ --count 1000 --dry-run
  webcollage montage --config run.toml --parallel 2`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runMontage(ctx, cmd, args, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "TOML run file")
	cmd.Flags().StringVarP(&opts.catalog, "catalog", "c", "", "metadata catalog (.json or .json.gz)")
	cmd.Flags().StringVarP(&opts.dataOut, "data-out", "o", "", "directory for the collage config, index and metadata")
	cmd.Flags().StringVar(&opts.id, "id", "", "collage id (default: catalog file name)")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "skip the first N screenshots")
	cmd.Flags().IntVar(&opts.count, "count", 0, "lay out at most N screenshots (0: all)")
	cmd.Flags().IntVar(&opts.rowSize, "row-size", 0, "images per row (0: square grid)")
	cmd.Flags().IntVar(&opts.superRowSize, "super-row-size", 0, "rows per composited block (0: derived)")
	cmd.Flags().IntVar(&opts.itemsPerSuperRow, "items-per-super-row", 0, "target images per block when deriving the super-row size")
	cmd.Flags().StringVar(&opts.resolution, "resolution", "", "screenshot tile size WIDTHxHEIGHT (default 2724x2048)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "write index and config but do not composite")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 0, "blocks composited at the same time")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "retries per failed block")
	cmd.Flags().StringVar(&opts.compositor, "compositor", "", "compositor backend: vips (default), script")
	cmd.Flags().StringVar(&opts.script, "script", "", "montage script for the script backend")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "composite every block even when its output is current")

	registerMontageCompletion(cmd)

	return cmd
}

// runMontage layers the settings, runs the pipeline and prints the summary.
func (c *CLI) runMontage(ctx context.Context, cmd *cobra.Command, args []string, opts *montageOpts) error {
	logger := loggerFromContext(ctx)

	popts, err := opts.resolve(cmd, args)
	if err != nil {
		return err
	}
	popts.Logger = logger

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Reading "+filepath.Base(popts.Catalog)+"...")
	hooks := newRunHooks(spinner)
	defer hooks.install()()
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	hooks.stopSpinner()
	if result != nil {
		printSummary(result, popts)
	}
	return err
}

// resolve returns the pipeline options for a run: defaults, run file and
// environment from config.Load, then positional arguments and changed flags.
func (o *montageOpts) resolve(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	f, err := config.Load(o.config)
	if err != nil {
		return pipeline.Options{}, err
	}

	if len(args) > 0 {
		f.Screenshots = args[0]
	}
	if len(args) > 1 {
		f.ImagesOut = args[1]
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("catalog", func() { f.Catalog = o.catalog })
	set("data-out", func() { f.DataOut = o.dataOut })
	set("id", func() { f.ID = o.id })
	set("offset", func() { f.Grid.Offset = o.offset })
	set("count", func() { f.Grid.Count = o.count })
	set("row-size", func() { f.Grid.RowSize = o.rowSize })
	set("super-row-size", func() { f.Grid.SuperRowSize = o.superRowSize })
	set("items-per-super-row", func() { f.Grid.ItemsPerSuperRow = o.itemsPerSuperRow })
	set("resolution", func() { f.Grid.Resolution = o.resolution })
	set("dry-run", func() { f.DryRun = o.dryRun })
	set("parallel", func() { f.Compositor.Parallel = o.parallel })
	set("retries", func() { f.Compositor.Retries = o.retries })
	set("compositor", func() { f.Compositor.Backend = o.compositor })
	set("script", func() { f.Compositor.Script = o.script })

	if f.DataOut != "" {
		if err := os.MkdirAll(f.DataOut, 0755); err != nil {
			return pipeline.Options{}, err
		}
	}
	return f.Options()
}
