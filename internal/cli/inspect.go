package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ehelvetica/webcollage/pkg/catalog"
	"github.com/ehelvetica/webcollage/pkg/errors"
	"github.com/ehelvetica/webcollage/pkg/ordering"
	"github.com/ehelvetica/webcollage/pkg/pipeline"
	"github.com/ehelvetica/webcollage/pkg/screenshot"
)

// progressEvery is the number of groups between spinner updates.
const progressEvery = 500

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	catalog string // metadata catalog
	dir     string // screenshot directory (optional)
	limit   int    // orphans and excluded ids to list
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{limit: 10}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report catalog, ordering and screenshot matching statistics",
		Long: `Report catalog, ordering and screenshot matching statistics without writing
anything. With --dir the screenshots are matched against the catalog the same
way montage does it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.catalog == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "--catalog is required")
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return runInspect(ctx, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.catalog, "catalog", "c", "", "metadata catalog (.json or .json.gz)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "screenshot directory to match")
	cmd.Flags().IntVar(&opts.limit, "limit", opts.limit, "number of orphans and excluded ids to list")

	registerCatalogCompletion(cmd)

	return cmd
}

// runInspect reads the catalog, orders it and optionally matches screenshots.
func runInspect(ctx context.Context, opts *inspectOpts) error {
	logger := loggerFromContext(ctx)

	if err := errors.ValidateFile(opts.catalog, "catalog"); err != nil {
		return err
	}
	if opts.dir != "" {
		if err := errors.ValidateDir(opts.dir, "screenshot directory"); err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, "Reading catalog...")
	spinner.Start()
	prog := newProgress(logger)
	cat, err := catalog.ReadFile(opts.catalog,
		catalog.WithLogger(logger),
		catalog.WithProgress(progressEvery, func(groups, _ int) {
			spinner.SetMessage("Reading catalog... " + count(groups, "group"))
		}),
	)
	if err != nil {
		spinner.StopWithError("Catalog could not be read")
		return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "read catalog")
	}
	spinner.StopWithSuccess("Read " + filepath.Base(opts.catalog))
	prog.done(fmt.Sprintf("Read %s", count(cat.Stats.Groups, "group")))

	order := ordering.ByTimestamp(cat.Snapshots)

	printNewline()
	fmt.Println(StyleTitle.Render("Catalog " + catalog.BaseName(opts.catalog)))
	printKeyValue("groups", count(cat.Stats.Groups, "group"))
	printKeyValue("snapshots", count(cat.Stats.Snapshots, "snapshot"))
	printKeyValue("indexed", count(len(cat.Snapshots), "id"))
	printKeyValue("ordered", count(len(order.IDs), "snapshot"))
	if len(order.IDs) > 0 {
		first := cat.Snapshots[order.IDs[0]].WaybackDate
		last := cat.Snapshots[order.IDs[len(order.IDs)-1]].WaybackDate
		printKeyValue("captured", fmt.Sprintf("%s .. %s", first, last))
	}
	printWarnings(statsOf(cat, order))
	printList(order.Excluded, opts.limit)

	if opts.dir == "" {
		printNewline()
		printNextStep("Match screenshots", "webcollage inspect --catalog "+opts.catalog+" --dir <screenshots>")
		return nil
	}

	prog = newProgress(logger)
	files, err := screenshot.Scan(opts.dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "scan screenshots")
	}
	match := screenshot.Match(files, cat.Snapshots, logger)
	prog.done(fmt.Sprintf("Matched %s", count(len(match.Matched), "screenshot")))

	placed := 0
	for _, id := range order.IDs {
		if cat.Snapshots[id].Filename != "" {
			placed++
		}
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Screenshots " + opts.dir))
	printKeyValue("files", count(len(files), "file"))
	printKeyValue("matched", count(len(match.Matched), "file"))
	printKeyValue("placeable", count(placed, "screenshot"))
	printKeyValue("undecoded", count(match.Fallbacks, "name"))
	printKeyValue("replaced", count(len(match.Replaced), "file"))
	if len(match.Discarded) > 0 {
		printWarning("%s discarded", count(len(match.Discarded), "duplicate"))
	}
	if len(match.Orphans) > 0 {
		printWarning("%s without snapshot", count(len(match.Orphans), "screenshot"))
		printList(match.Orphans, opts.limit)
	}
	return nil
}

func statsOf(cat *catalog.Catalog, order ordering.Result) (s pipeline.Stats) {
	s.DuplicateSnapshots = cat.Stats.DuplicateSnapshots
	s.DuplicateGroups = cat.Stats.DuplicateGroups
	s.MissingIDs = cat.Stats.MissingIDs
	s.Excluded = len(order.Excluded)
	return s
}

// printList prints up to limit items as details.
func printList(items []string, limit int) {
	for i, item := range items {
		if i == limit {
			printDetail("... and %d more", len(items)-limit)
			return
		}
		printDetail("%s", item)
	}
}
