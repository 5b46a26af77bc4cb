package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ehelvetica/webcollage/pkg/pipeline"
)

// printSummary prints the outcome of a montage run.
func printSummary(r *pipeline.Result, opts pipeline.Options) {
	s := r.Stats
	d := r.Descriptor

	printNewline()
	fmt.Println(StyleTitle.Render("Collage " + r.ID))
	printKeyValue("grid", fmt.Sprintf("%s across, %s rows", StyleNumber.Render(fmt.Sprint(d.ItemsPerRow)), StyleNumber.Render(fmt.Sprint(d.NumRows))))
	if d.SnapshotCount > 0 {
		printKeyValue("canvas", pixels(d.ItemsPerRow*opts.Grid.TileWidth, d.NumRows*opts.Grid.TileHeight))
	}
	if r.IndexDigest != "" {
		printKeyValue("index", "sha256:"+r.IndexDigest[:16])
	}
	printKeyValue("run", r.RunID)

	printFile(r.Paths.Config)
	printFile(r.Paths.Index)
	printFile(r.Paths.Metadata)
	for _, o := range okOutputs(r) {
		printFile(o)
	}
	printStats(s.Placed, s.Blocks, s.Warnings(), opts.DryRun)

	printWarnings(s)
	if r.Report != nil {
		if s.Skipped > 0 {
			printInfo("%s up to date, not recomposited", count(s.Skipped, "block"))
		}
		if failed := r.Report.Failed(); len(failed) > 0 {
			printError("%s failed: %v", count(len(failed), "block"), failed)
			printNextStep("Retry the failed blocks", "webcollage montage ... --retries 2")
		}
	}
	if opts.DryRun && len(r.Requests) > 0 {
		printNextStep("Composite the blocks", "webcollage montage without --dry-run")
	}
}

// printWarnings lists the recovered problems of a run.
func printWarnings(s pipeline.Stats) {
	lines := []struct {
		n    int
		what string
	}{
		{s.DuplicateSnapshots, "duplicate snapshot ids in the catalog"},
		{s.DuplicateGroups, "duplicate groups in the catalog"},
		{s.MissingIDs, "snapshots without id"},
		{s.Excluded, "snapshots without usable timestamp"},
		{s.Orphans, "screenshots without snapshot"},
		{s.Discarded, "duplicate screenshots discarded"},
		{s.DroppedRects, "rectangles dropped from the index"},
	}
	for _, l := range lines {
		if l.n > 0 {
			printWarning("%s %s", humanize.Comma(int64(l.n)), l.what)
		}
	}
}

func okOutputs(r *pipeline.Result) []string {
	if r.Report == nil {
		return nil
	}
	var out []string
	for _, o := range r.Report.Outcomes {
		if o.Err == nil {
			out = append(out, o.Output)
		}
	}
	return out
}
