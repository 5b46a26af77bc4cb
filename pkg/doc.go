// Package pkg provides the libraries behind webcollage, the collage builder
// for archived web pages.
//
// # Overview
//
// A collage is one huge zoomable image made of the screenshots of every
// archived snapshot in a catalog, ordered by capture date. Next to the
// image, a viewer loads a spatial index mapping every snapshot to its pixel
// rectangle and the cleaned catalog metadata shown on hover.
//
// # Architecture
//
// The typical data flow through webcollage:
//
//	Catalog (.json / .json.gz)      Screenshot directory
//	         ↓                               ↓
//	    [catalog] (stream groups)     [screenshot] (scan + decode names)
//	         ↓                               ↓
//	    [ordering] (by timestamp) → [screenshot] Match (assign files)
//	         ↓
//	    [layout] (grid, super-row blocks)
//	         ↓
//	    [spatial] (index) → [collage] (config, index, metadata files)
//	         ↓
//	    [compositor] (vips arrayjoin or montage script, one run per block)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Catalog:     "webarchives.json.gz",
//	    Screenshots: "screenshots/",
//	    ImagesOut:   "images/",
//	    DataOut:     "collages/",
//	})
//
// # Main Packages
//
// [pipeline] - The complete run (read → reconcile → layout → write →
// composite) shared by every entry point.
//
// [layout] - The grid planner. Splits the ordered files into super-row
// blocks and computes the pixel rectangle of every tile.
//
// [compositor] - Backends that turn one block into a tiled TIFF pyramid, and
// the bounded parallel dispatcher.
//
// [config] - Run settings from a TOML file and WEBCOLLAGE_* variables.
//
// [cache] - Block resume cache; unchanged blocks are not recomposited.
//
// [observability] - Hooks for progress reporting and metrics.
//
// # Testing
//
//	go test ./...
//
// [catalog]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/catalog
// [ordering]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/ordering
// [screenshot]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/screenshot
// [layout]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/layout
// [spatial]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/spatial
// [collage]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/collage
// [compositor]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/compositor
// [pipeline]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/config
// [cache]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/cache
// [observability]: https://pkg.go.dev/github.com/ehelvetica/webcollage/pkg/observability
package pkg
