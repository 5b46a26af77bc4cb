package compositor

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
)

// tiffOptions are the vips save options for collage rows: a tiled, JPEG
// compressed pyramid the IIIF server can serve directly.
const tiffOptions = "bigtiff,compression=jpeg,Q=80,pyramid,tile,tile_width=1024,tile_height=1024"

// Vips composites with "vips arrayjoin".
//
// arrayjoin takes its inputs as one whitespace-separated argument, so image
// paths containing whitespace cannot be expressed. Composite rejects such
// requests before running the tool; use the script backend for them.
type Vips struct {
	Binary string
	Limits Limits
	Logger *log.Logger
}

// Name implements [Compositor].
func (v *Vips) Name() string { return BackendVips }

// Args returns the vips command line for req.
func (v *Vips) Args(req Request) []string {
	return []string{
		"arrayjoin",
		strings.Join(req.Images, " "),
		req.Output() + "[" + tiffOptions + "]",
		"--across", strconv.Itoa(req.Across),
	}
}

// Composite implements [Compositor].
func (v *Vips) Composite(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := checkArrayPaths(req); err != nil {
		return err
	}
	if err := os.MkdirAll(req.TargetDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	v.Logger.Debug("vips arrayjoin", "block", req.Block, "images", len(req.Images), "across", req.Across, "out", req.Output())
	return run(ctx, v.Binary, v.Args(req), v.Limits.Env())
}

// checkArrayPaths rejects image paths arrayjoin would split apart.
func checkArrayPaths(req Request) error {
	for _, img := range req.Images {
		if strings.ContainsFunc(img, unicode.IsSpace) {
			return fmt.Errorf("block %d: vips cannot read %q: image paths must not contain whitespace", req.Block, img)
		}
	}
	return nil
}
