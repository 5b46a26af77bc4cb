// Package compositor drives the external tool that joins the screenshots of
// one super-row into a single pyramidal TIFF.
//
// Two backends are supported: the vips command line ("arrayjoin") and a
// montage script run by a Python interpreter. Both receive the ordered image
// list and the across count of a [Request] and write <TargetDir>/<Prefix>.tif.
//
// [Dispatch] runs the requests of a collage with bounded parallelism. A failed
// block never stops the others; failures are collected in the [Report].
package compositor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/ehelvetica/webcollage/pkg/errors"
	"github.com/ehelvetica/webcollage/pkg/layout"
)

// Backend names.
const (
	BackendVips   = "vips"
	BackendScript = "script"
)

const (
	// DefaultConcurrency is the number of worker threads inside the tool.
	DefaultConcurrency = 2

	// DefaultDiscThreshold is the size in MB above which the tool decodes
	// images to a disc cache instead of memory.
	DefaultDiscThreshold = 100

	DefaultVipsBinary = "vips"
	DefaultPython     = "python3"
	DefaultScript     = "montage.py"
)

// ValidBackends is the set of supported backends.
var ValidBackends = map[string]bool{
	BackendVips:   true,
	BackendScript: true,
}

// Request is one compositor invocation.
type Request struct {
	Block     int
	Images    []string // left to right, top to bottom
	Across    int
	TargetDir string
	Prefix    string
}

// NewRequest returns the request compositing block into dir.
func NewRequest(b layout.Block, dir string) Request {
	return Request{
		Block:     b.Index,
		Images:    b.Files,
		Across:    b.Across,
		TargetDir: dir,
		Prefix:    "row-" + strconv.Itoa(b.Index),
	}
}

// Output returns the path of the image the request produces.
func (r Request) Output() string {
	return filepath.Join(r.TargetDir, r.Prefix+".tif")
}

// Validate reports requests no backend can run.
func (r Request) Validate() error {
	switch {
	case len(r.Images) == 0:
		return fmt.Errorf("block %d: no images", r.Block)
	case r.Across <= 0:
		return fmt.Errorf("block %d: across must be positive, got %d", r.Block, r.Across)
	case r.TargetDir == "" || r.Prefix == "":
		return fmt.Errorf("block %d: missing output location", r.Block)
	}
	return nil
}

// Compositor renders one request into an image file.
type Compositor interface {
	// Name returns the backend name.
	Name() string

	// Composite runs the tool and returns once the output is written.
	Composite(ctx context.Context, req Request) error
}

// Limits are the resource limits passed to the tool through its
// environment.
type Limits struct {
	Concurrency   int // VIPS_CONCURRENCY
	DiscThreshold int // VIPS_DISC_THRESHOLD, in MB
}

// Env returns the current environment extended with the limits.
func (l Limits) Env() []string {
	env := os.Environ()
	if l.Concurrency > 0 {
		env = append(env, "VIPS_CONCURRENCY="+strconv.Itoa(l.Concurrency))
	}
	if l.DiscThreshold > 0 {
		env = append(env, "VIPS_DISC_THRESHOLD="+strconv.Itoa(l.DiscThreshold)+"m")
	}
	return env
}

// Config selects and configures a backend.
type Config struct {
	Backend    string
	VipsBinary string
	Python     string
	Script     string
	TempDir    string // for image lists, defaults to os.TempDir()
	Limits     Limits
	Logger     *log.Logger
}

// New returns the compositor for cfg.Backend.
func New(cfg Config) (Compositor, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	switch cfg.Backend {
	case BackendVips, "":
		return &Vips{
			Binary: valueOr(cfg.VipsBinary, DefaultVipsBinary),
			Limits: cfg.Limits,
			Logger: logger,
		}, nil
	case BackendScript:
		return &Script{
			Python:  valueOr(cfg.Python, DefaultPython),
			Path:    valueOr(cfg.Script, DefaultScript),
			TempDir: cfg.TempDir,
			Limits:  cfg.Limits,
			Logger:  logger,
		}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown compositor %q (must be one of: vips, script)", cfg.Backend)
	}
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
