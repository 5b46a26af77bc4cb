package compositor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Script composites with a montage script:
//
//	<python> <script> --infile <list> --across N --out <dir> --prefix row-N
//
// The image list is written to a temporary file, one path per line, and
// removed once the script exits.
type Script struct {
	Python  string
	Path    string
	TempDir string
	Limits  Limits
	Logger  *log.Logger
}

// Name implements [Compositor].
func (s *Script) Name() string { return BackendScript }

// Args returns the interpreter arguments for req reading images from list.
func (s *Script) Args(req Request, list string) []string {
	return []string{
		s.Path,
		"--infile", list,
		"--across", strconv.Itoa(req.Across),
		"--out", req.TargetDir,
		"--prefix", req.Prefix,
	}
}

// Composite implements [Compositor].
func (s *Script) Composite(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(req.TargetDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	list, err := s.writeList(req)
	if err != nil {
		return err
	}
	defer os.Remove(list)

	s.Logger.Debug("montage script", "block", req.Block, "images", len(req.Images), "list", list, "out", req.Output())
	return run(ctx, s.Python, s.Args(req, list), s.Limits.Env())
}

func (s *Script) writeList(req Request) (string, error) {
	dir := s.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "webcollage-"+req.Prefix+"-"+uuid.NewString()+".txt")
	data := strings.Join(req.Images, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return "", fmt.Errorf("write image list: %w", err)
	}
	return path, nil
}
