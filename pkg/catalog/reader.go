package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
)

// Catalog is the in-memory result of reading a metadata catalog.
type Catalog struct {
	// Snapshots indexes every snapshot by identifier (last record wins).
	Snapshots map[string]*Snapshot

	// Groups indexes every group by its group key (last record wins).
	Groups map[string]*Group

	// Stats counts what was read.
	Stats ReadStats
}

// ReadStats summarizes a catalog read.
type ReadStats struct {
	Groups             int // group records decoded
	Snapshots          int // snapshot records decoded
	DuplicateSnapshots int // snapshot records that replaced an earlier one
	DuplicateGroups    int // group records that replaced an earlier one
	MissingIDs         int // snapshot records without an identifier (skipped)
}

// Option configures [Read].
type Option func(*reader)

type reader struct {
	logger   *log.Logger
	progress func(groups, snapshots int)
	every    int
}

// WithLogger sets the logger used for duplicate warnings.
func WithLogger(l *log.Logger) Option { return func(r *reader) { r.logger = l } }

// WithProgress installs a callback invoked every n groups.
func WithProgress(n int, fn func(groups, snapshots int)) Option {
	return func(r *reader) { r.every, r.progress = n, fn }
}

// Read decodes a catalog from r. The top-level value must be a JSON array of
// group records; groups are decoded one at a time.
func Read(r io.Reader, opts ...Option) (*Catalog, error) {
	rd := reader{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&rd)
	}

	dec := json.NewDecoder(bufio.NewReaderSize(r, 1<<16))
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, fmt.Errorf("empty catalog")
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("catalog must be a JSON array, found %v", tok)
	}

	c := &Catalog{
		Snapshots: make(map[string]*Snapshot),
		Groups:    make(map[string]*Group),
	}
	for dec.More() {
		var g Group
		if err := dec.Decode(&g); err != nil {
			return nil, fmt.Errorf("group %d: %w", c.Stats.Groups, err)
		}
		rd.add(c, &g)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read catalog end: %w", err)
	}
	return c, nil
}

func (rd *reader) add(c *Catalog, g *Group) {
	c.Stats.Groups++

	kept := g.Snapshots[:0]
	for _, s := range g.Snapshots {
		if s == nil {
			continue
		}
		kept = append(kept, s)
		c.Stats.Snapshots++
		if s.ID == "" {
			c.Stats.MissingIDs++
			rd.logger.Warn("snapshot without identifier", "group", g.Key)
			continue
		}
		if _, dup := c.Snapshots[s.ID]; dup {
			c.Stats.DuplicateSnapshots++
			rd.logger.Warn("catalog contains duplicate snapshot id", "id", s.ID, "group", g.Key)
		}
		c.Snapshots[s.ID] = s
	}
	g.Snapshots = kept

	if _, dup := c.Groups[g.Key]; dup {
		c.Stats.DuplicateGroups++
		rd.logger.Warn("catalog contains duplicate group", "group", g.Key)
	}
	c.Groups[g.Key] = g

	if rd.progress != nil && rd.every > 0 && c.Stats.Groups%rd.every == 0 {
		rd.progress(c.Stats.Groups, c.Stats.Snapshots)
	}
}

// ReadFile opens path and decodes it with [Read]. Paths ending in ".gz" are
// decompressed on the fly.
func ReadFile(path string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	c, err := Read(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// BaseName returns the catalog file name without directory and without its
// ".json" / ".json.gz" extensions. Output files are named after it.
func BaseName(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	lower := strings.ToLower(name)
	for _, ext := range []string{".gz", ".json"} {
		if strings.HasSuffix(lower, ext) {
			name = name[:len(name)-len(ext)]
			lower = lower[:len(lower)-len(ext)]
		}
	}
	if name == "" {
		return "collage"
	}
	return name
}
