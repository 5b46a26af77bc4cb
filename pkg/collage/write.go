package collage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/ehelvetica/webcollage/pkg/catalog"
	"github.com/ehelvetica/webcollage/pkg/spatial"
)

// WriteConfig writes the collage config to path.
func WriteConfig(path string, cfg Config) error {
	return writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	})
}

// WriteIndex writes the spatial index to path, one entry per line, and
// returns the SHA-256 of the written bytes. Identical layouts produce
// identical digests.
func WriteIndex(path string, rects []spatial.Rect) (string, error) {
	h := sha256.New()
	err := writeAtomic(path, func(w io.Writer) error {
		return encodeIndex(io.MultiWriter(w, h), rects)
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func encodeIndex(w io.Writer, rects []spatial.Rect) error {
	if len(rects) == 0 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for i, r := range rects {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if i < len(rects)-1 {
			data = append(data, ',')
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

// WriteMetadata writes the cleaned groups, keyed by group key in sorted
// order, to path.
func WriteMetadata(path string, groups map[string]*catalog.Group) error {
	return writeAtomic(path, func(w io.Writer) error {
		return encodeGroups(w, groups)
	})
}

func encodeGroups(w io.Writer, groups map[string]*catalog.Group) error {
	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	for i, key := range slices.Sorted(maps.Keys(groups)) {
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(groups[key])
		if err != nil {
			return err
		}
		if i > 0 {
			k = append([]byte{','}, k...)
		}
		k = append(k, ':')
		if _, err := w.Write(k); err != nil {
			return err
		}
		if _, err := w.Write(v); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

func writeAtomic(path string, fn func(io.Writer) error) error {
	f, err := createAtomic(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Abort()
		return err
	}
	return f.Commit()
}
