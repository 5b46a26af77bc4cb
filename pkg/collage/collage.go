// Package collage writes the files a collage viewer loads: the collage
// config, the spatial index and the cleaned catalog metadata.
//
// All three are streamed to a temporary file in the destination directory
// and renamed into place, so a viewer never reads a half-written file.
package collage

import (
	"path/filepath"

	"github.com/ehelvetica/webcollage/pkg/spatial"
)

// File name suffixes, appended to the catalog base name.
const (
	ConfigSuffix   = ".config.json"
	IndexSuffix    = ".index.json"
	MetadataSuffix = ".collage.json"
)

// Config is the collage config loaded by the viewer.
type Config struct {
	ID              string `json:"id"`
	MetadataURI     string `json:"metadataUri"`
	SpatialIndexURI string `json:"spatialIndexUri"`
	spatial.Descriptor
}

// Paths are the output files of one collage.
type Paths struct {
	Config   string
	Index    string
	Metadata string
}

// PathsFor returns the output files for base in dir.
func PathsFor(dir, base string) Paths {
	return Paths{
		Config:   filepath.Join(dir, base+ConfigSuffix),
		Index:    filepath.Join(dir, base+IndexSuffix),
		Metadata: filepath.Join(dir, base+MetadataSuffix),
	}
}

// NewConfig returns the config of collage id. The viewer resolves the
// metadata and index URIs relative to the config file.
func NewConfig(id string, p Paths, d spatial.Descriptor) Config {
	return Config{
		ID:              id,
		MetadataURI:     filepath.Base(p.Metadata),
		SpatialIndexURI: filepath.Base(p.Index),
		Descriptor:      d,
	}
}
