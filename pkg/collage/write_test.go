package collage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ehelvetica/webcollage/pkg/catalog"
	"github.com/ehelvetica/webcollage/pkg/spatial"
)

func TestWriteConfig(t *testing.T) {
	dir := t.TempDir()
	p := PathsFor(dir, "webarchives")
	cfg := NewConfig("webarchives", p, spatial.Descriptor{NumRows: 3, SubRows: 2, ItemsPerRow: 5, SnapshotCount: 12})
	if err := WriteConfig(p.Config, cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "webarchives.config.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "id": "webarchives",
  "metadataUri": "webarchives.collage.json",
  "spatialIndexUri": "webarchives.index.json",
  "numRows": 3,
  "subRows": 2,
  "itemsPerRow": 5,
  "snapshotCount": 12
}
`
	if string(data) != want {
		t.Errorf("config =\n%s\nwant\n%s", data, want)
	}
}

func TestWriteIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.index.json")
	rects := []spatial.Rect{
		{URNID: "bel-1", MinX: 0, MinY: 0, MaxX: 10, MaxY: 20},
		{URNID: "bel-2", MinX: 10, MinY: 0, MaxX: 20, MaxY: 20},
	}
	digest, err := WriteIndex(path, rects)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n" +
		`{"urnId":"bel-1","minX":0,"minY":0,"maxX":10,"maxY":20},` + "\n" +
		`{"urnId":"bel-2","minX":10,"minY":0,"maxX":20,"maxY":20}` + "\n" +
		"]\n"
	if string(data) != want {
		t.Errorf("index =\n%s\nwant\n%s", data, want)
	}

	sum := sha256.Sum256(data)
	if digest != hex.EncodeToString(sum[:]) {
		t.Errorf("digest %s does not match file contents", digest)
	}

	var decoded []spatial.Rect
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("index is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[1] != rects[1] {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteIndexEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.index.json")
	if _, err := WriteIndex(path, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]\n" {
		t.Errorf("empty index = %q", data)
	}
}

func TestWriteIndexDigestStable(t *testing.T) {
	dir := t.TempDir()
	rects := []spatial.Rect{{URNID: "a", MaxX: 1, MaxY: 1}}
	d1, err := WriteIndex(filepath.Join(dir, "1.json"), rects)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := WriteIndex(filepath.Join(dir, "2.json"), rects)
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Error("same index should produce the same digest")
	}
}

func TestWriteMetadata(t *testing.T) {
	c, err := catalog.Read(strings.NewReader(`[
	  {"ehs_group": "zeta", "id": "z", "groupIndex": 3, "snapshots": [{"ehs_urn_id": "s2", "index_time": "x"}]},
	  {"ehs_group": "alpha", "id": "a", "snapshots": []}
	]`))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "c.collage.json")
	if err := WriteMetadata(path, c.Groups); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	out := string(data)
	if strings.Index(out, `"alpha"`) > strings.Index(out, `"zeta"`) {
		t.Errorf("groups should be written in key order: %s", out)
	}
	for _, gone := range []string{"groupIndex", "index_time"} {
		if strings.Contains(out, gone) {
			t.Errorf("metadata still contains %s", gone)
		}
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("metadata is not valid JSON: %v\n%s", err, out)
	}
	if len(decoded) != 2 || decoded["zeta"]["id"] != "z" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestWriteMetadataEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.collage.json")
	if err := WriteMetadata(path, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{}\n" {
		t.Errorf("empty metadata = %q", data)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	p := PathsFor(dir, "c")
	if _, err := WriteIndex(p.Index, nil); err != nil {
		t.Fatal(err)
	}
	if err := WriteConfig(p.Config, Config{ID: "c"}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("unexpected files: %v", entries)
	}
}

func TestWriteMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "c.index.json")
	if _, err := WriteIndex(path, nil); err == nil {
		t.Error("WriteIndex into a missing directory should fail")
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.index.json")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteIndex(path, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]\n" {
		t.Errorf("index = %q, want overwritten", data)
	}
}
