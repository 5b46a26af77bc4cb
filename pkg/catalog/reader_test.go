package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
)

const sampleCatalog = `[
  {
    "id": "g1-doc", "ehs_group": "g1", "ehs_domain": "https://a.ch",
    "ehs_title": "A", "_groupValue": "g1", "groupIndex": 0,
    "snapshots": [
      {"ehs_urn_id": "bel-1", "ehs_group": "g1", "ehs_start_url": "https://a.ch",
       "ehs_wayback_date": 20190901163213, "ehs_archival_date": "2019-09-01",
       "ehs_harvest_date": "2019-09-01", "ehs_unit_sort": 7, "index_time": "x",
       "ehs_title_short": "A short"},
      {"ehs_urn_id": "bel-2", "ehs_group": "g1", "ehs_start_url": "https://a.ch/",
       "ehs_wayback_date": "20200101000000"}
    ]
  },
  {
    "id": "g2-doc", "ehs_group": "g2", "ehs_domain": "https://b.ch",
    "snapshots": [
      {"ehs_urn_id": "bel-3", "ehs_group": "g2", "ehs_start_url": "https://b.ch"}
    ]
  }
]`

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	if c.Stats.Groups != 2 || c.Stats.Snapshots != 3 {
		t.Errorf("Stats = %+v, want 2 groups / 3 snapshots", c.Stats)
	}
	if len(c.Snapshots) != 3 {
		t.Fatalf("len(Snapshots) = %d, want 3", len(c.Snapshots))
	}

	s := c.Snapshots["bel-1"]
	if s.Group != "g1" || s.StartURL != "https://a.ch" {
		t.Errorf("bel-1 = %+v", s)
	}
	if s.WaybackDate != "20190901163213" {
		t.Errorf("numeric timestamp = %q", s.WaybackDate)
	}
	if c.Snapshots["bel-2"].WaybackDate != "20200101000000" {
		t.Errorf("string timestamp = %q", c.Snapshots["bel-2"].WaybackDate)
	}
	if !c.Snapshots["bel-3"].WaybackDate.IsZero() {
		t.Errorf("missing timestamp should be zero")
	}

	g := c.Groups["g1"]
	if g == nil || g.ID != "g1-doc" || g.Domain != "https://a.ch" || len(g.Snapshots) != 2 {
		t.Fatalf("group g1 = %+v", g)
	}
	if g.Snapshots[0] != s {
		t.Error("group snapshots should share the indexed snapshot")
	}
}

func TestReadStripsHeavyFields(t *testing.T) {
	c, err := Read(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(c.Groups["g1"])
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, gone := range []string{"ehs_archival_date", "ehs_harvest_date", "ehs_unit_sort", "index_time", "_groupValue", "groupIndex"} {
		if strings.Contains(out, gone) {
			t.Errorf("cleaned group still contains %s: %s", gone, out)
		}
	}
	for _, kept := range []string{`"ehs_title":"A"`, `"ehs_title_short":"A short"`, `"ehs_wayback_date":20190901163213`} {
		if !strings.Contains(out, kept) {
			t.Errorf("cleaned group lost %s: %s", kept, out)
		}
	}
}

func TestReadFilenameNotSerialized(t *testing.T) {
	c, err := Read(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	c.Snapshots["bel-1"].Filename = "/shots/bel-1.jpg"

	data, err := json.Marshal(c.Snapshots["bel-1"])
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "/shots/") {
		t.Errorf("filename leaked into output: %s", data)
	}
}

func TestReadDuplicates(t *testing.T) {
	input := `[
	  {"ehs_group": "g1", "snapshots": [{"ehs_urn_id": "x", "ehs_start_url": "first"}]},
	  {"ehs_group": "g2", "snapshots": [{"ehs_urn_id": "x", "ehs_start_url": "second"}]},
	  {"ehs_group": "g1", "snapshots": []}
	]`

	var buf bytes.Buffer
	c, err := Read(strings.NewReader(input), WithLogger(log.New(&buf)))
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Snapshots["x"].StartURL; got != "second" {
		t.Errorf("duplicate id should be last-write-wins, got %q", got)
	}
	if c.Stats.DuplicateSnapshots != 1 {
		t.Errorf("DuplicateSnapshots = %d, want 1", c.Stats.DuplicateSnapshots)
	}
	if c.Stats.DuplicateGroups != 1 {
		t.Errorf("DuplicateGroups = %d, want 1", c.Stats.DuplicateGroups)
	}
	if len(c.Groups["g1"].Snapshots) != 0 {
		t.Error("duplicate group should replace the earlier record")
	}
	if !strings.Contains(buf.String(), "duplicate snapshot id") {
		t.Errorf("expected duplicate warning, got %q", buf.String())
	}
}

func TestReadSkipsNullAndAnonymousSnapshots(t *testing.T) {
	input := `[{"ehs_group": "g", "snapshots": [null, {"ehs_start_url": "u"}, {"ehs_urn_id": "a"}]}]`
	c, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Snapshots) != 1 || c.Stats.MissingIDs != 1 {
		t.Errorf("Snapshots = %d, MissingIDs = %d", len(c.Snapshots), c.Stats.MissingIDs)
	}
	if len(c.Groups["g"].Snapshots) != 2 {
		t.Errorf("null entries should be dropped from the group, got %d", len(c.Groups["g"].Snapshots))
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"object", `{"a": 1}`},
		{"truncated", `[{"ehs_group": "g"}`},
		{"bad group", `[1]`},
		{"bad snapshots", `[{"snapshots": "nope"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Read(%q) should fail", tt.input)
			}
		})
	}
}

func TestReadProgress(t *testing.T) {
	var calls []int
	_, err := Read(strings.NewReader(sampleCatalog), WithProgress(1, func(groups, _ int) {
		calls = append(calls, groups)
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[1] != 2 {
		t.Errorf("progress calls = %v, want [1 2]", calls)
	}
}

func TestReadFileGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webarchives.json.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(sampleCatalog)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(c.Snapshots) != 3 {
		t.Errorf("len(Snapshots) = %d, want 3", len(c.Snapshots))
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); !os.IsNotExist(err) {
		t.Errorf("ReadFile() error = %v, want not-exist", err)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/webarchives.json", "webarchives"},
		{"webarchives.json.gz", "webarchives"},
		{"/data/nl200.JSON", "nl200"},
		{"data/top.v2.json", "top.v2"},
		{"catalog", "catalog"},
		{"/data/.json", "collage"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.path); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
