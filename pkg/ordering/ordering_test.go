package ordering

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/ehelvetica/webcollage/pkg/catalog"
)

func snap(id string, ts catalog.Timestamp) *catalog.Snapshot {
	return &catalog.Snapshot{ID: id, WaybackDate: ts}
}

func index(snaps ...*catalog.Snapshot) map[string]*catalog.Snapshot {
	m := make(map[string]*catalog.Snapshot, len(snaps))
	for _, s := range snaps {
		m[s.ID] = s
	}
	return m
}

func TestByTimestampScenario(t *testing.T) {
	res := ByTimestamp(index(
		snap("A", "20200101000000"),
		snap("B", "20190101000000"),
		snap("C", ""),
	))

	if want := []string{"B", "A"}; !slices.Equal(res.IDs, want) {
		t.Errorf("IDs = %v, want %v", res.IDs, want)
	}
	if want := []string{"C"}; !slices.Equal(res.Excluded, want) {
		t.Errorf("Excluded = %v, want %v", res.Excluded, want)
	}
}

func TestByTimestampTieBreak(t *testing.T) {
	res := ByTimestamp(index(
		snap("z", "20200101000000"),
		snap("a", "20200101000000"),
		snap("m", "20200101000000"),
	))
	if want := []string{"a", "m", "z"}; !slices.Equal(res.IDs, want) {
		t.Errorf("IDs = %v, want %v", res.IDs, want)
	}
}

func TestByTimestampExcludesInvalid(t *testing.T) {
	res := ByTimestamp(index(
		snap("ok", "20200101000000"),
		snap("short", "2020"),
		snap("garbage", "not-a-date"),
		snap("month13", "20201301000000"),
	))
	if want := []string{"ok"}; !slices.Equal(res.IDs, want) {
		t.Errorf("IDs = %v, want %v", res.IDs, want)
	}
	if want := []string{"garbage", "month13", "short"}; !slices.Equal(res.Excluded, want) {
		t.Errorf("Excluded = %v, want %v", res.Excluded, want)
	}
}

func TestByTimestampEmpty(t *testing.T) {
	res := ByTimestamp(nil)
	if len(res.IDs) != 0 || len(res.Excluded) != 0 {
		t.Errorf("ByTimestamp(nil) = %+v", res)
	}
}

// Every earlier timestamp precedes every later one, regardless of map
// iteration order.
func TestByTimestampMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	base := time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC)

	snaps := make(map[string]*catalog.Snapshot)
	for i := 0; i < 500; i++ {
		at := base.Add(time.Duration(rng.IntN(1_000_000)) * time.Minute)
		id := fmt.Sprintf("bel-%d", i)
		snaps[id] = snap(id, catalog.Timestamp(at.Format("20060102150405")))
	}

	first := ByTimestamp(snaps)
	for i := 1; i < len(first.IDs); i++ {
		prev, _ := snaps[first.IDs[i-1]].WaybackDate.Time()
		cur, _ := snaps[first.IDs[i]].WaybackDate.Time()
		if prev.After(cur) {
			t.Fatalf("%s (%v) placed before %s (%v)", first.IDs[i-1], prev, first.IDs[i], cur)
		}
		if prev.Equal(cur) && first.IDs[i-1] > first.IDs[i] {
			t.Fatalf("tie not broken by id: %s before %s", first.IDs[i-1], first.IDs[i])
		}
	}

	for run := 0; run < 5; run++ {
		if again := ByTimestamp(snaps); !slices.Equal(again.IDs, first.IDs) {
			t.Fatal("ordering is not reproducible")
		}
	}
}
