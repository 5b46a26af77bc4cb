package cli

import (
	"context"
	"sync"
	"time"

	"github.com/ehelvetica/webcollage/pkg/observability"
)

// runHooks reports pipeline progress on the terminal. The spinner runs
// while the catalog is read; compositor blocks are reported as they finish.
type runHooks struct {
	observability.NoopPipelineHooks

	spinner *Spinner

	mu    sync.Mutex
	total int
	done  int
}

func newRunHooks(spinner *Spinner) *runHooks {
	return &runHooks{spinner: spinner}
}

// install registers h globally and returns a function restoring the
// defaults.
func (h *runHooks) install() func() {
	observability.SetPipelineHooks(h)
	observability.SetCompositorHooks(h)
	return observability.Reset
}

func (h *runHooks) stopSpinner() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.spinner != nil {
		h.spinner.Stop()
		h.spinner = nil
	}
}

func (h *runHooks) OnCatalogRead(_ context.Context, path string, groups, snapshots int, _ time.Duration, err error) {
	h.stopSpinner()
	if err == nil {
		printSuccess("Read %s: %s, %s", path, count(groups, "group"), count(snapshots, "snapshot"))
	}
}

func (h *runHooks) OnLayoutComplete(_ context.Context, _, blocks int, _ time.Duration) {
	h.mu.Lock()
	h.total = blocks
	h.mu.Unlock()
}

func (h *runHooks) OnBlockStart(context.Context, int, int) {}

func (h *runHooks) OnBlockComplete(_ context.Context, block int, dur time.Duration, err error) {
	h.mu.Lock()
	h.done++
	done, total := h.done, h.total
	h.mu.Unlock()

	if err != nil {
		printError("Block %d failed (%d/%d)", block, done, total)
		return
	}
	printSuccess("Block %d composited in %s (%d/%d)", block, dur.Round(time.Second), done, total)
}
