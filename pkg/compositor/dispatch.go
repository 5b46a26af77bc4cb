package compositor

import (
	"context"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ehelvetica/webcollage/pkg/cache"
	"github.com/ehelvetica/webcollage/pkg/errors"
	"github.com/ehelvetica/webcollage/pkg/observability"
)

// DispatchOptions configures [Dispatch].
type DispatchOptions struct {
	// Parallel is the number of concurrent invocations (default 1).
	Parallel int

	// Retries is the number of extra attempts after a non-zero exit.
	Retries    int
	RetryDelay time.Duration

	// Cache records finished blocks. Blocks whose key is cached and whose
	// output still exists are skipped. Nil disables skipping.
	Cache cache.Cache

	Logger *log.Logger
}

// Outcome is the result of one request.
type Outcome struct {
	Block    int
	Output   string
	Duration time.Duration
	Skipped  bool // output was current, tool not run
	Err      error
}

// Report collects the outcomes of a dispatch, in request order.
type Report struct {
	Outcomes []Outcome
}

// Failed returns the sorted indices of the blocks that failed.
func (r *Report) Failed() []int {
	var failed []int
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o.Block)
		}
	}
	slices.Sort(failed)
	return failed
}

// Skipped returns the number of blocks served from the cache.
func (r *Report) Skipped() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Skipped {
			n++
		}
	}
	return n
}

// Err returns a [errors.BlocksFailedError] when any block failed.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return &errors.BlocksFailedError{Blocks: failed, Total: len(r.Outcomes)}
}

// Dispatch runs every request with at most opts.Parallel invocations at a
// time. It always returns a complete report: a failed block does not stop
// the others, and once ctx is done the requests not yet launched are
// reported as failed with the context error.
func Dispatch(ctx context.Context, c Compositor, reqs []Request, opts DispatchOptions) *Report {
	d := dispatcher{c: c, opts: opts}
	if d.opts.Logger == nil {
		d.opts.Logger = log.New(io.Discard)
	}
	if d.opts.Cache == nil {
		d.opts.Cache = cache.NewNullCache()
	}
	if d.opts.RetryDelay == 0 {
		d.opts.RetryDelay = DefaultRetryDelay
	}

	rep := &Report{Outcomes: make([]Outcome, len(reqs))}

	var g errgroup.Group
	g.SetLimit(max(opts.Parallel, 1))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			rep.Outcomes[i] = Outcome{Block: req.Block, Output: req.Output(), Err: err}
			continue
		}
		// Each goroutine owns one slot of the report.
		g.Go(func() error {
			rep.Outcomes[i] = d.one(ctx, req)
			return nil
		})
	}
	_ = g.Wait()
	return rep
}

type dispatcher struct {
	c    Compositor
	opts DispatchOptions
}

func (d *dispatcher) one(ctx context.Context, req Request) Outcome {
	out := Outcome{Block: req.Block, Output: req.Output()}
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	resumable := cache.Enabled(d.opts.Cache)
	key := cache.BlockKey(cache.BlockKeyOpts{
		Backend: d.c.Name(),
		Images:  req.Images,
		Across:  req.Across,
		Output:  out.Output,
	})
	if resumable {
		if d.current(ctx, key, out.Output) {
			observability.Cache().OnCacheHit(ctx, "block")
			d.opts.Logger.Info("block up to date, skipping", "block", req.Block, "out", out.Output)
			out.Skipped = true
			return out
		}
		observability.Cache().OnCacheMiss(ctx, "block")
	}

	hooks := observability.Compositor()
	hooks.OnBlockStart(ctx, req.Block, len(req.Images))
	d.opts.Logger.Info("compositing block", "block", req.Block, "images", len(req.Images), "across", req.Across)

	start := time.Now()
	out.Err = RetryWithBackoff(ctx, d.opts.Retries, d.opts.RetryDelay, func() error {
		err := d.c.Composite(ctx, req)
		if err != nil && IsRetryable(err) && d.opts.Retries > 0 {
			d.opts.Logger.Warn("compositor failed, retrying", "block", req.Block, "err", err)
		}
		return err
	})
	out.Duration = time.Since(start)
	hooks.OnBlockComplete(ctx, req.Block, out.Duration, out.Err)

	if out.Err != nil {
		d.opts.Logger.Error("block failed", "block", req.Block, "err", out.Err)
		return out
	}
	d.opts.Logger.Info("block done", "block", req.Block, "out", out.Output, "duration", out.Duration.Round(time.Millisecond))

	if !resumable {
		return out
	}
	if err := d.opts.Cache.Set(ctx, key, []byte(out.Output), 0); err != nil {
		d.opts.Logger.Warn("could not record block in cache", "block", req.Block, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "block", len(out.Output))
	}
	return out
}

// current reports whether key records out and out still exists.
func (d *dispatcher) current(ctx context.Context, key, out string) bool {
	data, hit, err := d.opts.Cache.Get(ctx, key)
	if err != nil || !hit || string(data) != out {
		return false
	}
	_, err = os.Stat(out)
	return err == nil
}
