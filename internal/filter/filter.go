// Package filter decides which records are shown.
//
// Recompute applies Matches to every record. Large galleries are processed
// in chunks on the loop's idle queue; each pass carries a generation number
// and a chunk whose generation is no longer current does nothing.
package filter

import (
	"github.com/rs/zerolog"

	"slategallery/internal/gallery"
	"slategallery/internal/loop"
	"slategallery/internal/state"
)

const (
	DefaultChunkThreshold = 200
	DefaultChunkSize      = 100
)

type Options struct {
	Scheduler loop.Scheduler
	// Threshold is the record count at which passes become chunked.
	Threshold int
	ChunkSize int
	Logger    zerolog.Logger
	// Trace, if set, is called for every visibility write with the
	// generation that made it.
	Trace func(gen uint64, r *gallery.Record)
}

type Engine struct {
	st        *state.Store
	sched     loop.Scheduler
	threshold int
	chunkSize int
	logger    zerolog.Logger
	trace     func(uint64, *gallery.Record)

	generation uint64
	busy       bool
	settled    []func()
}

func New(st *state.Store, opts Options) *Engine {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultChunkThreshold
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Engine{
		st:        st,
		sched:     opts.Scheduler,
		threshold: opts.Threshold,
		chunkSize: opts.ChunkSize,
		logger:    opts.Logger,
		trace:     opts.Trace,
	}
}

// OnSettled registers fn to run after every completed pass, once slate
// visibility and caches are up to date.
func (e *Engine) OnSettled(fn func()) {
	e.settled = append(e.settled, fn)
}

// Generation returns the number of the latest pass.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// Busy reports whether a chunked pass is still in flight.
func (e *Engine) Busy() bool {
	return e.busy
}

// Visible returns the shown records in document order.
func (e *Engine) Visible() []*gallery.Record {
	return e.st.VisibleImages()
}

// Rank returns the visible position of path, or -1.
func (e *Engine) Rank(path string) int {
	return e.st.Rank(path)
}

// Recompute starts a new pass and returns its generation. Any pass still
// in flight is superseded.
func (e *Engine) Recompute() uint64 {
	e.generation++
	gen := e.generation
	records := e.st.Gallery.Records()
	if len(records) < e.threshold || e.sched == nil {
		e.apply(gen, records)
		e.finish(gen)
		return gen
	}
	e.busy = true
	e.st.InvalidateCaches()
	e.logger.Debug().Uint64("generation", gen).Int("records", len(records)).Msg("chunked filter pass")
	e.sched.Idle(func() { e.chunk(gen, 0) })
	return gen
}

// Complete finishes a pass in flight on the calling goroutine. Commands
// that read the visible list call it first so they never see a list from
// before the latest criteria change. Chunks still queued for that pass
// drop out.
func (e *Engine) Complete() {
	if !e.busy {
		return
	}
	gen := e.generation
	e.logger.Debug().Uint64("generation", gen).Msg("completing filter pass now")
	e.apply(gen, e.st.Gallery.Records())
	e.finish(gen)
}

func (e *Engine) chunk(gen uint64, start int) {
	if gen != e.generation || !e.busy {
		e.logger.Debug().Uint64("generation", gen).Uint64("current", e.generation).Msg("stale filter pass dropped")
		return
	}
	records := e.st.Gallery.Records()
	end := min(start+e.chunkSize, len(records))
	e.apply(gen, records[start:end])
	if end < len(records) {
		e.sched.Idle(func() { e.chunk(gen, end) })
		return
	}
	e.finish(gen)
}

func (e *Engine) apply(gen uint64, records []*gallery.Record) {
	c, m := e.st.Criteria, e.st.Mode
	for _, r := range records {
		r.FilteredOut = !Matches(r, c, m)
		if e.trace != nil {
			e.trace(gen, r)
		}
	}
}

func (e *Engine) finish(gen uint64) {
	for _, s := range e.st.Gallery.Slates {
		s.FilteredOut = s.VisibleCount() == 0
	}
	e.st.InvalidateCaches()
	e.busy = false
	for _, fn := range e.settled {
		fn()
	}
	e.logger.Debug().Uint64("generation", gen).Int("visible", len(e.Visible())).Msg("filter pass settled")
}
