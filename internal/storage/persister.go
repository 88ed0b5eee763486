package storage

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"slategallery/internal/debounce"
	"slategallery/internal/loop"
	"slategallery/internal/notify"
)

// DefaultSaveDelay is the debounce applied to every save.
const DefaultSaveDelay = 300 * time.Millisecond

// Kind selects which of the two persisted sets an operation targets.
type Kind int

const (
	Selections Kind = iota
	Hidden
)

func (k Kind) String() string {
	if k == Hidden {
		return "hidden"
	}
	return "selections"
}

// Source returns the current set of paths for kind at write time.
type Source func(kind Kind) map[string]bool

// PersisterOptions configures a Persister.
type PersisterOptions struct {
	Store     Store
	PagePath  string
	Scheduler loop.Scheduler
	Delay     time.Duration
	Notifier  notify.Notifier
	Logger    zerolog.Logger
}

// Persister saves and restores the selection and hidden sets of one page.
// Saves are debounced per kind. After the first storage fault persistence
// is switched off for the session and the engine keeps working in memory.
type Persister struct {
	store     Store
	keys      Keys
	source    Source
	notifier  notify.Notifier
	logger    zerolog.Logger
	available bool
	warned    bool
	savers    [2]*debounce.Debouncer
}

// NewPersister checks the store once and prepares the debounced savers.
func NewPersister(opts PersisterOptions, source Source) *Persister {
	if opts.Delay <= 0 {
		opts.Delay = DefaultSaveDelay
	}
	p := &Persister{
		store:    opts.Store,
		keys:     KeysFor(opts.PagePath),
		source:   source,
		notifier: opts.Notifier,
		logger:   opts.Logger.With().Str("component", "persistence").Logger(),
	}
	if p.store == nil {
		p.store = DisabledStore{}
	}
	if err := CheckAvailable(p.store); err != nil {
		p.logger.Warn().Err(err).Msg("storage unavailable, selections will not survive a reload")
	} else {
		p.available = true
	}
	for _, kind := range []Kind{Selections, Hidden} {
		kind := kind
		p.savers[kind] = debounce.New(opts.Scheduler, opts.Delay, func() { p.write(kind) })
	}
	return p
}

// Available reports whether saves still reach the store.
func (p *Persister) Available() bool {
	return p.available
}

// Keys returns the storage keys of the page.
func (p *Persister) Keys() Keys {
	return p.keys
}

// Saver schedules writes of one persisted set. Controllers depend on it
// instead of the Persister.
type Saver interface {
	Save(kind Kind)
}

var _ Saver = (*Persister)(nil)

// Save schedules a debounced write of kind.
func (p *Persister) Save(kind Kind) {
	if !p.available {
		return
	}
	p.savers[kind].Call()
}

// Flush writes every pending save now.
func (p *Persister) Flush() {
	for _, s := range p.savers {
		s.Flush()
	}
}

// Restore reads kind from the store. Missing, unreadable or corrupt data
// yields an empty set.
func (p *Persister) Restore(kind Kind) map[string]bool {
	out := make(map[string]bool)
	if !p.available {
		return out
	}
	raw, ok, err := p.store.Get(p.key(kind))
	if err != nil {
		p.logger.Error().Err(err).Stringer("kind", kind).Msg("failed to read saved state")
		return out
	}
	if !ok {
		return out
	}
	var saved map[string]bool
	if err := json.Unmarshal(raw, &saved); err != nil {
		p.logger.Warn().Err(err).Stringer("kind", kind).Msg("discarding corrupt saved state")
		return out
	}
	for path, v := range saved {
		if v {
			out[path] = true
		}
	}
	return out
}

func (p *Persister) key(kind Kind) string {
	if kind == Hidden {
		return p.keys.Hidden
	}
	return p.keys.Selections
}

func (p *Persister) write(kind Kind) {
	if !p.available {
		return
	}
	set := p.source(kind)
	if set == nil {
		set = map[string]bool{}
	}
	raw, err := json.Marshal(set)
	if err != nil {
		p.fail(kind, err)
		return
	}
	if err := p.store.Set(p.key(kind), raw); err != nil {
		p.fail(kind, err)
		return
	}
	p.logger.Debug().Stringer("kind", kind).Int("count", len(set)).Msg("saved")
}

// fail turns persistence off for the rest of the session and warns the
// user once.
func (p *Persister) fail(kind Kind, err error) {
	p.logger.Error().Err(err).Stringer("kind", kind).Msg("failed to save, continuing in memory")
	p.available = false
	for _, s := range p.savers {
		s.Cancel()
	}
	if p.warned || p.notifier == nil {
		return
	}
	p.warned = true
	p.notifier.Notify(notify.Warning, "Could not save to storage. Changes will be lost when the gallery is closed.")
	p.notifier.Announce("Saving is unavailable")
}
