// Package engine wires the gallery controllers together and applies user
// commands through a single reducer.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"slategallery/internal/export"
	"slategallery/internal/filter"
	"slategallery/internal/gallery"
	"slategallery/internal/hidden"
	"slategallery/internal/loop"
	"slategallery/internal/modal"
	"slategallery/internal/notify"
	"slategallery/internal/selection"
	"slategallery/internal/state"
	"slategallery/internal/storage"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	// ErrFault wraps a panic recovered while applying a command.
	ErrFault = errors.New("internal fault")
)

const (
	MinThumbSize = 80
	MaxThumbSize = 480
)

// Drainer runs queued loop work to completion.
type Drainer interface {
	Drain()
}

type Options struct {
	Store     storage.Store
	PagePath  string
	Scheduler loop.Scheduler
	Notifier  notify.Notifier
	Clipboard export.Clipboard
	Logger    zerolog.Logger

	SaveDelay      time.Duration
	ResizeDelay    time.Duration
	ChunkThreshold int
	ChunkSize      int

	// OnRender draws the modal image; OnClose restores focus after it.
	OnRender func(r *gallery.Record)
	OnClose  func(returnFocus string)
}

// Engine owns one gallery session.
type Engine struct {
	State     *state.Store
	Filter    *filter.Engine
	Selection *selection.Controller
	Hidden    *hidden.Controller
	Modal     *modal.Navigator
	Exporter  *export.Exporter
	Persister *storage.Persister

	sched     loop.Scheduler
	notifier  notify.Notifier
	logger    zerolog.Logger
	listeners []func()
}

// New builds the controllers for g, restores the saved hidden and
// selection sets and runs the first filter pass.
func New(g *gallery.Gallery, opts Options) *Engine {
	if opts.Notifier == nil {
		opts.Notifier = notify.Log{Logger: opts.Logger}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = export.System{}
	}
	st := state.New(g)
	e := &Engine{
		State:    st,
		sched:    opts.Scheduler,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
	e.Persister = storage.NewPersister(storage.PersisterOptions{
		Store:     opts.Store,
		PagePath:  opts.PagePath,
		Scheduler: opts.Scheduler,
		Delay:     opts.SaveDelay,
		Notifier:  opts.Notifier,
		Logger:    opts.Logger,
	}, e.snapshot)
	e.Filter = filter.New(st, filter.Options{
		Scheduler: opts.Scheduler,
		Threshold: opts.ChunkThreshold,
		ChunkSize: opts.ChunkSize,
		Logger:    opts.Logger.With().Str("component", "filter").Logger(),
	})
	e.Selection = selection.New(st, e.Filter, e.Persister, opts.Logger)
	e.Hidden = hidden.New(st, e.Filter, e.Persister, opts.Notifier, opts.Logger)
	e.Modal = modal.New(st, e.Filter, e.Hidden, modal.Options{
		Scheduler:   opts.Scheduler,
		ResizeDelay: opts.ResizeDelay,
		Notifier:    opts.Notifier,
		Logger:      opts.Logger,
		OnRender:    opts.OnRender,
		OnClose:     opts.OnClose,
	})
	e.Exporter = export.NewExporter(opts.Clipboard, opts.Notifier, opts.Logger)
	e.Filter.OnSettled(e.changed)

	hiddenN := e.Hidden.Apply(e.Persister.Restore(storage.Hidden))
	selectedN := e.Selection.Apply(e.Persister.Restore(storage.Selections))
	e.logger.Info().
		Int("images", g.Len()).
		Int("slates", len(g.Slates)).
		Int("hidden", hiddenN).
		Int("selected", selectedN).
		Bool("persistence", e.Persister.Available()).
		Msg("gallery loaded")
	if len(g.Duplicates) > 0 {
		e.logger.Warn().Strs("paths", g.Duplicates).Msg("duplicate image paths ignored")
	}
	e.Filter.Recompute()
	return e
}

func (e *Engine) snapshot(kind storage.Kind) map[string]bool {
	if kind == storage.Hidden {
		return e.State.HiddenPaths()
	}
	return e.State.SelectedPaths()
}

// OnChange registers fn to run once after every dispatched command and
// every settled filter pass. Front-ends refresh status and badges there.
func (e *Engine) OnChange(fn func()) {
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) changed() {
	for _, fn := range e.listeners {
		fn()
	}
}

// Status returns the status bar counts.
func (e *Engine) Status() state.Status {
	return e.State.Status()
}

// Dispatch applies cmd. It is the only entry point front-ends use to
// mutate the session.
func (e *Engine) Dispatch(cmd Command) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Stringer("command", cmd.Kind).Msg("command failed, resyncing")
			e.resync()
			res, err = Result{}, fmt.Errorf("%w: %s: %v", ErrFault, cmd.Kind, r)
		}
	}()
	res, err = e.apply(cmd)
	e.changed()
	return res, err
}

// readsVisible lists the commands that walk the visible order.
var readsVisible = map[Kind]bool{
	Click:         true,
	SelectAll:     true,
	DeselectAll:   true,
	SelectSlate:   true,
	DeselectSlate: true,
	Hide:          true,
	Unhide:        true,
	ToggleHide:    true,
	OpenModal:     true,
	ModalNext:     true,
	ModalPrev:     true,
	ModalKey:      true,
	Export:        true,
}

func (e *Engine) apply(cmd Command) (Result, error) {
	if readsVisible[cmd.Kind] {
		e.Filter.Complete()
	}
	switch cmd.Kind {
	case Click:
		return changedIf(e.Selection.Click(cmd.Path, cmd.Mods)), nil
	case SelectAll:
		return Result{Changed: e.Selection.SetAll(true)}, nil
	case DeselectAll:
		return Result{Changed: e.Selection.SetAll(false)}, nil
	case SelectSlate:
		return Result{Changed: e.Selection.SetSlate(cmd.Slate, true)}, nil
	case DeselectSlate:
		return Result{Changed: e.Selection.SetSlate(cmd.Slate, false)}, nil
	case ToggleSelectedMode:
		e.Selection.ToggleSelectedMode()
	case Hide:
		if r := e.State.Gallery.Lookup(cmd.Path); r == nil || r.Hidden {
			return Result{}, nil
		}
		return changedIf(e.toggleHide(cmd.Path)), nil
	case Unhide:
		if r := e.State.Gallery.Lookup(cmd.Path); r == nil || !r.Hidden {
			return Result{}, nil
		}
		return changedIf(e.toggleHide(cmd.Path)), nil
	case ToggleHide:
		return changedIf(e.toggleHide(cmd.Path)), nil
	case UnhideAll:
		return Result{Changed: e.Hidden.UnhideAll(cmd.Confirmed)}, nil
	case ToggleHiddenMode:
		e.Hidden.ToggleHiddenMode()
	case ToggleOrientation:
		e.State.Criteria.ToggleOrientation(gallery.ParseOrientation(cmd.Key))
		e.Filter.Recompute()
	case ToggleFocal:
		e.State.Criteria.ToggleFocal(cmd.Key)
		e.Filter.Recompute()
	case ToggleDate:
		e.State.Criteria.ToggleDate(cmd.Key)
		e.Filter.Recompute()
	case ClearFilters:
		e.State.Criteria.Clear()
		e.Filter.Recompute()
	case SetThumbSize:
		e.State.ThumbSize = max(MinThumbSize, min(MaxThumbSize, cmd.Value))
	case OpenModal:
		e.Modal.Open(cmd.Path, cmd.Focus)
	case CloseModal:
		e.Modal.Close()
	case ModalNext:
		e.Modal.Next()
	case ModalPrev:
		e.Modal.Prev()
	case ModalKey:
		e.Modal.HandleKey(cmd.ModalKey, cmd.Mods.Shift)
	case Resize:
		e.Modal.Resize()
	case Export:
		text, err := e.Exporter.Copy(e.Filter.Visible())
		return Result{Text: text}, err
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownCommand, cmd.Kind)
	}
	return Result{}, nil
}

// toggleHide routes the image shown in the viewer through the navigator
// so the viewer can move on when the image leaves the view.
func (e *Engine) toggleHide(path string) bool {
	r := e.State.Gallery.Lookup(path)
	if r == nil {
		return false
	}
	if e.Modal.Current() == r {
		e.Modal.HideCurrent()
		return true
	}
	e.Hidden.Toggle(path)
	return true
}

func changedIf(ok bool) Result {
	if ok {
		return Result{Changed: 1}
	}
	return Result{}
}

// resync drops caches and recomputes visibility after a fault.
func (e *Engine) resync() {
	e.State.InvalidateCaches()
	e.Modal.Close()
	e.Filter.Recompute()
	e.notifier.Notify(notify.Error, "Something went wrong; the view was refreshed")
}

// Settle runs queued work, including chunked filter passes, until the
// loop is idle. Timers still waiting are not fired.
func (e *Engine) Settle() {
	if d, ok := e.sched.(Drainer); ok {
		d.Drain()
	}
}

// Close writes pending saves immediately.
func (e *Engine) Close() {
	e.Persister.Flush()
}
