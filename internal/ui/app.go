// Package ui is the desktop front-end of the gallery.
package ui

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"slategallery/internal/config"
	"slategallery/internal/engine"
	"slategallery/internal/export"
	"slategallery/internal/gallery"
	"slategallery/internal/loop"
	"slategallery/internal/notify"
	"slategallery/internal/source"
	"slategallery/internal/state"
	"slategallery/internal/storage"
)

const appID = "com.github.slategallery"

// Options configures CreateApplication.
type Options struct {
	// Source is a gallery HTML page or an image directory.
	Source string
	Config *config.Config
	Logger zerolog.Logger
}

// deps are the pieces CreateApplication owns and tests replace.
type deps struct {
	Config    *config.Config
	Scheduler loop.Scheduler
	Store     storage.Store
	Clipboard export.Clipboard
	Logger    zerolog.Logger
	// Async runs slow work (image decoding) off the UI goroutine.
	Async func(func())
}

// App represents the whole application with its window, widgets and the
// engine behind them.
type App struct {
	app    fyne.App
	win    fyne.Window
	page   *source.Page
	engine *engine.Engine
	loop   *loop.Loop
	store  storage.Store
	bar    *notify.Bar
	logger zerolog.Logger
	async  func(func())

	thumbs  *ThumbnailManager
	gallery *galleryView
	filters *filterPanel
	viewer  *viewer

	mainModKey fyne.KeyModifier

	statusLabel *widget.Label
	liveLabel   *widget.Label
	noticeLabel *widget.Label
	noticeUp    *widget.Button
	noticeDown  *widget.Button
	selectedBtn *widget.Button
	hiddenBtn   *widget.Button
	sizeSlider  *widget.Slider
}

// CreateApplication is the GUI entrypoint. It blocks until the window is
// closed.
func CreateApplication(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.FromEnv(); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	page, err := source.Open(ctx, opts.Source, opts.Logger)
	if err != nil {
		return err
	}

	a := app.NewWithID(appID)
	a.Settings().SetTheme(NewGalleryTheme(a.Settings().Theme()))
	win := a.NewWindow("Slate Gallery")

	lp := loop.New(loop.Options{})
	ui := newApp(a, win, page, deps{
		Config:    cfg,
		Scheduler: lp,
		Store:     openStore(cfg, opts.Logger),
		Clipboard: export.Chain{windowClipboard{win}, export.System{}},
		Logger:    opts.Logger,
		Async:     func(fn func()) { go fn() },
	})
	ui.loop = lp

	win.SetCloseIntercept(func() {
		ui.close()
		win.Close()
	})
	go ui.drive(ctx)

	win.Resize(fyne.NewSize(1280, 860))
	win.CenterOnScreen()
	win.ShowAndRun()
	return nil
}

// openStore opens the bolt store, falling back to a disabled store so the
// session still runs in memory.
func openStore(cfg *config.Config, logger zerolog.Logger) storage.Store {
	if cfg.NoStorage {
		return storage.DisabledStore{}
	}
	s, err := storage.NewBoltStore(cfg.DataDir, cfg.StorageQuota, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("storage disabled")
		return storage.DisabledStore{}
	}
	return s
}

func newApp(fa fyne.App, win fyne.Window, page *source.Page, d deps) *App {
	ui := &App{
		app:    fa,
		win:    win,
		page:   page,
		store:  d.Store,
		logger: d.Logger.With().Str("component", "ui").Logger(),
		async:  d.Async,
	}
	if ui.async == nil {
		ui.async = func(fn func()) { go fn() }
	}
	// set main mod key to super on darwin hosts, else set it to ctrl
	if runtime.GOOS == "darwin" {
		ui.mainModKey = fyne.KeyModifierSuper
	} else {
		ui.mainModKey = fyne.KeyModifierControl
	}

	ui.bar = notify.NewBar(notify.DefaultMaxMessages, d.Logger)
	ui.bar.OnChange = ui.updateNotice
	ui.bar.Expire(d.Scheduler, d.Config.Timing.NoticeTimeout)
	ui.thumbs = NewThumbnailManager(ui)
	ui.viewer = newViewer(ui)

	cfg := d.Config
	ui.engine = engine.New(page.Gallery, engine.Options{
		Store:          d.Store,
		PagePath:       page.Path,
		Scheduler:      d.Scheduler,
		Notifier:       ui.bar,
		Clipboard:      d.Clipboard,
		Logger:         d.Logger,
		SaveDelay:      cfg.Timing.SaveDelay,
		ResizeDelay:    cfg.Timing.ResizeDelay,
		ChunkThreshold: cfg.Filter.ChunkThreshold,
		ChunkSize:      cfg.Filter.ChunkSize,
		OnRender:       ui.viewer.render,
		OnClose:        ui.viewerClosed,
	})

	win.SetContent(ui.buildMainUI())
	ui.engine.OnChange(ui.refresh)
	ui.refresh()
	return ui
}

// drive runs the engine loop on the UI goroutine whenever work is queued.
func (a *App) drive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.loop.Wake():
		}
		more := true
		for more {
			fyne.DoAndWait(func() { more = a.loop.RunOnce() })
		}
	}
}

func (a *App) close() {
	a.logger.Info().Msg("closing gallery")
	a.engine.Close()
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("error closing storage")
	}
}

// dispatch applies cmd and logs failures. User-visible faults have already
// been reported through the notification bar.
func (a *App) dispatch(cmd engine.Command) engine.Result {
	res, err := a.engine.Dispatch(cmd)
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrFault):
		a.logger.Error().Err(err).Msg("command fault")
	default:
		a.logger.Debug().Err(err).Stringer("command", cmd.Kind).Msg("command rejected")
	}
	return res
}

// refresh brings every widget in line with the engine state. It runs after
// each command and each settled filter pass.
func (a *App) refresh() {
	st := a.engine.Status()
	a.gallery.refresh()
	a.filters.refresh()
	if a.viewer.isShown() {
		a.viewer.update()
		a.win.Canvas().Focus(a.viewer.pane)
	}

	text := fmt.Sprintf("%d of %d images | %d selected", st.Visible, st.Total, st.Selected)
	if a.engine.Filter.Busy() {
		text += " | filtering..."
	}
	a.statusLabel.SetText(text)

	if n, ok := a.engine.Hidden.Badge(); ok {
		a.hiddenBtn.SetText(fmt.Sprintf("Hidden (%d)", n))
	} else {
		a.hiddenBtn.SetText("Hidden")
	}
	a.hiddenBtn.Importance = importanceIf(st.Mode == state.HiddenOnly)
	a.hiddenBtn.Refresh()
	a.selectedBtn.Importance = importanceIf(st.Mode == state.SelectedOnly)
	a.selectedBtn.Refresh()
}

func importanceIf(active bool) widget.Importance {
	if active {
		return widget.HighImportance
	}
	return widget.MediumImportance
}

// updateNotice shows the message under the notification cursor.
func (a *App) updateNotice() {
	if a.noticeLabel == nil {
		return
	}
	a.liveLabel.SetText(a.bar.Announcement())
	msg, ok := a.bar.Current()
	if !ok {
		a.noticeLabel.SetText("")
		a.noticeUp.Disable()
		a.noticeDown.Disable()
		return
	}
	a.noticeLabel.Importance = levelImportance(msg.Level)
	a.noticeLabel.SetText(a.bar.Status())
	if a.bar.CanGoBack() {
		a.noticeUp.Enable()
	} else {
		a.noticeUp.Disable()
	}
	if a.bar.CanGoForward() {
		a.noticeDown.Enable()
	} else {
		a.noticeDown.Disable()
	}
}

func levelImportance(l notify.Level) widget.Importance {
	switch l {
	case notify.Success:
		return widget.SuccessImportance
	case notify.Warning:
		return widget.WarningImportance
	case notify.Error:
		return widget.DangerImportance
	default:
		return widget.MediumImportance
	}
}

func (a *App) exportSelection() {
	a.dispatch(engine.Command{Kind: engine.Export})
}

// unhideAllCheck asks before unhiding everything.
func (a *App) unhideAllCheck() {
	n := a.engine.State.HiddenCount()
	if n == 0 {
		a.dispatch(engine.Command{Kind: engine.UnhideAll})
		return
	}
	dialog.ShowConfirm("Unhide all images", fmt.Sprintf("Unhide %d hidden %s?", n, imagesWord(n)), func(ok bool) {
		if ok {
			a.dispatch(engine.Command{Kind: engine.UnhideAll, Confirmed: true})
		}
	}, a.win)
}

func (a *App) setThumbSize(size float64) {
	a.dispatch(engine.Command{Kind: engine.SetThumbSize, Value: int(size)})
}

// viewerClosed hands focus back to the tile the viewer was opened from.
func (a *App) viewerClosed(returnFocus string) {
	a.viewer.hide()
	if t := a.gallery.tile(returnFocus); t != nil && t.Visible() {
		a.win.Canvas().Focus(t)
	}
}

func (a *App) record(path string) *gallery.Record {
	return a.engine.State.Gallery.Lookup(path)
}

func imagesWord(n int) string {
	if n == 1 {
		return "image"
	}
	return "images"
}

// windowClipboard writes through the window system clipboard.
type windowClipboard struct {
	win fyne.Window
}

func (c windowClipboard) WriteAll(text string) error {
	cb := c.win.Clipboard()
	if cb == nil {
		return export.ErrClipboardUnavailable
	}
	cb.SetContent(text)
	return nil
}

func (a *App) buildMainUI() fyne.CanvasObject {
	a.win.SetMaster()
	toolbar := a.buildToolbar()
	status := a.buildStatusBar()
	a.filters = newFilterPanel(a)
	a.gallery = newGalleryView(a)

	a.win.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Copy Selection", a.exportSelection),
		),
		fyne.NewMenu("Edit",
			fyne.NewMenuItem("Select All", func() { a.dispatch(engine.Command{Kind: engine.SelectAll}) }),
			fyne.NewMenuItem("Deselect All", func() { a.dispatch(engine.Command{Kind: engine.DeselectAll}) }),
			fyne.NewMenuItem("Unhide All", a.unhideAllCheck),
			fyne.NewMenuItem("Clear Filters", func() { a.dispatch(engine.Command{Kind: engine.ClearFilters}) }),
		),
		fyne.NewMenu("View",
			fyne.NewMenuItem("Selected Only", func() { a.dispatch(engine.Command{Kind: engine.ToggleSelectedMode}) }),
			fyne.NewMenuItem("Hidden Only", func() { a.dispatch(engine.Command{Kind: engine.ToggleHiddenMode}) }),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
			fyne.NewMenuItem("About", func() { NewAbout(a).Show() }),
		),
	))
	a.buildKeyboardShortcuts()

	split := container.NewHSplit(a.filters.content, a.gallery.content)
	split.SetOffset(0.2)
	return container.NewBorder(toolbar, status, nil, nil, split)
}
