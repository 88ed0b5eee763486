package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"slategallery/internal/config"
	"slategallery/internal/engine"
	"slategallery/internal/export"
	"slategallery/internal/gallery"
	"slategallery/internal/logging"
	"slategallery/internal/loop"
	"slategallery/internal/notify"
	"slategallery/internal/selection"
	"slategallery/internal/source"
	"slategallery/internal/storage"
	"slategallery/internal/tui"
)

var (
	dataDirFlag     string
	noStorageFlag   bool
	logLevelFlag    string
	forceFlag       bool
	copyFlag        bool
	orientationFlag []string
	focalFlag       []string
	dateFlag        []string
)

// StoreOpener opens the persistent store for a session. Tests swap it for
// an in-memory store.
type StoreOpener func(cfg *config.Config, logger zerolog.Logger) (storage.Store, error)

func openBoltStore(cfg *config.Config, logger zerolog.Logger) (storage.Store, error) {
	return storage.NewBoltStore(cfg.DataDir, cfg.StorageQuota, logger)
}

// session is one opened gallery with its engine.
type session struct {
	page   *source.Page
	engine *engine.Engine
	loop   *loop.Loop
	bar    *notify.Bar
	store  storage.Store
	logger zerolog.Logger
}

func (s *session) close() {
	s.engine.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Error().Err(err).Msg("error closing storage")
	}
}

func (s *session) dispatch(cmd engine.Command) (engine.Result, error) {
	res, err := s.engine.Dispatch(cmd)
	s.engine.Settle()
	return res, err
}

// lookup finds the record for arg, trying it as given and as an absolute
// path.
func (s *session) lookup(arg string) (*gallery.Record, error) {
	g := s.engine.State.Gallery
	if r := g.Lookup(arg); r != nil {
		return r, nil
	}
	if abs, err := filepath.Abs(arg); err == nil {
		if r := g.Lookup(abs); r != nil {
			return r, nil
		}
	}
	return nil, fmt.Errorf("image '%s' is not in the gallery", arg)
}

// NewRootCmd creates the root command for the CLI application. open
// provides the store each command persists to.
func NewRootCmd(open StoreOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "slategallery-cli",
		Short:         "Slate Gallery CLI - inspect galleries and manage selections",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// openSession loads the gallery in src. Interactive sessions report
	// through a notification bar and keep log lines off the terminal.
	openSession := func(cmd *cobra.Command, src string, interactive bool) (*session, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}
		if noStorageFlag {
			cfg.NoStorage = true
		}
		if logLevelFlag != "" {
			cfg.Logging.Level = strings.ToLower(logLevelFlag)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		logOut := cmd.ErrOrStderr()
		if interactive {
			logOut = io.Discard
		}
		logger := logging.New(cfg.Logging, logOut)

		page, err := source.Open(cmd.Context(), src, logger)
		if err != nil {
			return nil, err
		}
		var store storage.Store = storage.DisabledStore{}
		if !cfg.NoStorage {
			if store, err = open(cfg, logger); err != nil {
				return nil, err
			}
		}

		s := &session{page: page, store: store, logger: logger, loop: loop.New(loop.Options{})}
		var notifier notify.Notifier = notify.Log{Logger: logger}
		if interactive {
			s.bar = notify.NewBar(notify.DefaultMaxMessages, logger)
			s.bar.Expire(s.loop, cfg.Timing.NoticeTimeout)
			notifier = s.bar
		}
		s.engine = engine.New(page.Gallery, engine.Options{
			Store:          store,
			PagePath:       page.Path,
			Scheduler:      s.loop,
			Notifier:       notifier,
			Clipboard:      export.Chain{export.System{}, export.Terminal{Out: cmd.ErrOrStderr()}},
			Logger:         logger,
			SaveDelay:      cfg.Timing.SaveDelay,
			ResizeDelay:    cfg.Timing.ResizeDelay,
			ChunkThreshold: cfg.Filter.ChunkThreshold,
			ChunkSize:      cfg.Filter.ChunkSize,
		})
		s.engine.Settle()
		return s, nil
	}

	// withSession opens the gallery in src, runs fn and saves.
	withSession := func(cmd *cobra.Command, src string, fn func(s *session) error) error {
		s, err := openSession(cmd, src, false)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(s)
	}

	// Inspect command
	inspectCmd := &cobra.Command{
		Use:   "inspect [gallery]",
		Short: "Show slates, filter options and saved state of a gallery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(s *session) error {
				out := cmd.OutOrStdout()
				g := s.engine.State.Gallery
				st := s.engine.Status()
				storageState := "on"
				if !s.engine.Persister.Available() {
					storageState = "off"
				}
				fmt.Fprintf(out, "Gallery:  %s\n", s.page.Path)
				fmt.Fprintf(out, "Images:   %d in %d slates\n", st.Total, len(g.Slates))
				fmt.Fprintf(out, "Selected: %d\n", st.Selected)
				fmt.Fprintf(out, "Hidden:   %d\n", st.Hidden)
				fmt.Fprintf(out, "Storage:  %s\n", storageState)
				facets := g.Facets()
				fmt.Fprintf(out, "Orientation: %s\n", facetList(facets.Orientations))
				fmt.Fprintf(out, "Focal length: %s\n", facetList(facets.FocalLengths))
				fmt.Fprintf(out, "Date: %s\n", facetList(facets.Dates))
				fmt.Fprintln(out, "Slates:")
				for _, sl := range g.Slates {
					fmt.Fprintf(out, "  %s (%d)\n", sl.Name, len(sl.Records))
				}
				return nil
			})
		},
	}
	rootCmd.AddCommand(inspectCmd)

	// Browse command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "browse [gallery]",
		Short: "Browse, select and hide images in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0], true)
			if err != nil {
				return err
			}
			defer s.close()
			p := tea.NewProgram(tui.New(s.engine, s.loop, s.bar),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}
			return nil
		},
	})

	// Export command
	exportCmd := &cobra.Command{
		Use:   "export [gallery]",
		Short: "Print the selected images, optionally filtered, in export format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(s *session) error {
				for _, f := range []struct {
					kind engine.Kind
					keys []string
				}{
					{engine.ToggleOrientation, orientationFlag},
					{engine.ToggleFocal, focalFlag},
					{engine.ToggleDate, dateFlag},
				} {
					for _, k := range f.keys {
						if _, err := s.dispatch(engine.Command{Kind: f.kind, Key: k}); err != nil {
							return err
						}
					}
				}
				if copyFlag {
					res, err := s.dispatch(engine.Command{Kind: engine.Export})
					if err != nil {
						return exportError(err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), res.Text)
					return nil
				}
				text, _, err := export.Build(s.engine.Filter.Visible())
				if err != nil {
					return exportError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	exportCmd.Flags().StringSliceVar(&orientationFlag, "orientation", nil, "Only export images with this orientation (landscape, portrait, square, unknown)")
	exportCmd.Flags().StringSliceVar(&focalFlag, "focal", nil, "Only export images with this focal length in mm, or 'unknown'")
	exportCmd.Flags().StringSliceVar(&dateFlag, "date", nil, "Only export images taken on this date prefix (YYYY, YYYY-MM, YYYY-MM-DD) or 'unknown'")
	exportCmd.Flags().BoolVar(&copyFlag, "copy", false, "Also copy the export to the clipboard")
	rootCmd.AddCommand(exportCmd)

	// Select and deselect commands
	setSelected := func(want bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(s *session) error {
				changed := 0
				for _, arg := range args[1:] {
					r, err := s.lookup(arg)
					if err != nil {
						return err
					}
					if r.Hidden {
						cmd.Printf("Skipped hidden image %s\n", r.Path)
						continue
					}
					if r.Selected == want {
						continue
					}
					res, err := s.dispatch(engine.Command{Kind: engine.Click, Path: r.Path, Mods: selection.Mods{Ctrl: true}})
					if err != nil {
						return err
					}
					changed += res.Changed
				}
				verb := "Selected"
				if !want {
					verb = "Deselected"
				}
				cmd.Printf("%s %d %s\n", verb, changed, images(changed))
				return nil
			})
		}
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "select [gallery] [image...]",
		Short: "Select images",
		Args:  cobra.MinimumNArgs(2),
		RunE:  setSelected(true),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "deselect [gallery] [image...]",
		Short: "Deselect images",
		Args:  cobra.MinimumNArgs(2),
		RunE:  setSelected(false),
	})

	// Selections group
	selectionsCmd := &cobra.Command{
		Use:   "selections",
		Short: "List or clear the saved selection",
	}
	selectionsCmd.AddCommand(&cobra.Command{
		Use:   "list [gallery]",
		Short: "List selected images in gallery order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(s *session) error {
				return listPaths(cmd, s, func(r *gallery.Record) bool { return r.Selected }, "No selected images.")
			})
		},
	})
	selectionsCmd.AddCommand(&cobra.Command{
		Use:   "clear [gallery]",
		Short: "Deselect every image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(s *session) error {
				res, err := s.dispatch(engine.Command{Kind: engine.DeselectAll})
				if err != nil {
					return err
				}
				cmd.Printf("Cleared %d %s\n", res.Changed, images(res.Changed))
				return nil
			})
		},
	})
	rootCmd.AddCommand(selectionsCmd)

	// Hide and unhide commands
	setHidden := func(kind engine.Kind, verb string) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(s *session) error {
				changed := 0
				for _, arg := range args[1:] {
					r, err := s.lookup(arg)
					if err != nil {
						return err
					}
					res, err := s.dispatch(engine.Command{Kind: kind, Path: r.Path})
					if err != nil {
						return err
					}
					changed += res.Changed
				}
				cmd.Printf("%s %d %s\n", verb, changed, images(changed))
				return nil
			})
		}
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "hide [gallery] [image...]",
		Short: "Hide images; hiding also deselects them",
		Args:  cobra.MinimumNArgs(2),
		RunE:  setHidden(engine.Hide, "Hid"),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "unhide [gallery] [image...]",
		Short: "Unhide images",
		Args:  cobra.MinimumNArgs(2),
		RunE:  setHidden(engine.Unhide, "Unhid"),
	})

	// Hidden group
	hiddenCmd := &cobra.Command{
		Use:   "hidden",
		Short: "List or unhide the hidden images",
	}
	hiddenCmd.AddCommand(&cobra.Command{
		Use:   "list [gallery]",
		Short: "List hidden images in gallery order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(s *session) error {
				return listPaths(cmd, s, func(r *gallery.Record) bool { return r.Hidden }, "No hidden images.")
			})
		},
	})
	unhideAllCmd := &cobra.Command{
		Use:   "unhide-all [gallery]",
		Short: "Unhide every hidden image",
		Long: `Unhide every hidden image of the gallery.
Without --force only the number of images that would be unhidden is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, args[0], func(s *session) error {
				n := s.engine.State.HiddenCount()
				if n == 0 {
					cmd.Println("No hidden images.")
					return nil
				}
				if !forceFlag {
					cmd.Printf("[DRY RUN] %d %s would be unhidden. Use --force to unhide.\n", n, images(n))
					return nil
				}
				res, err := s.dispatch(engine.Command{Kind: engine.UnhideAll, Confirmed: true})
				if err != nil {
					return err
				}
				cmd.Printf("Unhid %d %s\n", res.Changed, images(res.Changed))
				return nil
			})
		},
	}
	unhideAllCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Unhide without the dry run")
	hiddenCmd.AddCommand(unhideAllCmd)
	rootCmd.AddCommand(hiddenCmd)

	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory of the selection database (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&noStorageFlag, "no-storage", false, "Do not read or write saved selections")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")

	return rootCmd
}

func listPaths(cmd *cobra.Command, s *session, keep func(*gallery.Record) bool, none string) error {
	n := 0
	for _, r := range s.engine.State.Gallery.Records() {
		if keep(r) {
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
			n++
		}
	}
	if n == 0 {
		cmd.Println(none)
	}
	return nil
}

func facetList(facets []gallery.Facet) string {
	parts := make([]string, len(facets))
	for i, f := range facets {
		parts[i] = fmt.Sprintf("%s (%d)", f.Label, f.Count)
	}
	return strings.Join(parts, ", ")
}

func exportError(err error) error {
	if errors.Is(err, export.ErrNothingSelected) {
		return errors.New("no images selected; select images first or relax the filters")
	}
	return err
}

func images(n int) string {
	if n == 1 {
		return "image"
	}
	return "images"
}

func main() {
	rootCmd := NewRootCmd(openBoltStore)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
