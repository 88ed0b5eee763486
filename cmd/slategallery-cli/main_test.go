package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slategallery/internal/config"
	"slategallery/internal/storage"
)

const page = `<html><body>
<div class="slate" data-slate="day1">
  <div class="image-wrapper" data-full-image="/p/gallery/slates/day1/a.jpg" data-orientation="landscape" data-focal-length="50" data-date="2024-05-01T10:00:00"><img src="a.jpg"></div>
  <div class="image-wrapper" data-full-image="/p/gallery/slates/day1/b.jpg" data-orientation="portrait" data-focal-length="35" data-date="2024-05-01T11:00:00"><img src="b.jpg"></div>
</div>
<div class="slate" data-slate="day2">
  <div class="image-wrapper" data-full-image="/p/gallery/slates/day2/c.jpg" data-orientation="portrait" data-focal-length="35" data-date="2024-05-02T09:00:00"><img src="c.jpg"></div>
</div>
</body></html>`

// setupGallery writes the test page and returns its path.
func setupGallery(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))
	return path
}

// sharedStore returns an opener that hands out one in-memory store for
// every command, so state carries over between executions.
func sharedStore() StoreOpener {
	store := storage.NewMemoryStore(0)
	return func(*config.Config, zerolog.Logger) (storage.Store, error) {
		return nopCloser{store}, nil
	}
}

type nopCloser struct{ storage.Store }

func (nopCloser) Close() error { return nil }

// executeCommandC executes a fresh root command and captures its output.
func executeCommandC(open StoreOpener, args ...string) (string, string, error) {
	forceFlag = false
	copyFlag = false
	noStorageFlag = false

	root := NewRootCmd(open)
	actualStdout := new(bytes.Buffer)
	actualStderr := new(bytes.Buffer)
	root.SetOut(actualStdout)
	root.SetErr(actualStderr)
	root.SetArgs(args)

	err := root.Execute()
	return actualStdout.String(), actualStderr.String(), err
}

func run(t *testing.T, open StoreOpener, args ...string) string {
	t.Helper()
	stdout, stderr, err := executeCommandC(open, args...)
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	return stdout
}

func TestRootHelp(t *testing.T) {
	stdout := run(t, sharedStore(), "--help")
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "slategallery-cli [command]")
}

func TestInspect(t *testing.T) {
	src := setupGallery(t)
	stdout := run(t, sharedStore(), "inspect", src)

	assert.Contains(t, stdout, "Images:   3 in 2 slates")
	assert.Contains(t, stdout, "Orientation: landscape (1), portrait (2)")
	assert.Contains(t, stdout, "Focal length: 35mm (2), 50mm (1)")
	assert.Contains(t, stdout, "Date: 01/05/24 (2), 02/05/24 (1)")
	assert.Contains(t, stdout, "  day2 (1)")
	assert.Contains(t, stdout, "Storage:  on")
}

func TestSelectListExportClear(t *testing.T) {
	src := setupGallery(t)
	open := sharedStore()

	stdout := run(t, open, "select", src, "/p/gallery/slates/day1/a.jpg", "/p/gallery/slates/day2/c.jpg")
	assert.Contains(t, stdout, "Selected 2 images")

	stdout = run(t, open, "selections", "list", src)
	assert.Equal(t, "/p/gallery/slates/day1/a.jpg\n/p/gallery/slates/day2/c.jpg\n", stdout)

	stdout = run(t, open, "export", src)
	assert.Equal(t, "/p/gallery/slates/day1/a.jpg | 50mm\nday2/c.jpg | 35mm\n", stdout)

	stdout = run(t, open, "export", src, "--orientation", "portrait")
	assert.Equal(t, "/p/gallery/slates/day2/c.jpg | 35mm\n", stdout)

	stdout = run(t, open, "deselect", src, "/p/gallery/slates/day2/c.jpg")
	assert.Contains(t, stdout, "Deselected 1 image")

	stdout = run(t, open, "selections", "clear", src)
	assert.Contains(t, stdout, "Cleared 1 image")

	stdout = run(t, open, "selections", "list", src)
	assert.Contains(t, stdout, "No selected images.")
}

func TestExportNothingSelected(t *testing.T) {
	src := setupGallery(t)
	_, _, err := executeCommandC(sharedStore(), "export", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images selected")
}

func TestExportCopyFallsBackToTerminal(t *testing.T) {
	src := setupGallery(t)
	open := sharedStore()
	run(t, open, "select", src, "/p/gallery/slates/day1/b.jpg")

	stdout, _, err := executeCommandC(open, "export", src, "--copy")
	require.NoError(t, err)
	assert.Equal(t, "/p/gallery/slates/day1/b.jpg | 35mm\n", stdout)
}

func TestHideDeselectsAndUnhideAll(t *testing.T) {
	src := setupGallery(t)
	open := sharedStore()

	run(t, open, "select", src, "/p/gallery/slates/day1/b.jpg")
	stdout := run(t, open, "hide", src, "/p/gallery/slates/day1/b.jpg", "/p/gallery/slates/day2/c.jpg")
	assert.Contains(t, stdout, "Hid 2 images")

	stdout = run(t, open, "selections", "list", src)
	assert.Contains(t, stdout, "No selected images.")

	stdout = run(t, open, "select", src, "/p/gallery/slates/day2/c.jpg")
	assert.Contains(t, stdout, "Skipped hidden image /p/gallery/slates/day2/c.jpg")
	assert.Contains(t, stdout, "Selected 0 images")

	stdout = run(t, open, "hidden", "list", src)
	assert.Equal(t, "/p/gallery/slates/day1/b.jpg\n/p/gallery/slates/day2/c.jpg\n", stdout)

	stdout = run(t, open, "hidden", "unhide-all", src)
	assert.Contains(t, stdout, "[DRY RUN] 2 images would be unhidden")

	stdout = run(t, open, "hidden", "unhide-all", src, "--force")
	assert.Contains(t, stdout, "Unhid 2 images")

	stdout = run(t, open, "hidden", "list", src)
	assert.Contains(t, stdout, "No hidden images.")

	// Unhiding never restores the old selection.
	stdout = run(t, open, "selections", "list", src)
	assert.Contains(t, stdout, "No selected images.")
}

func TestNoStorageKeepsNothing(t *testing.T) {
	src := setupGallery(t)
	open := sharedStore()

	run(t, open, "--no-storage", "select", src, "/p/gallery/slates/day1/a.jpg")
	stdout := run(t, open, "selections", "list", src)
	assert.Contains(t, stdout, "No selected images.")

	stdout = run(t, open, "--no-storage", "inspect", src)
	assert.Contains(t, stdout, "Storage:  off")
}

func TestBoltStorePersistsAcrossRuns(t *testing.T) {
	src := setupGallery(t)
	dir := t.TempDir()

	run(t, openBoltStore, "--data-dir", dir, "select", src, "/p/gallery/slates/day1/a.jpg")
	stdout := run(t, openBoltStore, "--data-dir", dir, "selections", "list", src)
	assert.Equal(t, "/p/gallery/slates/day1/a.jpg\n", stdout)
}

func TestUnknownImage(t *testing.T) {
	src := setupGallery(t)
	_, _, err := executeCommandC(sharedStore(), "hide", src, "/nope.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not in the gallery")
}

func TestArgsValidation(t *testing.T) {
	for _, args := range [][]string{
		{"inspect"},
		{"select", "only-gallery"},
		{"hidden", "unhide-all"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, _, err := executeCommandC(sharedStore(), args...)
			assert.Error(t, err)
		})
	}
}

func TestBrowseQuits(t *testing.T) {
	src := setupGallery(t)
	noStorageFlag = false

	root := NewRootCmd(sharedStore())
	out := new(bytes.Buffer)
	root.SetIn(strings.NewReader("q"))
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"browse", src})

	require.NoError(t, root.Execute())
}

func TestBrowseMissingGallery(t *testing.T) {
	_, _, err := executeCommandC(sharedStore(), "browse", filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
