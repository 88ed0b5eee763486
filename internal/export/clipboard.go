package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrClipboardUnavailable is returned when no clipboard accepted the text.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard accepts text.
type Clipboard interface {
	WriteAll(text string) error
}

// System writes through the operating system clipboard.
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// Terminal writes an OSC 52 escape sequence to Out, which terminals turn
// into a clipboard write. It works over SSH where System does not.
type Terminal struct {
	Out io.Writer
}

func (t Terminal) WriteAll(text string) error {
	if t.Out == nil {
		return ErrClipboardUnavailable
	}
	_, err := osc52.New(text).WriteTo(t.Out)
	return err
}

// Chain tries each clipboard in order until one succeeds.
type Chain []Clipboard

func (c Chain) WriteAll(text string) error {
	var errs []error
	for _, cb := range c {
		err := cb.WriteAll(text)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ErrClipboardUnavailable
	}
	return fmt.Errorf("%w: %w", ErrClipboardUnavailable, errors.Join(errs...))
}
