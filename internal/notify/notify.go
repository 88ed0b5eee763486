// Package notify is the transient notification bar and the accessibility
// announcer every user-visible fault is reported through.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"slategallery/internal/debounce"
	"slategallery/internal/loop"
)

// DefaultMaxMessages bounds the notification history.
const DefaultMaxMessages = 100

// DefaultTimeout is how long a message stays on the bar.
const DefaultTimeout = 5 * time.Second

// Level is the severity of a notification.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier receives user-facing messages.
type Notifier interface {
	// Notify shows a transient message in the notification bar.
	Notify(level Level, text string)
	// Announce sends text to the accessibility live region.
	Announce(text string)
}

// Message is one entry of the notification history.
type Message struct {
	Level Level
	Text  string
	At    time.Time
}

// Bar keeps a bounded history of notifications with a cursor the user can
// move through, and the last accessibility announcement. Once Expire is set
// the shown message clears after a quiet period; the history stays.
type Bar struct {
	mu           sync.Mutex
	messages     []Message
	current      int
	max          int
	announcement string
	dismissed    bool
	expiry       *debounce.Debouncer
	logger       zerolog.Logger

	// OnChange is called after every new message or cursor move.
	OnChange func()
}

var _ Notifier = (*Bar)(nil)

// NewBar creates a notification bar holding at most max messages.
func NewBar(max int, logger zerolog.Logger) *Bar {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	return &Bar{
		messages: make([]Message, 0, max),
		current:  -1,
		max:      max,
		logger:   logger,
	}
}

// Expire clears the shown message d after it appeared or the cursor last
// moved. The timer runs on s. A zero d keeps messages up until replaced.
func (b *Bar) Expire(s loop.Scheduler, d time.Duration) {
	b.mu.Lock()
	old := b.expiry
	b.expiry = nil
	if d > 0 {
		b.expiry = debounce.New(s, d, b.dismiss)
	}
	b.mu.Unlock()
	if old != nil {
		old.Cancel()
	}
}

// Notify appends a message and moves the cursor to it.
func (b *Bar) Notify(level Level, text string) {
	b.mu.Lock()
	b.messages = append(b.messages, Message{Level: level, Text: text, At: time.Now()})
	if len(b.messages) > b.max {
		b.messages = b.messages[len(b.messages)-b.max:]
	}
	b.current = len(b.messages) - 1
	b.dismissed = false
	expiry := b.expiry
	b.mu.Unlock()

	b.logger.Debug().Str("level", level.String()).Msg(text)
	if expiry != nil {
		expiry.Call()
	}
	b.changed()
}

func (b *Bar) dismiss() {
	b.mu.Lock()
	if b.dismissed || b.current < 0 {
		b.mu.Unlock()
		return
	}
	b.dismissed = true
	b.mu.Unlock()
	b.changed()
}

// Dismissed reports whether the shown message has expired.
func (b *Bar) Dismissed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dismissed
}

// Announce records the latest accessibility announcement.
func (b *Bar) Announce(text string) {
	b.mu.Lock()
	b.announcement = text
	b.mu.Unlock()
	b.changed()
}

// Announcement returns the latest accessibility announcement.
func (b *Bar) Announcement() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.announcement
}

// Messages returns a copy of the history, oldest first.
func (b *Bar) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Current returns the message under the cursor, or false once it expired.
func (b *Bar) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dismissed || b.current < 0 || b.current >= len(b.messages) {
		return Message{}, false
	}
	return b.messages[b.current], true
}

// Status renders the cursor position and message, e.g. "[2/5] Saved".
func (b *Bar) Status() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dismissed || b.current < 0 || b.current >= len(b.messages) {
		return ""
	}
	return fmt.Sprintf("[%d/%d] %s", b.current+1, len(b.messages), b.messages[b.current].Text)
}

// Previous moves the cursor to the older message. On an expired bar it
// first brings back the message under the cursor.
func (b *Bar) Previous() {
	b.step(-1)
}

// Next moves the cursor to the newer message, or brings back an expired one.
func (b *Bar) Next() {
	b.step(1)
}

func (b *Bar) step(delta int) {
	b.mu.Lock()
	switch {
	case b.current < 0:
		b.mu.Unlock()
		return
	case b.dismissed:
		b.dismissed = false
	case b.current+delta < 0 || b.current+delta >= len(b.messages):
		b.mu.Unlock()
		return
	default:
		b.current += delta
	}
	expiry := b.expiry
	b.mu.Unlock()
	if expiry != nil {
		expiry.Call()
	}
	b.changed()
}

// CanGoBack and CanGoForward report whether Previous and Next would move.
func (b *Bar) CanGoBack() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current > 0
}

func (b *Bar) CanGoForward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current >= 0 && b.current < len(b.messages)-1
}

func (b *Bar) changed() {
	if b.OnChange != nil {
		b.OnChange()
	}
}

// Log writes every notification to a zerolog logger only. The CLI uses it
// where there is no bar to show.
type Log struct {
	Logger zerolog.Logger
}

// Notify logs text at a level matching the notification level.
func (l Log) Notify(level Level, text string) {
	switch level {
	case Error:
		l.Logger.Error().Msg(text)
	case Warning:
		l.Logger.Warn().Msg(text)
	default:
		l.Logger.Info().Msg(text)
	}
}

// Announce logs text at debug level.
func (l Log) Announce(text string) {
	l.Logger.Debug().Str("a11y", "announce").Msg(text)
}
