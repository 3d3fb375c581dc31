// Package notify surfaces short-lived notices and status-bar text to the user.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Notifier is the host's notification sink.
type Notifier interface {
	// Notice shows a short-lived message.
	Notice(msg string)
	// Status sets the status-bar text. Empty text clears it.
	Status(text string)
}

// Console prints notices to a writer, one per line.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{out: out, logger: logger}
}

// Notice implements Notifier.
func (c *Console) Notice(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
	c.logger.Info("notice", slog.String("message", msg))
}

// Status implements Notifier. The console has no status bar; the text is logged.
func (c *Console) Status(text string) {
	c.logger.Debug("status", slog.String("text", text))
}

// Publisher is the subset of the SSE broker used by Broadcast.
type Publisher interface {
	PublishNotice(msg string)
	PublishStatus(text string)
}

// Broadcast relays notices and status updates to event-stream subscribers.
type Broadcast struct {
	pub Publisher
}

// NewBroadcast wraps pub.
func NewBroadcast(pub Publisher) *Broadcast {
	return &Broadcast{pub: pub}
}

// Notice implements Notifier.
func (b *Broadcast) Notice(msg string) { b.pub.PublishNotice(msg) }

// Status implements Notifier.
func (b *Broadcast) Status(text string) { b.pub.PublishStatus(text) }

// Multi fans out to every wrapped notifier in order.
type Multi []Notifier

// Notice implements Notifier.
func (m Multi) Notice(msg string) {
	for _, n := range m {
		n.Notice(msg)
	}
}

// Status implements Notifier.
func (m Multi) Status(text string) {
	for _, n := range m {
		n.Status(text)
	}
}
