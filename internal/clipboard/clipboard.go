// Package clipboard writes text to the system clipboard, falling back to
// an OSC 52 terminal selection when no clipboard tool is available.
package clipboard

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// WriteFunc writes text somewhere the user can paste it from.
type WriteFunc func(text string) error

// Result describes how a copy was performed.
type Result struct {
	// Fallback is true when the system clipboard failed and the terminal
	// selection was used instead.
	Fallback bool
}

// Copier copies text with a primary writer and a fallback.
type Copier struct {
	primary  WriteFunc
	fallback WriteFunc
	log      *slog.Logger
}

// Option configures a Copier.
type Option func(*Copier)

// WithPrimary replaces the system clipboard writer.
func WithPrimary(w WriteFunc) Option {
	return func(c *Copier) { c.primary = w }
}

// WithFallback replaces the terminal selection writer.
func WithFallback(w WriteFunc) Option {
	return func(c *Copier) { c.fallback = w }
}

// WithLogger sets the logger used to record fallback failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Copier) { c.log = l }
}

// New creates a copier that falls back to writing OSC 52 sequences to out.
func New(out io.Writer, opts ...Option) *Copier {
	c := &Copier{
		primary:  systemWrite,
		fallback: terminalWrite(out),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy writes text. If the primary writer fails the fallback is tried.
// A fallback failure is logged but not reported: terminals rarely
// acknowledge OSC 52, so there is nothing reliable to check.
func (c *Copier) Copy(text string) Result {
	err := c.primary(text)
	if err == nil {
		return Result{}
	}

	c.log.Debug("clipboard", "err", err, "fallback", "osc52")
	if ferr := c.fallback(text); ferr != nil {
		c.log.Warn("clipboard fallback", "err", ferr)
	}
	return Result{Fallback: true}
}

func systemWrite(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard tool: install xclip, xsel or wl-clipboard")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

func terminalWrite(out io.Writer) WriteFunc {
	return func(text string) error {
		seq := osc52.New(text)
		if os.Getenv("TMUX") != "" {
			seq = seq.Tmux()
		} else if os.Getenv("STY") != "" {
			seq = seq.Screen()
		}
		if _, err := seq.WriteTo(out); err != nil {
			return fmt.Errorf("osc52: %w", err)
		}
		return nil
	}
}
