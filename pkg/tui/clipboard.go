package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
)

type multiplexer int

const (
	muxNone multiplexer = iota
	muxTmux
	muxScreen
)

// detectMultiplexer picks the passthrough wrapping from $TMUX and $TERM.
func detectMultiplexer(tmux, term string) multiplexer {
	switch {
	case tmux != "" || strings.HasPrefix(term, "tmux"):
		return muxTmux
	case strings.HasPrefix(term, "screen"):
		return muxScreen
	default:
		return muxNone
	}
}

// OSC52Clipboard copies text through the terminal's OSC 52 escape. Inside
// tmux or screen the sequence is wrapped for passthrough.
type OSC52Clipboard struct {
	mu  sync.Mutex
	w   io.Writer
	mux multiplexer
}

// NewOSC52Clipboard writes clipboard sequences to w, usually os.Stderr so
// they do not interleave with the renderer's output.
func NewOSC52Clipboard(w io.Writer) *OSC52Clipboard {
	return &OSC52Clipboard{w: w, mux: detectMultiplexer(os.Getenv("TMUX"), os.Getenv("TERM"))}
}

// WriteText implements panel.Clipboard.
func (c *OSC52Clipboard) WriteText(text string) error {
	seq := osc52.New(text)
	switch c.mux {
	case muxTmux:
		seq = seq.Tmux()
	case muxScreen:
		seq = seq.Screen()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := seq.WriteTo(c.w); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}
