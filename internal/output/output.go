// Package output delivers the editor buffer once the editor exits.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/gubarz/marko/internal/config"
	"github.com/gubarz/marko/internal/log"
)

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
	Available() bool
}

// systemClipboard implements Clipboard with atotto/clipboard, which picks
// pbcopy, xclip, xsel, wl-copy or the Windows API as available.
type systemClipboard struct{}

func (systemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

func (systemClipboard) Available() bool {
	return !clipboard.Unsupported
}

// ============================================================================
// Modes
// ============================================================================

// Mode selects what happens to the buffer.
type Mode string

const (
	ModePrint Mode = "print"
	ModeCopy  Mode = "copy"
	ModeNone  Mode = "none"
)

// ParseMode validates a mode name from flags or config.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePrint, ModeCopy, ModeNone:
		return m, nil
	case "":
		return ModePrint, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (want print, copy or none)", s)
	}
}

// ============================================================================
// Emitter
// ============================================================================

// Emitter writes text to stdout or the clipboard.
type Emitter struct {
	out       io.Writer
	clipboard Clipboard
}

// NewEmitter creates an emitter printing to stdout and copying to the
// system clipboard.
func NewEmitter() *Emitter {
	return &Emitter{out: os.Stdout, clipboard: systemClipboard{}}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (e *Emitter) WithClipboard(c Clipboard) *Emitter {
	e.clipboard = c
	return e
}

// WithWriter sets where print mode writes.
func (e *Emitter) WithWriter(w io.Writer) *Emitter {
	e.out = w
	return e
}

// Emit handles text based on the configured output mode
func (e *Emitter) Emit(text string) error {
	mode, err := ParseMode(config.GetOutput())
	if err != nil {
		return err
	}
	return e.EmitWithMode(text, mode)
}

// EmitWithMode handles text with an explicit mode. Copy falls back to
// printing when no clipboard tool is installed.
func (e *Emitter) EmitWithMode(text string, mode Mode) error {
	switch mode {
	case ModeNone:
		return nil
	case ModeCopy:
		if e.clipboard.Available() {
			if err := e.clipboard.Copy(text); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			log.Info(log.CatOutput, "copied buffer", "bytes", len(text))
			return nil
		}
		log.Warn(log.CatOutput, "clipboard unavailable, printing instead")
	}
	_, err := fmt.Fprintln(e.out, text)
	return err
}
