package highlight

import (
	"slices"

	"github.com/gubarz/marko/internal/log"
)

// Highlighter memoizes Highlight for the last (theme, source) pair it saw.
// Editors call it once per redraw; between keystrokes nothing changes and
// the previous runs are handed back.
//
// Checking for a hit compares the whole source, so a hit still costs time
// linear in the text. What it saves is rebuilding the runs.
//
// A Highlighter is owned by a single caller and is not safe for concurrent
// use.
type Highlighter struct {
	theme      Theme
	src        string
	runs       []Run
	primed     bool
	recomputes int

	highlight func(Theme, string) []Run
}

// NewHighlighter returns an empty cache around Highlight.
func NewHighlighter() *Highlighter {
	return &Highlighter{highlight: Highlight}
}

// Highlight returns the runs for src under theme, recomputing only when
// either differs from the previous call. The returned slice is a copy and
// may be modified by the caller.
func (h *Highlighter) Highlight(theme Theme, src string) []Run {
	if !h.primed || h.theme != theme || h.src != src {
		h.theme = theme
		h.src = src
		h.runs = h.highlight(theme, src)
		h.primed = true
		h.recomputes++
		log.Debug(log.CatHighlight, "recomputed runs", "bytes", len(src), "runs", len(h.runs))
	}
	return slices.Clone(h.runs)
}

// Recomputes reports how many times the underlying scan has run.
func (h *Highlighter) Recomputes() int {
	return h.recomputes
}
