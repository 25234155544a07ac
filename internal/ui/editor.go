package ui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gubarz/marko/internal/highlight"
	"github.com/gubarz/marko/internal/log"
	"github.com/gubarz/marko/internal/output"
	"github.com/gubarz/marko/internal/render"
)

// EditorOptions configures RunEditor.
type EditorOptions struct {
	// Mode overrides the configured output mode when set.
	Mode    output.Mode
	Emitter *output.Emitter
}

// pane selects what the right-hand side of the editor shows.
type pane int

const (
	paneHighlight pane = iota // highlighted source
	panePreview               // rendered document
)

func (p pane) String() string {
	if p == panePreview {
		return "preview"
	}
	return "highlight"
}

// savedMsg reports the result of writing the buffer to disk.
type savedMsg struct {
	value string
	err   error
}

func saveDoc(path, value string) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{value: value, err: os.WriteFile(path, []byte(value), 0o644)}
	}
}

// ============================================================================
// Editor Model
// ============================================================================

// editorModel edits a document next to a live view of it. The highlight
// pane goes through a Highlighter, so redraws that don't change the buffer
// reuse the previous runs.
type editorModel struct {
	path      string
	textarea  textarea.Model
	hl        *highlight.Highlighter
	theme     highlight.Theme
	pane      pane
	saved     string
	status    string
	width     int
	height    int
	done      bool
	cancelled bool
}

func newEditorModel(path, src string, theme highlight.Theme) editorModel {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(src)
	ta.Focus()

	return editorModel{
		path:     path,
		textarea: ta,
		hl:       highlight.NewHighlighter(),
		theme:    theme,
		saved:    src,
	}
}

// Init implements tea.Model
func (m editorModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model
func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textarea.SetWidth(m.leftWidth())
		m.textarea.SetHeight(max(msg.Height-1, 1))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			m.done = true
			return m, tea.Quit
		case "tab":
			if m.pane == paneHighlight {
				m.pane = panePreview
			} else {
				m.pane = paneHighlight
			}
			return m, nil
		case "ctrl+s":
			if m.path == "" {
				m.status = "no file to save to"
				return m, nil
			}
			return m, saveDoc(m.path, m.textarea.Value())
		}

	case savedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "save failed", msg.err, "path", m.path)
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.saved = msg.value
		m.status = "saved " + filepath.Base(m.path)
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m editorModel) leftWidth() int {
	return m.width / 2
}

func (m editorModel) modified() bool {
	return m.textarea.Value() != m.saved
}

// View implements tea.Model
func (m editorModel) View() string {
	if m.done || m.cancelled || m.width == 0 {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.textarea.View(), m.renderPane())
	return body + "\n" + m.statusLine()
}

// renderPane draws the side pane in a bordered box filling the right half.
func (m editorModel) renderPane() string {
	innerW := max(m.width-m.leftWidth()-2, 1)
	innerH := max(m.height-3, 1)

	var content string
	offset := 0
	switch m.pane {
	case panePreview:
		content = render.Document(m.theme, m.textarea.Value(), render.Options{Width: innerW})
	default:
		content = highlight.RenderANSI(m.hl.Highlight(m.theme, m.textarea.Value()))
		offset = m.textarea.Line()
	}

	lines := strings.Split(content, "\n")
	start, end := scrollWindow(offset, len(lines), innerH)
	visible := lines[start:end]
	for i, l := range visible {
		visible[i] = ansi.Truncate(l, innerW, "")
	}

	style := styles.Pane
	if m.pane == panePreview {
		style = styles.Focused
	}
	return style.Width(innerW).Height(innerH).Render(strings.Join(visible, "\n"))
}

func (m editorModel) statusLine() string {
	name := filepath.Base(m.path)
	if m.path == "" {
		name = "untitled"
	}
	if m.modified() {
		name += " [+]"
	}
	left := styles.Title.Render(name) + "  " + styles.Status.Render(m.pane.String())
	if m.status != "" {
		left += "  " + styles.Status.Render(m.status)
	}
	return left + "  " + styles.Dim.Render("tab pane · ctrl+s save · esc done · ctrl+c abort")
}

// scrollWindow returns the range of at most height lines that keeps cursor
// visible, biased to start at the top.
func scrollWindow(cursor, total, height int) (start, end int) {
	if total <= height {
		return 0, total
	}
	start = max(cursor-height+1, 0)
	start = min(start, total-height)
	return start, start + height
}

// ============================================================================
// Run Editor
// ============================================================================

// RunEditor edits the file at path, which need not exist yet, and hands the
// final buffer to the emitter unless the session was aborted.
func RunEditor(path string, opts EditorOptions) error {
	src, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if opts.Emitter == nil {
		opts.Emitter = output.NewEmitter()
	}

	ttyIn, ttyOut, cleanup := getTTY()
	RefreshStyles() // after getTTY sets up the renderer

	m := newEditorModel(path, string(src), highlight.LoadTheme())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(ttyIn), tea.WithOutput(ttyOut))
	final, err := p.Run()
	cleanup()
	if err != nil {
		return err
	}

	result := final.(editorModel)
	log.Debug(log.CatUI, "editor closed", "recomputes", result.hl.Recomputes(), "cancelled", result.cancelled)
	if result.cancelled {
		return nil
	}
	return emitBuffer(opts, result.textarea.Value())
}

// emitBuffer hands the final buffer to the emitter in the forced mode, or
// the configured one.
func emitBuffer(opts EditorOptions, value string) error {
	if opts.Mode == "" {
		return opts.Emitter.Emit(value)
	}
	return opts.Emitter.EmitWithMode(value, opts.Mode)
}
