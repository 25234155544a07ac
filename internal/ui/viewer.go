package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gubarz/marko/internal/config"
	"github.com/gubarz/marko/internal/highlight"
	"github.com/gubarz/marko/internal/log"
	"github.com/gubarz/marko/internal/render"
	"github.com/gubarz/marko/internal/watcher"
)

// ViewerOptions configures RunViewer.
type ViewerOptions struct {
	// Title is shown in the header; the file name when empty.
	Title string
	// Width fixes the render width. Zero fits the window.
	Width int
	// Watch reloads the document when the file changes on disk.
	Watch bool
}

// ============================================================================
// Messages
// ============================================================================

// fileChangedMsg is sent when the watched document settles after a change.
type fileChangedMsg struct{}

// docLoadedMsg carries a reloaded document.
type docLoadedMsg struct {
	src string
	err error
}

// waitForChange blocks on the watcher channel.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func loadDoc(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return docLoadedMsg{src: string(data), err: err}
	}
}

// ============================================================================
// Viewer Model
// ============================================================================

// viewerModel pages through a rendered document.
type viewerModel struct {
	path     string
	title    string
	src      string
	theme    highlight.Theme
	width    int // fixed render width, 0 = window
	viewport viewport.Model
	ready    bool
	winW     int
	winH     int
	changes  <-chan struct{}
	err      error
}

func newViewerModel(src string, theme highlight.Theme, opts ViewerOptions) viewerModel {
	return viewerModel{
		title: opts.Title,
		src:   src,
		theme: theme,
		width: opts.Width,
	}
}

// Init implements tea.Model
func (m viewerModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update implements tea.Model
func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.winW, m.winH = msg.Width, msg.Height
		height := max(msg.Height-2, 1) // header + footer
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}

	case fileChangedMsg:
		log.Debug(log.CatUI, "document changed", "path", m.path)
		return m, tea.Batch(loadDoc(m.path), waitForChange(m.changes))

	case docLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.src = msg.src
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// renderWidth is the fixed width if set, otherwise the window width.
func (m viewerModel) renderWidth() int {
	if m.width > 0 {
		return m.width
	}
	return m.winW
}

func (m *viewerModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(render.Document(m.theme, m.src, render.Options{
		Width:      m.renderWidth(),
		Hyperlinks: true,
	}))
}

// View implements tea.Model
func (m viewerModel) View() string {
	if !m.ready {
		return ""
	}
	return m.header() + "\n" + m.viewport.View() + "\n" + m.footer()
}

func (m viewerModel) header() string {
	return styles.Title.Render(m.title)
}

func (m viewerModel) footer() string {
	if m.err != nil {
		return styles.Error.Render("reload failed: " + m.err.Error())
	}
	status := fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100)
	if m.changes != nil {
		status += "  watching"
	}
	return styles.Status.Render(status) + "  " + styles.Dim.Render("q quit")
}

// ============================================================================
// Run Viewer
// ============================================================================

// RunViewer shows src in a full-screen pager. path names the document for
// the header and for watching; it may be empty for stdin.
func RunViewer(path, src string, opts ViewerOptions) error {
	if opts.Title == "" {
		opts.Title = filepath.Base(path)
		if path == "" {
			opts.Title = "stdin"
		}
	}
	m := newViewerModel(src, highlight.LoadTheme(), opts)
	m.path = path

	if opts.Watch && path != "" {
		w, err := watcher.New(watcher.Config{Path: path, Debounce: config.GetWatchDebounce()})
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
		if m.changes, err = w.Start(); err != nil {
			return err
		}
	}

	ttyIn, ttyOut, cleanup := getTTY()
	defer cleanup()
	RefreshStyles() // after getTTY sets up the renderer

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithInput(ttyIn), tea.WithOutput(ttyOut))
	_, err := p.Run()
	return err
}
