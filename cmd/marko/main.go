package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gubarz/marko/internal/config"
	"github.com/gubarz/marko/internal/highlight"
	"github.com/gubarz/marko/internal/log"
	"github.com/gubarz/marko/internal/output"
	"github.com/gubarz/marko/internal/parser"
	"github.com/gubarz/marko/internal/render"
	"github.com/gubarz/marko/internal/ui"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "marko [file]",
	Short: "Lightweight markup viewer and editor",
	Long: `Read, render and edit documents written in marko, a small markup
language with headings, lists, quotes, todos, code blocks and inline
styles like **strong**, _underline_, ~strike~, $small$ and ^raised^.

With no subcommand the document opens in the pager. Use "-" or no file to
read standard input.`,
	Args:               cobra.MaximumNArgs(1),
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: teardownLogging,
	RunE:               runView,
}

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a document to the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the items the parser produces",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokens,
}

var highlightCmd = &cobra.Command{
	Use:   "highlight [file]",
	Short: "Print the source with editor highlighting",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHighlight,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Page through a rendered document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runView,
}

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Edit a document with a live highlighted or rendered pane",
	Long: `Edit a document side by side with its highlighted source or rendered
preview (tab switches). ctrl+s saves. esc finishes and hands the buffer
to the output mode; ctrl+c aborts without output.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(renderCmd, tokensCmd, highlightCmd, viewCmd, editCmd, configCmd)

	rootCmd.PersistentFlags().IntP("width", "w", 0, "Render width (0 = terminal width)")
	rootCmd.PersistentFlags().Bool("debug", false, "Write a debug log (see log_file)")

	for _, c := range []*cobra.Command{rootCmd, renderCmd, viewCmd} {
		c.Flags().BoolP("benchmark", "b", false, "Benchmark parse, highlight and render time and exit")
	}
	for _, c := range []*cobra.Command{rootCmd, viewCmd} {
		c.Flags().Bool("watch", false, "Reload when the file changes")
	}
	tokensCmd.Flags().Bool("offsets", false, "Prefix each item with its byte offset")
	highlightCmd.Flags().Bool("runs", false, "Print runs one per line instead of styled text")

	editCmd.Flags().StringP("output", "o", "", "Output mode on exit: print, copy, none")
	editCmd.Flags().Bool("print", false, "Print buffer on exit (shorthand for -o print)")
	editCmd.Flags().Bool("copy", false, "Copy buffer on exit (shorthand for -o copy)")

	_ = viper.BindPFlag("width", rootCmd.PersistentFlags().Lookup("width"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("output", editCmd.Flags().Lookup("output"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// ============================================================================
// Logging
// ============================================================================

var closeLog func()

func setupLogging(cmd *cobra.Command, args []string) error {
	if !config.GetDebug() {
		return nil
	}
	cleanup, err := log.Init(config.GetLogFile())
	if err != nil {
		return err
	}
	closeLog = cleanup
	log.Info(log.CatConfig, "starting", "version", version, "command", cmd.Name(), "config", viper.ConfigFileUsed())
	return nil
}

func teardownLogging(cmd *cobra.Command, args []string) error {
	if closeLog != nil {
		closeLog()
		closeLog = nil
	}
	return nil
}

// ============================================================================
// Input
// ============================================================================

// readSource reads the document named by args, or stdin for "-" or none.
// The returned path is empty for stdin.
func readSource(cmd *cobra.Command, args []string) (path, src string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return "", string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}

// renderWidth is the configured width, else the default.
func renderWidth() int {
	if w := config.GetWidth(); w > 0 {
		return w
	}
	return render.DefaultWidth
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// ============================================================================
// Commands
// ============================================================================

func runRender(cmd *cobra.Command, args []string) error {
	_, src, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	if done, err := benchmark(cmd, src); done {
		return err
	}

	out := cmd.OutOrStdout()
	doc := render.Document(highlight.LoadTheme(), src, render.Options{
		Width:      renderWidth(),
		Hyperlinks: isTerminal(out),
	})
	_, err = fmt.Fprintln(out, doc)
	return err
}

func runTokens(cmd *cobra.Command, args []string) error {
	_, src, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	offsets, _ := cmd.Flags().GetBool("offsets")

	out := cmd.OutOrStdout()
	for it := range parser.New(src).All() {
		if offsets {
			fmt.Fprintf(out, "%5d  ", it.Offset)
		}
		fmt.Fprintln(out, it)
	}
	return nil
}

func runHighlight(cmd *cobra.Command, args []string) error {
	_, src, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	runs := highlight.Highlight(highlight.LoadTheme(), src)

	out := cmd.OutOrStdout()
	if asRuns, _ := cmd.Flags().GetBool("runs"); asRuns {
		for _, r := range runs {
			fmt.Fprintf(out, "%-28s %q\n", r.Style, r.Text)
		}
		return nil
	}
	_, err = fmt.Fprint(out, highlight.RenderANSI(runs))
	return err
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# %s\n", used)
	}
	data, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runView(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && (len(args) == 0 || args[0] == "-") {
		return fmt.Errorf("--watch needs a file, not stdin")
	}
	path, src, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	if done, err := benchmark(cmd, src); done {
		return err
	}
	return ui.RunViewer(path, src, ui.ViewerOptions{
		Width: config.GetWidth(),
		Watch: watch,
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	// Handle output mode flags
	if p, _ := cmd.Flags().GetBool("print"); p {
		config.SetOutput("print")
	} else if c, _ := cmd.Flags().GetBool("copy"); c {
		config.SetOutput("copy")
	}

	// Fail before the editor opens rather than after the session.
	if _, err := output.ParseMode(config.GetOutput()); err != nil {
		return err
	}
	return ui.RunEditor(args[0], ui.EditorOptions{})
}

// benchmark times the pipeline over src when --benchmark is set. done
// reports whether the command should stop.
func benchmark(cmd *cobra.Command, src string) (done bool, err error) {
	if on, _ := cmd.Flags().GetBool("benchmark"); !on {
		return false, nil
	}
	theme := highlight.LoadTheme()

	start := time.Now()
	items := parser.Parse(src)
	parsed := time.Since(start)

	start = time.Now()
	runs := highlight.Highlight(theme, src)
	highlighted := time.Since(start)

	start = time.Now()
	render.Document(theme, src, render.Options{Width: renderWidth()})
	rendered := time.Since(start)

	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Parsed %d bytes into %d items in %v\n", len(src), len(items), parsed)
	fmt.Fprintf(out, "Highlighted %d runs in %v\n", len(runs), highlighted)
	fmt.Fprintf(out, "Rendered in %v\n", rendered)
	fmt.Fprintf(out, "Memory: Alloc=%dMB, TotalAlloc=%dMB, Sys=%dMB, HeapObjects=%d\n",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024, m.HeapObjects)
	return true, nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
