package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("width", 0)             // 0 = terminal width
	viper.SetDefault("output", "print")      // Editor output on quit
	viper.SetDefault("color_text", "252")    // Light gray
	viper.SetDefault("color_strong", "255")  // White
	viper.SetDefault("color_weak", "244")    // Gray
	viper.SetDefault("color_code_bg", "236") // Dark gray
	viper.SetDefault("color_border", "240")  // Chrome
	viper.SetDefault("font_family", "sans")
	viper.SetDefault("font_mono_family", "mono")
	viper.SetDefault("font_body_size", 14.0)
	viper.SetDefault("font_heading_size", 20.0)
	viper.SetDefault("font_mono_size", 13.0)
	viper.SetDefault("font_small_size", 10.0)
	viper.SetDefault("watch_debounce", 200*time.Millisecond)
	viper.SetDefault("debug", false)
	viper.SetDefault("log_file", "debug.log")

	viper.SetConfigName("marko")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "marko"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("MARKO")
	viper.AutomaticEnv()

	// A missing config file is fine; a broken one is reported
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading %s: %w", viper.ConfigFileUsed(), err)
		}
	}
	return nil
}

// GetWidth returns the render width, 0 meaning "fit the terminal"
func GetWidth() int {
	return viper.GetInt("width")
}

// GetOutput returns the editor output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetColorText returns the default text color
func GetColorText() string {
	return viper.GetString("color_text")
}

// GetColorStrong returns the strong text color
func GetColorStrong() string {
	return viper.GetString("color_strong")
}

// GetColorWeak returns the weak (quoted) text color
func GetColorWeak() string {
	return viper.GetString("color_weak")
}

// GetColorCodeBg returns the code background color
func GetColorCodeBg() string {
	return viper.GetString("color_code_bg")
}

// GetColorBorder returns the TUI chrome color
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetFontFamily returns the proportional font family
func GetFontFamily() string {
	return viper.GetString("font_family")
}

// GetFontMonoFamily returns the fixed-width font family
func GetFontMonoFamily() string {
	return viper.GetString("font_mono_family")
}

// GetFontSizes returns the nominal sizes for body, heading, monospace and
// small text, in that order
func GetFontSizes() (body, heading, mono, small float64) {
	return viper.GetFloat64("font_body_size"),
		viper.GetFloat64("font_heading_size"),
		viper.GetFloat64("font_mono_size"),
		viper.GetFloat64("font_small_size")
}

// GetWatchDebounce returns how long the file watcher waits for writes to settle
func GetWatchDebounce() time.Duration {
	return viper.GetDuration("watch_debounce")
}

// GetDebug returns whether debug logging is enabled
func GetDebug() bool {
	return viper.GetBool("debug")
}

// GetLogFile returns the debug log path with tilde expansion
func GetLogFile() string {
	return expandTilde(viper.GetString("log_file"))
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
