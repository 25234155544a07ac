package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears viper state so a
// developer's own marko.yaml cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestInit_Defaults(t *testing.T) {
	isolate(t)

	require.NoError(t, Init())
	require.Equal(t, 0, GetWidth())
	require.Equal(t, "print", GetOutput())
	require.Equal(t, "252", GetColorText())
	require.Equal(t, "255", GetColorStrong())
	require.Equal(t, "244", GetColorWeak())
	require.Equal(t, "236", GetColorCodeBg())
	require.Equal(t, 200*time.Millisecond, GetWatchDebounce())
	require.False(t, GetDebug())

	body, heading, mono, small := GetFontSizes()
	require.Equal(t, 14.0, body)
	require.Equal(t, 20.0, heading)
	require.Equal(t, 13.0, mono)
	require.Equal(t, 10.0, small)
}

func TestInit_ConfigFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "marko")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	yaml := "width: 72\ncolor_strong: \"#ffffff\"\noutput: copy\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marko.yaml"), []byte(yaml), 0o644))

	require.NoError(t, Init())
	require.Equal(t, 72, GetWidth())
	require.Equal(t, "#ffffff", GetColorStrong())
	require.Equal(t, "copy", GetOutput())
}

func TestInit_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("MARKO_COLOR_WEAK", "8")
	t.Setenv("MARKO_DEBUG", "true")

	require.NoError(t, Init())
	require.Equal(t, "8", GetColorWeak())
	require.True(t, GetDebug())
}

func TestInit_MalformedConfigFile(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "marko.yaml"), []byte("width: [unclosed\n"), 0o644))

	err := Init()
	require.ErrorContains(t, err, "marko.yaml")
	// Defaults still apply.
	require.Equal(t, "print", GetOutput())
}

func TestSetOutput(t *testing.T) {
	isolate(t)
	require.NoError(t, Init())

	SetOutput("none")

	require.Equal(t, "none", GetOutput())
}

func TestExpandTilde(t *testing.T) {
	home := isolate(t)

	require.Equal(t, "", expandTilde(""))
	require.Equal(t, "/tmp/x.log", expandTilde("/tmp/x.log"))
	require.Equal(t, filepath.Join(home, "logs", "marko.log"), expandTilde("~/logs/marko.log"))
}
