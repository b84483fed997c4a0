//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/sheetkit/internal/sheet"
)

func TestConfig_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.yaml")
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
	assert.False(t, Exists(path))
}

func TestConfig_SaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	off := false
	want := Default()
	want.Variant = "alert"
	want.CollapsedRows = 4
	want.ToggleDuration = Duration(400 * time.Millisecond)
	want.Backdrop = &off
	want.Rows = []string{"alpha", "beta"}

	require.NoError(t, Save(path, want))
	assert.True(t, Exists(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "toggle_duration: 400ms")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variant: alert\ntitle: Menu\n"), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alert", f.Variant)
	assert.Equal(t, "Menu", f.Title)
	assert.InDelta(t, Default().CollapsedRows, f.CollapsedRows, 1e-9)
	assert.Equal(t, Default().Rows, f.Rows)
}

func TestConfig_InvalidFilesAreRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"unknown variant", "variant: drawer\n"},
		{"zero collapsed", "collapsed_rows: 0\n"},
		{"threshold out of range", "open_threshold: 1.5\n"},
		{"dismiss above open", "open_threshold: 0.4\ndismiss_threshold: 0.5\n"},
		{"bad duration", "toggle_duration: soon\n"},
		{"not yaml", "variant: [\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			f, err := Load(path)
			require.ErrorIs(t, err, ErrInvalid)
			assert.Equal(t, Default(), f)
		})
	}
}

func TestConfig_TooLarge(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "title: x\n# " + strings.Repeat("a", maxFileSize) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	_, err := Load(path)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestConfig_SaveRejectsInvalid(t *testing.T) {
	t.Parallel()

	f := Default()
	f.CollapsedRows = -1
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.ErrorIs(t, Save(path, f), ErrInvalid)
	assert.False(t, Exists(path))
}

func TestConfig_SheetConversion(t *testing.T) {
	t.Parallel()

	f := Default()
	cfg, err := f.Sheet()
	require.NoError(t, err)
	assert.Equal(t, sheet.Embedded, cfg.Variant)
	assert.InDelta(t, 6, cfg.CollapsedHeight, 1e-9)
	assert.Equal(t, sheet.CellMetrics, cfg.Header)
	assert.False(t, cfg.Backdrop)
	assert.Equal(t, "Sheet", cfg.Title)

	on := true
	f.Variant = "alert"
	f.Backdrop = &on
	f.FadeDuration = Duration(time.Second)
	cfg, err = f.Sheet()
	require.NoError(t, err)
	assert.Equal(t, sheet.Overlay, cfg.Variant)
	assert.True(t, cfg.Backdrop)
	assert.Equal(t, time.Second, cfg.FadeDuration)

	off := false
	f.Backdrop = &off
	cfg, err = f.Sheet()
	require.NoError(t, err)
	assert.False(t, cfg.Backdrop)
}

func TestDuration_YAML(t *testing.T) {
	t.Parallel()

	var v struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 1.5s"), &v))
	assert.Equal(t, Duration(1500*time.Millisecond), v.D)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "d: 1.5s\n", string(out))
}

func TestExpandTilde(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandTilde("~/.config/sheetkit/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/sheetkit/config.yaml"), got)

	got, err = expandTilde("/etc/sheetkit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/sheetkit.yaml", got)
}
