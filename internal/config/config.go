// Package config loads and saves the sheetkit settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/sheetkit/internal/sheet"
	"github.com/ensigniasec/sheetkit/internal/validate"
)

// DefaultPath is where the settings file lives unless --config says otherwise.
const DefaultPath = "~/.config/sheetkit/config.yaml"

const maxFileSize = 1 << 20

var (
	// ErrInvalid wraps every validation failure of a settings file.
	ErrInvalid = errors.New("invalid config")
	// ErrTooLarge is returned for files above 1 MiB.
	ErrTooLarge = errors.New("config file too large")
)

// Duration is a time.Duration written as "250ms" in YAML.
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// File is the on-disk settings layout.
type File struct {
	Variant          string   `yaml:"variant"           validate:"variant"`
	CollapsedRows    float64  `yaml:"collapsed_rows"    validate:"gt=0"`
	Title            string   `yaml:"title,omitempty"   validate:"max=80"`
	OpenThreshold    float64  `yaml:"open_threshold"    validate:"fraction"`
	DismissThreshold float64  `yaml:"dismiss_threshold" validate:"fraction,ltefield=OpenThreshold"`
	ToggleDuration   Duration `yaml:"toggle_duration"   validate:"gte=0"`
	DismissDuration  Duration `yaml:"dismiss_duration"  validate:"gte=0"`
	FadeDuration     Duration `yaml:"fade_duration"     validate:"gte=0"`
	// Backdrop overrides the variant default when set.
	Backdrop     *bool    `yaml:"backdrop,omitempty"`
	SpringHeader bool     `yaml:"spring_header"`
	Rows         []string `yaml:"rows"              validate:"dive,max=200"`
}

// Default returns the settings used when no file exists. Rows are measured
// in terminal rows, so the collapsed height is much smaller than the
// library default.
func Default() File {
	return File{
		Variant:          sheet.Embedded.String(),
		CollapsedRows:    6,
		Title:            "Sheet",
		OpenThreshold:    sheet.DefaultOpenThreshold,
		DismissThreshold: sheet.DefaultDismissThreshold,
		ToggleDuration:   Duration(sheet.DefaultToggleDuration),
		DismissDuration:  Duration(sheet.DefaultDismissDuration),
		FadeDuration:     Duration(sheet.DefaultFadeDuration),
		SpringHeader:     true,
		Rows:             []string{"Row 1", "Row 2", "Row 3", "Row 4"},
	}
}

// Validate checks f with the shared validator.
func (f File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Sheet converts f into a sheet configuration with terminal header metrics.
func (f File) Sheet() (sheet.Config, error) {
	if err := f.Validate(); err != nil {
		return sheet.Config{}, err
	}
	v, err := sheet.ParseVariant(f.Variant)
	if err != nil {
		return sheet.Config{}, err
	}
	cfg := sheet.DefaultConfig(v)
	cfg.CollapsedHeight = f.CollapsedRows
	cfg.Title = f.Title
	cfg.OpenThreshold = f.OpenThreshold
	cfg.DismissThreshold = f.DismissThreshold
	cfg.ToggleDuration = time.Duration(f.ToggleDuration)
	cfg.DismissDuration = time.Duration(f.DismissDuration)
	cfg.FadeDuration = time.Duration(f.FadeDuration)
	cfg.SpringHeader = f.SpringHeader
	cfg.Header = sheet.CellMetrics
	if f.Backdrop != nil {
		cfg.Backdrop = *f.Backdrop
	}
	return cfg, cfg.Validate()
}

// Load reads the settings at path. Missing fields keep their defaults and a
// missing file yields Default().
func Load(path string) (File, error) {
	f := Default()
	expanded, err := expandTilde(path)
	if err != nil {
		return f, err
	}
	logrus.Debug("Loading config file from: ", expanded)

	fh, err := os.Open(expanded)
	if errors.Is(err, os.ErrNotExist) {
		logrus.Debug("Config file not found; using defaults.")
		return f, nil
	}
	if err != nil {
		return f, err
	}
	defer fh.Close()

	data, err := io.ReadAll(io.LimitReader(fh, maxFileSize+1))
	if err != nil {
		return f, err
	}
	if len(data) > maxFileSize {
		return f, ErrTooLarge
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := f.Validate(); err != nil {
		return Default(), err
	}
	return f, nil
}

// Save validates f and writes it to path, creating the parent directory.
func Save(path string, f File) error {
	if err := f.Validate(); err != nil {
		return err
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return err
	}
	logrus.Debug("Saving config file to: ", expanded)
	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(expanded, data, 0o600)
}

// Exists reports whether a settings file is present at path.
func Exists(path string) bool {
	expanded, err := expandTilde(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(expanded)
	return err == nil
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
