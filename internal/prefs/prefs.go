package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"stage-designer/internal/units"
)

// PrefsPath is the path to the preferences file, relative to the process working directory.
const PrefsPath = "config/stage.yaml"

// Prefs holds editor-only preferences. Persisted across runs. Project data is separate and saved as JSON.
type Prefs struct {
	Unit         units.Unit    `yaml:"measurement_unit"`
	Autosave     time.Duration `yaml:"autosave"`
	ShowFPS      bool          `yaml:"show_fps"`
	ShowMemAlloc bool          `yaml:"show_memalloc"`
	GridVisible  bool          `yaml:"grid_visible"`
	SnapEnabled  bool          `yaml:"snap_enabled"`
	LastProject  string        `yaml:"last_project,omitempty"`
	Stylesheet   string        `yaml:"stylesheet,omitempty"`
	Font         string        `yaml:"font,omitempty"`
	SourceFolder string        `yaml:"source_folder,omitempty"`
}

// Default returns default preferences (meters, autosave every two minutes, grid and snap on).
func Default() Prefs {
	return Prefs{
		Unit:        units.Meters,
		Autosave:    2 * time.Minute,
		GridVisible: true,
		SnapEnabled: true,
	}
}

// Load reads preferences from config/stage.yaml. See LoadFrom.
func Load() (Prefs, error) {
	return LoadFrom(PrefsPath)
}

// LoadFrom reads preferences from path. Fields missing from the file keep their defaults.
// If the file is missing or invalid, returns Default() and does not create a file.
func LoadFrom(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	if p.Autosave < 0 {
		p.Autosave = 0
	}
	return p, nil
}

// Save writes preferences to config/stage.yaml, creating the config directory if needed.
func Save(p Prefs) error {
	return SaveTo(PrefsPath, p)
}

// SaveTo writes preferences to path, creating its directory if needed.
func SaveTo(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
