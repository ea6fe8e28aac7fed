package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stage-designer/internal/screen"
)

// ProjectVersion is written to every saved project.
const ProjectVersion = 1

// ErrMissingScreens is returned when a project document has no "screens" array.
var ErrMissingScreens = errors.New("scene: project has no screens array")

// Document is the on-disk project shape. Camera is kept raw so the scene does not depend on the camera type.
type Document struct {
	Version int               `json:"version"`
	Camera  json.RawMessage   `json:"camera,omitempty"`
	Screens []json.RawMessage `json:"screens"`
}

// MarshalProject encodes the scene, with the camera state if cam is non-empty, as an indented project document.
func (s *Scene) MarshalProject(cam json.RawMessage) ([]byte, error) {
	doc := Document{Version: ProjectVersion, Camera: cam, Screens: make([]json.RawMessage, len(s.screens))}
	for i, sc := range s.screens {
		raw, err := json.Marshal(sc)
		if err != nil {
			return nil, fmt.Errorf("scene: encode screen %d: %w", i, err)
		}
		doc.Screens[i] = raw
	}
	return json.MarshalIndent(doc, "", "  ")
}

// LoadProject replaces the scene with the screens in data and returns the raw camera block, which may be nil.
// All screens are decoded before anything changes, so on error the scene is left as it was.
// On success the selection is cleared, the name counter restarts and sources are reconnected by name.
func (s *Scene) LoadProject(data []byte) (json.RawMessage, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: parse project: %w", err)
	}
	if doc.Screens == nil {
		return nil, ErrMissingScreens
	}
	screens, err := doc.Decode()
	if err != nil {
		return nil, err
	}
	s.replace(screens)
	s.ReconnectSources()
	return doc.Camera, nil
}

// SaveFile writes the project to path, creating its directory.
func (s *Scene) SaveFile(path string, cam json.RawMessage) error {
	data, err := s.MarshalProject(cam)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("scene: create project dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("scene: write project: %w", err)
	}
	return nil
}

// LoadFile reads and loads the project at path. See LoadProject.
func (s *Scene) LoadFile(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read project: %w", err)
	}
	return s.LoadProject(data)
}

// ReadDocument parses a project file without touching any scene. Tools use it to inspect projects.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read project: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: parse project: %w", err)
	}
	if doc.Screens == nil {
		return nil, ErrMissingScreens
	}
	return &doc, nil
}

// Decode returns the screens of a parsed document.
func (d *Document) Decode() ([]*screen.Screen, error) {
	out := make([]*screen.Screen, len(d.Screens))
	for i, raw := range d.Screens {
		sc, err := screen.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("scene: screen %d: %w", i, err)
		}
		out[i] = sc
	}
	return out, nil
}
