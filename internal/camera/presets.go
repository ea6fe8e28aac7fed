package camera

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Preset is a named camera framing.
type Preset int

const (
	PresetFront Preset = iota
	PresetTop
	PresetThreeQuarter
	PresetLevel
	PresetDefault
)

var presetNames = map[Preset]string{
	PresetFront:        "front",
	PresetTop:          "top",
	PresetThreeQuarter: "three-quarter",
	PresetLevel:        "level",
	PresetDefault:      "default",
}

func (p Preset) String() string {
	if n, ok := presetNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// ParsePreset returns the preset with the given name (case-insensitive).
func ParsePreset(name string) (Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range presetNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("camera: unknown preset %q", name)
}

// ApplyPreset moves the camera to a preset framing.
// Front, Top and ThreeQuarter are fixed framings; Level removes the tilt and keeps target and distance.
func (o *Orbit) ApplyPreset(p Preset) {
	switch p {
	case PresetFront:
		o.LookFrom(rl.NewVector3(0, 150, 800), rl.NewVector3(0, 150, 0))
	case PresetTop:
		o.LookFrom(rl.NewVector3(0, 800, 0.01), rl.NewVector3(0, 0, 0))
	case PresetThreeQuarter:
		o.LookFrom(rl.NewVector3(500, 400, 500), rl.NewVector3(0, 100, 0))
	case PresetLevel:
		o.Pitch = 0
	case PresetDefault:
		o.Reset()
	}
}
