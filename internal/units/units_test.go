package units

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConversions(t *testing.T) {
	tests := []struct {
		unit    Unit
		scale   float32
		suffix  string
		display string
	}{
		{Meters, 100, "m", "3.20 m"},
		{Centimeters, 1, "cm", "320.00 cm"},
		{Feet, 30.48, "ft", "10.50 ft"},
		{Inches, 2.54, "in", "125.98 in"},
	}
	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			assert.Equal(t, tt.scale, tt.unit.Scale())
			assert.Equal(t, tt.suffix, tt.unit.Suffix())
			assert.Equal(t, tt.display, tt.unit.Format(320))
			assert.InDelta(t, 320, tt.unit.FromDisplay(tt.unit.ToDisplay(320)), 1e-3)
		})
	}
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit(" Feet ")
	require.NoError(t, err)
	assert.Equal(t, Feet, u)

	u, err = ParseUnit("cm")
	require.NoError(t, err)
	assert.Equal(t, Centimeters, u)

	_, err = ParseUnit("furlongs")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		unit Unit
		want float32
	}{
		{"3.2m", Centimeters, 320},
		{"320 cm", Meters, 320},
		{"10ft", Meters, 304.8},
		{"2", Meters, 200},
		{"2", Inches, 5.08},
		{" -1.5 M ", Centimeters, -150},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := tt.unit.Parse(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-3)
		})
	}

	_, err := Meters.Parse("12yd")
	assert.Error(t, err)
	_, err = Meters.Parse("m")
	assert.Error(t, err)
}

func TestTextEncoding(t *testing.T) {
	type doc struct {
		Unit Unit `json:"unit" yaml:"unit"`
	}

	out, err := yaml.Marshal(doc{Unit: Feet})
	require.NoError(t, err)
	assert.Equal(t, "unit: feet\n", string(out))

	var d doc
	require.NoError(t, yaml.Unmarshal([]byte("unit: inches\n"), &d))
	assert.Equal(t, Inches, d.Unit)

	js, err := json.Marshal(doc{Unit: Centimeters})
	require.NoError(t, err)
	assert.JSONEq(t, `{"unit":"centimeters"}`, string(js))

	require.NoError(t, json.Unmarshal([]byte(`{"unit":"parsecs"}`), &d))
	assert.Equal(t, Meters, d.Unit)
}

func TestUnknownUnitBehavesAsMeters(t *testing.T) {
	u := Unit(42)
	assert.Equal(t, "m", u.Suffix())
	assert.Equal(t, float32(100), u.Scale())
}
