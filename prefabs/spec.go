package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec3Spec accepts either a [x, y, z] sequence or an x/y/z mapping.
type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vec3 needs 3 values, got %d", len(xs))
		}
		v.X, v.Y, v.Z = xs[0], xs[1], xs[2]
		return nil
	case yaml.MappingNode:
		type plain Vec3Spec
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*v = Vec3Spec(p)
		return nil
	}
	return fmt.Errorf("vec3 must be a sequence or mapping")
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// RGBA8 returns the colour as color.RGBA, or the zero colour when unset.
func (c *YAMLColor) RGBA8() color.RGBA {
	if c == nil || c.Color == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c.Color).(color.RGBA)
}

// DefaultAdvanceDelay is how long a solved level stays on screen before the
// next one loads.
const DefaultAdvanceDelay = 1200 * time.Millisecond

// GameSpec is game.yaml: window setup, the default level and the order levels
// are played in.
type GameSpec struct {
	Title        string        `yaml:"title"`
	Level        string        `yaml:"level"`
	Levels       []string      `yaml:"levels"`
	AdvanceDelay time.Duration `yaml:"advance_delay"`
	Coordinator string `yaml:"coordinator"`
	Camera      string `yaml:"camera"`
	Hazard      string `yaml:"hazard"`
	PlayerRed   string `yaml:"player_red"`
	PlayerBlue  string `yaml:"player_blue"`
	GoalRed     string `yaml:"goal_red"`
	GoalBlue    string `yaml:"goal_blue"`
}

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec]("game.yaml")
	if err != nil {
		return nil, err
	}
	spec.withDefaults()
	return &spec, nil
}

func (s *GameSpec) withDefaults() {
	defaults := map[*string]string{
		&s.Title:       "autogodraw",
		&s.Level:       "level_01.json",
		&s.Coordinator: "coordinator.yaml",
		&s.Camera:      "camera.yaml",
		&s.Hazard:      "hazard.yaml",
		&s.PlayerRed:   "player_red.yaml",
		&s.PlayerBlue:  "player_blue.yaml",
		&s.GoalRed:     "goal_red.yaml",
		&s.GoalBlue:    "goal_blue.yaml",
	}
	for field, def := range defaults {
		if *field == "" {
			*field = def
		}
	}
	if s.AdvanceDelay <= 0 {
		s.AdvanceDelay = DefaultAdvanceDelay
	}
}

// NextLevel returns the level that follows current in Levels. The last level
// and levels outside the sequence have no successor.
func (s *GameSpec) NextLevel(current string) (string, bool) {
	current = levelKey(current)
	for i, name := range s.Levels {
		if levelKey(name) == current && i+1 < len(s.Levels) {
			return s.Levels[i+1], true
		}
	}
	return "", false
}

func levelKey(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".json")
}
