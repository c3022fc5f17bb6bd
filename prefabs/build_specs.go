package prefabs

import (
	"time"

	"gopkg.in/yaml.v3"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	Position Vec3Spec  `yaml:"position"`
	Rotation Vec3Spec  `yaml:"rotation"` // euler degrees, applied X then Y then Z
	Scale    *Vec3Spec `yaml:"scale"`
}

type ColliderComponentSpec struct {
	Shape       string   `yaml:"shape"`
	HalfExtents Vec3Spec `yaml:"half_extents"`
	Radius      float64  `yaml:"radius"`
	Height      float64  `yaml:"height"`
}

type CameraComponentSpec struct {
	Target Vec3Spec  `yaml:"target"`
	Up     *Vec3Spec `yaml:"up"`
	FovY   float64   `yaml:"fov_y"`
	Near   float64   `yaml:"near"`
	Far    float64   `yaml:"far"`
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
}

// PathDrawerComponentSpec leaves unset fields at their defaults.
type PathDrawerComponentSpec struct {
	MinPointSpacing     *float64   `yaml:"min_point_spacing"`
	StartOnObject       *bool      `yaml:"start_on_object"`
	LineWidth           *float64   `yaml:"line_width"`
	GoalRadius          *float64   `yaml:"goal_radius"`
	GoalHitPadding      *float64   `yaml:"goal_hit_padding"`
	RequireGoal         *bool      `yaml:"require_goal"`
	AutoExtendToGoal    *bool      `yaml:"auto_extend_to_goal"`
	ClearOldPathOnStart *bool      `yaml:"clear_old_path_on_start"`
	BlockTopPixels      *float64   `yaml:"block_top_pixels"`
	LineColor           *YAMLColor `yaml:"line_color"`
}

type PathFollowerComponentSpec struct {
	Speed               *float64 `yaml:"speed"`
	FaceForward         *bool    `yaml:"face_forward"`
	HeadingOffsetDeg    float64  `yaml:"heading_offset_deg"`
	AlignToGoalRotation *bool    `yaml:"align_to_goal_rotation"`
}

type AppearanceComponentSpec struct {
	Color *YAMLColor `yaml:"color"`
}

type HazardComponentSpec struct {
	BounceDistance *float64       `yaml:"bounce_distance"`
	KnockSpeed     *float64       `yaml:"knock_speed"`
	KnockDuration  *float64       `yaml:"knock_duration"`
	SpinDegPerSec  *float64       `yaml:"spin_deg_per_sec"`
	SwitchDelay    *time.Duration `yaml:"switch_delay"`
}

type GoalSuccessComponentSpec struct {
	TotalPlayers       int            `yaml:"total_players"`
	ExtraGoalTolerance *float64       `yaml:"extra_goal_tolerance"`
	ArmDelay           *time.Duration `yaml:"arm_delay"`
	Debug              bool           `yaml:"debug"`
}

type LevelTimerComponentSpec struct {
	AutoStart *bool `yaml:"auto_start"`
}
