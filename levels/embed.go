package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/geom"
)

//go:embed *.json
var LevelsFS embed.FS

// Level places the camera, the player/goal markers and any extra entities on
// one gameplay plane.
type Level struct {
	Plane         geom.Plane `json:"plane"`
	GroundY       float64    `json:"ground_y"`
	PlaneZ        float64    `json:"plane_z"`
	PairCount     int        `json:"pair_count"`
	Camera        *Camera    `json:"camera,omitempty"`
	PlayerMarkers []Vec3     `json:"player_markers"`
	GoalMarkers   []Vec3     `json:"goal_markers"`
	Entities      []Entity   `json:"entities,omitempty"`
}

type Vec3 [3]float64

func (v Vec3) Vec3() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

type Camera struct {
	Position Vec3  `json:"position"`
	Target   Vec3  `json:"target"`
	Up       *Vec3 `json:"up,omitempty"`
}

type Entity struct {
	Type     string         `json:"type"`
	Position Vec3           `json:"position"`
	Props    map[string]any `json:"props,omitempty"`
}

func (l *Level) PlaneSpec() geom.PlaneSpec {
	return geom.PlaneSpec{Plane: l.Plane, GroundY: l.GroundY, PlaneZ: l.PlaneZ}
}

func (l *Level) PlayerPositions() []mgl64.Vec3 {
	return toVecs(l.PlayerMarkers)
}

func (l *Level) GoalPositions() []mgl64.Vec3 {
	return toVecs(l.GoalMarkers)
}

func toVecs(in []Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(in))
	for i, v := range in {
		out[i] = v.Vec3()
	}
	return out
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return decode(name, data)
}

// LoadLevel prefers ./levels/<name> on disk over the embedded copy. A name
// without extension gets .json.
func LoadLevel(name string) (*Level, error) {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	if data, err := os.ReadFile(filepath.Join("levels", filepath.Base(name))); err == nil {
		return decode(name, data)
	}
	return LoadLevelFromFS(filepath.Base(name))
}

func decode(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level %s: %w", name, err)
	}
	if len(lvl.PlayerMarkers) != len(lvl.GoalMarkers) {
		return nil, fmt.Errorf("level %s: %d player markers but %d goal markers", name, len(lvl.PlayerMarkers), len(lvl.GoalMarkers))
	}
	return &lvl, nil
}
