package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/geom"
)

// PathDrawer turns pointer input into a path for its follower.
type PathDrawer struct {
	Camera   uint64
	Follower uint64
	Goal     uint64

	Plane               geom.PlaneSpec
	MinPointSpacing     float64
	StartOnObject       bool
	LineWidth           float64
	GoalRadius          float64
	GoalHitPadding      float64
	RequireGoal         bool
	AutoExtendToGoal    bool
	ClearOldPathOnStart bool
	BlockTopPixels      float64
	LineColor           color.RGBA

	Drawing        bool
	Points         []mgl64.Vec3
	ActiveTouch    int
	HasActiveTouch bool
}

const (
	DefaultMinPointSpacing = 0.25
	DefaultLineWidth       = 0.15
	DefaultGoalRadius      = 0.35
	DefaultGoalHitPadding  = 0.08
	DefaultBlockTopPixels  = 150
)

func DefaultPathDrawer() PathDrawer {
	return PathDrawer{
		MinPointSpacing:     DefaultMinPointSpacing,
		StartOnObject:       true,
		LineWidth:           DefaultLineWidth,
		GoalRadius:          DefaultGoalRadius,
		GoalHitPadding:      DefaultGoalHitPadding,
		RequireGoal:         true,
		AutoExtendToGoal:    true,
		ClearOldPathOnStart: true,
		BlockTopPixels:      DefaultBlockTopPixels,
	}
}

var (
	RibbonRed  = color.RGBA{R: 255, A: 255}
	RibbonBlue = color.RGBA{G: 102, B: 255, A: 255}
)

var PathDrawerComponent = NewComponent[PathDrawer]()
