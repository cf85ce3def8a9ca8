package geometry

import (
	"math"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// Viewport is the pixel-space rectangle a floor plan is rendered into.
type Viewport struct {
	Width  float64
	Height float64
}

// Ready reports whether the viewport has usable dimensions. Conversion and
// rendering are suppressed entirely for a viewport that is not ready; a
// zero-size container means "not laid out yet", not an error.
func (v Viewport) Ready() bool {
	return v.Width > 0 && v.Height > 0
}

// PixelToPercent converts a pixel position inside the viewport to a
// percentage coordinate, clamping each axis to [0,100]. Callers must check
// Viewport.Ready first; a degenerate viewport yields the origin.
func PixelToPercent(px, py float64, vp Viewport) models.Point {
	if !vp.Ready() {
		return models.Point{}
	}
	return models.Point{
		X: px / vp.Width * 100,
		Y: py / vp.Height * 100,
	}.Clamp()
}

// PercentToPixel converts a stored percentage coordinate to pixel space.
// No clamping: render targets may legitimately sit on the container edge.
func PercentToPixel(p models.Point, vp Viewport) (px, py float64) {
	return p.X / 100 * vp.Width, p.Y / 100 * vp.Height
}

// DefaultGridStep is the snap grid used by placement and drag editing, in
// percentage units.
const DefaultGridStep = 5.0

// SnapToGrid rounds each axis to the nearest multiple of step and clamps
// the result. A step of zero or less disables snapping (the point is still
// clamped).
func SnapToGrid(p models.Point, step float64) models.Point {
	if step <= 0 {
		return p.Clamp()
	}
	return models.Point{
		X: math.Round(p.X/step) * step,
		Y: math.Round(p.Y/step) * step,
	}.Clamp()
}
