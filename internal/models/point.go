package models

// Point is a position on a floor plan in percentage coordinates: each axis
// is a fraction of the floor-plan image's intrinsic size, scaled to [0,100].
// This is the only representation that is stored or transmitted; pixel
// coordinates are always derived from it at render time.
type Point struct {
	X float64 `json:"x" db:"x"`
	Y float64 `json:"y" db:"y"`
}

// Clamp returns the point with both axes forced into [0,100].
func (p Point) Clamp() Point {
	return Point{X: clampAxis(p.X), Y: clampAxis(p.Y)}
}

// InBounds reports whether both axes already lie within [0,100].
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100
}

func clampAxis(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
