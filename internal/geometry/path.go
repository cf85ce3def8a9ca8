package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r2"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// ErrInvalidSegment is returned when a segment index does not address a
// consecutive waypoint pair.
var ErrInvalidSegment = errors.New("segment index out of range")

// PathOp is one SVG-style path command verb.
type PathOp string

const (
	OpMove PathOp = "M"
	OpLine PathOp = "L"
	OpQuad PathOp = "Q"
)

// PathCommand is a single drawing step in viewport pixel space. CX/CY carry
// the control point for OpQuad and are unused otherwise.
type PathCommand struct {
	Op PathOp  `json:"op"`
	CX float64 `json:"cx,omitempty"`
	CY float64 `json:"cy,omitempty"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// PathSpec is a renderable route path. Empty when the waypoint list is too
// short to draw; callers must not render an empty spec.
type PathSpec struct {
	Commands []PathCommand `json:"commands"`
}

// Empty reports whether there is nothing to draw.
func (p PathSpec) Empty() bool {
	return len(p.Commands) == 0
}

// String renders the spec as SVG path data ("M ... L ... Q ...").
func (p PathSpec) String() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch c.Op {
		case OpQuad:
			fmt.Fprintf(&b, "Q %s %s %s %s", f(c.CX), f(c.CY), f(c.X), f(c.Y))
		default:
			fmt.Fprintf(&b, "%s %s %s", c.Op, f(c.X), f(c.Y))
		}
	}
	return b.String()
}

func f(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// BuildPath converts a route's waypoints into a renderable path in the
// given viewport. Waypoints are sorted by order first. With smooth set and
// at least three points the path is a chain of quadratic curves: each
// interior waypoint acts as a control point and the curve joins segment
// midpoints, so it passes near, not through, the interior waypoints.
// Otherwise the path is a straight polyline. Fewer than two waypoints, or a
// viewport that is not ready, yields an empty spec.
func BuildPath(waypoints []models.Waypoint, vp Viewport, smooth bool) PathSpec {
	if len(waypoints) < 2 || !vp.Ready() {
		return PathSpec{}
	}

	wps := make([]models.Waypoint, len(waypoints))
	copy(wps, waypoints)
	models.SortWaypoints(wps)

	pts := make([]r2.Point, len(wps))
	for i, wp := range wps {
		px, py := PercentToPixel(wp.Position(), vp)
		pts[i] = r2.Point{X: px, Y: py}
	}

	cmds := make([]PathCommand, 0, len(pts))
	cmds = append(cmds, PathCommand{Op: OpMove, X: pts[0].X, Y: pts[0].Y})

	if !smooth || len(pts) < 3 {
		for _, pt := range pts[1:] {
			cmds = append(cmds, PathCommand{Op: OpLine, X: pt.X, Y: pt.Y})
		}
		return PathSpec{Commands: cmds}
	}

	for i := 1; i < len(pts)-2; i++ {
		mid := pts[i].Add(pts[i+1]).Mul(0.5)
		cmds = append(cmds, PathCommand{Op: OpQuad, CX: pts[i].X, CY: pts[i].Y, X: mid.X, Y: mid.Y})
	}
	// Last curve lands exactly on the final waypoint.
	last := len(pts) - 1
	cmds = append(cmds, PathCommand{Op: OpQuad, CX: pts[last-1].X, CY: pts[last-1].Y, X: pts[last].X, Y: pts[last].Y})
	return PathSpec{Commands: cmds}
}

// SegmentMarker positions a direction-arrow glyph: the midpoint of one
// route segment in percentage coordinates plus the segment's heading.
type SegmentMarker struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	AngleDegrees float64 `json:"angleDegrees"`
}

// SegmentMarkers returns one marker per consecutive waypoint pair, in order.
// The angle is atan2 of the segment delta, in degrees.
func SegmentMarkers(waypoints []models.Waypoint) []SegmentMarker {
	if len(waypoints) < 2 {
		return nil
	}

	wps := make([]models.Waypoint, len(waypoints))
	copy(wps, waypoints)
	models.SortWaypoints(wps)

	markers := make([]SegmentMarker, 0, len(wps)-1)
	for i := 0; i < len(wps)-1; i++ {
		a, b := wps[i], wps[i+1]
		markers = append(markers, SegmentMarker{
			X:            (a.X + b.X) / 2,
			Y:            (a.Y + b.Y) / 2,
			AngleDegrees: math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi,
		})
	}
	return markers
}

// InsertPointOnSegment returns a new waypoint list with p inserted
// immediately after segment segIdx (the segment from waypoint segIdx to
// segIdx+1), with order values renormalized to 0..n-1. The input list is
// not modified. Returns ErrInvalidSegment when segIdx does not address a
// segment of the list.
func InsertPointOnSegment(waypoints []models.Waypoint, segIdx int, p models.Point) ([]models.Waypoint, error) {
	if segIdx < 0 || segIdx > len(waypoints)-2 {
		return nil, fmt.Errorf("%w: %d of %d segments", ErrInvalidSegment, segIdx, max(len(waypoints)-1, 0))
	}

	wps := make([]models.Waypoint, len(waypoints))
	copy(wps, waypoints)
	models.SortWaypoints(wps)

	p = p.Clamp()
	inserted := models.Waypoint{X: p.X, Y: p.Y}
	wps = append(wps[:segIdx+1], append([]models.Waypoint{inserted}, wps[segIdx+1:]...)...)
	for i := range wps {
		wps[i].Order = i
	}
	return wps, nil
}

// NearestSegment finds the segment of the (order-sorted) waypoint list
// closest to p, returning its index, the projection of p onto it, and the
// distance, all in percentage space. Returns ErrInvalidSegment when the
// list has no segments.
func NearestSegment(waypoints []models.Waypoint, p models.Point) (int, models.Point, float64, error) {
	if len(waypoints) < 2 {
		return 0, models.Point{}, 0, fmt.Errorf("%w: route has no segments", ErrInvalidSegment)
	}

	wps := make([]models.Waypoint, len(waypoints))
	copy(wps, waypoints)
	models.SortWaypoints(wps)

	target := r2.Point{X: p.X, Y: p.Y}
	bestIdx := 0
	bestDist := math.MaxFloat64
	var bestPoint r2.Point

	for i := 0; i < len(wps)-1; i++ {
		a := r2.Point{X: wps[i].X, Y: wps[i].Y}
		b := r2.Point{X: wps[i+1].X, Y: wps[i+1].Y}
		proj := projectOntoSegment(target, a, b)
		if d := proj.Sub(target).Norm(); d < bestDist {
			bestIdx, bestDist, bestPoint = i, d, proj
		}
	}
	return bestIdx, models.Point{X: bestPoint.X, Y: bestPoint.Y}, bestDist, nil
}

func projectOntoSegment(p, a, b r2.Point) r2.Point {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t))
}
