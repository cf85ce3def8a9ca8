package geometry

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

func wps(points ...[2]float64) []models.Waypoint {
	out := make([]models.Waypoint, len(points))
	for i, p := range points {
		out[i] = models.Waypoint{Order: i, X: p[0], Y: p[1]}
	}
	return out
}

func TestBuildPathPolyline(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}
	spec := BuildPath(wps([2]float64{10, 10}, [2]float64{50, 50}, [2]float64{90, 10}), vp, false)

	if len(spec.Commands) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(spec.Commands))
	}
	if spec.Commands[0].Op != OpMove {
		t.Errorf("first command should be MoveTo, got %s", spec.Commands[0].Op)
	}
	for _, cmd := range spec.Commands[1:] {
		if cmd.Op != OpLine {
			t.Errorf("expected LineTo, got %s", cmd.Op)
		}
	}
	if d := spec.String(); !strings.HasPrefix(d, "M 10.00 10.00 L 50.00 50.00") {
		t.Errorf("unexpected path data %q", d)
	}
}

func TestBuildPathSortsByOrder(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}
	shuffled := []models.Waypoint{
		{Order: 2, X: 90, Y: 10},
		{Order: 0, X: 10, Y: 10},
		{Order: 1, X: 50, Y: 50},
	}
	spec := BuildPath(shuffled, vp, false)
	if spec.Commands[0].X != 10 || spec.Commands[0].Y != 10 {
		t.Errorf("path should start at order 0, starts at (%v,%v)", spec.Commands[0].X, spec.Commands[0].Y)
	}
}

func TestBuildPathSmooth(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}
	spec := BuildPath(wps([2]float64{0, 0}, [2]float64{50, 100}, [2]float64{100, 0}), vp, true)

	// M start, then one quadratic curve landing on the final waypoint with
	// the interior waypoint as control.
	if len(spec.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(spec.Commands))
	}
	q := spec.Commands[1]
	if q.Op != OpQuad {
		t.Fatalf("expected QuadTo, got %s", q.Op)
	}
	if q.CX != 50 || q.CY != 100 {
		t.Errorf("control point (%v,%v), want (50,100)", q.CX, q.CY)
	}
	if q.X != 100 || q.Y != 0 {
		t.Errorf("curve should end on final waypoint, ends at (%v,%v)", q.X, q.Y)
	}
}

func TestBuildPathSmoothJoinsMidpoints(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}
	spec := BuildPath(wps(
		[2]float64{0, 0}, [2]float64{20, 40}, [2]float64{60, 40}, [2]float64{100, 0},
	), vp, true)

	if len(spec.Commands) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(spec.Commands))
	}
	first := spec.Commands[1]
	if first.Op != OpQuad || first.X != 40 || first.Y != 40 {
		t.Errorf("first curve should end at midpoint (40,40), got %s (%v,%v)", first.Op, first.X, first.Y)
	}
}

func TestBuildPathDegenerate(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}

	if spec := BuildPath(nil, vp, false); !spec.Empty() {
		t.Error("no waypoints should yield an empty path")
	}
	if spec := BuildPath(wps([2]float64{10, 10}), vp, true); !spec.Empty() {
		t.Error("single waypoint should yield an empty path")
	}
	if spec := BuildPath(wps([2]float64{10, 10}, [2]float64{50, 50}), Viewport{}, false); !spec.Empty() {
		t.Error("unready viewport should yield an empty path")
	}
	// Two points with smoothing requested degrade to a straight segment.
	spec := BuildPath(wps([2]float64{10, 10}, [2]float64{50, 50}), vp, true)
	if len(spec.Commands) != 2 || spec.Commands[1].Op != OpLine {
		t.Errorf("two-point smooth path should be a polyline, got %+v", spec.Commands)
	}
}

func TestSegmentMarkers(t *testing.T) {
	markers := SegmentMarkers(wps([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}))
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}

	if markers[0].X != 5 || markers[0].Y != 0 {
		t.Errorf("first midpoint (%v,%v), want (5,0)", markers[0].X, markers[0].Y)
	}
	if math.Abs(markers[0].AngleDegrees-0) > 1e-9 {
		t.Errorf("rightward segment angle %v, want 0", markers[0].AngleDegrees)
	}
	if math.Abs(markers[1].AngleDegrees-90) > 1e-9 {
		t.Errorf("downward segment angle %v, want 90", markers[1].AngleDegrees)
	}

	if SegmentMarkers(wps([2]float64{1, 1})) != nil {
		t.Error("single waypoint should yield no markers")
	}
}

func TestInsertPointOnSegment(t *testing.T) {
	base := wps([2]float64{0, 0}, [2]float64{50, 50}, [2]float64{100, 0})

	got, err := InsertPointOnSegment(base, 0, models.Point{X: 25, Y: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 waypoints, got %d", len(got))
	}
	if got[1].X != 25 || got[1].Y != 25 {
		t.Errorf("inserted point at index 1 is (%v,%v), want (25,25)", got[1].X, got[1].Y)
	}
	for i, wp := range got {
		if wp.Order != i {
			t.Errorf("order[%d] = %d after insert, want %d", i, wp.Order, i)
		}
	}
	// Input list is untouched.
	if len(base) != 3 || base[1].X != 50 {
		t.Error("input waypoint list was modified")
	}
}

func TestInsertPointInvalidSegment(t *testing.T) {
	base := wps([2]float64{0, 0}, [2]float64{50, 50}, [2]float64{100, 0})

	for _, idx := range []int{-1, 2, 99} {
		if _, err := InsertPointOnSegment(base, idx, models.Point{X: 1, Y: 1}); !errors.Is(err, ErrInvalidSegment) {
			t.Errorf("segment %d: expected ErrInvalidSegment, got %v", idx, err)
		}
	}
}

func TestNearestSegment(t *testing.T) {
	base := wps([2]float64{0, 0}, [2]float64{100, 0}, [2]float64{100, 100})

	idx, proj, dist, err := NearestSegment(base, models.Point{X: 50, Y: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 {
		t.Errorf("nearest segment %d, want 0", idx)
	}
	if proj.X != 50 || proj.Y != 0 {
		t.Errorf("projection (%v,%v), want (50,0)", proj.X, proj.Y)
	}
	if math.Abs(dist-10) > 1e-9 {
		t.Errorf("distance %v, want 10", dist)
	}

	idx, _, _, err = NearestSegment(base, models.Point{X: 95, Y: 80})
	if err != nil || idx != 1 {
		t.Errorf("nearest segment %d (err %v), want 1", idx, err)
	}

	if _, _, _, err := NearestSegment(wps([2]float64{1, 1}), models.Point{}); !errors.Is(err, ErrInvalidSegment) {
		t.Errorf("expected ErrInvalidSegment for segment-less list, got %v", err)
	}
}
