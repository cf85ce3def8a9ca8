package models

import "testing"

func TestPointClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"in bounds", Point{X: 50, Y: 50}, Point{X: 50, Y: 50}},
		{"negative", Point{X: -10, Y: -0.5}, Point{X: 0, Y: 0}},
		{"over", Point{X: 100.01, Y: 400}, Point{X: 100, Y: 100}},
		{"mixed", Point{X: -1, Y: 99}, Point{X: 0, Y: 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenormalizeOrders(t *testing.T) {
	wps := []Waypoint{
		{Order: 9, X: 3},
		{Order: 1, X: 1},
		{Order: 4, X: 2},
	}
	RenormalizeOrders(wps)

	for i, wp := range wps {
		if wp.Order != i {
			t.Errorf("order[%d] = %d, want %d", i, wp.Order, i)
		}
	}
	if wps[0].X != 1 || wps[2].X != 3 {
		t.Errorf("waypoints should be sorted by original order, got %+v", wps)
	}
}

func TestTimestampComparison(t *testing.T) {
	older := Timestamp("2023-12-31T23:59:59.000000000Z")
	newer := Timestamp("2024-01-01T00:00:00.000000000Z")

	if !newer.Newer(older) {
		t.Error("later instant should compare newer")
	}
	if older.Newer(newer) {
		t.Error("earlier instant should not compare newer")
	}
	if newer.Newer(newer) {
		t.Error("equal timestamps are not newer; ties keep the holder")
	}
}
