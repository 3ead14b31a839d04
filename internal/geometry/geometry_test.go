package geometry

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/formcheck/internal/joints"
)

const eps = 1e-9

func pos(x, y, z float64) joints.Position { return joints.Position{X: x, Y: y, Z: z} }

func TestAngleRightAngle(t *testing.T) {
	got := Angle(pos(1, 0, 0), pos(0, 0, 0), pos(0, 1, 0))
	if math.Abs(got-90) > eps {
		t.Fatalf("expected 90, got %f", got)
	}
}

func TestAngleStraightAndFolded(t *testing.T) {
	if got := Angle(pos(-1, 0, 0), pos(0, 0, 0), pos(2, 0, 0)); math.Abs(got-180) > eps {
		t.Fatalf("expected 180, got %f", got)
	}
	if got := Angle(pos(1, 1, 1), pos(0, 0, 0), pos(2, 2, 2)); math.Abs(got) > 1e-6 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestAngleDegenerateIsNaN(t *testing.T) {
	got := Angle(pos(0.5, 0.5, 0), pos(0.5, 0.5, 0), pos(0.1, 0.2, 0))
	if !math.IsNaN(got) {
		t.Fatalf("expected NaN for zero-length arm, got %f", got)
	}
}

func TestTorsoAngle(t *testing.T) {
	upright := TorsoAngle(pos(0.5, 0.3, 0), pos(0.5, 0.6, 0))
	if math.Abs(upright) > 1e-6 {
		t.Fatalf("expected 0 upright, got %f", upright)
	}
	flat := TorsoAngle(pos(0.2, 0.5, 0), pos(0.6, 0.5, 0))
	if math.Abs(flat-90) > 1e-6 {
		t.Fatalf("expected 90 horizontal, got %f", flat)
	}
}

func TestDistancesAndOffsets(t *testing.T) {
	a, b := pos(0, 0, 0), pos(3, 4, 12)
	if got := Distance2D(a, b); math.Abs(got-5) > eps {
		t.Errorf("Distance2D expected 5, got %f", got)
	}
	if got := Distance3D(a, b); math.Abs(got-13) > eps {
		t.Errorf("Distance3D expected 13, got %f", got)
	}
	if got := VerticalOffset(pos(0, 0.7, 0), pos(0, 0.5, 0)); math.Abs(got-0.2) > eps {
		t.Errorf("VerticalOffset expected 0.2, got %f", got)
	}
	if got := HorizontalOffset(pos(0.2, 0, 0), pos(0.5, 0, 0)); math.Abs(got-0.3) > eps {
		t.Errorf("HorizontalOffset expected 0.3, got %f", got)
	}
	m := Midpoint(pos(0, 0, 0), pos(1, 2, 3))
	if m != pos(0.5, 1, 1.5) {
		t.Errorf("Midpoint unexpected %+v", m)
	}
}

func TestBilateralAverage(t *testing.T) {
	cases := []struct {
		name        string
		left, right float64
		want        float64
		ok          bool
	}{
		{"both", 100, 120, 110, true},
		{"left only", 100, NoValue(), 100, true},
		{"right only", NoValue(), 80, 80, true},
	}
	for _, tc := range cases {
		got, ok := BilateralAverage(tc.left, tc.right)
		if ok != tc.ok || math.Abs(got-tc.want) > eps {
			t.Errorf("%s: expected (%f,%v), got (%f,%v)", tc.name, tc.want, tc.ok, got, ok)
		}
	}

	got, ok := BilateralAverage(NoValue(), NoValue())
	if ok || !math.IsNaN(got) {
		t.Fatalf("both absent should be (NaN,false), got (%f,%v)", got, ok)
	}
}

func TestPositionalPredicates(t *testing.T) {
	wrist, shoulder := pos(0.5, 0.2, 0), pos(0.52, 0.4, 0)
	if !IsAbove(wrist, shoulder, 0.1) || IsBelow(wrist, shoulder, 0) {
		t.Error("wrist should be above shoulder")
	}
	if !IsAlignedVertically(wrist, shoulder, 0.05) {
		t.Error("expected vertical alignment")
	}
	if IsAlignedHorizontally(wrist, shoulder, 0.05) {
		t.Error("unexpected horizontal alignment")
	}
	if !IsExtended(170, 160) || IsFlexed(170, 120) {
		t.Error("170 degrees is extended, not flexed")
	}
}

func TestClampAndMapRange(t *testing.T) {
	if Clamp(1.5, -1, 1) != 1 || Clamp(-3, -1, 1) != -1 || Clamp(0.2, -1, 1) != 0.2 {
		t.Error("Clamp out of bounds")
	}
	if got := MapRange(5, 0, 10, 0, 100); math.Abs(got-50) > eps {
		t.Errorf("MapRange expected 50, got %f", got)
	}
	if !math.IsNaN(MapRange(1, 2, 2, 0, 1)) {
		t.Error("zero-width range should be NaN")
	}
}
