package angle

import (
	"math"
	"testing"
)

func TestNormalize_Range(t *testing.T) {
	cases := []float64{-720.5, -400, -0.0001, 0, 359.9999, 360, 720, 123456.789}
	for _, a := range cases {
		n := Normalize360(a)
		if n < 0 || n >= 360 {
			t.Errorf("Normalize360(%v) = %v, want in [0,360)", a, n)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	cases := []float64{-720.5, -400, -0.0001, 0, 359.9999, 360, 720}
	for _, a := range cases {
		n1 := Normalize360(a)
		n2 := Normalize360(n1)
		if math.Abs(n1-n2) > 1e-12 {
			t.Errorf("Normalize360 not idempotent for %v: %v vs %v", a, n1, n2)
		}
	}
}

func TestNormalize_CustomStartPeriod(t *testing.T) {
	got := Normalize(400, 0, 360)
	if math.Abs(got-40) > 1e-9 {
		t.Errorf("Normalize(400,0,360) = %v, want 40", got)
	}
	got = Normalize(-10, 0, 27)
	if got < 0 || got >= 27 {
		t.Errorf("Normalize(-10,0,27) = %v, out of range", got)
	}
}

func TestUnwrapRelative_Table(t *testing.T) {
	cases := []struct {
		val, target, period, want float64
	}{
		{0.1, 30, 30, 30.1},
		{29.9, 0, 30, -0.1},
		{15, 14, 30, 15},
		{2, 25, 27, 29},
	}
	for _, c := range cases {
		got := UnwrapRelative(c.val, c.target, c.period)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("UnwrapRelative(%v,%v,%v) = %v, want %v", c.val, c.target, c.period, got, c.want)
		}
	}
}

func TestUnwrapRelative_BoundedFromTarget(t *testing.T) {
	period := 360.0
	for target := 0.0; target < 360; target += 17 {
		for v := 0.0; v < 360; v += 23 {
			got := UnwrapRelative(v, target, period)
			if math.Abs(got-target) > period/2+1e-9 {
				t.Errorf("UnwrapRelative(%v,%v) = %v, exceeds half-period bound from target", v, target, got)
			}
		}
	}
}

func TestUnwrapSequence_RemovesWrapJumps(t *testing.T) {
	in := []float64{340, 350, 10, 20}
	want := []float64{340, 350, 370, 380}
	got := UnwrapSequence(in, 360)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("UnwrapSequence[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUnwrapSequence_MonotoneForConstantSpeedSampling(t *testing.T) {
	// Sample a steadily-increasing angle (speed 13 deg/step) wrapped mod
	// 360; unwrapping should recover a strictly monotone sequence since
	// the step is well under half the period.
	n := 50
	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		raw[i] = Normalize360(13.0 * float64(i))
	}
	got := UnwrapSequence(raw, 360)
	for i := 1; i < n; i++ {
		if got[i] <= got[i-1] {
			t.Errorf("unwrap not monotone at %d: %v -> %v", i, got[i-1], got[i])
		}
	}
}

func TestUnwrapSequence_Empty(t *testing.T) {
	if got := UnwrapSequence(nil, 360); got != nil {
		t.Errorf("UnwrapSequence(nil) = %v, want nil", got)
	}
}

func TestExtendRange_CoversSpan(t *testing.T) {
	in := []float64{350, 355, 5, 10}
	ext := ExtendRange(in, 360, 360)
	lo, hi := ext[0], ext[0]
	for _, x := range ext {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if hi-lo < 360 {
		t.Errorf("ExtendRange span = %v, want >= 360", hi-lo)
	}
}

func TestExtendRange_PreservesOriginalPrefix(t *testing.T) {
	in := []float64{1, 2, 3}
	ext := ExtendRange(in, 720, 360)
	for i, x := range in {
		if ext[i] != x {
			t.Errorf("ExtendRange[%d] = %v, want original %v preserved", i, ext[i], x)
		}
	}
}
