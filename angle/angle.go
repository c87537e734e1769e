// Package angle provides circular-angle arithmetic: normalization,
// sequence unwrapping, relative unwrapping, and range extension. These
// are the primitives that make a boundary crossing well-defined across
// the 0/360° wrap, and are shared by the panchanga continuous functions,
// the event finder's cycle-unwrap rule, and the sunrise-anchored
// nakshatra sampler.
//
// All four operations are pure and total over finite float64 inputs.
// mod follows mathematical (non-negative) convention, not Go's %.
package angle

import "math"

// mod is the mathematical (always non-negative for positive period)
// modulo, unlike Go's %, which keeps the sign of its dividend.
func mod(a, period float64) float64 {
	m := math.Mod(a, period)
	if m < 0 {
		m += period
	}
	return m
}

// Normalize brings a into [start, start+period).
func Normalize(a, start, period float64) float64 {
	return mod(a-start, period) + start
}

// Normalize360 is Normalize(a, 0, 360), the common case.
func Normalize360(a float64) float64 {
	return Normalize(a, 0, 360)
}

// UnwrapSequence removes period-sized jumps from a sampled sequence of
// circular angles, producing a continuous run. b[0] = a[0]; each
// subsequent step is the shortest signed difference from the previous
// unwrapped value, so a run like [340, 350, 10, 20] becomes
// [340, 350, 370, 380].
func UnwrapSequence(a []float64, period float64) []float64 {
	if len(a) == 0 {
		return nil
	}
	out := make([]float64, len(a))
	out[0] = a[0]
	half := period / 2.0
	for i := 1; i < len(a); i++ {
		diff := mod(a[i]-out[i-1]+half, period) - half
		out[i] = out[i-1] + diff
	}
	return out
}

// UnwrapRelative unwraps v (taken modulo period) to the representative
// nearest target, guaranteeing |result - target| <= period/2.
func UnwrapRelative(v, target, period float64) float64 {
	half := period / 2.0
	diff := mod(v-target+half, period) - half
	return target + diff
}

// ExtendRange repeatedly appends a + k*period (k=1,2,...) to angles
// until the covered span is at least span. Used to give an
// interpolator enough coverage to locate a target on either side of
// the wrap.
func ExtendRange(a []float64, span, period float64) []float64 {
	if len(a) == 0 {
		return nil
	}
	ext := append([]float64(nil), a...)
	k := 1.0
	for rangeOf(ext) < span {
		for _, x := range a {
			ext = append(ext, x+period*k)
		}
		k++
	}
	return ext
}

func rangeOf(xs []float64) float64 {
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return hi - lo
}
