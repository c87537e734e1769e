// Package lagrange implements inverse barycentric Lagrange
// interpolation: given samples (x_i, y_i) with unique y_i, estimate x*
// such that y(x*) = y_target. It is used for sunrise-anchored
// nakshatra endpoints, where the underlying quantity (Moon longitude)
// is sampled discretely rather than available as a speed-assisted
// function of time.
package lagrange

import (
	"math"

	"github.com/pkg/errors"
)

// DefaultMaxPoints is the default number of nearest-to-target samples
// kept before fitting, per Invariant 4.B.2.
const DefaultMaxPoints = 5

// DefaultEpsilon is the default tolerance for exact-hit and
// ill-conditioning detection.
const DefaultEpsilon = 1e-10

var (
	// ErrInvalidInput is returned for mismatched slice lengths or n < 2.
	ErrInvalidInput = errors.New("lagrange: x and y must have equal length >= 2")
	// ErrIllDefined is returned when two y samples coincide within eps.
	ErrIllDefined = errors.New("lagrange: duplicate y values, inverse is ill-defined")
	// ErrIllConditioned is returned when a barycentric weight or the
	// final denominator underflows below eps.
	ErrIllConditioned = errors.New("lagrange: ill-conditioned interpolation")
)

// Options configures InverseLagrange. The zero value selects the
// package defaults (MaxPoints=DefaultMaxPoints, Epsilon=DefaultEpsilon).
type Options struct {
	MaxPoints int
	Epsilon   float64
}

func (o Options) resolved() Options {
	if o.MaxPoints <= 0 {
		o.MaxPoints = DefaultMaxPoints
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	return o
}

// InverseLagrange estimates x* such that y(x*) = yTarget, given pairs
// (xs[i], ys[i]) with unique ys. It keeps the MaxPoints samples whose y
// is nearest yTarget, returns a sample's x directly when its y is
// within Epsilon of yTarget, rejects duplicate ys, and otherwise
// evaluates x as a function of y in barycentric form.
func InverseLagrange(xs, ys []float64, yTarget float64, opts Options) (float64, error) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, ErrInvalidInput
	}
	opts = opts.resolved()

	xs, ys = nearestPoints(xs, ys, yTarget, opts.MaxPoints)
	n := len(xs)
	eps := opts.Epsilon

	for i := 0; i < n; i++ {
		if math.Abs(yTarget-ys[i]) <= eps {
			return xs[i], nil
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(ys[i]-ys[j]) <= eps {
				return 0, ErrIllDefined
			}
		}
	}

	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		denom := 1.0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			denom *= ys[i] - ys[j]
		}
		if math.Abs(denom) <= eps {
			return 0, ErrIllConditioned
		}
		weights[i] = 1.0 / denom
	}

	var num, den float64
	for i := 0; i < n; i++ {
		t := weights[i] / (yTarget - ys[i])
		num += t * xs[i]
		den += t
	}
	if math.Abs(den) <= eps {
		return 0, ErrIllConditioned
	}
	return num / den, nil
}

// nearestPoints keeps the k samples whose y is closest to yTarget,
// preserving their relative order. If n <= k, xs/ys are returned
// unchanged.
func nearestPoints(xs, ys []float64, yTarget float64, k int) ([]float64, []float64) {
	n := len(xs)
	if n <= k {
		return xs, ys
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	dist := func(i int) float64 { return math.Abs(ys[i] - yTarget) }
	// Partial selection sort: only the first k entries need to be
	// correct, and n is always small (a handful of sunrise samples).
	for i := 0; i < k; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if dist(idx[j]) < dist(idx[best]) {
				best = j
			}
		}
		idx[i], idx[best] = idx[best], idx[i]
	}
	outX := make([]float64, k)
	outY := make([]float64, k)
	for i := 0; i < k; i++ {
		outX[i] = xs[idx[i]]
		outY[i] = ys[idx[i]]
	}
	return outX, outY
}
