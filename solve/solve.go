// Package solve provides a hybrid root finder over scalar functions of
// time that also return their own derivative: bracket by forward scan,
// refine with speed-assisted Newton, and fall back to bisection when
// Newton stalls. This is the numerical core the event finder drives —
// tithi/nakshatra/yoga boundary crossings are all roots of a residual
// built from the panchanga continuous functions.
//
// All times are Julian Days; callers decide whether that's UT or TT.
package solve

import (
	"math"

	"github.com/pkg/errors"
)

// Defaults, as documented at each call site that uses them.
const (
	DefaultAccuracySeconds = 0.1
	DefaultScanStepDays    = 1.0 / 12.0 // 2 hours
	DefaultNewtonMaxIter   = 20
	DefaultBisectionMaxIter = 80
	DefaultMinSpeed        = 1e-10

	newtonValueTol = 1e-14
)

var (
	// ErrNoBracket is returned when no sign change is found in the
	// search window.
	ErrNoBracket = errors.New("solve: no sign change found in search window")
	// ErrNonConvergence is returned when Newton's derivative
	// underflows or it exhausts its iteration budget. The hybrid
	// driver (Solve) catches this internally and falls back to
	// bisection, so callers only see it from direct calls to Newton.
	ErrNonConvergence = errors.New("solve: newton did not converge")
)

// ValueSpeedFunc evaluates a scalar function of Julian Day, returning
// both its value and its time derivative (speed, per day).
type ValueSpeedFunc func(jd float64) (value, speed float64)

// Result is the outcome of a root search, including enough diagnostics
// to tell which path produced the root.
type Result struct {
	Root       float64
	Method     string // "newton", "bisection", or "bracket_hit"
	Iterations int
	Bracket    *[2]float64
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Bracket performs a forward scan from start to end in steps of
// stepDays (the last step is clamped to end), looking for a sign
// change in f's value. If the very first probe is exactly zero, or a
// later probe lands exactly on zero, it returns (x, x). Returns
// ErrNoBracket if no sign change is found by end.
func Bracket(f ValueSpeedFunc, start, end, stepDays float64) (a, b float64, err error) {
	if end <= start {
		return 0, 0, errors.New("solve: end must be > start")
	}
	if stepDays <= 0 {
		return 0, 0, errors.New("solve: stepDays must be > 0")
	}

	x := start
	v, _ := f(x)
	sa := sign(v)
	if sa == 0 {
		return x, x, nil
	}

	for x < end {
		nx := math.Min(x+stepDays, end)
		vb, _ := f(nx)
		sb := sign(vb)
		if sb == 0 {
			return nx, nx, nil
		}
		if sa != sb {
			return x, nx, nil
		}
		x = nx
		sa = sb
	}
	return 0, 0, errors.Wrap(ErrNoBracket, "forward scan exhausted window")
}

// Bisection refines a root within [a,b] (endpoints must carry opposite
// value signs, or one must be an exact zero) to within tolDays, using
// standard midpoint bisection on value sign.
func Bisection(f ValueSpeedFunc, a, b, tolDays float64, maxIter int) (Result, error) {
	if b < a {
		a, b = b, a
	}
	va, _ := f(a)
	vb, _ := f(b)
	sa, sb := sign(va), sign(vb)

	bracket := [2]float64{a, b}
	if sa == 0 {
		return Result{Root: a, Method: "bisection", Bracket: &bracket}, nil
	}
	if sb == 0 {
		return Result{Root: b, Method: "bisection", Bracket: &bracket}, nil
	}
	if sa == sb {
		return Result{}, errors.Wrap(ErrNoBracket, "bisection requires opposite signs at endpoints")
	}

	lo, hi := a, b
	vlo := va
	it := 0
	for it < maxIter && (hi-lo) > tolDays {
		mid := (lo + hi) / 2.0
		vm, _ := f(mid)
		sm := sign(vm)
		if sm == 0 {
			return Result{Root: mid, Method: "bisection", Iterations: it + 1, Bracket: &bracket}, nil
		}
		if sm == sign(vlo) {
			lo, vlo = mid, vm
		} else {
			hi = mid
		}
		it++
	}
	return Result{Root: (lo + hi) / 2.0, Method: "bisection", Iterations: it, Bracket: &bracket}, nil
}

// Newton performs speed-assisted Newton-Raphson starting from x0. If
// bracket is non-nil, each iterate is clamped into it. Returns
// ErrNonConvergence if the speed underflows below minSpeed or the
// iteration cap is reached without satisfying the tolerance.
func Newton(f ValueSpeedFunc, x0 float64, bracket *[2]float64, tolDays float64, maxIter int, minSpeed float64) (Result, error) {
	x := x0
	var a, b float64
	haveBracket := bracket != nil
	if haveBracket {
		a, b = bracket[0], bracket[1]
		if b < a {
			a, b = b, a
		}
		if x < a {
			x = a
		} else if x > b {
			x = b
		}
	}

	for it := 1; it <= maxIter; it++ {
		v, spd := f(x)
		if math.Abs(v) <= newtonValueTol {
			return Result{Root: x, Method: "newton", Iterations: it, Bracket: bracket}, nil
		}
		if math.Abs(spd) < minSpeed {
			return Result{}, errors.Wrap(ErrNonConvergence, "derivative too small (stationary or ill-conditioned)")
		}

		nx := x - v/spd
		if math.Abs(nx-x) <= tolDays {
			return Result{Root: nx, Method: "newton", Iterations: it, Bracket: bracket}, nil
		}
		if haveBracket {
			if nx < a {
				nx = a
			} else if nx > b {
				nx = b
			}
		}
		x = nx
	}
	return Result{}, errors.Wrap(ErrNonConvergence, "newton exceeded max iterations")
}

// Params configures Solve. The zero value selects the package
// defaults.
type Params struct {
	AccuracySeconds  float64
	ScanStepDays     float64
	NewtonMaxIter    int
	BisectionMaxIter int
	MinSpeed         float64
}

func (p Params) resolved() Params {
	if p.AccuracySeconds <= 0 {
		p.AccuracySeconds = DefaultAccuracySeconds
	}
	if p.ScanStepDays <= 0 {
		p.ScanStepDays = DefaultScanStepDays
	}
	if p.NewtonMaxIter <= 0 {
		p.NewtonMaxIter = DefaultNewtonMaxIter
	}
	if p.BisectionMaxIter <= 0 {
		p.BisectionMaxIter = DefaultBisectionMaxIter
	}
	if p.MinSpeed <= 0 {
		p.MinSpeed = DefaultMinSpeed
	}
	return p
}

// Solve is the hybrid driver: bracket, then speed-assisted Newton
// clamped to the bracket, falling back to bisection when Newton can't
// converge. The returned Result's Method records which path produced
// the root; Solve itself never returns a convergence error — a
// bisection result that didn't reach tolerance within its iteration
// cap is still returned, carrying its best midpoint, per spec.
func Solve(f ValueSpeedFunc, start, end float64, params Params) (Result, error) {
	p := params.resolved()
	tolDays := p.AccuracySeconds / 86400.0

	a, b, err := Bracket(f, start, end, p.ScanStepDays)
	if err != nil {
		return Result{}, err
	}
	if a == b {
		bracket := [2]float64{a, b}
		return Result{Root: a, Method: "bracket_hit", Bracket: &bracket}, nil
	}

	bracket := [2]float64{a, b}
	x0 := (a + b) / 2.0
	res, err := Newton(f, x0, &bracket, tolDays, p.NewtonMaxIter, p.MinSpeed)
	if err == nil {
		return res, nil
	}
	if errors.Cause(err) != ErrNonConvergence && errors.Cause(err) != ErrNoBracket {
		return Result{}, err
	}
	return Bisection(f, a, b, tolDays, p.BisectionMaxIter)
}
