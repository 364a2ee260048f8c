package zne

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// LinearFactory extrapolates with a straight-line fit. Robust and the
// usual first choice when the noise response is unknown.
type LinearFactory struct {
	factoryBase
}

func NewLinearFactory(scaleFactors []float64) *LinearFactory {
	return &LinearFactory{factoryBase: newFactoryBase(scaleFactors)}
}

func (f *LinearFactory) Extrapolate(scales, values []float64) (FitResult, error) {
	return polyExtrapolate(scales, values, 1)
}

func (f *LinearFactory) Reduce() (FitResult, error) {
	scales, values := f.Samples()
	return f.Extrapolate(scales, values)
}

// PolyFactory extrapolates with a least-squares polynomial of fixed
// order.
type PolyFactory struct {
	factoryBase
	order int
}

func NewPolyFactory(scaleFactors []float64, order int) *PolyFactory {
	if order < 1 {
		order = 1
	}
	return &PolyFactory{factoryBase: newFactoryBase(scaleFactors), order: order}
}

func (f *PolyFactory) Extrapolate(scales, values []float64) (FitResult, error) {
	return polyExtrapolate(scales, values, f.order)
}

func (f *PolyFactory) Reduce() (FitResult, error) {
	scales, values := f.Samples()
	return f.Extrapolate(scales, values)
}

/*
RichardsonFactory implements Richardson extrapolation: the unique
polynomial of order n-1 through all n samples, evaluated at zero. It
cancels error terms order by order, at the price of amplifying sample
noise, so it pairs best with exact or high-shot expectation values.
*/
type RichardsonFactory struct {
	factoryBase
}

func NewRichardsonFactory(scaleFactors []float64) *RichardsonFactory {
	return &RichardsonFactory{factoryBase: newFactoryBase(scaleFactors)}
}

func (f *RichardsonFactory) Extrapolate(scales, values []float64) (FitResult, error) {
	if len(scales) < 2 {
		return FitResult{}, fmt.Errorf("richardson needs at least 2 samples, have %d: %w", len(scales), ErrTooFewSamples)
	}
	return polyExtrapolate(scales, values, len(scales)-1)
}

func (f *RichardsonFactory) Reduce() (FitResult, error) {
	scales, values := f.Samples()
	return f.Extrapolate(scales, values)
}

/*
ExpFactory fits y = a + b·exp(-c·λ). With a known asymptote a (for
example 1/2ⁿ for a maximally mixed limit) the fit reduces to a linear
regression in log space; with a free asymptote the three parameters
are found by direct least squares.
*/
type ExpFactory struct {
	factoryBase
	asymptote    float64
	hasAsymptote bool
}

func NewExpFactory(scaleFactors []float64) *ExpFactory {
	return &ExpFactory{factoryBase: newFactoryBase(scaleFactors)}
}

func NewExpFactoryWithAsymptote(scaleFactors []float64, asymptote float64) *ExpFactory {
	return &ExpFactory{
		factoryBase:  newFactoryBase(scaleFactors),
		asymptote:    asymptote,
		hasAsymptote: true,
	}
}

func (f *ExpFactory) Extrapolate(scales, values []float64) (FitResult, error) {
	if len(scales) != len(values) {
		return FitResult{}, fmt.Errorf("exp fit: %w", ErrShapeMismatch)
	}
	if f.hasAsymptote {
		return expExtrapolateKnown(scales, values, f.asymptote)
	}
	return expExtrapolateFree(scales, values)
}

func (f *ExpFactory) Reduce() (FitResult, error) {
	scales, values := f.Samples()
	return f.Extrapolate(scales, values)
}

// polyExtrapolate fits a least-squares polynomial of the given order
// through the samples and evaluates it at scale zero.
func polyExtrapolate(scales, values []float64, order int) (FitResult, error) {
	if len(scales) != len(values) {
		return FitResult{}, fmt.Errorf("poly fit order %d: %w", order, ErrShapeMismatch)
	}
	if len(scales) < order+1 {
		return FitResult{}, fmt.Errorf("poly fit order %d needs %d samples, have %d: %w",
			order, order+1, len(scales), ErrTooFewSamples)
	}

	m, n := len(scales), order+1
	a := mat.NewDense(m, n, nil)
	for i, x := range scales {
		v := 1.0
		for j := 0; j < n; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}
	b := mat.NewDense(m, 1, append([]float64(nil), values...))

	var qr mat.QR
	qr.Factorize(a)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return FitResult{}, fmt.Errorf("poly fit order %d: %w", order, err)
	}
	coeffs := mat.Col(nil, 0, &beta)

	curve := func(x float64) float64 {
		y := 0.0
		for j := len(coeffs) - 1; j >= 0; j-- {
			y = y*x + coeffs[j]
		}
		return y
	}

	return FitResult{
		ZeroNoise: coeffs[0],
		Params:    coeffs,
		Residual:  residual(curve, scales, values),
		Curve:     curve,
	}, nil
}

// expExtrapolateKnown fits the exponential model with a fixed
// asymptote by linear regression on ln|y - a|.
func expExtrapolateKnown(scales, values []float64, asymptote float64) (FitResult, error) {
	if len(scales) < 2 {
		return FitResult{}, fmt.Errorf("exp fit with known asymptote needs 2 samples, have %d: %w",
			len(scales), ErrTooFewSamples)
	}

	sign := 0.0
	logs := make([]float64, len(values))
	for i, v := range values {
		diff := v - asymptote
		s := math.Copysign(1, diff)
		if diff == 0 || (sign != 0 && s != sign) {
			return FitResult{}, fmt.Errorf("exp fit: sample %d value %v vs asymptote %v: %w",
				i, v, asymptote, ErrBadAsymptote)
		}
		sign = s
		logs[i] = math.Log(math.Abs(diff))
	}

	line, err := polyExtrapolate(scales, logs, 1)
	if err != nil {
		return FitResult{}, err
	}
	b := sign * math.Exp(line.Params[0])
	c := -line.Params[1]

	curve := func(x float64) float64 {
		return asymptote + b*math.Exp(-c*x)
	}
	return FitResult{
		ZeroNoise: asymptote + b,
		Params:    []float64{asymptote, b, c},
		Residual:  residual(curve, scales, values),
		Curve:     curve,
	}, nil
}

// expExtrapolateFree fits all three parameters of the exponential
// model with Nelder-Mead on the sum of squared residuals.
func expExtrapolateFree(scales, values []float64) (FitResult, error) {
	if len(scales) < 3 {
		return FitResult{}, fmt.Errorf("exp fit with free asymptote needs 3 samples, have %d: %w",
			len(scales), ErrTooFewSamples)
	}

	sse := func(p []float64) float64 {
		a, b, c := p[0], p[1], p[2]
		total := 0.0
		for i, x := range scales {
			r := values[i] - (a + b*math.Exp(-c*x))
			total += r * r
		}
		return total
	}

	// Start from the largest-scale sample as the asymptote guess and a
	// unit decay rate.
	last := values[len(values)-1]
	init := []float64{last, values[0] - last, 1.0}

	result, err := optimize.Minimize(optimize.Problem{Func: sse}, init, nil, &optimize.NelderMead{})
	if err != nil {
		return FitResult{}, fmt.Errorf("exp fit: %w", err)
	}
	a, b, c := result.X[0], result.X[1], result.X[2]

	curve := func(x float64) float64 {
		return a + b*math.Exp(-c*x)
	}
	return FitResult{
		ZeroNoise: a + b,
		Params:    []float64{a, b, c},
		Residual:  residual(curve, scales, values),
		Curve:     curve,
	}, nil
}

func residual(curve func(float64) float64, scales, values []float64) float64 {
	pred := make([]float64, len(scales))
	for i, x := range scales {
		pred[i] = curve(x)
	}
	return floats.Distance(pred, values, 2)
}
