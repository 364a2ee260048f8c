package zne

import "sync"

// FitResult is the outcome of an extrapolation: the zero-noise
// estimate, the fitted model parameters, the residual norm of the fit,
// and the fitted curve itself for plotting or inspection.
type FitResult struct {
	ZeroNoise float64
	Params    []float64
	Residual  float64
	Curve     func(scale float64) float64
}

/*
Factory pairs a noise-scaling schedule with an extrapolation model.
Lifecycle: create, record one sample per scale factor, reduce to the
zero-noise estimate. Extrapolate is the stateless core of Reduce so a
factory can also be used on externally collected samples.
*/
type Factory interface {
	// ScaleFactors returns the schedule of noise scalings to measure.
	ScaleFactors() []float64

	// Record stores one (scale factor, expectation value) sample.
	Record(scale, value float64)

	// Reduce fits the recorded samples and extrapolates to scale 0.
	Reduce() (FitResult, error)

	// Extrapolate fits the given samples without touching recorded
	// state.
	Extrapolate(scales, values []float64) (FitResult, error)

	// Reset discards recorded samples so the factory can be reused.
	Reset()
}

// factoryBase carries the schedule and the sample accumulator shared
// by every factory implementation.
type factoryBase struct {
	scaleFactors []float64

	mu     sync.Mutex
	scales []float64
	values []float64
}

func newFactoryBase(scaleFactors []float64) factoryBase {
	if len(scaleFactors) == 0 {
		scaleFactors = DefaultScaleFactors
	}
	return factoryBase{
		scaleFactors: append([]float64(nil), scaleFactors...),
	}
}

func (f *factoryBase) ScaleFactors() []float64 {
	return append([]float64(nil), f.scaleFactors...)
}

func (f *factoryBase) Record(scale, value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scales = append(f.scales, scale)
	f.values = append(f.values, value)
}

func (f *factoryBase) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scales = nil
	f.values = nil
}

// Samples returns copies of the recorded scale factors and values.
func (f *factoryBase) Samples() (scales, values []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.scales...), append([]float64(nil), f.values...)
}
