package zne

import "errors"

// Sentinel errors returned by the mitigation pipeline. They are wrapped
// with context at the call site, so match with errors.Is.
var (
	// ErrInvalidScaleFactor is returned when a noise scale factor below
	// 1.0 is requested. Scale factor 1.0 is the unscaled circuit; there
	// is no way to reduce noise below the physical baseline by folding.
	ErrInvalidScaleFactor = errors.New("scale factor must be >= 1")

	// ErrTooFewSamples is returned when a factory is asked to fit a
	// model with more degrees of freedom than recorded samples.
	ErrTooFewSamples = errors.New("not enough samples for the requested fit")

	// ErrQubitRange is returned when a gate targets a qubit outside the
	// circuit's register.
	ErrQubitRange = errors.New("gate targets qubit outside circuit range")

	// ErrShapeMismatch is returned when scale factors and expectation
	// values have different lengths.
	ErrShapeMismatch = errors.New("scale factors and expectation values differ in length")

	// ErrBadAsymptote is returned by the exponential factory when the
	// samples do not stay on one side of the configured asymptote, so
	// the log transform is undefined.
	ErrBadAsymptote = errors.New("samples cross the configured asymptote")
)
