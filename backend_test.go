package zne

import (
	"context"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStatevectorBackend(t *testing.T) {
	Convey("Given an exact backend", t, func(c C) {
		backend := NewStatevectorBackend()
		ctx := context.Background()

		Convey("When running a Bell circuit", func(c C) {
			circ, err := Build(2, H(0), CNOT(0, 1))
			c.So(err, ShouldBeNil)

			res, err := backend.Run(ctx, circ, 0)
			c.So(err, ShouldBeNil)
			c.So(res.Shots, ShouldEqual, 0)
			c.So(res.NumQubits, ShouldEqual, 2)
			c.So(res.Probabilities["00"], ShouldAlmostEqual, 0.5, 1e-9)
			c.So(res.Probabilities["11"], ShouldAlmostEqual, 0.5, 1e-9)
			c.So(res.Probabilities, ShouldHaveLength, 2)
		})

		Convey("When the context is already canceled", func(c C) {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			circ, _ := Build(1, X(0))
			_, err := backend.Run(canceled, circ, 0)
			c.So(err, ShouldNotBeNil)
		})
	})
}

func TestSampledBackend(t *testing.T) {
	Convey("Given a sampled backend", t, func(c C) {
		ctx := context.Background()

		Convey("Without noise and without shots it matches the exact backend", func(c C) {
			circ, err := Build(2, H(0), CNOT(0, 1))
			c.So(err, ShouldBeNil)

			res, err := NewSampledBackend(nil, 1).Run(ctx, circ, 0)
			c.So(err, ShouldBeNil)
			c.So(res.Probabilities["00"], ShouldAlmostEqual, 0.5, 1e-9)
			c.So(res.Probabilities["11"], ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("With shots the estimate converges on the distribution", func(c C) {
			circ, err := Build(1, H(0))
			c.So(err, ShouldBeNil)

			res, err := NewSampledBackend(nil, 42).Run(ctx, circ, 10000)
			c.So(err, ShouldBeNil)
			c.So(res.Shots, ShouldEqual, 10000)

			total := 0.0
			for _, p := range res.Probabilities {
				total += p
			}
			c.So(total, ShouldAlmostEqual, 1.0, 1e-9)
			c.So(res.Probabilities["0"], ShouldAlmostEqual, 0.5, 0.05)
		})

		Convey("With depolarizing noise the signal decays with gate count", func(c C) {
			noise := NewDepolarizingNoise(0.01)
			backend := NewSampledBackend(noise, 3)

			survival := func(gates int) float64 {
				circ := NewCircuit(1)
				for i := 0; i < gates; i++ {
					c.So(circ.Append(X(0)), ShouldBeNil)
				}
				res, err := backend.Run(ctx, circ, 0)
				c.So(err, ShouldBeNil)
				v, err := GroundStateProjector(res)
				c.So(err, ShouldBeNil)
				return v
			}

			short := survival(10)
			long := survival(30)

			// s + (1-s)/2 with s = 0.99^gates for the identity circuit.
			c.So(short, ShouldAlmostEqual, noiseExpected(10), 1e-9)
			c.So(long, ShouldAlmostEqual, noiseExpected(30), 1e-9)
			c.So(long, ShouldBeLessThan, short)
		})
	})
}

func noiseExpected(gates int) float64 {
	s := math.Pow(0.99, float64(gates))
	return s + (1-s)/2
}

func TestDepolarizingNoise(t *testing.T) {
	Convey("Given a noise model", t, func(c C) {
		noise := NewDepolarizingNoise(0.01)

		Convey("Two-qubit gates hit harder", func(c C) {
			single, _ := Build(2, X(0))
			pair, _ := Build(2, CNOT(0, 1))
			c.So(noise.Survival(pair), ShouldBeLessThan, noise.Survival(single))
		})

		Convey("Mixing preserves normalization", func(c C) {
			circ, _ := Build(1, X(0), X(0))
			mixed := noise.Mix([]float64{1, 0}, circ)
			c.So(mixed[0]+mixed[1], ShouldAlmostEqual, 1.0, 1e-12)
			c.So(mixed[1], ShouldBeGreaterThan, 0)
		})
	})
}
