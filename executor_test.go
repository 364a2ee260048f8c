package zne

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestObservables(t *testing.T) {
	Convey("Given a measurement result", t, func(c C) {
		Convey("GroundStateProjector reads the all-zeros outcome", func(c C) {
			r := Result{
				Probabilities: map[string]float64{"00": 0.7, "11": 0.3},
				NumQubits:     2,
			}
			v, err := GroundStateProjector(r)
			c.So(err, ShouldBeNil)
			c.So(v, ShouldAlmostEqual, 0.7, 1e-12)
		})

		Convey("GroundStateProjector infers width from the outcomes", func(c C) {
			r := Result{Probabilities: map[string]float64{"000": 1.0}}
			v, err := GroundStateProjector(r)
			c.So(err, ShouldBeNil)
			c.So(v, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("ZParity signs outcomes by their parity", func(c C) {
			r := Result{
				Probabilities: map[string]float64{"00": 0.5, "01": 0.25, "10": 0.25},
				NumQubits:     2,
			}
			v, err := ZParity(r)
			c.So(err, ShouldBeNil)
			c.So(v, ShouldAlmostEqual, 0.0, 1e-12)
		})

		Convey("ZParity rejects malformed outcomes", func(c C) {
			r := Result{Probabilities: map[string]float64{"0x": 1.0}}
			_, err := ZParity(r)
			c.So(err, ShouldNotBeNil)
		})
	})
}

func TestBackendExecutorConfig(t *testing.T) {
	Convey("Given a config-driven executor", t, func(c C) {
		ctx := context.Background()
		circ, err := Build(1, H(0))
		So(err, ShouldBeNil)

		shotsSeen := 0
		obs := func(r Result) (float64, error) {
			shotsSeen = r.Shots
			return GroundStateProjector(r)
		}

		Convey("A nil config falls back to the default shot budget", func(c C) {
			exec := NewBackendExecutorWithConfig(NewSampledBackend(nil, 9), obs, nil)
			_, err := exec.Run(ctx, circ)
			c.So(err, ShouldBeNil)
			c.So(shotsSeen, ShouldEqual, NewConfig().Shots)
		})

		Convey("A custom shot budget is passed through", func(c C) {
			config := NewConfig()
			config.Shots = 64
			exec := NewBackendExecutorWithConfig(NewSampledBackend(nil, 9), obs, config)
			_, err := exec.Run(ctx, circ)
			c.So(err, ShouldBeNil)
			c.So(shotsSeen, ShouldEqual, 64)
		})
	})
}

func TestEstimateWithError(t *testing.T) {
	Convey("Given a shot-limited executor", t, func(c C) {
		ctx := context.Background()
		circ, err := Build(1, H(0))
		So(err, ShouldBeNil)

		backend := NewSampledBackend(nil, 23)
		exec := NewBackendExecutor(backend, GroundStateProjector, 200)

		Convey("The mean estimate converges with its standard error", func(c C) {
			mean, stderr, err := EstimateWithError(ctx, exec, circ, 20)
			c.So(err, ShouldBeNil)
			c.So(mean, ShouldAlmostEqual, 0.5, 0.05)
			c.So(stderr, ShouldBeGreaterThan, 0)
			c.So(stderr, ShouldBeLessThan, 0.05)
		})

		Convey("Executor failures cut the estimate short", func(c C) {
			boom := errors.New("session expired")
			failing := ExecutorFunc(func(ctx context.Context, c *Circuit) (float64, error) {
				return 0, boom
			})
			_, _, err := EstimateWithError(ctx, failing, circ, 5)
			c.So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}
