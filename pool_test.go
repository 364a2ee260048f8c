package zne

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBatchPool(t *testing.T) {
	Convey("Given a pool over a counting executor", t, func(c C) {
		ctx := context.Background()
		exec := ExecutorFunc(func(ctx context.Context, circ *Circuit) (float64, error) {
			return float64(circ.GateCount()), nil
		})
		pool := NewBatchPool(exec, 4, nil)

		circuits := make([]*Circuit, 8)
		for i := range circuits {
			circ := NewCircuit(1)
			for g := 0; g <= i; g++ {
				So(circ.Append(X(0)), ShouldBeNil)
			}
			circuits[i] = circ
		}

		Convey("When running a batch", func(c C) {
			values, err := pool.RunBatch(ctx, circuits)
			c.So(err, ShouldBeNil)
			c.So(values, ShouldHaveLength, 8)
			for i, v := range values {
				c.So(v, ShouldEqual, float64(i+1))
			}

			snap := pool.Metrics()
			c.So(snap.CircuitCount, ShouldEqual, 8)
			c.So(snap.Failures, ShouldEqual, 0)
			c.So(snap.MaxCircuitTime, ShouldBeGreaterThanOrEqualTo, pool.metrics.AverageCircuitTime())
		})

		Convey("When running a single circuit", func(c C) {
			v, err := pool.Run(ctx, circuits[2])
			c.So(err, ShouldBeNil)
			c.So(v, ShouldEqual, 3.0)
		})

		Convey("When the batch is empty", func(c C) {
			values, err := pool.RunBatch(ctx, nil)
			c.So(err, ShouldBeNil)
			c.So(values, ShouldBeEmpty)
		})
	})
}

func TestBatchPoolFailure(t *testing.T) {
	Convey("Given an executor that fails on long circuits", t, func(c C) {
		ctx := context.Background()
		boom := errors.New("device offline")
		exec := ExecutorFunc(func(ctx context.Context, circ *Circuit) (float64, error) {
			if circ.GateCount() > 3 {
				return 0, boom
			}
			return 1.0, nil
		})
		pool := NewBatchPool(exec, 2, nil)

		short, _ := Build(1, X(0))
		long := NewCircuit(1)
		for i := 0; i < 5; i++ {
			So(long.Append(X(0)), ShouldBeNil)
		}

		Convey("The failure surfaces and no values are returned", func(c C) {
			values, err := pool.RunBatch(ctx, []*Circuit{short, long, short})
			c.So(errors.Is(err, boom), ShouldBeTrue)
			c.So(values, ShouldBeNil)
		})
	})
}

func TestBatchPoolTimeout(t *testing.T) {
	Convey("Given a pool with a short scheduling deadline", t, func(c C) {
		config := NewConfig()
		config.SchedulingTimeout = time.Millisecond

		exec := ExecutorFunc(func(ctx context.Context, circ *Circuit) (float64, error) {
			select {
			case <-time.After(100 * time.Millisecond):
				return 1.0, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		})
		pool := NewBatchPool(exec, 1, config)

		circ, _ := Build(1, X(0))

		Convey("A batch slower than the deadline fails", func(c C) {
			_, err := pool.RunBatch(context.Background(), []*Circuit{circ, circ})
			c.So(err, ShouldNotBeNil)
		})
	})
}

func TestRunMetrics(t *testing.T) {
	Convey("Given recorded executions", t, func(c C) {
		m := newRunMetrics()
		m.recordExecution(time.Now().Add(-20*time.Millisecond), true)
		m.recordExecution(time.Now().Add(-10*time.Millisecond), false)

		snap := m.Snapshot()
		c.So(snap.CircuitCount, ShouldEqual, 2)
		c.So(snap.Failures, ShouldEqual, 1)

		Convey("The average sits between zero and the maximum", func(c C) {
			avg := m.AverageCircuitTime()
			c.So(avg, ShouldBeGreaterThan, 0)
			c.So(avg, ShouldBeLessThanOrEqualTo, snap.MaxCircuitTime)
			c.So(float64(snap.TotalRunTime), ShouldAlmostEqual, 2*float64(avg), float64(time.Millisecond))
		})
	})
}

func TestBatchPoolCancellation(t *testing.T) {
	Convey("Given an already-canceled context", t, func(c C) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		exec := ExecutorFunc(func(ctx context.Context, circ *Circuit) (float64, error) {
			return 1.0, nil
		})
		pool := NewBatchPool(exec, 2, nil)

		circ, _ := Build(1, X(0))
		_, err := pool.RunBatch(ctx, []*Circuit{circ, circ})
		c.So(err, ShouldNotBeNil)
	})
}
