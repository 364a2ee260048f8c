package zne

import "time"

// DefaultScaleFactors is the noise-scaling schedule used when no
// factory is supplied.
var DefaultScaleFactors = []float64{1.0, 1.5, 2.0, 2.5, 3.0}

type Config struct {
	ScaleFactors      []float64
	Shots             int
	SchedulingTimeout time.Duration
}

func NewConfig() *Config {
	return &Config{
		ScaleFactors:      append([]float64(nil), DefaultScaleFactors...),
		Shots:             1024,
		SchedulingTimeout: 10 * time.Second,
	}
}
