// Package stats keeps running statistics over a stream of values.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic accumulates mean and variance in one pass (Welford), plus the
// extremes seen.
type Statistic struct {
	n    int
	last float64
	min  float64
	max  float64

	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	if s.n == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min = val
		s.max = val
		return
	}
	s.newM = s.oldM + (val-s.oldM)/float64(s.n)
	s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
	s.oldM = s.newM
	s.oldS = s.newS
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

func (s *Statistic) Mean() float64 {
	if s.n > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.newS / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Iterations() int {
	return s.n
}

// ConfidenceInterval returns the bounds of the two-tailed interval around
// the mean at the given confidence, in percent (e.g. 95).
func (s *Statistic) ConfidenceInterval(confidence float64) (float64, float64) {
	half := ZVal(confidence) * s.StandardError()
	return s.Mean() - half, s.Mean() + half
}

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ZVal returns the two-tailed z-value for a confidence level in percent.
func ZVal(confidence float64) float64 {
	return standardNormal.Quantile((1 + confidence/100) / 2)
}
