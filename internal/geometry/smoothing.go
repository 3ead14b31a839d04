package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// #region moving-average
// MovingAverage is a bounded FIFO mean over the most recent values.
type MovingAverage struct {
	size   int
	values []float64
}

// NewMovingAverage returns a smoother over the last size values (minimum 1).
func NewMovingAverage(size int) *MovingAverage {
	if size < 1 {
		size = 1
	}
	return &MovingAverage{size: size, values: make([]float64, 0, size)}
}

// Add pushes v, evicting the oldest value beyond capacity, and returns the current mean.
func (m *MovingAverage) Add(v float64) float64 {
	if len(m.values) == m.size {
		copy(m.values, m.values[1:])
		m.values = m.values[:m.size-1]
	}
	m.values = append(m.values, v)
	return floats.Sum(m.values) / float64(len(m.values))
}

// Mean returns the current mean, or NaN and false when empty.
func (m *MovingAverage) Mean() (float64, bool) {
	if len(m.values) == 0 {
		return math.NaN(), false
	}
	return floats.Sum(m.values) / float64(len(m.values)), true
}

// Len returns the number of buffered values.
func (m *MovingAverage) Len() int { return len(m.values) }

// Reset clears the window.
func (m *MovingAverage) Reset() { m.values = m.values[:0] }

// #endregion moving-average
