// Package cluster implements feature standardization and density-based
// clustering (DBSCAN) over small dense point sets.
package cluster

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrNonFinite is returned for feature matrices holding NaN or Inf values.
var ErrNonFinite = errors.New("non-finite feature value")

const flatTolerance = 1e-12

// Scaler holds the per-column statistics of one standardization pass.
type Scaler struct {
	Mean   []float64
	StdDev []float64 // population standard deviation
}

// Standardize rescales every column of points to zero mean and unit
// population variance. Columns with zero variance are mapped to 0 so they
// contribute nothing to distances. points must be rectangular; it is not modified.
func Standardize(points [][]float64) ([][]float64, *Scaler, error) {
	if len(points) == 0 {
		return nil, &Scaler{}, nil
	}
	dims := len(points[0])
	for i, p := range points {
		if len(p) != dims {
			return nil, nil, fmt.Errorf("point %d has %d features, want %d", i, len(p), dims)
		}
		for j, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, fmt.Errorf("point %d feature %d: %w", i, j, ErrNonFinite)
			}
		}
	}

	sc := &Scaler{Mean: make([]float64, dims), StdDev: make([]float64, dims)}
	col := make([]float64, len(points))
	for j := 0; j < dims; j++ {
		for i, p := range points {
			col[i] = p[j]
		}
		sc.Mean[j], sc.StdDev[j] = stat.PopMeanStdDev(col, nil)
		// Rounding in the mean leaves a tiny spread on constant columns.
		if sc.StdDev[j] <= flatTolerance*math.Max(1, math.Abs(sc.Mean[j])) {
			sc.StdDev[j] = 0
		}
	}

	scaled := make([][]float64, len(points))
	for i, p := range points {
		scaled[i] = sc.Transform(p)
	}
	return scaled, sc, nil
}

// Transform standardizes a single point with the stored statistics.
func (s *Scaler) Transform(p []float64) []float64 {
	out := make([]float64, len(p))
	for j, v := range p {
		if s.StdDev[j] == 0 {
			continue
		}
		out[j] = (v - s.Mean[j]) / s.StdDev[j]
	}
	return out
}
