package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Noise labels a point that is neither core nor within Eps of a core point.
const Noise = -1

// DBSCAN groups points connected through chains of core points.
//
// The neighborhood of a point is every point at Euclidean distance <= Eps,
// the point itself included. A point is core when its neighborhood holds at
// least MinSamples points, border when it is not core but lies in the
// neighborhood of a core point, and noise otherwise.
type DBSCAN struct {
	Eps        float64
	MinSamples int
}

// Fit returns one label per point: a cluster ID >= 0, or Noise.
// Clusters are numbered in order of their first core point, and a border
// point reachable from several clusters joins the first one to reach it,
// so labels are deterministic for a given input order.
func (d DBSCAN) Fit(points [][]float64) ([]int, error) {
	if d.Eps <= 0 {
		return nil, fmt.Errorf("eps must be positive, got %v", d.Eps)
	}
	if d.MinSamples < 1 {
		return nil, fmt.Errorf("min samples must be at least 1, got %d", d.MinSamples)
	}

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = Noise
	}
	if len(points) < d.MinSamples {
		return labels, nil
	}

	neighbors := d.neighborhoods(points)
	core := make([]bool, len(points))
	for i, n := range neighbors {
		core[i] = len(n) >= d.MinSamples
	}

	next := 0
	for i := range points {
		if !core[i] || labels[i] != Noise {
			continue
		}
		id := next
		next++

		labels[i] = id
		queue := []int{i}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			for _, q := range neighbors[p] {
				if labels[q] != Noise {
					continue
				}
				labels[q] = id
				if core[q] {
					queue = append(queue, q)
				}
			}
		}
	}
	return labels, nil
}

func (d DBSCAN) neighborhoods(points [][]float64) [][]int {
	n := make([][]int, len(points))
	for i := range points {
		for j := range points {
			if floats.Distance(points[i], points[j], 2) <= d.Eps {
				n[i] = append(n[i], j)
			}
		}
	}
	return n
}
