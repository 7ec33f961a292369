// Package neighbors implements k-nearest neighbor estimators with a
// scikit-learn compatible API: a KNeighborsClassifier and a
// KNeighborsRegressor sharing a brute-force neighbor search.
package neighbors

import (
	"math"

	"github.com/manabi-ml/manabi/pkg/errors"
)

// Metric identifies the distance function used for neighbor search.
type Metric string

const (
	// Euclidean is the L2 distance (default).
	Euclidean Metric = "euclidean"
	// SquaredEuclidean skips the square root. Neighbor ordering is the
	// same as Euclidean but the reported distances are squared.
	SquaredEuclidean Metric = "sqeuclidean"
	// Manhattan is the L1 distance.
	Manhattan Metric = "manhattan"
	// Chebyshev is the L-infinity distance.
	Chebyshev Metric = "chebyshev"
	// Minkowski is the generalized Lp distance; p is configured with
	// WithMinkowskiP.
	Minkowski Metric = "minkowski"
)

// distanceFunc returns the distance kernel for metric. For Minkowski the
// exponent p must be >= 1.
func distanceFunc(metric Metric, p float64) (func(a, b []float64) float64, error) {
	switch metric {
	case Euclidean:
		return euclideanDistance, nil
	case SquaredEuclidean:
		return squaredEuclideanDistance, nil
	case Manhattan:
		return manhattanDistance, nil
	case Chebyshev:
		return chebyshevDistance, nil
	case Minkowski:
		if p < 1 {
			return nil, errors.NewValidationError("minkowski_p", "must be >= 1", p)
		}
		if p == 2 {
			return euclideanDistance, nil
		}
		if p == 1 {
			return manhattanDistance, nil
		}
		return func(a, b []float64) float64 {
			var sum float64
			for i := range a {
				sum += math.Pow(math.Abs(a[i]-b[i]), p)
			}
			return math.Pow(sum, 1/p)
		}, nil
	default:
		return nil, errors.NewValidationError("metric", "unknown distance metric", string(metric))
	}
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func squaredEuclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func manhattanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func chebyshevDistance(a, b []float64) float64 {
	var max float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > max {
			max = d
		}
	}
	return max
}
