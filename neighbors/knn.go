package neighbors

import (
	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/core/parallel"
	"github.com/manabi-ml/manabi/core/tensor"
	"github.com/manabi-ml/manabi/pkg/errors"
)

// Queries with fewer rows than this are answered sequentially.
const parallelThreshold = 200

// searcher holds the fitted training set and answers brute-force neighbor
// queries. Both estimators embed it.
type searcher struct {
	params

	xTrain    *mat.Dense
	yTrain    *mat.VecDense
	nSamples  int
	nFeatures int

	dist func(a, b []float64) float64
}

// fit validates hyperparameters and input shapes and copies the training
// data. op names the calling estimator method for error messages.
func (s *searcher) fit(op string, X, y mat.Matrix) error {
	if s.k < 1 {
		return errors.NewValidationError("n_neighbors", "must be at least 1", s.k)
	}
	if s.weights != Uniform && s.weights != Distance {
		return errors.NewValidationError("weights", "must be \"uniform\" or \"distance\"", string(s.weights))
	}

	dist, err := distanceFunc(s.metric, s.minkowskiP)
	if err != nil {
		return err
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	ry, cy := y.Dims()
	if ry != r {
		return errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}

	s.dist = dist
	s.nSamples = r
	s.nFeatures = c

	s.xTrain = mat.NewDense(r, c, nil)
	s.xTrain.Copy(X)

	s.yTrain = mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		s.yTrain.SetVec(i, y.At(i, 0))
	}

	return nil
}

// kneighbors returns, for each query row, the distances to and indices of
// its k nearest training samples, ordered by increasing distance.
// k larger than the training set size is clamped with a NeighborCountWarning.
func (s *searcher) kneighbors(op string, X mat.Matrix, k int) (*mat.Dense, *mat.Dense, error) {
	if k < 1 {
		return nil, nil, errors.NewValidationError("n_neighbors", "must be at least 1", k)
	}

	rows, cols := X.Dims()
	if cols != s.nFeatures {
		return nil, nil, errors.NewDimensionError(op, s.nFeatures, cols, 1)
	}

	if k > s.nSamples {
		errors.Warn(errors.NewNeighborCountWarning(k, s.nSamples))
		k = s.nSamples
	}

	distances := mat.NewDense(rows, k, nil)
	indices := mat.NewDense(rows, k, nil)

	work := func(start, end int) {
		query := make([]float64, s.nFeatures)
		train := make([]float64, s.nFeatures)
		all := make([]float64, s.nSamples)

		for i := start; i < end; i++ {
			mat.Row(query, i, X)
			for j := 0; j < s.nSamples; j++ {
				mat.Row(train, j, s.xTrain)
				all[j] = s.dist(query, train)
			}

			order := tensor.ArgSort(all)
			for j := 0; j < k; j++ {
				distances.Set(i, j, all[order[j]])
				indices.Set(i, j, float64(order[j]))
			}
		}
	}

	if s.nJobs == 1 {
		work(0, rows)
	} else {
		parallel.ParallelizeWithThreshold(rows, parallelThreshold, work)
	}

	return distances, indices, nil
}

// neighborWeights converts one query row's neighbor distances into
// combination weights. With distance weighting, exact matches (zero
// distance) take all the weight.
func (s *searcher) neighborWeights(dists []float64) []float64 {
	w := make([]float64, len(dists))

	if s.weights == Uniform {
		for i := range w {
			w[i] = 1
		}
		return w
	}

	exact := false
	for _, d := range dists {
		if d == 0 {
			exact = true
			break
		}
	}
	if exact {
		for i, d := range dists {
			if d == 0 {
				w[i] = 1
			}
		}
		return w
	}

	for i, d := range dists {
		w[i] = 1 / d
	}
	return w
}

// GetParams returns the shared KNN hyperparameters.
func (s *searcher) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": s.k,
		"weights":     string(s.weights),
		"metric":      string(s.metric),
		"p":           s.minkowskiP,
		"n_jobs":      s.nJobs,
	}
}
