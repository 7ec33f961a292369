package neighbors

import (
	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/core/model"
	"github.com/manabi-ml/manabi/core/tensor"
	"github.com/manabi-ml/manabi/metrics"
	"github.com/manabi-ml/manabi/pkg/errors"
)

// KNeighborsRegressor predicts the target of a sample as the (optionally
// distance-weighted) mean of its k nearest training samples' targets.
type KNeighborsRegressor struct {
	model.BaseEstimator
	searcher
}

// NewKNeighborsRegressor creates a regressor with the given options.
// Defaults: k=5, uniform weights, euclidean metric.
func NewKNeighborsRegressor(opts ...Option) *KNeighborsRegressor {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return &KNeighborsRegressor{searcher: searcher{params: p}}
}

// Fit stores the training data.
func (r *KNeighborsRegressor) Fit(X, y mat.Matrix) error {
	if err := r.searcher.fit("KNeighborsRegressor.Fit", X, y); err != nil {
		return err
	}
	r.SetFitted()
	return nil
}

// KNeighbors returns the distances to and indices of the k nearest training
// samples for each query row. k <= 0 uses the fitted n_neighbors.
func (r *KNeighborsRegressor) KNeighbors(X mat.Matrix, k int) (*mat.Dense, *mat.Dense, error) {
	if !r.IsFitted() {
		return nil, nil, errors.NewNotFittedError("KNeighborsRegressor", "KNeighbors")
	}
	if k <= 0 {
		k = r.k
	}
	return r.kneighbors("KNeighborsRegressor.KNeighbors", X, k)
}

// Predict returns the weighted mean neighbor target for each query row
// as an n×1 matrix.
func (r *KNeighborsRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsRegressor", "Predict")
	}

	distances, indices, err := r.kneighbors("KNeighborsRegressor.Predict", X, r.k)
	if err != nil {
		return nil, err
	}

	rows, _ := X.Dims()
	_, k := indices.Dims()
	predictions := mat.NewDense(rows, 1, nil)

	dists := make([]float64, k)
	for i := 0; i < rows; i++ {
		mat.Row(dists, i, distances)
		weights := r.neighborWeights(dists)

		var sum, total float64
		for j := 0; j < k; j++ {
			sum += weights[j] * r.yTrain.AtVec(int(indices.At(i, j)))
			total += weights[j]
		}
		predictions.Set(i, 0, sum/total)
	}

	return predictions, nil
}

// Score returns the coefficient of determination R^2 on the given test data.
func (r *KNeighborsRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError("KNeighborsRegressor", "Score")
	}

	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	yTrueVec, err := tensor.ToVec(y)
	if err != nil {
		return 0, err
	}
	yPredVec, err := tensor.ToVec(yPred)
	if err != nil {
		return 0, err
	}

	return metrics.R2Score(yTrueVec, yPredVec)
}
