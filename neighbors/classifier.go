package neighbors

import (
	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/core/model"
	"github.com/manabi-ml/manabi/core/tensor"
	"github.com/manabi-ml/manabi/metrics"
	"github.com/manabi-ml/manabi/pkg/errors"
)

// KNeighborsClassifier predicts the class of a sample by majority vote
// (optionally distance-weighted) among its k nearest training samples.
type KNeighborsClassifier struct {
	model.BaseEstimator
	searcher

	classes []float64
}

// NewKNeighborsClassifier creates a classifier with the given options.
// Defaults: k=5, uniform weights, euclidean metric.
//
// Example:
//
//	clf := neighbors.NewKNeighborsClassifier(
//	    neighbors.WithK(3),
//	    neighbors.WithWeights(neighbors.Distance),
//	)
func NewKNeighborsClassifier(opts ...Option) *KNeighborsClassifier {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return &KNeighborsClassifier{searcher: searcher{params: p}}
}

// Fit stores the training data. KNN is a lazy learner, so fitting only
// validates and copies the inputs.
func (c *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	if err := c.searcher.fit("KNeighborsClassifier.Fit", X, y); err != nil {
		return err
	}
	c.classes = tensor.Unique(y)
	c.SetFitted()
	return nil
}

// Classes returns the unique class labels seen during fitting.
func (c *KNeighborsClassifier) Classes() []float64 {
	return c.classes
}

// KNeighbors returns the distances to and indices of the k nearest training
// samples for each query row. k <= 0 uses the fitted n_neighbors.
func (c *KNeighborsClassifier) KNeighbors(X mat.Matrix, k int) (*mat.Dense, *mat.Dense, error) {
	if !c.IsFitted() {
		return nil, nil, errors.NewNotFittedError("KNeighborsClassifier", "KNeighbors")
	}
	if k <= 0 {
		k = c.k
	}
	return c.kneighbors("KNeighborsClassifier.KNeighbors", X, k)
}

// PredictProba returns, for each query row, the weighted vote share of
// every class in Classes() order.
func (c *KNeighborsClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", "PredictProba")
	}

	distances, indices, err := c.kneighbors("KNeighborsClassifier.PredictProba", X, c.k)
	if err != nil {
		return nil, err
	}

	classIndex := make(map[float64]int, len(c.classes))
	for i, label := range c.classes {
		classIndex[label] = i
	}

	rows, _ := X.Dims()
	_, k := indices.Dims()
	proba := mat.NewDense(rows, len(c.classes), nil)

	dists := make([]float64, k)
	for i := 0; i < rows; i++ {
		mat.Row(dists, i, distances)
		weights := c.neighborWeights(dists)

		var total float64
		for j := 0; j < k; j++ {
			label := c.yTrain.AtVec(int(indices.At(i, j)))
			proba.Set(i, classIndex[label], proba.At(i, classIndex[label])+weights[j])
			total += weights[j]
		}
		for j := range c.classes {
			proba.Set(i, j, proba.At(i, j)/total)
		}
	}

	return proba, nil
}

// Predict returns the majority class for each query row as an n×1 matrix.
// Ties resolve to the smallest class label.
func (c *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", "Predict")
	}

	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}

	rows, _ := proba.Dims()
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		best := 0
		for j := 1; j < len(c.classes); j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		predictions.Set(i, 0, c.classes[best])
	}

	return predictions, nil
}

// Score returns the mean accuracy on the given test data.
func (c *KNeighborsClassifier) Score(X, y mat.Matrix) (float64, error) {
	if !c.IsFitted() {
		return 0, errors.NewNotFittedError("KNeighborsClassifier", "Score")
	}

	yPred, err := c.Predict(X)
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

	return metrics.Accuracy(yTrueVec, yPredVec)
}
