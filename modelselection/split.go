package modelselection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/core/tensor"
	"github.com/manabi-ml/manabi/pkg/errors"
)

// TrainTestSplit shuffles the rows of X and y deterministically from seed
// and splits them into train and test partitions. testSize is the fraction
// of samples assigned to the test set, exclusive between 0 and 1. The test
// set always receives at least one sample, and so does the train set.
func TrainTestSplit(X, y mat.Matrix, testSize float64, seed int64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("test_size",
			"must be strictly between 0 and 1", testSize)
	}

	nSamples, _ := X.Dims()
	ry, _ := y.Dims()
	if ry != nSamples {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", nSamples, ry, 0)
	}
	if nSamples < 2 {
		return nil, nil, nil, nil, errors.NewModelError("TrainTestSplit",
			"need at least 2 samples to split", errors.ErrEmptyData)
	}

	nTest := int(math.Round(float64(nSamples) * testSize))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= nSamples {
		nTest = nSamples - 1
	}

	indices := tensor.ARange(0, nSamples)
	tensor.Shuffle(indices, seed)

	testIdx := indices[:nTest]
	trainIdx := indices[nTest:]

	if XTrain, err = tensor.TakeRows(X, trainIdx); err != nil {
		return nil, nil, nil, nil, err
	}
	if XTest, err = tensor.TakeRows(X, testIdx); err != nil {
		return nil, nil, nil, nil, err
	}
	if yTrain, err = tensor.TakeRows(y, trainIdx); err != nil {
		return nil, nil, nil, nil, err
	}
	if yTest, err = tensor.TakeRows(y, testIdx); err != nil {
		return nil, nil, nil, nil, err
	}

	return XTrain, XTest, yTrain, yTest, nil
}
