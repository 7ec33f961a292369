package modelselection

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/core/tensor"
	"github.com/manabi-ml/manabi/pkg/errors"
	"github.com/manabi-ml/manabi/pkg/log"
)

// Estimator is the minimal surface cross-validation needs from a model.
// Both KNN estimators satisfy it.
type Estimator interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer evaluates predictions against ground truth. The metrics package
// functions (Accuracy, R2Score, MSE, ...) satisfy this signature.
type Scorer func(yTrue, yPred *mat.VecDense) (float64, error)

// CVResult stores per-fold cross-validation scores and timings.
type CVResult struct {
	TrainScores []float64
	TestScores  []float64
	FitSeconds  []float64
}

// GetMeanScore returns the mean test score across folds.
func (cv *CVResult) GetMeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, score := range cv.TestScores {
		sum += score
	}
	return sum / float64(len(cv.TestScores))
}

// GetStdScore returns the sample standard deviation of the test scores.
func (cv *CVResult) GetStdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0.0
	}
	mean := cv.GetMeanScore()
	sumSq := 0.0
	for _, score := range cv.TestScores {
		diff := score - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(cv.TestScores)-1))
}

// BestFold returns the index and score of the best-scoring fold.
// greaterIsBetter is true for score metrics and false for loss metrics.
func (cv *CVResult) BestFold(greaterIsBetter bool) (int, float64) {
	if len(cv.TestScores) == 0 {
		return -1, 0
	}
	best := 0
	for i, score := range cv.TestScores[1:] {
		if (greaterIsBetter && score > cv.TestScores[best]) ||
			(!greaterIsBetter && score < cv.TestScores[best]) {
			best = i + 1
		}
	}
	return best, cv.TestScores[best]
}

// CrossValidate evaluates the estimator produced by newEstimator on every
// fold of the splitter. Folds run concurrently, each on a fresh estimator.
// A panic inside a fold is converted to an error instead of taking down the
// whole run.
func CrossValidate(newEstimator func() Estimator, X, y mat.Matrix, splitter Splitter, scorer Scorer) (*CVResult, error) {
	if newEstimator == nil {
		return nil, errors.NewValueError("CrossValidate", "estimator factory must not be nil")
	}
	if scorer == nil {
		return nil, errors.NewValueError("CrossValidate", "scorer must not be nil")
	}

	folds, err := splitter.Split(X, y)
	if err != nil {
		return nil, err
	}
	nFolds := len(folds)

	logger := log.GetLogger().With(
		log.ComponentKey, "modelselection",
		log.OperationKey, "cross_validate",
		log.FoldsKey, nFolds,
	)

	result := &CVResult{
		TrainScores: make([]float64, nFolds),
		TestScores:  make([]float64, nFolds),
		FitSeconds:  make([]float64, nFolds),
	}

	var wg sync.WaitGroup
	foldErrs := make([]error, nFolds)

	for foldIdx := 0; foldIdx < nFolds; foldIdx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer errors.Recover(&foldErrs[idx], "CrossValidate.fold")

			fold := folds[idx]

			trainX, err := tensor.TakeRows(X, fold.TrainIndices)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d: extracting train rows", idx)
				return
			}
			trainY, err := tensor.TakeRows(y, fold.TrainIndices)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d: extracting train targets", idx)
				return
			}
			testX, err := tensor.TakeRows(X, fold.TestIndices)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d: extracting test rows", idx)
				return
			}
			testY, err := tensor.TakeRows(y, fold.TestIndices)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d: extracting test targets", idx)
				return
			}

			est := newEstimator()

			start := time.Now()
			if err := est.Fit(trainX, trainY); err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d: training failed", idx)
				return
			}
			result.FitSeconds[idx] = time.Since(start).Seconds()

			trainScore, err := scoreOn(est, trainX, trainY, scorer)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d: scoring train set", idx)
				return
			}
			result.TrainScores[idx] = trainScore

			testScore, err := scoreOn(est, testX, testY, scorer)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d: scoring test set", idx)
				return
			}
			result.TestScores[idx] = testScore

			logger.Debug("fold evaluated",
				log.FoldKey, idx,
				log.ScoreKey, testScore,
			)
		}(foldIdx)
	}

	wg.Wait()

	for _, err := range foldErrs {
		if err != nil {
			return nil, err
		}
	}

	logger.Info("cross-validation finished",
		log.ScoreKey, result.GetMeanScore(),
	)

	return result, nil
}

func scoreOn(est Estimator, X, y mat.Matrix, scorer Scorer) (float64, error) {
	pred, err := est.Predict(X)
	if err != nil {
		return 0, err
	}
	yVec, err := tensor.ToVec(y)
	if err != nil {
		return 0, err
	}
	predVec, err := tensor.ToVec(pred)
	if err != nil {
		return 0, err
	}
	return scorer(yVec, predVec)
}
