// Package modelselection provides data splitting and model evaluation
// utilities: k-fold splitters, train/test splits, cross-validation and
// exhaustive grid search.
package modelselection

import (
	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/core/tensor"
	"github.com/manabi-ml/manabi/pkg/errors"
)

// Fold holds the train and test row indices of one cross-validation fold.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates cross-validation folds from a dataset.
type Splitter interface {
	Split(X, y mat.Matrix) ([]Fold, error)
	NSplits() int
}

// KFold splits samples into k consecutive folds. Each fold is used once as
// the test set while the remaining k-1 folds form the training set.
type KFold struct {
	nSplits int
	shuffle bool
	seed    int64
}

// NewKFold creates a k-fold splitter. nSplits below 2 falls back to 5.
// With shuffle enabled the row order is permuted deterministically from seed
// before folding.
func NewKFold(nSplits int, shuffle bool, seed int64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{nSplits: nSplits, shuffle: shuffle, seed: seed}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.nSplits
}

// Split generates train/test indices for each fold. The first
// nSamples % nSplits folds receive one extra test sample.
func (kf *KFold) Split(X, _ mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	if nSamples < kf.nSplits {
		return nil, errors.NewValidationError("n_splits",
			"cannot exceed the number of samples", kf.nSplits)
	}

	indices := tensor.ARange(0, nSamples)
	if kf.shuffle {
		tensor.Shuffle(indices, kf.seed)
	}

	folds := make([]Fold, kf.nSplits)
	foldSize := nSamples / kf.nSplits
	remainder := nSamples % kf.nSplits

	start := 0
	for i := 0; i < kf.nSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, indices[start:start+testSize])

		train := make([]int, 0, nSamples-testSize)
		train = append(train, indices[:start]...)
		train = append(train, indices[start+testSize:]...)

		folds[i] = Fold{TrainIndices: train, TestIndices: test}
		start += testSize
	}

	return folds, nil
}

// StratifiedKFold splits samples into k folds preserving the class
// proportions of y in every fold.
type StratifiedKFold struct {
	nSplits int
	shuffle bool
	seed    int64
}

// NewStratifiedKFold creates a stratified k-fold splitter. nSplits below 2
// falls back to 5.
func NewStratifiedKFold(nSplits int, shuffle bool, seed int64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{nSplits: nSplits, shuffle: shuffle, seed: seed}
}

// NSplits returns the number of folds.
func (skf *StratifiedKFold) NSplits() int {
	return skf.nSplits
}

// Split generates stratified train/test indices for each fold. Per-fold
// class counts differ by at most one sample from each other.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]Fold, error) {
	nSamples, _ := X.Dims()
	ry, cy := y.Dims()
	if ry != nSamples {
		return nil, errors.NewDimensionError("StratifiedKFold.Split", nSamples, ry, 0)
	}
	if cy != 1 {
		return nil, errors.NewValueError("StratifiedKFold.Split", "y must be a column vector")
	}
	if nSamples < skf.nSplits {
		return nil, errors.NewValidationError("n_splits",
			"cannot exceed the number of samples", skf.nSplits)
	}

	// Group row indices by class, in the order classes first appear so the
	// result is deterministic.
	classOrder := make([]float64, 0)
	classIndices := make(map[float64][]int)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, seen := classIndices[label]; !seen {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}

	// A class with fewer members than folds would leave some folds without
	// a test sample of that class and, for small datasets, empty folds.
	for _, label := range classOrder {
		if len(classIndices[label]) < skf.nSplits {
			return nil, errors.NewValidationError("n_splits",
				"cannot exceed the member count of the smallest class", skf.nSplits)
		}
	}

	if skf.shuffle {
		for _, label := range classOrder {
			tensor.Shuffle(classIndices[label], skf.seed)
		}
	}

	folds := make([]Fold, skf.nSplits)

	// Deal each class's samples across folds round by round.
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.nSplits
		remainder := nClass % skf.nSplits

		pos := 0
		for i := 0; i < skf.nSplits; i++ {
			take := foldSize
			if i < remainder {
				take++
			}
			folds[i].TestIndices = append(folds[i].TestIndices, indices[pos:pos+take]...)
			pos += take
		}
	}

	for i := range folds {
		inTest := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			inTest[idx] = true
		}
		folds[i].TrainIndices = make([]int, 0, nSamples-len(folds[i].TestIndices))
		for j := 0; j < nSamples; j++ {
			if !inTest[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds, nil
}
