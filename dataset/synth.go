package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/pkg/errors"
)

// MakeBlobs generates isotropic Gaussian clusters around the given centers.
// nSamples is distributed as evenly as possible across centers; the label of
// each sample is the index of its center. Generation is deterministic for a
// given seed.
func MakeBlobs(nSamples int, centers [][]float64, std float64, seed int64) (X, y *mat.Dense, err error) {
	if nSamples < 1 {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least 1", nSamples)
	}
	if len(centers) == 0 {
		return nil, nil, errors.NewValueError("MakeBlobs", "at least one center is required")
	}
	if std < 0 {
		return nil, nil, errors.NewValidationError("std", "must not be negative", std)
	}

	nFeatures := len(centers[0])
	for i, c := range centers {
		if len(c) != nFeatures {
			return nil, nil, errors.NewDimensionError("MakeBlobs", nFeatures, len(c), i)
		}
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	X = mat.NewDense(nSamples, nFeatures, nil)
	y = mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		c := i % len(centers)
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, centers[c][j]+r.NormFloat64()*std)
		}
		y.Set(i, 0, float64(c))
	}

	return X, y, nil
}

// MakeRegression generates a random linear regression problem
// y = X*w + noise, with features and coefficients drawn uniformly from
// [-1, 1). Generation is deterministic for a given seed.
func MakeRegression(nSamples, nFeatures int, noise float64, seed int64) (X, y *mat.Dense, err error) {
	if nSamples < 1 {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least 1", nSamples)
	}
	if nFeatures < 1 {
		return nil, nil, errors.NewValidationError("n_features", "must be at least 1", nFeatures)
	}
	if noise < 0 {
		return nil, nil, errors.NewValidationError("noise", "must not be negative", noise)
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	coef := make([]float64, nFeatures)
	for j := range coef {
		coef[j] = 2*r.Float64() - 1
	}

	X = mat.NewDense(nSamples, nFeatures, nil)
	y = mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		var target float64
		for j := 0; j < nFeatures; j++ {
			v := 2*r.Float64() - 1
			X.Set(i, j, v)
			target += coef[j] * v
		}
		y.Set(i, 0, target+r.NormFloat64()*noise)
	}

	return X, y, nil
}
