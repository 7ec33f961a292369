// Package tensor provides small array helpers used throughout the library:
// index generation, seeded shuffling, fancy-index row slicing and
// elementwise transforms over gonum matrices.
package tensor

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/pkg/errors"
)

// ARange returns the integers [start, stop).
func ARange(start, stop int) []int {
	if stop <= start {
		return nil
	}
	out := make([]int, stop-start)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Linspace returns num evenly spaced values over [start, stop].
// num must be at least 2.
func Linspace(start, stop float64, num int) ([]float64, error) {
	if num < 2 {
		return nil, errors.NewValidationError("num", "must be at least 2", num)
	}
	out := make([]float64, num)
	step := (stop - start) / float64(num-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[num-1] = stop
	return out, nil
}

// Shuffle permutes indices in place with a PCG source seeded from seed.
// The same seed always yields the same permutation.
func Shuffle(indices []int, seed int64) {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

// TakeRows gathers the given rows of m into a new dense matrix.
// Row order follows the indices slice.
func TakeRows(m mat.Matrix, indices []int) (*mat.Dense, error) {
	if len(indices) == 0 {
		return nil, errors.NewValueError("tensor.TakeRows", "indices must not be empty")
	}
	rows, cols := m.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		if idx < 0 || idx >= rows {
			return nil, errors.NewValueError("tensor.TakeRows", "row index out of range")
		}
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(idx, j))
		}
	}
	return out, nil
}

// SplitColumn separates column target out of m, returning the remaining
// columns as features and the target column as an n×1 matrix.
func SplitColumn(m mat.Matrix, target int) (*mat.Dense, *mat.Dense, error) {
	rows, cols := m.Dims()
	if cols < 2 {
		return nil, nil, errors.NewValueError("tensor.SplitColumn", "need at least two columns")
	}
	if target < 0 || target >= cols {
		return nil, nil, errors.NewValueError("tensor.SplitColumn", "target column out of range")
	}

	X := mat.NewDense(rows, cols-1, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		k := 0
		for j := 0; j < cols; j++ {
			if j == target {
				y.Set(i, 0, m.At(i, j))
				continue
			}
			X.Set(i, k, m.At(i, j))
			k++
		}
	}
	return X, y, nil
}

// Apply returns a new matrix with fn applied to every element of m.
func Apply(m mat.Matrix, fn func(float64) float64) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, fn(m.At(i, j)))
		}
	}
	return out
}

// Reshape builds an r×c dense matrix from data, validating the element count.
func Reshape(data []float64, r, c int) (*mat.Dense, error) {
	if r <= 0 || c <= 0 {
		return nil, errors.NewValueError("tensor.Reshape", "dimensions must be positive")
	}
	if len(data) != r*c {
		return nil, errors.NewDimensionError("tensor.Reshape", r*c, len(data), 0)
	}
	return mat.NewDense(r, c, data), nil
}

// ArgSort returns the indices that would sort values ascending.
// The input slice is not modified. Ties keep their original order.
func ArgSort(values []float64) []int {
	indices := ARange(0, len(values))
	sort.SliceStable(indices, func(i, j int) bool {
		return values[indices[i]] < values[indices[j]]
	})
	return indices
}

// Unique returns the sorted distinct values of the first column of y.
func Unique(y mat.Matrix) []float64 {
	rows, _ := y.Dims()
	seen := make(map[float64]struct{}, rows)
	var out []float64
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// ToVec converts an n×1 matrix to a VecDense.
func ToVec(m mat.Matrix) (*mat.VecDense, error) {
	rows, cols := m.Dims()
	if cols != 1 {
		return nil, errors.NewValueError("tensor.ToVec", "must be a column vector (n×1 matrix)")
	}
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
