package preprocessing

import (
	"fmt"
	"sort"

	"github.com/manabi-ml/manabi/core/model"
	"github.com/manabi-ml/manabi/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LabelEncoder はscikit-learn互換のラベルエンコーダー
// 任意のラベル値を0..n_classes-1の連続したインデックスに変換する
type LabelEncoder struct {
	model.BaseEstimator

	// ClassLabels はソート済みのクラスラベル
	ClassLabels []float64

	// index はラベルからインデックスへの逆引き
	index map[float64]int
}

// NewLabelEncoder は新しいLabelEncoderを作成する
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit はラベル列からクラスを学習する
//
// パラメータ:
//   - y: ラベル列 (n_samples × 1 の行列)
func (le *LabelEncoder) Fit(y mat.Matrix) error {
	r, c := y.Dims()
	if r == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	if c != 1 {
		return errors.NewValueError("LabelEncoder.Fit", "y must be a column vector")
	}

	seen := make(map[float64]struct{}, r)
	for i := 0; i < r; i++ {
		seen[y.At(i, 0)] = struct{}{}
	}

	le.ClassLabels = make([]float64, 0, len(seen))
	for v := range seen {
		le.ClassLabels = append(le.ClassLabels, v)
	}
	sort.Float64s(le.ClassLabels)

	le.index = make(map[float64]int, len(le.ClassLabels))
	for i, v := range le.ClassLabels {
		le.index[v] = i
	}

	le.SetFitted()
	return nil
}

// Transform はラベルをクラスインデックスに変換する
// 未知のラベルが含まれる場合はエラーを返す
func (le *LabelEncoder) Transform(y mat.Matrix) (mat.Matrix, error) {
	if !le.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}

	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError("LabelEncoder.Transform", "y must be a column vector")
	}

	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		v := y.At(i, 0)
		idx, ok := le.index[v]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform", fmt.Sprintf("unseen label: %v", v))
		}
		result.Set(i, 0, float64(idx))
	}

	return result, nil
}

// FitTransform はFitとTransformを同時に実行する
func (le *LabelEncoder) FitTransform(y mat.Matrix) (mat.Matrix, error) {
	if err := le.Fit(y); err != nil {
		return nil, err
	}
	return le.Transform(y)
}

// InverseTransform はクラスインデックスを元のラベルに戻す
func (le *LabelEncoder) InverseTransform(y mat.Matrix) (mat.Matrix, error) {
	if !le.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}

	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError("LabelEncoder.InverseTransform", "y must be a column vector")
	}

	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		idx := int(y.At(i, 0))
		if idx < 0 || idx >= len(le.ClassLabels) {
			return nil, errors.NewValueError("LabelEncoder.InverseTransform", fmt.Sprintf("class index out of range: %d", idx))
		}
		result.Set(i, 0, le.ClassLabels[idx])
	}

	return result, nil
}

// Classes は学習済みのクラスラベルを返す
func (le *LabelEncoder) Classes() []float64 {
	return le.ClassLabels
}
