package metrics

import (
	"math"
	"sort"

	"github.com/manabi-ml/manabi/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// validateVectors は分類指標の共通入力検証を行う
func validateVectors(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}

	return n, nil
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateVectors("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix は混同行列を計算する
//
// 戻り値:
//   - classes: ソート済みのクラスラベル
//   - cm: cm[i][j] は真のクラス classes[i] がクラス classes[j] と予測された件数
func ConfusionMatrix(yTrue, yPred *mat.VecDense) ([]float64, *mat.Dense, error) {
	n, err := validateVectors("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}

	// 真値と予測値の和集合からクラスを列挙
	seen := make(map[float64]struct{})
	for i := 0; i < n; i++ {
		seen[yTrue.AtVec(i)] = struct{}{}
		seen[yPred.AtVec(i)] = struct{}{}
	}
	classes := make([]float64, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Float64s(classes)

	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	cm := mat.NewDense(len(classes), len(classes), nil)
	for i := 0; i < n; i++ {
		r := index[yTrue.AtVec(i)]
		c := index[yPred.AtVec(i)]
		cm.Set(r, c, cm.At(r, c)+1)
	}

	return classes, cm, nil
}

// Precision は二値分類の適合率を計算する（陽性ラベルは1）
// 陽性と予測されたサンプルが存在しない場合はUndefinedMetricWarningを発生させ0を返す
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateVectors("Precision", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var tp, fp float64
	for i := 0; i < n; i++ {
		if yPred.AtVec(i) == 1 {
			if yTrue.AtVec(i) == 1 {
				tp++
			} else {
				fp++
			}
		}
	}

	if tp+fp == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0, nil
	}

	return tp / (tp + fp), nil
}

// Recall は二値分類の再現率を計算する（陽性ラベルは1）
// 陽性サンプルが存在しない場合はUndefinedMetricWarningを発生させ0を返す
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateVectors("Recall", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var tp, fn float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			if yPred.AtVec(i) == 1 {
				tp++
			} else {
				fn++
			}
		}
	}

	if tp+fn == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positives in data", 0))
		return 0, nil
	}

	return tp / (tp + fn), nil
}

// F1Score は適合率と再現率の調和平均を計算する
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	p, err := Precision(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	r, err := Recall(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	if p+r == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1_score", "precision and recall are both zero", 0))
		return 0, nil
	}

	// ゼロ除算はSafeDivideで保護
	return errors.SafeDivide(2*p*r, p+r), nil
}

// BinaryLogLoss は二値分類の対数損失を計算する
// 予測確率はlog(0)を避けるため[eps, 1-eps]に切り詰められる
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateVectors("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	const eps = 1e-15

	var loss float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be binary (0 or 1)")
		}

		p := errors.ClipValue(yPred.AtVec(i), eps, 1-eps)
		if y == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}

	return loss / float64(n), nil
}

// AUC はROC曲線下面積を計算する（陽性ラベルは1）
// 順位和に基づくMann-WhitneyのU統計量を使用し、同点スコアには平均順位を割り当てる
// 片方のクラスしか存在しない場合はUndefinedMetricWarningを発生させ0.5を返す
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateVectors("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var nPos, nNeg float64
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
	}

	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present", 0.5))
		return 0.5, nil
	}

	// スコア昇順のインデックス
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return yPred.AtVec(order[a]) < yPred.AtVec(order[b])
	})

	// 同点グループに平均順位（1始まり）を割り当てて陽性の順位和を取る
	var rankSumPos float64
	i := 0
	for i < n {
		j := i
		for j+1 < n && yPred.AtVec(order[j+1]) == yPred.AtVec(order[i]) {
			j++
		}
		avgRank := float64(i+j+2) / 2 // (i+1 + j+1) / 2
		for k := i; k <= j; k++ {
			if yTrue.AtVec(order[k]) == 1 {
				rankSumPos += avgRank
			}
		}
		i = j + 1
	}

	return (rankSumPos - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}

// AUCMatrix は行列形式の入力に対してAUCを計算する
// 複数列の行列が渡された場合は先頭列を使用する
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("AUCMatrix", "nil matrix")
	}

	rTrue, cTrue := yTrue.Dims()
	rPred, _ := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("AUCMatrix", "empty matrix")
	}

	if rTrue != rPred {
		return 0, errors.NewDimensionError("AUCMatrix", rTrue, rPred, 0)
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return AUC(yTrueVec, yPredVec)
}
