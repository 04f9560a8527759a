package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

// Accuracy は正解率（正しく分類されたサンプルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("Accuracy", "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AccuracyMatrix は行列形式の入力に対して正解率を計算する。
// 複数列の行列が渡された場合は先頭列を使用する。
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, err := firstColumn("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	yPredVec, err := firstColumn("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(yTrueVec, yPredVec)
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1.0 - acc, nil
}

// ConfusionMatrix は二値分類の混同行列を計算する。
// 戻り値は2x2行列で、行が真のラベル(0,1)、列が予測ラベル(0,1)に対応する。
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*mat.Dense, error) {
	if yTrue == nil || yPred == nil {
		return nil, errors.NewValueError("ConfusionMatrix", "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	cm := mat.NewDense(2, 2, nil)
	for i := 0; i < n; i++ {
		trueLabel := yTrue.AtVec(i)
		predLabel := yPred.AtVec(i)
		if (trueLabel != 0 && trueLabel != 1) || (predLabel != 0 && predLabel != 1) {
			return nil, errors.NewValueError("ConfusionMatrix", "labels must be binary (0 or 1)")
		}
		cm.Set(int(trueLabel), int(predLabel), cm.At(int(trueLabel), int(predLabel))+1)
	}
	return cm, nil
}

// firstColumn は行列の先頭列をVecDenseに変換する
func firstColumn(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	vec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		vec.SetVec(i, m.At(i, 0))
	}
	return vec, nil
}
