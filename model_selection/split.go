// Package model_selection provides deterministic train/test partitioning.
package model_selection

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

// TrainTestSplit partitions the rows of X and y into disjoint train and test
// sets, preserving feature/label alignment.
//
// The permutation is drawn from a generator seeded with seed, so the same
// seed always produces the same partition. The test set receives
// ceil(n*testSize) rows and the train set the remainder, matching
// scikit-learn: 569 rows at testSize 0.2 give 114 test and 455 train rows.
func TrainTestSplit(X, y mat.Matrix, testSize float64, seed int64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	n, p := X.Dims()
	yRows, yCols := y.Dims()

	if n == 0 {
		return nil, nil, nil, nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if yRows != n {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", n, yRows, 0)
	}
	if yCols != 1 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "y must be a column vector")
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "test_size must be in (0, 1)")
	}

	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest == n {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "test_size leaves no training rows")
	}
	nTrain := n - nTest

	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)

	XTest = mat.NewDense(nTest, p, nil)
	yTest = mat.NewDense(nTest, 1, nil)
	XTrain = mat.NewDense(nTrain, p, nil)
	yTrain = mat.NewDense(nTrain, 1, nil)

	for i, src := range perm[:nTest] {
		for j := 0; j < p; j++ {
			XTest.Set(i, j, X.At(src, j))
		}
		yTest.Set(i, 0, y.At(src, 0))
	}
	for i, src := range perm[nTest:] {
		for j := 0; j < p; j++ {
			XTrain.Set(i, j, X.At(src, j))
		}
		yTrain.Set(i, 0, y.At(src, 0))
	}

	return XTrain, XTest, yTrain, yTest, nil
}
