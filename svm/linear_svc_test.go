package svm

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func separableData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(12, 2, []float64{
		-2.0, -1.5,
		-1.8, -2.1,
		-2.2, -1.9,
		-1.5, -1.6,
		-2.5, -2.0,
		-1.9, -2.3,
		2.0, 1.5,
		1.8, 2.1,
		2.2, 1.9,
		1.5, 1.6,
		2.5, 2.0,
		1.9, 2.3,
	})
	y := mat.NewDense(12, 1, []float64{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1})
	return X, y
}

func TestLinearSVC_FitPredict(t *testing.T) {
	X, y := separableData()

	clf := NewLinearSVC(WithRandomState(42), WithMaxIter(200))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	preds, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 12; i++ {
		if preds.At(i, 0) != y.At(i, 0) {
			t.Errorf("sample %d: predicted %v, want %v", i, preds.At(i, 0), y.At(i, 0))
		}
	}
}

func TestLinearSVC_DecisionFunctionSign(t *testing.T) {
	X, y := separableData()

	clf := NewLinearSVC(WithRandomState(42), WithMaxIter(200))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	scores, err := clf.DecisionFunction(X)
	if err != nil {
		t.Fatalf("DecisionFunction() error = %v", err)
	}
	for i, z := range scores {
		wantPositive := y.At(i, 0) == 1
		if wantPositive && z < 0 {
			t.Errorf("positive sample %d has negative decision value %v", i, z)
		}
		if !wantPositive && z >= 0 {
			t.Errorf("negative sample %d has non-negative decision value %v", i, z)
		}
	}
}

func TestLinearSVC_Reproducible(t *testing.T) {
	X, y := separableData()

	a := NewLinearSVC(WithRandomState(7), WithMaxIter(50))
	b := NewLinearSVC(WithRandomState(7), WithMaxIter(50))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	coefA, coefB := a.Coef(), b.Coef()
	for j := range coefA {
		if coefA[j] != coefB[j] {
			t.Errorf("coef[%d] differs across same-seed fits: %v vs %v", j, coefA[j], coefB[j])
		}
	}
	if a.Intercept() != b.Intercept() {
		t.Error("intercept differs across same-seed fits")
	}
}

func TestLinearSVC_ClassLabelsPreserved(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-3, -2.5, -2.8, 3, 2.5, 2.8})
	y := mat.NewDense(6, 1, []float64{4, 4, 4, 9, 9, 9})

	clf := NewLinearSVC(WithRandomState(1), WithMaxIter(100))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	classes := clf.Classes()
	if len(classes) != 2 || classes[0] != 4 || classes[1] != 9 {
		t.Fatalf("Classes() = %v, want [4 9]", classes)
	}

	preds, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 6; i++ {
		if got := preds.At(i, 0); got != 4 && got != 9 {
			t.Errorf("prediction %v not one of the training labels", got)
		}
	}
}

func TestLinearSVC_Errors(t *testing.T) {
	clf := NewLinearSVC()

	if _, err := clf.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("Predict before Fit must fail")
	}
	if _, err := clf.DecisionFunction(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("DecisionFunction before Fit must fail")
	}

	X, y := separableData()
	if err := clf.Fit(X, mat.NewDense(3, 1, nil)); err == nil {
		t.Error("Fit with mismatched rows must fail")
	}
	if err := clf.Fit(X, mat.NewDense(12, 1, nil)); err == nil {
		t.Error("Fit with a single class must fail")
	}

	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := clf.Predict(mat.NewDense(2, 5, nil)); err == nil {
		t.Error("Predict with wrong feature count must fail")
	}
}
