package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

const tol = 1e-9

func TestStandardScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// After scaling every column has mean 0 and population std 1.
	r, c := scaled.Dims()
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += scaled.At(i, j)
		}
		mean := sum / float64(r)
		if math.Abs(mean) > tol {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}

		var sumSq float64
		for i := 0; i < r; i++ {
			d := scaled.At(i, j) - mean
			sumSq += d * d
		}
		std := math.Sqrt(sumSq / float64(r))
		if math.Abs(std-1) > tol {
			t.Errorf("column %d std = %v, want 1", j, std)
		}
	}
}

func TestStandardScaler_NoRefitOnTransform(t *testing.T) {
	train := mat.NewDense(3, 1, []float64{0, 5, 10})
	test := mat.NewDense(2, 1, []float64{100, 200})

	scaler := NewStandardScaler()
	if err := scaler.Fit(train); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	meanBefore := scaler.Mean[0]
	scaleBefore := scaler.Scale[0]

	transformed, err := scaler.Transform(test)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	// Transform must use the train statistics, never the test ones.
	if scaler.Mean[0] != meanBefore || scaler.Scale[0] != scaleBefore {
		t.Error("Transform() must not refit the scaler")
	}
	want := (100.0 - meanBefore) / scaleBefore
	if math.Abs(transformed.At(0, 0)-want) > tol {
		t.Errorf("Transform()[0] = %v, want %v", transformed.At(0, 0), want)
	}
}

func TestStandardScaler_ZeroVarianceColumn(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		7, 1,
		7, 2,
		7, 3,
	})

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// A constant column is passed through centered, with scale clamped to 1.
	if scaler.Scale[0] != 1.0 {
		t.Errorf("zero-variance scale = %v, want 1", scaler.Scale[0])
	}
	for i := 0; i < 3; i++ {
		if v := scaled.At(i, 0); math.Abs(v) > tol {
			t.Errorf("constant column row %d = %v, want 0", i, v)
		}
		if math.IsNaN(scaled.At(i, 0)) || math.IsInf(scaled.At(i, 0), 0) {
			t.Errorf("constant column row %d is not finite", i)
		}
	}
}

func TestStandardScaler_InverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1.5, -2,
		3.25, 0,
		-1, 4.5,
	})

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	restored, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(restored.At(i, j)-X.At(i, j)) > 1e-9 {
				t.Errorf("restored[%d,%d] = %v, want %v", i, j, restored.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScaler_Errors(t *testing.T) {
	scaler := NewStandardScaler()

	if _, err := scaler.Transform(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Transform before Fit must fail")
	} else {
		var notFitted *errors.NotFittedError
		if !errors.As(err, &notFitted) {
			t.Errorf("expected NotFittedError, got %T", err)
		}
	}

	if err := scaler.Fit(mat.NewDense(2, 3, nil)); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(2, 2, nil)); err == nil {
		t.Error("Transform with mismatched feature count must fail")
	} else {
		var dimErr *errors.DimensionError
		if !errors.As(err, &dimErr) {
			t.Errorf("expected DimensionError, got %T", err)
		}
	}
}
