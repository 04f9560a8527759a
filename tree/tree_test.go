package tree

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestDecisionTreeClassifier_FitPredict_Binary tests binary classification
func TestDecisionTreeClassifier_FitPredict_Binary(t *testing.T) {
	// Create simple linearly separable data
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		3, 3,
		3, 4,
		4, 3,
		4, 4,
	})

	y := mat.NewDense(8, 1, []float64{
		0, 0, 0, 0, // Class 0 (lower left)
		1, 1, 1, 1, // Class 1 (upper right)
	})

	// Create and train model
	dt := NewDecisionTreeClassifier(
		WithCriterion("gini"),
		WithMaxDepth(5),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	// Test predictions on training data
	predictions, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	// Check all predictions are correct
	for i := 0; i < 8; i++ {
		pred := predictions.At(i, 0)
		actual := y.At(i, 0)
		if pred != actual {
			t.Errorf("Sample %d: expected %v, got %v", i, actual, pred)
		}
	}

	// Test on new data
	XTest := mat.NewDense(2, 2, []float64{
		0.5, 0.5, // Should be class 0
		3.5, 3.5, // Should be class 1
	})

	testPreds, err := dt.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict on test data: %v", err)
	}

	if testPreds.At(0, 0) != 0 {
		t.Errorf("Test point (0.5,0.5) should be class 0, got %v", testPreds.At(0, 0))
	}

	if testPreds.At(1, 0) != 1 {
		t.Errorf("Test point (3.5,3.5) should be class 1, got %v", testPreds.At(1, 0))
	}
}

// TestDecisionTreeClassifier_PredictProba tests probability predictions
func TestDecisionTreeClassifier_PredictProba(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		2, 2,
		2, 3,
		3, 2,
	})

	y := mat.NewDense(6, 1, []float64{
		0, 0, 0, // Class 0
		1, 1, 1, // Class 1
	})

	dt := NewDecisionTreeClassifier(
		WithMaxDepth(3),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	probas, err := dt.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := probas.Dims()
	if rows != 6 || cols != 2 {
		t.Fatalf("Probability matrix dims = (%d, %d), want (6, 2)", rows, cols)
	}

	// Each row must sum to 1
	for i := 0; i < rows; i++ {
		sum := probas.At(i, 0) + probas.At(i, 1)
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Row %d probabilities sum to %v, want 1", i, sum)
		}
	}
}

func TestDecisionTreeClassifier_EntropyCriterion(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 10, 11})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	dt := NewDecisionTreeClassifier(WithCriterion("entropy"))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	preds, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 4; i++ {
		if preds.At(i, 0) != y.At(i, 0) {
			t.Errorf("Sample %d: expected %v, got %v", i, y.At(i, 0), preds.At(i, 0))
		}
	}
}

func TestDecisionTreeClassifier_MaxDepthOne(t *testing.T) {
	// A stump can only make one split.
	X := mat.NewDense(4, 1, []float64{1, 2, 10, 11})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	dt := NewDecisionTreeClassifier(WithMaxDepth(1))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}
	if dt.root.isLeaf {
		t.Fatal("stump should have split once")
	}
	if !dt.root.left.isLeaf || !dt.root.right.isLeaf {
		t.Error("children of a depth-1 tree must be leaves")
	}
}

func TestDecisionTreeClassifier_Classes(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{1, 0, 1, 0})

	dt := NewDecisionTreeClassifier()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	classes := dt.Classes()
	if len(classes) != 2 || classes[0] != 0 || classes[1] != 1 {
		t.Errorf("Classes() = %v, want [0 1]", classes)
	}
}

func TestDecisionTreeClassifier_Errors(t *testing.T) {
	dt := NewDecisionTreeClassifier()

	if _, err := dt.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Predict before Fit must fail")
	}

	if err := dt.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(3, 1, nil)); err == nil {
		t.Error("Fit with mismatched rows must fail")
	}

	bad := NewDecisionTreeClassifier(WithCriterion("misclassification"))
	if err := bad.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{0, 1})); err == nil {
		t.Error("unknown criterion must fail")
	}
}

func TestDecisionTreeClassifier_Deterministic(t *testing.T) {
	X := mat.NewDense(10, 3, []float64{
		1, 5, 0.1,
		2, 4, 0.2,
		3, 3, 0.1,
		4, 2, 0.3,
		5, 1, 0.2,
		11, 5, 0.9,
		12, 4, 0.8,
		13, 3, 0.9,
		14, 2, 0.7,
		15, 1, 0.8,
	})
	y := mat.NewDense(10, 1, []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1})

	preds := make([]mat.Matrix, 2)
	for k := 0; k < 2; k++ {
		dt := NewDecisionTreeClassifier(
			WithMaxFeatures(2),
			WithRandomState(42),
		)
		if err := dt.Fit(X, y); err != nil {
			t.Fatalf("Failed to fit model: %v", err)
		}
		p, err := dt.Predict(X)
		if err != nil {
			t.Fatalf("Failed to predict: %v", err)
		}
		preds[k] = p
	}

	if !mat.Equal(preds[0], preds[1]) {
		t.Error("same random_state must reproduce identical predictions")
	}
}
