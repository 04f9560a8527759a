package model_selection

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// rowKey encodes a feature row so partition membership can be compared.
func rowKey(m *mat.Dense, i int) float64 {
	return m.At(i, 0)
}

func makeIndexedData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i)*10)
		y.Set(i, 0, float64(i%2))
	}
	return X, y
}

func TestTrainTestSplit_Sizes(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		testSize  float64
		wantTest  int
		wantTrain int
	}{
		{name: "canonical 569 rows at 0.2", n: 569, testSize: 0.2, wantTest: 114, wantTrain: 455},
		{name: "even split", n: 10, testSize: 0.5, wantTest: 5, wantTrain: 5},
		{name: "rounding up", n: 7, testSize: 0.2, wantTest: 2, wantTrain: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X, y := makeIndexedData(tt.n)
			XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, tt.testSize, 42)
			if err != nil {
				t.Fatalf("TrainTestSplit() error = %v", err)
			}

			trainRows, _ := XTrain.Dims()
			testRows, _ := XTest.Dims()
			if testRows != tt.wantTest || trainRows != tt.wantTrain {
				t.Errorf("split sizes = (%d train, %d test), want (%d, %d)",
					trainRows, testRows, tt.wantTrain, tt.wantTest)
			}
			if trainRows+testRows != tt.n {
				t.Errorf("partitions must cover all %d rows, got %d", tt.n, trainRows+testRows)
			}

			yTrainRows, _ := yTrain.Dims()
			yTestRows, _ := yTest.Dims()
			if yTrainRows != trainRows || yTestRows != testRows {
				t.Error("label partitions must align with feature partitions")
			}
		})
	}
}

func TestTrainTestSplit_DisjointAndExhaustive(t *testing.T) {
	X, y := makeIndexedData(100)
	XTrain, XTest, _, _, err := TrainTestSplit(X, y, 0.2, 7)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}

	seen := map[float64]int{}
	trainRows, _ := XTrain.Dims()
	testRows, _ := XTest.Dims()
	for i := 0; i < trainRows; i++ {
		seen[rowKey(XTrain, i)]++
	}
	for i := 0; i < testRows; i++ {
		seen[rowKey(XTest, i)]++
	}

	if len(seen) != 100 {
		t.Errorf("expected every source row exactly once, saw %d distinct rows", len(seen))
	}
	for key, count := range seen {
		if count != 1 {
			t.Errorf("row %v appears %d times across partitions", key, count)
		}
	}
}

func TestTrainTestSplit_LabelAlignment(t *testing.T) {
	// Label each row with its own index so any misalignment is visible.
	n := 50
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, float64(i))
	}

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, 0.3, 11)
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}

	trainRows, _ := XTrain.Dims()
	for i := 0; i < trainRows; i++ {
		if XTrain.At(i, 0) != yTrain.At(i, 0) {
			t.Fatalf("train row %d: feature %v paired with label %v", i, XTrain.At(i, 0), yTrain.At(i, 0))
		}
	}
	testRows, _ := XTest.Dims()
	for i := 0; i < testRows; i++ {
		if XTest.At(i, 0) != yTest.At(i, 0) {
			t.Fatalf("test row %d: feature %v paired with label %v", i, XTest.At(i, 0), yTest.At(i, 0))
		}
	}
}

func TestTrainTestSplit_Reproducible(t *testing.T) {
	X, y := makeIndexedData(569)

	_, XTest1, _, _, err := TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatalf("first split: %v", err)
	}
	_, XTest2, _, _, err := TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatalf("second split: %v", err)
	}

	if !mat.Equal(XTest1, XTest2) {
		t.Error("same seed must reproduce the same partition")
	}

	_, XTest3, _, _, err := TrainTestSplit(X, y, 0.2, 43)
	if err != nil {
		t.Fatalf("third split: %v", err)
	}
	if mat.Equal(XTest1, XTest3) {
		t.Error("different seeds should shuffle differently")
	}
}

func TestTrainTestSplit_Errors(t *testing.T) {
	X, y := makeIndexedData(10)

	tests := []struct {
		name     string
		X        mat.Matrix
		y        mat.Matrix
		testSize float64
	}{
		{name: "row mismatch", X: X, y: mat.NewDense(5, 1, nil), testSize: 0.2},
		{name: "wide y", X: X, y: mat.NewDense(10, 2, nil), testSize: 0.2},
		{name: "test_size zero", X: X, y: y, testSize: 0},
		{name: "test_size one", X: X, y: y, testSize: 1},
		{name: "test_size consumes all rows", X: X, y: y, testSize: 0.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, _, err := TrainTestSplit(tt.X, tt.y, tt.testSize, 42); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
