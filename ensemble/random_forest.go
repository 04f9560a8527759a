// Package ensemble implements bagged tree ensembles.
package ensemble

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/core/model"
	"github.com/YuminosukeSato/bcdiag/pkg/errors"
	"github.com/YuminosukeSato/bcdiag/tree"
)

// RandomForestClassifier fits NEstimators CART trees on bootstrap samples
// and predicts by majority vote. Each tree gets a seed derived from
// RandomState, so a fixed seed makes the whole forest reproducible.
type RandomForestClassifier struct {
	state *model.StateManager

	// Hyperparameters
	nEstimators int
	maxDepth    int
	maxFeatures int // 0 means floor(sqrt(p)), scikit-learn's default for classification
	bootstrap   bool
	randomState int64

	trees   []*tree.DecisionTreeClassifier
	classes []int
}

// RandomForestOption is a functional option for RandomForestClassifier.
type RandomForestOption func(*RandomForestClassifier)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) RandomForestOption {
	return func(rf *RandomForestClassifier) { rf.nEstimators = n }
}

// WithMaxDepth limits the depth of every tree; 0 disables the limit.
func WithMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForestClassifier) { rf.maxDepth = d }
}

// WithMaxFeatures sets the per-split feature sample size; 0 uses sqrt(p).
func WithMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForestClassifier) { rf.maxFeatures = k }
}

// WithBootstrap toggles bootstrap sampling; disabled, every tree sees the
// full training set.
func WithBootstrap(b bool) RandomForestOption {
	return func(rf *RandomForestClassifier) { rf.bootstrap = b }
}

// WithRandomState seeds bootstrap sampling and feature subsampling.
func WithRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForestClassifier) { rf.randomState = seed }
}

// NewRandomForestClassifier initializes the forest with scikit-learn-like
// defaults: 100 trees, unlimited depth, bootstrap on.
func NewRandomForestClassifier(opts ...RandomForestOption) *RandomForestClassifier {
	rf := &RandomForestClassifier{
		state:       model.NewStateManager(),
		nEstimators: 100,
		maxDepth:    0,
		maxFeatures: 0,
		bootstrap:   true,
		randomState: 0,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the forest. Trees are grown concurrently; each tree draws its
// own bootstrap sample from a generator seeded with randomState plus the
// tree index.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	n, p := X.Dims()
	yRows, yCols := y.Dims()
	if n == 0 || p == 0 {
		return errors.NewModelError("RandomForestClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != n {
		return errors.NewDimensionError("RandomForestClassifier.Fit", n, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("RandomForestClassifier.Fit", "y must be a column vector")
	}
	if rf.nEstimators <= 0 {
		return errors.NewValueError("RandomForestClassifier.Fit", "n_estimators must be positive")
	}

	seen := map[int]bool{}
	rf.classes = nil
	for i := 0; i < n; i++ {
		lab := int(y.At(i, 0))
		if !seen[lab] {
			seen[lab] = true
			rf.classes = append(rf.classes, lab)
		}
	}
	sort.Ints(rf.classes)

	maxFeatures := rf.maxFeatures
	if maxFeatures == 0 {
		maxFeatures = int(math.Sqrt(float64(p)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	rf.trees = make([]*tree.DecisionTreeClassifier, rf.nEstimators)
	var wg sync.WaitGroup
	errCh := make(chan error, rf.nEstimators)

	for i := 0; i < rf.nEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			treeSeed := rf.randomState + int64(idx)
			XBoot, yBoot := rf.sample(X, y, n, p, treeSeed)

			estimator := tree.NewDecisionTreeClassifier(
				tree.WithMaxDepth(rf.maxDepth),
				tree.WithMaxFeatures(maxFeatures),
				tree.WithRandomState(treeSeed),
			)
			if err := estimator.Fit(XBoot, yBoot); err != nil {
				errCh <- err
				return
			}
			rf.trees[idx] = estimator
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return errors.Wrap(err, "fitting forest tree")
		}
	}

	rf.state.SetDimensions(p, n)
	rf.state.SetFitted()
	return nil
}

// sample draws a bootstrap sample of the training rows. With bootstrap off
// it returns the input unchanged.
func (rf *RandomForestClassifier) sample(X, y mat.Matrix, n, p int, seed int64) (mat.Matrix, mat.Matrix) {
	if !rf.bootstrap {
		return X, y
	}
	rnd := rand.New(rand.NewSource(seed))
	XBoot := mat.NewDense(n, p, nil)
	yBoot := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		src := rnd.Intn(n)
		for j := 0; j < p; j++ {
			XBoot.Set(i, j, X.At(src, j))
		}
		yBoot.Set(i, 0, y.At(src, 0))
	}
	return XBoot, yBoot
}

// Predict returns the majority vote of all trees for each row.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.state.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "Predict")
	}
	n, p := X.Dims()
	nFeatures, _ := rf.state.GetDimensions()
	if p != nFeatures {
		return nil, errors.NewDimensionError("RandomForestClassifier.Predict", nFeatures, p, 1)
	}

	votes := make([]map[int]int, n)
	for i := range votes {
		votes[i] = map[int]int{}
	}
	for _, estimator := range rf.trees {
		preds, err := estimator.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			votes[i][int(preds.At(i, 0))]++
		}
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best, bestCount := rf.classes[0], -1
		// iterate classes in sorted order so vote ties resolve deterministically
		for _, lab := range rf.classes {
			if count := votes[i][lab]; count > bestCount {
				best, bestCount = lab, count
			}
		}
		out.Set(i, 0, float64(best))
	}
	return out, nil
}

// PredictProba averages the per-tree leaf class frequencies. Columns follow
// Classes() order.
func (rf *RandomForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !rf.state.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "PredictProba")
	}
	n, p := X.Dims()
	nFeatures, _ := rf.state.GetDimensions()
	if p != nFeatures {
		return nil, errors.NewDimensionError("RandomForestClassifier.PredictProba", nFeatures, p, 1)
	}

	colOf := map[int]int{}
	for j, lab := range rf.classes {
		colOf[lab] = j
	}

	sum := mat.NewDense(n, len(rf.classes), nil)
	for _, estimator := range rf.trees {
		probas, err := estimator.PredictProba(X)
		if err != nil {
			return nil, err
		}
		treeClasses := estimator.Classes()
		for i := 0; i < n; i++ {
			for tc, lab := range treeClasses {
				col := colOf[lab]
				sum.Set(i, col, sum.At(i, col)+probas.At(i, tc))
			}
		}
	}

	scale := 1.0 / float64(len(rf.trees))
	sum.Scale(scale, sum)
	return sum, nil
}

// Classes returns the sorted unique labels seen during fitting.
func (rf *RandomForestClassifier) Classes() []int {
	out := make([]int, len(rf.classes))
	copy(out, rf.classes)
	return out
}

// GetParams returns the model hyperparameters.
func (rf *RandomForestClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators": rf.nEstimators,
		"max_depth":    rf.maxDepth,
		"max_features": rf.maxFeatures,
		"bootstrap":    rf.bootstrap,
		"random_state": rf.randomState,
	}
}
