// Package tree implements a CART-style decision tree classifier on gonum
// matrices. It exists chiefly as the base learner for the random forest in
// the ensemble package, but is usable on its own.
package tree

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/core/model"
	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

// DecisionTreeClassifier grows binary axis-aligned splits greedily by
// impurity decrease. Numeric features only; thresholds are midpoints
// between adjacent distinct sorted values.
type DecisionTreeClassifier struct {
	state *model.StateManager

	// Hyperparameters
	criterion       string // "gini" (default) or "entropy"
	maxDepth        int    // 0 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // 0 means all features; >0 samples that many per split
	randomState     int64

	root    *node
	classes []int
}

// node is a tree node. Internal nodes route on feature/threshold; leaves
// carry the class distribution of their training samples.
type node struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *node
	right     *node

	n      int
	probas []float64
	pred   int // index into classes
}

// Option is a functional option for DecisionTreeClassifier.
type Option func(*DecisionTreeClassifier)

// WithCriterion sets the impurity criterion, "gini" or "entropy".
func WithCriterion(c string) Option {
	return func(t *DecisionTreeClassifier) { t.criterion = c }
}

// WithMaxDepth limits tree depth; 0 disables the limit.
func WithMaxDepth(d int) Option {
	return func(t *DecisionTreeClassifier) { t.maxDepth = d }
}

// WithMinSamplesSplit sets the minimum samples required to attempt a split.
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples required in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.minSamplesLeaf = n }
}

// WithMaxFeatures sets how many features are sampled when searching for a
// split; 0 uses all of them.
func WithMaxFeatures(k int) Option {
	return func(t *DecisionTreeClassifier) { t.maxFeatures = k }
}

// WithRandomState seeds the feature subsampling.
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.randomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with scikit-learn-like
// defaults: gini criterion, unlimited depth, min_samples_split=2.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	t := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		criterion:       "gini",
		maxDepth:        0,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		maxFeatures:     0,
		randomState:     0,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit grows the tree on X (n×p) and y (n×1 integer labels).
func (t *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	n, p := X.Dims()
	yRows, yCols := y.Dims()
	if n == 0 || p == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != n {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", n, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "y must be a column vector")
	}
	if t.criterion != "gini" && t.criterion != "entropy" {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "criterion must be gini or entropy")
	}

	labels := make([]int, n)
	classIdx := map[int]int{}
	t.classes = nil
	for i := 0; i < n; i++ {
		lab := int(y.At(i, 0))
		if _, ok := classIdx[lab]; !ok {
			classIdx[lab] = len(t.classes)
			t.classes = append(t.classes, lab)
		}
		labels[i] = lab
	}
	sort.Ints(t.classes)
	for idx, lab := range t.classes {
		classIdx[lab] = idx
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rnd := rand.New(rand.NewSource(t.randomState))

	t.root = t.build(X, labels, classIdx, idx, 0, p, rnd)
	t.state.SetDimensions(p, n)
	t.state.SetFitted()
	return nil
}

func (t *DecisionTreeClassifier) build(X mat.Matrix, labels []int, classIdx map[int]int, idx []int, depth, p int, rnd *rand.Rand) *node {
	nd := &node{n: len(idx)}

	counts := make([]int, len(t.classes))
	for _, i := range idx {
		counts[classIdx[labels[i]]]++
	}

	leaf := func() *node {
		nd.isLeaf = true
		nd.probas = toProbas(counts)
		nd.pred = argmax(counts)
		return nd
	}

	if isPure(counts) || len(idx) < t.minSamplesSplit {
		return leaf()
	}
	if t.maxDepth > 0 && depth >= t.maxDepth {
		return leaf()
	}

	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.maxFeatures > 0 && t.maxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.maxFeatures]
	}

	parent := t.impurity(counts)
	best := bestSplit{feature: -1}
	for _, f := range features {
		if s := t.splitFeature(X, labels, classIdx, idx, f, parent); s.gain > best.gain {
			best = s
		}
	}

	if best.feature == -1 || best.gain <= 0 {
		return leaf()
	}

	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.left = t.build(X, labels, classIdx, best.left, depth+1, p, rnd)
	nd.right = t.build(X, labels, classIdx, best.right, depth+1, p, rnd)
	return nd
}

type bestSplit struct {
	gain      float64
	feature   int
	threshold float64
	left      []int
	right     []int
}

type valueIndex struct {
	v float64
	i int
}

// splitFeature scans all candidate thresholds for one feature with a single
// sort and an incremental class-count sweep.
func (t *DecisionTreeClassifier) splitFeature(X mat.Matrix, labels []int, classIdx map[int]int, idx []int, f int, parent float64) bestSplit {
	best := bestSplit{feature: -1}
	n := len(idx)

	sorted := make([]valueIndex, n)
	for k, i := range idx {
		sorted[k] = valueIndex{v: X.At(i, f), i: i}
	}
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].v < sorted[b].v })

	leftCounts := make([]int, len(t.classes))
	rightCounts := make([]int, len(t.classes))
	for _, vi := range sorted {
		rightCounts[classIdx[labels[vi.i]]]++
	}

	for s := 1; s < n; s++ {
		ci := classIdx[labels[sorted[s-1].i]]
		leftCounts[ci]++
		rightCounts[ci]--

		if sorted[s].v == sorted[s-1].v {
			continue
		}
		if s < t.minSamplesLeaf || n-s < t.minSamplesLeaf {
			continue
		}

		weighted := (float64(s)*t.impurity(leftCounts) + float64(n-s)*t.impurity(rightCounts)) / float64(n)
		gain := parent - weighted
		if gain > best.gain {
			left := make([]int, s)
			right := make([]int, n-s)
			for k := 0; k < s; k++ {
				left[k] = sorted[k].i
			}
			for k := s; k < n; k++ {
				right[k-s] = sorted[k].i
			}
			best = bestSplit{
				gain:      gain,
				feature:   f,
				threshold: (sorted[s-1].v + sorted[s].v) / 2,
				left:      left,
				right:     right,
			}
		}
	}
	return best
}

// Predict returns the majority-class label of the reached leaf for each row.
func (t *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !t.state.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}
	n, p := X.Dims()
	nFeatures, _ := t.state.GetDimensions()
	if p != nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.Predict", nFeatures, p, 1)
	}

	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		probas := t.traverse(X, i)
		out.Set(i, 0, float64(t.classes[argmaxFloat(probas)]))
	}
	return out, nil
}

// PredictProba returns per-class probability estimates as leaf class
// frequencies. Columns follow Classes() order.
func (t *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !t.state.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	n, p := X.Dims()
	nFeatures, _ := t.state.GetDimensions()
	if p != nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", nFeatures, p, 1)
	}

	out := mat.NewDense(n, len(t.classes), nil)
	for i := 0; i < n; i++ {
		for j, pr := range t.traverse(X, i) {
			out.Set(i, j, pr)
		}
	}
	return out, nil
}

// Classes returns the sorted unique labels seen during fitting.
func (t *DecisionTreeClassifier) Classes() []int {
	out := make([]int, len(t.classes))
	copy(out, t.classes)
	return out
}

// GetParams returns the model hyperparameters.
func (t *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         t.criterion,
		"max_depth":         t.maxDepth,
		"min_samples_split": t.minSamplesSplit,
		"min_samples_leaf":  t.minSamplesLeaf,
		"max_features":      t.maxFeatures,
		"random_state":      t.randomState,
	}
}

func (t *DecisionTreeClassifier) traverse(X mat.Matrix, row int) []float64 {
	nd := t.root
	for !nd.isLeaf {
		if X.At(row, nd.feature) <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd.probas
}

func (t *DecisionTreeClassifier) impurity(counts []int) float64 {
	if t.criterion == "entropy" {
		return entropy(counts)
	}
	return gini(counts)
}

func gini(counts []int) float64 {
	total := 0.0
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / total
		res += p * (1 - p)
	}
	return res
}

func entropy(counts []int) float64 {
	total := 0.0
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func toProbas(counts []int) []float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	probas := make([]float64, len(counts))
	if total == 0 {
		return probas
	}
	for i, c := range counts {
		probas[i] = float64(c) / float64(total)
	}
	return probas
}

func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}

func argmaxFloat(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
