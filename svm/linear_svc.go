// Package svm implements a linear support vector classifier.
package svm

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/core/model"
	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

// LinearSVC is a binary max-margin classifier trained by stochastic
// subgradient descent on the L2-regularized hinge loss (the Pegasos
// scheme). Labels are mapped internally to ±1; the larger training label
// is the positive class.
type LinearSVC struct {
	state *model.StateManager

	// Hyperparameters
	c            float64 // inverse regularization strength
	fitIntercept bool
	maxIter      int // epochs over the training set
	randomState  int64

	// Fitted parameters
	coef      []float64
	intercept float64
	classes   []int
}

// LinearSVCOption is a functional option for LinearSVC.
type LinearSVCOption func(*LinearSVC)

// WithC sets the inverse regularization strength (default 1.0).
func WithC(c float64) LinearSVCOption {
	return func(s *LinearSVC) { s.c = c }
}

// WithFitIntercept sets whether an intercept term is fitted (default true).
func WithFitIntercept(fit bool) LinearSVCOption {
	return func(s *LinearSVC) { s.fitIntercept = fit }
}

// WithMaxIter sets the number of training epochs (default 1000).
func WithMaxIter(maxIter int) LinearSVCOption {
	return func(s *LinearSVC) { s.maxIter = maxIter }
}

// WithRandomState seeds the sample order of the subgradient updates.
func WithRandomState(seed int64) LinearSVCOption {
	return func(s *LinearSVC) { s.randomState = seed }
}

// NewLinearSVC creates a LinearSVC with defaults: C=1, intercept on,
// 1000 epochs, seed 0.
func NewLinearSVC(opts ...LinearSVCOption) *LinearSVC {
	s := &LinearSVC{
		state:        model.NewStateManager(),
		c:            1.0,
		fitIntercept: true,
		maxIter:      1000,
		randomState:  0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit trains the classifier on X (n×p) and binary labels y (n×1).
// Given the same data and seed the fitted parameters are identical
// across runs.
func (s *LinearSVC) Fit(X, y mat.Matrix) error {
	n, p := X.Dims()
	yRows, yCols := y.Dims()
	if n == 0 || p == 0 {
		return errors.NewModelError("LinearSVC.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != n {
		return errors.NewDimensionError("LinearSVC.Fit", n, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LinearSVC.Fit", "y must be a column vector")
	}

	seen := map[int]bool{}
	var classes []int
	for i := 0; i < n; i++ {
		lab := int(y.At(i, 0))
		if !seen[lab] {
			seen[lab] = true
			classes = append(classes, lab)
		}
	}
	if len(classes) != 2 {
		return errors.NewValueError("LinearSVC.Fit", "y must contain exactly two classes")
	}
	sort.Ints(classes)
	s.classes = classes

	// signed targets: smaller label -1, larger label +1
	signed := make([]float64, n)
	for i := 0; i < n; i++ {
		if int(y.At(i, 0)) == s.classes[1] {
			signed[i] = 1
		} else {
			signed[i] = -1
		}
	}

	lambda := 1.0 / (s.c * float64(n))
	s.coef = make([]float64, p)
	s.intercept = 0

	rnd := rand.New(rand.NewSource(s.randomState))
	t := 0
	for epoch := 0; epoch < s.maxIter; epoch++ {
		order := rnd.Perm(n)
		for _, i := range order {
			t++
			eta := 1.0 / (lambda * float64(t))

			margin := s.intercept
			for j := 0; j < p; j++ {
				margin += X.At(i, j) * s.coef[j]
			}
			margin *= signed[i]

			// regularization shrink applies every step
			shrink := 1 - eta*lambda
			for j := 0; j < p; j++ {
				s.coef[j] *= shrink
			}
			if margin < 1 {
				step := eta * signed[i]
				for j := 0; j < p; j++ {
					s.coef[j] += step * X.At(i, j)
				}
				if s.fitIntercept {
					s.intercept += step
				}
			}
		}
	}

	s.state.SetDimensions(p, n)
	s.state.SetFitted()
	return nil
}

// DecisionFunction returns the signed distance w·x + b for each row.
// Positive values favor the larger class label.
func (s *LinearSVC) DecisionFunction(X mat.Matrix) ([]float64, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("LinearSVC", "DecisionFunction")
	}
	n, p := X.Dims()
	nFeatures, _ := s.state.GetDimensions()
	if p != nFeatures {
		return nil, errors.NewDimensionError("LinearSVC.DecisionFunction", nFeatures, p, 1)
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		z := s.intercept
		for j := 0; j < p; j++ {
			z += X.At(i, j) * s.coef[j]
		}
		scores[i] = z
	}
	return scores, nil
}

// Predict assigns the larger class label where the decision function is
// non-negative and the smaller one elsewhere.
func (s *LinearSVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := s.DecisionFunction(X)
	if err != nil {
		// keep the reported method accurate for the not-fitted case
		if !s.state.IsFitted() {
			return nil, errors.NewNotFittedError("LinearSVC", "Predict")
		}
		return nil, err
	}

	out := mat.NewDense(len(scores), 1, nil)
	for i, z := range scores {
		if z >= 0 {
			out.Set(i, 0, float64(s.classes[1]))
		} else {
			out.Set(i, 0, float64(s.classes[0]))
		}
	}
	return out, nil
}

// Classes returns the two labels seen during fitting, sorted ascending.
func (s *LinearSVC) Classes() []int {
	out := make([]int, len(s.classes))
	copy(out, s.classes)
	return out
}

// Coef returns the fitted weight vector.
func (s *LinearSVC) Coef() []float64 {
	out := make([]float64, len(s.coef))
	copy(out, s.coef)
	return out
}

// Intercept returns the fitted intercept.
func (s *LinearSVC) Intercept() float64 {
	return s.intercept
}

// GetParams returns the model hyperparameters.
func (s *LinearSVC) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             s.c,
		"fit_intercept": s.fitIntercept,
		"max_iter":      s.maxIter,
		"random_state":  s.randomState,
	}
}
