// Package linear_model implements linear classifiers trained by gradient
// descent.
package linear_model

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/core/model"
	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

// LogisticRegression is a binary classifier with an L2 penalty, trained by
// full-batch gradient descent with a decaying learning rate. The API follows
// scikit-learn's LogisticRegression for the binary case.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	c            float64 // inverse regularization strength
	fitIntercept bool
	maxIter      int
	tol          float64 // stop when the max absolute gradient falls below tol

	// Fitted parameters
	coef      []float64
	intercept float64
	classes   []int
	converged bool
	nIter     int
}

// LogisticRegressionOption is a functional option for LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithC sets the inverse regularization strength (default 1.0).
func WithC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.c = c }
}

// WithFitIntercept sets whether an intercept term is fitted (default true).
func WithFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.fitIntercept = fit }
}

// WithMaxIter sets the maximum number of gradient steps (default 1000).
func WithMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.maxIter = maxIter }
}

// WithTol sets the gradient-norm stopping tolerance (default 1e-4).
func WithTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// NewLogisticRegression creates a LogisticRegression with scikit-learn-like
// defaults.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		fitIntercept: true,
		maxIter:      1000,
		tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit trains the model on X (n×p) and binary labels y (n×1). Labels may be
// any two distinct integers; the larger one becomes the positive class.
// A ConvergenceWarning is raised if the gradient never drops below tol.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	n, p := X.Dims()
	yRows, yCols := y.Dims()
	if n == 0 || p == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != n {
		return errors.NewDimensionError("LogisticRegression.Fit", n, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}

	classes, err := binaryClasses("LogisticRegression.Fit", y)
	if err != nil {
		return err
	}
	lr.classes = classes

	// 0/1 targets relative to the positive class
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		if int(y.At(i, 0)) == lr.classes[1] {
			target[i] = 1
		}
	}

	lr.coef = make([]float64, p)
	lr.intercept = 0
	lambda := 1.0 / lr.c
	grad := make([]float64, p)

	lr.converged = false
	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < n; i++ {
			z := lr.intercept
			for j := 0; j < p; j++ {
				z += X.At(i, j) * lr.coef[j]
			}
			residual := sigmoid(z) - target[i]
			gradIntercept += residual
			for j := 0; j < p; j++ {
				grad[j] += residual * X.At(i, j)
			}
		}

		invN := 1.0 / float64(n)
		gradIntercept *= invN
		maxGrad := math.Abs(gradIntercept)
		for j := 0; j < p; j++ {
			grad[j] = grad[j]*invN + lambda*lr.coef[j]
			if g := math.Abs(grad[j]); g > maxGrad {
				maxGrad = g
			}
		}

		step := 1.0 / (1.0 + 0.1*float64(iter))
		for j := 0; j < p; j++ {
			lr.coef[j] -= step * grad[j]
		}
		if lr.fitIntercept {
			lr.intercept -= step * gradIntercept
		}

		lr.nIter = iter + 1
		if maxGrad < lr.tol {
			lr.converged = true
			break
		}
	}

	if !lr.converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter))
	}

	lr.state.SetDimensions(p, n)
	lr.state.SetFitted()
	return nil
}

// Predict returns the class whose probability exceeds one half.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.decision(X, "Predict")
	if err != nil {
		return nil, err
	}

	n := len(scores)
	out := mat.NewDense(n, 1, nil)
	for i, z := range scores {
		if sigmoid(z) >= 0.5 {
			out.Set(i, 0, float64(lr.classes[1]))
		} else {
			out.Set(i, 0, float64(lr.classes[0]))
		}
	}
	return out, nil
}

// PredictProba returns an n×2 matrix of class probabilities. Columns follow
// Classes() order.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.decision(X, "PredictProba")
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(len(scores), 2, nil)
	for i, z := range scores {
		p := sigmoid(z)
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return out, nil
}

// Classes returns the two labels seen during fitting, sorted ascending.
func (lr *LogisticRegression) Classes() []int {
	out := make([]int, len(lr.classes))
	copy(out, lr.classes)
	return out
}

// NIter returns the number of gradient steps actually taken.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

// Coef returns the fitted weight vector.
func (lr *LogisticRegression) Coef() []float64 {
	out := make([]float64, len(lr.coef))
	copy(out, lr.coef)
	return out
}

// Intercept returns the fitted intercept.
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept
}

// GetParams returns the model hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             lr.c,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

func (lr *LogisticRegression) decision(X mat.Matrix, method string) ([]float64, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", method)
	}
	n, p := X.Dims()
	nFeatures, _ := lr.state.GetDimensions()
	if p != nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression."+method, nFeatures, p, 1)
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		z := lr.intercept
		for j := 0; j < p; j++ {
			z += X.At(i, j) * lr.coef[j]
		}
		scores[i] = z
	}
	return scores, nil
}

// binaryClasses extracts and validates the two class labels present in y.
func binaryClasses(op string, y mat.Matrix) ([]int, error) {
	rows, _ := y.Dims()
	seen := map[int]bool{}
	var classes []int
	for i := 0; i < rows; i++ {
		lab := int(y.At(i, 0))
		if !seen[lab] {
			seen[lab] = true
			classes = append(classes, lab)
		}
	}
	if len(classes) != 2 {
		return nil, errors.NewValueError(op, "y must contain exactly two classes")
	}
	sort.Ints(classes)
	return classes, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
