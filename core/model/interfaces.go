package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for estimators trained on features X and labels y.
type Fitter interface {
	// Fit trains the estimator. y is an n×1 matrix of class labels.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for fitted estimators that produce labels.
type Predictor interface {
	// Predict returns an n×1 matrix of predicted class labels.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier combines the operations every model candidate in the training
// loop must support. The selector iterates over heterogeneous classifiers
// through this interface alone.
type Classifier interface {
	Fitter
	Predictor
}

// ProbabilisticClassifier is implemented by classifiers that expose
// per-class probability estimates in addition to hard labels.
type ProbabilisticClassifier interface {
	Classifier

	// PredictProba returns an n×nClasses matrix of class probabilities.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// Transformer is the interface for stateless-before-fit feature transforms.
type Transformer interface {
	// Fit learns the transform parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the learned transform to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and transforms the same X.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
