// Package log defines standard attribute keys for the diagnostic pipeline.
//
// Using these keys consistently across stages keeps the structured logs
// filterable: every fit, transform and scoring operation reports the same
// shape vocabulary, and the pipeline driver reports stage transitions with
// a single key.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the classifier or transformer type.
	// Examples: "RandomForestClassifier", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// StageKey identifies the pipeline stage emitting the log line.
	// Values: "load", "eda", "prepare", "train", "select"
	StageKey = "pipeline.stage"
)

// Data shape.
const (
	// SamplesKey indicates the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// TrainSamplesKey and TestSamplesKey describe the split sizes.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"
)

// Results and performance.
const (
	// AccuracyKey records a model's held-out accuracy.
	AccuracyKey = "metric.accuracy"

	// SeedKey records the random seed driving the run.
	SeedKey = "run.seed"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
