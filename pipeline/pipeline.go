// Package pipeline runs the full diagnostic workflow: load the tumor
// measurements, report exploratory summaries, split and standardize the
// data, train the candidate classifiers and pick the most accurate one.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/core/model"
	"github.com/YuminosukeSato/bcdiag/dataset"
	"github.com/YuminosukeSato/bcdiag/eda"
	"github.com/YuminosukeSato/bcdiag/ensemble"
	"github.com/YuminosukeSato/bcdiag/linear_model"
	"github.com/YuminosukeSato/bcdiag/metrics"
	"github.com/YuminosukeSato/bcdiag/model_selection"
	"github.com/YuminosukeSato/bcdiag/pkg/errors"
	bcdiagLog "github.com/YuminosukeSato/bcdiag/pkg/log"
	"github.com/YuminosukeSato/bcdiag/preprocessing"
	"github.com/YuminosukeSato/bcdiag/svm"
)

// scatterColumns is the feature subset rendered in the scatter-plot
// matrix. The full 30-column grid would be unreadable.
var scatterColumns = []string{
	"mean_radius",
	"mean_texture",
	"mean_perimeter",
	"mean_area",
	"mean_smoothness",
}

// Config controls a pipeline run.
type Config struct {
	// Seed drives the train/test shuffle and every stochastic model.
	Seed int64
	// TestSize is the held-out fraction of the dataset.
	TestSize float64
	// PlotDir is where the EDA plots are written. Empty disables plots.
	PlotDir string
	// Out receives the textual reports and per-model accuracy lines.
	Out io.Writer
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() Config {
	return Config{
		Seed:     42,
		TestSize: 0.2,
		PlotDir:  "plots",
		Out:      os.Stdout,
	}
}

// Candidate pairs a display name with a classifier to evaluate.
type Candidate struct {
	Name  string
	Model model.Classifier
}

// ModelScore records the held-out accuracy of one candidate.
type ModelScore struct {
	Name     string
	Accuracy float64
}

// Result summarizes a pipeline run. Scores preserves candidate order.
type Result struct {
	Scores       []ModelScore
	BestName     string
	BestAccuracy float64
	TrainSamples int
	TestSamples  int
}

// Candidates returns the classifiers to evaluate, in the order used to
// break accuracy ties: random forest first, then logistic regression,
// then the linear SVM.
func Candidates(seed int64) []Candidate {
	return []Candidate{
		{Name: "Random Forest", Model: ensemble.NewRandomForestClassifier(ensemble.WithRandomState(seed))},
		{Name: "Logistic Regression", Model: linear_model.NewLogisticRegression()},
		{Name: "Support Vector Machine", Model: svm.NewLinearSVC(svm.WithRandomState(seed))},
	}
}

// Run executes the full workflow with the given configuration and the
// default candidate set.
func Run(cfg Config) (*Result, error) {
	return RunWith(cfg, Candidates(cfg.Seed))
}

// RunWith executes the workflow against an explicit candidate list. Ties
// in accuracy go to the earlier candidate.
func RunWith(cfg Config, candidates []Candidate) (*Result, error) {
	logger := slog.Default()
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if len(candidates) == 0 {
		return nil, errors.NewValueError("pipeline.RunWith", "no candidate models")
	}

	start := time.Now()

	table, err := dataset.LoadBreastCancer()
	if err != nil {
		return nil, err
	}
	rows, cols := table.Features().Dims()
	logger.Info("dataset loaded",
		slog.String(bcdiagLog.StageKey, "load"),
		slog.Int(bcdiagLog.SamplesKey, rows),
		slog.Int(bcdiagLog.FeaturesKey, cols))

	if err := runEDA(cfg, table, out, logger); err != nil {
		return nil, err
	}

	XTrain, XTest, yTrain, yTest, err := model_selection.TrainTestSplit(
		table.Features(), table.Target(), cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}
	trainRows, _ := XTrain.Dims()
	testRows, _ := XTest.Dims()
	logger.Info("dataset split",
		slog.String(bcdiagLog.StageKey, "split"),
		slog.Int64(bcdiagLog.SeedKey, cfg.Seed),
		slog.Int(bcdiagLog.TrainSamplesKey, trainRows),
		slog.Int(bcdiagLog.TestSamplesKey, testRows))

	scaler := preprocessing.NewStandardScaler()
	XTrainScaled, err := scaler.FitTransform(XTrain)
	if err != nil {
		return nil, err
	}
	XTestScaled, err := scaler.Transform(XTest)
	if err != nil {
		return nil, err
	}
	logger.Info("features standardized",
		slog.String(bcdiagLog.StageKey, "scale"),
		slog.Int(bcdiagLog.FeaturesKey, cols))

	result := &Result{
		Scores:       make([]ModelScore, 0, len(candidates)),
		TrainSamples: trainRows,
		TestSamples:  testRows,
	}
	for i, cand := range candidates {
		acc, err := evaluate(cand, XTrainScaled, yTrain, XTestScaled, yTest, logger)
		if err != nil {
			return nil, err
		}
		result.Scores = append(result.Scores, ModelScore{Name: cand.Name, Accuracy: acc})
		if i == 0 || acc > result.BestAccuracy {
			result.BestName = cand.Name
			result.BestAccuracy = acc
		}
		if _, err := fmt.Fprintf(out, "%s accuracy: %.4f\n", cand.Name, acc); err != nil {
			return nil, errors.Wrap(err, "writing accuracy report")
		}
	}

	if _, err := fmt.Fprintf(out, "Best model: %s (accuracy %.4f)\n",
		result.BestName, result.BestAccuracy); err != nil {
		return nil, errors.Wrap(err, "writing accuracy report")
	}
	logger.Info("pipeline finished",
		slog.String(bcdiagLog.StageKey, "select"),
		slog.String(bcdiagLog.ModelNameKey, result.BestName),
		slog.Float64(bcdiagLog.AccuracyKey, result.BestAccuracy),
		slog.Int64(bcdiagLog.DurationMsKey, time.Since(start).Milliseconds()))

	return result, nil
}

func runEDA(cfg Config, table *dataset.Table, out io.Writer, logger *slog.Logger) error {
	start := time.Now()

	df := table.DataFrame()
	if err := eda.WriteMissingReport(out, df); err != nil {
		return err
	}
	if err := eda.WriteDescribeReport(out, df); err != nil {
		return err
	}

	if cfg.PlotDir != "" {
		if err := eda.ScatterMatrixPlot(table.Features(), table.Target(), table.FeatureNames(),
			scatterColumns, filepath.Join(cfg.PlotDir, "scatter_matrix.png")); err != nil {
			return err
		}
		corr, err := eda.CorrelationMatrix(table.Features())
		if err != nil {
			return err
		}
		if err := eda.HeatmapPlot(corr, filepath.Join(cfg.PlotDir, "correlation_heatmap.png")); err != nil {
			return err
		}
	}

	logger.Info("exploratory analysis complete",
		slog.String(bcdiagLog.StageKey, "eda"),
		slog.Int64(bcdiagLog.DurationMsKey, time.Since(start).Milliseconds()))
	return nil
}

func evaluate(cand Candidate, XTrain, yTrain, XTest, yTest mat.Matrix, logger *slog.Logger) (float64, error) {
	start := time.Now()

	if err := cand.Model.Fit(XTrain, yTrain); err != nil {
		return 0, errors.NewModelError(cand.Name, "fit", err)
	}
	pred, err := cand.Model.Predict(XTest)
	if err != nil {
		return 0, errors.NewModelError(cand.Name, "predict", err)
	}
	acc, err := metrics.AccuracyMatrix(yTest, pred)
	if err != nil {
		return 0, errors.NewModelError(cand.Name, "score", err)
	}

	logger.Info("model evaluated",
		slog.String(bcdiagLog.StageKey, "train"),
		slog.String(bcdiagLog.ModelNameKey, cand.Name),
		slog.Float64(bcdiagLog.AccuracyKey, acc),
		slog.Int64(bcdiagLog.DurationMsKey, time.Since(start).Milliseconds()))
	return acc, nil
}
