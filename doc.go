// Package bcdiag implements a breast-cancer diagnostic workflow in Go,
// built on a scikit-learn-like estimator API.
//
// The library loads the Wisconsin diagnostic measurements, reports
// exploratory summaries and plots, splits and standardizes the data, then
// trains three classifiers and keeps the most accurate one:
//
//   - ensemble.RandomForestClassifier
//   - linear_model.LogisticRegression
//   - svm.LinearSVC
//
// # Quick Start
//
// Run the full workflow with the default configuration:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/bcdiag/pipeline"
//	)
//
//	func main() {
//	    result, err := pipeline.Run(pipeline.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.BestName, result.BestAccuracy)
//	}
//
// Every estimator follows the same Fit/Predict contract over gonum
// matrices, so the individual packages can also be used on their own:
//
//	clf := ensemble.NewRandomForestClassifier(ensemble.WithRandomState(42))
//	if err := clf.Fit(XTrain, yTrain); err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := clf.Predict(XTest)
//
// Runs are reproducible: the same seed yields the same split, the same
// fitted models and the same accuracies.
package bcdiag
