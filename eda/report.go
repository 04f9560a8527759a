// Package eda computes the exploratory summaries for the diagnostic table:
// missing-value counts, descriptive statistics, a pairwise scatter-plot
// matrix and a feature-correlation heatmap. Everything here is read-only;
// nothing downstream consumes the output.
package eda

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

// ColumnSummary holds the descriptive statistics of one numeric column.
type ColumnSummary struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// MissingValueCounts returns the number of missing cells per column, in
// column order.
func MissingValueCounts(df dataframe.DataFrame) ([]string, []int) {
	names := df.Names()
	counts := make([]int, len(names))
	for i, name := range names {
		for _, missing := range df.Col(name).IsNaN() {
			if missing {
				counts[i]++
			}
		}
	}
	return names, counts
}

// Describe computes count, mean, sample std, min, quartiles and max for
// every numeric column of the dataframe.
func Describe(df dataframe.DataFrame) ([]ColumnSummary, error) {
	if df.Nrow() == 0 {
		return nil, errors.NewValueError("Describe", "empty dataframe")
	}

	summaries := make([]ColumnSummary, 0, len(df.Names()))
	for _, name := range df.Names() {
		values := df.Col(name).Float()
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)

		summaries = append(summaries, ColumnSummary{
			Name:   name,
			Count:  len(values),
			Mean:   stat.Mean(values, nil),
			Std:    stat.StdDev(values, nil),
			Min:    sorted[0],
			Q25:    stat.Quantile(0.25, stat.LinInterp, sorted, nil),
			Median: stat.Quantile(0.5, stat.LinInterp, sorted, nil),
			Q75:    stat.Quantile(0.75, stat.LinInterp, sorted, nil),
			Max:    sorted[len(sorted)-1],
		})
	}
	return summaries, nil
}

// CorrelationMatrix returns the Pearson correlation matrix of the columns
// of X.
func CorrelationMatrix(X mat.Matrix) (*mat.SymDense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("CorrelationMatrix", "empty matrix")
	}

	dense := mat.DenseCopyOf(X)
	corr := mat.NewSymDense(c, nil)
	stat.CorrelationMatrix(corr, dense, nil)
	return corr, nil
}

// WriteMissingReport writes the per-column missing-value counts to w.
func WriteMissingReport(w io.Writer, df dataframe.DataFrame) error {
	names, counts := MissingValueCounts(df)
	if _, err := fmt.Fprintln(w, "Missing values per column:"); err != nil {
		return errors.Wrap(err, "writing missing-value report")
	}
	for i, name := range names {
		if _, err := fmt.Fprintf(w, "  %-26s %d\n", name, counts[i]); err != nil {
			return errors.Wrap(err, "writing missing-value report")
		}
	}
	return nil
}

// WriteDescribeReport writes the descriptive-statistics table to w.
func WriteDescribeReport(w io.Writer, df dataframe.DataFrame) error {
	summaries, err := Describe(df)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%-26s %6s %12s %12s %12s %12s %12s %12s %12s\n",
		"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"); err != nil {
		return errors.Wrap(err, "writing describe report")
	}
	for _, s := range summaries {
		if _, err := fmt.Fprintf(w, "%-26s %6d %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f %12.4f\n",
			s.Name, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max); err != nil {
			return errors.Wrap(err, "writing describe report")
		}
	}
	return nil
}
