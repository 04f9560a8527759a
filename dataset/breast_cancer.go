// Package dataset bundles the breast-cancer diagnostic table and materializes
// it as an in-memory dataframe plus gonum matrices.
//
// The table has 569 rows, 30 numeric feature columns and one binary target
// column (0 = malignant, 1 = benign). The source ships with the binary via
// go:embed, so loading has no external inputs; a corrupt or missing bundle is
// fatal to the run.
package dataset

import (
	_ "embed"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bcdiag/pkg/errors"
)

//go:embed wdbc.csv
var wdbcCSV string

// TargetColumn is the name of the label column in the bundled table.
const TargetColumn = "target"

// Table is an immutable view over the loaded dataset.
type Table struct {
	df           dataframe.DataFrame
	featureNames []string
	features     *mat.Dense
	target       *mat.Dense
}

// LoadBreastCancer parses the bundled table and validates its invariants:
// the feature matrix and label vector have the same row count, labels take
// only the values 0 and 1, and no cell is missing.
func LoadBreastCancer() (*Table, error) {
	return loadFromCSV("wdbc.csv", wdbcCSV)
}

func loadFromCSV(source, raw string) (*Table, error) {
	df := dataframe.ReadCSV(strings.NewReader(raw))
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "parsing bundled csv")
	}

	nRows := df.Nrow()
	if nRows == 0 {
		return nil, errors.NewDataError(source, "no rows")
	}

	names := df.Names()
	targetIdx := -1
	for i, name := range names {
		if name == TargetColumn {
			targetIdx = i
		}
	}
	if targetIdx == -1 {
		return nil, errors.NewDataError(source, "missing target column")
	}

	featureNames := make([]string, 0, len(names)-1)
	for _, name := range names {
		if name != TargetColumn {
			featureNames = append(featureNames, name)
		}
	}

	features := mat.NewDense(nRows, len(featureNames), nil)
	for j, name := range featureNames {
		col := df.Col(name)
		for _, missing := range col.IsNaN() {
			if missing {
				return nil, errors.NewDataError(source, "column "+name+" contains missing values")
			}
		}
		values := col.Float()
		for i, v := range values {
			features.Set(i, j, v)
		}
	}

	target := mat.NewDense(nRows, 1, nil)
	for i, v := range df.Col(TargetColumn).Float() {
		if v != 0 && v != 1 {
			return nil, errors.Wrap(errors.ErrNonBinaryTarget, "validating "+source)
		}
		target.Set(i, 0, v)
	}

	return &Table{
		df:           df,
		featureNames: featureNames,
		features:     features,
		target:       target,
	}, nil
}

// Features returns the n×30 feature matrix.
func (t *Table) Features() *mat.Dense {
	return t.features
}

// Target returns the n×1 label matrix with values in {0, 1}.
func (t *Table) Target() *mat.Dense {
	return t.target
}

// FeatureNames returns the feature column names in table order.
func (t *Table) FeatureNames() []string {
	out := make([]string, len(t.featureNames))
	copy(out, t.featureNames)
	return out
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	return t.df.Nrow()
}

// DataFrame returns the underlying dataframe, target column included.
// The EDA reporter consumes this read-only view.
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}
