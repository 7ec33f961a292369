// Package dataset loads tabular data for the estimators: CSV files through
// gota dataframes, remote files over HTTP with a local cache, and synthetic
// generators for examples and tests.
package dataset

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/manabi-ml/manabi/pkg/errors"
	"github.com/manabi-ml/manabi/pkg/log"
)

// Dataset wraps a gota dataframe with matrix extraction helpers.
type Dataset struct {
	Name string

	df dataframe.DataFrame
}

// LoadCSV reads a CSV file with a header row into a Dataset.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	ds.Name = filepath.Base(path)

	log.GetLogger().Info("dataset loaded",
		log.ComponentKey, "dataset",
		log.DatasetKey, ds.Name,
		log.SamplesKey, ds.NumRows(),
		log.FeaturesKey, ds.NumCols(),
	)

	return ds, nil
}

// ReadCSV reads CSV data with a header row from r.
func ReadCSV(r io.Reader) (*Dataset, error) {
	df := dataframe.ReadCSV(r, dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "parsing CSV")
	}
	if df.Nrow() == 0 {
		return nil, errors.NewModelError("dataset.ReadCSV", "empty data", errors.ErrEmptyData)
	}
	return &Dataset{df: df}, nil
}

// FromDataFrame wraps an existing gota dataframe.
func FromDataFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "invalid dataframe")
	}
	return &Dataset{df: df}, nil
}

// DataFrame returns the underlying gota dataframe.
func (d *Dataset) DataFrame() dataframe.DataFrame {
	return d.df
}

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string {
	return d.df.Names()
}

// NumRows returns the number of samples.
func (d *Dataset) NumRows() int {
	return d.df.Nrow()
}

// NumCols returns the number of columns.
func (d *Dataset) NumCols() int {
	return d.df.Ncol()
}

func isNumeric(t series.Type) bool {
	return t == series.Float || t == series.Int
}

// numericColumns returns the names of all numeric columns, warning once per
// skipped column.
func (d *Dataset) numericColumns() []string {
	types := d.df.Types()
	names := d.df.Names()

	numeric := make([]string, 0, len(names))
	for i, name := range names {
		if isNumeric(types[i]) {
			numeric = append(numeric, name)
			continue
		}
		errors.Warn(errors.NewDataConversionWarning(
			string(types[i]), "float64", "column "+name+" is not numeric and was skipped"))
	}
	return numeric
}

// Matrix extracts the named columns as a dense matrix. With no names given
// it takes every numeric column. Non-numeric cells become NaN, which
// CheckMatrixFinite downstream will reject.
func (d *Dataset) Matrix(cols ...string) (*mat.Dense, error) {
	if len(cols) == 0 {
		cols = d.numericColumns()
	}
	if len(cols) == 0 {
		return nil, errors.Wrap(errors.ErrNoNumericColumns, "dataset.Matrix")
	}

	rows := d.df.Nrow()
	m := mat.NewDense(rows, len(cols), nil)
	for j, name := range cols {
		col := d.df.Col(name)
		if col.Err != nil {
			return nil, errors.Wrapf(col.Err, "column %s", name)
		}
		values := col.Float()
		for i := 0; i < rows; i++ {
			m.Set(i, j, values[i])
		}
	}

	return m, nil
}

// Split extracts the feature matrix and target vector for supervised
// learning. The target column becomes y; every other numeric column
// becomes a feature.
func (d *Dataset) Split(target string) (X *mat.Dense, y *mat.Dense, err error) {
	targetCol := d.df.Col(target)
	if targetCol.Err != nil {
		return nil, nil, errors.Wrapf(targetCol.Err, "target column %s", target)
	}

	features := make([]string, 0, d.df.Ncol()-1)
	for _, name := range d.numericColumns() {
		if name != target {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, nil, errors.Wrap(errors.ErrNoNumericColumns, "dataset.Split")
	}

	if X, err = d.Matrix(features...); err != nil {
		return nil, nil, err
	}

	values := targetCol.Float()
	y = mat.NewDense(len(values), 1, values)
	return X, y, nil
}

// ColumnStats summarizes one numeric column.
type ColumnStats struct {
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

// Describe computes summary statistics for every numeric column, in column
// order.
func (d *Dataset) Describe() ([]ColumnStats, error) {
	cols := d.numericColumns()
	if len(cols) == 0 {
		return nil, errors.Wrap(errors.ErrNoNumericColumns, "dataset.Describe")
	}

	out := make([]ColumnStats, 0, len(cols))
	for _, name := range cols {
		values := d.df.Col(name).Float()

		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)

		mean, std := stat.MeanStdDev(values, nil)
		out = append(out, ColumnStats{
			Name:   name,
			Count:  len(values),
			Mean:   mean,
			Std:    std,
			Min:    sorted[0],
			Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
			Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
			Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
			Max:    sorted[len(sorted)-1],
		})
	}

	return out, nil
}
