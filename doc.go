// Package manabi provides a k-nearest neighbor toolkit for Go with a
// scikit-learn-like API: estimators, model selection, metrics and dataset
// loading for tabular machine learning.
//
// # Quick Start
//
// Fit a classifier on two features and predict:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "github.com/manabi-ml/manabi/neighbors"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{0, 0, 1, 1, 9, 9, 10, 10})
//	    y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
//
//	    clf := neighbors.NewKNeighborsClassifier(neighbors.WithK(3))
//	    if err := clf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := clf.Predict(mat.NewDense(1, 2, []float64{8, 8}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("predicted class:", pred.At(0, 0))
//	}
//
// # Packages
//
//   - neighbors: KNeighborsClassifier and KNeighborsRegressor
//   - modelselection: k-fold splitters, cross-validation, grid search
//   - metrics: classification and regression metrics
//   - preprocessing: scalers and label encoding
//   - dataset: CSV loading, HTTP fetching, synthetic generators
//   - visualize: PNG plots and terminal charts
//   - core/model: shared estimator interfaces and persistence
//   - core/tensor: matrix helpers (shuffling, slicing, reshaping)
//   - core/parallel: chunked parallel execution
//
// Neighbor search parallelizes automatically across CPU cores for larger
// query batches; pass neighbors.WithNJobs(1) to force sequential execution.
package manabi
