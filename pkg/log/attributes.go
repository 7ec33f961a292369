// Package log defines standard attribute keys for machine learning operations.
//
// Using these keys consistently enables structured analysis and filtering of
// training, evaluation and data-loading logs. Keys follow a hierarchical
// naming convention (e.g. "model.name", "data.samples").

package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "KNeighborsClassifier", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score", "kneighbors"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "neighbors", "preprocessing", "modelselection", "dataset"
	ComponentKey = "ml.component"
)

// Data shape and characteristics.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// DatasetKey names the dataset or its source file.
	DatasetKey = "data.name"

	// URLKey records the remote source of a fetched dataset.
	URLKey = "data.url"
)

// Cross-validation and hyperparameter context.
const (
	// NeighborsKey records the k hyperparameter of a KNN estimator.
	NeighborsKey = "knn.k"

	// WeightsKey records the KNN weighting scheme ("uniform" or "distance").
	WeightsKey = "knn.weights"

	// FoldKey identifies the fold index within a cross-validation run.
	FoldKey = "cv.fold"

	// FoldsKey records the total number of folds.
	FoldsKey = "cv.folds"

	// MetricKey names the evaluation metric being reported.
	MetricKey = "eval.metric"

	// ScoreKey records a scalar evaluation result.
	ScoreKey = "eval.score"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
