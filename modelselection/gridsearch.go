package modelselection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/pkg/errors"
	"github.com/manabi-ml/manabi/pkg/log"
)

// ParamGrid maps a hyperparameter name to the candidate values to try.
// The search covers the cartesian product of all value lists.
type ParamGrid map[string][]any

// Candidate records the cross-validated performance of one parameter
// combination.
type Candidate struct {
	Params    map[string]any
	MeanScore float64
	StdScore  float64
}

// GridSearchCV exhaustively evaluates every combination of a parameter grid
// with cross-validation and refits the best combination on the full data.
type GridSearchCV struct {
	factory         func(params map[string]any) (Estimator, error)
	grid            ParamGrid
	splitter        Splitter
	scorer          Scorer
	greaterIsBetter bool

	// Populated by Fit.
	BestParams    map[string]any
	BestScore     float64
	BestEstimator Estimator
	Results       []Candidate
}

// NewGridSearchCV creates a grid search. factory builds an estimator from a
// parameter combination; greaterIsBetter is true for score metrics
// (accuracy, R^2) and false for loss metrics (MSE, log loss).
func NewGridSearchCV(
	factory func(params map[string]any) (Estimator, error),
	grid ParamGrid,
	splitter Splitter,
	scorer Scorer,
	greaterIsBetter bool,
) *GridSearchCV {
	return &GridSearchCV{
		factory:         factory,
		grid:            grid,
		splitter:        splitter,
		scorer:          scorer,
		greaterIsBetter: greaterIsBetter,
	}
}

// Fit evaluates every parameter combination and refits the best one on the
// full dataset. Candidates are enumerated in deterministic order.
func (g *GridSearchCV) Fit(X, y mat.Matrix) error {
	if g.factory == nil {
		return errors.NewValueError("GridSearchCV.Fit", "estimator factory must not be nil")
	}
	if len(g.grid) == 0 {
		return errors.NewValueError("GridSearchCV.Fit", "parameter grid must not be empty")
	}

	names := make([]string, 0, len(g.grid))
	for name := range g.grid {
		if len(g.grid[name]) == 0 {
			return errors.NewValidationError(name, "has no candidate values", nil)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	logger := log.GetLogger().With(
		log.ComponentKey, "modelselection",
		log.OperationKey, "grid_search",
	)

	g.Results = g.Results[:0]
	g.BestParams = nil
	g.BestScore = math.Inf(-1)
	if !g.greaterIsBetter {
		g.BestScore = math.Inf(1)
	}

	if err := g.searchRecursive(X, y, names, 0, make(map[string]any), logger); err != nil {
		return err
	}

	logger.Info("grid search finished",
		log.ScoreKey, g.BestScore,
	)

	// Refit the winner on all the data.
	best, err := g.factory(g.BestParams)
	if err != nil {
		return errors.Wrap(err, "GridSearchCV.Fit: rebuilding best estimator")
	}
	if err := best.Fit(X, y); err != nil {
		return errors.Wrap(err, "GridSearchCV.Fit: refitting best estimator")
	}
	g.BestEstimator = best

	return nil
}

func (g *GridSearchCV) searchRecursive(X, y mat.Matrix, names []string, depth int, current map[string]any, logger log.Logger) error {
	if depth == len(names) {
		params := make(map[string]any, len(current))
		for k, v := range current {
			params[k] = v
		}

		result, err := CrossValidate(func() Estimator {
			est, buildErr := g.factory(params)
			if buildErr != nil {
				panic(buildErr)
			}
			return est
		}, X, y, g.splitter, g.scorer)
		if err != nil {
			return errors.Wrapf(err, "evaluating candidate %v", params)
		}

		mean := result.GetMeanScore()
		g.Results = append(g.Results, Candidate{
			Params:    params,
			MeanScore: mean,
			StdScore:  result.GetStdScore(),
		})

		logger.Debug("candidate evaluated",
			log.ScoreKey, mean,
		)

		better := mean > g.BestScore
		if !g.greaterIsBetter {
			better = mean < g.BestScore
		}
		if better {
			g.BestScore = mean
			g.BestParams = params
		}
		return nil
	}

	name := names[depth]
	for _, val := range g.grid[name] {
		current[name] = val
		if err := g.searchRecursive(X, y, names, depth+1, current, logger); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}
