package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/dataset"
	"github.com/manabi-ml/manabi/internal/config"
	"github.com/manabi-ml/manabi/metrics"
	"github.com/manabi-ml/manabi/modelselection"
	"github.com/manabi-ml/manabi/neighbors"
	"github.com/manabi-ml/manabi/pkg/log"
	"github.com/manabi-ml/manabi/preprocessing"
	"github.com/manabi-ml/manabi/visualize"
)

var (
	configFile string
	cacheDir   string
	targetCol  string
	logLevel   string
	plotFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "manabi",
		Short: "k-nearest neighbor experiments on tabular data",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLogLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLogger(log.NewZerologLogger(os.Stderr, log.Level(level)))
			log.InstallWarningBridge()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	fetchCmd := &cobra.Command{
		Use:   "fetch [url]",
		Short: "download a dataset into the local cache",
		Args:  cobra.ExactArgs(1),
		RunE:  fetchDataset,
	}
	fetchCmd.Flags().StringVar(&cacheDir, "cache", config.DefaultCacheDir, "cache directory")

	describeCmd := &cobra.Command{
		Use:   "describe [file.csv]",
		Short: "print summary statistics for a CSV dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  describeDataset,
	}

	cvCmd := &cobra.Command{
		Use:   "cv",
		Short: "cross-validate a KNN estimator from a config file",
		RunE:  runCrossValidation,
	}
	cvCmd.Flags().StringVar(&configFile, "config", "experiment.yaml", "experiment config (yaml)")
	cvCmd.Flags().StringVar(&targetCol, "target", "", "override the target column")
	cvCmd.Flags().StringVar(&plotFile, "plot", "", "save the grid validation curve to this file (png, svg, pdf)")

	rootCmd.AddCommand(fetchCmd, describeCmd, cvCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func fetchDataset(cmd *cobra.Command, args []string) error {
	path, err := dataset.Fetch(context.Background(), args[0], cacheDir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func describeDataset(cmd *cobra.Command, args []string) error {
	ds, err := dataset.LoadCSV(args[0])
	if err != nil {
		return err
	}

	stats, err := ds.Describe()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			s.Name, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
	}
	return w.Flush()
}

func runCrossValidation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if targetCol != "" {
		cfg.Data.Target = targetCol
	}

	X, y, err := loadExperimentData(cfg)
	if err != nil {
		return err
	}

	if cfg.Data.Scale {
		scaler := preprocessing.NewStandardScalerDefault()
		scaled, err := scaler.FitTransform(X)
		if err != nil {
			return err
		}
		X = mat.DenseCopyOf(scaled)
	}

	var splitter modelselection.Splitter
	if cfg.Eval.Stratified && cfg.Estimator.Task == "classification" {
		splitter = modelselection.NewStratifiedKFold(cfg.Eval.Folds, cfg.Eval.Shuffle, cfg.Eval.Seed)
	} else {
		splitter = modelselection.NewKFold(cfg.Eval.Folds, cfg.Eval.Shuffle, cfg.Eval.Seed)
	}

	scorer, scorerName := taskScorer(cfg.Estimator.Task)

	if len(cfg.Eval.GridK) > 0 {
		return runGrid(cfg, X, y, splitter, scorer, scorerName)
	}

	result, err := modelselection.CrossValidate(func() modelselection.Estimator {
		return buildEstimator(cfg, cfg.Estimator.Neighbors)
	}, X, y, splitter, scorer)
	if err != nil {
		return err
	}

	fmt.Printf("%s over %d folds: %.4f (+/- %.4f)\n",
		scorerName, cfg.Eval.Folds, result.GetMeanScore(), result.GetStdScore())
	for i, s := range result.TestScores {
		fmt.Printf("  fold %d: %.4f\n", i+1, s)
	}
	return nil
}

func runGrid(cfg *config.Config, X, y mat.Matrix, splitter modelselection.Splitter,
	scorer modelselection.Scorer, scorerName string) error {

	weightSchemes := cfg.Eval.GridWeights
	if len(weightSchemes) == 0 {
		weightSchemes = []string{cfg.Estimator.Weights}
	}

	kValues := make([]any, 0, len(cfg.Eval.GridK))
	for _, k := range cfg.Eval.GridK {
		kValues = append(kValues, k)
	}
	weightValues := make([]any, 0, len(weightSchemes))
	for _, w := range weightSchemes {
		weightValues = append(weightValues, w)
	}

	gs := modelselection.NewGridSearchCV(func(params map[string]any) (modelselection.Estimator, error) {
		candidate := *cfg
		k := candidate.Estimator.Neighbors
		if kk, ok := params["n_neighbors"].(int); ok {
			k = kk
		}
		if w, ok := params["weights"].(string); ok {
			candidate.Estimator.Weights = w
		}
		return buildEstimator(&candidate, k), nil
	}, modelselection.ParamGrid{
		"n_neighbors": kValues,
		"weights":     weightValues,
	}, splitter, scorer, true)

	if err := gs.Fit(X, y); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "n_neighbors\tweights\t%s\tstd\n", scorerName)
	for _, cand := range gs.Results {
		fmt.Fprintf(w, "%v\t%v\t%.4f\t%.4f\n",
			cand.Params["n_neighbors"], cand.Params["weights"], cand.MeanScore, cand.StdScore)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// One curve point per k: the best candidate across weight schemes.
	ks := make([]float64, 0, len(cfg.Eval.GridK))
	means := make([]float64, 0, len(cfg.Eval.GridK))
	stds := make([]float64, 0, len(cfg.Eval.GridK))
	for _, k := range cfg.Eval.GridK {
		first := true
		var mean, std float64
		for _, cand := range gs.Results {
			if cand.Params["n_neighbors"] != k {
				continue
			}
			if first || cand.MeanScore > mean {
				mean, std = cand.MeanScore, cand.StdScore
				first = false
			}
		}
		ks = append(ks, float64(k))
		means = append(means, mean)
		stds = append(stds, std)
	}

	if plotFile != "" {
		if err := visualize.ValidationCurve(ks, means, stds, "n_neighbors", scorerName+" by n_neighbors", plotFile); err != nil {
			return err
		}
		fmt.Println("validation curve saved to", plotFile)
	}

	chart, err := visualize.TerminalCurve(means, scorerName+" by n_neighbors", 60, 10)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(chart)
	fmt.Printf("\nbest: n_neighbors=%v weights=%v with %s %.4f\n",
		gs.BestParams["n_neighbors"], gs.BestParams["weights"], scorerName, gs.BestScore)
	return nil
}

func loadExperimentData(cfg *config.Config) (*mat.Dense, *mat.Dense, error) {
	var (
		ds  *dataset.Dataset
		err error
	)
	if cfg.Data.URL != "" {
		ds, err = dataset.FetchCSV(context.Background(), cfg.Data.URL, cfg.Data.CacheDir)
	} else {
		ds, err = dataset.LoadCSV(cfg.Data.Path)
	}
	if err != nil {
		return nil, nil, err
	}
	return ds.Split(cfg.Data.Target)
}

func buildEstimator(cfg *config.Config, k int) modelselection.Estimator {
	opts := []neighbors.Option{
		neighbors.WithK(k),
		neighbors.WithWeights(neighbors.Weights(cfg.Estimator.Weights)),
		neighbors.WithMetric(neighbors.Metric(cfg.Estimator.Metric)),
	}
	if cfg.Estimator.MinkowskiP > 0 {
		opts = append(opts, neighbors.WithMinkowskiP(cfg.Estimator.MinkowskiP))
	}

	if cfg.Estimator.Task == "regression" {
		return neighbors.NewKNeighborsRegressor(opts...)
	}
	return neighbors.NewKNeighborsClassifier(opts...)
}

func taskScorer(task string) (modelselection.Scorer, string) {
	if task == "regression" {
		return metrics.R2Score, "r2"
	}
	return metrics.Accuracy, "accuracy"
}
