package neighbors

// Weights selects how neighbor contributions are combined.
type Weights string

const (
	// Uniform gives all neighbors equal weight.
	Uniform Weights = "uniform"
	// Distance weights neighbors by inverse distance. An exact match
	// (zero distance) dominates the prediction.
	Distance Weights = "distance"
)

// params holds the hyperparameters shared by both KNN estimators.
type params struct {
	k          int
	weights    Weights
	metric     Metric
	minkowskiP float64
	nJobs      int
}

func defaultParams() params {
	return params{
		k:          5,
		weights:    Uniform,
		metric:     Euclidean,
		minkowskiP: 2,
		nJobs:      -1,
	}
}

// Option is a function that configures a KNN estimator.
type Option func(*params)

// WithK sets the number of neighbors to use.
func WithK(k int) Option {
	return func(p *params) {
		p.k = k
	}
}

// WithWeights sets the neighbor weighting scheme.
func WithWeights(w Weights) Option {
	return func(p *params) {
		p.weights = w
	}
}

// WithMetric sets the distance metric.
func WithMetric(m Metric) Option {
	return func(p *params) {
		p.metric = m
	}
}

// WithMinkowskiP sets the exponent of the Minkowski metric.
func WithMinkowskiP(exp float64) Option {
	return func(p *params) {
		p.minkowskiP = exp
	}
}

// WithNJobs sets the number of parallel jobs. 1 disables parallel search,
// any other value uses all CPU cores.
func WithNJobs(n int) Option {
	return func(p *params) {
		p.nJobs = n
	}
}
