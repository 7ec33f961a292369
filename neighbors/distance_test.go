package neighbors

import (
	"math"
	"testing"
)

func TestDistanceFunc(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}

	tests := []struct {
		name   string
		metric Metric
		p      float64
		want   float64
	}{
		{"euclidean", Euclidean, 2, 5.0},
		{"squared euclidean", SquaredEuclidean, 2, 25.0},
		{"manhattan", Manhattan, 1, 7.0},
		{"chebyshev", Chebyshev, 2, 4.0},
		{"minkowski p=2 matches euclidean", Minkowski, 2, 5.0},
		{"minkowski p=1 matches manhattan", Minkowski, 1, 7.0},
		{"minkowski p=3", Minkowski, 3, math.Pow(27+64, 1.0/3.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, err := distanceFunc(tt.metric, tt.p)
			if err != nil {
				t.Fatalf("distanceFunc failed: %v", err)
			}
			if got := dist(a, b); math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("dist = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceFuncInvalid(t *testing.T) {
	if _, err := distanceFunc("cosine", 2); err == nil {
		t.Error("unknown metric should fail")
	}
	if _, err := distanceFunc(Minkowski, 0.5); err == nil {
		t.Error("minkowski with p < 1 should fail")
	}
}
