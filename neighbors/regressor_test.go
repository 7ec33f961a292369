package neighbors

import (
	"bytes"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKNeighborsRegressorFitPredict(t *testing.T) {
	// y = 2x on a regular grid; interior queries average their bracket.
	X := mat.NewDense(6, 1, []float64{0, 1, 2, 3, 4, 5})
	y := mat.NewDense(6, 1, []float64{0, 2, 4, 6, 8, 10})

	reg := NewKNeighborsRegressor(WithK(2))
	if err := reg.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	tests := []struct {
		name  string
		query float64
		want  float64
	}{
		{"midpoint of 1 and 2", 1.5, 3.0},
		{"midpoint of 3 and 4", 3.5, 7.0},
		{"below the range", -1.0, 1.0},
		{"above the range", 6.0, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := reg.Predict(mat.NewDense(1, 1, []float64{tt.query}))
			if err != nil {
				t.Fatalf("Predict failed: %v", err)
			}
			if got := pred.At(0, 0); math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Predict(%v) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestKNeighborsRegressorDistanceWeighting(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{-2, 1, 4})
	y := mat.NewDense(3, 1, []float64{0, 10, 40})

	reg := NewKNeighborsRegressor(WithK(2), WithWeights(Distance))
	if err := reg.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Query at 2: neighbors are 1 (dist 1, target 10) and 4 (dist 2,
	// target 40). Weights 1 and 0.5, so (10 + 20) / 1.5 = 20.
	pred, err := reg.Predict(mat.NewDense(1, 1, []float64{2}))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if got := pred.At(0, 0); math.Abs(got-20.0) > 1e-10 {
		t.Errorf("weighted prediction = %v, want 20.0", got)
	}

	// Exact match returns the training target untouched.
	pred, err = reg.Predict(mat.NewDense(1, 1, []float64{1}))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if got := pred.At(0, 0); got != 10.0 {
		t.Errorf("exact match prediction = %v, want 10.0", got)
	}
}

func TestKNeighborsRegressorScore(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})
	y := mat.NewDense(5, 1, []float64{1, 3, 5, 7, 9})

	// k=1 reproduces the training targets exactly, so R^2 is 1.
	reg := NewKNeighborsRegressor(WithK(1))
	if err := reg.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := reg.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if math.Abs(score-1.0) > 1e-10 {
		t.Errorf("training R^2 = %v, want 1.0", score)
	}
}

func TestKNeighborsRegressorNotFitted(t *testing.T) {
	reg := NewKNeighborsRegressor()
	X := mat.NewDense(1, 1, []float64{0})

	if _, err := reg.Predict(X); err == nil {
		t.Error("Predict before Fit should fail")
	}
	if _, _, err := reg.KNeighbors(X, 1); err == nil {
		t.Error("KNeighbors before Fit should fail")
	}
	if _, err := reg.Score(X, X); err == nil {
		t.Error("Score before Fit should fail")
	}
}

func TestKNeighborsRegressorSaveLoad(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 1,
		2, 2,
		3, 3,
	})
	y := mat.NewDense(4, 1, []float64{0, 1, 2, 3})

	reg := NewKNeighborsRegressor(WithK(2), WithMetric(Chebyshev))
	if err := reg.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	var buf bytes.Buffer
	if err := reg.SaveToWriter(&buf); err != nil {
		t.Fatalf("SaveToWriter failed: %v", err)
	}

	restored := &KNeighborsRegressor{}
	if err := restored.LoadFromReader(&buf); err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	query := mat.NewDense(1, 2, []float64{1.4, 1.4})
	want, err := reg.Predict(query)
	if err != nil {
		t.Fatalf("Predict on original failed: %v", err)
	}
	got, err := restored.Predict(query)
	if err != nil {
		t.Fatalf("Predict on restored failed: %v", err)
	}
	if !mat.EqualApprox(want, got, 1e-12) {
		t.Errorf("restored prediction = %v, want %v", got, want)
	}
}

func TestKNeighborsRegressorLoadWrongModel(t *testing.T) {
	X, y := clusterData()
	clf := NewKNeighborsClassifier(WithK(3))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	var buf bytes.Buffer
	if err := clf.SaveToWriter(&buf); err != nil {
		t.Fatalf("SaveToWriter failed: %v", err)
	}

	restored := &KNeighborsRegressor{}
	if err := restored.LoadFromReader(&buf); err == nil {
		t.Error("loading a classifier snapshot into a regressor should fail")
	}
}
