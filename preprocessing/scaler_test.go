package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatal(err)
	}

	r, c := scaled.Dims()
	if r != 4 || c != 2 {
		t.Fatalf("dims = %d×%d, want 4×2", r, c)
	}

	// 変換後は各列とも平均0、標準偏差1
	for j := 0; j < c; j++ {
		var sum, sumSq float64
		for i := 0; i < r; i++ {
			sum += scaled.At(i, j)
		}
		mean := sum / float64(r)
		if math.Abs(mean) > 1e-9 {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
		for i := 0; i < r; i++ {
			d := scaled.At(i, j) - mean
			sumSq += d * d
		}
		std := math.Sqrt(sumSq / float64(r))
		if math.Abs(std-1) > 1e-9 {
			t.Errorf("column %d std = %v, want 1", j, std)
		}
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, -5,
		2, 0,
		3, 5,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatal(err)
	}

	restored, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(restored.At(i, j)-X.At(i, j)) > 1e-9 {
				t.Errorf("restored[%d][%d] = %v, want %v", i, j, restored.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	// 定数列はスケール1として扱われ、ゼロ除算を起こさない
	X := mat.NewDense(3, 1, []float64{7, 7, 7})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if v := scaled.At(i, 0); v != 0 {
			t.Errorf("scaled[%d] = %v, want 0", i, v)
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("expected NotFittedError")
	}
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("error = %T, want NotFittedError", err)
	}
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 100,
		5, 150,
		10, 200,
	})

	scaler := NewMinMaxScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		i, j int
		want float64
	}{
		{0, 0, 0.0},
		{1, 0, 0.5},
		{2, 0, 1.0},
		{0, 1, 0.0},
		{1, 1, 0.5},
		{2, 1, 1.0},
	}
	for _, tt := range tests {
		if got := scaled.At(tt.i, tt.j); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("scaled[%d][%d] = %v, want %v", tt.i, tt.j, got, tt.want)
		}
	}
}

func TestMinMaxScalerCustomRange(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 10})

	scaler := NewMinMaxScaler([2]float64{-1, 1})
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(scaled.At(0, 0)-(-1)) > 1e-9 || math.Abs(scaled.At(1, 0)-1) > 1e-9 {
		t.Errorf("scaled = [%v, %v], want [-1, 1]", scaled.At(0, 0), scaled.At(1, 0))
	}
}

func TestLabelEncoder(t *testing.T) {
	y := mat.NewDense(5, 1, []float64{10, 30, 10, 20, 30})

	enc := NewLabelEncoder()
	encoded, err := enc.FitTransform(y)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0, 2, 0, 1, 2}
	for i, w := range want {
		if encoded.At(i, 0) != w {
			t.Errorf("encoded[%d] = %v, want %v", i, encoded.At(i, 0), w)
		}
	}

	classes := enc.Classes()
	if len(classes) != 3 || classes[0] != 10 || classes[2] != 30 {
		t.Errorf("classes = %v", classes)
	}

	restored, err := enc.InverseTransform(encoded)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if restored.At(i, 0) != y.At(i, 0) {
			t.Errorf("restored[%d] = %v, want %v", i, restored.At(i, 0), y.At(i, 0))
		}
	}
}

func TestLabelEncoderUnseenLabel(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit(mat.NewDense(2, 1, []float64{0, 1})); err != nil {
		t.Fatal(err)
	}

	_, err := enc.Transform(mat.NewDense(1, 1, []float64{2}))
	if err == nil {
		t.Fatal("expected error for unseen label")
	}
}
