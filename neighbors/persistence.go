package neighbors

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/manabi-ml/manabi/core/model"
	"github.com/manabi-ml/manabi/pkg/errors"
)

// snapshotVersion is bumped when the on-disk layout changes.
const snapshotVersion = "1.0"

// snapshot is the JSON layout shared by both estimators. The training set
// is embedded because KNN models are the data.
type snapshot struct {
	ModelSpec struct {
		Name          string `json:"name"`
		FormatVersion string `json:"format_version"`
	} `json:"model_spec"`

	Params struct {
		K          int     `json:"n_neighbors"`
		Weights    string  `json:"weights"`
		Metric     string  `json:"metric"`
		MinkowskiP float64 `json:"p"`
	} `json:"params"`

	NSamples  int       `json:"n_samples"`
	NFeatures int       `json:"n_features"`
	XTrain    []float64 `json:"x_train"`
	YTrain    []float64 `json:"y_train"`
	Classes   []float64 `json:"classes,omitempty"`
}

func (s *searcher) toSnapshot(name string, classes []float64) *snapshot {
	snap := &snapshot{}
	snap.ModelSpec.Name = name
	snap.ModelSpec.FormatVersion = snapshotVersion
	snap.Params.K = s.k
	snap.Params.Weights = string(s.weights)
	snap.Params.Metric = string(s.metric)
	snap.Params.MinkowskiP = s.minkowskiP

	snap.NSamples = s.nSamples
	snap.NFeatures = s.nFeatures

	snap.XTrain = make([]float64, s.nSamples*s.nFeatures)
	copy(snap.XTrain, s.xTrain.RawMatrix().Data)

	snap.YTrain = make([]float64, s.nSamples)
	for i := 0; i < s.nSamples; i++ {
		snap.YTrain[i] = s.yTrain.AtVec(i)
	}

	snap.Classes = classes
	return snap
}

func (s *searcher) fromSnapshot(name string, snap *snapshot) error {
	if snap.ModelSpec.Name != name {
		return errors.Newf("model type mismatch: file contains %q, expected %q", snap.ModelSpec.Name, name)
	}
	if len(snap.XTrain) != snap.NSamples*snap.NFeatures {
		return errors.NewDimensionError(name+".Load", snap.NSamples*snap.NFeatures, len(snap.XTrain), 0)
	}
	if len(snap.YTrain) != snap.NSamples {
		return errors.NewDimensionError(name+".Load", snap.NSamples, len(snap.YTrain), 0)
	}

	s.k = snap.Params.K
	s.weights = Weights(snap.Params.Weights)
	s.metric = Metric(snap.Params.Metric)
	s.minkowskiP = snap.Params.MinkowskiP

	X := mat.NewDense(snap.NSamples, snap.NFeatures, snap.XTrain)
	y := mat.NewDense(snap.NSamples, 1, snap.YTrain)
	return s.fit(name+".Load", X, y)
}

// Save writes the classifier to path as JSON.
func (c *KNeighborsClassifier) Save(path string) error {
	if !c.IsFitted() {
		return errors.NewNotFittedError("KNeighborsClassifier", "Save")
	}
	return model.SaveModel(c.toSnapshot("KNeighborsClassifier", c.classes), path)
}

// SaveToWriter writes the classifier to w as JSON.
func (c *KNeighborsClassifier) SaveToWriter(w io.Writer) error {
	if !c.IsFitted() {
		return errors.NewNotFittedError("KNeighborsClassifier", "SaveToWriter")
	}
	return model.SaveModelToWriter(c.toSnapshot("KNeighborsClassifier", c.classes), w)
}

// Load restores a classifier previously written by Save.
func (c *KNeighborsClassifier) Load(path string) error {
	var snap snapshot
	if err := model.LoadModel(&snap, path); err != nil {
		return err
	}
	return c.restore(&snap)
}

// LoadFromReader restores a classifier from r.
func (c *KNeighborsClassifier) LoadFromReader(r io.Reader) error {
	var snap snapshot
	if err := model.LoadModelFromReader(&snap, r); err != nil {
		return err
	}
	return c.restore(&snap)
}

func (c *KNeighborsClassifier) restore(snap *snapshot) error {
	if err := c.searcher.fromSnapshot("KNeighborsClassifier", snap); err != nil {
		return err
	}
	c.classes = snap.Classes
	c.SetFitted()
	return nil
}

// Save writes the regressor to path as JSON.
func (r *KNeighborsRegressor) Save(path string) error {
	if !r.IsFitted() {
		return errors.NewNotFittedError("KNeighborsRegressor", "Save")
	}
	return model.SaveModel(r.toSnapshot("KNeighborsRegressor", nil), path)
}

// SaveToWriter writes the regressor to w as JSON.
func (r *KNeighborsRegressor) SaveToWriter(w io.Writer) error {
	if !r.IsFitted() {
		return errors.NewNotFittedError("KNeighborsRegressor", "SaveToWriter")
	}
	return model.SaveModelToWriter(r.toSnapshot("KNeighborsRegressor", nil), w)
}

// Load restores a regressor previously written by Save.
func (r *KNeighborsRegressor) Load(path string) error {
	var snap snapshot
	if err := model.LoadModel(&snap, path); err != nil {
		return err
	}
	return r.restore(&snap)
}

// LoadFromReader restores a regressor from rd.
func (r *KNeighborsRegressor) LoadFromReader(rd io.Reader) error {
	var snap snapshot
	if err := model.LoadModelFromReader(&snap, rd); err != nil {
		return err
	}
	return r.restore(&snap)
}

func (r *KNeighborsRegressor) restore(snap *snapshot) error {
	if err := r.searcher.fromSnapshot("KNeighborsRegressor", snap); err != nil {
		return err
	}
	r.SetFitted()
	return nil
}
