package nn

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dotameta/metalab/internal/dataio"
	"github.com/dotameta/metalab/internal/features"
	"github.com/dotameta/metalab/internal/models"
)

// SchemaVersion is stamped on saved artifacts and bumped when the feature
// schema or file layout changes.
const SchemaVersion = 1

const producer = "metalab-train"

type modelFile struct {
	SchemaVersion int          `json:"schema_version"`
	RunID         string       `json:"run_id"`
	FeatureNames  []string     `json:"feature_names"`
	InputDim      int          `json:"input_dim"`
	Architecture  Architecture `json:"architecture"`
	Layers        []*Layer     `json:"layers"`
}

type scalerFile struct {
	SchemaVersion int       `json:"schema_version"`
	RunID         string    `json:"run_id"`
	FeatureNames  []string  `json:"feature_names"`
	Mean          []float64 `json:"mean"`
	Std           []float64 `json:"std"`
}

// Bundle pairs a trained network with the scaler fitted in the same run.
type Bundle struct {
	RunID        string
	FeatureNames []string
	Network      *Network
	Scaler       *Scaler
	Metadata     *models.ModelMetadata
}

// NewBundle stamps net and scaler with a fresh run id and the current schema.
func NewBundle(net *Network, scaler *Scaler) *Bundle {
	return &Bundle{
		RunID:        uuid.NewString(),
		FeatureNames: features.Names(),
		Network:      net,
		Scaler:       scaler,
	}
}

// Predict standardizes v and returns the probability that Radiant wins.
func (b *Bundle) Predict(v features.Vector) float64 {
	return b.Network.Predict(b.Scaler.TransformRow(v[:]))
}

// Save writes model.json, scaler.json and, when set, metadata.json to dir.
func (b *Bundle) Save(dir string) error {
	if _, err := dataio.SaveJSON(dir, dataio.ModelFile, modelFile{
		SchemaVersion: SchemaVersion,
		RunID:         b.RunID,
		FeatureNames:  b.FeatureNames,
		InputDim:      b.Network.InputDim,
		Architecture:  b.Network.Arch,
		Layers:        b.Network.Layers,
	}); err != nil {
		return err
	}

	if _, err := dataio.SaveJSON(dir, dataio.ScalerFile, scalerFile{
		SchemaVersion: SchemaVersion,
		RunID:         b.RunID,
		FeatureNames:  b.FeatureNames,
		Mean:          b.Scaler.Mean,
		Std:           b.Scaler.Std,
	}); err != nil {
		return err
	}

	if b.Metadata != nil {
		if _, err := dataio.SaveJSON(dir, dataio.MetadataFile, b.Metadata); err != nil {
			return err
		}
	}
	return nil
}

// LoadBundle reads the artifacts in dir and verifies that they belong
// together and can score: same schema version, same run id, same feature
// list matching the current schema, consistent widths, positive finite
// scaler deviations and finite weights. metadata.json is optional.
func LoadBundle(dir string) (*Bundle, error) {
	var mf modelFile
	if err := dataio.LoadJSON(dir, dataio.ModelFile, producer, &mf); err != nil {
		return nil, err
	}
	var sf scalerFile
	if err := dataio.LoadJSON(dir, dataio.ScalerFile, producer, &sf); err != nil {
		return nil, err
	}

	mismatch := func(format string, args ...any) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrArtifactMismatch)
	}

	if mf.SchemaVersion != SchemaVersion || sf.SchemaVersion != SchemaVersion {
		return nil, mismatch("schema versions model=%d scaler=%d, want %d", mf.SchemaVersion, sf.SchemaVersion, SchemaVersion)
	}
	if mf.RunID == "" || mf.RunID != sf.RunID {
		return nil, mismatch("run ids model=%q scaler=%q", mf.RunID, sf.RunID)
	}
	names := features.Names()
	if !slices.Equal(mf.FeatureNames, names) || !slices.Equal(sf.FeatureNames, names) {
		return nil, mismatch("feature names differ from the current schema")
	}
	if len(sf.Mean) != features.Width || len(sf.Std) != features.Width {
		return nil, mismatch("scaler width %d/%d, want %d", len(sf.Mean), len(sf.Std), features.Width)
	}
	if mf.InputDim != features.Width {
		return nil, mismatch("network input width %d, want %d", mf.InputDim, features.Width)
	}

	for j := range sf.Std {
		if !finite(sf.Mean[j]) || !finite(sf.Std[j]) || sf.Std[j] <= 0 {
			return nil, mismatch("scaler feature %s has mean=%v std=%v", names[j], sf.Mean[j], sf.Std[j])
		}
	}

	net := &Network{InputDim: mf.InputDim, Arch: mf.Architecture, Layers: mf.Layers}
	if err := net.checkShape(); err != nil {
		return nil, mismatch("%v", err)
	}
	if err := net.checkWeights(); err != nil {
		return nil, mismatch("%v", err)
	}

	b := &Bundle{
		RunID:        mf.RunID,
		FeatureNames: mf.FeatureNames,
		Network:      net,
		Scaler:       &Scaler{Mean: sf.Mean, Std: sf.Std},
	}

	var meta models.ModelMetadata
	err := dataio.LoadJSON(dir, dataio.MetadataFile, producer, &meta)
	switch {
	case err == nil:
		if meta.RunID != b.RunID {
			return nil, mismatch("metadata run id %q, model run id %q", meta.RunID, b.RunID)
		}
		b.Metadata = &meta
	case !errors.Is(err, dataio.ErrMissingInput):
		return nil, err
	}

	return b, nil
}
