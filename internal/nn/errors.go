package nn

import "errors"

var (
	// ErrNoSamples is returned when there is nothing to fit or train on.
	ErrNoSamples = errors.New("no samples")

	// ErrFeatureWidth is returned when a row does not have the schema width.
	ErrFeatureWidth = errors.New("feature width mismatch")

	// ErrArtifactMismatch is returned when model and scaler artifacts do not
	// belong to the same training run or disagree on the feature schema.
	ErrArtifactMismatch = errors.New("model artifacts do not match")
)
