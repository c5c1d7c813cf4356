package models

import "time"

// EvalMetrics are computed on a held-out partition after training.
type EvalMetrics struct {
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
	AUC      float64 `json:"auc"`

	TruePositives  int `json:"true_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
}

// ModelMetadata describes one training run. It is written beside the
// model artifacts and appended to the model_metadata table.
type ModelMetadata struct {
	RunID             string      `json:"run_id"`
	TrainedAt         time.Time   `json:"trained_at"`
	NumMatches        int         `json:"num_matches"`
	ModelArchitecture string      `json:"model_architecture"`
	InputFeatures     []string    `json:"input_features"`
	EpochsRun         int         `json:"epochs_run"`
	Metrics           EvalMetrics `json:"metrics"`
}
