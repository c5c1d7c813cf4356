package logic

import (
	"fmt"
	"math"

	"github.com/dotameta/metalab/internal/features"
	"github.com/dotameta/metalab/internal/models"
	"github.com/dotameta/metalab/internal/nn"
)

type predictionService struct {
	bundle *nn.Bundle
}

// NewPredictionService wraps a loaded bundle. A nil bundle gives a service
// that reports ErrModelNotLoaded for every prediction.
func NewPredictionService(bundle *nn.Bundle) PredictionService {
	return &predictionService{bundle: bundle}
}

func (s *predictionService) Loaded() bool {
	return s.bundle != nil
}

func (s *predictionService) Model() *models.ModelMetadata {
	if s.bundle == nil {
		return nil
	}
	if s.bundle.Metadata != nil {
		return s.bundle.Metadata
	}
	return &models.ModelMetadata{
		RunID:             s.bundle.RunID,
		ModelArchitecture: s.bundle.Network.Arch.String(),
		InputFeatures:     s.bundle.FeatureNames,
	}
}

// Predict returns win probabilities for both sides. The winner is Radiant
// only when its probability is strictly above one half.
func (s *predictionService) Predict(req *models.PredictRequest) (*models.PredictResponse, error) {
	if s.bundle == nil {
		return nil, ErrModelNotLoaded
	}

	p := s.bundle.Predict(features.FromMap(req.Fields()))
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("model produced invalid probability %v", p)
	}

	winner := "Dire"
	if p > 0.5 {
		winner = "Radiant"
	}

	return &models.PredictResponse{
		RadiantWinProbability: p,
		DireWinProbability:    1 - p,
		PredictedWinner:       winner,
		Confidence:            math.Max(p, 1-p),
		RunID:                 s.bundle.RunID,
	}, nil
}
