// Command train fits the scaler and the classifier on the processed feature
// CSV, evaluates on the held-out test partition and writes the paired
// artifacts to MODEL_DIR.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/config"
	"github.com/dotameta/metalab/internal/dataio"
	"github.com/dotameta/metalab/internal/dataset"
	"github.com/dotameta/metalab/internal/features"
	"github.com/dotameta/metalab/internal/logging"
	"github.com/dotameta/metalab/internal/models"
	"github.com/dotameta/metalab/internal/nn"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Sugar().Errorw("Training failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Sugar()

	f, err := dataio.Open(cfg.DataDir, dataio.ProcessedCSVFile, "cmd/extract")
	if err != nil {
		return err
	}
	rows, err := features.ReadCSV(f)
	f.Close()
	if err != nil {
		return err
	}

	ds := dataset.Build(rows)
	if ds.Len() == 0 {
		return fmt.Errorf("%s has no rows: %w", dataio.ProcessedCSVFile, nn.ErrNoSamples)
	}

	part, err := dataset.Split(ds.Len(), dataset.SplitConfig{
		Validation: cfg.ValidationSplit,
		Test:       cfg.TestSplit,
		Seed:       cfg.RandomSeed,
	})
	if err != nil {
		return err
	}
	train, val, test := ds.Subset(part.Train), ds.Subset(part.Validation), ds.Subset(part.Test)
	log.Infow("Dataset split",
		"total", ds.Len(),
		"train", train.Len(),
		"validation", val.Len(),
		"test", test.Len(),
		"radiantWinRate", ds.PositiveRate(),
	)

	scaler := &nn.Scaler{}
	if err := scaler.Fit(train.X); err != nil {
		return err
	}
	xTrain, err := scaler.Transform(train.X)
	if err != nil {
		return err
	}
	xVal, err := scaler.Transform(val.X)
	if err != nil {
		return err
	}
	xTest, err := scaler.Transform(test.X)
	if err != nil {
		return err
	}

	net, err := nn.NewNetwork(features.Width, nn.DefaultArchitecture, cfg.RandomSeed)
	if err != nil {
		return err
	}
	log.Infow("Training", "architecture", net.Arch.String(), "epochs", cfg.Epochs, "batchSize", cfg.BatchSize)

	tc := nn.DefaultTrainConfig()
	tc.Epochs = cfg.Epochs
	tc.BatchSize = cfg.BatchSize
	tc.LearningRate = cfg.LearningRate
	tc.Seed = cfg.RandomSeed
	tc.Logger = logger

	history, err := net.Train(ctx, xTrain, train.Y, xVal, val.Y, tc)
	if err != nil {
		return err
	}

	// Small datasets may leave the test partition empty
	evalX, evalY, evalName := xTest, test.Y, "test"
	if len(evalY) == 0 {
		evalX, evalY, evalName = xVal, val.Y, "validation"
	}
	if len(evalY) == 0 {
		evalX, evalY, evalName = xTrain, train.Y, "train"
	}
	metrics := net.Evaluate(evalX, evalY)
	log.Infow("Evaluation",
		"partition", evalName,
		"loss", metrics.Loss,
		"accuracy", metrics.Accuracy,
		"auc", metrics.AUC,
		"tp", metrics.TruePositives,
		"tn", metrics.TrueNegatives,
		"fp", metrics.FalsePositives,
		"fn", metrics.FalseNegatives,
	)

	bundle := nn.NewBundle(net, scaler)
	bundle.Metadata = &models.ModelMetadata{
		RunID:             bundle.RunID,
		TrainedAt:         time.Now().UTC(),
		NumMatches:        ds.Len(),
		ModelArchitecture: net.Arch.String(),
		InputFeatures:     bundle.FeatureNames,
		EpochsRun:         len(history.Epochs),
		Metrics:           metrics,
	}
	if err := bundle.Save(cfg.ModelDir); err != nil {
		return err
	}

	log.Infow("Model saved",
		"dir", cfg.ModelDir,
		"runID", bundle.RunID,
		"epochsRun", len(history.Epochs),
		"bestEpoch", history.BestEpoch,
		"stoppedEarly", history.StoppedEarly,
	)
	return nil
}
