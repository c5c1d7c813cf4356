package nn

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TrainConfig controls optimization, early stopping and learning-rate decay.
type TrainConfig struct {
	Epochs       int     `validate:"gt=0"`
	BatchSize    int     `validate:"gt=0"`
	LearningRate float64 `validate:"gt=0"`

	// Early stopping on validation loss. Zero disables it.
	Patience int `validate:"gte=0"`

	// Learning rate is multiplied by LRFactor after LRPatience epochs
	// without improvement, never going below MinLR. Zero LRPatience disables decay.
	LRFactor   float64 `validate:"gt=0,lte=1"`
	LRPatience int     `validate:"gte=0"`
	MinLR      float64 `validate:"gte=0"`

	Seed   int64
	Logger *zap.Logger `validate:"-"`
}

// DefaultTrainConfig returns 50 epochs of batch 32 at lr 1e-3, patience 10,
// and halving the rate after 5 stale epochs down to 1e-5.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:       50,
		BatchSize:    32,
		LearningRate: 1e-3,
		Patience:     10,
		LRFactor:     0.5,
		LRPatience:   5,
		MinLR:        1e-5,
		Seed:         42,
	}
}

var validate = validator.New()

// EpochStats records one epoch.
type EpochStats struct {
	Epoch        int     `json:"epoch"`
	Loss         float64 `json:"loss"`
	Accuracy     float64 `json:"accuracy"`
	ValLoss      float64 `json:"val_loss"`
	ValAccuracy  float64 `json:"val_accuracy"`
	LearningRate float64 `json:"learning_rate"`
}

// History is the per-epoch training log.
type History struct {
	Epochs       []EpochStats `json:"epochs"`
	BestEpoch    int          `json:"best_epoch"`
	BestValLoss  float64      `json:"best_val_loss"`
	StoppedEarly bool         `json:"stopped_early"`
}

// adam holds first and second moment estimates shaped like the network.
type adam struct {
	m, v []*Layer
	t    int
}

const (
	beta1 = 0.9
	beta2 = 0.999
)

func newAdam(n *Network) *adam {
	a := &adam{}
	for _, l := range n.Layers {
		a.m = append(a.m, newLayer(l.In, l.Out))
		a.v = append(a.v, newLayer(l.In, l.Out))
	}
	return a
}

func (a *adam) step(n *Network, grads []*Layer, lr float64, scale float64) {
	a.t++
	c1 := 1 - math.Pow(beta1, float64(a.t))
	c2 := 1 - math.Pow(beta2, float64(a.t))
	update := func(p, g, m, v []float64) {
		for i := range p {
			gi := g[i] * scale
			m[i] = beta1*m[i] + (1-beta1)*gi
			v[i] = beta2*v[i] + (1-beta2)*gi*gi
			p[i] -= lr * (m[i] / c1) / (math.Sqrt(v[i]/c2) + epsilon)
		}
	}
	for i, l := range n.Layers {
		update(l.W, grads[i].W, a.m[i].W, a.v[i].W)
		update(l.B, grads[i].B, a.m[i].B, a.v[i].B)
	}
}

// workspace holds per-sample activations reused across steps.
type workspace struct {
	a     [][]float64 // input to each layer
	z     [][]float64 // pre-activation of each layer
	mask  [][]float64 // dropout multiplier of each hidden layer
	delta [][]float64 // dLoss/dz of each layer
}

func newWorkspace(n *Network) *workspace {
	ws := &workspace{}
	for i, l := range n.Layers {
		if i > 0 {
			ws.a = append(ws.a, make([]float64, l.In))
		} else {
			ws.a = append(ws.a, nil)
		}
		ws.z = append(ws.z, make([]float64, l.Out))
		ws.mask = append(ws.mask, make([]float64, l.Out))
		ws.delta = append(ws.delta, make([]float64, l.Out))
	}
	return ws
}

// backprop runs one sample forward with dropout and accumulates gradients
// into grads. It returns the predicted probability.
func (n *Network) backprop(x []float64, y float64, ws *workspace, grads []*Layer, rng *rand.Rand) float64 {
	last := len(n.Layers) - 1
	ws.a[0] = x
	for li, l := range n.Layers {
		l.forward(ws.a[li], ws.z[li])
		if li == last {
			break
		}
		rate := n.Arch.Dropout[li]
		for o, zv := range ws.z[li] {
			m := 1.0
			if rate > 0 {
				if rng.Float64() < rate {
					m = 0
				} else {
					m = 1 / (1 - rate)
				}
			}
			ws.mask[li][o] = m
			if zv > 0 {
				ws.a[li+1][o] = zv * m
			} else {
				ws.a[li+1][o] = 0
			}
		}
	}

	p := sigmoid(ws.z[last][0])
	ws.delta[last][0] = p - y

	for li := last; li >= 0; li-- {
		l, g, in, d := n.Layers[li], grads[li], ws.a[li], ws.delta[li]
		for o := 0; o < l.Out; o++ {
			g.B[o] += d[o]
			row := g.W[o*l.In : (o+1)*l.In]
			for i, xi := range in {
				row[i] += d[o] * xi
			}
		}
		if li == 0 {
			break
		}
		prev, zPrev, maskPrev := ws.delta[li-1], ws.z[li-1], ws.mask[li-1]
		for i := 0; i < l.In; i++ {
			if zPrev[i] <= 0 || maskPrev[i] == 0 {
				prev[i] = 0
				continue
			}
			var s float64
			for o := 0; o < l.Out; o++ {
				s += l.W[o*l.In+i] * d[o]
			}
			prev[i] = s * maskPrev[i]
		}
	}
	return p
}

func checkInputs(n *Network, X [][]float64, Y []float64) error {
	if len(X) == 0 {
		return ErrNoSamples
	}
	if len(X) != len(Y) {
		return fmt.Errorf("%d rows but %d labels", len(X), len(Y))
	}
	for i, row := range X {
		if len(row) != n.InputDim {
			return fmt.Errorf("row %d has %d fields, want %d: %w", i, len(row), n.InputDim, ErrFeatureWidth)
		}
	}
	return nil
}

// Train fits the network with mini-batch Adam on binary cross-entropy.
// Validation data drives early stopping and learning-rate decay; when it is
// empty the training loss is monitored instead. The weights of the best
// monitored epoch are restored before returning. ctx is checked between
// epochs only.
func (n *Network) Train(ctx context.Context, X [][]float64, Y []float64, Xval [][]float64, Yval []float64, cfg TrainConfig) (*History, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid train config: %w", err)
	}
	if err := checkInputs(n, X, Y); err != nil {
		return nil, err
	}
	hasVal := len(Xval) > 0
	if hasVal {
		if err := checkInputs(n, Xval, Yval); err != nil {
			return nil, fmt.Errorf("validation data: %w", err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Sugar()

	rng := rand.New(rand.NewSource(cfg.Seed))
	opt := newAdam(n)
	ws := newWorkspace(n)
	grads := make([]*Layer, len(n.Layers))
	for i, l := range n.Layers {
		grads[i] = newLayer(l.In, l.Out)
	}

	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}

	hist := &History{BestValLoss: math.Inf(1), BestEpoch: -1}
	best := n.snapshot()
	lr := cfg.LearningRate
	stale, lrStale := 0, 0
	lrBest := math.Inf(1)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			n.Layers = best
			return hist, err
		}

		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var lossSum float64
		var correct int
		for start := 0; start < len(order); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(order) {
				end = len(order)
			}
			for _, g := range grads {
				g.zero()
			}
			for _, idx := range order[start:end] {
				p := n.backprop(X[idx], Y[idx], ws, grads, rng)
				lossSum += bce(p, Y[idx])
				if (p > 0.5) == (Y[idx] > 0.5) {
					correct++
				}
			}
			opt.step(n, grads, lr, 1/float64(end-start))
		}

		stats := EpochStats{
			Epoch:        epoch,
			Loss:         lossSum / float64(len(X)),
			Accuracy:     float64(correct) / float64(len(X)),
			LearningRate: lr,
		}
		monitored := stats.Loss
		if hasVal {
			m := n.Evaluate(Xval, Yval)
			stats.ValLoss, stats.ValAccuracy = m.Loss, m.Accuracy
			monitored = m.Loss
		}
		hist.Epochs = append(hist.Epochs, stats)

		log.Infow("Epoch finished",
			"epoch", epoch,
			"loss", stats.Loss,
			"accuracy", stats.Accuracy,
			"valLoss", stats.ValLoss,
			"valAccuracy", stats.ValAccuracy,
			"learningRate", lr,
		)

		if monitored < hist.BestValLoss {
			hist.BestValLoss = monitored
			hist.BestEpoch = epoch
			best = n.snapshot()
			stale = 0
		} else {
			stale++
		}

		if monitored < lrBest {
			lrBest = monitored
			lrStale = 0
		} else {
			lrStale++
			if cfg.LRPatience > 0 && lrStale >= cfg.LRPatience && lr > cfg.MinLR {
				lr = math.Max(lr*cfg.LRFactor, cfg.MinLR)
				lrStale = 0
				log.Infow("Reducing learning rate", "epoch", epoch, "learningRate", lr)
			}
		}

		if cfg.Patience > 0 && stale >= cfg.Patience {
			hist.StoppedEarly = true
			log.Infow("Early stopping", "epoch", epoch, "bestEpoch", hist.BestEpoch)
			break
		}
	}

	n.Layers = best
	return hist, nil
}
