package nn

import (
	"sort"

	"github.com/dotameta/metalab/internal/models"
)

// Metrics summarizes predictions on a labeled set.
type Metrics = models.EvalMetrics

// Evaluate scores X against Y at a 0.5 threshold.
func (n *Network) Evaluate(X [][]float64, Y []float64) Metrics {
	var m Metrics
	if len(X) == 0 {
		return m
	}

	scores := n.PredictBatch(X)
	var loss float64
	for i, p := range scores {
		loss += bce(p, Y[i])
		pos, actual := p > 0.5, Y[i] > 0.5
		switch {
		case pos && actual:
			m.TruePositives++
		case !pos && !actual:
			m.TrueNegatives++
		case pos && !actual:
			m.FalsePositives++
		default:
			m.FalseNegatives++
		}
	}

	m.Loss = loss / float64(len(X))
	m.Accuracy = float64(m.TruePositives+m.TrueNegatives) / float64(len(X))
	m.AUC = AUC(scores, Y)
	return m
}

// AUC is the area under the ROC curve, computed from score ranks with ties
// sharing their average rank. It is 0.5 when only one class is present.
func AUC(scores, labels []float64) float64 {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	var nPos, nNeg, rankSum float64
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && scores[idx[end]] == scores[idx[start]] {
			end++
		}
		// ranks start..end-1 are tied; 1-based average rank
		avg := float64(start+end+1) / 2
		for _, i := range idx[start:end] {
			if labels[i] > 0.5 {
				nPos++
				rankSum += avg
			} else {
				nNeg++
			}
		}
		start = end
	}

	if nPos == 0 || nNeg == 0 {
		return 0.5
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg)
}
