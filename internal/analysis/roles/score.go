package roles

import (
	"math"

	"github.com/zhenqiu/fupan/internal/contracts"
)

// Score computes the weighted composite score, 0~100 for weights summing
// to 1. The limit-time term is a fixed 60 until intraday seal times are
// wired into the roster feed.
func (r *Identifier) Score(s *contracts.StockAnalysis) float64 {
	w := r.cfg.Scoring
	score := 0.0

	streakScore := float64(s.ContinuousDays) * 25
	if streakScore > 100 {
		streakScore = 100
	}
	score += streakScore * w.StreakWeight

	score += 60 * w.LimitTimeWeight

	score += amountScore(s.Amount) * w.SealAmountWeight

	// 技术形态并入流通市值权重
	score += technicalScore(s) * w.FloatCapWeight

	return math.Round(score*100) / 100
}

func amountScore(amount float64) float64 {
	switch {
	case amount > 1e9:
		return 100
	case amount > 5e8:
		return 80
	case amount > 2e8:
		return 65
	case amount > 5e7:
		return 50
	default:
		return 30
	}
}

func technicalScore(s *contracts.StockAnalysis) float64 {
	score := 50.0
	if !s.HasFeatures {
		return score
	}

	f := s.Features
	if f.IsBreakout {
		score += 20
	}
	if f.PricePosition > 70 {
		score += 15
	} else if f.PricePosition < 30 {
		score += 10
	}
	if f.TrendStrength > 5 {
		score += 10
	}
	if f.VolumeRatio > 2 {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
