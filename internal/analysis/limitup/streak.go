package limitup

import "github.com/zhenqiu/fupan/internal/contracts"

// streakDays walks the history backward from the newest bar and counts
// consecutive limit-up days. A day with no usable percent change stops
// the walk.
func (a *Analyzer) streakDays(hist *contracts.HistoricalSeries) int {
	n := hist.Len()
	if n < 2 {
		return 0
	}

	window := a.cfg.Screen.MaxStreakWindow
	if window > n-1 {
		window = n - 1
	}

	days := 0
	for i := 0; i < window; i++ {
		bar := hist.Bars[n-1-i]
		pct, ok := bar.Pct()
		if !ok || pct < a.cfg.Screen.LimitThreshold {
			break
		}
		days++
	}
	return days
}

// totalIncrease is the cumulative gain over the streak, from the close
// before the streak started to the latest close.
func totalIncrease(hist *contracts.HistoricalSeries, days int) float64 {
	n := hist.Len()
	if days == 0 || n < days+1 {
		return 0
	}

	start := hist.Bars[n-1-days].Close
	end := hist.Bars[n-1].Close
	if start <= 0 {
		return 0
	}
	return round2((end/start - 1) * 100)
}

// dailyIncreases returns the close-to-close gain of each streak day,
// oldest first.
func dailyIncreases(hist *contracts.HistoricalSeries, days int) []float64 {
	n := hist.Len()
	if days == 0 || n < days+1 {
		return nil
	}

	out := make([]float64, days)
	for i := 0; i < days; i++ {
		cur := hist.Bars[n-1-i].Close
		prev := hist.Bars[n-2-i].Close
		if prev > 0 {
			out[days-1-i] = round2((cur/prev - 1) * 100)
		}
	}
	return out
}

// streakStrength scores a streak stock 0~100. Shrinking volume on the way
// up and a heavy traded amount both strengthen the streak.
func streakStrength(s *contracts.StockAnalysis, hist *contracts.HistoricalSeries) float64 {
	strength := 0.0

	daysTerm := float64(s.ContinuousDays) * 20
	if daysTerm > 100 {
		daysTerm = 100
	}
	strength += daysTerm * 0.4

	// 缩量连板更强
	if vols := hist.TailVolumes(3); len(vols) >= 3 {
		mean := (vols[0] + vols[1] + vols[2]) / 3
		if mean > 0 {
			switch ratio := vols[2] / mean; {
			case ratio < 0.8:
				strength += 30
			case ratio < 1.2:
				strength += 20
			default:
				strength += 10
			}
		}
	}

	switch {
	case s.Amount > 1e9:
		strength += 30
	case s.Amount > 5e8:
		strength += 20
	case s.Amount > 1e8:
		strength += 10
	}

	if strength > 100 {
		strength = 100
	}
	return round1(strength)
}
