package limitup

import "github.com/zhenqiu/fupan/internal/contracts"

// computeIndicators calculates the display-only indicators over the last
// 10 closes. They never feed scoring.
func computeIndicators(hist *contracts.HistoricalSeries) contracts.Indicators {
	closes := hist.TailCloses(10)

	ind := contracts.Indicators{
		RSI5: rsi(closes, 5),
		MA5:  closes[len(closes)-1],
		MA10: closes[len(closes)-1],
	}

	if len(closes) >= 5 {
		ind.MA5 = mean(closes[len(closes)-5:])
	}
	if len(closes) >= 10 {
		ind.MA10 = mean(closes)
	}
	return ind
}

// rsi computes a simple (non-smoothed) RSI over the first `period` deltas.
// Returns the neutral 50 when there is not enough data, 100 when there were
// no losing days in the window.
func rsi(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 50.0
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return round2(100 - 100/(1+rs))
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
