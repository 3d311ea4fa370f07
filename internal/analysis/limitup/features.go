package limitup

import (
	"math"

	"github.com/zhenqiu/fupan/internal/contracts"
)

// computeFeatures derives the technical features used by scoring. Each
// feature degrades to its neutral value when the history is too short.
func computeFeatures(hist *contracts.HistoricalSeries) contracts.Features {
	return contracts.Features{
		PricePosition: pricePosition(hist),
		VolumeRatio:   volumeRatio(hist),
		IsBreakout:    isBreakout(hist),
		TrendStrength: trendStrength(hist),
	}
}

// pricePosition places the latest close within the last-20-day range,
// 0 at the low, 100 at the high. 50 is neutral.
func pricePosition(hist *contracts.HistoricalSeries) float64 {
	closes := hist.TailCloses(20)
	if len(closes) < 20 {
		return 50.0
	}

	current := closes[len(closes)-1]
	lowest, highest := closes[0], closes[0]
	for _, c := range closes {
		if c < lowest {
			lowest = c
		}
		if c > highest {
			highest = c
		}
	}

	if highest == lowest {
		return 50.0
	}
	return round2((current - lowest) / (highest - lowest) * 100)
}

// volumeRatio compares today's volume to the mean of the previous 5 days.
func volumeRatio(hist *contracts.HistoricalSeries) float64 {
	vols := hist.TailVolumes(6)
	if len(vols) < 6 {
		return 1.0
	}

	today := vols[5]
	sum := 0.0
	for _, v := range vols[:5] {
		sum += v
	}
	avg := sum / 5
	if avg <= 0 {
		return 1.0
	}
	return round2(today / avg)
}

// isBreakout reports whether today's close clears the prior 9-day high by
// more than 3%.
func isBreakout(hist *contracts.HistoricalSeries) bool {
	closes := hist.TailCloses(10)
	if len(closes) < 10 {
		return false
	}

	current := closes[9]
	prevMax := closes[0]
	for _, c := range closes[1:9] {
		if c > prevMax {
			prevMax = c
		}
	}
	return current > prevMax*1.03
}

// trendStrength is the percent gain over the last 5 closes.
func trendStrength(hist *contracts.HistoricalSeries) float64 {
	closes := hist.TailCloses(5)
	if len(closes) < 5 {
		return 0.0
	}

	first, last := closes[0], closes[4]
	if first <= 0 {
		return 0.0
	}
	return round2((last/first - 1) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
