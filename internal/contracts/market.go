package contracts

// LimitUpRecord is one entry of the daily limit-up roster as fetched
// from the quote source. Amounts are in 元, volume in 手.
type LimitUpRecord struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`       // 收盘价
	PctChange  float64 `json:"pct_change"`  // 涨跌幅 %
	Amount     float64 `json:"amount"`      // 成交额
	Volume     float64 `json:"volume"`      // 成交量
	Turnover   float64 `json:"turnover"`    // 换手率 %
	LimitTime  string  `json:"limit_time"`  // 首次封板时间 HHMMSS，可能为空
	SealAmount float64 `json:"seal_amount"` // 封单金额
	Industry   string  `json:"industry"`    // 数据源给出的行业，可能为空
}

// DailyBar is a single kline bar. PctChange is only meaningful when
// HasPctChange is set; otherwise derive from PreClose.
type DailyBar struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Open         float64 `json:"open"`
	Close        float64 `json:"close"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Volume       float64 `json:"volume"`
	Amount       float64 `json:"amount"`
	PreClose     float64 `json:"pre_close"`
	PctChange    float64 `json:"pct_change"`
	HasPctChange bool    `json:"has_pct_change"`
}

// Pct returns the percent change of the bar. Falls back to deriving from
// PreClose when the source did not carry a pct field. ok=false means the
// bar cannot yield a percent change at all.
func (b DailyBar) Pct() (float64, bool) {
	if b.HasPctChange {
		return b.PctChange, true
	}
	if b.PreClose > 0 {
		return (b.Close/b.PreClose - 1) * 100, true
	}
	return 0, false
}

// HistoricalSeries is a stock's kline history, oldest bar first.
type HistoricalSeries struct {
	Code string     `json:"code"`
	Bars []DailyBar `json:"bars"`
}

// Len returns the number of bars.
func (h *HistoricalSeries) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Bars)
}

// LastClose returns the most recent close, 0 when empty.
func (h *HistoricalSeries) LastClose() float64 {
	if h.Len() == 0 {
		return 0
	}
	return h.Bars[len(h.Bars)-1].Close
}

// TailCloses returns up to n most recent closes, oldest first.
func (h *HistoricalSeries) TailCloses(n int) []float64 {
	if h.Len() == 0 || n <= 0 {
		return nil
	}
	start := len(h.Bars) - n
	if start < 0 {
		start = 0
	}
	out := make([]float64, 0, len(h.Bars)-start)
	for _, b := range h.Bars[start:] {
		out = append(out, b.Close)
	}
	return out
}

// TailVolumes returns up to n most recent volumes, oldest first.
func (h *HistoricalSeries) TailVolumes(n int) []float64 {
	if h.Len() == 0 || n <= 0 {
		return nil
	}
	start := len(h.Bars) - n
	if start < 0 {
		start = 0
	}
	out := make([]float64, 0, len(h.Bars)-start)
	for _, b := range h.Bars[start:] {
		out = append(out, b.Volume)
	}
	return out
}
