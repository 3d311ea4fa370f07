package contracts

// Features are the technical features derived from a stock's kline history.
type Features struct {
	PricePosition float64 `json:"price_position"` // 近20日价格位置 0~100
	VolumeRatio   float64 `json:"volume_ratio"`   // 量比
	IsBreakout    bool    `json:"is_breakout"`    // 放量突破前高
	TrendStrength float64 `json:"trend_strength"` // 近5日趋势强度 %
}

// Indicators are display-only technical indicators. They feed the report,
// never the scoring.
type Indicators struct {
	RSI5 float64 `json:"rsi_5"`
	MA5  float64 `json:"ma_5"`
	MA10 float64 `json:"ma_10"`
}

// StockAnalysis is the per-stock record built by the limit-up analyzer and
// enriched by the role identifier. 每只股票每次运行只建一条。
type StockAnalysis struct {
	LimitUpRecord

	Features    Features   `json:"features"`
	HasFeatures bool       `json:"has_features"` // false when history was too short
	Indicators  Indicators `json:"indicators"`

	ContinuousDays     int       `json:"continuous_days"`     // 连板天数，含今日
	TotalIncrease      float64   `json:"total_increase"`      // 连板累计涨幅 %
	DailyIncreases     []float64 `json:"daily_increases"`     // 连板期间每日涨幅，旧→新
	ContinuousStrength float64   `json:"continuous_strength"` // 连板强度 0~100

	Sector         string  `json:"sector"`          // 板块，角色识别阶段写入
	CompositeScore float64 `json:"composite_score"` // 综合得分 0~100
}

// MarketSummary aggregates the day's limit-up roster.
type MarketSummary struct {
	TradeDate    string  `json:"trade_date"`
	TotalCount   int     `json:"total_count"`
	TotalAmount  float64 `json:"total_amount"` // 亿
	AvgAmount    float64 `json:"avg_amount"`   // 亿
	TotalVolume  float64 `json:"total_volume"`
	AvgPctChange float64 `json:"avg_pct_change"`
	MaxPctChange float64 `json:"max_pct_change"`
	MinPctChange float64 `json:"min_pct_change"`
	Sentiment    string  `json:"sentiment"`    // 高潮/活跃/温和/清淡/冰点
	SuccessRate  string  `json:"success_rate"` // 打板成功率估计
}

// AnalysisResult is the output of the limit-up analysis stage.
type AnalysisResult struct {
	Summary      MarketSummary    `json:"summary"`
	Stocks       []*StockAnalysis `json:"stocks"`
	StreakStocks []*StockAnalysis `json:"streak_stocks"` // continuous_days >= 2，按连板数降序
}
