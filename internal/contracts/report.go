package contracts

import "time"

// ReportSummary is the market overview section of a strategy report.
type ReportSummary struct {
	TotalLimitUps int    `json:"total_limit_ups"`
	MaxStreak     int    `json:"max_streak"`
	SuccessRate   string `json:"success_rate"`
	Sentiment     string `json:"sentiment"`
	ProfitEffect  string `json:"profit_effect"` // 好/一般/差
}

// Theme is a hot-sector entry in the report.
type Theme struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	LeaderCount int    `json:"leader_count"`
	Stars       int    `json:"stars"` // 1~5
	Persistence string `json:"persistence"`
}

// StockStrategy is the per-stock trading plan. AI fields are only filled
// when commentary ran for that stock.
type StockStrategy struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	StrategyType string `json:"strategy_type"` // 核心持仓/趋势跟随/短线套利
	Advice       string `json:"advice"`
	BuyCondition string `json:"buy_condition"`
	StopLoss     string `json:"stop_loss"` // 格式化后的价格字符串
	Target       string `json:"target"`
	Remark       string `json:"remark,omitempty"`

	Catalyst  string   `json:"catalyst,omitempty"` // 首条涨停原因的摘要
	AIReasons []string `json:"ai_reasons,omitempty"`
	AISummary string   `json:"ai_summary,omitempty"`
	AIDetail  string   `json:"ai_detail,omitempty"`
	AIRole    string   `json:"ai_role,omitempty"`
}

// ReportMeta records when and from what a report was produced.
type ReportMeta struct {
	GeneratedAt time.Time `json:"generated_at"`
	TradeDate   string    `json:"trade_date"`
	Version     string    `json:"version"`
	DataSource  string    `json:"data_source"`
	ConfigHash  string    `json:"config_hash,omitempty"`
	EmptyReport bool      `json:"empty_report"`
}

// StrategyReport is the final output of a review run.
type StrategyReport struct {
	Summary            ReportSummary   `json:"summary"`
	Themes             []Theme         `json:"themes"`
	StockStrategies    []StockStrategy `json:"stock_strategies"`
	RiskWarnings       []string        `json:"risk_warnings"`
	TradingSuggestions []string        `json:"trading_suggestions"`
	Meta               ReportMeta      `json:"meta"`
}

// Commentary is the AI commentary for a single stock. A failed commentary
// call yields no entry, never a partial one.
type Commentary struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Summary    string    `json:"summary"`
	Detail     string    `json:"detail"`
	Reasons    []string  `json:"reasons"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}
