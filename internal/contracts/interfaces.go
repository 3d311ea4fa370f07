package contracts

import "context"

// SectorLookup maps a stock code to a sector name. The sector analyzer and
// role identifier must share the same lookup so a stock never lands in two
// different sectors within one run.
type SectorLookup interface {
	Sector(code string) string
}

// LimitUpAnalyzer builds per-stock analysis and the market summary from the
// day's roster and kline history.
type LimitUpAnalyzer interface {
	Analyze(ctx context.Context, roster []LimitUpRecord, history map[string]*HistoricalSeries) (*AnalysisResult, error)
}

// SectorAnalyzer groups analyzed stocks into sector themes.
type SectorAnalyzer interface {
	Analyze(ctx context.Context, stocks []*StockAnalysis) ([]*SectorGroup, error)
}

// RoleIdentifier partitions the day's stocks into role sets.
type RoleIdentifier interface {
	Identify(ctx context.Context, stocks []*StockAnalysis, sectors []*SectorGroup) (*RoleAssignment, error)
}

// StrategyGenerator renders the final report. commentary may be nil.
type StrategyGenerator interface {
	Generate(ctx context.Context, analysis *AnalysisResult, roles *RoleAssignment, commentary map[string]*Commentary) (*StrategyReport, error)
}

// CommentaryProvider produces AI commentary for selected stocks, keyed by
// stock code. Individual failures drop the stock from the map.
type CommentaryProvider interface {
	Commentate(ctx context.Context, roles *RoleAssignment) (map[string]*Commentary, error)
}

// MarketDataSource supplies the roster and kline history.
type MarketDataSource interface {
	LimitUpRoster(ctx context.Context, date string) ([]LimitUpRecord, error)
	History(ctx context.Context, code, start, end string) (*HistoricalSeries, error)
}

// Notifier pushes a finished report (or a failure) to an external channel.
type Notifier interface {
	SendReport(ctx context.Context, report *StrategyReport, markdown string) error
	SendError(ctx context.Context, message string) error
}
