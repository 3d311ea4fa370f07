package reviewcfg

// Config 是复盘分析的全部参数。所有阈值和权重只从这里读取。
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Screen     Screen     `yaml:"screen" json:"screen"`
	History    History    `yaml:"history" json:"history"`
	Sector     Sector     `yaml:"sector" json:"sector"`
	Scoring    Scoring    `yaml:"scoring" json:"scoring"`
	Commentary Commentary `yaml:"commentary" json:"commentary"`
	Report     Report     `yaml:"report" json:"report"`
}

// Meta identifies a config revision. The hash of the whole config is
// attached to every report for reproducibility.
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
}

// Screen controls limit-up detection.
type Screen struct {
	// LimitThreshold is the daily percent change at or above which a bar
	// counts as a limit-up day. 主板 10% 减一点容差.
	LimitThreshold float64 `yaml:"limit_threshold" json:"limit_threshold"`
	// MaxStreakWindow caps how many days the streak walk looks back.
	MaxStreakWindow int `yaml:"max_streak_window" json:"max_streak_window"`
	// MinHistoryBars is the minimum kline length needed to compute features.
	MinHistoryBars int `yaml:"min_history_bars" json:"min_history_bars"`
}

// History controls kline fetching.
type History struct {
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"`
}

// Sector controls sector grouping and theme strength.
type Sector struct {
	// StrengthThreshold is the minimum stock count for a sector to enter
	// role analysis and theme reporting.
	StrengthThreshold int `yaml:"strength_threshold" json:"strength_threshold"`
	// MinGroupSize is the minimum count for a sector group to be reported at all.
	MinGroupSize int `yaml:"min_group_size" json:"min_group_size"`
}

// Scoring holds the four composite-score weights. 必须加起来约等于 1.0。
type Scoring struct {
	StreakWeight     float64 `yaml:"streak_weight" json:"streak_weight"`
	LimitTimeWeight  float64 `yaml:"limit_time_weight" json:"limit_time_weight"`
	SealAmountWeight float64 `yaml:"seal_amount_weight" json:"seal_amount_weight"`
	FloatCapWeight   float64 `yaml:"float_cap_weight" json:"float_cap_weight"`
}

// Sum returns the sum of the four weights.
func (s Scoring) Sum() float64 {
	return s.StreakWeight + s.LimitTimeWeight + s.SealAmountWeight + s.FloatCapWeight
}

// Commentary controls the AI commentary stage.
type Commentary struct {
	Enable bool `yaml:"enable" json:"enable"`
	// Roles lists which role labels get commentary (subset of 龙头/中军/补涨).
	Roles []string `yaml:"roles" json:"roles"`
}

// Report controls report shaping.
type Report struct {
	TopThemes int `yaml:"top_themes" json:"top_themes"`
	TopStocks int `yaml:"top_stocks" json:"top_stocks"`
}
