package reviewcfg

import (
	"fmt"
	"math"
)

// ValidationError 校验失败时中止启动。
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var knownRoles = map[string]bool{
	"龙头": true,
	"中军": true,
	"补涨": true,
}

// Validate checks all required constraints. Failure aborts before a run starts.
func Validate(cfg *Config) error {
	if cfg.Meta.ConfigID == "" {
		return ValidationError{"meta.config_id", "required"}
	}

	if cfg.Screen.LimitThreshold <= 0 || cfg.Screen.LimitThreshold > 30 {
		return ValidationError{"screen.limit_threshold", "must be in (0, 30]"}
	}
	if cfg.Screen.MaxStreakWindow < 2 {
		return ValidationError{"screen.max_streak_window", "must be >= 2"}
	}
	if cfg.Screen.MinHistoryBars < 2 {
		return ValidationError{"screen.min_history_bars", "must be >= 2"}
	}

	if cfg.History.LookbackDays < cfg.Screen.MaxStreakWindow {
		return ValidationError{"history.lookback_days", fmt.Sprintf("must be >= max_streak_window=%d", cfg.Screen.MaxStreakWindow)}
	}

	if cfg.Sector.StrengthThreshold < 1 {
		return ValidationError{"sector.strength_threshold", "must be >= 1"}
	}
	if cfg.Sector.MinGroupSize < 1 {
		return ValidationError{"sector.min_group_size", "must be >= 1"}
	}

	// 四个权重各自在 [0,1]，之和必须约等于 1.0
	w := cfg.Scoring
	if err := validateWeightRange(w.StreakWeight, "scoring.streak_weight"); err != nil {
		return err
	}
	if err := validateWeightRange(w.LimitTimeWeight, "scoring.limit_time_weight"); err != nil {
		return err
	}
	if err := validateWeightRange(w.SealAmountWeight, "scoring.seal_amount_weight"); err != nil {
		return err
	}
	if err := validateWeightRange(w.FloatCapWeight, "scoring.float_cap_weight"); err != nil {
		return err
	}
	if math.Abs(w.Sum()-1.0) > 0.01 {
		return ValidationError{"scoring", fmt.Sprintf("weights must sum to 1.0±0.01, got %.4f", w.Sum())}
	}

	for i, role := range cfg.Commentary.Roles {
		if !knownRoles[role] {
			return ValidationError{
				Field:   fmt.Sprintf("commentary.roles[%d]", i),
				Message: fmt.Sprintf("unknown role %q, must be one of 龙头/中军/补涨", role),
			}
		}
	}

	if cfg.Report.TopThemes < 1 {
		return ValidationError{"report.top_themes", "must be >= 1"}
	}
	if cfg.Report.TopStocks < 1 {
		return ValidationError{"report.top_stocks", "must be >= 1"}
	}

	return nil
}

func validateWeightRange(v float64, field string) error {
	if v < 0 || v > 1 {
		return ValidationError{field, "must be in [0, 1]"}
	}
	return nil
}
