package contracts

// CoreStock is one of a sector's top stocks with its in-sector role label.
type CoreStock struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Role           string  `json:"role"` // 高度龙头/跟随龙/趋势中军/补涨跟风
	ContinuousDays int     `json:"continuous_days"`
	Amount         float64 `json:"amount"`
}

// SectorGroup is a sector with at least two limit-up stocks on the day.
type SectorGroup struct {
	Name          string           `json:"name"`
	Stocks        []*StockAnalysis `json:"stocks"`
	StrengthScore float64          `json:"strength_score"` // 0~100
	Structure     string           `json:"structure"`      // 梯队结构
	CapitalInflow float64          `json:"capital_inflow"` // 合计成交额，元
	Persistence   string           `json:"persistence"`    // 持续性判断
	CoreStocks    []CoreStock      `json:"core_stocks"`
}

// MaxStreak returns the highest continuous-days count in the group.
func (g *SectorGroup) MaxStreak() int {
	max := 0
	for _, s := range g.Stocks {
		if s.ContinuousDays > max {
			max = s.ContinuousDays
		}
	}
	return max
}
