package contracts

// Stock role labels. These strings appear verbatim in reports and
// notifications, do not rename.
const (
	RoleLeader  = "龙头"
	RoleCore    = "中军"
	RoleCatchUp = "补涨"
	RoleWatch   = "观察"
)

// RoleAssignment partitions the day's stocks into four disjoint role sets.
// 每只股票恰好出现在一个列表里。
type RoleAssignment struct {
	Leaders  []*StockAnalysis `json:"leaders"`
	Cores    []*StockAnalysis `json:"cores"`
	CatchUps []*StockAnalysis `json:"catch_ups"`
	Watch    []*StockAnalysis `json:"watch"`
}

// Total returns the number of stocks across all four sets.
func (r *RoleAssignment) Total() int {
	return len(r.Leaders) + len(r.Cores) + len(r.CatchUps) + len(r.Watch)
}

// RoleOf returns the role label for a stock code, or 观察 when the code
// is unknown.
func (r *RoleAssignment) RoleOf(code string) string {
	for _, s := range r.Leaders {
		if s.Code == code {
			return RoleLeader
		}
	}
	for _, s := range r.Cores {
		if s.Code == code {
			return RoleCore
		}
	}
	for _, s := range r.CatchUps {
		if s.Code == code {
			return RoleCatchUp
		}
	}
	return RoleWatch
}
