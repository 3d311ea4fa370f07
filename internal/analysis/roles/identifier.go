// Package roles partitions the day's limit-up stocks into 龙头/中军/补涨/观察
// using a weighted multi-factor score within each strong sector.
package roles

import (
	"context"
	"sort"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// Identifier implements contracts.RoleIdentifier.
type Identifier struct {
	cfg    *reviewcfg.Config
	log    *logger.Logger
	lookup contracts.SectorLookup
}

// New creates a role identifier. lookup must be the same instance the
// sector analyzer used.
func New(cfg *reviewcfg.Config, log *logger.Logger, lookup contracts.SectorLookup) *Identifier {
	if lookup == nil {
		lookup = defaultLookup{}
	}
	return &Identifier{cfg: cfg, log: log, lookup: lookup}
}

type defaultLookup struct{}

func (defaultLookup) Sector(string) string { return "其他" }

// Identify assigns each stock to exactly one of the four role sets. Sectors
// below the strength threshold send all their stocks to 观察, as do stocks
// in strong sectors that win no role.
func (r *Identifier) Identify(ctx context.Context, stocks []*contracts.StockAnalysis, sectors []*contracts.SectorGroup) (*contracts.RoleAssignment, error) {
	out := &contracts.RoleAssignment{
		Leaders:  []*contracts.StockAnalysis{},
		Cores:    []*contracts.StockAnalysis{},
		CatchUps: []*contracts.StockAnalysis{},
		Watch:    []*contracts.StockAnalysis{},
	}
	if len(stocks) == 0 {
		return out, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups, order := r.groupBySector(stocks, sectors)

	for _, name := range order {
		members := groups[name]
		if len(members) < r.cfg.Sector.StrengthThreshold {
			out.Watch = append(out.Watch, members...)
			continue
		}

		picked := r.pickSectorRoles(members)
		taken := make(map[string]bool)
		if picked.leader != nil {
			out.Leaders = append(out.Leaders, picked.leader)
			taken[picked.leader.Code] = true
		}
		if picked.core != nil {
			out.Cores = append(out.Cores, picked.core)
			taken[picked.core.Code] = true
		}
		if picked.catchUp != nil {
			out.CatchUps = append(out.CatchUps, picked.catchUp)
			taken[picked.catchUp.Code] = true
		}
		for _, s := range members {
			if !taken[s.Code] {
				out.Watch = append(out.Watch, s)
			}
		}
	}

	sortByScore(out.Leaders)
	sortByScore(out.Cores)
	sortByScore(out.CatchUps)

	r.log.WithFields(map[string]interface{}{
		"leaders":   len(out.Leaders),
		"cores":     len(out.Cores),
		"catch_ups": len(out.CatchUps),
		"watch":     len(out.Watch),
	}).Info("role identification complete")

	return out, nil
}

// groupBySector buckets the stocks. A stock listed among a sector group's
// core stocks belongs there; everything else goes through the shared
// lookup. Group order is first appearance in the input.
func (r *Identifier) groupBySector(stocks []*contracts.StockAnalysis, sectors []*contracts.SectorGroup) (map[string][]*contracts.StockAnalysis, []string) {
	coreIndex := make(map[string]string)
	for _, g := range sectors {
		for _, cs := range g.CoreStocks {
			if _, ok := coreIndex[cs.Code]; !ok {
				coreIndex[cs.Code] = g.Name
			}
		}
	}

	groups := make(map[string][]*contracts.StockAnalysis)
	var order []string
	for _, s := range stocks {
		name, ok := coreIndex[s.Code]
		if !ok {
			name = r.lookup.Sector(s.Code)
		}
		s.Sector = name
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], s)
	}
	return groups, order
}

type sectorRoles struct {
	leader  *contracts.StockAnalysis
	core    *contracts.StockAnalysis
	catchUp *contracts.StockAnalysis
}

// pickSectorRoles scores every member and selects at most one stock per
// role. Ties keep the earlier stock in input order.
func (r *Identifier) pickSectorRoles(members []*contracts.StockAnalysis) sectorRoles {
	for _, s := range members {
		s.CompositeScore = r.Score(s)
	}

	ranked := make([]*contracts.StockAnalysis, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})

	var picked sectorRoles
	picked.leader = pickLeader(ranked)
	picked.core = pickCore(ranked, picked.leader)
	picked.catchUp = pickCatchUp(ranked, picked.leader, picked.core)
	return picked
}

// pickLeader prefers the highest-scored stock with a 2-day-plus streak,
// falling back to the overall top score.
func pickLeader(ranked []*contracts.StockAnalysis) *contracts.StockAnalysis {
	var best *contracts.StockAnalysis
	for _, s := range ranked {
		if s.ContinuousDays < 2 {
			continue
		}
		if best == nil || s.CompositeScore > best.CompositeScore {
			best = s
		}
	}
	if best != nil {
		return best
	}
	return ranked[0]
}

// pickCore takes the largest traded amount among the top 5 scored. On a
// collision with the leader it retries among ranks 2~3; when nothing is
// left the sector simply has no 中军 that day.
func pickCore(ranked []*contracts.StockAnalysis, leader *contracts.StockAnalysis) *contracts.StockAnalysis {
	if len(ranked) < 2 {
		return nil
	}

	n := 5
	if len(ranked) < n {
		n = len(ranked)
	}
	core := maxByAmount(ranked[:n])

	if leader != nil && core.Code == leader.Code {
		var retry []*contracts.StockAnalysis
		if len(ranked) > 2 {
			for _, s := range ranked[1:3] {
				if s.Code != leader.Code {
					retry = append(retry, s)
				}
			}
		}
		if len(retry) == 0 {
			return nil
		}
		core = maxByAmount(retry)
	}
	return core
}

// pickCatchUp looks for a low-position early-streak stock, falling back to
// breakouts among the bottom 3 scored. A collision with the leader or the
// core discards the pick, there is no second try.
func pickCatchUp(ranked []*contracts.StockAnalysis, leader, core *contracts.StockAnalysis) *contracts.StockAnalysis {
	if len(ranked) < 3 {
		return nil
	}

	var candidates []*contracts.StockAnalysis
	for _, s := range ranked {
		if s.ContinuousDays <= 1 && pricePosition(s) < 50 {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		for _, s := range ranked[len(ranked)-3:] {
			if s.HasFeatures && s.Features.IsBreakout {
				candidates = append(candidates, s)
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	pick := candidates[0]
	for _, s := range candidates[1:] {
		if trendStrength(s) > trendStrength(pick) {
			pick = s
		}
	}

	if leader != nil && pick.Code == leader.Code {
		return nil
	}
	if core != nil && pick.Code == core.Code {
		return nil
	}
	return pick
}

func maxByAmount(stocks []*contracts.StockAnalysis) *contracts.StockAnalysis {
	best := stocks[0]
	for _, s := range stocks[1:] {
		if s.Amount > best.Amount {
			best = s
		}
	}
	return best
}

func pricePosition(s *contracts.StockAnalysis) float64 {
	if !s.HasFeatures {
		return 50
	}
	return s.Features.PricePosition
}

func trendStrength(s *contracts.StockAnalysis) float64 {
	if !s.HasFeatures {
		return 0
	}
	return s.Features.TrendStrength
}

func sortByScore(stocks []*contracts.StockAnalysis) {
	sort.SliceStable(stocks, func(i, j int) bool {
		return stocks[i].CompositeScore > stocks[j].CompositeScore
	})
}
