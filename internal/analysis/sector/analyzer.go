// Package sector groups the day's limit-up stocks into sector themes and
// scores each theme's strength.
package sector

import (
	"context"
	"sort"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// Analyzer implements contracts.SectorAnalyzer.
type Analyzer struct {
	cfg    *reviewcfg.Config
	log    *logger.Logger
	lookup contracts.SectorLookup
}

// New creates a sector analyzer. lookup must be the same instance handed to
// the role identifier so sector assignment stays consistent within a run.
func New(cfg *reviewcfg.Config, log *logger.Logger, lookup contracts.SectorLookup) *Analyzer {
	if lookup == nil {
		lookup = HashLookup{}
	}
	return &Analyzer{cfg: cfg, log: log, lookup: lookup}
}

// Lookup returns the sector lookup in use.
func (a *Analyzer) Lookup() contracts.SectorLookup {
	return a.lookup
}

// Analyze groups analyzed stocks by sector and scores each group. Groups
// below the minimum size are dropped. Output is sorted by strength
// descending, sector name ascending on ties.
func (a *Analyzer) Analyze(ctx context.Context, stocks []*contracts.StockAnalysis) ([]*contracts.SectorGroup, error) {
	if len(stocks) == 0 {
		return []*contracts.SectorGroup{}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grouped := make(map[string][]*contracts.StockAnalysis)
	for _, s := range stocks {
		name := a.lookup.Sector(s.Code)
		s.Sector = name
		grouped[name] = append(grouped[name], s)
	}

	var out []*contracts.SectorGroup
	for name, members := range grouped {
		if len(members) < a.cfg.Sector.MinGroupSize {
			continue
		}
		out = append(out, a.analyzeGroup(name, members))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StrengthScore != out[j].StrengthScore {
			return out[i].StrengthScore > out[j].StrengthScore
		}
		return out[i].Name < out[j].Name
	})

	a.log.WithField("sectors", len(out)).Info("sector analysis complete")
	return out, nil
}

func (a *Analyzer) analyzeGroup(name string, members []*contracts.StockAnalysis) *contracts.SectorGroup {
	g := &contracts.SectorGroup{Name: name, Stocks: members}

	g.StrengthScore = strengthScore(members)
	g.Structure = structure(members)
	for _, s := range members {
		g.CapitalInflow += s.Amount
	}
	g.Persistence = persistence(g.StrengthScore)
	g.CoreStocks = coreStocks(members)

	return g
}

// strengthScore combines count, streak height and traded amount into 0~100.
func strengthScore(members []*contracts.StockAnalysis) float64 {
	countScore := float64(len(members)) * 10
	if countScore > 50 {
		countScore = 50
	}

	maxStreak := 0
	totalAmount := 0.0
	for _, s := range members {
		if s.ContinuousDays > maxStreak {
			maxStreak = s.ContinuousDays
		}
		totalAmount += s.Amount
	}

	streakScore := float64(maxStreak) * 15
	if streakScore > 30 {
		streakScore = 30
	}

	var amountScore float64
	switch {
	case totalAmount > 5e9:
		amountScore = 20
	case totalAmount > 1e9:
		amountScore = 15
	case totalAmount > 5e8:
		amountScore = 10
	default:
		amountScore = 5
	}

	return countScore + streakScore + amountScore
}

// structure labels the sector's streak ladder by how many distinct heights
// it holds.
func structure(members []*contracts.StockAnalysis) string {
	heights := make(map[int]struct{})
	for _, s := range members {
		heights[s.ContinuousDays] = struct{}{}
	}

	switch {
	case len(heights) >= 3:
		return "完整（多梯队）"
	case len(heights) == 2:
		return "一般（双梯队）"
	default:
		return "单一（单梯队）"
	}
}

func persistence(strength float64) string {
	switch {
	case strength >= 70:
		return "强势，有望持续"
	case strength >= 50:
		return "中等，可能分化"
	case strength >= 30:
		return "一般，谨慎参与"
	default:
		return "弱势，可能一日游"
	}
}

// coreStocks picks the top 3 by streak height and labels each with its
// in-sector role.
func coreStocks(members []*contracts.StockAnalysis) []contracts.CoreStock {
	ranked := make([]*contracts.StockAnalysis, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ContinuousDays > ranked[j].ContinuousDays
	})

	maxAmount := 0.0
	for _, s := range ranked {
		if s.Amount > maxAmount {
			maxAmount = s.Amount
		}
	}

	n := 3
	if len(ranked) < n {
		n = len(ranked)
	}

	out := make([]contracts.CoreStock, 0, n)
	for _, s := range ranked[:n] {
		out = append(out, contracts.CoreStock{
			Code:           s.Code,
			Name:           s.Name,
			Role:           coreRole(s, maxAmount),
			ContinuousDays: s.ContinuousDays,
			Amount:         s.Amount,
		})
	}
	return out
}

func coreRole(s *contracts.StockAnalysis, maxAmount float64) string {
	switch {
	case s.ContinuousDays >= 3:
		return "高度龙头"
	case s.ContinuousDays == 2:
		return "跟随龙"
	case s.Amount >= maxAmount*0.7:
		return "趋势中军"
	default:
		return "补涨/跟风"
	}
}
