package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

type mapLookup map[string]string

func (m mapLookup) Sector(code string) string {
	if s, ok := m[code]; ok {
		return s
	}
	return "其他"
}

func newTestIdentifier(lookup contracts.SectorLookup) *Identifier {
	return New(reviewcfg.Default(), logger.NewNop(), lookup)
}

func stock(code string, days int, amount float64) *contracts.StockAnalysis {
	return &contracts.StockAnalysis{
		LimitUpRecord:  contracts.LimitUpRecord{Code: code, Name: code, Amount: amount},
		ContinuousDays: days,
		HasFeatures:    true,
		Features:       contracts.Features{PricePosition: 50, VolumeRatio: 1},
	}
}

func sameSector(codes ...string) mapLookup {
	m := mapLookup{}
	for _, c := range codes {
		m[c] = "科技"
	}
	return m
}

func TestIdentify_Empty(t *testing.T) {
	r := newTestIdentifier(nil)

	out, err := r.Identify(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Leaders)
	assert.Empty(t, out.Cores)
	assert.Empty(t, out.CatchUps)
	assert.Empty(t, out.Watch)
}

func TestIdentify_LeaderPreference(t *testing.T) {
	// 连板股优先当龙头，哪怕首板评分更高
	s1 := stock("600001", 4, 1e8) // 连板高
	s2 := stock("600002", 0, 5e9) // 巨额成交但无连板
	s3 := stock("600003", 1, 1e8)

	r := newTestIdentifier(sameSector("600001", "600002", "600003"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2, s3}, nil)
	require.NoError(t, err)

	require.Len(t, out.Leaders, 1)
	assert.Equal(t, "600001", out.Leaders[0].Code)
}

func TestIdentify_LeaderFallback(t *testing.T) {
	// 无连板股时评分最高者当龙头
	s1 := stock("600001", 0, 5e9)
	s2 := stock("600002", 0, 1e8)
	s3 := stock("600003", 0, 1e8)

	r := newTestIdentifier(sameSector("600001", "600002", "600003"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2, s3}, nil)
	require.NoError(t, err)

	require.Len(t, out.Leaders, 1)
	assert.Equal(t, "600001", out.Leaders[0].Code)
}

func TestIdentify_CoreByAmount(t *testing.T) {
	s1 := stock("600001", 3, 1e8) // 龙头
	s2 := stock("600002", 1, 3e9) // 成交额最大 → 中军
	s3 := stock("600003", 1, 1e8)

	r := newTestIdentifier(sameSector("600001", "600002", "600003"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2, s3}, nil)
	require.NoError(t, err)

	require.Len(t, out.Cores, 1)
	assert.Equal(t, "600002", out.Cores[0].Code)
}

func TestIdentify_CoreCollisionRetry(t *testing.T) {
	// 龙头同时是成交额王 → 中军从 2~3 名里重选
	s1 := stock("600001", 4, 5e9)
	s2 := stock("600002", 2, 2e9)
	s3 := stock("600003", 1, 1e8)

	r := newTestIdentifier(sameSector("600001", "600002", "600003"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2, s3}, nil)
	require.NoError(t, err)

	require.Len(t, out.Leaders, 1)
	assert.Equal(t, "600001", out.Leaders[0].Code)
	require.Len(t, out.Cores, 1)
	assert.NotEqual(t, out.Leaders[0].Code, out.Cores[0].Code)
}

func TestIdentify_UnderStrengthBypass(t *testing.T) {
	// 板块只有 2 只，低于阈值 3 → 全部观察
	s1 := stock("600001", 3, 1e9)
	s2 := stock("600002", 2, 5e8)

	r := newTestIdentifier(sameSector("600001", "600002"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2}, nil)
	require.NoError(t, err)

	assert.Empty(t, out.Leaders)
	assert.Empty(t, out.Cores)
	assert.Empty(t, out.CatchUps)
	assert.Len(t, out.Watch, 2)
}

func TestIdentify_PartitionInvariant(t *testing.T) {
	lookup := mapLookup{
		"600001": "科技", "600002": "科技", "600003": "科技", "600004": "科技",
		"600005": "医药", "600006": "医药",
		"600007": "消费",
	}
	stocks := []*contracts.StockAnalysis{
		stock("600001", 4, 5e9),
		stock("600002", 2, 2e9),
		stock("600003", 1, 3e8),
		stock("600004", 0, 1e8),
		stock("600005", 1, 1e8),
		stock("600006", 1, 2e8),
		stock("600007", 2, 9e8),
	}

	r := newTestIdentifier(lookup)
	out, err := r.Identify(context.Background(), stocks, nil)
	require.NoError(t, err)

	// 每只股票恰好出现一次
	assert.Equal(t, len(stocks), out.Total())

	seen := make(map[string]int)
	for _, lst := range [][]*contracts.StockAnalysis{out.Leaders, out.Cores, out.CatchUps, out.Watch} {
		for _, s := range lst {
			seen[s.Code]++
		}
	}
	for code, n := range seen {
		assert.Equal(t, 1, n, "stock %s appears %d times", code, n)
	}
	assert.Len(t, seen, len(stocks))
}

func TestIdentify_CatchUpLowPosition(t *testing.T) {
	s1 := stock("600001", 4, 5e8) // 龙头
	s2 := stock("600002", 1, 3e9) // 中军
	s3 := stock("600003", 1, 1e8) // 低位首板 → 补涨
	s3.Features.PricePosition = 20
	s3.Features.TrendStrength = 8

	r := newTestIdentifier(sameSector("600001", "600002", "600003"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2, s3}, nil)
	require.NoError(t, err)

	require.Len(t, out.CatchUps, 1)
	assert.Equal(t, "600003", out.CatchUps[0].Code)
}

func TestIdentify_CatchUpBreakoutFallback(t *testing.T) {
	// 无低位首板候选时，从评分末 3 名里挑突破形态、取趋势最强者
	s1 := stock("600001", 5, 5e9) // 龙头，突破但评分第一，不进末 3
	s1.Features.IsBreakout = true
	s2 := stock("600002", 2, 3e9) // 中军
	s3 := stock("600003", 1, 1e8)
	s3.Features.IsBreakout = true
	s3.Features.TrendStrength = 9
	s4 := stock("600004", 0, 1e8)
	s4.Features.PricePosition = 60
	s4.Features.IsBreakout = true
	s4.Features.TrendStrength = 4

	r := newTestIdentifier(sameSector("600001", "600002", "600003", "600004"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2, s3, s4}, nil)
	require.NoError(t, err)

	require.Len(t, out.Leaders, 1)
	assert.Equal(t, "600001", out.Leaders[0].Code)
	require.Len(t, out.CatchUps, 1)
	assert.Equal(t, "600003", out.CatchUps[0].Code)
}

func TestIdentify_CatchUpNoCandidates(t *testing.T) {
	// 既无低位首板也无突破 → 当日该板块无补涨
	s1 := stock("600001", 4, 5e9)
	s2 := stock("600002", 2, 3e9)
	s3 := stock("600003", 2, 1e8)

	r := newTestIdentifier(sameSector("600001", "600002", "600003"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2, s3}, nil)
	require.NoError(t, err)

	assert.Empty(t, out.CatchUps)
	assert.Equal(t, 3, out.Total())
}

func TestIdentify_CatchUpCollisionDiscard(t *testing.T) {
	// 唯一补涨候选已是中军 → 当日无补涨，不再重选
	s1 := stock("600001", 4, 5e8)
	s2 := stock("600002", 1, 3e9)
	s2.Features.PricePosition = 20
	s3 := stock("600003", 2, 1e8)

	r := newTestIdentifier(sameSector("600001", "600002", "600003"))
	out, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1, s2, s3}, nil)
	require.NoError(t, err)

	require.Len(t, out.Cores, 1)
	assert.Equal(t, "600002", out.Cores[0].Code)
	assert.Empty(t, out.CatchUps)
	assert.Equal(t, 3, out.Total())
}

func TestIdentify_SectorFromCoreStocks(t *testing.T) {
	// 板块分析的核心股票名单优先于兜底 lookup
	sectors := []*contracts.SectorGroup{{
		Name:       "新能源",
		CoreStocks: []contracts.CoreStock{{Code: "600001"}},
	}}
	s1 := stock("600001", 2, 1e9)

	r := newTestIdentifier(mapLookup{"600001": "科技"})
	_, err := r.Identify(context.Background(), []*contracts.StockAnalysis{s1}, sectors)
	require.NoError(t, err)
	assert.Equal(t, "新能源", s1.Sector)
}

func TestScore_Bounds(t *testing.T) {
	weightSets := []reviewcfg.Scoring{
		{StreakWeight: 0.35, LimitTimeWeight: 0.25, SealAmountWeight: 0.20, FloatCapWeight: 0.20},
		{StreakWeight: 1, LimitTimeWeight: 0, SealAmountWeight: 0, FloatCapWeight: 0},
		{StreakWeight: 0, LimitTimeWeight: 0, SealAmountWeight: 0, FloatCapWeight: 1},
		{StreakWeight: 0.25, LimitTimeWeight: 0.25, SealAmountWeight: 0.25, FloatCapWeight: 0.25},
	}

	extremes := []*contracts.StockAnalysis{
		stock("600001", 0, 0),
		stock("600002", 10, 1e10),
		func() *contracts.StockAnalysis {
			s := stock("600003", 5, 2e9)
			s.Features = contracts.Features{PricePosition: 90, VolumeRatio: 3, IsBreakout: true, TrendStrength: 20}
			return s
		}(),
	}

	for _, ws := range weightSets {
		cfg := reviewcfg.Default()
		cfg.Scoring = ws
		r := New(cfg, logger.NewNop(), nil)

		for _, s := range extremes {
			got := r.Score(s)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestScore_Value(t *testing.T) {
	r := newTestIdentifier(nil)

	// 3 连板 75*0.35 + 60*0.25 + 6e8→80*0.20 + 技术 50*0.20 = 67.25
	s := stock("600001", 3, 6e8)
	assert.InDelta(t, 67.25, r.Score(s), 1e-9)
}
