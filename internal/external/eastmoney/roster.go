package eastmoney

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/redis"
)

// defaultLimitThreshold filters the spot fallback when no review config
// threshold was injected. 主板涨停 10%，留 0.2 个点容差。
const defaultLimitThreshold = 9.8

// ut is the public token the quote site sends with every pool request.
const poolToken = "7eea3edcaed734bea9cbfc24409ed989"

// WithLimitThreshold sets the pct-change cutoff used by the spot
// fallback when the pool endpoint fails.
func (c *Client) WithLimitThreshold(v float64) *Client {
	if v > 0 {
		c.limitThreshold = v
	}
	return c
}

// LimitUpRoster returns the limit-up roster for a trade date (YYYY-MM-DD).
// 优先走涨停板股票池接口，失败时退回全市场行情按涨跌幅筛选。
func (c *Client) LimitUpRoster(ctx context.Context, date string) ([]contracts.LimitUpRecord, error) {
	cacheKey := "roster:" + date
	var cached []contracts.LimitUpRecord
	if c.cache != nil {
		if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			c.log.WithField("date", date).Debug("roster cache hit")
			return cached, nil
		}
	}

	roster, err := c.fetchPool(ctx, date)
	if err != nil {
		c.log.WithError(err).Warn("涨停板股票池接口失败，退回全市场行情筛选")
		roster, err = c.fetchSpotLimitUps(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch limit-up roster: %w", err)
		}
	}

	if c.cache != nil && len(roster) > 0 {
		if err := c.cache.Set(ctx, cacheKey, roster, redis.TTLIntraday); err != nil {
			c.log.WithError(err).Warn("roster cache write failed")
		}
	}
	return roster, nil
}

// fetchPool hits getTopicZTPool, the same feed the 涨停板行情 page uses.
func (c *Client) fetchPool(ctx context.Context, date string) ([]contracts.LimitUpRecord, error) {
	compact := strings.ReplaceAll(date, "-", "")
	url := fmt.Sprintf("%s%s?ut=%s&dpt=wz.ztzt&Pageindex=0&pagesize=500&sort=fbt:asc&date=%s",
		c.cfg.PoolBaseURL, poolPath, poolToken, compact)

	body, err := c.http.GetBody(ctx, url)
	if err != nil {
		return nil, err
	}
	return parsePool(body)
}

// parsePool 解析股票池响应。字段：c 代码 n 名称 p 现价×1000 zdp 涨跌幅
// amount 成交额 hs 换手率 fbt 首次封板时间 fund 封单资金 hybk 所属行业。
func parsePool(body []byte) ([]contracts.LimitUpRecord, error) {
	pool := gjson.GetBytes(body, "data.pool")
	if !pool.Exists() || !pool.IsArray() {
		return nil, fmt.Errorf("eastmoney: no data.pool in response")
	}

	arr := pool.Array()
	out := make([]contracts.LimitUpRecord, 0, len(arr))
	for _, v := range arr {
		code := strings.TrimSpace(v.Get("c").String())
		name := strings.TrimSpace(v.Get("n").String())
		if code == "" {
			continue
		}
		rec := contracts.LimitUpRecord{
			Code:       code,
			Name:       name,
			Price:      v.Get("p").Float() / 1000,
			PctChange:  v.Get("zdp").Float(),
			Amount:     v.Get("amount").Float(),
			Turnover:   v.Get("hs").Float(),
			SealAmount: v.Get("fund").Float(),
			Industry:   strings.TrimSpace(v.Get("hybk").String()),
		}
		if fbt := v.Get("fbt").Int(); fbt > 0 {
			rec.LimitTime = fmt.Sprintf("%06d", fbt)
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("eastmoney: empty pool")
	}
	return out, nil
}

// fetchSpotLimitUps scans the whole A-share spot list and keeps rows at or
// above the limit threshold. Only covers today; the pool endpoint is the
// one that honors a date parameter.
func (c *Client) fetchSpotLimitUps(ctx context.Context) ([]contracts.LimitUpRecord, error) {
	threshold := c.limitThreshold
	if threshold <= 0 {
		threshold = defaultLimitThreshold
	}

	var out []contracts.LimitUpRecord
	page := 1
	for {
		url := fmt.Sprintf("%s%s?pn=%d&pz=%d&fltt=2&fs=m:1+t:2,m:0+t:6,m:0+t:80&fields=%s",
			c.cfg.QuoteBaseURL, quotePath, page, listPageSize, listFields)
		body, err := c.http.GetBody(ctx, url)
		if err != nil {
			return nil, err
		}
		rows, total, err := parseSpotPage(body, threshold)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
		if page*listPageSize >= total || len(rows) == 0 && total == 0 {
			break
		}
		page++
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("eastmoney: no limit-up stocks in spot list")
	}
	return out, nil
}

// parseSpotPage reads one clist page and filters by pct change. Returns
// the filtered rows and the total row count reported by the server.
func parseSpotPage(body []byte, threshold float64) ([]contracts.LimitUpRecord, int, error) {
	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return nil, 0, fmt.Errorf("eastmoney: no data in clist response")
	}
	total := int(data.Get("total").Int())

	var out []contracts.LimitUpRecord
	for _, v := range data.Get("diff").Array() {
		pct := v.Get("f3").Float()
		if pct < threshold {
			continue
		}
		code := strings.TrimSpace(v.Get("f12").String())
		if code == "" {
			continue
		}
		out = append(out, contracts.LimitUpRecord{
			Code:      code,
			Name:      strings.TrimSpace(v.Get("f14").String()),
			Price:     v.Get("f2").Float(),
			PctChange: pct,
			Volume:    v.Get("f5").Float(),
			Amount:    v.Get("f6").Float(),
			Turnover:  v.Get("f8").Float(),
		})
	}
	return out, total, nil
}
