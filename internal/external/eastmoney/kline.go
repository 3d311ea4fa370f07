package eastmoney

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/redis"
)

// klineFields 对应 fields2：f51 日期 f52 开 f53 收 f54 高 f55 低 f56 量 f57 额
const klineFields = "f51,f52,f53,f54,f55,f56,f57"

// History fetches daily kline bars for [start, end] (YYYY-MM-DD), oldest
// first, 前复权。PreClose 由相邻两根收盘价推出，首根无前收。
func (c *Client) History(ctx context.Context, code, start, end string) (*contracts.HistoricalSeries, error) {
	cacheKey := fmt.Sprintf("kline:%s:%s:%s", code, start, end)
	var cached contracts.HistoricalSeries
	if c.cache != nil {
		if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	url := fmt.Sprintf("%s%s?secid=%s&fields1=f1,f2,f3,f4,f5,f6&fields2=%s&klt=101&fqt=1&beg=%s&end=%s",
		c.cfg.KlineBaseURL, klinePath, secID(code), klineFields,
		strings.ReplaceAll(start, "-", ""), strings.ReplaceAll(end, "-", ""))

	body, err := c.http.GetBody(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch kline %s: %w", code, err)
	}

	series, err := parseKlines(body, code)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, series, redis.TTLDaily); err != nil {
			c.log.WithError(err).Warn("kline cache write failed")
		}
	}
	return series, nil
}

// parseKlines 解析 data.klines，每条为 "日期,开,收,高,低,量,额" 的逗号串。
func parseKlines(body []byte, code string) (*contracts.HistoricalSeries, error) {
	klines := gjson.GetBytes(body, "data.klines")
	if !klines.Exists() || !klines.IsArray() {
		return nil, fmt.Errorf("eastmoney: no data.klines for %s", code)
	}

	arr := klines.Array()
	bars := make([]contracts.DailyBar, 0, len(arr))
	for _, v := range arr {
		s := strings.TrimSpace(v.String())
		if s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		if len(parts) < 5 {
			continue
		}
		bar := contracts.DailyBar{
			Date:  parts[0],
			Open:  parseF(parts[1]),
			Close: parseF(parts[2]),
			High:  parseF(parts[3]),
			Low:   parseF(parts[4]),
		}
		if len(parts) >= 6 {
			bar.Volume = parseF(parts[5])
		}
		if len(parts) >= 7 {
			bar.Amount = parseF(parts[6])
		}
		if n := len(bars); n > 0 {
			bar.PreClose = bars[n-1].Close
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("eastmoney: no kline bars for %s", code)
	}
	return &contracts.HistoricalSeries{Code: code, Bars: bars}, nil
}

func parseF(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
