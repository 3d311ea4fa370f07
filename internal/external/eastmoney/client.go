// Package eastmoney 封装东方财富行情接口：涨停板股票池与日 K 线。
package eastmoney

import (
	"strings"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/config"
	"github.com/zhenqiu/fupan/pkg/httputil"
	"github.com/zhenqiu/fupan/pkg/logger"
	"github.com/zhenqiu/fupan/pkg/redis"
)

// 请求头（模拟浏览器，裸 UA 会被限流）
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer        = "https://quote.eastmoney.com/"
	acceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
)

const (
	poolPath  = "/getTopicZTPool"
	quotePath = "/api/qt/clist/get"
	klinePath = "/api/qt/stock/kline/get"
)

// 全市场列表字段：f2 现价 f3 涨跌幅 f6 成交额 f8 换手率 f12 代码 f14 名称
const listFields = "f2,f3,f5,f6,f8,f12,f14"

const listPageSize = 500

// rateBurst allows short request bursts while the limiter refills.
const rateBurst = 3

// Client fetches the limit-up roster and kline history from 东方财富.
// It implements contracts.MarketDataSource. When a cache is provided,
// the roster and history responses for a given trade date are reused
// across runs within the same evening.
type Client struct {
	http  *httputil.Client
	cache *redis.Cache
	cfg   config.EastMoneyConfig
	log   *logger.Logger

	limitThreshold float64
}

// New builds a client with browser-like headers and a shared rate limit
// across all endpoints. cache may be nil.
func New(cfg *config.Config, log *logger.Logger, cache *redis.Cache) *Client {
	hc := httputil.New(log).
		WithRateLimit(cfg.EastMoney.RatePerSec, rateBurst).
		WithHeaders(map[string]string{
			"User-Agent":      userAgent,
			"Referer":         referer,
			"Accept-Language": acceptLanguage,
		})

	return &Client{
		http:  hc,
		cache: cache,
		cfg:   cfg.EastMoney,
		log:   log.WithField("component", "eastmoney"),
	}
}

var _ contracts.MarketDataSource = (*Client)(nil)

// secID 转为东方财富 secid：上海 1.600519，深圳/北交 0.000001
func secID(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "0.000000"
	}
	if code[0] == '6' || code[0] == '5' || code[0] == '9' {
		return "1." + code
	}
	return "0." + code
}
