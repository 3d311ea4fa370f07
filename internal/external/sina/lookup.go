// Package sina scrapes 新浪财经 company profiles for industry
// classification. 涨停池里行业字段缺失时用它补。
package sina

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/httputil"
	"github.com/zhenqiu/fupan/pkg/logger"
)

const corpInfoURL = "https://vip.stock.finance.sina.com.cn/corp/go.php/vCI_CorpInfo/stockid/%s.phtml"

const requestTimeout = 10 * time.Second

// Lookup resolves stock codes to industry names by scraping the 公司资料
// page. Results are cached for the process lifetime; scrape failures fall
// back to the injected SectorLookup and are cached too, so a dead page is
// only hit once per code.
type Lookup struct {
	http     *httputil.Client
	fallback contracts.SectorLookup
	log      *logger.Logger
	baseURL  string

	mu    sync.Mutex
	cache map[string]string
}

// New builds a lookup. fallback must not be nil.
func New(log *logger.Logger, fallback contracts.SectorLookup) *Lookup {
	hc := httputil.NewWithTimeout(log, requestTimeout).
		WithHeaders(map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Referer":    "https://finance.sina.com.cn/",
		})
	return &Lookup{
		http:     hc,
		fallback: fallback,
		log:      log.WithField("component", "sina"),
		baseURL:  corpInfoURL,
		cache:    make(map[string]string),
	}
}

var _ contracts.SectorLookup = (*Lookup)(nil)

// Sector returns the industry name for a stock code.
func (l *Lookup) Sector(code string) string {
	l.mu.Lock()
	if cached, ok := l.cache[code]; ok {
		l.mu.Unlock()
		return cached
	}
	l.mu.Unlock()

	name, err := l.scrape(code)
	if err != nil || name == "" {
		if err != nil {
			l.log.WithError(err).WithField("code", code).Debug("行业抓取失败，退回哈希分桶")
		}
		name = l.fallback.Sector(code)
	}

	l.mu.Lock()
	l.cache[code] = name
	l.mu.Unlock()
	return name
}

func (l *Lookup) scrape(code string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	body, err := l.http.GetBody(ctx, fmt.Sprintf(l.baseURL, code))
	if err != nil {
		return "", err
	}
	return parseIndustry(body)
}

// parseIndustry pulls the industry cell out of the profile table. The page
// lays labels and values in alternating td cells.
func parseIndustry(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse profile html: %w", err)
	}

	var industry string
	doc.Find("#comInfo1 td").EachWithBreak(func(i int, cell *goquery.Selection) bool {
		label := strings.TrimSpace(cell.Text())
		if !strings.Contains(label, "行业") {
			return true
		}
		value := strings.TrimSpace(cell.Next().Text())
		if value != "" {
			industry = value
			return false
		}
		return true
	})

	if industry == "" {
		return "", fmt.Errorf("sina: no industry cell in profile page")
	}
	return industry, nil
}
