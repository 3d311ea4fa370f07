// Package deepseek calls the DeepSeek chat API to explain why each
// selected stock hit its limit. 单只失败只丢那一只，整体不报错。
package deepseek

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/config"
	"github.com/zhenqiu/fupan/pkg/httputil"
	"github.com/zhenqiu/fupan/pkg/logger"
)

const systemPrompt = "你是一名资深A股分析师，擅长分析涨停原因和消息催化。"

const chatTemperature = 0.3

// Provider implements contracts.CommentaryProvider against the DeepSeek
// chat-completions endpoint.
type Provider struct {
	http  *httputil.Client
	cfg   config.DeepSeekConfig
	roles []string
	log   *logger.Logger
	now   func() time.Time
}

// New builds a provider. roles selects which role groups get commentary;
// an empty list means only 龙头.
func New(cfg *config.Config, log *logger.Logger, roles []string) *Provider {
	if len(roles) == 0 {
		roles = []string{contracts.RoleLeader}
	}
	hc := httputil.NewWithTimeout(log, cfg.DeepSeek.Timeout).
		WithHeaders(map[string]string{
			"Authorization": "Bearer " + cfg.DeepSeek.APIKey,
		})
	return &Provider{
		http:  hc,
		cfg:   cfg.DeepSeek,
		roles: roles,
		log:   log.WithField("component", "deepseek"),
		now:   time.Now,
	}
}

var _ contracts.CommentaryProvider = (*Provider)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// candidate is one stock queued for commentary.
type candidate struct {
	stock *contracts.StockAnalysis
	role  string
}

// Commentate analyzes the selected role groups concurrently and returns
// commentary keyed by stock code. Returns nil when the provider is
// disabled or no stock matches the role filter.
func (p *Provider) Commentate(ctx context.Context, roles *contracts.RoleAssignment) (map[string]*contracts.Commentary, error) {
	if !p.cfg.Enabled || p.cfg.APIKey == "" {
		return nil, nil
	}
	candidates := p.selectCandidates(roles)
	if len(candidates) == 0 {
		return nil, nil
	}

	workers := p.cfg.Concurrency
	if workers <= 0 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobCh := make(chan candidate, len(candidates))
	resultCh := make(chan *contracts.Commentary, len(candidates))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				cm, err := p.analyzeStock(ctx, job)
				if err != nil {
					p.log.WithError(err).WithField("code", job.stock.Code).Warn("AI 点评失败，跳过该股")
					continue
				}
				resultCh <- cm
			}
		}()
	}
	for _, c := range candidates {
		jobCh <- c
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	out := make(map[string]*contracts.Commentary, len(candidates))
	for cm := range resultCh {
		out[cm.Code] = cm
	}

	p.log.WithFields(map[string]interface{}{
		"requested": len(candidates),
		"succeeded": len(out),
	}).Info("AI commentary completed")
	return out, nil
}

// selectCandidates walks the role groups in fixed order and keeps the
// ones named by the role filter.
func (p *Provider) selectCandidates(roles *contracts.RoleAssignment) []candidate {
	if roles == nil {
		return nil
	}
	wanted := make(map[string]bool, len(p.roles))
	for _, r := range p.roles {
		wanted[r] = true
	}

	var out []candidate
	add := func(stocks []*contracts.StockAnalysis, role string) {
		if !wanted[role] {
			return
		}
		for _, s := range stocks {
			out = append(out, candidate{stock: s, role: role})
		}
	}
	add(roles.Leaders, contracts.RoleLeader)
	add(roles.Cores, contracts.RoleCore)
	add(roles.CatchUps, contracts.RoleCatchUp)
	add(roles.Watch, contracts.RoleWatch)
	return out
}

// analyzeStock does one chat-completions round trip under the per-stock
// timeout and extracts structured commentary from the answer text.
func (p *Provider) analyzeStock(ctx context.Context, job candidate) (*contracts.Commentary, error) {
	callCtx := ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	req := chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(job.stock, job.role)},
		},
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: chatTemperature,
	}

	resp, err := p.http.PostJSON(callCtx, p.cfg.BaseURL, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read deepseek response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deepseek status %d", resp.StatusCode)
	}

	content := gjson.GetBytes(body, "choices.0.message.content").String()
	if content == "" {
		return nil, fmt.Errorf("deepseek: empty completion for %s", job.stock.Code)
	}

	return &contracts.Commentary{
		Code:       job.stock.Code,
		Name:       job.stock.Name,
		Role:       job.role,
		Summary:    extractSummary(content),
		Detail:     content,
		Reasons:    extractReasons(content),
		AnalyzedAt: p.now(),
	}, nil
}
