// Package notify pushes finished reports to a WeCom group robot webhook.
package notify

import (
	"context"
	"fmt"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/config"
	"github.com/zhenqiu/fupan/pkg/httputil"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// maxErrorLen caps error text in notifications, WeCom rejects huge bodies.
const maxErrorLen = 200

// WeCom implements contracts.Notifier against the 企业微信 group robot API.
type WeCom struct {
	webhookURL string
	enabled    bool
	client     *httputil.Client
	log        *logger.Logger
}

// NewWeCom creates a WeCom notifier. When disabled every send is a logged
// no-op.
func NewWeCom(cfg *config.Config, client *httputil.Client, log *logger.Logger) *WeCom {
	return &WeCom{
		webhookURL: cfg.WeCom.WebhookURL,
		enabled:    cfg.WeCom.Enabled,
		client:     client,
		log:        log,
	}
}

type markdownMessage struct {
	MsgType  string `json:"msgtype"`
	Markdown struct {
		Content string `json:"content"`
	} `json:"markdown"`
}

type textMessage struct {
	MsgType string `json:"msgtype"`
	Text    struct {
		Content       string   `json:"content"`
		MentionedList []string `json:"mentioned_list,omitempty"`
	} `json:"text"`
}

// SendReport pushes the rendered markdown report.
func (w *WeCom) SendReport(ctx context.Context, report *contracts.StrategyReport, markdown string) error {
	if !w.enabled || w.webhookURL == "" {
		w.log.Info("wecom notification disabled, skipping")
		return nil
	}

	var msg markdownMessage
	msg.MsgType = "markdown"
	msg.Markdown.Content = markdown

	resp, err := w.client.PostJSON(ctx, w.webhookURL, msg)
	if err != nil {
		return fmt.Errorf("failed to send wecom report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("wecom returned status %d", resp.StatusCode)
	}

	w.log.WithField("trade_date", report.Meta.TradeDate).Info("wecom report sent")
	return nil
}

// SendError pushes a failure notice mentioning everyone in the group.
func (w *WeCom) SendError(ctx context.Context, message string) error {
	if !w.enabled || w.webhookURL == "" {
		return nil
	}

	runes := []rune(message)
	if len(runes) > maxErrorLen {
		message = string(runes[:maxErrorLen])
	}

	var msg textMessage
	msg.MsgType = "text"
	msg.Text.Content = fmt.Sprintf("⚠️ 复盘系统运行异常\n%s", message)
	msg.Text.MentionedList = []string{"@all"}

	resp, err := w.client.PostJSON(ctx, w.webhookURL, msg)
	if err != nil {
		return fmt.Errorf("failed to send wecom error notice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("wecom returned status %d", resp.StatusCode)
	}
	return nil
}
