package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/pkg/config"
	"github.com/zhenqiu/fupan/pkg/httputil"
	"github.com/zhenqiu/fupan/pkg/logger"
)

func newTestWeCom(url string, enabled bool) *WeCom {
	cfg := &config.Config{}
	cfg.WeCom.WebhookURL = url
	cfg.WeCom.Enabled = enabled
	client := httputil.New(logger.NewNop()).DisableRetry()
	return NewWeCom(cfg, client, logger.NewNop())
}

func TestSendReport(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestWeCom(srv.URL, true)
	report := &contracts.StrategyReport{Meta: contracts.ReportMeta{TradeDate: "2026-08-28"}}

	err := n.SendReport(context.Background(), report, "## 测试报告")
	require.NoError(t, err)

	assert.Equal(t, "markdown", got["msgtype"])
	md := got["markdown"].(map[string]interface{})
	assert.Equal(t, "## 测试报告", md["content"])
}

func TestSendReport_Disabled(t *testing.T) {
	n := newTestWeCom("", false)

	// 未启用时静默成功，不发请求
	err := n.SendReport(context.Background(), &contracts.StrategyReport{}, "md")
	assert.NoError(t, err)
}

func TestSendReport_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := newTestWeCom(srv.URL, true)
	err := n.SendReport(context.Background(), &contracts.StrategyReport{}, "md")
	assert.Error(t, err)
}

func TestSendError(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestWeCom(srv.URL, true)
	err := n.SendError(context.Background(), strings.Repeat("错", 300))
	require.NoError(t, err)

	assert.Equal(t, "text", got["msgtype"])
	text := got["text"].(map[string]interface{})
	content := text["content"].(string)
	assert.True(t, strings.HasPrefix(content, "⚠️ 复盘系统运行异常\n"))
	// 超长错误被截断
	assert.LessOrEqual(t, len([]rune(content)), maxErrorLen+20)

	mentioned := text["mentioned_list"].([]interface{})
	assert.Equal(t, "@all", mentioned[0])
}
