package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhenqiu/fupan/internal/api"
	"github.com/zhenqiu/fupan/internal/api/handlers"
)

var apiPort string

// apiCmd starts the report API server.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "启动报告 API 服务",
	Long: `启动 REST API 服务，对外提供已生成的复盘报告。

Endpoints:
  GET  /health                 - 健康检查
  GET  /api/report/latest      - 最新复盘报告
  GET  /api/report/{date}      - 指定交易日报告
  POST /api/review/run         - 触发一次后台复盘

Example:
  go run ./cmd/fupan api
  go run ./cmd/fupan api --port 8089`,
	RunE: runAPIServer,
}

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "监听端口 (默认取 PORT 环境变量)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	reportHandler := handlers.NewReportHandler(app.writer, app.log)
	reviewHandler := handlers.NewReviewHandler(app.runner, app.log)
	router := api.NewRouter(reportHandler, reviewHandler, app.log)
	server := api.New(app.cfg, app.log, router)

	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("API 服务启动失败")
		}
	}()

	printServiceHeader("复盘报告 API", [][2]string{
		{"端口", app.cfg.Port},
		{"环境", app.cfg.Env},
		{"报告目录", app.cfg.ResultsDir},
	})
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
