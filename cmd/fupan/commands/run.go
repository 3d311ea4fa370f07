package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhenqiu/fupan/internal/report"
)

var (
	runDate     string
	runNoNotify bool
)

// runCmd executes one review immediately.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "执行一次复盘",
	Long: `立即执行一次完整复盘。

流程：
  抓取涨停板 → 连板与技术面分析 → 板块聚合 → 龙头/中军/补涨识别
  → 策略报告生成 → 落盘/入库 → 企业微信推送

Example:
  go run ./cmd/fupan run
  go run ./cmd/fupan run --date 2025-08-29
  go run ./cmd/fupan run --no-notify`,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "交易日 YYYY-MM-DD (默认自动推算)")
	runCmd.Flags().BoolVar(&runNoNotify, "no-notify", false, "只落盘，不推送")
}

func runReview(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	if app.repo.Enabled() {
		if err := app.repo.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	printRunHeader(runDate)
	started := time.Now()

	rep, err := app.runner.Run(ctx, runDate, !runNoNotify)
	if err != nil {
		return fmt.Errorf("review run failed: %w", err)
	}

	fmt.Println(report.RenderSummaryText(rep))
	fmt.Printf("耗时 %s，报告目录 %s\n", time.Since(started).Round(time.Millisecond), app.cfg.ResultsDir)
	return nil
}
