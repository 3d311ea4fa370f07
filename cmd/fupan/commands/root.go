package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	reviewConfigPath string
	verbose          bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fupan",
	Short: "A股打板复盘系统",
	Long: `A股每日涨停复盘 CLI

收盘后抓取涨停板数据，分析连板与板块效应，识别龙头/中军/补涨，
生成次日打板策略报告并推送。

Usage:
  go run ./cmd/fupan [command]

Examples:
  go run ./cmd/fupan run
  go run ./cmd/fupan run --date 2025-08-29 --no-notify
  go run ./cmd/fupan api
  go run ./cmd/fupan scheduler start`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&reviewConfigPath, "review-config", "", "复盘参数文件 (默认 config/review.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
