package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhenqiu/fupan/internal/scheduler"
	"github.com/zhenqiu/fupan/internal/scheduler/jobs"
)

var schedulerCron string

// schedulerCmd manages the review scheduler daemon.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "定时复盘管理",
	Long: `管理定时复盘守护进程。

Subcommands:
  start   - 启动调度器，工作日收盘后自动复盘
  run     - 立即触发一次 daily_review 任务

Example:
  go run ./cmd/fupan scheduler start
  go run ./cmd/fupan scheduler start --cron "0 0 18 * * MON-FRI"
  go run ./cmd/fupan scheduler run`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "启动调度器",
	RunE:  runSchedulerStart,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "立即触发一次复盘任务",
	RunE:  runSchedulerOnce,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerStartCmd.Flags().StringVar(&schedulerCron, "cron", "", `cron 表达式，带秒位 (默认 "0 0 18 * * MON-FRI")`)
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.repo.Enabled() {
		if err := app.repo.Migrate(context.Background()); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	sched := scheduler.New(app.log)
	job := jobs.NewReviewJob(app.runner, schedulerCron, app.log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	printServiceHeader("复盘调度器", [][2]string{
		{"任务", job.Name()},
		{"计划", job.Schedule()},
	})
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerOnce(cmd *cobra.Command, args []string) error {
	app, err := bootstrap()
	if err != nil {
		return err
	}
	defer app.Close()

	job := jobs.NewReviewJob(app.runner, "", app.log)
	fmt.Printf("触发任务 %s...\n", job.Name())
	return job.Run(context.Background())
}
