// Package review orchestrates one full 复盘 run: roster fetch, analysis,
// role assignment, strategy generation, persistence and notification.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/report"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/pkg/logger"
)

const runLogFile = "run_log.jsonl"

// Deps carries the pipeline stages the runner wires together. Source,
// Analyzer, Sectors, Roles, Generator and Writer are required; the rest
// degrade to no-ops when nil.
type Deps struct {
	Source     contracts.MarketDataSource
	Analyzer   contracts.LimitUpAnalyzer
	Sectors    contracts.SectorAnalyzer
	Roles      contracts.RoleIdentifier
	Commentary contracts.CommentaryProvider
	Generator  contracts.StrategyGenerator
	Writer     *report.Writer
	Repo       *report.Repository
	Notifier   contracts.Notifier
}

// Runner executes the daily review pipeline.
type Runner struct {
	deps   Deps
	review *reviewcfg.Config
	dir    string
	log    *logger.Logger
	now    func() time.Time
}

// NewRunner builds a runner. dir is where the run log lands, normally the
// same directory the report writer uses.
func NewRunner(deps Deps, review *reviewcfg.Config, dir string, log *logger.Logger) *Runner {
	return &Runner{
		deps:   deps,
		review: review,
		dir:    dir,
		log:    log.WithField("component", "review"),
		now:    time.Now,
	}
}

// Run executes one review for the given trade date. An empty date resolves
// against the clock. notify=false still saves everything but skips the
// webhook push.
func (r *Runner) Run(ctx context.Context, date string, notify bool) (*contracts.StrategyReport, error) {
	startedAt := r.now()
	if date == "" {
		date = ResolveTradeDate(startedAt)
	}
	log := r.log.WithField("trade_date", date)
	log.Info("复盘开始")

	rep, limitUps, err := r.runPipeline(ctx, date, notify, log)

	run := report.RunRecord{
		TradeDate:  date,
		StartedAt:  startedAt,
		FinishedAt: r.now(),
		Success:    err == nil,
		LimitUps:   limitUps,
	}
	if err != nil {
		run.Error = err.Error()
	}
	r.recordRun(ctx, run)

	if err != nil {
		log.WithError(err).Error("复盘失败")
		if r.deps.Notifier != nil && notify {
			if sendErr := r.deps.Notifier.SendError(ctx, err.Error()); sendErr != nil {
				log.WithError(sendErr).Warn("失败通知推送失败")
			}
		}
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"limit_ups": limitUps,
		"duration":  run.FinishedAt.Sub(run.StartedAt).String(),
	}).Info("复盘完成")
	return rep, nil
}

func (r *Runner) runPipeline(ctx context.Context, date string, notify bool, log *logger.Logger) (*contracts.StrategyReport, int, error) {
	roster, err := r.deps.Source.LimitUpRoster(ctx, date)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch roster: %w", err)
	}
	log.WithField("count", len(roster)).Info("涨停股票获取完成")

	history := r.fetchHistory(ctx, date, roster, log)

	analysis, err := r.deps.Analyzer.Analyze(ctx, roster, history)
	if err != nil {
		return nil, len(roster), fmt.Errorf("analyze limit-ups: %w", err)
	}
	analysis.Summary.TradeDate = date

	groups, err := r.deps.Sectors.Analyze(ctx, analysis.Stocks)
	if err != nil {
		return nil, len(roster), fmt.Errorf("analyze sectors: %w", err)
	}

	roles, err := r.deps.Roles.Identify(ctx, analysis.Stocks, groups)
	if err != nil {
		return nil, len(roster), fmt.Errorf("identify roles: %w", err)
	}

	var commentary map[string]*contracts.Commentary
	if r.deps.Commentary != nil && r.review.Commentary.Enable {
		commentary, err = r.deps.Commentary.Commentate(ctx, roles)
		if err != nil {
			// AI 点评失败不挡复盘
			log.WithError(err).Warn("AI 点评整体失败，报告不含点评")
			commentary = nil
		}
	}

	rep, err := r.deps.Generator.Generate(ctx, analysis, roles, commentary)
	if err != nil {
		return nil, len(roster), fmt.Errorf("generate strategy: %w", err)
	}

	files, err := r.deps.Writer.Save(rep)
	if err != nil {
		return nil, len(roster), fmt.Errorf("save report: %w", err)
	}
	log.WithField("path", files.Md).Info("报告已落盘")

	if r.deps.Repo.Enabled() {
		if err := r.deps.Repo.SaveReport(ctx, rep); err != nil {
			log.WithError(err).Warn("报告入库失败")
		}
	}

	if r.deps.Notifier != nil && notify {
		markdown := report.RenderNotification(rep, r.review.Report.TopStocks)
		if err := r.deps.Notifier.SendReport(ctx, rep, markdown); err != nil {
			log.WithError(err).Warn("报告推送失败")
		}
	}
	return rep, len(roster), nil
}

// fetchHistory pulls per-stock kline history. Stocks with too little
// history are analyzed without it; individual fetch failures only cost
// that one stock its features.
func (r *Runner) fetchHistory(ctx context.Context, date string, roster []contracts.LimitUpRecord, log *logger.Logger) map[string]*contracts.HistoricalSeries {
	history := make(map[string]*contracts.HistoricalSeries, len(roster))
	end, err := time.Parse("2006-01-02", date)
	if err != nil {
		log.WithError(err).Warn("交易日解析失败，跳过历史数据")
		return history
	}
	start := end.AddDate(0, 0, -r.review.History.LookbackDays).Format("2006-01-02")

	minBars := r.review.Screen.MinHistoryBars
	success := 0
	for _, rec := range roster {
		series, err := r.deps.Source.History(ctx, rec.Code, start, date)
		if err != nil {
			log.WithError(err).WithField("code", rec.Code).Warn("历史数据获取失败")
			continue
		}
		if series.Len() < minBars {
			continue
		}
		history[rec.Code] = series
		success++
	}
	log.WithFields(map[string]interface{}{
		"success": success,
		"total":   len(roster),
	}).Info("历史数据获取完成")
	return history
}

// recordRun appends one JSON line to the run log and, when the database is
// wired, inserts a row as well.
func (r *Runner) recordRun(ctx context.Context, run report.RunRecord) {
	if r.deps.Repo.Enabled() {
		if err := r.deps.Repo.SaveRun(ctx, run); err != nil {
			r.log.WithError(err).Warn("运行记录入库失败")
		}
	}

	if r.dir == "" {
		return
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.log.WithError(err).Warn("创建结果目录失败")
		return
	}
	path := filepath.Join(r.dir, runLogFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.log.WithError(err).Warn("打开运行日志失败")
		return
	}
	defer f.Close()

	line, err := json.Marshal(run)
	if err != nil {
		r.log.WithError(err).Warn("运行记录序列化失败")
		return
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		r.log.WithError(err).Warn("写运行日志失败")
	}
}
