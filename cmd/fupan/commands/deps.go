package commands

import (
	"fmt"

	"github.com/zhenqiu/fupan/internal/analysis/limitup"
	"github.com/zhenqiu/fupan/internal/analysis/roles"
	"github.com/zhenqiu/fupan/internal/analysis/sector"
	"github.com/zhenqiu/fupan/internal/contracts"
	"github.com/zhenqiu/fupan/internal/external/deepseek"
	"github.com/zhenqiu/fupan/internal/external/eastmoney"
	"github.com/zhenqiu/fupan/internal/external/sina"
	"github.com/zhenqiu/fupan/internal/notify"
	"github.com/zhenqiu/fupan/internal/report"
	"github.com/zhenqiu/fupan/internal/review"
	"github.com/zhenqiu/fupan/internal/reviewcfg"
	"github.com/zhenqiu/fupan/internal/strategy"
	"github.com/zhenqiu/fupan/pkg/config"
	"github.com/zhenqiu/fupan/pkg/database"
	"github.com/zhenqiu/fupan/pkg/httputil"
	"github.com/zhenqiu/fupan/pkg/logger"
	"github.com/zhenqiu/fupan/pkg/redis"
)

// app holds everything a command needs after bootstrap.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	reviewCfg *reviewcfg.Config
	db        *database.DB
	redis     *redis.Client
	writer    *report.Writer
	repo      *report.Repository
	runner    *review.Runner
}

// Close releases held connections.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// bootstrap loads configuration and wires the full review pipeline.
// 可选组件（数据库、Redis、AI、推送）缺配置时静默降级。
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	path := cfg.ReviewConfigPath
	if reviewConfigPath != "" {
		path = reviewConfigPath
	}
	reviewCfg, err := reviewcfg.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load review config %s: %w", path, err)
	}
	hash, err := reviewcfg.Hash(reviewCfg)
	if err != nil {
		return nil, fmt.Errorf("hash review config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if db != nil {
		log.Info("数据库已连接")
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "fupan")

	source := eastmoney.New(cfg, log, cache).
		WithLimitThreshold(reviewCfg.Screen.LimitThreshold)

	lookup := sina.New(log, sector.HashLookup{})

	analyzer := limitup.New(reviewCfg, log)
	sectors := sector.New(reviewCfg, log, lookup)
	identifier := roles.New(reviewCfg, log, lookup)
	generator := strategy.New(reviewCfg, log, "eastmoney", hash)

	var commentary contracts.CommentaryProvider
	if cfg.DeepSeek.Enabled {
		commentary = deepseek.New(cfg, log, reviewCfg.Commentary.Roles)
	}

	writer := report.NewWriter(cfg.ResultsDir, log)
	repo := report.NewRepository(db, log)

	var notifier contracts.Notifier
	if cfg.WeCom.Enabled {
		notifier = notify.NewWeCom(cfg, httputil.New(log), log)
	}

	runner := review.NewRunner(review.Deps{
		Source:     source,
		Analyzer:   analyzer,
		Sectors:    sectors,
		Roles:      identifier,
		Commentary: commentary,
		Generator:  generator,
		Writer:     writer,
		Repo:       repo,
		Notifier:   notifier,
	}, reviewCfg, cfg.ResultsDir, log)

	return &app{
		cfg:       cfg,
		log:       log,
		reviewCfg: reviewCfg,
		db:        db,
		redis:     redisClient,
		writer:    writer,
		repo:      repo,
		runner:    runner,
	}, nil
}
