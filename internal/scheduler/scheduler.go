// Package scheduler runs the daily review on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zhenqiu/fupan/pkg/logger"
)

// Job is a scheduled task. Schedule uses the six-field cron syntax with
// seconds, e.g. "0 0 18 * * MON-FRI".
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

// RunResult is one job execution.
type RunResult struct {
	JobName   string        `json:"job_name"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const historyLimit = 100

// Scheduler wraps a cron runner and keeps a bounded in-memory history
// per job.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger

	mu      sync.RWMutex
	jobs    map[string]Job
	history map[string][]RunResult

	maxRetries int
	retryDelay time.Duration
}

// New creates a scheduler with second-resolution cron expressions.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		log:        log.WithField("component", "scheduler"),
		jobs:       make(map[string]Job),
		history:    make(map[string][]RunResult),
		maxRetries: 2,
		retryDelay: time.Minute,
	}
}

// AddJob registers a job. Duplicate names are rejected.
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	if _, err := s.cron.AddFunc(job.Schedule(), func() { s.runJob(job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	s.jobs[name] = job

	s.log.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("定时任务已注册")
	return nil
}

// Start begins running scheduled jobs. Non-blocking.
func (s *Scheduler) Start() {
	s.log.Info("调度器启动")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("调度器已停止")
}

// TriggerNow runs a registered job outside its schedule.
func (s *Scheduler) TriggerNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not found", name)
	}
	go s.runJob(job)
	return nil
}

// History returns the recorded executions of a job, oldest first.
func (s *Scheduler) History(name string) []RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := s.history[name]
	out := make([]RunResult, len(results))
	copy(out, results)
	return out
}

// runJob executes one job with retries and records the outcome.
func (s *Scheduler) runJob(job Job) {
	name := job.Name()
	started := time.Now()
	log := s.log.WithField("job", name)
	log.Info("任务开始")

	var lastErr error
	success := false
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := job.Run(context.Background()); err == nil {
			success = true
			break
		} else {
			lastErr = err
			log.WithError(err).WithField("attempt", attempt+1).Warn("任务执行失败")
		}
		if attempt < s.maxRetries {
			time.Sleep(s.retryDelay)
		}
	}

	result := RunResult{
		JobName:   name,
		StartedAt: started,
		Duration:  time.Since(started),
		Success:   success,
	}
	if !success && lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	hist := append(s.history[name], result)
	if len(hist) > historyLimit {
		hist = hist[len(hist)-historyLimit:]
	}
	s.history[name] = hist
	s.mu.Unlock()

	if success {
		log.WithField("duration", result.Duration.String()).Info("任务完成")
	} else {
		log.WithField("duration", result.Duration.String()).Error("任务重试耗尽，放弃")
	}
}
