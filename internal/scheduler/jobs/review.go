// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"

	"github.com/zhenqiu/fupan/internal/review"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// defaultReviewSchedule fires at 18:00 on trading weekdays, well after
// the 15:00 close so the day's data is settled.
const defaultReviewSchedule = "0 0 18 * * MON-FRI"

// ReviewJob runs the daily review pipeline on schedule.
type ReviewJob struct {
	runner   *review.Runner
	schedule string
	log      *logger.Logger
}

// NewReviewJob creates the job. An empty schedule uses the default
// 18:00 weekday slot.
func NewReviewJob(runner *review.Runner, schedule string, log *logger.Logger) *ReviewJob {
	if schedule == "" {
		schedule = defaultReviewSchedule
	}
	return &ReviewJob{runner: runner, schedule: schedule, log: log}
}

func (j *ReviewJob) Name() string { return "daily_review" }

func (j *ReviewJob) Schedule() string { return j.schedule }

// Run executes a review for the trade date resolved from the clock,
// with notifications on.
func (j *ReviewJob) Run(ctx context.Context) error {
	_, err := j.runner.Run(ctx, "", true)
	return err
}
