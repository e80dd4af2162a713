package jobs

import (
	"context"
	"time"

	"github.com/vendaflow/crm-api/internal/domain"
	"go.uber.org/zap"
)

// GoalProgressJobName is the name of the goal progress snapshot job
const GoalProgressJobName = "goal_progress"

// GoalProgressService computes progress for goals active at a point in
// time. The interface keeps the job decoupled from the service package.
type GoalProgressService interface {
	ActiveProgress(ctx context.Context, at time.Time) ([]domain.GoalProgressDTO, error)
}

// GoalProgressJob logs a daily snapshot of progress toward every active
// goal, so sales managers get a trace of goal attainment over time even
// when nobody opens the dashboard.
type GoalProgressJob struct {
	goalService GoalProgressService
	logger      *zap.Logger
	timeout     time.Duration
}

// NewGoalProgressJob creates a new goal progress snapshot job.
func NewGoalProgressJob(goalService GoalProgressService, logger *zap.Logger, timeout time.Duration) *GoalProgressJob {
	return &GoalProgressJob{
		goalService: goalService,
		logger:      logger,
		timeout:     timeout,
	}
}

// Run computes and logs progress for all currently active goals.
func (j *GoalProgressJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	now := time.Now().UTC()
	progress, err := j.goalService.ActiveProgress(ctx, now)
	if err != nil {
		j.logger.Error("goal progress snapshot failed", zap.Error(err))
		return
	}

	if len(progress) == 0 {
		j.logger.Info("no active goals")
		return
	}

	for _, p := range progress {
		j.logger.Info("goal progress",
			zap.String("goal_id", p.GoalID.String()),
			zap.String("metric", string(p.Metric)),
			zap.Float64("target", p.TargetValue),
			zap.Float64("current", p.CurrentValue),
			zap.Float64("percent", p.Percent),
		)
	}
}
