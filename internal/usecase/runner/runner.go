package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"web-navigator/internal/application/port/input"
	"web-navigator/internal/application/port/output"
	"web-navigator/internal/domain/entity"
	"web-navigator/internal/usecase/executor"
)

var _ input.PlanRunner = (*Runner)(nil)

// Runner executes a plan sequentially against one fresh page. Steps run in
// order because each may depend on DOM state left by the previous one; a
// single step's failure never aborts the plan.
type Runner struct {
	browser output.BrowserPort
	exec    *executor.Executor
	logger  output.LoggerPort

	// CaptureOnFailure attaches a screenshot to failed step results.
	CaptureOnFailure bool
}

func New(browser output.BrowserPort, exec *executor.Executor, logger output.LoggerPort) *Runner {
	return &Runner{browser: browser, exec: exec, logger: logger}
}

// Run acquires one page for the whole plan and guarantees it is released on
// every exit path. Only session acquisition failure (or cancellation) makes
// Run itself return an error; per-step failures become failed StepResults
// and the plan continues.
func (r *Runner) Run(ctx context.Context, plan []entity.PlanStep) (*entity.PlanOutcome, error) {
	start := time.Now()

	page, err := r.browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			r.logger.Warn("page close failed", "error", cerr)
		}
	}()

	outcome := &entity.PlanOutcome{
		TaskID: uuid.NewString(),
		Steps:  make([]entity.StepResult, 0, len(plan)),
		Items:  []entity.ExtractedItem{},
	}
	log := r.logger.WithField("task_id", outcome.TaskID)

	for i, step := range plan {
		if ctx.Err() != nil {
			outcome.Elapsed = time.Since(start)
			return outcome, ctx.Err()
		}

		log.Info("executing step", "index", i, "step_type", string(step.StepType), "target", step.Target)
		payload, stepErr := r.exec.Execute(ctx, page, step)

		result := entity.StepResult{
			StepIndex: i,
			StepType:  step.StepType,
		}
		if stepErr != nil {
			log.Error("step failed", "index", i, "error", stepErr)
			result.Error = stepErr.Error()
			if r.CaptureOnFailure {
				if shot, serr := page.Screenshot(); serr == nil {
					result.Screenshot = shot
				}
			}
		} else {
			result.Success = true
			result.Result = payload
			if items, ok := payload.([]entity.ExtractedItem); ok {
				outcome.Items = append(outcome.Items, items...)
			}
		}
		outcome.Steps = append(outcome.Steps, result)
	}

	outcome.Elapsed = time.Since(start)
	log.Info("plan finished",
		"steps", len(outcome.Steps), "items", len(outcome.Items), "elapsed", outcome.Elapsed.String())
	return outcome, nil
}
