package input

import (
	"context"

	"web-navigator/internal/domain/entity"
)

// PlanRunner drives one plan against a fresh browser page.
type PlanRunner interface {
	Run(ctx context.Context, plan []entity.PlanStep) (*entity.PlanOutcome, error)
}

// Planner turns a natural-language instruction into an intent and a plan.
type Planner interface {
	ParseIntent(ctx context.Context, instruction string) entity.Intent
	BuildPlan(intent entity.Intent) []entity.PlanStep
}
