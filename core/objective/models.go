package objective

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/edulabs/checklist/core"
)

// LearningObjective is a single trackable skill statement scoped to a
// cohort and topic. It has no surrogate key; the full tuple is its identity.
type LearningObjective struct {
	CohortID          int    `json:"cohort_id" db:"cohort_id"`
	Topic             string `json:"topic" db:"topic"`
	LearningObjective string `json:"learning_objective" db:"learning_objective"`
}

// Result is the per-student tracking record for one learning objective.
// Score and IsActive stay null until the objective is marked via RecordScore.
type Result struct {
	UserID            int       `json:"user_id" db:"user_id"`
	Email             string    `json:"email" db:"email"`
	CohortID          int       `json:"cohort_id" db:"cohort_id"`
	Topic             string    `json:"topic" db:"topic"`
	LearningObjective string    `json:"learning_objective" db:"learning_objective"`
	Score             null.Int  `json:"score" db:"score"`
	IsActive          null.Bool `json:"isActive" db:"is_active"`
}

func (r Result) Scored() bool { return r.Score.Valid }

// Student is the distinct (email, user_id) projection of a cohort's results.
type Student struct {
	Email  string `json:"email" db:"email"`
	UserID int    `json:"user_id" db:"user_id"`
}

type Cohort struct {
	CohortID int `json:"cohort_id" db:"cohort_id"`
}

type Topic struct {
	Topic string `json:"topic" db:"topic"`
}

// NewObjective contains information needed to add a LearningObjective.
type NewObjective struct {
	CohortID          int    `json:"cohort_id" validate:"required"`
	Topic             string `json:"topic" validate:"required"`
	LearningObjective string `json:"learning_objective" validate:"required"`
}

func (no *NewObjective) Validate(validate *validator.Validate) error {
	no.Topic = core.CleanString(no.Topic)
	no.LearningObjective = core.CleanString(no.LearningObjective)
	return validate.Struct(no)
}

// ScoreUpdate marks a student's result row. Field names follow the
// client payload.
type ScoreUpdate struct {
	UserID            int       `json:"userID" validate:"required"`
	LearningObjective string    `json:"LO" validate:"required"`
	Score             null.Int  `json:"score"`
	IsActive          null.Bool `json:"isActive"`
}

func (su *ScoreUpdate) Validate(validate *validator.Validate) error {
	su.LearningObjective = core.CleanString(su.LearningObjective)
	return validate.Struct(su)
}
