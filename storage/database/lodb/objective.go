package lodb

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/edulabs/checklist/core/objective"
)

type objectiveRepository struct {
	db *sqlx.DB
}

var _ objective.Repository = (*objectiveRepository)(nil) // interface compliance check

func NewObjectiveRepository(db *sqlx.DB) objective.Repository {
	return &objectiveRepository{db: db}
}

// inTx runs fn inside a serializable transaction. Fan-out statements race
// with concurrent enrollment for the same cohort; serializable isolation is
// what keeps the one-result-per-user-per-objective invariant from being
// committed half-applied.
func (repo *objectiveRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}

func (repo *objectiveRepository) AddObjective(ctx context.Context, lo objective.LearningObjective) error {
	return repo.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO learning_objectives (cohort_id, topic, learning_objective) VALUES ($1, $2, $3)`,
			lo.CohortID, lo.Topic, lo.LearningObjective,
		)
		if err != nil {
			return errors.Wrap(err, "inserting objective")
		}

		// set-based fan-out: one pending result row per enrolled student
		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (user_id, email, cohort_id, topic, learning_objective)
			 SELECT u.id, u.email, u.cohort_id, $2, $3
			 FROM users u
			 WHERE u.cohort_id = $1`,
			lo.CohortID, lo.Topic, lo.LearningObjective,
		)
		return errors.Wrap(err, "fanning objective out to results")
	})
}

func (repo *objectiveRepository) RemoveObjective(ctx context.Context, cohortID int, label string) error {
	return repo.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM learning_objectives WHERE cohort_id = $1 AND learning_objective = $2`,
			cohortID, label,
		)
		if err != nil {
			return errors.Wrap(err, "deleting objective")
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM results WHERE cohort_id = $1 AND learning_objective = $2`,
			cohortID, label,
		)
		return errors.Wrap(err, "deleting derived results")
	})
}

func (repo *objectiveRepository) SeedObjectives(ctx context.Context, los []objective.LearningObjective) error {
	return repo.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, lo := range los {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO learning_objectives (cohort_id, topic, learning_objective) VALUES ($1, $2, $3)`,
				lo.CohortID, lo.Topic, lo.LearningObjective,
			)
			if err != nil {
				return errors.Wrap(err, "inserting seed objective")
			}
		}
		return nil
	})
}

func (repo *objectiveRepository) EnrollUser(ctx context.Context, userID int, email string, cohortID int) error {
	return repo.inTx(ctx, func(tx *sqlx.Tx) error {
		// mirror the account so later objective fan-outs can join on it
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, cohort_id) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO NOTHING`,
			userID, email, cohortID,
		)
		if err != nil {
			return errors.Wrap(err, "mirroring user")
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (user_id, email, cohort_id, topic, learning_objective)
			 SELECT $1, $2, lo.cohort_id, lo.topic, lo.learning_objective
			 FROM learning_objectives lo
			 WHERE lo.cohort_id = $3`,
			userID, email, cohortID,
		)
		return errors.Wrap(err, "fanning objectives out to new user")
	})
}

func (repo *objectiveRepository) UpdateScore(ctx context.Context, su objective.ScoreUpdate) error {
	// zero rows affected is fine; the row may never have existed
	_, err := repo.db.ExecContext(ctx,
		`UPDATE results SET score = $1, is_active = $2 WHERE user_id = $3 AND learning_objective = $4`,
		su.Score, su.IsActive, su.UserID, su.LearningObjective,
	)
	return errors.Wrap(err, "updating score")
}

func (repo *objectiveRepository) ResultsForUser(ctx context.Context, userID int, orderByTopic bool) ([]objective.Result, error) {
	query := `SELECT user_id, email, cohort_id, topic, learning_objective, score, is_active
	          FROM results WHERE user_id = $1`
	if orderByTopic {
		query += ` ORDER BY topic ASC`
	}
	var results []objective.Result
	if err := repo.db.SelectContext(ctx, &results, query, userID); err != nil {
		return nil, errors.Wrap(err, "selecting results")
	}
	return results, nil
}

func (repo *objectiveRepository) ObjectivesForCohort(ctx context.Context, cohortID int) ([]objective.LearningObjective, error) {
	var los []objective.LearningObjective
	err := repo.db.SelectContext(ctx, &los,
		`SELECT cohort_id, topic, learning_objective
		 FROM learning_objectives WHERE cohort_id = $1 ORDER BY topic ASC`, cohortID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting objectives")
	}
	return los, nil
}

func (repo *objectiveRepository) Cohorts(ctx context.Context) ([]objective.Cohort, error) {
	var cohorts []objective.Cohort
	err := repo.db.SelectContext(ctx, &cohorts,
		`SELECT DISTINCT cohort_id FROM learning_objectives ORDER BY cohort_id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "selecting cohorts")
	}
	return cohorts, nil
}

func (repo *objectiveRepository) TopicsForUser(ctx context.Context, userID int) ([]objective.Topic, error) {
	var topics []objective.Topic
	err := repo.db.SelectContext(ctx, &topics,
		`SELECT DISTINCT topic FROM results WHERE user_id = $1`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting user topics")
	}
	return topics, nil
}

func (repo *objectiveRepository) TopicsForCohort(ctx context.Context, cohortID int) ([]objective.Topic, error) {
	var topics []objective.Topic
	err := repo.db.SelectContext(ctx, &topics,
		`SELECT DISTINCT topic FROM learning_objectives WHERE cohort_id = $1`, cohortID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting cohort topics")
	}
	return topics, nil
}

func (repo *objectiveRepository) StudentsForCohort(ctx context.Context, cohortID int) ([]objective.Student, error) {
	var students []objective.Student
	err := repo.db.SelectContext(ctx, &students,
		`SELECT DISTINCT email, user_id FROM results WHERE cohort_id = $1`, cohortID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}
