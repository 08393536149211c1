package objective

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("no matching rows")
)

type (
	// Repository is the objective store boundary. Multi-row operations
	// (fan-out insert/delete, enrollment) must run as single set-based
	// statements inside one transaction so the one-result-per-user-per-
	// objective invariant is never observable half-applied.
	Repository interface {
		AddObjective(ctx context.Context, lo LearningObjective) error
		RemoveObjective(ctx context.Context, cohortID int, label string) error
		SeedObjectives(ctx context.Context, los []LearningObjective) error
		EnrollUser(ctx context.Context, userID int, email string, cohortID int) error
		UpdateScore(ctx context.Context, su ScoreUpdate) error
		ResultsForUser(ctx context.Context, userID int, orderByTopic bool) ([]Result, error)
		ObjectivesForCohort(ctx context.Context, cohortID int) ([]LearningObjective, error)
		Cohorts(ctx context.Context) ([]Cohort, error)
		TopicsForUser(ctx context.Context, userID int) ([]Topic, error)
		TopicsForCohort(ctx context.Context, cohortID int) ([]Topic, error)
		StudentsForCohort(ctx context.Context, cohortID int) ([]Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddObjective inserts the objective and fans a pending result row out to
// every student currently enrolled in the cohort.
func (svc *Service) AddObjective(ctx context.Context, no NewObjective) error {
	lo := LearningObjective{
		CohortID:          no.CohortID,
		Topic:             no.Topic,
		LearningObjective: no.LearningObjective,
	}
	return svc.repo.AddObjective(ctx, lo)
}

// RemoveObjective deletes the objective and all derived result rows.
// Matching is on (cohort_id, learning_objective) only; topic is not part of
// the match, so reusing the same objective text under two topics removes
// both. Removing an objective that is already gone is a no-op.
func (svc *Service) RemoveObjective(ctx context.Context, cohortID int, label string) error {
	return svc.repo.RemoveObjective(ctx, cohortID, label)
}

// SeedCohort installs the starter objective set for a brand-new cohort.
// No fan-out: a new cohort has no students yet.
func (svc *Service) SeedCohort(ctx context.Context, cohortID int) error {
	los := make([]LearningObjective, 0, len(seedObjectives))
	for _, seed := range seedObjectives {
		los = append(los, LearningObjective{
			CohortID:          cohortID,
			Topic:             seed.Topic,
			LearningObjective: seed.LearningObjective,
		})
	}
	return svc.repo.SeedObjectives(ctx, los)
}

// EnrollUser gives a newly registered student a pending result row for each
// of their cohort's existing objectives. Satisfies user.Enroller.
func (svc *Service) EnrollUser(ctx context.Context, userID int, email string, cohortID int) error {
	return svc.repo.EnrollUser(ctx, userID, email, cohortID)
}

// RecordScore updates the matching result row and returns the student's full
// result set. An update that matches no row is a silent no-op; the returned
// listing reflects whatever is actually stored.
func (svc *Service) RecordScore(ctx context.Context, su ScoreUpdate) ([]Result, error) {
	if err := svc.repo.UpdateScore(ctx, su); err != nil {
		return nil, errors.Wrap(err, "updating score")
	}
	results, err := svc.repo.ResultsForUser(ctx, su.UserID, false)
	if err != nil {
		return nil, errors.Wrap(err, "listing results")
	}
	if results == nil {
		results = []Result{}
	}
	return results, nil
}

// ResultsForUser returns the student's result rows; ErrNotFound when the
// student has none.
func (svc *Service) ResultsForUser(ctx context.Context, userID int) ([]Result, error) {
	results, err := svc.repo.ResultsForUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

// StudentData returns the student's result rows ordered by topic. Unlike
// ResultsForUser an empty set is not an error.
func (svc *Service) StudentData(ctx context.Context, userID int) ([]Result, error) {
	results, err := svc.repo.ResultsForUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []Result{}
	}
	return results, nil
}

// ObjectivesForCohort returns the cohort's objectives ordered by topic.
func (svc *Service) ObjectivesForCohort(ctx context.Context, cohortID int) ([]LearningObjective, error) {
	los, err := svc.repo.ObjectivesForCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if los == nil {
		los = []LearningObjective{}
	}
	return los, nil
}

// Cohorts returns the distinct cohort ids known to the objective store.
func (svc *Service) Cohorts(ctx context.Context) ([]Cohort, error) {
	cohorts, err := svc.repo.Cohorts(ctx)
	if err != nil {
		return nil, err
	}
	if cohorts == nil {
		cohorts = []Cohort{}
	}
	return cohorts, nil
}

// TopicsForUser returns the distinct topics across the student's results;
// ErrNotFound when there are none.
func (svc *Service) TopicsForUser(ctx context.Context, userID int) ([]Topic, error) {
	topics, err := svc.repo.TopicsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, ErrNotFound
	}
	return topics, nil
}

// TopicsForCohort returns the distinct topics across the cohort's
// objectives; ErrNotFound when there are none.
func (svc *Service) TopicsForCohort(ctx context.Context, cohortID int) ([]Topic, error) {
	topics, err := svc.repo.TopicsForCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, ErrNotFound
	}
	return topics, nil
}

// StudentsForCohort returns the distinct (email, user_id) pairs appearing in
// the cohort's results.
func (svc *Service) StudentsForCohort(ctx context.Context, cohortID int) ([]Student, error) {
	students, err := svc.repo.StudentsForCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []Student{}
	}
	return students, nil
}
