package dummydb

import (
	"context"
	"sort"

	"github.com/edulabs/checklist/core/objective"
)

type objectiveRepository struct {
	db *objectiveTable
}

var _ objective.Repository = (*objectiveRepository)(nil) // interface compliance check

func NewObjectiveRepository(db *DB) objective.Repository {
	return &objectiveRepository{db: db.objective}
}

func (repo *objectiveRepository) AddObjective(_ context.Context, lo objective.LearningObjective) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.objectives = append(repo.db.objectives, lo)
	for _, enr := range repo.db.enrollments {
		if enr.cohortID == lo.CohortID {
			repo.db.results = append(repo.db.results, objective.Result{
				UserID:            enr.userID,
				Email:             enr.email,
				CohortID:          lo.CohortID,
				Topic:             lo.Topic,
				LearningObjective: lo.LearningObjective,
			})
		}
	}
	return nil
}

func (repo *objectiveRepository) RemoveObjective(_ context.Context, cohortID int, label string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	keptLOs := repo.db.objectives[:0]
	for _, lo := range repo.db.objectives {
		if !(lo.CohortID == cohortID && lo.LearningObjective == label) {
			keptLOs = append(keptLOs, lo)
		}
	}
	repo.db.objectives = keptLOs

	keptResults := repo.db.results[:0]
	for _, res := range repo.db.results {
		if !(res.CohortID == cohortID && res.LearningObjective == label) {
			keptResults = append(keptResults, res)
		}
	}
	repo.db.results = keptResults
	return nil
}

func (repo *objectiveRepository) SeedObjectives(_ context.Context, los []objective.LearningObjective) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.objectives = append(repo.db.objectives, los...)
	return nil
}

func (repo *objectiveRepository) EnrollUser(_ context.Context, userID int, email string, cohortID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.enrollments[userID]; !ok {
		repo.db.enrollments[userID] = enrollment{userID: userID, email: email, cohortID: cohortID}
	}
	for _, lo := range repo.db.objectives {
		if lo.CohortID == cohortID {
			repo.db.results = append(repo.db.results, objective.Result{
				UserID:            userID,
				Email:             email,
				CohortID:          cohortID,
				Topic:             lo.Topic,
				LearningObjective: lo.LearningObjective,
			})
		}
	}
	return nil
}

func (repo *objectiveRepository) UpdateScore(_ context.Context, su objective.ScoreUpdate) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, res := range repo.db.results {
		if res.UserID == su.UserID && res.LearningObjective == su.LearningObjective {
			repo.db.results[i].Score = su.Score
			repo.db.results[i].IsActive = su.IsActive
		}
	}
	return nil
}

func (repo *objectiveRepository) ResultsForUser(_ context.Context, userID int, orderByTopic bool) ([]objective.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var results []objective.Result
	for _, res := range repo.db.results {
		if res.UserID == userID {
			results = append(results, res)
		}
	}
	if orderByTopic {
		sort.SliceStable(results, func(i, j int) bool { return results[i].Topic < results[j].Topic })
	}
	return results, nil
}

func (repo *objectiveRepository) ObjectivesForCohort(_ context.Context, cohortID int) ([]objective.LearningObjective, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var los []objective.LearningObjective
	for _, lo := range repo.db.objectives {
		if lo.CohortID == cohortID {
			los = append(los, lo)
		}
	}
	sort.SliceStable(los, func(i, j int) bool { return los[i].Topic < los[j].Topic })
	return los, nil
}

func (repo *objectiveRepository) Cohorts(_ context.Context) ([]objective.Cohort, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[int]bool)
	var cohorts []objective.Cohort
	for _, lo := range repo.db.objectives {
		if !seen[lo.CohortID] {
			seen[lo.CohortID] = true
			cohorts = append(cohorts, objective.Cohort{CohortID: lo.CohortID})
		}
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i].CohortID < cohorts[j].CohortID })
	return cohorts, nil
}

func (repo *objectiveRepository) TopicsForUser(_ context.Context, userID int) ([]objective.Topic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[string]bool)
	var topics []objective.Topic
	for _, res := range repo.db.results {
		if res.UserID == userID && !seen[res.Topic] {
			seen[res.Topic] = true
			topics = append(topics, objective.Topic{Topic: res.Topic})
		}
	}
	return topics, nil
}

func (repo *objectiveRepository) TopicsForCohort(_ context.Context, cohortID int) ([]objective.Topic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[string]bool)
	var topics []objective.Topic
	for _, lo := range repo.db.objectives {
		if lo.CohortID == cohortID && !seen[lo.Topic] {
			seen[lo.Topic] = true
			topics = append(topics, objective.Topic{Topic: lo.Topic})
		}
	}
	return topics, nil
}

func (repo *objectiveRepository) StudentsForCohort(_ context.Context, cohortID int) ([]objective.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[int]bool)
	var students []objective.Student
	for _, res := range repo.db.results {
		if res.CohortID == cohortID && !seen[res.UserID] {
			seen[res.UserID] = true
			students = append(students, objective.Student{Email: res.Email, UserID: res.UserID})
		}
	}
	return students, nil
}
