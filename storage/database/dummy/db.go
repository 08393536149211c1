package dummydb

import (
	"sync"

	"github.com/edulabs/checklist/core/objective"
	"github.com/edulabs/checklist/core/user"
)

type (
	// DB is an in-memory stand-in for both stores, used by tests.
	DB struct {
		user      *userTable
		objective *objectiveTable
	}

	userTable struct {
		sync.RWMutex
		pkCount  int
		users    map[int]*user.User
		sessions map[string]*user.Session
	}

	// objectiveTable holds the objective store's three tables behind a
	// single mutex; locking the whole table is this fake's transaction.
	objectiveTable struct {
		sync.RWMutex
		enrollments map[int]enrollment
		objectives  []objective.LearningObjective
		results     []objective.Result
	}

	enrollment struct {
		userID   int
		email    string
		cohortID int
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{
			users:    make(map[int]*user.User),
			sessions: make(map[string]*user.Session),
		},
		objective: &objectiveTable{
			enrollments: make(map[int]enrollment),
		},
	}
	return db, nil
}
