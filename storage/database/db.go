package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/edulabs/checklist/core"
)

// OpenObjectiveDB connects to the PostgreSQL store holding
// learning_objectives and results (plus the mirrored users projection the
// fan-out joins against) and ensures its schema.
func OpenObjectiveDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", conf.Database.PGURL)
	if err != nil {
		return nil, errors.Wrap(err, "opening objective DB")
	}
	if err = ping(db); err != nil {
		return nil, err
	}
	if _, err = db.Exec(objectiveSchema); err != nil {
		return nil, errors.Wrap(err, "ensuring objective DB schema")
	}
	return db, nil
}

// OpenUserDB opens the embedded SQLite file holding users and sessions and
// ensures its schema.
func OpenUserDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", conf.Database.UserDBPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening user DB")
	}
	if _, err = db.Exec(userSchema); err != nil {
		return nil, errors.Wrap(err, "ensuring user DB schema")
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

const userSchema = `
CREATE TABLE IF NOT EXISTS users (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	email              TEXT NOT NULL UNIQUE,
	cohort_id          INTEGER NOT NULL,
	encrypted_password BLOB NOT NULL,
	admin              BOOLEAN NOT NULL DEFAULT false,
	created_at         TIMESTAMP NOT NULL,
	updated_at         TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	email      TEXT NOT NULL,
	is_admin   BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMP NOT NULL
);
`

const objectiveSchema = `
CREATE TABLE IF NOT EXISTS users (
	id        INTEGER PRIMARY KEY, -- mirrored from the account store at enrollment
	email     TEXT NOT NULL,
	cohort_id INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS learning_objectives (
	cohort_id          INTEGER NOT NULL,
	topic              TEXT NOT NULL,
	learning_objective TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	user_id            INTEGER NOT NULL,
	email              TEXT NOT NULL,
	cohort_id          INTEGER NOT NULL,
	topic              TEXT NOT NULL,
	learning_objective TEXT NOT NULL,
	score              INTEGER,
	is_active          BOOLEAN
);
`
