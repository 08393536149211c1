package userdb

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/edulabs/checklist/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var count int
	err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users WHERE email = ?", email)
	if err != nil {
		return errors.Wrap(err, "counting users by email")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO users (email, cohort_id, encrypted_password, admin, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		usr.Email, usr.CohortID, usr.PasswordHash, usr.IsAdmin, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		// concurrent signups race to the unique email index
		if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, errors.Wrap(err, "reading inserted user id")
	}
	usr.ID = int(id)
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT id, email, cohort_id, encrypted_password, admin, created_at, updated_at
		 FROM users WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "selecting user by id")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr,
		`SELECT id, email, cohort_id, encrypted_password, admin, created_at, updated_at
		 FROM users WHERE email = ?`, email)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "selecting user by email")
	}
	return usr, nil
}

func (repo *userRepository) CreateSession(ctx context.Context, sess user.Session) (user.Session, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, email, is_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Email, sess.IsAdmin, sess.CreatedAt,
	)
	if err != nil {
		return user.Session{}, errors.Wrap(err, "inserting session")
	}
	return sess, nil
}

func (repo *userRepository) GetSession(ctx context.Context, id string) (user.Session, error) {
	var sess user.Session
	err := repo.db.GetContext(ctx, &sess,
		`SELECT id, user_id, email, is_admin, created_at FROM sessions WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return user.Session{}, user.ErrSessionNotFound
	}
	if err != nil {
		return user.Session{}, errors.Wrap(err, "selecting session")
	}
	return sess, nil
}

func (repo *userRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
