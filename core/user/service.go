package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edulabs/checklist/core"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrEmailExists          = errors.New("Email already in use")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrSessionNotFound      = errors.New("session not found or expired")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		CreateSession(ctx context.Context, sess Session) (Session, error)
		GetSession(ctx context.Context, id string) (Session, error)
		DeleteSession(ctx context.Context, id string) error
	}

	// Enroller propagates a fresh registration to the objective store:
	// one pending result row per learning objective of the user's cohort.
	Enroller interface {
		EnrollUser(ctx context.Context, userID int, email string, cohortID int) error
	}

	Service struct {
		conf     *core.Config
		repo     Repository
		enroller Enroller
		mailSvc  core.EmailService
	}
)

func NewService(conf *core.Config, repo Repository, enroller Enroller, mailSvc core.EmailService) *Service {
	return &Service{conf: conf, repo: repo, enroller: enroller, mailSvc: mailSvc}
}

// Register creates a student account and fans its cohort's learning
// objectives out into pending result rows.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	return svc.create(ctx, nu, false)
}

// CreateAdmin creates an account with the admin flag set. Not reachable
// over HTTP; used by the admin CLI.
func (svc *Service) CreateAdmin(ctx context.Context, nu NewUser) (User, error) {
	return svc.create(ctx, nu, true)
}

func (svc *Service) checkEmailUniqueness(ctx context.Context, email string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) create(ctx context.Context, nu NewUser, isAdmin bool) (User, error) {
	if err := svc.checkEmailUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		Email:     nu.Email,
		CohortID:  nu.CohortID,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password, svc.conf.BcryptCost); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		// a concurrent signup may win the unique index race after the
		// uniqueness pre-check passed
		if errors.Cause(err) == ErrEmailExists {
			return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return User{}, errors.Wrap(err, "creating user")
	}

	if err := svc.enroller.EnrollUser(ctx, usr.ID, usr.Email, usr.CohortID); err != nil {
		return User{}, errors.Wrap(err, "enrolling user")
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// Login checks the credentials and issues a new session on success.
// An unknown email and a wrong password both come back as
// ErrAuthenticationFailed; callers must not tell the two apart.
func (svc *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Session{}, ErrAuthenticationFailed
		}
		return Session{}, errors.Wrap(err, "finding user by email")
	}
	if err := usr.CheckPassword(creds.Password); err != nil {
		return Session{}, ErrAuthenticationFailed
	}

	sess := Session{
		ID:        uuid.New().String(),
		UserID:    usr.ID,
		Email:     usr.Email,
		IsAdmin:   usr.IsAdmin,
		CreatedAt: time.Now().UTC(),
	}
	sess, err = svc.repo.CreateSession(ctx, sess)
	if err != nil {
		return Session{}, errors.Wrap(err, "creating session")
	}
	return sess, nil
}

// Authenticate resolves a sessionId cookie value to a live session.
// Expired sessions are deleted on sight and reported as not found.
func (svc *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	sess, err := svc.repo.GetSession(ctx, token)
	if err != nil {
		if errors.Cause(err) == ErrSessionNotFound {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, errors.Wrap(err, "finding session")
	}
	if sess.Expired(svc.conf.Server.SessionTTL) {
		_ = svc.repo.DeleteSession(ctx, sess.ID)
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email))
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: usr.Email}},
		Subject: "Welcome!",
		TextContent: fmt.Sprintf(
			"Hi,\n\nYour %s account is ready. Log in to start ticking off your cohort's learning objectives.\n",
			svc.conf.AppName,
		),
	}
	svc.mailSvc.SendMessages(msg)
}
