package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulabs/checklist/core"
	"github.com/edulabs/checklist/core/objective"
	"github.com/edulabs/checklist/core/user"
	emailsvc "github.com/edulabs/checklist/services/email"
	dummydb "github.com/edulabs/checklist/storage/database/dummy"
	testutil "github.com/edulabs/checklist/tests"
)

func setup(t *testing.T) (*user.Service, *objective.Service, user.Repository) {
	t.Helper()
	conf := testutil.NewConfig()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	objSvc := objective.NewService(dummydb.NewObjectiveRepository(db))
	usrSvc := user.NewService(conf, usrRepo, objSvc, emailsvc.NewConsoleServiceMock(conf))
	return usrSvc, objSvc, usrRepo
}

func TestService_Register(t *testing.T) {
	usrSvc, objSvc, _ := setup(t)
	ctx := context.Background()

	// the cohort already has an objective; signup must fan it out
	testutil.AddObjective(t, objSvc, 5, "CSS", "Can centre a div")

	sentBefore := len(emailsvc.SentMessages)

	usr, err := usrSvc.Register(ctx, user.NewUser{Email: "a@checklist.io", Password: "s3cret", CohortID: 5})
	require.NoError(t, err)
	assert.NotZero(t, usr.ID)
	assert.Equal(t, "a@checklist.io", usr.Email)
	assert.Equal(t, 5, usr.CohortID)
	assert.False(t, usr.IsAdmin)
	assert.NoError(t, usr.CheckPassword("s3cret"))
	assert.Error(t, usr.CheckPassword("wrong"))
	assert.WithinDuration(t, time.Now().UTC(), usr.CreatedAt, time.Minute)
	assert.Equal(t, usr.CreatedAt, usr.UpdatedAt)

	results, err := objSvc.ResultsForUser(ctx, usr.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Can centre a div", results[0].LearningObjective)
	assert.False(t, results[0].Scored())

	require.Len(t, emailsvc.SentMessages, sentBefore+1)
	assert.Equal(t, "Welcome!", emailsvc.SentMessages[sentBefore].Subject)

	got, err := usrSvc.GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr, got)

	// duplicate email is rejected as a field validation error; exact match
	_, err = usrSvc.Register(ctx, user.NewUser{Email: "a@checklist.io", Password: "other", CohortID: 5})
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %v", err)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "email", vErr.Fields[0].Field)
	assert.Equal(t, user.ErrEmailExists.Error(), vErr.Fields[0].Error)
}

func TestService_Register_UniqueIndexRace(t *testing.T) {
	usrSvc, _, usrRepo := setup(t)
	ctx := context.Background()

	usr := testutil.RegisterUser(t, usrSvc, "a@checklist.io", "s3cret", 5)

	// the store itself rejects a duplicate that slips past the uniqueness
	// pre-check, as the unique email index does under concurrent signups
	_, err := usrRepo.CreateUser(ctx, user.User{Email: usr.Email, CohortID: 5})
	assert.Equal(t, user.ErrEmailExists, err)
}

func TestNewUser_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	nu := user.NewUser{Email: "not-an-email", Password: "pw", CohortID: 1}
	err := nu.Validate(validate)
	require.Error(t, err)
	assert.IsType(t, validator.ValidationErrors{}, err)

	nu = user.NewUser{Email: "a@b.com", Password: "pw", CohortID: 1}
	assert.NoError(t, nu.Validate(validate))
}

func TestService_Login(t *testing.T) {
	usrSvc, _, _ := setup(t)
	ctx := context.Background()

	usr := testutil.RegisterUser(t, usrSvc, "a@checklist.io", "s3cret", 5)

	// unknown email and wrong password fail identically
	_, err := usrSvc.Login(ctx, user.Credentials{Email: "nobody@checklist.io", Password: "s3cret"})
	assert.Equal(t, user.ErrAuthenticationFailed, err)
	_, err = usrSvc.Login(ctx, user.Credentials{Email: "a@checklist.io", Password: "wrong"})
	assert.Equal(t, user.ErrAuthenticationFailed, err)

	sess, err := usrSvc.Login(ctx, user.Credentials{Email: "a@checklist.io", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, usr.ID, sess.UserID)
	assert.Equal(t, usr.Email, sess.Email)
	assert.False(t, sess.IsAdmin)
	assert.WithinDuration(t, time.Now().UTC(), sess.CreatedAt, time.Minute)

	// two logins never share a token
	sess2, err := usrSvc.Login(ctx, user.Credentials{Email: "a@checklist.io", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, sess2.ID)
}

func TestService_Login_AdminFlag(t *testing.T) {
	usrSvc, _, _ := setup(t)
	ctx := context.Background()

	_, err := usrSvc.CreateAdmin(ctx, user.NewUser{Email: "admin@checklist.io", Password: "s3cret", CohortID: 5})
	require.NoError(t, err)

	sess, err := usrSvc.Login(ctx, user.Credentials{Email: "admin@checklist.io", Password: "s3cret"})
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)
}

func TestService_Authenticate(t *testing.T) {
	usrSvc, _, usrRepo := setup(t)
	ctx := context.Background()

	usr := testutil.RegisterUser(t, usrSvc, "a@checklist.io", "s3cret", 5)
	sess, err := usrSvc.Login(ctx, user.Credentials{Email: "a@checklist.io", Password: "s3cret"})
	require.NoError(t, err)

	got, err := usrSvc.Authenticate(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	_, err = usrSvc.Authenticate(ctx, "no-such-token")
	assert.Equal(t, user.ErrSessionNotFound, err)

	// expired sessions are rejected and reaped
	stale := user.Session{
		ID:        "stale-token",
		UserID:    usr.ID,
		Email:     usr.Email,
		CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
	}
	_, err = usrRepo.CreateSession(ctx, stale)
	require.NoError(t, err)

	_, err = usrSvc.Authenticate(ctx, stale.ID)
	assert.Equal(t, user.ErrSessionNotFound, err)
	_, err = usrRepo.GetSession(ctx, stale.ID)
	assert.Equal(t, user.ErrSessionNotFound, err)
}
