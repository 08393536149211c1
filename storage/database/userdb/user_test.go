package userdb_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulabs/checklist/core/user"
	"github.com/edulabs/checklist/storage/database"
	"github.com/edulabs/checklist/storage/database/userdb"
	testutil "github.com/edulabs/checklist/tests"
)

func setup(t *testing.T) user.Repository {
	t.Helper()

	conf := testutil.NewConfig()
	conf.Database.UserDBPath = filepath.Join(t.TempDir(), "test.db")
	db, err := database.OpenUserDB(conf)
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return userdb.NewUserRepository(db)
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()

	now := time.Now().UTC()
	usr := user.User{
		Email:     "a@checklist.io",
		CohortID:  5,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, usr.SetPassword("s3cret", 4))

	created, err := repo.CreateUser(ctx, usr)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	// a second insert bypassing the uniqueness pre-check hits the unique
	// email index; the violation must come back as the domain sentinel
	_, err = repo.CreateUser(ctx, usr)
	assert.Equal(t, user.ErrEmailExists, err)

	got, err := repo.GetUserByEmail(ctx, "a@checklist.io")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.NoError(t, got.CheckPassword("s3cret"))
}
