package main

import (
	"context"
	"testing"

	"github.com/edulabs/checklist/core/objective"
	"github.com/edulabs/checklist/core/user"
	dummydb "github.com/edulabs/checklist/storage/database/dummy"
	testutil "github.com/edulabs/checklist/tests"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	conf := testutil.NewConfig()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	objSvc := objective.NewService(dummydb.NewObjectiveRepository(db))
	usrSvc := user.NewService(conf, dummydb.NewUserRepository(db), objSvc, nil)

	return &commandLine{
		usrSvc: usrSvc,
		objSvc: objSvc,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no cohort", args: []string{"adduser", "-email", "a@b.com"}, pwd: "pw", wantErr: errHelp},
		{name: "email but no password", args: []string{"adduser", "-email", "a@b.com", "-cohort", "5"}, wantErr: errHelp},
		{name: "create student", args: []string{"adduser", "-email", "a@b.com", "-cohort", "5"}, pwd: "pw"},
		{name: "duplicate email", args: []string{"adduser", "-email", "a@b.com", "-cohort", "5"}, pwd: "pw", wantErr: user.ErrEmailExists},
		{name: "create admin", args: []string{"adduser", "-email", "admin@b.com", "-cohort", "5", "-admin"}, pwd: "pw"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	usr, err := cli.usrSvc.GetByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail() failed: %v", err)
	}
	if usr.IsAdmin {
		t.Error("student account must not be admin")
	}
	if err := usr.CheckPassword("pw"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}

	admin, err := cli.usrSvc.GetByEmail(context.Background(), "admin@b.com")
	if err != nil {
		t.Fatalf("GetByEmail() failed: %v", err)
	}
	if !admin.IsAdmin {
		t.Error("admin account must be admin")
	}
}

func Test_commandLine_seedCohort(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"seedcohort"}, wantErr: errHelp},
		{name: "seed", args: []string{"seedcohort", "-cohort", "9"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	los, err := cli.objSvc.ObjectivesForCohort(context.Background(), 9)
	if err != nil {
		t.Fatalf("ObjectivesForCohort() failed: %v", err)
	}
	if len(los) != 6 {
		t.Errorf("seeded objectives = %d, want 6", len(los))
	}
}
