package main

import (
	"context"

	"github.com/edulabs/checklist/core"
	"github.com/edulabs/checklist/core/user"
)

// addUser creates an account, enrolling it into its cohort's objectives the
// same way a signup over HTTP would.
func (cli *commandLine) addUser(email, pwd string, cohortID int, isAdmin bool) error {
	ctx := context.Background()
	nu := user.NewUser{
		Email:    core.CleanString(email),
		Password: pwd,
		CohortID: cohortID,
	}

	var err error
	if isAdmin {
		_, err = cli.usrSvc.CreateAdmin(ctx, nu)
	} else {
		_, err = cli.usrSvc.Register(ctx, nu)
	}
	return err
}
