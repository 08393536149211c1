package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/edulabs/checklist/core/objective"
	"github.com/edulabs/checklist/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc *user.Service
	objSvc *objective.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -email EMAIL -cohort COHORT_ID [-admin] - create an account; the password is prompted next")
	fmt.Println("  seedcohort -cohort COHORT_ID - install the starter objective set for a new cohort")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserEmail := addUserCmd.String("email", "", "The account's email address.")
	addUserCohort := addUserCmd.Int("cohort", 0, "The cohort the account belongs to.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Set the admin flag on the account.")

	seedCohortCmd := flag.NewFlagSet("seedcohort", flag.ExitOnError)
	seedCohortID := seedCohortCmd.Int("cohort", 0, "The cohort to seed.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserCohort == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserEmail, string(pwd), *addUserCohort, *addUserAdmin)
	case "seedcohort":
		if err := seedCohortCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedCohortID == 0 {
			seedCohortCmd.Usage()
			return errHelp
		}
		return cli.seedCohort(*seedCohortID)
	default:
		cli.printUsage()
		return errHelp
	}
}
