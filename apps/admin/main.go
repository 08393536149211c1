package main

import (
	"log"
	"os"

	"github.com/edulabs/checklist/core"
	"github.com/edulabs/checklist/core/objective"
	"github.com/edulabs/checklist/core/user"
	"github.com/edulabs/checklist/storage/database"
	"github.com/edulabs/checklist/storage/database/lodb"
	"github.com/edulabs/checklist/storage/database/userdb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DBs
	userDB, err := database.OpenUserDB(conf)
	errAndDie(err)
	defer userDB.Close()

	loDB, err := database.OpenObjectiveDB(conf)
	errAndDie(err)
	defer loDB.Close()

	// set up services; no mail service from the CLI
	objSvc := objective.NewService(lodb.NewObjectiveRepository(loDB))
	usrSvc := user.NewService(conf, userdb.NewUserRepository(userDB), objSvc, nil)

	// start CLI
	cli := commandLine{
		usrSvc: usrSvc,
		objSvc: objSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
