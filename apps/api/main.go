package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/edulabs/checklist/apps/api/echo"
	"github.com/edulabs/checklist/core"
	"github.com/edulabs/checklist/core/objective"
	"github.com/edulabs/checklist/core/user"
	emailsvc "github.com/edulabs/checklist/services/email"
	logsvc "github.com/edulabs/checklist/services/logger"
	"github.com/edulabs/checklist/storage/database"
	"github.com/edulabs/checklist/storage/database/lodb"
	"github.com/edulabs/checklist/storage/database/userdb"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatalf("%+v", err)
	}

	var logger core.Logger
	if conf.RollbarToken != "" && !conf.Debug {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	// set up DBs
	userDB, err := database.OpenUserDB(conf)
	if err != nil {
		logger.Fatal("opening user DB", err)
	}
	defer func() { _ = userDB.Close() }()

	loDB, err := database.OpenObjectiveDB(conf)
	if err != nil {
		logger.Fatal("opening objective DB", err)
	}
	defer func() { _ = loDB.Close() }()

	// set up validation
	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	core.InitValidators(validate, translator)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	objSvc := objective.NewService(lodb.NewObjectiveRepository(loDB))
	usrSvc := user.NewService(conf, userdb.NewUserRepository(userDB), objSvc, mailSvc)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Addr:         fmt.Sprintf(":%d", conf.Server.Port),
		Conf:         conf,
		Logger:       logger,
		Validate:     validate,
		Translator:   translator,
		UserSvc:      usrSvc,
		ObjectiveSvc: objSvc,
	})
	app.Start()
}
