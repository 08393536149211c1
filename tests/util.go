package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/edulabs/checklist/core"
	"github.com/edulabs/checklist/core/objective"
	"github.com/edulabs/checklist/core/user"
)

// NewConfig returns a test configuration. Bcrypt runs at MinCost to keep
// the suite fast.
func NewConfig() *core.Config {
	conf := &core.Config{
		Env:              "test",
		Debug:            true,
		TestMode:         true,
		AppName:          "Knowledge Checklist",
		BcryptCost:       bcrypt.MinCost,
		DefaultFromEmail: mail.Address{Name: "Knowledge Checklist", Address: "noreply@localhost"},
	}
	conf.Server.Port = 8080
	conf.Server.CORSOrigin = "http://localhost:3000"
	conf.Server.SessionTTL = 24 * time.Hour
	return conf
}

// NewValidator builds the app validator and translator pair.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate, translator
}

// RegisterUser registers a student through the account service.
func RegisterUser(t *testing.T, svc *user.Service, email, pwd string, cohortID int) user.User {
	t.Helper()
	usr, err := svc.Register(context.Background(), user.NewUser{
		Email:    email,
		Password: pwd,
		CohortID: cohortID,
	})
	if err != nil {
		t.Fatalf("RegisterUser() failed: %v", err)
	}
	return usr
}

// AddObjective adds a learning objective, fanning it out to the cohort.
func AddObjective(t *testing.T, svc *objective.Service, cohortID int, topic, label string) {
	t.Helper()
	err := svc.AddObjective(context.Background(), objective.NewObjective{
		CohortID:          cohortID,
		Topic:             topic,
		LearningObjective: label,
	})
	if err != nil {
		t.Fatalf("AddObjective() failed: %v", err)
	}
}
