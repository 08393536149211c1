package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string // development (default), test, production
	Debug    bool
	TestMode bool
	AppName  string
	Build    string

	Server struct {
		Port       int
		CORSOrigin string
		SessionTTL time.Duration
	}

	Database struct {
		PGURL      string // objectives/results store (PostgreSQL)
		UserDBPath string // users/sessions store (SQLite file)
	}

	BcryptCost       int
	DefaultFromEmail mail.Address
	SendgridAPIKey   string
	RollbarToken     string
}

// NewConfig loads the app configuration from the environment,
// with an optional `config/.env.<env>` dotenv file layered underneath.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("env", "development")
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Knowledge Checklist")
	v.SetDefault("port", 8080)
	v.SetDefault("corsOrigin", "http://localhost:3000")
	v.SetDefault("sessionTTL", 24*time.Hour)
	v.SetDefault("userDBPath", "knowledge_checklist.db")
	v.SetDefault("bcryptCost", 8)
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	env := os.Getenv("ENV")
	if env == "" {
		env = v.GetString("env")
	}
	env = strings.ToLower(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	for key, envVar := range map[string]string{
		"env":              "ENV",
		"debug":            "DEBUG",
		"port":             "PORT",
		"corsOrigin":       "CORS_ORIGIN",
		"pgURL":            "PG_URL",
		"userDBPath":       "USERDB_PATH",
		"defaultFromEmail": "DEFAULT_FROM_EMAIL",
		"sendgridAPIKey":   "SENDGRID_API_KEY",
		"rollbarToken":     "ROLLBAR_TOKEN",
		"build":            "BUILD",
	} {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, errors.Wrapf(err, "binding %s", envVar)
		}
	}

	conf := &Config{
		Env:      env,
		Debug:    v.GetBool("debug"),
		TestMode: env == "test",
		AppName:  v.GetString("appName"),
		Build:    v.GetString("build"),

		BcryptCost:       v.GetInt("bcryptCost"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridAPIKey:   v.GetString("sendgridAPIKey"),
		RollbarToken:     v.GetString("rollbarToken"),
	}
	conf.Server.Port = v.GetInt("port")
	conf.Server.CORSOrigin = v.GetString("corsOrigin")
	conf.Server.SessionTTL = v.GetDuration("sessionTTL")
	conf.Database.PGURL = v.GetString("pgURL")
	conf.Database.UserDBPath = v.GetString("userDBPath")

	if conf.Env == "production" {
		conf.Debug = false
	}
	return conf, nil
}
