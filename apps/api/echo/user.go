package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edulabs/checklist/core"
	"github.com/edulabs/checklist/core/user"
)

type userApi struct {
	conf     *core.Config
	svc      *user.Service
	validate *validator.Validate
}

func registerUserAPI(e *echo.Echo, conf *core.Config, svc *user.Service, validate *validator.Validate) {
	api := userApi{
		conf:     conf,
		svc:      svc,
		validate: validate,
	}

	// un-authed endpoints
	e.POST("/users", api.signup)
	e.POST("/sessions", api.login)
}

// Handlers

func (api *userApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.Register(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrAuthenticationFailed {
			// bad email and bad password are deliberately the same response
			return ctx.JSON(http.StatusOK, SuccessResponse{Success: false})
		}
		return errors.Wrap(err, "logging in")
	}

	setSessionCookies(ctx, sess, api.conf.Server.SessionTTL)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
