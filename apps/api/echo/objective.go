package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edulabs/checklist/core/objective"
)

type objectiveApi struct {
	svc      *objective.Service
	validate *validator.Validate
}

func registerObjectiveAPI(e *echo.Echo, sessionMW echo.MiddlewareFunc, svc *objective.Service, validate *validator.Validate) {
	api := objectiveApi{
		svc:      svc,
		validate: validate,
	}

	// every objective endpoint requires a live session
	e.GET("/:user_id/LOs", api.listUserResults, sessionMW)
	e.GET("/cohorts/:cohort_id/LOs", api.listCohortObjectives, sessionMW)
	e.GET("/cohorts", api.listCohorts, sessionMW)
	e.GET("/:user_id/topics", api.listUserTopics, sessionMW)
	e.GET("/cohort/:cohort_id/cohortTopics", api.listCohortTopics, sessionMW)
	e.POST("/postLO", api.addObjective, sessionMW)
	e.GET("/students/:cohort_id/results", api.listStudents, sessionMW)
	e.GET("/student/:user_id/data", api.studentData, sessionMW)
	e.POST("/:user_id/LOs", api.recordScore, sessionMW)
	e.POST("/postCohort", api.seedCohort, sessionMW)
	e.DELETE("/deleteLOs", api.removeObjective, sessionMW)
}

// Handlers

func (api *objectiveApi) listUserResults(ctx echo.Context) error {
	userID, err := strconv.Atoi(ctx.Param("user_id"))
	if err != nil {
		return errStudentNotFound
	}

	results, err := api.svc.ResultsForUser(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Cause(err) == objective.ErrNotFound {
			return errStudentNotFound
		}
		return errors.Wrap(err, "listing user results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *objectiveApi) listCohortObjectives(ctx echo.Context) error {
	cohortID, err := strconv.Atoi(ctx.Param("cohort_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cohort id")
	}

	los, err := api.svc.ObjectivesForCohort(ctx.Request().Context(), cohortID)
	if err != nil {
		return errors.Wrap(err, "listing cohort objectives")
	}
	return ctx.JSON(http.StatusOK, los)
}

func (api *objectiveApi) listCohorts(ctx echo.Context) error {
	cohorts, err := api.svc.Cohorts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing cohorts")
	}
	return ctx.JSON(http.StatusOK, cohorts)
}

func (api *objectiveApi) listUserTopics(ctx echo.Context) error {
	userID, err := strconv.Atoi(ctx.Param("user_id"))
	if err != nil {
		return errTopicsNotFound
	}

	topics, err := api.svc.TopicsForUser(ctx.Request().Context(), userID)
	if err != nil {
		if errors.Cause(err) == objective.ErrNotFound {
			return errTopicsNotFound
		}
		return errors.Wrap(err, "listing user topics")
	}
	return ctx.JSON(http.StatusOK, topics)
}

func (api *objectiveApi) listCohortTopics(ctx echo.Context) error {
	cohortID, err := strconv.Atoi(ctx.Param("cohort_id"))
	if err != nil {
		return errTopicsNotFound
	}

	topics, err := api.svc.TopicsForCohort(ctx.Request().Context(), cohortID)
	if err != nil {
		if errors.Cause(err) == objective.ErrNotFound {
			return errTopicsNotFound
		}
		return errors.Wrap(err, "listing cohort topics")
	}
	return ctx.JSON(http.StatusOK, topics)
}

func (api *objectiveApi) addObjective(ctx echo.Context) error {
	var data objective.NewObjective
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewObjective")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.AddObjective(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "adding objective")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *objectiveApi) listStudents(ctx echo.Context) error {
	cohortID, err := strconv.Atoi(ctx.Param("cohort_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cohort id")
	}

	students, err := api.svc.StudentsForCohort(ctx.Request().Context(), cohortID)
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *objectiveApi) studentData(ctx echo.Context) error {
	userID, err := strconv.Atoi(ctx.Param("user_id"))
	if err != nil {
		return errStudentNotFound
	}

	results, err := api.svc.StudentData(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "listing student data")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *objectiveApi) recordScore(ctx echo.Context) error {
	var data objective.ScoreUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	results, err := api.svc.RecordScore(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording score")
	}
	return ctx.JSON(http.StatusOK, ScoreResponse{LOs: results})
}

func (api *objectiveApi) seedCohort(ctx echo.Context) error {
	var data SeedCohortRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SeedCohortRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.SeedCohort(ctx.Request().Context(), data.CohortID); err != nil {
		return errors.Wrap(err, "seeding cohort")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *objectiveApi) removeObjective(ctx echo.Context) error {
	var data RemoveObjectiveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RemoveObjectiveRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RemoveObjective(ctx.Request().Context(), data.CohortID, data.LearningObjective); err != nil {
		return errors.Wrap(err, "removing objective")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

type (
	ScoreResponse struct {
		LOs []objective.Result `json:"LOs"`
	}

	SeedCohortRequest struct {
		CohortID int `json:"cohort_id" validate:"required"`
	}

	RemoveObjectiveRequest struct {
		LearningObjective string `json:"learning_objective" validate:"required"`
		CohortID          int    `json:"cohort_id" validate:"required"`
	}
)

func (sr *SeedCohortRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(sr)
}

func (rr *RemoveObjectiveRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(rr)
}
