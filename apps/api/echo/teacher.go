package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/experiment"
	"github.com/trezcool/mazoezi/core/report"
	"github.com/trezcool/mazoezi/core/role"
	"github.com/trezcool/mazoezi/core/submission"
)

type teacherApi struct {
	expSvc    experiment.ServiceInterface
	subSvc    submission.ServiceInterface
	reportSvc report.ServiceInterface
	resolver  role.Resolver
	validate  *validator.Validate
}

func registerTeacherAPI(
	g *echo.Group,
	expSvc experiment.ServiceInterface,
	subSvc submission.ServiceInterface,
	reportSvc report.ServiceInterface,
	resolver role.Resolver,
	validate *validator.Validate,
) {
	api := teacherApi{
		expSvc:    expSvc,
		subSvc:    subSvc,
		reportSvc: reportSvc,
		resolver:  resolver,
		validate:  validate,
	}

	tg := g.Group("/teacher")
	tg.GET("/courses", api.courses)
	tg.PATCH("/courses/:id/publish", api.publish)
	tg.GET("/progress", api.progress)
	tg.GET("/statistics", api.statistics)
	tg.GET("/experiments/:id/submissions", api.submissions)
	tg.POST("/grade/:id", api.grade)
}

// Handlers

// courses lists every experiment the teacher created, drafts included.
func (api *teacherApi) courses(ctx echo.Context) error {
	username := ctx.QueryParam("teacher_username")
	if !api.resolver.IsTeacher(username) {
		return role.ErrNotTeacher
	}

	exps, err := api.expSvc.QueryByOwner(ctx.Request().Context(), username)
	if err != nil {
		return errors.Wrap(err, "querying teacher courses")
	}
	return ctx.JSON(http.StatusOK, exps)
}

func (api *teacherApi) publish(ctx echo.Context) error {
	username := ctx.QueryParam("teacher_username")
	if !api.resolver.IsTeacher(username) {
		return role.ErrNotTeacher
	}

	published, err := strconv.ParseBool(ctx.QueryParam("published"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "published", Error: "must be a boolean"})
	}

	exp, err := api.expSvc.SetPublished(ctx.Request().Context(), ctx.Param("id"), username, published)
	if err != nil {
		return err
	}

	msg := "course unpublished"
	if exp.Published {
		msg = "course published"
	}
	return ctx.JSON(http.StatusOK, PublishResponse{Message: msg, Published: exp.Published})
}

func (api *teacherApi) progress(ctx echo.Context) error {
	rows, err := api.reportSvc.Progress(ctx.Request().Context(), ctx.QueryParam("teacher_username"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rows)
}

// statistics is an open endpoint.
func (api *teacherApi) statistics(ctx echo.Context) error {
	stats, err := api.reportSvc.Statistics(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing statistics")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *teacherApi) submissions(ctx echo.Context) error {
	subs, err := api.subSvc.QueryByExperiment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying experiment submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *teacherApi) grade(ctx echo.Context) error {
	var data submission.GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.subSvc.Grade(ctx.Request().Context(), ctx.Param("id"), *data.Score, data.Comment)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, GradeResponse{Message: "graded", Score: sub.Score.Float64})
}
