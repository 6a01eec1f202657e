package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/report"
	"github.com/trezcool/mazoezi/core/submission"
)

type studentApi struct {
	subSvc    submission.ServiceInterface
	reportSvc report.ServiceInterface
	validate  *validator.Validate
}

func registerStudentAPI(
	g *echo.Group,
	subSvc submission.ServiceInterface,
	reportSvc report.ServiceInterface,
	validate *validator.Validate,
) {
	api := studentApi{
		subSvc:    subSvc,
		reportSvc: reportSvc,
		validate:  validate,
	}

	sg := g.Group("/student-experiments")
	sg.POST("/start/:experiment_id", api.start)
	sg.POST("/:id/submit", api.submit)
	sg.GET("/my-experiments/:student_id", api.myExperiments)
	sg.GET("/:id", api.retrieve)

	g.GET("/student/courses-with-status", api.coursesWithStatus)
}

// Handlers

func (api *studentApi) start(ctx echo.Context) error {
	studentID := ctx.QueryParam("student_id")
	if studentID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
	}

	sub, launchURL, err := api.subSvc.Start(ctx.Request().Context(), ctx.Param("experiment_id"), studentID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, StartResponse{
		SubmissionID:      sub.ID,
		NotebookLaunchURL: launchURL,
		Message:           "notebook environment started",
	})
}

func (api *studentApi) submit(ctx echo.Context) error {
	var data submission.SubmitRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.subSvc.Submit(ctx.Request().Context(), ctx.Param("id"), data.NotebookContent)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, SubmitResponse{
		Message:    "work submitted",
		SubmitTime: sub.SubmitTime,
	})
}

func (api *studentApi) myExperiments(ctx echo.Context) error {
	subs, err := api.subSvc.QueryByStudent(ctx.Request().Context(), ctx.Param("student_id"))
	if err != nil {
		return errors.Wrap(err, "querying student submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	sub, err := api.subSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *studentApi) coursesWithStatus(ctx echo.Context) error {
	studentID := ctx.QueryParam("student_id")
	if studentID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
	}

	rows, err := api.reportSvc.CoursesWithStatus(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "aggregating course status")
	}
	return ctx.JSON(http.StatusOK, rows)
}
