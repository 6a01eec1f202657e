package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core/experiment"
)

type experimentApi struct {
	svc      experiment.ServiceInterface
	validate *validator.Validate
}

func registerExperimentAPI(g *echo.Group, svc experiment.ServiceInterface, validate *validator.Validate) {
	api := experimentApi{
		svc:      svc,
		validate: validate,
	}

	eg := g.Group("/experiments")
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *experimentApi) create(ctx echo.Context) error {
	var data experiment.NewExperiment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExperiment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	exp, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating experiment")
	}

	return ctx.JSON(http.StatusCreated, exp)
}

func (api *experimentApi) query(ctx echo.Context) error {
	filter := experiment.QueryFilter{
		Difficulty: ctx.QueryParam("difficulty"),
		Tag:        ctx.QueryParam("tag"),
		Viewer:     ctx.QueryParam("username"),
	}

	exps, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying experiments")
	}

	return ctx.JSON(http.StatusOK, exps)
}

func (api *experimentApi) retrieve(ctx echo.Context) error {
	exp, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, exp)
}

func (api *experimentApi) update(ctx echo.Context) error {
	var data experiment.UpdateExperiment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateExperiment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	exp, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, exp)
}

func (api *experimentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "experiment deleted"})
}
