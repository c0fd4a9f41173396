package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
)

var staffRoles = []string{RoleAdmin, RoleRegistrar, RoleTeacher}

type gradeScaleApi struct {
	svc *grading.Service
}

func registerGradeScaleAPI(g *echo.Group, svc *grading.Service) {
	api := gradeScaleApi{svc: svc}

	g.GET("/grade-scales", api.retrieve)
	g.PUT("/grade-scales", api.replace, roleMiddleware(RoleAdmin))
	g.GET("/grade-scales/gaps", api.gaps, roleMiddleware(RoleAdmin))
}

func (api *gradeScaleApi) retrieve(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	scale, err := api.svc.ScaleFor(ctx.Request().Context(), caller)
	if err != nil {
		return errors.Wrap(err, "loading grade scale")
	}
	return ctx.JSON(http.StatusOK, scale.Ranges())
}

func (api *gradeScaleApi) replace(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data []grading.NewGradeScale
	if err = bindList(ctx, &data); err != nil {
		return errors.Wrap(err, "binding to []NewGradeScale")
	}

	scale, err := api.svc.Replace(ctx.Request().Context(), caller, data)
	if err != nil {
		return errors.Wrap(err, "replacing grade scale")
	}
	return ctx.JSON(http.StatusOK, scale.Ranges())
}

func (api *gradeScaleApi) gaps(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	gaps, err := api.svc.Gaps(ctx.Request().Context(), caller)
	if err != nil {
		return errors.Wrap(err, "finding grade scale gaps")
	}
	if gaps == nil {
		gaps = []grading.Gap{}
	}
	return ctx.JSON(http.StatusOK, gaps)
}
