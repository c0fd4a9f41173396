package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
)

type marksApi struct {
	svc *marks.Service
}

func registerMarksAPI(g *echo.Group, svc *marks.Service) {
	api := marksApi{svc: svc}
	entry := roleMiddleware(RoleAdmin, RoleTeacher)

	g.GET("/exam-subjects/:id/marks", api.listBySubject, roleMiddleware(staffRoles...))
	g.POST("/exam-subjects/:id/marks", api.create, entry)
	g.PUT("/exam-subjects/:id/marks", api.record, entry)
	g.PUT("/exam-subjects/:id/marks/bulk", api.recordBulk, entry)

	g.POST("/marks/regrade", api.regrade, roleMiddleware(RoleAdmin))
	g.GET("/marks/:id", api.retrieve, roleMiddleware(staffRoles...))
	g.PUT("/marks/:id", api.update, entry)
	g.DELETE("/marks/:id", api.destroy, entry)
}

type regradeResponse struct {
	Regraded int `json:"regraded"`
}

// Handlers

func (api *marksApi) listBySubject(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	results, err := api.svc.ListBySubject(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing subject marks")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *marksApi) create(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data marks.Entry
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Entry")
	}

	res, err := api.svc.Create(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "creating marks")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *marksApi) record(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data marks.Entry
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Entry")
	}

	res, err := api.svc.Record(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "recording marks")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *marksApi) recordBulk(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data []marks.Entry
	if err = bindList(ctx, &data); err != nil {
		return errors.Wrap(err, "binding to []Entry")
	}

	results, err := api.svc.RecordBulk(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "recording marks in bulk")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *marksApi) retrieve(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	sm, err := api.svc.Get(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding marks by ID")
	}
	return ctx.JSON(http.StatusOK, sm)
}

func (api *marksApi) update(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data marks.UpdateMarks
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMarks")
	}

	res, err := api.svc.Update(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating marks")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *marksApi) destroy(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), caller, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting marks")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *marksApi) regrade(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.Regrade(ctx.Request().Context(), caller)
	if err != nil {
		return errors.Wrap(err, "regrading marks")
	}
	return ctx.JSON(http.StatusOK, regradeResponse{Regraded: n})
}
