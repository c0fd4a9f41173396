package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
)

var transcriptRoles = []string{RoleAdmin, RoleRegistrar}

type transcriptApi struct {
	svc *transcript.Service
}

func registerTranscriptAPI(g *echo.Group, svc *transcript.Service) {
	api := transcriptApi{svc: svc}
	registrar := roleMiddleware(transcriptRoles...)

	g.POST("/transcripts", api.generate, registrar)
	g.GET("/transcripts", api.query, registrar)
	g.POST("/transcripts/refresh", api.refresh, roleMiddleware(RoleAdmin))
	g.GET("/transcripts/:id", api.retrieve)
	g.POST("/transcripts/:id/publish", api.publish, registrar)
	g.POST("/transcripts/:id/unpublish", api.unpublish, registrar)
}

type (
	GenerateTranscriptRequest struct {
		StudentID      string `json:"student_id"`
		AcademicYearID string `json:"academic_year_id"`
	}

	refreshResponse struct {
		Refreshed int `json:"refreshed"`
	}
)

// Handlers

func (api *transcriptApi) generate(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data GenerateTranscriptRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateTranscriptRequest")
	}

	t, err := api.svc.Generate(ctx.Request().Context(), caller, data.StudentID, data.AcademicYearID)
	if err != nil {
		return errors.Wrap(err, "generating transcript")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *transcriptApi) query(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	filter := transcript.QueryFilter{
		AcademicYearID: ctx.QueryParam("academic_year_id"),
		StudentID:      ctx.QueryParam("student_id"),
		Published:      queryBool(ctx, "published"),
		ResultStatus:   transcript.ResultStatus(ctx.QueryParam("result_status")),
	}

	ts, err := api.svc.Query(ctx.Request().Context(), caller, filter, bindOrdering(ctx))
	if err != nil {
		return errors.Wrap(err, "querying transcripts")
	}
	if ts == nil {
		ts = []transcript.Transcript{}
	}
	return ctx.JSON(http.StatusOK, ts)
}

// retrieve lets students read their own published transcripts only.
func (api *transcriptApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.Get(ctx.Request().Context(), claims.Caller(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding transcript by ID")
	}

	if !claims.HasAnyRole(staffRoles...) && !(t.Published && t.StudentID == claims.Subject) {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *transcriptApi) publish(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data transcript.PublishTranscript
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PublishTranscript")
	}

	t, err := api.svc.Publish(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "publishing transcript")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *transcriptApi) unpublish(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.Unpublish(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "unpublishing transcript")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *transcriptApi) refresh(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.RefreshDrafts(ctx.Request().Context(), caller)
	if err != nil {
		return errors.Wrap(err, "refreshing draft transcripts")
	}
	return ctx.JSON(http.StatusOK, refreshResponse{Refreshed: n})
}
