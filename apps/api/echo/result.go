package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
)

type resultApi struct {
	svc *result.Service
}

func registerResultAPI(g *echo.Group, svc *result.Service) {
	api := resultApi{svc: svc}
	staff := roleMiddleware(staffRoles...)

	g.GET("/exams/:id/results/:student_id", api.studentResult, studentOrStaffMiddleware)
	g.GET("/exam-classes/:id/summary", api.classSummary, staff)
	g.GET("/exam-classes/:id/ranking", api.classRanking, staff)
	g.GET("/students/:student_id/years/:year_id/results", api.yearResults, studentOrStaffMiddleware)
}

// studentOrStaffMiddleware lets staff through, and students when the `:student_id` is theirs.
func studentOrStaffMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if claims.HasAnyRole(staffRoles...) {
			return next(ctx)
		}
		if claims.HasAnyRole(RoleStudent) && claims.Subject == ctx.Param("student_id") {
			return next(ctx)
		}
		return errHttpNotFound
	}
}

type examOutcome struct {
	Exam   exam.Exam         `json:"exam"`
	Result result.ExamResult `json:"result"`
}

// Handlers

func (api *resultApi) studentResult(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	res, err := api.svc.StudentExamResult(ctx.Request().Context(), caller, ctx.Param("id"), ctx.Param("student_id"))
	if err != nil {
		return errors.Wrap(err, "computing student exam result")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resultApi) classSummary(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	sum, err := api.svc.ClassSummary(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing class summary")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *resultApi) classRanking(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	ranked, err := api.svc.ClassRanking(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing class ranking")
	}
	if ranked == nil {
		ranked = []result.ExamResult{}
	}
	return ctx.JSON(http.StatusOK, ranked)
}

func (api *resultApi) yearResults(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	outcomes, err := api.svc.YearOutcomes(ctx.Request().Context(), caller, ctx.Param("student_id"), ctx.Param("year_id"))
	if err != nil {
		return errors.Wrap(err, "computing year results")
	}

	resp := make([]examOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		resp = append(resp, examOutcome{Exam: o.Exam, Result: o.Result})
	}
	return ctx.JSON(http.StatusOK, resp)
}
