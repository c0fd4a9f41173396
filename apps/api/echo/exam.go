package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
)

type examApi struct {
	svc *exam.Service
}

func registerExamAPI(g *echo.Group, svc *exam.Service) {
	api := examApi{svc: svc}
	staff := roleMiddleware(staffRoles...)
	admin := roleMiddleware(RoleAdmin)

	g.POST("/exams", api.create, admin)
	g.GET("/exams", api.query, staff)
	g.GET("/exams/:id", api.retrieve, staff)
	g.POST("/exams/:id/classes", api.addClass, admin)
	g.GET("/exams/:id/classes", api.classes, staff)

	g.GET("/exam-classes/:id", api.retrieveClass, staff)
	g.POST("/exam-classes/:id/subjects", api.addSubject, admin)
	g.GET("/exam-classes/:id/subjects", api.subjects, staff)

	g.GET("/exam-subjects/:id", api.retrieveSubject, staff)
}

// Handlers

func (api *examApi) create(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data exam.NewExam
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}

	ex, err := api.svc.Create(ctx.Request().Context(), caller, data)
	if err != nil {
		return errors.Wrap(err, "creating exam")
	}
	return ctx.JSON(http.StatusCreated, ex)
}

func (api *examApi) query(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	filter := exam.QueryFilter{
		AcademicYearID: ctx.QueryParam("academic_year_id"),
		StartFrom:      queryTime(ctx, "start_from"),
		StartTo:        queryTime(ctx, "start_to"),
	}

	exams, err := api.svc.Query(ctx.Request().Context(), caller, filter)
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	if exams == nil {
		exams = []exam.Exam{}
	}
	return ctx.JSON(http.StatusOK, exams)
}

func (api *examApi) retrieve(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	ex, err := api.svc.Get(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding exam by ID")
	}
	return ctx.JSON(http.StatusOK, ex)
}

func (api *examApi) addClass(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data exam.NewExamClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExamClass")
	}

	ec, err := api.svc.AddClass(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding exam class")
	}
	return ctx.JSON(http.StatusCreated, ec)
}

func (api *examApi) classes(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	classes, err := api.svc.Classes(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying exam classes")
	}
	if classes == nil {
		classes = []exam.ExamClass{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *examApi) retrieveClass(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	ec, err := api.svc.GetClass(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding exam class by ID")
	}
	return ctx.JSON(http.StatusOK, ec)
}

func (api *examApi) addSubject(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	var data exam.NewExamSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExamSubject")
	}

	es, err := api.svc.AddSubject(ctx.Request().Context(), caller, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding exam subject")
	}
	return ctx.JSON(http.StatusCreated, es)
}

func (api *examApi) subjects(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	subjects, err := api.svc.Subjects(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying exam subjects")
	}
	if subjects == nil {
		subjects = []exam.ExamSubject{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *examApi) retrieveSubject(ctx echo.Context) error {
	caller, err := contextCaller(ctx)
	if err != nil {
		return err
	}
	es, err := api.svc.GetSubject(ctx.Request().Context(), caller, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding exam subject by ID")
	}
	return ctx.JSON(http.StatusOK, es)
}
