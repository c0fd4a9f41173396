package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
)

type Options struct {
	Conf     *core.Config
	Logger   core.Logger
	Validate *core.Validator

	GradingSvc    *grading.Service
	ExamSvc       *exam.Service
	MarksSvc      *marks.Service
	ResultSvc     *result.Service
	TranscriptSvc *transcript.Service
}

type Server struct {
	app      *echo.Echo
	addr     string
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(opts Options) *Server {
	s := &Server{
		app:      echo.New(),
		addr:     opts.Conf.Server.Host,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup(opts)
	return s
}

func (s *Server) setup(opts Options) {
	conf := opts.Conf

	s.app.HideBanner = true
	s.app.Logger.SetLevel(log.INFO)
	if conf.Debug {
		s.app.Logger.SetLevel(log.DEBUG)
	}

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(opts.Logger, opts.Validate.FieldErrors, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1", jwtMiddleware(conf))
	registerGradeScaleAPI(v1, opts.GradingSvc)
	registerExamAPI(v1, opts.ExamSvc)
	registerMarksAPI(v1, opts.MarksSvc)
	registerResultAPI(v1, opts.ResultSvc)
	registerTranscriptAPI(v1, opts.TranscriptSvc)
}

// Start listens until the server is shut down. Listen errors are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

// Shutdown stops accepting requests and waits for the outstanding ones until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the College Results API!")
}
