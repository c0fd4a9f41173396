package dig_container

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/apps/api/echo"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/exam"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/marks"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
	appfs "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/fs"
	emailsvc "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/services/email"
	logsvc "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/services/logger"
	schedulersvc "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/services/scheduler"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/storage/database"
	dummydb "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/storage/database/dummy"
	sqlxrepos "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/storage/database/sqlx"
)

const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Store holds the repositories of the configured database engine.
type Store struct {
	dig.Out
	GradeScales grading.Repository
	Exams       exam.Repository
	Marks       marks.Repository
	Transcripts transcript.Repository
	Roster      roster.Roster
	Closer      io.Closer `name:"db"`
}

type ServerParams struct {
	dig.In
	Conf          *core.Config
	Logger        core.Logger
	Validate      *core.Validator
	GradingSvc    *grading.Service
	ExamSvc       *exam.Service
	MarksSvc      *marks.Service
	ResultSvc     *result.Service
	TranscriptSvc *transcript.Service
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf, "api")
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf, "db")
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStore(conf *core.Config, loggerParam DBLoggerParam) (Store, error) {
	switch conf.Database.Engine {
	case EngineMemory:
		db, err := dummydb.Open()
		if err != nil {
			return Store{}, err
		}
		loggerParam.Logger.Warn("using the in-memory store: data is lost on exit")
		return Store{
			GradeScales: dummydb.NewGradeScaleRepository(db),
			Exams:       dummydb.NewExamRepository(db),
			Marks:       dummydb.NewMarksRepository(db),
			Transcripts: dummydb.NewTranscriptRepository(db),
			Roster:      dummydb.NewRoster(db),
			Closer:      nopCloser{},
		}, nil

	case EnginePostgres:
		if err := database.CreateIfNotExist(conf); err != nil {
			return Store{}, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return Store{}, err
		}
		if err = database.Migrate(db.DB, "up"); err != nil {
			_ = db.Close()
			return Store{}, err
		}
		return Store{
			GradeScales: sqlxrepos.NewGradeScaleRepository(db),
			Exams:       sqlxrepos.NewExamRepository(db),
			Marks:       sqlxrepos.NewMarksRepository(db),
			Transcripts: sqlxrepos.NewTranscriptRepository(db),
			Roster:      sqlxrepos.NewRoster(db),
			Closer:      db,
		}, nil
	}
	return Store{}, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}

func newEmailTemplates(conf *core.Config) (*core.EmailTemplates, error) {
	return core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.AppName, conf.Debug)
}

func newEmailService(templates *core.EmailTemplates, logger core.Logger, conf *core.Config) core.EmailService {
	stdLogger := log.New(os.Stdout, "EMAIL : ", log.LstdFlags)
	return emailsvc.NewService(stdLogger, templates, logger, conf)
}

func newResultSource(svc *result.Service) transcript.ResultSource { return svc }

func newDraftRefresher(svc *transcript.Service) schedulersvc.DraftRefresher { return svc }

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Options{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Validate:      p.Validate,
		GradingSvc:    p.GradingSvc,
		ExamSvc:       p.ExamSvc,
		MarksSvc:      p.MarksSvc,
		ResultSvc:     p.ResultSvc,
		TranscriptSvc: p.TranscriptSvc,
	})
}

// New returns a new dependency injection dig.Container. conf may be nil, in which case the
// configuration is loaded from the environment.
func New(conf *core.Config) *dig.Container {
	c := dig.New()

	if conf != nil {
		must(c.Provide(func() *core.Config { return conf }))
	} else {
		must(c.Provide(core.NewConfig))
	}
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newEmailTemplates))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewValidator))

	must(c.Provide(grading.NewService))
	must(c.Provide(exam.NewService))
	must(c.Provide(marks.NewService))
	must(c.Provide(result.NewService))
	must(c.Provide(newResultSource))
	must(c.Provide(transcript.NewService))
	must(c.Provide(newDraftRefresher))
	must(c.Provide(schedulersvc.NewScheduler))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}

// Visualize writes the container's dependency graph in DOT format.
func Visualize(c *dig.Container, w io.Writer) error {
	if err := dig.Visualize(c, w); err != nil {
		return errors.Wrap(err, "visualizing container")
	}
	return nil
}

