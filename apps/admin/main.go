package main

import (
	"log"
	"os"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
	appfs "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/fs"
	emailsvc "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/services/email"
	logsvc "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/services/logger"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/storage/database"
	sqlxrepos "github.com/deepak-dev-mindmanthan/college-management-backend-sub001/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	cli := commandLine{
		conf: conf,
		in:   os.Stdin,
		out:  os.Stdout,
	}

	if needsDB(os.Args) {
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()

		appLogger := logsvc.NewRollbarLogger(logger, conf, "admin")
		appLogger.Enable(!conf.Debug && conf.RollbarToken != "")

		templates, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.AppName, conf.Debug)
		errAndDie(err)
		mailSvc := emailsvc.NewService(log.New(os.Stdout, "EMAIL : ", log.LstdFlags), templates, appLogger, conf)

		validate := core.NewValidator()
		rstr := sqlxrepos.NewRoster(db)
		examRepo := sqlxrepos.NewExamRepository(db)
		gradingSvc := grading.NewService(sqlxrepos.NewGradeScaleRepository(db), validate, conf)
		resultSvc := result.NewService(examRepo, sqlxrepos.NewMarksRepository(db), rstr, gradingSvc, conf)

		cli.db = db.DB
		cli.roster = rstr
		cli.gradingSvc = gradingSvc
		cli.resultSvc = resultSvc
		cli.transcriptSvc = transcript.NewService(
			sqlxrepos.NewTranscriptRepository(db), resultSvc, rstr, mailSvc, validate, appLogger, conf,
		)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// needsDB reports whether the command line runs against an existing database.
func needsDB(args []string) bool {
	return len(args) > 1 && args[1] != "createdb" && args[1] != "help"
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
