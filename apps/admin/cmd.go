package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/grading"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/result"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
)

// cliUserID is recorded as the author of what the CLI changes.
const cliUserID = "admin-cli"

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp      = errors.New("help provided")
	errCancelled = errors.New("cancelled")
)

// rosterWriter is implemented by the stores that can import subjects and class enrollments.
type rosterWriter interface {
	UpsertSubject(ctx context.Context, tenantID string, subj roster.Subject) error
	Enroll(ctx context.Context, tenantID, classID string, students ...roster.Student) error
}

type commandLine struct {
	conf *core.Config
	in   io.Reader
	out  io.Writer

	db            *sql.DB
	roster        rosterWriter
	gradingSvc    *grading.Service
	resultSvc     *result.Service
	transcriptSvc *transcript.Service
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  createdb - create the database and its user if they do not exist\n")
	cli.printf("  migrate COMMAND [ARGS] - run a migration command (up, down, status, version...)\n")
	cli.printf("  gaps -tenant TENANT - list the percentages no grade range covers\n")
	cli.printf("  summary -tenant TENANT -class EXAM_CLASS_ID - print an exam class summary\n")
	cli.printf("  ranking -tenant TENANT -class EXAM_CLASS_ID - print an exam class ranking\n")
	cli.printf("  generate -tenant TENANT -student STUDENT_ID -year YEAR_ID - generate a draft transcript\n")
	cli.printf("  publish -tenant TENANT -id TRANSCRIPT_ID [-status PASS|FAIL] [-remarks TEXT] [-yes] - publish a transcript\n")
	cli.printf("  refresh [-tenant TENANT] - recompute draft transcripts, of every tenant by default\n")
	cli.printf("  subjects -tenant TENANT -file CSV - import subjects (id,name,credit)\n")
	cli.printf("  enroll -tenant TENANT -class CLASS_ID -file CSV - enroll students (student_id,roll_number)\n")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	gapsCmd := flag.NewFlagSet("gaps", flag.ContinueOnError)
	gapsTenant := gapsCmd.String("tenant", "", "The tenant id.")

	summaryCmd := flag.NewFlagSet("summary", flag.ContinueOnError)
	summaryTenant := summaryCmd.String("tenant", "", "The tenant id.")
	summaryClass := summaryCmd.String("class", "", "The exam class id.")

	rankingCmd := flag.NewFlagSet("ranking", flag.ContinueOnError)
	rankingTenant := rankingCmd.String("tenant", "", "The tenant id.")
	rankingClass := rankingCmd.String("class", "", "The exam class id.")

	generateCmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	generateTenant := generateCmd.String("tenant", "", "The tenant id.")
	generateStudent := generateCmd.String("student", "", "The student id.")
	generateYear := generateCmd.String("year", "", "The academic year id.")

	publishCmd := flag.NewFlagSet("publish", flag.ContinueOnError)
	publishTenant := publishCmd.String("tenant", "", "The tenant id.")
	publishID := publishCmd.String("id", "", "The transcript id.")
	publishStatus := publishCmd.String("status", "", "PASS or FAIL. Keeps the generated status when empty.")
	publishRemarks := publishCmd.String("remarks", "", "Remarks printed on the transcript.")
	publishYes := publishCmd.Bool("yes", false, "Do not ask for confirmation.")

	refreshCmd := flag.NewFlagSet("refresh", flag.ContinueOnError)
	refreshTenant := refreshCmd.String("tenant", "", "The tenant id. Every tenant when empty.")

	subjectsCmd := flag.NewFlagSet("subjects", flag.ContinueOnError)
	subjectsTenant := subjectsCmd.String("tenant", "", "The tenant id.")
	subjectsFile := subjectsCmd.String("file", "", "A CSV file of id,name,credit rows.")

	enrollCmd := flag.NewFlagSet("enroll", flag.ContinueOnError)
	enrollTenant := enrollCmd.String("tenant", "", "The tenant id.")
	enrollClass := enrollCmd.String("class", "", "The class id.")
	enrollFile := enrollCmd.String("file", "", "A CSV file of student_id,roll_number rows.")

	for _, fs := range []*flag.FlagSet{gapsCmd, summaryCmd, rankingCmd, generateCmd, publishCmd, refreshCmd, subjectsCmd, enrollCmd} {
		fs.SetOutput(cli.out)
	}

	// parse returns errHelp when a required flag is blank.
	parse := func(fs *flag.FlagSet, required ...*string) error {
		if err := fs.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		for _, val := range required {
			if strings.TrimSpace(*val) == "" {
				fs.Usage()
				return errHelp
			}
		}
		return nil
	}

	switch args[1] {
	case "createdb":
		return cli.createDB()

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "gaps":
		if err := parse(gapsCmd, gapsTenant); err != nil {
			return err
		}
		return cli.gaps(callerFor(*gapsTenant))

	case "summary":
		if err := parse(summaryCmd, summaryTenant, summaryClass); err != nil {
			return err
		}
		return cli.summary(callerFor(*summaryTenant), *summaryClass)

	case "ranking":
		if err := parse(rankingCmd, rankingTenant, rankingClass); err != nil {
			return err
		}
		return cli.ranking(callerFor(*rankingTenant), *rankingClass)

	case "generate":
		if err := parse(generateCmd, generateTenant, generateStudent, generateYear); err != nil {
			return err
		}
		return cli.generateTranscript(callerFor(*generateTenant), *generateStudent, *generateYear)

	case "publish":
		if err := parse(publishCmd, publishTenant, publishID); err != nil {
			return err
		}
		pt := transcript.PublishTranscript{
			ResultStatus: transcript.ResultStatus(*publishStatus),
			Remarks:      *publishRemarks,
		}
		return cli.publishTranscript(callerFor(*publishTenant), *publishID, pt, *publishYes)

	case "refresh":
		if err := parse(refreshCmd); err != nil {
			return err
		}
		return cli.refreshDrafts(*refreshTenant)

	case "subjects":
		if err := parse(subjectsCmd, subjectsTenant, subjectsFile); err != nil {
			return err
		}
		return cli.importSubjects(*subjectsTenant, *subjectsFile)

	case "enroll":
		if err := parse(enrollCmd, enrollTenant, enrollClass, enrollFile); err != nil {
			return err
		}
		return cli.enroll(*enrollTenant, *enrollClass, *enrollFile)

	default:
		cli.printUsage()
		return errHelp
	}
}

func callerFor(tenantID string) core.Caller {
	return core.Caller{TenantID: strings.TrimSpace(tenantID), UserID: cliUserID}
}

// confirm asks a yes/no question on the terminal. Without a terminal it refuses, so scripts
// have to pass -yes explicitly.
func (cli *commandLine) confirm(question string) error {
	if f, ok := cli.in.(*os.File); !ok || !isTerminalFunc(int(f.Fd())) {
		return errors.New("not a terminal: use -yes to confirm")
	}
	cli.printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errCancelled
}
