package main

import (
	"context"
	"fmt"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/transcript"
)

func (cli *commandLine) printTranscript(t transcript.Transcript) {
	cli.printf("transcript %s: student %s, year %s, CGPA %s over %s credits, %s",
		t.ID, t.StudentID, t.AcademicYearID, formatFloat(t.CGPA), formatFloat(t.TotalCredits), t.ResultStatus)
	if t.Published {
		cli.printf(" (published)")
	}
	cli.printf("\n")
}

func (cli *commandLine) generateTranscript(caller core.Caller, studentID, academicYearID string) error {
	t, err := cli.transcriptSvc.Generate(context.Background(), caller, studentID, academicYearID)
	if err != nil {
		return err
	}
	cli.printTranscript(t)
	return nil
}

func (cli *commandLine) publishTranscript(caller core.Caller, id string, pt transcript.PublishTranscript, yes bool) error {
	ctx := context.Background()
	t, err := cli.transcriptSvc.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	if !yes {
		cli.printTranscript(t)
		if err := cli.confirm(fmt.Sprintf("Publish transcript %s?", t.ID)); err != nil {
			return err
		}
	}

	if t, err = cli.transcriptSvc.Publish(ctx, caller, id, pt); err != nil {
		return err
	}
	cli.printTranscript(t)
	return nil
}

func (cli *commandLine) refreshDrafts(tenantID string) error {
	var n int
	var err error
	if tenantID == "" {
		n, err = cli.transcriptSvc.RefreshAllDrafts(context.Background(), cliUserID)
	} else {
		n, err = cli.transcriptSvc.RefreshDrafts(context.Background(), callerFor(tenantID))
	}
	if err != nil {
		return err
	}
	cli.printf("%d draft transcript(s) refreshed\n", n)
	return nil
}
