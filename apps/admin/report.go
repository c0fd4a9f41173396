package main

import (
	"context"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func (cli *commandLine) newTable(align ...tw.Align) *tablewriter.Table {
	return tablewriter.NewTable(cli.out, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{PerColumn: align},
		},
	}))
}

func (cli *commandLine) gaps(caller core.Caller) error {
	gaps, err := cli.gradingSvc.Gaps(context.Background(), caller)
	if err != nil {
		return err
	}
	if len(gaps) == 0 {
		cli.printf("the grade scale covers every percentage\n")
		return nil
	}

	table := cli.newTable(tw.AlignRight, tw.AlignRight)
	table.Header("From", "To")
	for _, gap := range gaps {
		if err := table.Append(formatFloat(gap.From), formatFloat(gap.To)); err != nil {
			return err
		}
	}
	return table.Render()
}

func (cli *commandLine) summary(caller core.Caller, examClassID string) error {
	sum, err := cli.resultSvc.ClassSummary(context.Background(), caller, examClassID)
	if err != nil {
		return err
	}

	table := cli.newTable(tw.AlignLeft, tw.AlignRight)
	table.Header("Exam class", sum.ExamClassID)
	rows := [][]string{
		{"Students", strconv.Itoa(sum.TotalStudents)},
		{"With marks", strconv.Itoa(sum.StudentsWithMarks)},
		{"Passed", strconv.Itoa(sum.PassedStudents)},
		{"Failed", strconv.Itoa(sum.FailedStudents)},
		{"Pass %", formatFloat(sum.PassPercentage)},
		{"Average %", formatFloat(sum.AveragePercentage)},
		{"Highest %", formatFloat(sum.HighestPercentage)},
		{"Lowest %", formatFloat(sum.LowestPercentage)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func (cli *commandLine) ranking(caller core.Caller, examClassID string) error {
	ranked, err := cli.resultSvc.ClassRanking(context.Background(), caller, examClassID)
	if err != nil {
		return err
	}

	table := cli.newTable(tw.AlignRight, tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignLeft, tw.AlignLeft)
	table.Header("Rank", "Student", "Roll", "Percentage", "Grade", "Passed")
	for _, res := range ranked {
		passed := "no"
		if res.IsPassed {
			passed = "yes"
		}
		err := table.Append(
			strconv.Itoa(res.Rank), res.StudentID, res.RollNumber, formatFloat(res.Percentage), res.Grade, passed,
		)
		if err != nil {
			return err
		}
	}
	table.Footer("", "", "", "", "Students:", strconv.Itoa(len(ranked)))
	return table.Render()
}
