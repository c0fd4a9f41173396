package main

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core/roster"
)

// readCSV returns the rows of a CSV file, skipping a header row starting with headerField.
func readCSV(path string, fields int, headerField string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		if len(rows) == 0 && strings.EqualFold(rec[0], headerField) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func (cli *commandLine) importSubjects(tenantID, path string) error {
	rows, err := readCSV(path, 3, "id")
	if err != nil {
		return err
	}

	subjects := make([]roster.Subject, 0, len(rows))
	for i, row := range rows {
		credit, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil || credit < 0 {
			return errors.Errorf("row %d: invalid credit %q", i+1, row[2])
		}
		id := strings.TrimSpace(row[0])
		if id == "" {
			return errors.Errorf("row %d: blank subject id", i+1)
		}
		subjects = append(subjects, roster.Subject{ID: id, Name: strings.TrimSpace(row[1]), Credit: credit})
	}

	ctx := context.Background()
	for _, subj := range subjects {
		if err := cli.roster.UpsertSubject(ctx, tenantID, subj); err != nil {
			return err
		}
	}
	cli.printf("%d subject(s) imported\n", len(subjects))
	return nil
}

func (cli *commandLine) enroll(tenantID, classID, path string) error {
	rows, err := readCSV(path, 2, "student_id")
	if err != nil {
		return err
	}

	students := make([]roster.Student, 0, len(rows))
	for i, row := range rows {
		id := strings.TrimSpace(row[0])
		if id == "" {
			return errors.Errorf("row %d: blank student id", i+1)
		}
		students = append(students, roster.Student{ID: id, RollNumber: strings.TrimSpace(row[1])})
	}

	if err := cli.roster.Enroll(context.Background(), tenantID, classID, students...); err != nil {
		return err
	}
	cli.printf("%d student(s) enrolled in %s\n", len(students), classID)
	return nil
}
