package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/console/internal/client/models"
)

const defaultPageSize = 10

func sexLabel(male bool) string {
	if male {
		return "male"
	}
	return "female"
}

func parseSex(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "m", "male":
		return true, nil
	case "f", "female":
		return false, nil
	default:
		return false, fmt.Errorf("invalid sex %q, expected m or f", v)
	}
}

// Students lists one page of student records: students [page] [size].
func (a *App) Students(ctx context.Context, args []string) error {
	if !a.navigate(ctx, studentListPath) {
		return nil
	}

	p := models.StudentListParams{PageIndex: 1, PageSize: defaultPageSize}
	for i, dst := range []*int{&p.PageIndex, &p.PageSize} {
		if len(args) <= i {
			break
		}
		n, err := strconv.Atoi(args[i])
		if err != nil || n < 1 {
			printlnFn("Usage: students [page] [size]")
			return nil
		}
		*dst = n
	}

	list, err := a.students.List(ctx, p)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSEX\tBIRTH\tPHONE")
	for _, st := range list.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", st.ID, st.Name, sexLabel(st.Sex), st.Birth, st.Phone)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("page %d, %d of %d records", p.PageIndex, len(list.Data), list.Total))
	return nil
}

// Student prints one record: student <id>.
func (a *App) Student(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: student <id>")
		return nil
	}
	if !a.navigate(ctx, studentListPath) {
		return nil
	}

	st, err := a.students.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printStudent(st)
	return nil
}

func printStudent(st *models.Student) {
	printlnFn("ID:", st.ID)
	printlnFn("Name:", st.Name)
	printlnFn("Sex:", sexLabel(st.Sex))
	printlnFn("Birth:", st.Birth)
	printlnFn("Phone:", st.Phone)
	printlnFn("Note:", st.Bro)
	if st.CreateTime != "" {
		printlnFn("Created:", st.CreateTime)
	}
}

// inputStudent prompts for every editable field, offering the values of cur
// as defaults.
func (a *App) inputStudent(cur models.Student) (models.Student, error) {
	st := cur
	var err error

	if st.Name, err = GetWithDefault(a.reader, "Enter name", cur.Name, a.out); err != nil {
		return st, err
	}

	defSex := ""
	if cur.ID != "" {
		defSex = sexLabel(cur.Sex)[:1]
	}
	sex, err := GetWithDefault(a.reader, "Enter sex (m/f)", defSex, a.out)
	if err != nil {
		return st, err
	}
	if st.Sex, err = parseSex(sex); err != nil {
		return st, err
	}

	if st.Birth, err = GetWithDefault(a.reader, "Enter birth date (YYYY-MM-DD)", cur.Birth, a.out); err != nil {
		return st, err
	}
	if st.Phone, err = GetWithDefault(a.reader, "Enter phone", cur.Phone, a.out); err != nil {
		return st, err
	}
	if st.Bro, err = GetWithDefault(a.reader, "Enter note", cur.Bro, a.out); err != nil {
		return st, err
	}
	return st, nil
}

// AddStudent prompts for a new record and creates it.
func (a *App) AddStudent(ctx context.Context) error {
	if !a.navigate(ctx, studentListPath) {
		return nil
	}

	st, err := a.inputStudent(models.Student{})
	if err != nil {
		return err
	}
	if err := a.students.Create(ctx, st); err != nil {
		return err
	}
	a.notifier.Success(ctx, "student added")
	return nil
}

// EditStudent loads a record and saves the edited copy: editstudent <id>.
func (a *App) EditStudent(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: editstudent <id>")
		return nil
	}
	if !a.navigate(ctx, studentListPath) {
		return nil
	}

	cur, err := a.students.Get(ctx, args[0])
	if err != nil {
		return err
	}
	st, err := a.inputStudent(*cur)
	if err != nil {
		return err
	}
	if err := a.students.Update(ctx, st); err != nil {
		return err
	}
	a.notifier.Success(ctx, "student updated")
	return nil
}

// DelStudent deletes a record after confirmation: delstudent <id>.
func (a *App) DelStudent(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delstudent <id>")
		return nil
	}
	if !a.navigate(ctx, studentListPath) {
		return nil
	}

	ok, err := GetConfirm(a.reader, fmt.Sprintf("Delete student %s?", args[0]), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.students.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.notifier.Success(ctx, "student deleted")
	return nil
}
