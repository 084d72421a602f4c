package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/console/internal/client/models"
)

func signedIn(input string) *testApp {
	a := newTestApp(input)
	a.sess.user = alice()
	return a
}

func TestStudents_PrintsPage(t *testing.T) {
	out := capturePrintln(t)
	a := signedIn("")
	a.students.listOut = &models.StudentList{
		Data: []models.Student{
			{ID: "s-1", Name: "Bob", Sex: true, Birth: "2001-02-03", Phone: "13800000001"},
			{ID: "s-2", Name: "Carol", Sex: false, Birth: "2002-03-04"},
		},
		Total:   12,
		Success: true,
	}

	require.NoError(t, a.Students(context.Background(), []string{"2", "5"}))

	assert.Equal(t, models.StudentListParams{PageIndex: 2, PageSize: 5}, a.students.listParams)
	assert.Equal(t, "/list/student", a.currentLocation())

	table := a.out.String()
	assert.Contains(t, table, "NAME")
	assert.Contains(t, table, "Bob")
	assert.Contains(t, table, "male")
	assert.Contains(t, table, "Carol")
	assert.Contains(t, table, "female")
	assert.Contains(t, out.String(), "page 2, 2 of 12 records")
}

func TestStudents_DefaultPage(t *testing.T) {
	capturePrintln(t)
	a := signedIn("")
	a.students.listOut = &models.StudentList{}

	require.NoError(t, a.Students(context.Background(), nil))
	assert.Equal(t, models.StudentListParams{PageIndex: 1, PageSize: defaultPageSize}, a.students.listParams)
}

func TestStudents_BadArgs(t *testing.T) {
	out := capturePrintln(t)
	a := signedIn("")

	require.NoError(t, a.Students(context.Background(), []string{"x"}))
	require.NoError(t, a.Students(context.Background(), []string{"1", "0"}))

	assert.Equal(t, 0, a.students.listCalls)
	assert.Contains(t, out.String(), "Usage: students")
}

func TestStudents_DeniedSkipsService(t *testing.T) {
	capturePrintln(t)
	a := newTestApp("")

	require.NoError(t, a.Students(context.Background(), nil))
	assert.Equal(t, 0, a.students.listCalls)
	assert.Equal(t, deniedStudents, a.currentLocation())
}

func TestStudents_ErrorPropagates(t *testing.T) {
	capturePrintln(t)
	a := signedIn("")
	a.students.listErr = errors.New("boom")

	require.Error(t, a.Students(context.Background(), nil))
}

func TestStudent_Show(t *testing.T) {
	out := capturePrintln(t)
	a := signedIn("")
	a.students.getOut = &models.Student{ID: "s-1", Name: "Bob", Sex: true, Birth: "2001-02-03", Bro: "monitor", CreateTime: "2024-01-01"}

	require.NoError(t, a.Student(context.Background(), []string{"s-1"}))

	assert.Equal(t, "s-1", a.students.getID)
	assert.Contains(t, out.String(), "Name: Bob")
	assert.Contains(t, out.String(), "Sex: male")
	assert.Contains(t, out.String(), "Note: monitor")
	assert.Contains(t, out.String(), "Created: 2024-01-01")
}

func TestStudent_Usage(t *testing.T) {
	out := capturePrintln(t)
	a := signedIn("")

	require.NoError(t, a.Student(context.Background(), nil))
	assert.Contains(t, out.String(), "Usage: student <id>")
	assert.Empty(t, a.students.getID)
}

func TestAddStudent(t *testing.T) {
	capturePrintln(t)
	a := signedIn("Bob\nm\n2001-02-03\n13800000001\nclass monitor\n")

	require.NoError(t, a.AddStudent(context.Background()))

	require.NotNil(t, a.students.created)
	assert.Equal(t, models.Student{
		Name:  "Bob",
		Sex:   true,
		Birth: "2001-02-03",
		Phone: "13800000001",
		Bro:   "class monitor",
	}, *a.students.created)
	assert.Contains(t, a.out.String(), "[ok] student added")
}

func TestAddStudent_InvalidSex(t *testing.T) {
	capturePrintln(t)
	a := signedIn("Bob\nx\n")

	require.Error(t, a.AddStudent(context.Background()))
	assert.Nil(t, a.students.created)
}

func TestEditStudent_KeepsDefaults(t *testing.T) {
	capturePrintln(t)
	cur := models.Student{ID: "s-1", Name: "Bob", Sex: true, Birth: "2001-02-03", Phone: "13800000001", Bro: "old"}
	a := signedIn("\n\n\n\nnew note\n")
	a.students.getOut = &cur

	require.NoError(t, a.EditStudent(context.Background(), []string{"s-1"}))

	require.NotNil(t, a.students.updated)
	want := cur
	want.Bro = "new note"
	assert.Equal(t, want, *a.students.updated)
	assert.Contains(t, a.out.String(), "[ok] student updated")
}

func TestEditStudent_NotFound(t *testing.T) {
	capturePrintln(t)
	a := signedIn("")
	a.students.getErr = errors.New("not found")

	require.Error(t, a.EditStudent(context.Background(), []string{"s-9"}))
	assert.Nil(t, a.students.updated)
}

func TestDelStudent(t *testing.T) {
	capturePrintln(t)

	a := signedIn("y\n")
	require.NoError(t, a.DelStudent(context.Background(), []string{"s-1"}))
	assert.Equal(t, "s-1", a.students.deleted)
	assert.Contains(t, a.out.String(), "[ok] student deleted")

	a = signedIn("n\n")
	require.NoError(t, a.DelStudent(context.Background(), []string{"s-1"}))
	assert.Empty(t, a.students.deleted)
}

func TestParseSex(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"m", true, false},
		{"Male", true, false},
		{" f ", false, false},
		{"female", false, false},
		{"", false, true},
		{"x", false, true},
	}
	for _, tt := range tests {
		got, err := parseSex(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
