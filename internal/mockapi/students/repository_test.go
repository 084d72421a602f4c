package students

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/console/internal/common"
)

// seeded creates n students, one day apart starting 2024-01-01.
func seeded(t *testing.T, n int) *Repository {
	t.Helper()
	r := NewRepository()
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts := day.AddDate(0, 0, i)
		r.now = func() time.Time { return ts }
		_, err := r.Create(context.Background(), Student{
			Name:  fmt.Sprintf("Student %d", i),
			Sex:   i%2 == 0,
			Birth: "2001-01-01",
			Phone: fmt.Sprintf("1380000000%d", i),
		})
		require.NoError(t, err)
	}
	return r
}

func names(list []Student) []string {
	out := make([]string, len(list))
	for i, st := range list {
		out[i] = st.Name
	}
	return out
}

func TestList_PagingNewestFirst(t *testing.T) {
	r := seeded(t, 5)
	ctx := context.Background()

	page, total := r.List(ctx, Query{PageIndex: 1, PageSize: 2})
	assert.Equal(t, 5, total)
	assert.Equal(t, []string{"Student 4", "Student 3"}, names(page))

	page, _ = r.List(ctx, Query{PageIndex: 3, PageSize: 2})
	assert.Equal(t, []string{"Student 0"}, names(page))

	page, total = r.List(ctx, Query{PageIndex: 4, PageSize: 2})
	assert.Empty(t, page)
	assert.Equal(t, 5, total)

	page, _ = r.List(ctx, Query{})
	assert.Len(t, page, 5)
}

func TestList_Filters(t *testing.T) {
	r := seeded(t, 5)
	ctx := context.Background()

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"name substring", Query{Filter: map[string]string{"name": "student 3"}}, []string{"Student 3"}},
		{"sex", Query{Filter: map[string]string{"sex": "false"}}, []string{"Student 3", "Student 1"}},
		{"phone prefix", Query{Filter: map[string]string{"phone": "13800000002"}}, []string{"Student 2"}},
		{"unknown key ignored", Query{Filter: map[string]string{"color": "red"}}, []string{"Student 4", "Student 3", "Student 2", "Student 1", "Student 0"}},
		{"start date", Query{StartTime: "2024-01-04"}, []string{"Student 4", "Student 3"}},
		{"end date inclusive", Query{EndTime: "2024-01-02"}, []string{"Student 1", "Student 0"}},
		{"range", Query{StartTime: "2024-01-02", EndTime: "2024-01-03"}, []string{"Student 2", "Student 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total := r.List(ctx, tt.q)
			assert.Equal(t, tt.want, names(page))
			assert.Equal(t, len(tt.want), total)
		})
	}
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()
	r.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	st, err := r.Create(ctx, Student{ID: "ignored", Name: "Bob", Birth: "2001-02-03"})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", st.ID)
	assert.Equal(t, "2024-05-06 07:08:09", st.CreateTime)

	got, err := r.Get(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	upd, err := r.Update(ctx, st.ID, Student{ID: "other", Name: "Robert", Birth: "2001-02-03", CreateTime: "x"})
	require.NoError(t, err)
	assert.Equal(t, st.ID, upd.ID)
	assert.Equal(t, st.CreateTime, upd.CreateTime)
	assert.Equal(t, "Robert", upd.Name)

	require.NoError(t, r.Delete(ctx, st.ID))
	_, err = r.Get(ctx, st.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, total := r.List(ctx, Query{})
	assert.Zero(t, total)
}

func TestMissingRecord(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()

	_, err := r.Update(ctx, "nope", Student{Name: "x"})
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "nope"), common.ErrNotFound)
}
