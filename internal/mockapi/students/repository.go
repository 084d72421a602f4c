// Package students keeps the student register of the mock backend in memory.
package students

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/console/internal/common"
)

// TimeLayout formats CreateTime.
const TimeLayout = "2006-01-02 15:04:05"

const (
	defaultPageIndex = 1
	defaultPageSize  = 10
)

type Student struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Sex        bool   `json:"sex"`
	Birth      string `json:"birth"`
	Phone      string `json:"phone"`
	Bro        string `json:"bro"`
	CreateTime string `json:"createTime"`
}

// Query selects one page of the register. Filter keys name, phone, bro and
// sex are honored; other keys are ignored. StartTime and EndTime bound
// CreateTime and may be given as a date or a full timestamp.
type Query struct {
	PageIndex int
	PageSize  int
	StartTime string
	EndTime   string
	Filter    map[string]string
}

type Repository struct {
	mu    sync.RWMutex
	items map[string]Student
	order []string
	now   func() time.Time
}

func NewRepository() *Repository {
	return &Repository{items: map[string]Student{}, now: time.Now}
}

// List returns the requested page, newest first, and the number of
// matching records.
func (r *Repository) List(_ context.Context, q Query) ([]Student, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Student, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		st := r.items[r.order[i]]
		if q.matches(st) {
			matched = append(matched, st)
		}
	}

	index, size := q.PageIndex, q.PageSize
	if index < 1 {
		index = defaultPageIndex
	}
	if size < 1 {
		size = defaultPageSize
	}

	start := (index - 1) * size
	if start >= len(matched) {
		return []Student{}, len(matched)
	}
	end := min(start+size, len(matched))
	return matched[start:end], len(matched)
}

func (q Query) matches(st Student) bool {
	if q.StartTime != "" && st.CreateTime < q.StartTime {
		return false
	}
	if q.EndTime != "" && st.CreateTime > q.EndTime && !strings.HasPrefix(st.CreateTime, q.EndTime) {
		return false
	}

	for k, v := range q.Filter {
		if v == "" {
			continue
		}
		switch k {
		case "name":
			if !strings.Contains(strings.ToLower(st.Name), strings.ToLower(v)) {
				return false
			}
		case "phone":
			if !strings.HasPrefix(st.Phone, v) {
				return false
			}
		case "bro":
			if !strings.Contains(st.Bro, v) {
				return false
			}
		case "sex":
			want, err := strconv.ParseBool(v)
			if err == nil && st.Sex != want {
				return false
			}
		}
	}
	return true
}

func (r *Repository) Get(_ context.Context, id string) (Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.items[id]
	if !ok {
		return Student{}, common.ErrNotFound
	}
	return st, nil
}

// Create stores st under a fresh id and stamps CreateTime.
func (r *Repository) Create(_ context.Context, st Student) (Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st.ID = uuid.NewString()
	st.CreateTime = r.now().Format(TimeLayout)
	r.items[st.ID] = st
	r.order = append(r.order, st.ID)
	return st, nil
}

// Update replaces the record id. ID and CreateTime are kept.
func (r *Repository) Update(_ context.Context, id string, st Student) (Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[id]
	if !ok {
		return Student{}, common.ErrNotFound
	}
	st.ID = cur.ID
	st.CreateTime = cur.CreateTime
	r.items[id] = st
	return st, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
