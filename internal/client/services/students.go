package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/console/internal/client/models"
	"github.com/dmitrijs2005/console/internal/client/transport"
	"github.com/dmitrijs2005/console/internal/common"
)

const studentBase = "/student"

// StudentService manages the student register.
type StudentService struct {
	api API
}

func NewStudentService(api API) *StudentService {
	return &StudentService{api: api}
}

// List returns one page of students. The list endpoint reports total next
// to data in the envelope, so the raw body is decoded here.
func (s *StudentService) List(ctx context.Context, p models.StudentListParams) (*models.StudentList, error) {
	out, err := s.api.Send(ctx, studentBase+"/getStudentList", transport.RequestOptions{
		Method: http.MethodGet,
		Params: p.Params(),
	})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	switch out.Kind {
	case transport.OutcomeOK:
		var list models.StudentList
		if err := json.Unmarshal(out.Raw.Body, &list); err != nil {
			return nil, fmt.Errorf("list students: %w", err)
		}
		list.Success = true
		return &list, nil
	case transport.OutcomeUnauthenticated:
		return nil, fmt.Errorf("list students: %w", &transport.UnauthenticatedError{Msg: out.Msg})
	case transport.OutcomeBusiness:
		return nil, fmt.Errorf("list students: %w", &transport.BusinessError{Status: out.Status, Msg: out.Msg})
	case transport.OutcomeRaw:
		return nil, fmt.Errorf("list students: %w", transport.ErrUnexpectedResponse)
	default:
		return nil, fmt.Errorf("list students: unknown outcome %s", out.Kind)
	}
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	if id == "" {
		return nil, &ValidationError{Field: "_id", Msg: "student id is required"}
	}

	var st models.Student
	if err := s.api.Do(ctx, studentBase+"/getStudentById/"+url.PathEscape(id), transport.RequestOptions{}, &st); err != nil {
		return nil, fmt.Errorf("get student %s: %w", id, err)
	}
	if st.ID == "" {
		return nil, fmt.Errorf("get student %s: %w", id, common.ErrNotFound)
	}
	return &st, nil
}

func (s *StudentService) Create(ctx context.Context, st models.Student) error {
	if err := validateStudent(st); err != nil {
		return err
	}
	st.ID = ""

	err := s.api.Do(ctx, studentBase+"/createStudent", transport.RequestOptions{
		Method: http.MethodPost,
		Data:   st,
	}, nil)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (s *StudentService) Update(ctx context.Context, st models.Student) error {
	if st.ID == "" {
		return &ValidationError{Field: "_id", Msg: "student id is required"}
	}
	if err := validateStudent(st); err != nil {
		return err
	}

	err := s.api.Do(ctx, studentBase+"/updateStudentById/"+url.PathEscape(st.ID), transport.RequestOptions{
		Method: http.MethodPut,
		Data:   st,
	}, nil)
	if err != nil {
		return fmt.Errorf("update student %s: %w", st.ID, err)
	}
	return nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Field: "_id", Msg: "student id is required"}
	}

	err := s.api.Do(ctx, studentBase+"/deleteStudentById/"+url.PathEscape(id), transport.RequestOptions{
		Method: http.MethodDelete,
	}, nil)
	if err != nil {
		return fmt.Errorf("delete student %s: %w", id, err)
	}
	return nil
}

func validateStudent(st models.Student) error {
	switch {
	case st.Name == "":
		return &ValidationError{Field: "name", Msg: "please enter the name"}
	case st.Birth == "":
		return &ValidationError{Field: "birth", Msg: "please enter the birth date"}
	case st.Phone != "" && !phonePattern.MatchString(st.Phone):
		return &ValidationError{Field: "phone", Msg: "invalid phone number"}
	}
	return nil
}
