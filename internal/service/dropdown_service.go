package service

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"college-erp/internal/dto"
	"college-erp/internal/model"
	"college-erp/internal/repository"
)

// ── dropdown errors ──

var (
	ErrDropdownExists   = errors.New("dropdown value already exists")
	ErrDropdownNotFound = errors.New("dropdown value not found")
	ErrInvalidField     = errors.New("field must be a lower snake-case identifier")
)

var fieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsDropdownField reports whether name is a valid lower snake-case field.
func IsDropdownField(name string) bool {
	return fieldPattern.MatchString(name)
}

// DropdownService option lists for profile and filter forms
type DropdownService interface {
	Get(ctx context.Context, actor Actor) (*dto.DropdownsResponse, error)
	Create(ctx context.Context, actor Actor, req *dto.CreateDropdownRequest) (*dto.DropdownValueResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type dropdownService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDropdownService creates a DropdownService.
func NewDropdownService(repo *repository.Repository, logger *zap.Logger) DropdownService {
	return &dropdownService{repo: repo, logger: logger}
}

var profileFields = []string{model.FieldProgram, model.FieldBranch, model.FieldYear, model.FieldSection, model.FieldSemester}

// Get merges values found on the college's students with admin-managed rows.
func (s *dropdownService) Get(ctx context.Context, actor Actor) (*dto.DropdownsResponse, error) {
	sets := make(map[string]map[string]struct{})
	add := func(field, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if sets[field] == nil {
			sets[field] = make(map[string]struct{})
		}
		sets[field][value] = struct{}{}
	}

	for _, field := range profileFields {
		values, err := s.repo.User.DistinctStudentValues(ctx, actor.CollegeID, field)
		if err != nil {
			s.logger.Error("load distinct student values failed", zap.String("field", field), zap.Error(err))
			return nil, err
		}
		for _, v := range values {
			add(field, v)
		}
	}

	rows, err := s.repo.Dropdown.ListByCollege(ctx, actor.CollegeID)
	if err != nil {
		s.logger.Error("list dropdown values failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, err
	}
	resp := &dto.DropdownsResponse{Values: make([]dto.DropdownValueResponse, 0, len(rows))}
	for _, r := range rows {
		add(r.Field, r.Value)
		resp.Values = append(resp.Values, dto.DropdownValueResponse{ID: r.ID, Field: r.Field, Value: r.Value})
	}

	resp.Programs = sortedValues(sets[model.FieldProgram])
	resp.Branches = sortedValues(sets[model.FieldBranch])
	resp.Years = sortedValues(sets[model.FieldYear])
	resp.Sections = sortedValues(sets[model.FieldSection])
	resp.Semesters = sortedValues(sets[model.FieldSemester])
	for field, set := range sets {
		if isProfileField(field) {
			continue
		}
		if resp.Custom == nil {
			resp.Custom = make(map[string][]string)
		}
		resp.Custom[field] = sortedValues(set)
	}
	return resp, nil
}

func (s *dropdownService) Create(ctx context.Context, actor Actor, req *dto.CreateDropdownRequest) (*dto.DropdownValueResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	field := strings.TrimSpace(req.Field)
	value := strings.TrimSpace(req.Value)
	if !IsDropdownField(field) {
		return nil, ErrInvalidField
	}

	exists, err := s.repo.Dropdown.Exists(ctx, actor.CollegeID, field, value)
	if err != nil {
		s.logger.Error("check dropdown value failed", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrDropdownExists
	}

	row := &model.DropdownValue{CollegeID: actor.CollegeID, Field: field, Value: value}
	if err := s.repo.Dropdown.Create(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDropdownExists
		}
		s.logger.Error("create dropdown value failed", zap.String("field", field), zap.Error(err))
		return nil, err
	}
	return &dto.DropdownValueResponse{ID: row.ID, Field: row.Field, Value: row.Value}, nil
}

func (s *dropdownService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	removed, err := s.repo.Dropdown.Delete(ctx, actor.CollegeID, id)
	if err != nil {
		s.logger.Error("delete dropdown value failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if !removed {
		return ErrDropdownNotFound
	}
	return nil
}

func isProfileField(field string) bool {
	for _, f := range profileFields {
		if f == field {
			return true
		}
	}
	return false
}

func sortedValues(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
