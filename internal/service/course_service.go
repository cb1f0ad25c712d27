package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"college-erp/internal/dto"
	"college-erp/internal/model"
	"college-erp/internal/repository"
)

// ── course errors ──

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseExists      = errors.New("course name or code already exists")
	ErrAlreadyEnrolled   = errors.New("already enrolled in this course")
	ErrAlreadyAssigned   = errors.New("course already assigned for this class")
	ErrInvalidCourseType = errors.New("course type must be Theory or Practical")
)

// CourseService course catalogue, enrollment and teaching assignments
type CourseService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.CourseResponse, error)
	Enroll(ctx context.Context, actor Actor, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error)
	MyCourses(ctx context.Context, actor Actor) ([]dto.EnrollmentResponse, error)
	Assign(ctx context.Context, actor Actor, req *dto.AssignCourseRequest) (*dto.AssignmentResponse, error)
	MyAssignments(ctx context.Context, actor Actor) ([]dto.AssignmentResponse, error)
	CourseStudents(ctx context.Context, actor Actor, courseID string) ([]dto.StudentSummary, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService creates a CourseService.
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, actor Actor, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(req.CourseName)
	code := strings.TrimSpace(req.CourseCode)

	if _, err := s.repo.Course.FindByNameOrCode(ctx, actor.CollegeID, name, code); err == nil {
		return nil, ErrCourseExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup course failed", zap.Error(err))
		return nil, err
	}

	course := &model.Course{CollegeID: actor.CollegeID, CourseName: name, CourseCode: code}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCourseExists
		}
		s.logger.Error("create course failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) List(ctx context.Context, actor Actor) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx, actor.CollegeID)
	if err != nil {
		s.logger.Error("list courses failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		list = append(list, toCourseResponse(&courses[i]))
	}
	return list, nil
}

// ────── Enrollment ──────

func (s *courseService) Enroll(ctx context.Context, actor Actor, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error) {
	if actor.Role != model.RoleStudent {
		return nil, ErrForbidden
	}
	course, err := s.loadCourse(ctx, actor.CollegeID, req.CourseID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Enrollment.Exists(ctx, actor.UserID, course.ID)
	if err != nil {
		s.logger.Error("check enrollment failed", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}

	student, err := s.repo.User.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load student failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	enrollment := &model.StudentCourse{
		StudentID: student.ID,
		CourseID:  course.ID,
		Program:   student.Program,
		Branch:    student.Branch,
		Year:      student.Year,
		Semester:  student.Semester,
	}
	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		s.logger.Error("create enrollment failed", zap.Error(err))
		return nil, err
	}
	enrollment.Course = course
	resp := toEnrollmentResponse(enrollment)
	return &resp, nil
}

func (s *courseService) MyCourses(ctx context.Context, actor Actor) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		list = append(list, toEnrollmentResponse(&enrollments[i]))
	}
	return list, nil
}

// ────── Faculty assignments ──────

func (s *courseService) Assign(ctx context.Context, actor Actor, req *dto.AssignCourseRequest) (*dto.AssignmentResponse, error) {
	if actor.Role != model.RoleFaculty {
		return nil, ErrForbidden
	}
	if req.CourseType != model.CourseTypeTheory && req.CourseType != model.CourseTypePractical {
		return nil, ErrInvalidCourseType
	}
	course, err := s.loadCourse(ctx, actor.CollegeID, req.CourseID)
	if err != nil {
		return nil, err
	}

	program := strings.TrimSpace(req.Program)
	branch := strings.TrimSpace(req.Branch)
	year := strings.TrimSpace(req.Year)

	exists, err := s.repo.Assignment.Exists(ctx, actor.UserID, course.ID, program, branch, year)
	if err != nil {
		s.logger.Error("check assignment failed", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyAssigned
	}

	assignment := &model.FacultyCourse{
		FacultyID:  actor.UserID,
		CourseID:   course.ID,
		Program:    program,
		Branch:     branch,
		Year:       year,
		Semester:   strings.TrimSpace(req.Semester),
		CourseType: req.CourseType,
	}
	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAssigned
		}
		s.logger.Error("create assignment failed", zap.Error(err))
		return nil, err
	}
	assignment.Course = course
	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

func (s *courseService) MyAssignments(ctx context.Context, actor Actor) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.ListByFaculty(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("list assignments failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		list = append(list, toAssignmentResponse(&assignments[i]))
	}
	return list, nil
}

func (s *courseService) CourseStudents(ctx context.Context, actor Actor, courseID string) ([]dto.StudentSummary, error) {
	if actor.Role != model.RoleFaculty && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if _, err := s.loadCourse(ctx, actor.CollegeID, courseID); err != nil {
		return nil, err
	}
	users, err := s.repo.Enrollment.ListStudents(ctx, courseID)
	if err != nil {
		s.logger.Error("list course students failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.StudentSummary, 0, len(users))
	for i := range users {
		list = append(list, toStudentSummary(&users[i]))
	}
	return list, nil
}

// loadCourse resolves a course of the college; other colleges' courses are not found.
func (s *courseService) loadCourse(ctx context.Context, collegeID, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, collegeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("load course failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:         c.ID,
		CourseName: c.CourseName,
		CourseCode: c.CourseCode,
		CreatedAt:  formatTime(c.CreatedAt),
	}
}

func toEnrollmentResponse(e *model.StudentCourse) dto.EnrollmentResponse {
	resp := dto.EnrollmentResponse{
		ID:       e.ID,
		Program:  e.Program,
		Branch:   e.Branch,
		Year:     e.Year,
		Semester: e.Semester,
	}
	if e.Course != nil {
		resp.Course = toCourseResponse(e.Course)
	} else {
		resp.Course = dto.CourseResponse{ID: e.CourseID}
	}
	return resp
}

func toAssignmentResponse(a *model.FacultyCourse) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:         a.ID,
		Program:    a.Program,
		Branch:     a.Branch,
		Year:       a.Year,
		Semester:   a.Semester,
		CourseType: a.CourseType,
	}
	if a.Course != nil {
		resp.Course = toCourseResponse(a.Course)
	} else {
		resp.Course = dto.CourseResponse{ID: a.CourseID}
	}
	return resp
}
