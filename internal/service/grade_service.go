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
	"college-erp/pkg/events"
)

// ── grade errors ──

var (
	ErrInvalidMarks = errors.New("marks must be between 0 and 100")
	ErrResultLocked = errors.New("result already approved")
	ErrNotAStudent  = errors.New("user is not a student of this college")
)

// GradeService marks submission and the admin approval gate
type GradeService interface {
	Submit(ctx context.Context, actor Actor, req *dto.SubmitResultRequest) (*dto.ResultResponse, error)
	Pending(ctx context.Context, actor Actor) ([]dto.ResultResponse, error)
	Approve(ctx context.Context, actor Actor, req *dto.IDsRequest) (*dto.ApproveResponse, error)
	MyResults(ctx context.Context, actor Actor, req *dto.MyResultsRequest) (*dto.MyResultsResponse, error)
}

type gradeService struct {
	repo   *repository.Repository
	events events.Publisher
	logger *zap.Logger
}

// NewGradeService creates a GradeService.
func NewGradeService(repo *repository.Repository, pub events.Publisher, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, events: pub, logger: logger}
}

// Submit records marks; a pending result for the same student, course and
// semester is overwritten.
func (s *gradeService) Submit(ctx context.Context, actor Actor, req *dto.SubmitResultRequest) (*dto.ResultResponse, error) {
	if actor.Role != model.RoleFaculty {
		return nil, ErrForbidden
	}
	if req.Marks == nil || *req.Marks < 0 || *req.Marks > 100 {
		return nil, ErrInvalidMarks
	}
	semester := strings.TrimSpace(req.Semester)

	student, err := s.repo.User.GetByID(ctx, req.StudentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotAStudent
		}
		s.logger.Error("load student failed", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, err
	}
	if student.Role != model.RoleStudent || student.CollegeIDValue() != actor.CollegeID {
		return nil, ErrNotAStudent
	}
	course, err := s.repo.Course.GetByID(ctx, actor.CollegeID, req.CourseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("load course failed", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	marks := *req.Marks
	result, err := s.repo.Result.GetByKey(ctx, student.ID, course.ID, semester)
	switch {
	case err == nil:
		if result.ApprovedByAdmin {
			return nil, ErrResultLocked
		}
		result.Marks = marks
		result.Grade = model.GradeFor(marks)
		updated, err := s.repo.Result.UpdatePendingMarks(ctx, result.ID, result.Marks, result.Grade)
		if err != nil {
			s.logger.Error("update result failed", zap.String("result_id", result.ID), zap.Error(err))
			return nil, err
		}
		if !updated {
			return nil, ErrResultLocked
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		result = &model.Result{
			StudentID: student.ID,
			CourseID:  course.ID,
			Semester:  semester,
			Marks:     marks,
			Grade:     model.GradeFor(marks),
		}
		if err := s.repo.Result.Create(ctx, result); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrResultLocked
			}
			s.logger.Error("create result failed", zap.String("student_id", student.ID), zap.Error(err))
			return nil, err
		}
	default:
		s.logger.Error("load result failed", zap.Error(err))
		return nil, err
	}

	result.Student = student
	result.Course = course
	resp := toResultResponse(result)
	return &resp, nil
}

func (s *gradeService) Pending(ctx context.Context, actor Actor) ([]dto.ResultResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	results, err := s.repo.Result.ListPending(ctx, actor.CollegeID)
	if err != nil {
		s.logger.Error("list pending results failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.ResultResponse, 0, len(results))
	for i := range results {
		list = append(list, toResultResponse(&results[i]))
	}
	return list, nil
}

// Approve opens the given results of the actor's college to their students.
// Ids of other colleges or already approved rows are skipped.
func (s *gradeService) Approve(ctx context.Context, actor Actor, req *dto.IDsRequest) (*dto.ApproveResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	approved, err := s.repo.Result.Approve(ctx, actor.CollegeID, req.IDs)
	if err != nil {
		s.logger.Error("approve results failed", zap.String("college_id", actor.CollegeID), zap.Error(err))
		return nil, err
	}
	for _, r := range approved {
		if err := s.events.Publish(ctx, events.ResultApproved, actor.CollegeID, map[string]string{
			"result_id":  r.ID,
			"student_id": r.StudentID,
			"course_id":  r.CourseID,
			"semester":   r.Semester,
			"grade":      r.Grade,
		}); err != nil {
			s.logger.Warn("publish event failed", zap.String("type", events.ResultApproved), zap.Error(err))
		}
	}
	s.logger.Info("results approved", zap.String("by", actor.UserID), zap.Int("count", len(approved)))
	return &dto.ApproveResponse{Approved: int64(len(approved))}, nil
}

func (s *gradeService) MyResults(ctx context.Context, actor Actor, req *dto.MyResultsRequest) (*dto.MyResultsResponse, error) {
	semester := strings.TrimSpace(req.Semester)
	results, err := s.repo.Result.ListApproved(ctx, actor.UserID, semester)
	if err != nil {
		s.logger.Error("list approved results failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	semesters, err := s.repo.Result.ApprovedSemesters(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("list result semesters failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	resp := &dto.MyResultsResponse{
		Results:   make([]dto.ResultResponse, 0, len(results)),
		Semesters: semesters,
		Selected:  semester,
	}
	if resp.Semesters == nil {
		resp.Semesters = []string{}
	}
	for i := range results {
		resp.Results = append(resp.Results, toResultResponse(&results[i]))
	}
	return resp, nil
}

func toResultResponse(r *model.Result) dto.ResultResponse {
	resp := dto.ResultResponse{
		ID:        r.ID,
		StudentID: r.StudentID,
		CourseID:  r.CourseID,
		Semester:  r.Semester,
		Marks:     r.Marks,
		Grade:     r.Grade,
		Approved:  r.ApprovedByAdmin,
		CreatedAt: formatTime(r.CreatedAt),
	}
	if r.Student != nil {
		resp.StudentName = r.Student.Name
		resp.RollNo = r.Student.RollNoValue()
	}
	if r.Course != nil {
		resp.CourseName = r.Course.CourseName
		resp.CourseCode = r.Course.CourseCode
	}
	return resp
}
