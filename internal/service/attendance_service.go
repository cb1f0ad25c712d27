package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"college-erp/internal/dto"
	"college-erp/internal/model"
	"college-erp/internal/repository"
)

// ── attendance errors ──

var (
	ErrNotAssigned = errors.New("faculty is not assigned to this course")
	ErrEmptyRoster = errors.New("no students in this class")
)

// AttendanceService class rosters and attendance records
type AttendanceService interface {
	Roster(ctx context.Context, actor Actor, req *dto.RosterRequest) (*dto.RosterResponse, error)
	Mark(ctx context.Context, actor Actor, req *dto.MarkAttendanceRequest) (*dto.MarkAttendanceResponse, error)
	MyAttendance(ctx context.Context, actor Actor, filter *dto.AttendanceFilter) (*dto.MyAttendanceResponse, error)
	CourseAttendance(ctx context.Context, actor Actor, courseID string, filter *dto.AttendanceFilter) (*dto.CourseAttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger}
}

func canTakeAttendance(actor Actor) bool {
	return actor.Role == model.RoleFaculty || actor.IsAdmin()
}

func (s *attendanceService) Roster(ctx context.Context, actor Actor, req *dto.RosterRequest) (*dto.RosterResponse, error) {
	if !canTakeAttendance(actor) {
		return nil, ErrForbidden
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	courseID, err := s.resolveCourse(ctx, actor, req.CourseID, false)
	if err != nil {
		return nil, err
	}

	branch := strings.TrimSpace(req.Branch)
	class := strings.TrimSpace(req.ClassName)
	students, err := s.repo.User.ListByClass(ctx, actor.CollegeID, branch, class)
	if err != nil {
		s.logger.Error("list class students failed", zap.String("branch", branch), zap.String("class", class), zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	existing, err := s.repo.Attendance.ListForDay(ctx, ids, date, courseID)
	if err != nil {
		s.logger.Error("list day attendance failed", zap.Error(err))
		return nil, err
	}
	status := make(map[string]string, len(existing))
	for _, a := range existing {
		status[a.StudentID] = a.Status
	}

	resp := &dto.RosterResponse{
		Branch:    branch,
		ClassName: class,
		Date:      date.Format(dateLayout),
		Students:  make([]dto.RosterEntry, 0, len(students)),
	}
	if courseID != nil {
		resp.CourseID = *courseID
	}
	for i := range students {
		resp.Students = append(resp.Students, dto.RosterEntry{
			StudentID: students[i].ID,
			Name:      students[i].Name,
			RollNo:    students[i].RollNoValue(),
			Status:    status[students[i].ID],
		})
	}
	return resp, nil
}

// Mark replaces the day's attendance for every student of the class.
func (s *attendanceService) Mark(ctx context.Context, actor Actor, req *dto.MarkAttendanceRequest) (*dto.MarkAttendanceResponse, error) {
	if !canTakeAttendance(actor) {
		return nil, ErrForbidden
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	courseID, err := s.resolveCourse(ctx, actor, req.CourseID, true)
	if err != nil {
		return nil, err
	}

	branch := strings.TrimSpace(req.Branch)
	class := strings.TrimSpace(req.ClassName)
	students, err := s.repo.User.ListByClass(ctx, actor.CollegeID, branch, class)
	if err != nil {
		s.logger.Error("list class students failed", zap.String("branch", branch), zap.String("class", class), zap.Error(err))
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrEmptyRoster
	}

	present := make(map[string]bool, len(req.PresentIDs))
	for _, id := range req.PresentIDs {
		present[id] = true
	}

	resp := &dto.MarkAttendanceResponse{Date: date.Format(dateLayout), Total: len(students)}
	ids := make([]string, 0, len(students))
	rows := make([]model.Attendance, 0, len(students))
	for _, st := range students {
		status := model.AttendanceAbsent
		if present[st.ID] {
			status = model.AttendancePresent
			resp.Present++
		}
		ids = append(ids, st.ID)
		rows = append(rows, model.Attendance{
			StudentID: st.ID,
			CourseID:  courseID,
			Branch:    branch,
			ClassName: class,
			Date:      date,
			Status:    status,
		})
	}
	resp.Absent = resp.Total - resp.Present

	if err := s.repo.Attendance.Replace(ctx, ids, date, courseID, rows); err != nil {
		s.logger.Error("replace attendance failed",
			zap.String("branch", branch), zap.String("class", class),
			zap.String("date", resp.Date), zap.Error(err))
		return nil, err
	}
	s.logger.Info("attendance marked",
		zap.String("by", actor.UserID), zap.String("date", resp.Date),
		zap.Int("present", resp.Present), zap.Int("absent", resp.Absent))
	return resp, nil
}

// resolveCourse validates an optional course id. When checkAssignment is set a
// Faculty actor must teach the course.
func (s *attendanceService) resolveCourse(ctx context.Context, actor Actor, id string, checkAssignment bool) (*string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	if _, err := s.repo.Course.GetByID(ctx, actor.CollegeID, id); err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("load course failed", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	if checkAssignment && actor.Role == model.RoleFaculty {
		ok, err := s.repo.Assignment.IsAssigned(ctx, actor.UserID, id)
		if err != nil {
			s.logger.Error("check assignment failed", zap.Error(err))
			return nil, err
		}
		if !ok {
			return nil, ErrNotAssigned
		}
	}
	return &id, nil
}

// ────── Reports ──────

// dateRange turns the optional filter dates into a query; unparsable dates
// are dropped and reported as warnings.
func dateRange(filter *dto.AttendanceFilter) (repository.AttendanceQuery, []string) {
	var q repository.AttendanceQuery
	var warnings []string
	if filter.StartDate != "" {
		if t, err := ParseDate(filter.StartDate); err == nil {
			q.From = &t
		} else {
			warnings = append(warnings, "ignored invalid start_date "+filter.StartDate)
		}
	}
	if filter.EndDate != "" {
		if t, err := ParseDate(filter.EndDate); err == nil {
			q.To = &t
		} else {
			warnings = append(warnings, "ignored invalid end_date "+filter.EndDate)
		}
	}
	return q, warnings
}

func (s *attendanceService) MyAttendance(ctx context.Context, actor Actor, filter *dto.AttendanceFilter) (*dto.MyAttendanceResponse, error) {
	q, warnings := dateRange(filter)

	all, err := s.repo.Attendance.ListByStudent(ctx, actor.UserID, q)
	if err != nil {
		s.logger.Error("list student attendance failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}
	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("user_id", actor.UserID), zap.Error(err))
		return nil, err
	}

	filtered := all
	if filter.CourseID != "" {
		filtered = make([]model.Attendance, 0, len(all))
		for _, a := range all {
			if a.CourseID != nil && *a.CourseID == filter.CourseID {
				filtered = append(filtered, a)
			}
		}
	}

	byCourse := make(map[string][]model.Attendance)
	for _, a := range all {
		if a.CourseID != nil {
			byCourse[*a.CourseID] = append(byCourse[*a.CourseID], a)
		}
	}

	resp := &dto.MyAttendanceResponse{
		Records:       make([]dto.AttendanceRecord, 0, len(filtered)),
		Summary:       Summarize(filtered),
		CourseSummary: make([]dto.CourseAttendanceSummary, 0),
		Courses:       make([]dto.CourseResponse, 0, len(enrollments)),
		Warnings:      warnings,
	}
	for i := range filtered {
		resp.Records = append(resp.Records, toAttendanceRecord(&filtered[i], ""))
	}
	for i := range enrollments {
		course := toEnrollmentResponse(&enrollments[i]).Course
		resp.Courses = append(resp.Courses, course)
		if rows := byCourse[course.ID]; len(rows) > 0 {
			resp.CourseSummary = append(resp.CourseSummary, dto.CourseAttendanceSummary{
				Course:            course,
				AttendanceSummary: Summarize(rows),
			})
		}
	}
	return resp, nil
}

func (s *attendanceService) CourseAttendance(ctx context.Context, actor Actor, courseID string, filter *dto.AttendanceFilter) (*dto.CourseAttendanceResponse, error) {
	if !canTakeAttendance(actor) {
		return nil, ErrForbidden
	}
	course, err := s.repo.Course.GetByID(ctx, actor.CollegeID, courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("load course failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	q, warnings := dateRange(filter)
	rows, err := s.repo.Attendance.ListByCourse(ctx, courseID, q)
	if err != nil {
		s.logger.Error("list course attendance failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	students, err := s.repo.Enrollment.ListStudents(ctx, courseID)
	if err != nil {
		s.logger.Error("list course students failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	names := make(map[string]string, len(students))
	for _, st := range students {
		names[st.ID] = st.Name
	}

	resp := &dto.CourseAttendanceResponse{
		Course:   toCourseResponse(course),
		Records:  make([]dto.AttendanceRecord, 0, len(rows)),
		Summary:  Summarize(rows),
		Warnings: warnings,
	}
	for i := range rows {
		rec := toAttendanceRecord(&rows[i], names[rows[i].StudentID])
		rec.CourseName = course.CourseName
		resp.Records = append(resp.Records, rec)
	}
	return resp, nil
}

func toAttendanceRecord(a *model.Attendance, name string) dto.AttendanceRecord {
	rec := dto.AttendanceRecord{
		ID:        a.ID,
		StudentID: a.StudentID,
		Name:      name,
		Date:      a.Date.Format(dateLayout),
		Status:    a.Status,
		Remarks:   a.Remarks,
	}
	if a.CourseID != nil {
		rec.CourseID = *a.CourseID
	}
	if a.Course != nil {
		rec.CourseName = a.Course.CourseName
	}
	return rec
}
