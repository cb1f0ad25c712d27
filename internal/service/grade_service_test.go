package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"college-erp/internal/dto"
	"college-erp/internal/model"
)

type gradeSetup struct {
	svc     GradeService
	f       *fixture
	admin   *model.User
	faculty *model.User
	student *model.User
	course  *model.Course
}

func setupTestGradeService() *gradeSetup {
	f := newFixture()
	c := f.addCollege("Alpha", "alpha.edu")
	course := &model.Course{CollegeID: c.ID, CourseName: "DBMS", CourseCode: "CS301"}
	_ = f.courses.Create(context.Background(), course)
	return &gradeSetup{
		svc:     NewGradeService(f.repo, f.events, zap.NewNop()),
		f:       f,
		admin:   f.addUser(c.ID, model.RoleAdmin, "admin@alpha.edu"),
		faculty: f.addUser(c.ID, model.RoleFaculty, "prof@alpha.edu"),
		student: f.addStudent(c.ID, "s@alpha.edu", "BTECH", "CSE", "3"),
		course:  course,
	}
}

func intPtr(v int) *int { return &v }

func (s *gradeSetup) submit(marks int, semester string) (*dto.ResultResponse, error) {
	return s.svc.Submit(context.Background(), actorOf(s.faculty), &dto.SubmitResultRequest{
		StudentID: s.student.ID, CourseID: s.course.ID, Semester: semester, Marks: intPtr(marks),
	})
}

func TestSubmit_GradesAndOverwritesPending(t *testing.T) {
	s := setupTestGradeService()

	first, err := s.submit(72, "5")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if first.Grade != "B+" || first.Approved || first.CourseCode != "CS301" {
		t.Errorf("unexpected result %+v", first)
	}

	second, err := s.submit(91, "5")
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if second.ID != first.ID || second.Grade != "A+" {
		t.Errorf("pending result should be overwritten, got %+v", second)
	}
	if len(s.f.results.results) != 1 {
		t.Errorf("expected one stored result, got %d", len(s.f.results.results))
	}
}

func TestSubmit_Validation(t *testing.T) {
	s := setupTestGradeService()
	ctx := context.Background()

	if _, err := s.submit(101, "5"); !errors.Is(err, ErrInvalidMarks) {
		t.Errorf("expected ErrInvalidMarks, got %v", err)
	}
	if _, err := s.svc.Submit(ctx, actorOf(s.admin), &dto.SubmitResultRequest{
		StudentID: s.student.ID, CourseID: s.course.ID, Semester: "5", Marks: intPtr(50),
	}); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin submit: expected ErrForbidden, got %v", err)
	}
	if _, err := s.svc.Submit(ctx, actorOf(s.faculty), &dto.SubmitResultRequest{
		StudentID: s.faculty.ID, CourseID: s.course.ID, Semester: "5", Marks: intPtr(50),
	}); !errors.Is(err, ErrNotAStudent) {
		t.Errorf("expected ErrNotAStudent, got %v", err)
	}

	other := s.f.addCollege("Beta", "beta.edu")
	foreign := s.f.addStudent(other.ID, "x@beta.edu", "BTECH", "CSE", "3")
	if _, err := s.svc.Submit(ctx, actorOf(s.faculty), &dto.SubmitResultRequest{
		StudentID: foreign.ID, CourseID: s.course.ID, Semester: "5", Marks: intPtr(50),
	}); !errors.Is(err, ErrNotAStudent) {
		t.Errorf("foreign student: expected ErrNotAStudent, got %v", err)
	}
}

func TestApprove_LocksAndPublishes(t *testing.T) {
	s := setupTestGradeService()
	ctx := context.Background()
	res, err := s.submit(65, "5")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	pending, err := s.svc.Pending(ctx, actorOf(s.admin))
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending = %v, %v", pending, err)
	}

	other := s.f.addCollege("Beta", "beta.edu")
	foreignAdmin := s.f.addUser(other.ID, model.RoleAdmin, "admin@beta.edu")
	out, err := s.svc.Approve(ctx, actorOf(foreignAdmin), &dto.IDsRequest{IDs: []string{res.ID}})
	if err != nil || out.Approved != 0 {
		t.Errorf("foreign admin approved %v, err %v", out, err)
	}

	out, err = s.svc.Approve(ctx, actorOf(s.admin), &dto.IDsRequest{IDs: []string{res.ID}})
	if err != nil || out.Approved != 1 {
		t.Fatalf("approve = %v, %v", out, err)
	}
	if len(s.f.events.events) != 1 || s.f.events.events[0].Type != "result.approved" {
		t.Errorf("expected result.approved event, got %+v", s.f.events.events)
	}

	if _, err := s.submit(80, "5"); !errors.Is(err, ErrResultLocked) {
		t.Errorf("expected ErrResultLocked, got %v", err)
	}
	out, _ = s.svc.Approve(ctx, actorOf(s.admin), &dto.IDsRequest{IDs: []string{res.ID}})
	if out.Approved != 0 {
		t.Errorf("re-approval should be skipped, got %d", out.Approved)
	}
}

func TestSubmit_ApprovalBetweenReadAndWrite(t *testing.T) {
	s := setupTestGradeService()
	ctx := context.Background()
	res, err := s.submit(40, "5")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	s.f.results.afterGet = func() {
		s.f.results.afterGet = nil
		if _, err := s.svc.Approve(ctx, actorOf(s.admin), &dto.IDsRequest{IDs: []string{res.ID}}); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
	}
	if _, err := s.submit(95, "5"); !errors.Is(err, ErrResultLocked) {
		t.Fatalf("expected ErrResultLocked, got %v", err)
	}

	stored := s.f.results.results[res.ID]
	if !stored.ApprovedByAdmin || stored.Marks != 40 {
		t.Errorf("approved result was modified: %+v", stored)
	}
}

func TestMyResults_ApprovedOnly(t *testing.T) {
	s := setupTestGradeService()
	ctx := context.Background()
	student := actorOf(s.student)

	empty, err := s.svc.MyResults(ctx, student, &dto.MyResultsRequest{})
	if err != nil {
		t.Fatalf("my results failed: %v", err)
	}
	if empty.Semesters == nil || len(empty.Results) != 0 {
		t.Errorf("expected empty non-nil lists, got %+v", empty)
	}

	r5, _ := s.submit(88, "5")
	if _, err := s.submit(45, "6"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := s.svc.Approve(ctx, actorOf(s.admin), &dto.IDsRequest{IDs: []string{r5.ID}}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	resp, err := s.svc.MyResults(ctx, student, &dto.MyResultsRequest{})
	if err != nil {
		t.Fatalf("my results failed: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Grade != "A" {
		t.Errorf("expected only the approved result, got %+v", resp.Results)
	}
	if len(resp.Semesters) != 1 || resp.Semesters[0] != "5" {
		t.Errorf("semesters = %v", resp.Semesters)
	}

	filtered, _ := s.svc.MyResults(ctx, student, &dto.MyResultsRequest{Semester: "6"})
	if len(filtered.Results) != 0 || filtered.Selected != "6" {
		t.Errorf("semester 6 has no approved results, got %+v", filtered)
	}
}
