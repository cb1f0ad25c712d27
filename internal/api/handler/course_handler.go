package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// CourseHandler courses, enrollments and faculty assignments
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler creates a CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Create (Admin)
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.Created(c, course)
}

// List courses of the actor's college
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.List(c.Request.Context(), actor)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Enroll (Student)
// POST /api/v1/courses/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	enrollment, err := h.courseSvc.Enroll(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.Created(c, enrollment)
}

// MyCourses (Student)
// GET /api/v1/courses/my
func (h *CourseHandler) MyCourses(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.MyCourses(c.Request.Context(), actor)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Assign (Faculty)
// POST /api/v1/courses/assign
func (h *CourseHandler) Assign(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.AssignCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	assignment, err := h.courseSvc.Assign(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.Created(c, assignment)
}

// MyAssignments (Faculty)
// GET /api/v1/courses/assignments
func (h *CourseHandler) MyAssignments(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.MyAssignments(c.Request.Context(), actor)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CourseStudents (Faculty/Admin)
// GET /api/v1/courses/:id/students
func (h *CourseHandler) CourseStudents(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.courseSvc.CourseStudents(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 14001, "course not found")
	case errors.Is(err, service.ErrCourseExists):
		response.Conflict(c, 14002, "course name or code already exists")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		response.Conflict(c, 14003, "already enrolled in this course")
	case errors.Is(err, service.ErrAlreadyAssigned):
		response.Conflict(c, 14004, "course already assigned for this class")
	case errors.Is(err, service.ErrInvalidCourseType):
		response.BadRequest(c, 14005, "course type must be Theory or Practical")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 14006, "user not found")
	default:
		response.InternalError(c)
	}
}
