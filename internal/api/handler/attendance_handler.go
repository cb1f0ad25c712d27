package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// AttendanceHandler attendance marking and reports
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Roster class roster with the day's statuses
// GET /api/v1/attendance/roster?branch=&class=&date=&course_id=
func (h *AttendanceHandler) Roster(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.RosterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "branch, class and date are required")
		return
	}

	roster, err := h.attendanceSvc.Roster(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, roster)
}

// Mark replaces the day's attendance for the class
// POST /api/v1/attendance
func (h *AttendanceHandler) Mark(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.attendanceSvc.Mark(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

// MyAttendance (Student)
// GET /api/v1/attendance/my
func (h *AttendanceHandler) MyAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var filter dto.AttendanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.attendanceSvc.MyAttendance(c.Request.Context(), actor, &filter)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

// CourseAttendance (Faculty/Admin)
// GET /api/v1/attendance/courses/:id
func (h *AttendanceHandler) CourseAttendance(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var filter dto.AttendanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.attendanceSvc.CourseAttendance(c.Request.Context(), actor, c.Param("id"), &filter)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrNotAssigned):
		response.Forbidden(c, 15001, "faculty is not assigned to this course")
	case errors.Is(err, service.ErrEmptyRoster):
		response.BadRequest(c, 15002, "no students in this class")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 15003, "course not found")
	default:
		response.InternalError(c)
	}
}
