package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/service"
	"college-erp/pkg/response"
	"college-erp/pkg/storage"
)

// Handler aggregates every module handler.
type Handler struct {
	Auth       *AuthHandler
	College    *CollegeHandler
	Profile    *ProfileHandler
	Course     *CourseHandler
	Attendance *AttendanceHandler
	Fee        *FeeHandler
	Export     *ExportHandler
	Grade      *GradeHandler
	Dropdown   *DropdownHandler
}

// NewHandler wires the handlers; maxUploadBytes caps multipart files.
func NewHandler(svc *service.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		College:    NewCollegeHandler(svc.College, maxUploadBytes),
		Profile:    NewProfileHandler(svc.Profile, maxUploadBytes),
		Course:     NewCourseHandler(svc.Course),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Fee:        NewFeeHandler(svc.Fee),
		Export:     NewExportHandler(svc.Export),
		Grade:      NewGradeHandler(svc.Grade),
		Dropdown:   NewDropdownHandler(svc.Dropdown),
	}
}

// handleCommonError maps errors shared by every module.
// It reports false when err is not one of them.
func handleCommonError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "permission denied")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10005, err.Error())
	case errors.Is(err, service.ErrInvalidAmount):
		response.BadRequest(c, 10006, err.Error())
	case errors.Is(err, storage.ErrUnsupportedType):
		response.BadRequest(c, 10007, "unsupported file type")
	case errors.Is(err, storage.ErrTooLarge):
		response.BadRequest(c, 10008, "file too large")
	default:
		return false
	}
	return true
}
