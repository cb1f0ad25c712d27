package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// GradeHandler result submission and approval
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler creates a GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// Submit (Faculty)
// POST /api/v1/results
func (h *GradeHandler) Submit(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.gradeSvc.Submit(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	response.OK(c, result)
}

// Pending results awaiting approval (Admin)
// GET /api/v1/results/pending
func (h *GradeHandler) Pending(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.gradeSvc.Pending(c.Request.Context(), actor)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Approve (Admin)
// POST /api/v1/results/approve
func (h *GradeHandler) Approve(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "ids are required")
		return
	}

	result, err := h.gradeSvc.Approve(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	response.OK(c, result)
}

// MyResults approved results (Student)
// GET /api/v1/results/my?semester=
func (h *GradeHandler) MyResults(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.MyResultsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.gradeSvc.MyResults(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalidMarks):
		response.BadRequest(c, 17001, "marks must be between 0 and 100")
	case errors.Is(err, service.ErrResultLocked):
		response.Conflict(c, 17002, "result already approved")
	case errors.Is(err, service.ErrNotAStudent):
		response.BadRequest(c, 17003, "user is not a student of this college")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 17004, "course not found")
	default:
		response.InternalError(c)
	}
}
