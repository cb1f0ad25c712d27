package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// DropdownHandler form option lists
type DropdownHandler struct {
	dropdownSvc service.DropdownService
}

// NewDropdownHandler creates a DropdownHandler
func NewDropdownHandler(dropdownSvc service.DropdownService) *DropdownHandler {
	return &DropdownHandler{dropdownSvc: dropdownSvc}
}

// Get merged option lists
// GET /api/v1/dropdowns
func (h *DropdownHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.dropdownSvc.Get(c.Request.Context(), actor)
	if err != nil {
		h.handleDropdownError(c, err)
		return
	}
	response.OK(c, result)
}

// Create (Admin)
// POST /api/v1/dropdowns
func (h *DropdownHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreateDropdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	value, err := h.dropdownSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleDropdownError(c, err)
		return
	}
	response.Created(c, value)
}

// Delete (Admin)
// DELETE /api/v1/dropdowns/:id
func (h *DropdownHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.dropdownSvc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleDropdownError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *DropdownHandler) handleDropdownError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrDropdownExists):
		response.Conflict(c, 18001, "dropdown value already exists")
	case errors.Is(err, service.ErrDropdownNotFound):
		response.NotFound(c, 18002, "dropdown value not found")
	case errors.Is(err, service.ErrInvalidField):
		response.BadRequest(c, 18003, "field must be a lower snake-case identifier")
	default:
		response.InternalError(c)
	}
}
