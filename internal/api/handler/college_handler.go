package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// CollegeHandler college management HTTP handler
type CollegeHandler struct {
	collegeSvc service.CollegeService
	maxUpload  int64
}

// NewCollegeHandler creates a CollegeHandler
func NewCollegeHandler(collegeSvc service.CollegeService, maxUpload int64) *CollegeHandler {
	return &CollegeHandler{collegeSvc: collegeSvc, maxUpload: maxUpload}
}

// List every college (SuperAdmin)
// GET /api/v1/colleges
func (h *CollegeHandler) List(c *gin.Context) {
	list, err := h.collegeSvc.List(c.Request.Context())
	if err != nil {
		h.handleCollegeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Get
// GET /api/v1/colleges/:id
func (h *CollegeHandler) Get(c *gin.Context) {
	college, err := h.collegeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCollegeError(c, err)
		return
	}
	response.OK(c, college)
}

// Create multipart: name, domain, optional logo
// POST /api/v1/colleges
func (h *CollegeHandler) Create(c *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}
	logo, closeLogo, ok := bindUpload(c, "logo", h.maxUpload)
	defer closeLogo()
	if !ok {
		return
	}

	college, err := h.collegeSvc.Create(c.Request.Context(), &req, logo)
	if err != nil {
		h.handleCollegeError(c, err)
		return
	}
	response.Created(c, college)
}

// Update multipart: name?, domain?, logo?, remove_logo
// PUT /api/v1/colleges/:id
func (h *CollegeHandler) Update(c *gin.Context) {
	var req dto.UpdateCollegeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}
	logo, closeLogo, ok := bindUpload(c, "logo", h.maxUpload)
	defer closeLogo()
	if !ok {
		return
	}

	college, err := h.collegeSvc.Update(c.Request.Context(), c.Param("id"), &req, logo)
	if err != nil {
		h.handleCollegeError(c, err)
		return
	}
	response.OK(c, college)
}

// Delete refuses colleges that still have users
// DELETE /api/v1/colleges/:id
func (h *CollegeHandler) Delete(c *gin.Context) {
	if err := h.collegeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCollegeError(c, err)
		return
	}
	response.OK(c, nil)
}

// UpdateOwn Admin rebranding of their own college
// PUT /api/v1/college
func (h *CollegeHandler) UpdateOwn(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateOwnCollegeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}
	logo, closeLogo, ok := bindUpload(c, "logo", h.maxUpload)
	defer closeLogo()
	if !ok {
		return
	}

	college, err := h.collegeSvc.UpdateOwn(c.Request.Context(), actor, &req, logo)
	if err != nil {
		h.handleCollegeError(c, err)
		return
	}
	response.OK(c, college)
}

func (h *CollegeHandler) handleCollegeError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCollegeNotFound):
		response.NotFound(c, 12001, "college not found")
	case errors.Is(err, service.ErrCollegeNameExists):
		response.Conflict(c, 12002, "college name already exists")
	case errors.Is(err, service.ErrCollegeDomainExists):
		response.Conflict(c, 12003, "college domain already exists")
	case errors.Is(err, service.ErrCollegeHasUsers):
		response.Conflict(c, 12004, "college still has users")
	case errors.Is(err, service.ErrInvalidDomain):
		response.BadRequest(c, 12005, "invalid college domain")
	case errors.Is(err, service.ErrDomainInUse):
		response.Conflict(c, 12006, "college domain cannot change while the college has users")
	default:
		response.InternalError(c)
	}
}
