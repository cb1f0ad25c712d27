package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// ProfileHandler student profiles and user management
type ProfileHandler struct {
	profileSvc service.ProfileService
	maxUpload  int64
}

// NewProfileHandler creates a ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, maxUpload: maxUpload}
}

// ListStudents paged student search (Admin)
// GET /api/v1/students
func (h *ProfileHandler) ListStudents(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	list, total, err := h.profileSvc.ListStudents(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetProfile full profile of a user
// GET /api/v1/users/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	user, err := h.profileSvc.GetProfile(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateStudentProfile (Admin)
// PUT /api/v1/students/:id
func (h *ProfileHandler) UpdateStudentProfile(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	user, err := h.profileSvc.UpdateStudentProfile(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, user)
}

// UploadDocument multipart "file" (Admin)
// POST /api/v1/students/:id/documents/:kind
func (h *ProfileHandler) UploadDocument(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	file, closeFile, ok := h.requireFile(c)
	defer closeFile()
	if !ok {
		return
	}

	doc, err := h.profileSvc.UploadDocument(c.Request.Context(), actor, c.Param("id"), c.Param("kind"), file)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, doc)
}

// UploadOwnPhoto first-year students only
// POST /api/v1/me/photo
func (h *ProfileHandler) UploadOwnPhoto(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	file, closeFile, ok := h.requireFile(c)
	defer closeFile()
	if !ok {
		return
	}

	doc, err := h.profileSvc.UploadOwnPhoto(c.Request.Context(), actor, file)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, doc)
}

// UpdateOwnContact
// PUT /api/v1/me/contact
func (h *ProfileHandler) UpdateOwnContact(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	user, err := h.profileSvc.UpdateOwnContact(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, user)
}

// DeleteUser (Admin)
// DELETE /api/v1/users/:id
func (h *ProfileHandler) DeleteUser(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.profileSvc.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *ProfileHandler) requireFile(c *gin.Context) (*dto.Upload, func(), bool) {
	file, closeFile, ok := bindUpload(c, "file", h.maxUpload)
	if ok && file == nil {
		response.BadRequest(c, 10001, "file is required")
		return nil, closeFile, false
	}
	return file, closeFile, ok
}

func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 13001, "user not found")
	case errors.Is(err, service.ErrInvalidDocumentKind):
		response.BadRequest(c, 13002, "unknown document kind")
	case errors.Is(err, service.ErrPhotoNotAllowed):
		response.Forbidden(c, 13003, "only first-year students may upload their own photo")
	case errors.Is(err, service.ErrPhotoExists):
		response.Conflict(c, 13004, "photo already uploaded")
	case errors.Is(err, service.ErrCannotDeleteSelf):
		response.BadRequest(c, 13005, "cannot delete your own account")
	case errors.Is(err, service.ErrProfileConflict):
		response.Conflict(c, 13006, "email, enrollment or roll number already in use")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 13007, "email already registered")
	case errors.Is(err, service.ErrEmailDomainMismatch):
		response.BadRequest(c, 13008, "email does not belong to the college domain")
	case errors.Is(err, service.ErrNotAStudent):
		response.BadRequest(c, 13009, "user is not a student of this college")
	default:
		response.InternalError(c)
	}
}
