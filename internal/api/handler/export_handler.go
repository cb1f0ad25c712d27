package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// ExportHandler student list downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportStudents
// GET /api/v1/students/export?format=csv|pdf|xlsx
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.ExportStudentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "format must be csv, pdf or xlsx")
		return
	}

	file, err := h.exportSvc.ExportStudents(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrExportFormat):
		response.BadRequest(c, 16101, "format must be csv, pdf or xlsx")
	default:
		response.InternalError(c)
	}
}
