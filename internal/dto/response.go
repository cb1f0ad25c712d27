package dto

import "io"

// ── pagination ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage returns the page, defaulting to 1.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size, defaulting to 20.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset computes the row offset.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── uploads ──

// Upload is a multipart file handed from the handler to a service.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// ── files ──

// FileResponse binary document produced by a service
type FileResponse struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IDsRequest bulk operation over record ids
type IDsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}
