package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// FeeHandler fee configuration, payments and receipts
type FeeHandler struct {
	feeSvc service.FeeService
}

// NewFeeHandler creates a FeeHandler
func NewFeeHandler(feeSvc service.FeeService) *FeeHandler {
	return &FeeHandler{feeSvc: feeSvc}
}

// SaveConfig (Admin)
// POST /api/v1/fees/configs
func (h *FeeHandler) SaveConfig(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.SaveFeeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	cfg, err := h.feeSvc.SaveConfig(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.Created(c, cfg)
}

// ListConfigs (Admin)
// GET /api/v1/fees/configs
func (h *FeeHandler) ListConfigs(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.feeSvc.ListConfigs(c.Request.Context(), actor)
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// MyFees (Student)
// GET /api/v1/fees/my
func (h *FeeHandler) MyFees(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.feeSvc.MyFees(c.Request.Context(), actor)
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.OK(c, result)
}

// CreatePayment (Student)
// POST /api/v1/fees/payments
func (h *FeeHandler) CreatePayment(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.feeSvc.CreatePayment(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.Created(c, result)
}

// ConfirmNetBanking mock gateway callback (owner)
// POST /api/v1/fees/payments/:id/netbanking
func (h *FeeHandler) ConfirmNetBanking(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	payment, err := h.feeSvc.ConfirmNetBanking(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.OK(c, payment)
}

// UpdatePaymentStatus (Admin)
// PUT /api/v1/fees/payments/:id/status
func (h *FeeHandler) UpdatePaymentStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	payment, err := h.feeSvc.UpdatePaymentStatus(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.OK(c, payment)
}

// ListPayments (Admin)
// GET /api/v1/fees/payments
func (h *FeeHandler) ListPayments(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	list, err := h.feeSvc.ListPayments(c.Request.Context(), actor)
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Overview per-student dues (Admin)
// GET /api/v1/fees/overview
func (h *FeeHandler) Overview(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	var req dto.FeeOverviewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	rows, err := h.feeSvc.StudentFeeOverview(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": rows})
}

// PaymentReceipt PDF for one paid payment
// GET /api/v1/fees/payments/:id/receipt
func (h *FeeHandler) PaymentReceipt(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	file, err := h.feeSvc.PaymentReceipt(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

// StudentReceipt PDF summary of a student's paid payments (Admin)
// GET /api/v1/fees/students/:id/receipt
func (h *FeeHandler) StudentReceipt(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	file, err := h.feeSvc.StudentReceipt(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleFeeError(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

func (h *FeeHandler) handleFeeError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrFeeNotConfigured):
		response.NotFound(c, 16001, "fee is not configured for this class")
	case errors.Is(err, service.ErrNoDues):
		response.BadRequest(c, 16002, "no outstanding dues")
	case errors.Is(err, service.ErrInvalidMethod):
		response.BadRequest(c, 16003, "payment method must be UPI or NetBanking")
	case errors.Is(err, service.ErrPaymentNotFound):
		response.NotFound(c, 16004, "payment not found")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 16005, "invalid payment status")
	case errors.Is(err, service.ErrDuesExceeded):
		response.Conflict(c, 16006, "payment exceeds outstanding dues")
	case errors.Is(err, service.ErrPaymentNotPending):
		response.Conflict(c, 16007, "payment is not pending")
	case errors.Is(err, service.ErrUPIUnavailable):
		response.BadRequest(c, 16008, "UPI payments are not configured")
	case errors.Is(err, service.ErrReceiptNotAvailable):
		response.NotFound(c, 16009, "receipt is only available for paid payments")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 16010, "student not found")
	case errors.Is(err, service.ErrPaymentChanged):
		response.Conflict(c, 16011, "payment was modified concurrently, please retry")
	default:
		response.InternalError(c)
	}
}
