package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
)

// AuthHandler auth module HTTP handler
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// ListColleges college picker for the login and register pages
// GET /api/v1/auth/colleges
func (h *AuthHandler) ListColleges(c *gin.Context) {
	list, err := h.authSvc.ListColleges(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Register self-registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// VerifyEmail confirms the registration OTP
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, gin.H{"verified": true})
}

// ResendOTP issues a fresh verification code
// POST /api/v1/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.authSvc.ResendOTP(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}
	jti, exp := tokenMeta(c)

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// ForgotPassword sends a reset code
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.authSvc.ForgotPassword(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// ResetPassword sets a new password with a reset code
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetCurrentUser
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "invalid email or password")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11002, "user not found")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11003, "email already registered")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 11004, "role cannot self-register")
	case errors.Is(err, service.ErrEmailDomainMismatch):
		response.BadRequest(c, 11005, "email does not belong to the college domain")
	case errors.Is(err, service.ErrCollegeRequired):
		response.BadRequest(c, 11006, "college is required")
	case errors.Is(err, service.ErrCollegeMismatch):
		response.Forbidden(c, 11007, "account is not registered under this college")
	case errors.Is(err, service.ErrEmailNotVerified):
		response.Forbidden(c, 11008, "email not verified, a new code has been sent")
	case errors.Is(err, service.ErrAlreadyVerified):
		response.BadRequest(c, 11009, "email already verified")
	case errors.Is(err, service.ErrInvalidOTP):
		response.BadRequest(c, 11010, "invalid or expired code")
	case errors.Is(err, service.ErrCollegeNotFound):
		response.NotFound(c, 11011, "college not found")
	default:
		response.InternalError(c)
	}
}
