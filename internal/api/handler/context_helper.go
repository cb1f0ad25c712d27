package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"college-erp/internal/dto"
	"college-erp/internal/service"
	"college-erp/pkg/response"
	"college-erp/pkg/storage"
)

// MustGetUserID extracts user_id set by the JWT middleware.
// It writes a 401 and reports false when missing; callers return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetActor builds the service actor from the token claims.
// college_id is empty for SuperAdmin.
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	role := c.GetString("role")
	if role == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role, CollegeID: c.GetString("college_id")}, true
}

// tokenMeta returns the JTI and expiry of the request's token.
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	t, _ := exp.(time.Time)
	return jti, t
}

// formUpload reads an optional multipart file. A missing part yields a nil
// upload; the returned closer is always safe to call.
func formUpload(c *gin.Context, field string, maxBytes int64) (*dto.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, err
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, noop, storage.ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &dto.Upload{Filename: fh.Filename, Size: fh.Size, Reader: f}, func() { f.Close() }, nil
}

// bindUpload is formUpload plus the 400 response; ok=false means the
// response has been written.
func bindUpload(c *gin.Context, field string, maxBytes int64) (*dto.Upload, func(), bool) {
	up, closeFn, err := formUpload(c, field, maxBytes)
	if err != nil {
		if !handleCommonError(c, err) {
			response.BadRequest(c, 10001, "invalid file upload")
		}
		return nil, closeFn, false
	}
	return up, closeFn, true
}
