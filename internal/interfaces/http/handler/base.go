package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/shared"
	"github.com/piora/backend/internal/interfaces/http/dto"
	"github.com/piora/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides response helpers shared by all handlers.
type BaseHandler struct{}

// Success writes a 200 envelope around data.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 envelope with pagination metadata.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 envelope around data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes an empty 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 validation error.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, h.errorResponse(c, dto.ErrCodeValidation, message))
}

// Unauthorized writes a 401 error.
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, h.errorResponse(c, dto.ErrCodeUnauthorized, message))
}

// NotFound writes a 404 error.
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, h.errorResponse(c, dto.ErrCodeNotFound, message))
}

// InternalError writes a 500 error with a generic message.
func (h *BaseHandler) InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, h.errorResponse(c, dto.ErrCodeInternal, "internal server error"))
}

// HandleDomainError maps a domain error to its HTTP status. Errors
// that are not DomainError values become opaque 500s so internal
// details never leak to clients.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.HTTPStatus(domainErr.Code)
		c.JSON(status, h.errorResponse(c, domainErr.Code, domainErr.Message))
		return
	}
	h.InternalError(c)
}

func (h *BaseHandler) errorResponse(c *gin.Context, code, message string) dto.Response {
	return dto.NewErrorResponseWithRequestID(code, message, c.GetString("request_id"))
}

// currentUserID extracts the authenticated user's ID from the JWT
// claims set by the auth middleware.
func (h *BaseHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		h.Unauthorized(c, "authentication required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Unauthorized(c, "invalid authentication context")
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func (h *BaseHandler) pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, "invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}
