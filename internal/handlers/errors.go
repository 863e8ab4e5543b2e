package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto an HTTP status and writes it.
// Client errors carry the service message; anything else is logged and
// answered with the generic failure message.
func respondError(c *gin.Context, logger *slog.Logger, err error, failureMsg string) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError:
		logger.Warn(failureMsg, slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		// Checked before ErrValidation, which insufficient balance errors also match.
		logger.Warn(failureMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(failureMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(failureMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn(failureMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failureMsg})
	}
}

// requestIdentity returns the authenticated user and tenant, answering 401
// when either is missing.
func requestIdentity(c *gin.Context, logger *slog.Logger) (userID, tenantID string, ok bool) {
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	tenantID, ok = middleware.GetTenantIDFromContext(c)
	if !ok {
		logger.Error("Tenant ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return userID, tenantID, true
}
