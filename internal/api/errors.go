package api

import (
	"alcyxob/gym-membership/internal/service"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondServiceError maps service errors to HTTP responses.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanConflict),
		errors.Is(err, service.ErrDuplicateAttendance),
		errors.Is(err, service.ErrMemberEmailTaken),
		errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrAttendanceNotFound),
		errors.Is(err, service.ErrHistoryEntryNotFound),
		errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("request_failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// objectIDParam reads a hex ObjectID path parameter, answering 400 when it is malformed.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}
