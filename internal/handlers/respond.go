package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medconnect/booking-api/internal/apperr"
	"github.com/medconnect/booking-api/internal/middleware"
	"github.com/medconnect/booking-api/internal/policy"
)

// fail writes the error's mapped status. Internal errors are logged with
// the request ID and reported with a generic body only.
func (h *Handler) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestID", c.GetString("requestID"),
			"error", err,
		)
		c.JSON(status, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

// failBinding turns a binding error into a 400 with per-field messages when
// the payload was well-formed JSON that failed validation.
func (h *Handler) failBinding(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, gin.H{"field": fe.Field(), "message": fieldMessage(fe)})
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// actor reconstructs the authenticated actor from the context values the
// auth middleware injected.
func (h *Handler) actor(c *gin.Context) (policy.Actor, error) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		return policy.Actor{}, apperr.Unauthorized("User not authenticated")
	}
	return policy.Actor{ID: id, Role: c.GetString(middleware.ContextRole)}, nil
}

// parseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
