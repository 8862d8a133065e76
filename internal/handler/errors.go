package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paralympics-api/internal/schema"
	"paralympics-api/internal/store"
)

// errorMessages holds the client-facing text for each store error kind
type errorMessages struct {
	notFound  string
	duplicate string
	reference string
}

// respondError maps err onto a status code and JSON body. Raw store errors
// only go to the log, never to the client.
func respondError(c *gin.Context, logger *zap.Logger, err error, msgs errorMessages) {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"error": verr.Message}
		if len(verr.Fields) > 0 {
			body["fields"] = verr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": orDefault(msgs.notFound, "Not found")})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": orDefault(msgs.duplicate, "Already exists")})
	case errors.Is(err, store.ErrMissingReference):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": orDefault(msgs.reference, "Referenced record does not exist")})
	case errors.Is(err, store.ErrIntegrity):
		logger.Error("data integrity violation",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Data integrity error: lookup matched more than one record"})
	default:
		logger.Error("store request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
