package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/domain/models"
	"github.com/mamadbah2/hannan/internal/service/images"
	"github.com/mamadbah2/hannan/internal/service/records"
	"github.com/mamadbah2/hannan/internal/service/summary"
)

func respondOK[T any](c *gin.Context, status int, data T, message string) {
	c.JSON(status, models.Ok(data, message))
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, models.Fail[any](message))
}

// respondError maps service errors onto HTTP statuses. Unexpected errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *records.ValidationError
	switch {
	case errors.As(err, &verr):
		env := models.Fail[map[string]string](verr.Error())
		env.Data = verr.Fields
		c.JSON(http.StatusUnprocessableEntity, env)
	case errors.Is(err, records.ErrUnknownModule), errors.Is(err, records.ErrNotFound):
		respondFail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, records.ErrDuplicateID):
		respondFail(c, http.StatusConflict, err.Error())
	case errors.Is(err, records.ErrImmutableID), errors.Is(err, summary.ErrInvalidMonth):
		respondFail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, images.ErrTooLarge):
		respondFail(c, http.StatusRequestEntityTooLarge, err.Error())
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		respondFail(c, http.StatusInternalServerError, "internal server error")
	}
}
