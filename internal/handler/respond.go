package handler

import (
	"net/http"

	"district-analytics-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps an error's kind to an HTTP status and writes a uniform
// error body. Internal errors are logged with their cause and surfaced
// opaquely.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	c.JSON(statusOf(kind), gin.H{"error": apperr.Message(err)})
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
