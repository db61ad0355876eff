package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nvbf/shuttle-club/pkg/metrics"
	"github.com/nvbf/shuttle-club/pkg/tournament"
	"github.com/nvbf/shuttle-club/repos/store"
)

// Status maps an error to the HTTP status it is reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, tournament.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, tournament.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tournament.ErrAlreadyExists), errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Abort writes err as the response. Server side failures are logged and
// hidden from the client.
func Abort(c *gin.Context, err error) {
	status := Status(err)
	if status < http.StatusInternalServerError {
		if errors.Is(err, store.ErrConflict) {
			metrics.StoreConflicts.Inc()
		}
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}

	event := log.Ctx(c.Request.Context()).Error().Err(err)
	if errors.Is(err, tournament.ErrConsistency) {
		metrics.ConsistencyFaults.Inc()
		event = event.Bool("fault", true)
	}
	event.Str("path", c.FullPath()).Msg("request failed")
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": "something went wrong"})
}

// BadRequest reports a request that could not be decoded.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
