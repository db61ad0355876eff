package stats

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvbf/shuttle-club/pkg/apierror"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Stats is the interface for the stats service.
type Stats interface {
	GetStats(ctx context.Context) ([]*TournamentStats, *Totals, error)
	GetTournamentStats(ctx context.Context, id string) (*TournamentStats, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Stats

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/all", h.getStatsHandler)
	r.GET("/tournament/:tournament_id", h.getTournamentStatsHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (s *httpHandler) getStatsHandler(c *gin.Context) {
	stats, totals, err := s.Service.GetStats(c)
	if err != nil {
		apierror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "totals": totals})
}

func (s *httpHandler) getTournamentStatsHandler(c *gin.Context) {
	stats, err := s.Service.GetTournamentStats(c, c.Param("tournament_id"))
	if err != nil {
		apierror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
