package matches

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xorcare/pointer"

	"github.com/nvbf/shuttle-club/pkg/apierror"
	"github.com/nvbf/shuttle-club/pkg/auth"
	timehelper "github.com/nvbf/shuttle-club/pkg/timeHelper"
	"github.com/nvbf/shuttle-club/pkg/tournament"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Results is the interface for the match service.
type Results interface {
	ReportResult(ctx context.Context, tournamentID, matchID string, version int64, sets []tournament.SetScore) (*tournament.Match, error)
	ReportFromScoreboard(ctx context.Context, tournamentID, matchID, userID string, version int64) (*tournament.Match, error)
	Start(ctx context.Context, tournamentID, matchID string, version int64) (*tournament.Match, error)
	Cancel(ctx context.Context, tournamentID, matchID string, version int64) (*tournament.Match, error)
	Schedule(ctx context.Context, tournamentID, matchID string, version int64, court *string, at *time.Time) (*tournament.Match, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Results

	// The router instance to configure the HTTP routes.
	Router Router

	// Location used to read schedule times without an offset.
	Location *time.Location
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	r := opts.Router
	h := &httpHandler{opts}
	r.POST("/:tournament_id/:match_id/result", h.resultHandler)
	r.POST("/:tournament_id/:match_id/scoreboard", h.scoreboardHandler)
	r.POST("/:tournament_id/:match_id/start", h.startHandler)
	r.POST("/:tournament_id/:match_id/cancel", h.cancelHandler)
	r.POST("/:tournament_id/:match_id/schedule", h.scheduleHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) resultHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	var request ResultRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	m, err := h.Service.ReportResult(c, c.Param("tournament_id"), c.Param("match_id"), version, request.Sets)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Result registered",
		"match":   m,
	})
}

func (h *httpHandler) scoreboardHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}

	m, err := h.Service.ReportFromScoreboard(c, c.Param("tournament_id"), c.Param("match_id"), auth.UserID(c), version)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Result registered",
		"match":   m,
	})
}

func (h *httpHandler) startHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	m, err := h.Service.Start(c, c.Param("tournament_id"), c.Param("match_id"), version)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *httpHandler) cancelHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	m, err := h.Service.Cancel(c, c.Param("tournament_id"), c.Param("match_id"), version)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *httpHandler) scheduleHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	var request ScheduleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	var court *string
	if request.Court != nil {
		court = pointer.String(strings.TrimSpace(*request.Court))
	}
	var at *time.Time
	if request.ScheduledAt != nil {
		parsed, err := timehelper.ParseSchedule(*request.ScheduledAt, h.Location)
		if err != nil {
			apierror.BadRequest(c, err)
			return
		}
		at = pointer.Time(parsed)
	}
	if court == nil && at == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "court or scheduledAt is required"})
		return
	}

	m, err := h.Service.Schedule(c, c.Param("tournament_id"), c.Param("match_id"), version, court, at)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ifMatch reads the optional If-Match version. 0 means no check.
func ifMatch(c *gin.Context) (int64, bool) {
	header := strings.Trim(c.GetHeader("If-Match"), `"`)
	if header == "" {
		return 0, true
	}
	version, err := strconv.ParseInt(header, 10, 64)
	if err != nil || version < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "If-Match must be a tournament version"})
		return 0, false
	}
	return version, true
}
