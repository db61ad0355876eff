package tournaments

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nvbf/shuttle-club/pkg/apierror"
	"github.com/nvbf/shuttle-club/pkg/tournament"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PATCH(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Tournaments is the interface for the tournament service.
type Tournaments interface {
	Create(ctx context.Context, req CreateTournamentRequest) (*tournament.Tournament, error)
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id string) (*tournament.Tournament, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, version int64, status tournament.Status) (*tournament.Tournament, error)
	AddParticipants(ctx context.Context, id string, version int64, reqs []ParticipantRequest) ([]tournament.Participant, error)
	RenameParticipant(ctx context.Context, id, participantID string, version int64, name string) (*tournament.Participant, error)
	BuildTeams(ctx context.Context, id, categoryID string, version int64, req TeamsRequest) ([]tournament.Team, error)
	Generate(ctx context.Context, id, categoryID string, version int64, force bool) (*tournament.Tournament, error)
	PromoteKnockout(ctx context.Context, id, categoryID string, version int64, qualifiers int, force bool) ([]tournament.Match, error)
	Standings(ctx context.Context, id, categoryID string) ([]tournament.Group, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Tournaments

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.POST("", h.createHandler)
	r.GET("", h.listHandler)
	r.GET("/:tournament_id", h.getHandler)
	r.DELETE("/:tournament_id", h.deleteHandler)
	r.POST("/:tournament_id/status", h.statusHandler)
	r.POST("/:tournament_id/participants", h.participantsHandler)
	r.PATCH("/:tournament_id/participants/:participant_id", h.renameHandler)
	r.POST("/:tournament_id/generate", h.generateHandler)
	r.POST("/:tournament_id/categories/:category_id/teams", h.teamsHandler)
	r.POST("/:tournament_id/categories/:category_id/generate", h.generateHandler)
	r.POST("/:tournament_id/categories/:category_id/knockout", h.knockoutHandler)
	r.GET("/:tournament_id/categories/:category_id/standings", h.standingsHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) createHandler(c *gin.Context) {
	var request CreateTournamentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	t, err := h.Service.Create(c, request)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.Header("ETag", etag(t.Version))
	c.JSON(http.StatusCreated, t)
}

func (h *httpHandler) listHandler(c *gin.Context) {
	summaries, err := h.Service.List(c)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tournaments": summaries})
}

func (h *httpHandler) getHandler(c *gin.Context) {
	t, err := h.Service.Get(c, c.Param("tournament_id"))
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.Header("ETag", etag(t.Version))
	c.JSON(http.StatusOK, t)
}

func (h *httpHandler) deleteHandler(c *gin.Context) {
	if err := h.Service.Delete(c, c.Param("tournament_id")); err != nil {
		apierror.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) statusHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	var request StatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	t, err := h.Service.SetStatus(c, c.Param("tournament_id"), version, request.Status)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.Header("ETag", etag(t.Version))
	c.JSON(http.StatusOK, gin.H{"status": t.Status, "version": t.Version})
}

func (h *httpHandler) participantsHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	var request ParticipantsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	added, err := h.Service.AddParticipants(c, c.Param("tournament_id"), version, request.Participants)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"participants": added})
}

func (h *httpHandler) renameHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	var request RenameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	p, err := h.Service.RenameParticipant(c, c.Param("tournament_id"), c.Param("participant_id"), version, request.Name)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *httpHandler) teamsHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	var request TeamsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apierror.BadRequest(c, err)
		return
	}

	teams, err := h.Service.BuildTeams(c, c.Param("tournament_id"), c.Param("category_id"), version, request)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (h *httpHandler) generateHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	force, ok := boolQuery(c, "force")
	if !ok {
		return
	}

	t, err := h.Service.Generate(c, c.Param("tournament_id"), c.Param("category_id"), version, force)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.Header("ETag", etag(t.Version))
	c.JSON(http.StatusOK, t)
}

func (h *httpHandler) knockoutHandler(c *gin.Context) {
	version, ok := ifMatch(c)
	if !ok {
		return
	}
	force, ok := boolQuery(c, "force")
	if !ok {
		return
	}
	qualifiers, err := strconv.Atoi(c.DefaultQuery("qualifiers", "0"))
	if err != nil || qualifiers < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "qualifiers must be a positive number"})
		return
	}

	matches, err := h.Service.PromoteKnockout(c, c.Param("tournament_id"), c.Param("category_id"), version, qualifiers, force)
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"matches": matches})
}

func (h *httpHandler) standingsHandler(c *gin.Context) {
	groups, err := h.Service.Standings(c, c.Param("tournament_id"), c.Param("category_id"))
	if err != nil {
		apierror.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
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

func boolQuery(c *gin.Context, key string) (bool, bool) {
	value, err := strconv.ParseBool(c.DefaultQuery(key, "false"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": key + " must be true or false"})
		return false, false
	}
	return value, true
}
