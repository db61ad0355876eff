package metrics

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

var MatchesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shuttle_matches_generated_total",
	Help: "Number of matches generated by tournament format",
}, []string{"format"})

var ResultsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shuttle_results_recorded_total",
	Help: "Number of match results recorded by stage",
}, []string{"stage"})

var KnockoutsPromoted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shuttle_knockouts_promoted_total",
	Help: "Number of knockout stages drawn from group results",
}, []string{"trigger"})

var TournamentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "shuttle_tournaments_completed_total",
	Help: "Number of tournaments that reached completed",
})

var ConsistencyFaults = promauto.NewCounter(prometheus.CounterOpts{
	Name: "shuttle_consistency_faults_total",
	Help: "Number of operations rejected because stored data contradicted itself",
})

var StoreConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "shuttle_store_conflicts_total",
	Help: "Number of writes rejected by the version check",
})

var NotificationErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "shuttle_notification_errors_total",
	Help: "Number of organizer mails that could not be sent",
})

var idRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// urlLabel collapses ids so every route is one label value.
func urlLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	url := strings.Split(c.Request.URL.String(), "?")[0]
	return idRe.ReplaceAllString(url, ":id")
}

// Use adds the request metrics middleware and the /metrics endpoint.
func Use(r *gin.Engine) {
	p := ginprometheus.NewPrometheus("gin")
	p.ReqCntURLLabelMappingFn = urlLabel
	p.MetricsPath = "/metrics"
	p.Use(r)
}
