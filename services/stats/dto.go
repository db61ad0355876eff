package stats

import (
	"time"

	timehelper "github.com/nvbf/shuttle-club/pkg/timeHelper"
	"github.com/nvbf/shuttle-club/pkg/tournament"
)

// Progress counts the matches of a tournament, or of one category, by state.
type Progress struct {
	NumberOfMatches int `json:"numberOfMatches"`
	Completed       int `json:"completed"`
	Ongoing         int `json:"ongoing"`
	Cancelled       int `json:"cancelled"`
	Byes            int `json:"byes"`
	ScheduledToday  int `json:"scheduledToday"`
}

func (p *Progress) add(m tournament.Match, today time.Time, loc *time.Location) {
	p.NumberOfMatches++
	switch m.Status {
	case tournament.MatchCompleted:
		p.Completed++
	case tournament.MatchOngoing:
		p.Ongoing++
	case tournament.MatchCancelled:
		p.Cancelled++
	}
	if m.IsBye {
		p.Byes++
	}
	if m.ScheduledAt != nil && !m.Finished() && timehelper.SameDay(*m.ScheduledAt, today, loc) {
		p.ScheduledToday++
	}
}

func (p *Progress) merge(o Progress) {
	p.NumberOfMatches += o.NumberOfMatches
	p.Completed += o.Completed
	p.Ongoing += o.Ongoing
	p.Cancelled += o.Cancelled
	p.Byes += o.Byes
	p.ScheduledToday += o.ScheduledToday
}

type TournamentStats struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Status     tournament.Status `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	Progress   Progress          `json:"progress"`
	Categories []CategoryStats   `json:"categories,omitempty"`
}

type CategoryStats struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Progress Progress            `json:"progress"`
	Champion *tournament.Entrant `json:"champion,omitempty"`
}

type Totals struct {
	Tournaments          int      `json:"tournaments"`
	TournamentsOngoing   int      `json:"tournamentsOngoing"`
	TournamentsCompleted int      `json:"tournamentsCompleted"`
	Matches              Progress `json:"matches"`
}
