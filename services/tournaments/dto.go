package tournaments

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/nvbf/shuttle-club/pkg/tournament"
)

type CreateTournamentRequest struct {
	Name           string            `json:"name" binding:"required"`
	OrganizerEmail string            `json:"organizerEmail"`
	Format         tournament.Format `json:"format" binding:"required"`
	Categories     []CategoryRequest `json:"categories" binding:"required,dive"`
}

type CategoryRequest struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name" binding:"required"`
	Doubles            bool           `json:"doubles"`
	Sex                tournament.Sex `json:"sex"`
	GroupCount         int            `json:"groupCount"`
	QualifiersPerGroup int            `json:"qualifiersPerGroup"`
}

func (r CategoryRequest) category() tournament.Category {
	return tournament.Category{
		ID:                 r.ID,
		Name:               r.Name,
		Doubles:            r.Doubles,
		Sex:                r.Sex,
		GroupCount:         r.GroupCount,
		QualifiersPerGroup: r.QualifiersPerGroup,
	}
}

type StatusRequest struct {
	Status tournament.Status `json:"status" binding:"required"`
}

type ParticipantsRequest struct {
	Participants []ParticipantRequest `json:"participants" binding:"required,dive"`
}

type ParticipantRequest struct {
	Name       string         `json:"name" binding:"required"`
	MemberID   string         `json:"memberId"`
	Pot        PotValue       `json:"pot"`
	Sex        tournament.Sex `json:"sex"`
	Categories []string       `json:"categories"`
}

// PotValue accepts a pot as 3, "3" or "Pot 3".
type PotValue tournament.Pot

func (p *PotValue) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = PotValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pot, err := tournament.ParsePot(s)
	if err != nil {
		return err
	}
	*p = PotValue(pot)
	return nil
}

type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// TeamsRequest either pairs automatically with Mode or sets Teams by hand.
type TeamsRequest struct {
	Mode  tournament.PairingMode `json:"mode"`
	Teams []tournament.TeamPair  `json:"teams"`
}

// Summary is the list view of a tournament.
type Summary struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Format       tournament.Format `json:"format"`
	Status       tournament.Status `json:"status"`
	Categories   int               `json:"categories"`
	Participants int               `json:"participants"`
	Version      int64             `json:"version"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func summarize(t *tournament.Tournament) Summary {
	return Summary{
		ID:           t.ID,
		Name:         t.Name,
		Format:       t.Format,
		Status:       t.Status,
		Categories:   len(t.Categories),
		Participants: len(t.Participants),
		Version:      t.Version,
		CreatedAt:    t.CreatedAt,
	}
}

func etag(version int64) string {
	return strconv.Quote(strconv.FormatInt(version, 10))
}
