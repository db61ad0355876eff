package tournament

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// Pot is the skill tier of a player. 1 is the strongest tier.
type Pot int

const (
	MinPot Pot = 1
	MaxPot Pot = 5
)

func (p Pot) String() string {
	return fmt.Sprintf("Pot %d", int(p))
}

// Valid reports whether the pot is inside the 1..5 range.
func (p Pot) Valid() bool {
	return p >= MinPot && p <= MaxPot
}

// ParsePot accepts both "Pot 3" and "3".
func ParsePot(s string) (Pot, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(strings.ToLower(s), "pot"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, xerrors.Errorf("pot %q: %w", s, ErrInvalidPot)
	}
	pot := Pot(n)
	if !pot.Valid() {
		return 0, xerrors.Errorf("pot %d: %w", n, ErrInvalidPot)
	}
	return pot, nil
}

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	// SexMixed is only meaningful on a category.
	SexMixed Sex = "mixed"
)

type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatRoundRobin        Format = "round_robin"
	FormatMixed             Format = "mixed"
)

type Status string

const (
	StatusDraft        Status = "draft"
	StatusRegistration Status = "registration"
	StatusOngoing      Status = "ongoing"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchOngoing   MatchStatus = "ongoing"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

// Stage separates round-robin group matches from elimination matches.
type Stage string

const (
	StageGroup    Stage = "group"
	StageKnockout Stage = "knockout"
)

type EntrantKind string

const (
	KindParticipant EntrantKind = "participant"
	KindTeam        EntrantKind = "team"
)

type Category struct {
	ID                 string `firestore:"id" json:"id"`
	Name               string `firestore:"name" json:"name"`
	Doubles            bool   `firestore:"doubles" json:"doubles"`
	Sex                Sex    `firestore:"sex" json:"sex,omitempty"`
	GroupCount         int    `firestore:"groupCount" json:"groupCount"`
	QualifiersPerGroup int    `firestore:"qualifiersPerGroup" json:"qualifiersPerGroup"`
}

// Accepts reports whether p may play in the category.
func (c Category) Accepts(p Participant) bool {
	if !p.RegisteredFor(c.ID) {
		return false
	}
	switch c.Sex {
	case SexMale, SexFemale:
		return p.Sex == c.Sex
	default:
		return true
	}
}

type Participant struct {
	ID         string   `firestore:"id" json:"id"`
	Name       string   `firestore:"name" json:"name"`
	MemberID   string   `firestore:"memberId,omitempty" json:"memberId,omitempty"`
	Pot        Pot      `firestore:"pot" json:"pot"`
	Sex        Sex      `firestore:"sex" json:"sex"`
	Categories []string `firestore:"categories" json:"categories"`
}

func (p Participant) RegisteredFor(categoryID string) bool {
	for _, c := range p.Categories {
		if c == categoryID {
			return true
		}
	}
	return false
}

func (p Participant) DisplayName() string {
	return p.Name
}

func (p Participant) Entrant() Entrant {
	return Entrant{Kind: KindParticipant, ID: p.ID, Name: p.Name, Pot: p.Pot}
}

type Team struct {
	ID         string      `firestore:"id" json:"id"`
	CategoryID string      `firestore:"categoryId" json:"categoryId"`
	Player1    Participant `firestore:"player1" json:"player1"`
	Player2    Participant `firestore:"player2" json:"player2"`
	Pot        Pot         `firestore:"pot" json:"pot"`
}

func (t Team) DisplayName() string {
	return t.Player1.Name + " / " + t.Player2.Name
}

func (t Team) Entrant() Entrant {
	return Entrant{Kind: KindTeam, ID: t.ID, Name: t.DisplayName(), Pot: t.Pot}
}

// Entrant is what a match slot, a group member and a standings row refer to:
// either a single participant or a doubles team.
type Entrant struct {
	Kind EntrantKind `firestore:"kind" json:"kind"`
	ID   string      `firestore:"id" json:"id"`
	Name string      `firestore:"name" json:"name"`
	Pot  Pot         `firestore:"pot" json:"pot"`
}

func (e Entrant) DisplayName() string {
	return e.Name
}

// SetScore holds the points of one set, P1 for the participant1 side.
type SetScore struct {
	P1 int `firestore:"p1" json:"p1"`
	P2 int `firestore:"p2" json:"p2"`
}

type Match struct {
	ID               string      `firestore:"id" json:"id"`
	TournamentID     string      `firestore:"tournamentId" json:"tournamentId"`
	CategoryID       string      `firestore:"categoryId" json:"categoryId"`
	GroupID          string      `firestore:"groupId,omitempty" json:"groupId,omitempty"`
	Stage            Stage       `firestore:"stage" json:"stage"`
	Round            string      `firestore:"round" json:"round"`
	Number           int         `firestore:"number" json:"number"`
	Participant1     *Entrant    `firestore:"participant1" json:"participant1"`
	Participant2     *Entrant    `firestore:"participant2" json:"participant2"`
	Court            *string     `firestore:"court" json:"court,omitempty"`
	ScheduledAt      *time.Time  `firestore:"scheduledAt" json:"scheduledAt,omitempty"`
	Scores           []SetScore  `firestore:"scores" json:"scores"`
	Status           MatchStatus `firestore:"status" json:"status"`
	WinnerID         string      `firestore:"winnerId,omitempty" json:"winnerId,omitempty"`
	IsBye            bool        `firestore:"isBye" json:"isBye"`
	NextMatchID      string      `firestore:"nextMatchId,omitempty" json:"nextMatchId,omitempty"`
	PreviousMatch1ID string      `firestore:"previousMatch1Id,omitempty" json:"previousMatch1Id,omitempty"`
	PreviousMatch2ID string      `firestore:"previousMatch2Id,omitempty" json:"previousMatch2Id,omitempty"`
	UpdatedAt        time.Time   `firestore:"updatedAt" json:"updatedAt"`
}

// Finished reports whether the match reached a terminal status.
func (m *Match) Finished() bool {
	return m.Status == MatchCompleted || m.Status == MatchCancelled
}

// Winner returns the entrant in the winner slot, or nil.
func (m *Match) Winner() *Entrant {
	if m.WinnerID == "" {
		return nil
	}
	if m.Participant1 != nil && m.Participant1.ID == m.WinnerID {
		return m.Participant1
	}
	if m.Participant2 != nil && m.Participant2.ID == m.WinnerID {
		return m.Participant2
	}
	return nil
}

func (m *Match) Involves(entrantID string) bool {
	return (m.Participant1 != nil && m.Participant1.ID == entrantID) ||
		(m.Participant2 != nil && m.Participant2.ID == entrantID)
}

type Standing struct {
	Entrant   Entrant `firestore:"entrant" json:"entrant"`
	Rank      int     `firestore:"rank" json:"rank"`
	Played    int     `firestore:"played" json:"played"`
	Won       int     `firestore:"won" json:"won"`
	Lost      int     `firestore:"lost" json:"lost"`
	GamesWon  int     `firestore:"gamesWon" json:"gamesWon"`
	GamesLost int     `firestore:"gamesLost" json:"gamesLost"`
	Points    int     `firestore:"points" json:"points"`
}

// GameDifference is games won minus games lost.
func (s Standing) GameDifference() int {
	return s.GamesWon - s.GamesLost
}

type Group struct {
	ID         string     `firestore:"id" json:"id"`
	CategoryID string     `firestore:"categoryId" json:"categoryId"`
	Name       string     `firestore:"name" json:"name"`
	Entrants   []Entrant  `firestore:"entrants" json:"entrants"`
	Standings  []Standing `firestore:"standings" json:"standings"`
}

func (g *Group) HasEntrant(id string) bool {
	for _, e := range g.Entrants {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Tournament is the aggregate root. Everything nested is stored as one document.
type Tournament struct {
	ID             string        `firestore:"id" json:"id"`
	Name           string        `firestore:"name" json:"name"`
	OrganizerEmail string        `firestore:"organizerEmail,omitempty" json:"organizerEmail,omitempty"`
	Format         Format        `firestore:"format" json:"format"`
	Status         Status        `firestore:"status" json:"status"`
	Categories     []Category    `firestore:"categories" json:"categories"`
	Participants   []Participant `firestore:"participants" json:"participants"`
	Teams          []Team        `firestore:"teams" json:"teams"`
	Groups         []Group       `firestore:"groups" json:"groups"`
	Matches        []Match       `firestore:"matches" json:"matches"`
	Version        int64         `firestore:"version" json:"version"`
	CreatedAt      time.Time     `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `firestore:"updatedAt" json:"updatedAt"`
}

func (t *Tournament) Category(id string) (*Category, error) {
	for i := range t.Categories {
		if t.Categories[i].ID == id {
			return &t.Categories[i], nil
		}
	}
	return nil, xerrors.Errorf("category %s: %w", id, ErrCategoryNotFound)
}

func (t *Tournament) Match(id string) (*Match, error) {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return &t.Matches[i], nil
		}
	}
	return nil, xerrors.Errorf("match %s: %w", id, ErrMatchNotFound)
}

func (t *Tournament) Group(id string) (*Group, error) {
	for i := range t.Groups {
		if t.Groups[i].ID == id {
			return &t.Groups[i], nil
		}
	}
	return nil, xerrors.Errorf("group %s: %w", id, ErrGroupNotFound)
}

func (t *Tournament) Participant(id string) (*Participant, error) {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i], nil
		}
	}
	return nil, xerrors.Errorf("participant %s: %w", id, ErrParticipantNotFound)
}

// CategoryGroups returns pointers into t.Groups for one category.
func (t *Tournament) CategoryGroups(categoryID string) []*Group {
	var groups []*Group
	for i := range t.Groups {
		if t.Groups[i].CategoryID == categoryID {
			groups = append(groups, &t.Groups[i])
		}
	}
	return groups
}

// CategoryMatches returns pointers into t.Matches for one category and stage.
// An empty stage matches every stage.
func (t *Tournament) CategoryMatches(categoryID string, stage Stage) []*Match {
	var matches []*Match
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.CategoryID != categoryID {
			continue
		}
		if stage != "" && m.Stage != stage {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

// GroupMatches returns the matches of one group in match number order.
func (t *Tournament) GroupMatches(groupID string) []Match {
	var matches []Match
	for _, m := range t.Matches {
		if m.GroupID == groupID {
			matches = append(matches, m)
		}
	}
	return matches
}

func (t *Tournament) CategoryTeams(categoryID string) []Team {
	var teams []Team
	for _, team := range t.Teams {
		if team.CategoryID == categoryID {
			teams = append(teams, team)
		}
	}
	return teams
}

// EligibleParticipants returns the participants the category accepts, in
// registration order.
func (t *Tournament) EligibleParticipants(categoryID string) ([]Participant, error) {
	category, err := t.Category(categoryID)
	if err != nil {
		return nil, err
	}
	var participants []Participant
	for _, p := range t.Participants {
		if category.Accepts(p) {
			participants = append(participants, p)
		}
	}
	return participants, nil
}

// Clone returns a deep copy so an operation can be applied and discarded.
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.Categories = slices.Clone(t.Categories)
	c.Participants = slices.Clone(t.Participants)
	for i := range c.Participants {
		c.Participants[i].Categories = slices.Clone(c.Participants[i].Categories)
	}
	c.Teams = slices.Clone(t.Teams)
	c.Groups = slices.Clone(t.Groups)
	for i := range c.Groups {
		c.Groups[i].Entrants = slices.Clone(c.Groups[i].Entrants)
		c.Groups[i].Standings = slices.Clone(c.Groups[i].Standings)
	}
	c.Matches = slices.Clone(t.Matches)
	for i := range c.Matches {
		m := &c.Matches[i]
		if m.Participant1 != nil {
			e := *m.Participant1
			m.Participant1 = &e
		}
		if m.Participant2 != nil {
			e := *m.Participant2
			m.Participant2 = &e
		}
		if m.Court != nil {
			court := *m.Court
			m.Court = &court
		}
		if m.ScheduledAt != nil {
			at := *m.ScheduledAt
			m.ScheduledAt = &at
		}
		m.Scores = slices.Clone(m.Scores)
	}
	return &c
}
