package tournament

import (
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// Tournament status transitions. ongoing is entered by generating matches and
// completed by RefreshStatus, not by SetStatus.
var statusTransitions = map[Status][]Status{
	StatusDraft:        {StatusRegistration, StatusCancelled},
	StatusRegistration: {StatusDraft, StatusCancelled},
	StatusOngoing:      {StatusCancelled},
}

func SetStatus(t *Tournament, status Status, now time.Time) error {
	for _, allowed := range statusTransitions[t.Status] {
		if allowed == status {
			t.Status = status
			t.UpdatedAt = now
			return nil
		}
	}
	return xerrors.Errorf("tournament %s -> %s: %w", t.Status, status, ErrInvalidTransition)
}

// Registering reports whether the roster may still change.
func (t *Tournament) Registering() bool {
	return t.Status == StatusDraft || t.Status == StatusRegistration
}

// AddParticipant validates and registers one player. The generator assigns
// the id when p.ID is empty.
func (g *Generator) AddParticipant(t *Tournament, p Participant) (*Participant, error) {
	if !t.Registering() {
		return nil, xerrors.Errorf("register in %s tournament: %w", t.Status, ErrInvalidTransition)
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, xerrors.Errorf("participant without name: %w", ErrMissingName)
	}
	if !p.Pot.Valid() {
		return nil, xerrors.Errorf("participant %s pot %d: %w", p.Name, int(p.Pot), ErrInvalidPot)
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		return nil, xerrors.Errorf("participant %s sex %q: %w", p.Name, p.Sex, ErrInvalidSex)
	}
	for _, cid := range p.Categories {
		if _, err := t.Category(cid); err != nil {
			return nil, err
		}
	}
	if p.ID == "" {
		p.ID = g.NewID()
	} else if _, err := t.Participant(p.ID); err == nil {
		return nil, xerrors.Errorf("participant %s: %w", p.ID, ErrDuplicateParticipant)
	}
	p.Categories = append([]string(nil), p.Categories...)
	t.Participants = append(t.Participants, p)
	t.UpdatedAt = g.Now()
	return &t.Participants[len(t.Participants)-1], nil
}

// RenameParticipant corrects a name everywhere it was copied: teams, group
// members, standings and match slots. It is allowed at any status.
func RenameParticipant(t *Tournament, participantID, name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return xerrors.Errorf("rename %s: %w", participantID, ErrMissingName)
	}
	p, err := t.Participant(participantID)
	if err != nil {
		return err
	}
	p.Name = name

	renamed := map[string]string{participantID: name}
	for i := range t.Teams {
		team := &t.Teams[i]
		touched := false
		if team.Player1.ID == participantID {
			team.Player1.Name = name
			touched = true
		}
		if team.Player2.ID == participantID {
			team.Player2.Name = name
			touched = true
		}
		if touched {
			renamed[team.ID] = team.DisplayName()
		}
	}

	rename := func(e *Entrant) {
		if e == nil {
			return
		}
		if n, ok := renamed[e.ID]; ok {
			e.Name = n
		}
	}
	for i := range t.Groups {
		for j := range t.Groups[i].Entrants {
			rename(&t.Groups[i].Entrants[j])
		}
		for j := range t.Groups[i].Standings {
			rename(&t.Groups[i].Standings[j].Entrant)
		}
	}
	for i := range t.Matches {
		rename(t.Matches[i].Participant1)
		rename(t.Matches[i].Participant2)
	}
	t.UpdatedAt = now
	return nil
}

// TeamPair names two registered participants to play together.
type TeamPair struct {
	Player1ID string `json:"player1Id"`
	Player2ID string `json:"player2Id"`
}

// SetTeams replaces the teams of a doubles category with hand picked pairs.
// Every player must be eligible and may appear in one pair only.
func (g *Generator) SetTeams(t *Tournament, categoryID string, pairs []TeamPair) ([]Team, error) {
	category, err := t.Category(categoryID)
	if err != nil {
		return nil, err
	}
	if !category.Doubles {
		return nil, xerrors.Errorf("teams for %s: %w", category.Name, ErrNotDoubles)
	}
	if len(t.CategoryMatches(categoryID, "")) > 0 {
		return nil, xerrors.Errorf("teams for %s: %w", category.Name, ErrMatchesExist)
	}

	used := map[string]bool{}
	player := func(id string) (Participant, error) {
		p, err := t.Participant(id)
		if err != nil {
			return Participant{}, err
		}
		if !category.Accepts(*p) {
			return Participant{}, xerrors.Errorf("%s in %s: %w", p.Name, category.Name, ErrNotEligible)
		}
		if used[id] {
			return Participant{}, xerrors.Errorf("%s: %w", p.Name, ErrDuplicateParticipant)
		}
		used[id] = true
		return *p, nil
	}

	teams := make([]Team, 0, len(pairs))
	for _, pair := range pairs {
		p1, err := player(pair.Player1ID)
		if err != nil {
			return nil, err
		}
		p2, err := player(pair.Player2ID)
		if err != nil {
			return nil, err
		}
		if category.Sex == SexMixed && p1.Sex == p2.Sex {
			return nil, xerrors.Errorf("%s and %s in %s: %w", p1.Name, p2.Name, category.Name, ErrNotEligible)
		}
		teams = append(teams, Team{
			ID:         g.NewID(),
			CategoryID: categoryID,
			Player1:    p1,
			Player2:    p2,
			Pot:        TeamPot(p1.Pot, p2.Pot),
		})
	}
	t.replaceTeams(categoryID, teams)
	t.UpdatedAt = g.Now()
	return teams, nil
}

// PairCategory runs automatic pairing for a doubles category and stores the
// result. An odd participant count fails and leaves the teams untouched.
func (g *Generator) PairCategory(t *Tournament, categoryID string, mode PairingMode) ([]Team, error) {
	category, err := t.Category(categoryID)
	if err != nil {
		return nil, err
	}
	if !category.Doubles {
		return nil, xerrors.Errorf("teams for %s: %w", category.Name, ErrNotDoubles)
	}
	if len(t.CategoryMatches(categoryID, "")) > 0 {
		return nil, xerrors.Errorf("teams for %s: %w", category.Name, ErrMatchesExist)
	}
	participants, err := t.EligibleParticipants(categoryID)
	if err != nil {
		return nil, err
	}
	teams, unpaired := g.BuildTeams(*category, participants, mode)
	if unpaired != nil {
		return nil, xerrors.Errorf("category %s, %s: %w", category.Name, unpaired.Name, ErrUnpairedParticipant)
	}
	t.replaceTeams(categoryID, teams)
	t.UpdatedAt = g.Now()
	return teams, nil
}

func (t *Tournament) replaceTeams(categoryID string, teams []Team) {
	kept := t.Teams[:0:0]
	for _, team := range t.Teams {
		if team.CategoryID != categoryID {
			kept = append(kept, team)
		}
	}
	t.Teams = append(kept, teams...)
}

// NewTournament creates a draft tournament. Categories without an id get one.
func (g *Generator) NewTournament(name, organizerEmail string, format Format, categories []Category) (*Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, xerrors.Errorf("tournament: %w", ErrMissingName)
	}
	switch format {
	case FormatSingleElimination, FormatRoundRobin, FormatMixed:
	default:
		return nil, xerrors.Errorf("format %q: %w", format, ErrWrongFormat)
	}
	if len(categories) == 0 {
		return nil, xerrors.Errorf("tournament %s: %w", name, ErrNoCategories)
	}

	cats := make([]Category, len(categories))
	for i, c := range categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, xerrors.Errorf("category %d: %w", i+1, ErrMissingName)
		}
		switch c.Sex {
		case "", SexMale, SexFemale, SexMixed:
		default:
			return nil, xerrors.Errorf("category %s sex %q: %w", c.Name, c.Sex, ErrInvalidSex)
		}
		if c.GroupCount > maxGroups {
			return nil, xerrors.Errorf("category %s, %d groups: %w", c.Name, c.GroupCount, ErrTooManyGroups)
		}
		if c.QualifiersPerGroup < 0 {
			return nil, xerrors.Errorf("category %s: %w", c.Name, ErrInvalidQualifiers)
		}
		if c.ID == "" {
			c.ID = g.NewID()
		}
		cats[i] = c
	}

	now := g.Now()
	return &Tournament{
		ID:             g.NewID(),
		Name:           name,
		OrganizerEmail: strings.TrimSpace(organizerEmail),
		Format:         format,
		Status:         StatusDraft,
		Categories:     cats,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
