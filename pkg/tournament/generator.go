package tournament

import (
	"math/rand"
	"sync"
	"time"

	"github.com/samborkent/uuidv7"
	"golang.org/x/xerrors"
)

// Generator builds teams, groups and matches. The zero value is not usable,
// create one with NewGenerator. A Generator is safe for concurrent use as
// long as the id and clock functions are.
type Generator struct {
	newID func() string
	now   func() time.Time

	mu   sync.Mutex // guards rand
	rand *rand.Rand
}

type Option func(*Generator)

// WithIDs replaces the uuidv7 id source, tests use a counter.
func WithIDs(newID func() string) Option {
	return func(g *Generator) {
		g.newID = newID
	}
}

// WithRand sets the source used for random pairing and for shuffling equal
// pots before the group draw. A nil source disables the shuffle.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		newID: func() string { return uuidv7.New().String() },
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// shuffle permutes n elements with the generator source. It reports false
// when the generator has no source.
func (g *Generator) shuffle(n int, swap func(i, j int)) bool {
	if g.rand == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rand.Shuffle(n, swap)
	return true
}

func (g *Generator) NewID() string {
	return g.newID()
}

func (g *Generator) Now() time.Time {
	return g.now().UTC()
}

// GenerateCategory draws one category: teams for doubles, then either an
// elimination bracket or round-robin groups depending on the tournament format.
// Existing matches of the category are only replaced when force is set.
func (g *Generator) GenerateCategory(t *Tournament, categoryID string, force bool) error {
	category, err := t.Category(categoryID)
	if err != nil {
		return err
	}
	if len(t.CategoryMatches(categoryID, "")) > 0 && !force {
		return xerrors.Errorf("category %s: %w", category.Name, ErrMatchesExist)
	}

	entrants, teams, err := g.categoryEntrants(t, *category)
	if err != nil {
		return err
	}
	if len(entrants) < 2 {
		return xerrors.Errorf("category %s has %d: %w", category.Name, len(entrants), ErrNotEnoughEntrants)
	}

	var groups []Group
	var matches []Match
	switch t.Format {
	case FormatSingleElimination:
		matches, err = g.GenerateElimination(t.ID, categoryID, SortByStrength(entrants))
	case FormatRoundRobin, FormatMixed:
		groupCount := category.GroupCount
		if groupCount < 1 {
			groupCount = 1
		}
		groups, err = g.DistributeToGroups(categoryID, entrants, groupCount)
		if err != nil {
			break
		}
		for i := range groups {
			matches = append(matches, g.GenerateRoundRobin(t.ID, groups[i])...)
		}
		for i := range matches {
			matches[i].Number = i + 1
		}
	default:
		err = xerrors.Errorf("format %q: %w", t.Format, ErrWrongFormat)
	}
	if err != nil {
		return err
	}

	t.replaceCategory(categoryID, teams, groups, matches)
	t.Status = StatusOngoing
	t.UpdatedAt = g.Now()
	return nil
}

// GenerateAll draws every category. It stops at the first failing category,
// callers apply it to a clone.
func (g *Generator) GenerateAll(t *Tournament, force bool) error {
	for _, c := range t.Categories {
		if err := g.GenerateCategory(t, c.ID, force); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) categoryEntrants(t *Tournament, category Category) ([]Entrant, []Team, error) {
	if !category.Doubles {
		participants, err := t.EligibleParticipants(category.ID)
		if err != nil {
			return nil, nil, err
		}
		entrants := make([]Entrant, len(participants))
		for i, p := range participants {
			entrants[i] = p.Entrant()
		}
		return entrants, nil, nil
	}

	// Teams formed by hand take precedence over automatic pairing.
	teams := t.CategoryTeams(category.ID)
	if len(teams) == 0 {
		participants, err := t.EligibleParticipants(category.ID)
		if err != nil {
			return nil, nil, err
		}
		var unpaired *Participant
		teams, unpaired = g.BuildTeams(category, participants, PairingBalanced)
		if unpaired != nil {
			return nil, nil, xerrors.Errorf("category %s, %s: %w", category.Name, unpaired.Name, ErrUnpairedParticipant)
		}
	}
	entrants := make([]Entrant, len(teams))
	for i, team := range teams {
		entrants[i] = team.Entrant()
	}
	return entrants, teams, nil
}

func (t *Tournament) replaceCategory(categoryID string, teams []Team, groups []Group, matches []Match) {
	keptMatches := t.Matches[:0:0]
	for _, m := range t.Matches {
		if m.CategoryID != categoryID {
			keptMatches = append(keptMatches, m)
		}
	}
	t.Matches = append(keptMatches, matches...)

	keptGroups := t.Groups[:0:0]
	for _, gr := range t.Groups {
		if gr.CategoryID != categoryID {
			keptGroups = append(keptGroups, gr)
		}
	}
	t.Groups = append(keptGroups, groups...)

	if teams != nil {
		t.replaceTeams(categoryID, teams)
	}
}
