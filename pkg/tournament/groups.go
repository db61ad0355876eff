package tournament

import (
	"golang.org/x/xerrors"
)

const maxGroups = 26

// GroupName returns A for 0, B for 1 and so on.
func GroupName(i int) string {
	return string(rune('A' + i))
}

// DistributeToGroups snake drafts the entrants into groups: 0..n-1 then
// n-1..0 and again. Entrants are sorted strongest first; entrants sharing a
// pot are shuffled with the generator's random source when one is set.
// The group count is capped so that every group has at least two members.
func (g *Generator) DistributeToGroups(categoryID string, entrants []Entrant, groupCount int) ([]Group, error) {
	if len(entrants) < 2 {
		return nil, xerrors.Errorf("group draw with %d: %w", len(entrants), ErrNotEnoughEntrants)
	}
	if groupCount > maxGroups {
		return nil, xerrors.Errorf("%d groups, at most %d: %w", groupCount, maxGroups, ErrTooManyGroups)
	}
	if groupCount < 1 {
		groupCount = 1
	}
	if limit := len(entrants) / 2; groupCount > limit {
		groupCount = limit
	}

	sorted := g.shuffleWithinPots(SortByStrength(entrants))

	groups := make([]Group, groupCount)
	for i := range groups {
		groups[i] = Group{
			ID:         g.newID(),
			CategoryID: categoryID,
			Name:       GroupName(i),
		}
	}

	for i, e := range sorted {
		idx := snakeIndex(i, groupCount)
		groups[idx].Entrants = append(groups[idx].Entrants, e)
	}

	for i := range groups {
		groups[i].Standings = emptyStandings(groups[i].Entrants)
	}
	return groups, nil
}

// snakeIndex maps the i-th pick to its group: 0,1,2,2,1,0,0,1,2...
func snakeIndex(i, groupCount int) int {
	if groupCount <= 1 {
		return 0
	}
	pos := i % (2 * groupCount)
	if pos < groupCount {
		return pos
	}
	return 2*groupCount - 1 - pos
}

func (g *Generator) shuffleWithinPots(sorted []Entrant) []Entrant {
	if g.rand == nil {
		return sorted
	}
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].Pot == sorted[start].Pot {
			end++
		}
		run := sorted[start:end]
		g.shuffle(len(run), func(i, j int) { run[i], run[j] = run[j], run[i] })
		start = end
	}
	return sorted
}

func emptyStandings(entrants []Entrant) []Standing {
	standings := make([]Standing, len(entrants))
	for i, e := range entrants {
		standings[i] = Standing{Entrant: e, Rank: i + 1}
	}
	return standings
}
