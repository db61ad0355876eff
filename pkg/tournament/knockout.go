package tournament

import (
	"sort"

	"golang.org/x/xerrors"
)

// GroupStageComplete reports whether a category has group matches and all of
// them are finished. Cancelled matches count as finished since they will
// never produce a result.
func GroupStageComplete(t *Tournament, categoryID string) bool {
	matches := t.CategoryMatches(categoryID, StageGroup)
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		if !m.Finished() {
			return false
		}
	}
	return true
}

// HasKnockout reports whether the category already has elimination matches.
func HasKnockout(t *Tournament, categoryID string) bool {
	return len(t.CategoryMatches(categoryID, StageKnockout)) > 0
}

// PromoteKnockout builds the knockout bracket of a category out of the top
// qualifiersPerGroup finishers of every group. Qualifiers are seeded group
// winners first, then runners-up and so on, groups in name order, so that
// entrants of the same group are kept apart in the first round.
// A zero qualifiersPerGroup falls back to the category setting. An existing
// knockout stage is only replaced when force is set.
// The group stage counts as complete once every group match is completed or
// cancelled; a cancelled match adds nothing to the standings.
func (g *Generator) PromoteKnockout(t *Tournament, categoryID string, qualifiersPerGroup int, force bool) ([]Match, error) {
	category, err := t.Category(categoryID)
	if err != nil {
		return nil, err
	}
	groups := t.CategoryGroups(categoryID)
	if len(groups) == 0 {
		return nil, xerrors.Errorf("category %s has no groups: %w", category.Name, ErrWrongFormat)
	}
	if qualifiersPerGroup <= 0 {
		qualifiersPerGroup = category.QualifiersPerGroup
	}
	if qualifiersPerGroup <= 0 {
		return nil, xerrors.Errorf("category %s: %w", category.Name, ErrInvalidQualifiers)
	}
	if !GroupStageComplete(t, categoryID) {
		return nil, xerrors.Errorf("category %s: %w", category.Name, ErrGroupStageIncomplete)
	}
	if HasKnockout(t, categoryID) && !force {
		return nil, xerrors.Errorf("category %s: %w", category.Name, ErrKnockoutExist)
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })

	tables := make([][]Standing, len(groups))
	for i, group := range groups {
		standings, err := ComputeStandings(*group, t.GroupMatches(group.ID))
		if err != nil {
			return nil, err
		}
		tables[i] = standings
	}

	var qualifiers []Entrant
	for pos := 0; pos < qualifiersPerGroup; pos++ {
		for _, table := range tables {
			if pos < len(table) {
				qualifiers = append(qualifiers, table[pos].Entrant)
			}
		}
	}
	if len(qualifiers) < 2 {
		return nil, xerrors.Errorf("category %s knockout with %d: %w", category.Name, len(qualifiers), ErrNotEnoughEntrants)
	}

	matches, err := g.GenerateElimination(t.ID, categoryID, qualifiers)
	if err != nil {
		return nil, err
	}

	last := 0
	for _, m := range t.CategoryMatches(categoryID, StageGroup) {
		if m.Number > last {
			last = m.Number
		}
	}
	for i := range matches {
		matches[i].Number = last + i + 1
	}

	for i, group := range groups {
		group.Standings = tables[i]
	}
	kept := t.Matches[:0:0]
	for _, m := range t.Matches {
		if m.CategoryID == categoryID && m.Stage == StageKnockout {
			continue
		}
		kept = append(kept, m)
	}
	t.Matches = append(kept, matches...)
	t.UpdatedAt = g.Now()
	return matches, nil
}

// Champion returns the winner of a category: the winner of the final, or the
// leader of the only group when the category has no knockout stage. It is nil
// while undecided.
func Champion(t *Tournament, categoryID string) *Entrant {
	for _, m := range t.CategoryMatches(categoryID, StageKnockout) {
		if m.NextMatchID == "" {
			return m.Winner()
		}
	}
	groups := t.CategoryGroups(categoryID)
	if len(groups) != 1 || !GroupStageComplete(t, categoryID) || len(groups[0].Standings) == 0 {
		return nil
	}
	leader := groups[0].Standings[0].Entrant
	return &leader
}
