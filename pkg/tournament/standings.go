package tournament

import (
	"sort"

	"golang.org/x/xerrors"
)

const pointsPerWin = 2

// ComputeStandings rebuilds a group table from scratch out of its completed
// matches. Rows are ranked by points, game difference and games won; a tie on
// all three keeps the order in which the entrants were drawn into the group.
func ComputeStandings(group Group, matches []Match) ([]Standing, error) {
	rows := emptyStandings(group.Entrants)
	index := make(map[string]*Standing, len(rows))
	for i := range rows {
		index[rows[i].Entrant.ID] = &rows[i]
	}

	for _, m := range matches {
		if m.GroupID != group.ID || m.Status != MatchCompleted {
			continue
		}
		if m.Participant1 == nil || m.Participant2 == nil {
			return nil, xerrors.Errorf("group %s match %s: %w", group.Name, m.ID, ErrMissingEntrant)
		}
		r1, ok1 := index[m.Participant1.ID]
		r2, ok2 := index[m.Participant2.ID]
		if !ok1 || !ok2 {
			return nil, xerrors.Errorf("group %s match %s: %w", group.Name, m.ID, ErrUnknownEntrant)
		}

		var winner, loser *Standing
		switch m.WinnerID {
		case m.Participant1.ID:
			winner, loser = r1, r2
		case m.Participant2.ID:
			winner, loser = r2, r1
		default:
			return nil, xerrors.Errorf("group %s match %s winner %q: %w", group.Name, m.ID, m.WinnerID, ErrWinnerMismatch)
		}

		r1.Played++
		r2.Played++
		winner.Won++
		loser.Lost++
		for _, s := range m.Scores {
			r1.GamesWon += s.P1
			r1.GamesLost += s.P2
			r2.GamesWon += s.P2
			r2.GamesLost += s.P1
		}
	}

	for i := range rows {
		rows[i].Points = pointsPerWin * rows[i].Won
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GameDifference() != b.GameDifference() {
			return a.GameDifference() > b.GameDifference()
		}
		return a.GamesWon > b.GamesWon
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// RecalculateGroup replaces the standings of one group with a full recompute.
func RecalculateGroup(t *Tournament, groupID string) error {
	group, err := t.Group(groupID)
	if err != nil {
		return err
	}
	standings, err := ComputeStandings(*group, t.GroupMatches(groupID))
	if err != nil {
		return err
	}
	group.Standings = standings
	return nil
}
