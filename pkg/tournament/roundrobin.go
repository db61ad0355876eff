package tournament

import "fmt"

// GroupRound is the round label of the index-th match (1 based) of a group.
func GroupRound(groupName string, index int) string {
	return fmt.Sprintf("Group %s - %d", groupName, index)
}

// GenerateRoundRobin emits one scheduled match per unordered pair of group
// members, n*(n-1)/2 in total. Match numbers restart at 1 in every group;
// GenerateCategory renumbers them across the category.
func (g *Generator) GenerateRoundRobin(tournamentID string, group Group) []Match {
	n := len(group.Entrants)
	if n < 2 {
		return nil
	}
	now := g.Now()
	matches := make([]Match, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p1 := group.Entrants[i]
			p2 := group.Entrants[j]
			index := len(matches) + 1
			matches = append(matches, Match{
				ID:           g.newID(),
				TournamentID: tournamentID,
				CategoryID:   group.CategoryID,
				GroupID:      group.ID,
				Stage:        StageGroup,
				Round:        GroupRound(group.Name, index),
				Number:       index,
				Participant1: &p1,
				Participant2: &p2,
				Status:       MatchScheduled,
				UpdatedAt:    now,
			})
		}
	}
	return matches
}
