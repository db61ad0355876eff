package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCategorySingleElimination(t *testing.T) {
	g := testGenerator()
	tour := &Tournament{
		ID:           "t1",
		Format:       FormatSingleElimination,
		Status:       StatusRegistration,
		Categories:   []Category{{ID: "ms", Name: "Men's singles"}},
		Participants: makeParticipants("ms", 4, 1, 3, 2),
	}

	require.NoError(t, g.GenerateCategory(tour, "ms", false))

	assert.Equal(t, StatusOngoing, tour.Status)
	assert.Equal(t, testNow, tour.UpdatedAt)
	assert.Empty(t, tour.Groups)
	require.Len(t, tour.Matches, 3)
	// sorted by pot before seeding: p2 (1) v p1 (4), p4 (2) v p3 (3)
	assert.Equal(t, "p2", tour.Matches[0].Participant1.ID)
	assert.Equal(t, "p1", tour.Matches[0].Participant2.ID)
	assert.Equal(t, "p4", tour.Matches[1].Participant1.ID)
	assert.Equal(t, "p3", tour.Matches[1].Participant2.ID)
	for _, m := range tour.Matches {
		assert.Equal(t, "t1", m.TournamentID)
		assert.Equal(t, "ms", m.CategoryID)
	}
}

func TestGenerateCategoryRequiresForce(t *testing.T) {
	g := testGenerator()
	tour := &Tournament{
		ID:           "t1",
		Format:       FormatSingleElimination,
		Categories:   []Category{{ID: "ms", Name: "Men's singles"}},
		Participants: makeParticipants("ms", 1, 2, 3, 4),
	}
	require.NoError(t, g.GenerateCategory(tour, "ms", false))
	first := tour.Matches[0].ID

	err := g.GenerateCategory(tour, "ms", false)
	assert.ErrorIs(t, err, ErrMatchesExist)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, first, tour.Matches[0].ID)

	require.NoError(t, g.GenerateCategory(tour, "ms", true))
	assert.Len(t, tour.Matches, 3)
	assert.NotEqual(t, first, tour.Matches[0].ID)
}

func TestGenerateCategoryRoundRobinNumbersAcrossGroups(t *testing.T) {
	g := testGenerator()
	tour := &Tournament{
		ID:           "t1",
		Format:       FormatRoundRobin,
		Categories:   []Category{{ID: "ws", Name: "Women's singles", Sex: SexFemale, GroupCount: 2}},
		Participants: makeParticipants("ws", 1, 2, 3, 4, 5, 1),
	}
	for i := range tour.Participants {
		tour.Participants[i].Sex = SexFemale
	}

	require.NoError(t, g.GenerateCategory(tour, "ws", false))

	require.Len(t, tour.Groups, 2)
	require.Len(t, tour.Matches, 6)
	for i, m := range tour.Matches {
		assert.Equal(t, i+1, m.Number)
		assert.Equal(t, StageGroup, m.Stage)
	}
	assert.Equal(t, "Group A - 1", tour.Matches[0].Round)
	assert.Equal(t, "Group B - 1", tour.Matches[3].Round)
}

func TestGenerateCategoryDoublesBuildsTeams(t *testing.T) {
	g := testGenerator()
	tour := &Tournament{
		ID:           "t1",
		Format:       FormatSingleElimination,
		Categories:   []Category{{ID: "md", Name: "Men's doubles", Doubles: true, Sex: SexMale}},
		Participants: makeParticipants("md", 1, 2, 4, 5),
	}

	require.NoError(t, g.GenerateCategory(tour, "md", false))

	require.Len(t, tour.Teams, 2)
	require.Len(t, tour.Matches, 1)
	final := tour.Matches[0]
	assert.Equal(t, KindTeam, final.Participant1.Kind)
	assert.Equal(t, KindTeam, final.Participant2.Kind)
	assert.Contains(t, final.Participant1.Name, " / ")
}

func TestGenerateCategoryDoublesOddCount(t *testing.T) {
	g := testGenerator()
	tour := &Tournament{
		ID:           "t1",
		Format:       FormatSingleElimination,
		Categories:   []Category{{ID: "md", Name: "Men's doubles", Doubles: true}},
		Participants: makeParticipants("md", 1, 2, 3, 4, 5),
	}

	err := g.GenerateCategory(tour, "md", false)

	assert.ErrorIs(t, err, ErrUnpairedParticipant)
	assert.Empty(t, tour.Teams)
	assert.Empty(t, tour.Matches)
}

func TestGenerateCategoryUsesManualTeams(t *testing.T) {
	g := testGenerator()
	players := makeParticipants("md", 1, 1, 5, 5)
	tour := &Tournament{
		ID:           "t1",
		Format:       FormatSingleElimination,
		Categories:   []Category{{ID: "md", Name: "Men's doubles", Doubles: true}},
		Participants: players,
		Teams: []Team{
			{ID: "strong", CategoryID: "md", Player1: players[0], Player2: players[1], Pot: 1},
			{ID: "weak", CategoryID: "md", Player1: players[2], Player2: players[3], Pot: 5},
		},
	}

	require.NoError(t, g.GenerateCategory(tour, "md", false))

	require.Len(t, tour.Matches, 1)
	assert.Equal(t, "strong", tour.Matches[0].Participant1.ID)
	assert.Equal(t, "weak", tour.Matches[0].Participant2.ID)
	assert.Equal(t, []string{"strong", "weak"}, []string{tour.Teams[0].ID, tour.Teams[1].ID})
}

func TestGenerateCategoryEligibility(t *testing.T) {
	g := testGenerator()
	tour := &Tournament{
		ID:     "t1",
		Format: FormatSingleElimination,
		Categories: []Category{
			{ID: "ws", Name: "Women's singles", Sex: SexFemale},
		},
		Participants: makeParticipants("ws", 1, 2, 3),
	}

	err := g.GenerateCategory(tour, "ws", false)
	assert.ErrorIs(t, err, ErrNotEnoughEntrants)

	err = g.GenerateCategory(tour, "xd", false)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateAll(t *testing.T) {
	g := testGenerator()
	participants := makeParticipants("ms", 1, 2, 3, 4)
	for i := range participants {
		participants[i].Categories = append(participants[i].Categories, "md")
	}
	tour := &Tournament{
		ID:     "t1",
		Format: FormatSingleElimination,
		Categories: []Category{
			{ID: "ms", Name: "Men's singles"},
			{ID: "md", Name: "Men's doubles", Doubles: true},
		},
		Participants: participants,
	}

	require.NoError(t, g.GenerateAll(tour, false))

	assert.Len(t, tour.CategoryMatches("ms", ""), 3)
	assert.Len(t, tour.CategoryMatches("md", ""), 1)
	assert.Len(t, tour.CategoryTeams("md"), 2)
}
