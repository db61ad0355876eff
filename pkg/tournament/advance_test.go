package tournament

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourEntrantBracket(t *testing.T) *Tournament {
	t.Helper()
	matches, err := testGenerator().GenerateElimination("t1", "ms", makeEntrants(1, 2, 3, 4))
	require.NoError(t, err)
	return &Tournament{
		ID:         "t1",
		Format:     FormatSingleElimination,
		Status:     StatusOngoing,
		Categories: []Category{{ID: "ms", Name: "Men's singles"}},
		Matches:    matches,
	}
}

func TestCompleteMatchAdvancesWinnersIntoFinal(t *testing.T) {
	tour := fourEntrantBracket(t)
	semi1, semi2, final := tour.Matches[0].ID, tour.Matches[1].ID, tour.Matches[2].ID

	m, err := CompleteMatch(tour, semi1, straightWin(true), testNow)
	require.NoError(t, err)
	assert.Equal(t, MatchCompleted, m.Status)
	assert.Equal(t, "e1", m.WinnerID)
	assert.Equal(t, "e1", m.Winner().ID)

	f, err := tour.Match(final)
	require.NoError(t, err)
	require.NotNil(t, f.Participant1)
	assert.Equal(t, "e1", f.Participant1.ID)
	assert.Nil(t, f.Participant2)

	_, err = CompleteMatch(tour, semi2, straightWin(false), testNow)
	require.NoError(t, err)

	f, _ = tour.Match(final)
	require.NotNil(t, f.Participant2)
	assert.Equal(t, "e3", f.Participant2.ID)
	assert.Equal(t, "F", f.Round)

	_, err = CompleteMatch(tour, final, []SetScore{{21, 19}, {18, 21}, {30, 29}}, testNow)
	require.NoError(t, err)
	f, _ = tour.Match(final)
	assert.Equal(t, "e1", f.WinnerID)

	assert.True(t, RefreshStatus(tour, testNow))
	assert.Equal(t, StatusCompleted, tour.Status)
}

func TestCompleteMatchRejectsInvalidScoreWithoutMutation(t *testing.T) {
	tour := fourEntrantBracket(t)
	before := tour.Clone()

	_, err := CompleteMatch(tour, tour.Matches[0].ID, []SetScore{{21, 20}, {21, 10}}, testNow)

	assert.ErrorIs(t, err, ErrInvalidScore)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, before, tour)
}

func TestCompleteMatchIsTerminal(t *testing.T) {
	tour := fourEntrantBracket(t)
	id := tour.Matches[0].ID

	_, err := CompleteMatch(tour, id, straightWin(true), testNow)
	require.NoError(t, err)

	_, err = CompleteMatch(tour, id, straightWin(false), testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = CancelMatch(tour, id, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteMatchOccupiedSlotIsConsistencyFault(t *testing.T) {
	tour := fourEntrantBracket(t)
	intruder := Entrant{ID: "x"}
	tour.Matches[2].Participant1 = &intruder
	before := tour.Clone()

	_, err := CompleteMatch(tour, tour.Matches[0].ID, straightWin(true), testNow)

	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.ErrorIs(t, err, ErrConsistency)
	assert.Equal(t, before, tour)
}

func TestCompleteMatchNeedsBothEntrants(t *testing.T) {
	tour := fourEntrantBracket(t)

	_, err := CompleteMatch(tour, tour.Matches[2].ID, straightWin(true), testNow)

	assert.ErrorIs(t, err, ErrMissingEntrant)
}

func TestCompleteMatchUnknownMatch(t *testing.T) {
	tour := fourEntrantBracket(t)

	_, err := CompleteMatch(tour, "missing", straightWin(true), testNow)

	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteGroupMatchRecomputesStandings(t *testing.T) {
	group, matches := threeWayGroup()
	for i := range matches {
		matches[i].Status = MatchScheduled
		matches[i].WinnerID = ""
		matches[i].Scores = nil
	}
	tour := &Tournament{Groups: []Group{group}, Matches: matches}

	_, err := CompleteMatch(tour, "m2", []SetScore{{21, 10}, {19, 21}, {21, 19}}, testNow)

	require.NoError(t, err)
	standings := tour.Groups[0].Standings
	require.Len(t, standings, 3)
	assert.Equal(t, "b", standings[0].Entrant.ID)
	assert.Equal(t, 2, standings[0].Points)
	assert.Equal(t, 61, standings[0].GamesWon)
	assert.Equal(t, 50, standings[0].GamesLost)
}

func TestStartAndCancelMatch(t *testing.T) {
	tour := fourEntrantBracket(t)
	id := tour.Matches[0].ID

	m, err := StartMatch(tour, id, testNow)
	require.NoError(t, err)
	assert.Equal(t, MatchOngoing, m.Status)

	_, err = StartMatch(tour, id, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	m, err = CancelMatch(tour, id, testNow)
	require.NoError(t, err)
	assert.Equal(t, MatchCancelled, m.Status)
	assert.Empty(t, m.WinnerID)
	assert.Nil(t, tour.Matches[2].Participant1)

	_, err = StartMatch(tour, tour.Matches[2].ID, testNow)
	assert.ErrorIs(t, err, ErrMissingEntrant)
}

func TestScheduleMatch(t *testing.T) {
	tour := fourEntrantBracket(t)
	id := tour.Matches[1].ID
	court := "3"
	at := time.Date(2026, 3, 14, 11, 30, 0, 0, time.FixedZone("CET", 3600))

	m, err := ScheduleMatch(tour, id, &court, &at, testNow)

	require.NoError(t, err)
	require.NotNil(t, m.Court)
	assert.Equal(t, "3", *m.Court)
	require.NotNil(t, m.ScheduledAt)
	assert.True(t, at.Equal(*m.ScheduledAt))
	assert.Equal(t, time.UTC, m.ScheduledAt.Location())

	m, err = ScheduleMatch(tour, id, nil, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, "3", *m.Court)
}

func TestRefreshStatusWaitsForAllMatches(t *testing.T) {
	tour := fourEntrantBracket(t)

	assert.False(t, RefreshStatus(tour, testNow))

	tour.Status = StatusDraft
	for i := range tour.Matches {
		tour.Matches[i].Status = MatchCancelled
	}
	assert.False(t, RefreshStatus(tour, testNow))
}

func TestCloneIsDeep(t *testing.T) {
	tour := fourEntrantBracket(t)
	clone := tour.Clone()

	_, err := CompleteMatch(clone, clone.Matches[0].ID, straightWin(true), testNow)
	require.NoError(t, err)

	assert.Equal(t, MatchScheduled, tour.Matches[0].Status)
	assert.Nil(t, tour.Matches[2].Participant1)
	assert.NotNil(t, clone.Matches[2].Participant1)
}
