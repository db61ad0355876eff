package matches

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvbf/shuttle-club/pkg/tournament"
	"github.com/nvbf/shuttle-club/repos/store"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

var straightWin = []tournament.SetScore{{P1: 21, P2: 10}, {P1: 21, P2: 12}}

type fakeNotifier struct {
	knockouts chan string
	completed chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{knockouts: make(chan string, 8), completed: make(chan string, 8)}
}

func (f *fakeNotifier) KnockoutDrawn(_ context.Context, t *tournament.Tournament, categoryID string) error {
	f.knockouts <- t.ID + "/" + categoryID
	return nil
}

func (f *fakeNotifier) TournamentCompleted(_ context.Context, t *tournament.Tournament) error {
	f.completed <- t.ID
	return nil
}

type fixture struct {
	service    *MatchesService
	repo       *store.Memory
	notifier   *fakeNotifier
	tournament *tournament.Tournament
}

// newFixture stores a drawn mixed tournament: four players in two groups of
// two, the group winners meet in the final.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	n := 0
	generator := tournament.NewGenerator(
		tournament.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		tournament.WithRand(nil),
		tournament.WithClock(func() time.Time { return testNow }),
	)

	tour, err := generator.NewTournament("Club championship", "org@club.no", tournament.FormatMixed, []tournament.Category{
		{ID: "ms", Name: "Men's singles", Sex: tournament.SexMale, GroupCount: 2, QualifiersPerGroup: 1},
	})
	require.NoError(t, err)
	for i, pot := range []tournament.Pot{1, 1, 2, 2} {
		_, err := generator.AddParticipant(tour, tournament.Participant{
			Name:       fmt.Sprintf("Player %d", i+1),
			Pot:        pot,
			Sex:        tournament.SexMale,
			Categories: []string{"ms"},
		})
		require.NoError(t, err)
	}
	require.NoError(t, generator.GenerateAll(tour, false))

	repo := store.NewMemory()
	require.NoError(t, repo.Create(context.Background(), tour))
	notifier := newFakeNotifier()
	return &fixture{
		service:    NewMatchesService(repo, generator, notifier),
		repo:       repo,
		notifier:   notifier,
		tournament: tour,
	}
}

func (f *fixture) groupMatches() []*tournament.Match {
	return f.tournament.CategoryMatches("ms", tournament.StageGroup)
}

func (f *fixture) get(t *testing.T) *tournament.Tournament {
	t.Helper()
	got, err := f.repo.Get(context.Background(), f.tournament.ID)
	require.NoError(t, err)
	return got
}

func receive(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case got := <-ch:
		return got
	case <-time.After(time.Second):
		t.Fatal("organizer was not notified")
		return ""
	}
}

func TestReportResultPromotesAndCompletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	groupMatches := f.groupMatches()
	require.Len(t, groupMatches, 2)

	m, err := f.service.ReportResult(ctx, f.tournament.ID, groupMatches[0].ID, 0, straightWin)
	require.NoError(t, err)
	assert.Equal(t, tournament.MatchCompleted, m.Status)
	assert.Equal(t, groupMatches[0].Participant1.ID, m.WinnerID)
	assert.False(t, tournament.HasKnockout(f.get(t), "ms"))

	_, err = f.service.ReportResult(ctx, f.tournament.ID, groupMatches[1].ID, 0, straightWin)
	require.NoError(t, err)
	assert.Equal(t, f.tournament.ID+"/ms", receive(t, f.notifier.knockouts))

	got := f.get(t)
	final := got.CategoryMatches("ms", tournament.StageKnockout)
	require.Len(t, final, 1)
	assert.Equal(t, 3, final[0].Number)
	require.NotNil(t, final[0].Participant1)
	require.NotNil(t, final[0].Participant2)
	assert.Equal(t, tournament.StatusOngoing, got.Status)

	_, err = f.service.ReportResult(ctx, f.tournament.ID, final[0].ID, got.Version, straightWin)
	require.NoError(t, err)
	assert.Equal(t, f.tournament.ID, receive(t, f.notifier.completed))
	assert.Equal(t, tournament.StatusCompleted, f.get(t).Status)
}

func TestReportResultRejectsInvalidScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.get(t)

	_, err := f.service.ReportResult(ctx, f.tournament.ID, f.groupMatches()[0].ID, 0, []tournament.SetScore{{P1: 21, P2: 20}, {P1: 21, P2: 10}})

	assert.ErrorIs(t, err, tournament.ErrInvalidScore)
	assert.Equal(t, before, f.get(t))
}

func TestReportResultVersionConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReportResult(context.Background(), f.tournament.ID, f.groupMatches()[0].ID, 7, straightWin)

	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestReportResultUnknownMatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReportResult(context.Background(), f.tournament.ID, "nope", 0, straightWin)

	assert.ErrorIs(t, err, tournament.ErrMatchNotFound)
}

func TestReportFromScoreboard(t *testing.T) {
	f := newFixture(t)
	matchID := f.groupMatches()[0].ID

	var events []store.Event
	ts := int64(1)
	score := func(team string, count int) {
		for i := 0; i < count; i++ {
			events = append(events, store.Event{ID: fmt.Sprintf("e%d", ts), EventType: store.EventScore, Team: team, Timestamp: ts, Author: "referee"})
			ts++
		}
	}
	score(store.TeamAway, 21)
	score(store.TeamHome, 15)
	events = append(events, store.Event{ID: "set1", EventType: store.EventSetFinalized, Timestamp: ts})
	ts++
	score(store.TeamAway, 21)
	score(store.TeamHome, 19)
	events = append(events, store.Event{ID: "end", EventType: store.EventMatchFinalized, Timestamp: ts})
	// Delivered out of order.
	events[0], events[len(events)-1] = events[len(events)-1], events[0]
	f.repo.AddEvents(matchID, events...)

	m, err := f.service.ReportFromScoreboard(context.Background(), f.tournament.ID, matchID, "referee", 0)

	require.NoError(t, err)
	assert.Equal(t, []tournament.SetScore{{P1: 15, P2: 21}, {P1: 19, P2: 21}}, m.Scores)
	assert.Equal(t, f.groupMatches()[0].Participant2.ID, m.WinnerID)
}

func TestReportFromEmptyScoreboard(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReportFromScoreboard(context.Background(), f.tournament.ID, f.groupMatches()[0].ID, "referee", 0)

	assert.ErrorIs(t, err, tournament.ErrValidation)
}

func TestStartScheduleCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	matchID := f.groupMatches()[0].ID
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	court := "Court 2"

	m, err := f.service.Schedule(ctx, f.tournament.ID, matchID, 0, &court, &at)
	require.NoError(t, err)
	assert.Equal(t, "Court 2", *m.Court)
	assert.True(t, at.Equal(*m.ScheduledAt))

	m, err = f.service.Start(ctx, f.tournament.ID, matchID, 0)
	require.NoError(t, err)
	assert.Equal(t, tournament.MatchOngoing, m.Status)

	_, err = f.service.Start(ctx, f.tournament.ID, matchID, 0)
	assert.ErrorIs(t, err, tournament.ErrInvalidTransition)

	m, err = f.service.Cancel(ctx, f.tournament.ID, matchID, 0)
	require.NoError(t, err)
	assert.Equal(t, tournament.MatchCancelled, m.Status)

	_, err = f.service.Schedule(ctx, f.tournament.ID, matchID, 0, &court, nil)
	assert.ErrorIs(t, err, tournament.ErrInvalidTransition)
}

func TestCancelLastGroupMatchPromotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	groupMatches := f.groupMatches()

	_, err := f.service.ReportResult(ctx, f.tournament.ID, groupMatches[0].ID, 0, straightWin)
	require.NoError(t, err)
	_, err = f.service.Cancel(ctx, f.tournament.ID, groupMatches[1].ID, 0)
	require.NoError(t, err)

	assert.Equal(t, f.tournament.ID+"/ms", receive(t, f.notifier.knockouts))
	assert.True(t, tournament.HasKnockout(f.get(t), "ms"))
}
