package stats

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nvbf/shuttle-club/pkg/tournament"
	"github.com/nvbf/shuttle-club/repos/store"
)

type StatsService struct {
	repo     store.Repository
	location *time.Location
	now      func() time.Time
}

func NewStatsService(repo store.Repository, location *time.Location, now func() time.Time) *StatsService {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &StatsService{
		repo:     repo,
		location: location,
		now:      now,
	}
}

// GetStats returns match progress for every tournament, oldest first.
func (s *StatsService) GetStats(ctx context.Context) ([]*TournamentStats, *Totals, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	today := s.now()
	tournaments := make([]*TournamentStats, 0, len(all))
	for _, t := range all {
		tournaments = append(tournaments, s.tournamentStats(t, today, false))
	}
	sort.Slice(tournaments, func(i, j int) bool {
		return tournaments[i].CreatedAt.Before(tournaments[j].CreatedAt)
	})

	totals := &Totals{Tournaments: len(tournaments)}
	for _, v := range tournaments {
		switch v.Status {
		case tournament.StatusOngoing:
			totals.TournamentsOngoing++
		case tournament.StatusCompleted:
			totals.TournamentsCompleted++
		}
		totals.Matches.merge(v.Progress)
	}

	log.Ctx(ctx).Debug().
		Int("tournaments", totals.Tournaments).
		Int("matches", totals.Matches.NumberOfMatches).
		Int("completed", totals.Matches.Completed).
		Msg("stats collected")
	return tournaments, totals, nil
}

// GetTournamentStats returns the progress of one tournament per category.
func (s *StatsService) GetTournamentStats(ctx context.Context, id string) (*TournamentStats, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.tournamentStats(t, s.now(), true), nil
}

func (s *StatsService) tournamentStats(t *tournament.Tournament, today time.Time, perCategory bool) *TournamentStats {
	stats := &TournamentStats{
		ID:        t.ID,
		Name:      t.Name,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
	for _, m := range t.Matches {
		stats.Progress.add(m, today, s.location)
	}
	if !perCategory {
		return stats
	}
	for _, c := range t.Categories {
		category := CategoryStats{ID: c.ID, Name: c.Name, Champion: tournament.Champion(t, c.ID)}
		for _, m := range t.CategoryMatches(c.ID, "") {
			category.Progress.add(*m, today, s.location)
		}
		stats.Categories = append(stats.Categories, category)
	}
	return stats
}
