package matches

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nvbf/shuttle-club/pkg/metrics"
	"github.com/nvbf/shuttle-club/pkg/tournament"
	"github.com/nvbf/shuttle-club/repos/store"
)

// Notifier tells the organizer about milestones of a tournament.
type Notifier interface {
	KnockoutDrawn(ctx context.Context, t *tournament.Tournament, categoryID string) error
	TournamentCompleted(ctx context.Context, t *tournament.Tournament) error
}

type MatchesService struct {
	repo      store.Repository
	generator *tournament.Generator
	notifier  Notifier
}

func NewMatchesService(repo store.Repository, generator *tournament.Generator, notifier Notifier) *MatchesService {
	return &MatchesService{
		repo:      repo,
		generator: generator,
		notifier:  notifier,
	}
}

// outcome collects what a match update triggered besides the match itself.
type outcome struct {
	match     tournament.Match
	knockout  bool
	completed bool
}

func (s *MatchesService) ReportResult(ctx context.Context, tournamentID, matchID string, version int64, sets []tournament.SetScore) (*tournament.Match, error) {
	return s.update(ctx, tournamentID, version, func(t *tournament.Tournament, now time.Time) (*tournament.Match, error) {
		return tournament.CompleteMatch(t, matchID, sets, now)
	})
}

// ReportFromScoreboard records the result kept by the live scoreboard of the
// match.
func (s *MatchesService) ReportFromScoreboard(ctx context.Context, tournamentID, matchID, userID string, version int64) (*tournament.Match, error) {
	events, err := s.repo.ScoreboardEvents(ctx, matchID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	for _, event := range events {
		if event.Author != "" && event.Author != userID {
			log.Ctx(ctx).Warn().Str("match", matchID).Str("author", event.Author).Str("user", userID).Msg("scoreboard kept by another user")
			break
		}
	}

	sets := processEvents(events)
	log.Ctx(ctx).Debug().Str("match", matchID).Int("events", len(events)).Interface("sets", sets).Msg("scoreboard folded")
	return s.ReportResult(ctx, tournamentID, matchID, version, sets)
}

func (s *MatchesService) Start(ctx context.Context, tournamentID, matchID string, version int64) (*tournament.Match, error) {
	return s.update(ctx, tournamentID, version, func(t *tournament.Tournament, now time.Time) (*tournament.Match, error) {
		return tournament.StartMatch(t, matchID, now)
	})
}

func (s *MatchesService) Cancel(ctx context.Context, tournamentID, matchID string, version int64) (*tournament.Match, error) {
	return s.update(ctx, tournamentID, version, func(t *tournament.Tournament, now time.Time) (*tournament.Match, error) {
		return tournament.CancelMatch(t, matchID, now)
	})
}

func (s *MatchesService) Schedule(ctx context.Context, tournamentID, matchID string, version int64, court *string, at *time.Time) (*tournament.Match, error) {
	return s.update(ctx, tournamentID, version, func(t *tournament.Tournament, now time.Time) (*tournament.Match, error) {
		return tournament.ScheduleMatch(t, matchID, court, at, now)
	})
}

// update applies a match operation and what follows from it: the knockout
// draw once a group stage with qualifiers finishes, and the tournament status.
func (s *MatchesService) update(ctx context.Context, tournamentID string, version int64, apply func(*tournament.Tournament, time.Time) (*tournament.Match, error)) (*tournament.Match, error) {
	logger := log.Ctx(ctx).With().Str("tournament", tournamentID).Logger()
	var out outcome
	t, err := s.repo.Update(ctx, tournamentID, version, func(t *tournament.Tournament) error {
		out = outcome{}
		now := s.generator.Now()
		m, err := apply(t, now)
		if err != nil {
			return err
		}
		out.match = *m

		if m.Stage == tournament.StageGroup && m.Finished() && s.shouldPromote(t, m.CategoryID) {
			if _, err := s.generator.PromoteKnockout(t, m.CategoryID, 0, false); err != nil {
				logger.Warn().Err(err).Str("category", m.CategoryID).Msg("knockout not drawn")
			} else {
				out.knockout = true
			}
		}
		out.completed = tournament.RefreshStatus(t, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m := out.match
	logger.Info().Str("match", m.ID).Str("status", string(m.Status)).Str("winner", m.WinnerID).Msg("match updated")
	if m.Status == tournament.MatchCompleted {
		metrics.ResultsRecorded.WithLabelValues(string(m.Stage)).Inc()
	}
	if out.knockout {
		metrics.KnockoutsPromoted.WithLabelValues("auto").Inc()
		logger.Info().Str("category", m.CategoryID).Msg("knockout drawn")
		notify(ctx, func(ctx context.Context) error {
			return s.notifier.KnockoutDrawn(ctx, t, m.CategoryID)
		})
	}
	if out.completed {
		metrics.TournamentsCompleted.Inc()
		logger.Info().Msg("tournament completed")
		notify(ctx, func(ctx context.Context) error {
			return s.notifier.TournamentCompleted(ctx, t)
		})
	}
	return &m, nil
}

func (s *MatchesService) shouldPromote(t *tournament.Tournament, categoryID string) bool {
	if t.Format != tournament.FormatMixed {
		return false
	}
	category, err := t.Category(categoryID)
	if err != nil || category.QualifiersPerGroup <= 0 {
		return false
	}
	return tournament.GroupStageComplete(t, categoryID) && !tournament.HasKnockout(t, categoryID)
}

// notify runs a mail outside the request lifetime. Failures are logged only.
func notify(ctx context.Context, send func(ctx context.Context) error) {
	logger := log.Ctx(ctx)
	ctx = logger.WithContext(context.Background())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			metrics.NotificationErrors.Inc()
			logger.Error().Err(err).Msg("failed to notify organizer")
		}
	}()
}
