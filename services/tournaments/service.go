package tournaments

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/nvbf/shuttle-club/pkg/metrics"
	"github.com/nvbf/shuttle-club/pkg/tournament"
	"github.com/nvbf/shuttle-club/repos/store"
)

// Notifier tells the organizer about milestones of a tournament.
type Notifier interface {
	KnockoutDrawn(ctx context.Context, t *tournament.Tournament, categoryID string) error
	TournamentCompleted(ctx context.Context, t *tournament.Tournament) error
}

type TournamentsService struct {
	repo      store.Repository
	generator *tournament.Generator
	notifier  Notifier
}

func NewTournamentsService(repo store.Repository, generator *tournament.Generator, notifier Notifier) *TournamentsService {
	return &TournamentsService{
		repo:      repo,
		generator: generator,
		notifier:  notifier,
	}
}

func (s *TournamentsService) Create(ctx context.Context, req CreateTournamentRequest) (*tournament.Tournament, error) {
	categories := make([]tournament.Category, len(req.Categories))
	for i, c := range req.Categories {
		categories[i] = c.category()
	}
	t, err := s.generator.NewTournament(req.Name, req.OrganizerEmail, req.Format, categories)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("tournament", t.ID).Str("format", string(t.Format)).Msg("tournament created")
	return t, nil
}

func (s *TournamentsService) List(ctx context.Context) ([]Summary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, len(all))
	for i, t := range all {
		summaries[i] = summarize(t)
	}
	return summaries, nil
}

func (s *TournamentsService) Get(ctx context.Context, id string) (*tournament.Tournament, error) {
	return s.repo.Get(ctx, id)
}

func (s *TournamentsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("tournament", id).Msg("tournament deleted")
	return nil
}

func (s *TournamentsService) SetStatus(ctx context.Context, id string, version int64, status tournament.Status) (*tournament.Tournament, error) {
	return s.repo.Update(ctx, id, version, func(t *tournament.Tournament) error {
		return tournament.SetStatus(t, status, s.generator.Now())
	})
}

// AddParticipants registers all players or none.
func (s *TournamentsService) AddParticipants(ctx context.Context, id string, version int64, reqs []ParticipantRequest) ([]tournament.Participant, error) {
	var added []tournament.Participant
	_, err := s.repo.Update(ctx, id, version, func(t *tournament.Tournament) error {
		added = added[:0]
		for _, r := range reqs {
			p, err := s.generator.AddParticipant(t, tournament.Participant{
				Name:       r.Name,
				MemberID:   r.MemberID,
				Pot:        tournament.Pot(r.Pot),
				Sex:        r.Sex,
				Categories: r.Categories,
			})
			if err != nil {
				return err
			}
			added = append(added, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *TournamentsService) RenameParticipant(ctx context.Context, id, participantID string, version int64, name string) (*tournament.Participant, error) {
	var renamed tournament.Participant
	_, err := s.repo.Update(ctx, id, version, func(t *tournament.Tournament) error {
		if err := tournament.RenameParticipant(t, participantID, name, s.generator.Now()); err != nil {
			return err
		}
		p, err := t.Participant(participantID)
		if err != nil {
			return err
		}
		renamed = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &renamed, nil
}

// BuildTeams stores hand picked teams when req.Teams is set, otherwise it
// pairs the eligible players automatically.
func (s *TournamentsService) BuildTeams(ctx context.Context, id, categoryID string, version int64, req TeamsRequest) ([]tournament.Team, error) {
	var teams []tournament.Team
	_, err := s.repo.Update(ctx, id, version, func(t *tournament.Tournament) error {
		var err error
		if len(req.Teams) > 0 {
			teams, err = s.generator.SetTeams(t, categoryID, req.Teams)
			return err
		}
		mode := req.Mode
		switch mode {
		case "":
			mode = tournament.PairingBalanced
		case tournament.PairingBalanced, tournament.PairingRandom:
		default:
			return xerrors.Errorf("pairing mode %q: %w", mode, tournament.ErrValidation)
		}
		teams, err = s.generator.PairCategory(t, categoryID, mode)
		return err
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// Generate draws one category, or all of them when categoryID is empty.
// Existing matches are only replaced with force.
func (s *TournamentsService) Generate(ctx context.Context, id, categoryID string, version int64, force bool) (*tournament.Tournament, error) {
	t, err := s.repo.Update(ctx, id, version, func(t *tournament.Tournament) error {
		if t.Status == tournament.StatusCompleted || t.Status == tournament.StatusCancelled {
			return xerrors.Errorf("generate in %s tournament: %w", t.Status, tournament.ErrInvalidTransition)
		}
		if categoryID == "" {
			return s.generator.GenerateAll(t, force)
		}
		return s.generator.GenerateCategory(t, categoryID, force)
	})
	if err != nil {
		return nil, err
	}

	generated := len(t.Matches)
	if categoryID != "" {
		generated = len(t.CategoryMatches(categoryID, ""))
	}
	metrics.MatchesGenerated.WithLabelValues(string(t.Format)).Add(float64(generated))
	log.Ctx(ctx).Info().
		Str("tournament", id).
		Str("category", categoryID).
		Bool("force", force).
		Int("matches", generated).
		Msg("matches generated")
	return t, nil
}

// PromoteKnockout draws the knockout bracket of a category from its groups.
// qualifiers of 0 uses the category setting.
func (s *TournamentsService) PromoteKnockout(ctx context.Context, id, categoryID string, version int64, qualifiers int, force bool) ([]tournament.Match, error) {
	var matches []tournament.Match
	t, err := s.repo.Update(ctx, id, version, func(t *tournament.Tournament) error {
		var err error
		matches, err = s.generator.PromoteKnockout(t, categoryID, qualifiers, force)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.KnockoutsPromoted.WithLabelValues("manual").Inc()
	log.Ctx(ctx).Info().Str("tournament", id).Str("category", categoryID).Int("matches", len(matches)).Msg("knockout drawn")
	notify(ctx, func(ctx context.Context) error {
		return s.notifier.KnockoutDrawn(ctx, t, categoryID)
	})
	return matches, nil
}

// Standings returns the groups of a category with fresh standings.
func (s *TournamentsService) Standings(ctx context.Context, id, categoryID string) ([]tournament.Group, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := t.Category(categoryID); err != nil {
		return nil, err
	}
	var groups []tournament.Group
	for _, g := range t.CategoryGroups(categoryID) {
		standings, err := tournament.ComputeStandings(*g, t.GroupMatches(g.ID))
		if err != nil {
			return nil, err
		}
		group := *g
		group.Standings = standings
		groups = append(groups, group)
	}
	return groups, nil
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
