package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"golang.org/x/xerrors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nvbf/shuttle-club/pkg/tournament"
)

// ErrConflict is returned when the stored version differs from the one the
// caller last read.
var ErrConflict = errors.New("tournament was changed by someone else")

const (
	tournamentsCollection = "Tournaments"
	matchesCollection     = "Matches"
	eventsCollection      = "events"
)

// ApplyFunc changes a freshly loaded tournament. Returning an error discards
// the change.
type ApplyFunc func(t *tournament.Tournament) error

// Repository is the persistence the services need. An expected version of 0
// skips the version check.
type Repository interface {
	Create(ctx context.Context, t *tournament.Tournament) error
	Get(ctx context.Context, id string) (*tournament.Tournament, error)
	List(ctx context.Context) ([]*tournament.Tournament, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, expectedVersion int64, apply ApplyFunc) (*tournament.Tournament, error)
	ScoreboardEvents(ctx context.Context, matchID string) ([]Event, error)
}

var (
	_ Repository = (*Store)(nil)
	_ Repository = (*Memory)(nil)
)

// Store keeps every tournament as one Firestore document.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) doc(id string) *firestore.DocumentRef {
	return s.client.Collection(tournamentsCollection).Doc(id)
}

func (s *Store) Create(ctx context.Context, t *tournament.Tournament) error {
	t.Version = 1
	_, err := s.doc(t.ID).Create(ctx, t)
	if status.Code(err) == codes.AlreadyExists {
		return xerrors.Errorf("tournament %s: %w", t.ID, tournament.ErrAlreadyExists)
	}
	if err != nil {
		return xerrors.Errorf("create tournament %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*tournament.Tournament, error) {
	doc, err := s.doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(id, err)
	}
	return docToTournament(doc)
}

// List returns all tournaments, newest first.
func (s *Store) List(ctx context.Context) ([]*tournament.Tournament, error) {
	iter := s.client.Collection(tournamentsCollection).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var tournaments []*tournament.Tournament
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, xerrors.Errorf("list tournaments: %w", err)
		}
		t, err := docToTournament(doc)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		return notFound(id, err)
	}
	return nil
}

// Update runs apply inside a transaction and writes the result back with the
// version incremented. Firestore retries the transaction on contention, apply
// then sees the newer document.
func (s *Store) Update(ctx context.Context, id string, expectedVersion int64, apply ApplyFunc) (*tournament.Tournament, error) {
	ref := s.doc(id)
	var updated *tournament.Tournament
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return notFound(id, err)
		}
		t, err := docToTournament(doc)
		if err != nil {
			return err
		}
		if err := checkVersion(t, expectedVersion); err != nil {
			return err
		}
		if err := apply(t); err != nil {
			return err
		}
		t.Version++
		updated = t
		return tx.Set(ref, t)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ScoreboardEvents reads the event log the live scoreboard writes for a match.
func (s *Store) ScoreboardEvents(ctx context.Context, matchID string) ([]Event, error) {
	iter := s.client.Collection(matchesCollection).Doc(matchID).Collection(eventsCollection).Documents(ctx)
	defer iter.Stop()

	var events []Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, xerrors.Errorf("events of match %s: %w", matchID, err)
		}
		var event Event
		if err := doc.DataTo(&event); err != nil {
			return nil, fmt.Errorf("consistency error. Converting %s to event failed: %w", doc.Ref.ID, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func checkVersion(t *tournament.Tournament, expected int64) error {
	if expected != 0 && t.Version != expected {
		return xerrors.Errorf("tournament %s at version %d, expected %d: %w", t.ID, t.Version, expected, ErrConflict)
	}
	return nil
}

func notFound(id string, err error) error {
	if status.Code(err) == codes.NotFound {
		return xerrors.Errorf("tournament %s: %w", id, tournament.ErrTournamentNotFound)
	}
	return xerrors.Errorf("tournament %s: %w", id, err)
}

func docToTournament(doc *firestore.DocumentSnapshot) (*tournament.Tournament, error) {
	var t tournament.Tournament
	if err := doc.DataTo(&t); err != nil {
		// We control both the data written to Firestore and the struct, so a
		// failure here is an inconsistency.
		return nil, fmt.Errorf(
			"consistency error. Converting %s to tournament failed: %w",
			doc.Ref.ID,
			err,
		)
	}
	return &t, nil
}
