package store

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/xerrors"

	"github.com/nvbf/shuttle-club/pkg/tournament"
)

// Memory is a process local Repository for tests and for running without a
// Firebase project. Values are cloned on the way in and out.
type Memory struct {
	mu          sync.Mutex
	tournaments map[string]*tournament.Tournament
	events      map[string][]Event
}

func NewMemory() *Memory {
	return &Memory{
		tournaments: map[string]*tournament.Tournament{},
		events:      map[string][]Event{},
	}
}

func (m *Memory) Create(_ context.Context, t *tournament.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tournaments[t.ID]; ok {
		return xerrors.Errorf("tournament %s: %w", t.ID, tournament.ErrAlreadyExists)
	}
	t.Version = 1
	m.tournaments[t.ID] = t.Clone()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*tournament.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tournaments[id]
	if !ok {
		return nil, xerrors.Errorf("tournament %s: %w", id, tournament.ErrTournamentNotFound)
	}
	return t.Clone(), nil
}

func (m *Memory) List(_ context.Context) ([]*tournament.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*tournament.Tournament, 0, len(m.tournaments))
	for _, t := range m.tournaments {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tournaments[id]; !ok {
		return xerrors.Errorf("tournament %s: %w", id, tournament.ErrTournamentNotFound)
	}
	delete(m.tournaments, id)
	return nil
}

func (m *Memory) Update(_ context.Context, id string, expectedVersion int64, apply ApplyFunc) (*tournament.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tournaments[id]
	if !ok {
		return nil, xerrors.Errorf("tournament %s: %w", id, tournament.ErrTournamentNotFound)
	}
	if err := checkVersion(stored, expectedVersion); err != nil {
		return nil, err
	}
	t := stored.Clone()
	if err := apply(t); err != nil {
		return nil, err
	}
	t.Version++
	m.tournaments[id] = t.Clone()
	return t, nil
}

func (m *Memory) ScoreboardEvents(_ context.Context, matchID string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events[matchID]...), nil
}

// AddEvents appends to the scoreboard log of a match.
func (m *Memory) AddEvents(matchID string, events ...Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[matchID] = append(m.events[matchID], events...)
}
