// Package memory is the default PlayerStore of the reference service. State
// lives for the life of the process, like the original in-memory database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hongminglow/auth-smoke/internal/models"
	"github.com/hongminglow/auth-smoke/internal/storage"
)

var _ storage.PlayerStore = (*Store)(nil)

// Store keeps players in maps guarded by a single RWMutex.
type Store struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]models.User
	byNick  map[string]int64
	byEmail map[string]int64
	now     func() time.Time
}

// NewPlayerStore returns an empty store.
func NewPlayerStore() *Store {
	return &Store{
		nextID:  1,
		byID:    make(map[int64]models.User),
		byNick:  make(map[string]int64),
		byEmail: make(map[string]int64),
		now:     time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() {}

// CreatePlayer assigns the next id and stores the player.
func (s *Store) CreatePlayer(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byNick[user.Nick]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}

	user.ID = s.nextID
	user.CreatedAt = s.now().UTC()
	s.nextID++

	s.byID[user.ID] = user
	s.byNick[user.Nick] = user.ID
	s.byEmail[user.Email] = user.ID
	return user, nil
}

// FindByID fetches a player by id.
func (s *Store) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// FindByNick fetches a player by nick.
func (s *Store) FindByNick(ctx context.Context, nick string) (models.User, error) {
	return s.lookup(ctx, s.byNick, nick)
}

// FindByEmail fetches a player by email.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.lookup(ctx, s.byEmail, email)
}

// FindByIdentifier matches nick first, then email.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	user, err := s.FindByNick(ctx, identifier)
	if err == nil {
		return user, nil
	}
	return s.FindByEmail(ctx, identifier)
}

func (s *Store) lookup(_ context.Context, index map[string]int64, key string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return s.byID[id], nil
}
