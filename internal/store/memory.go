// internal/store/memory.go
//
// In-memory session store for active matching games.
//
// Characteristics:
//   - Stores *Session objects keyed by game ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session carries its own mutex: the engine is single-threaded, so
//     handlers must hold Session.Lock around every engine call.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/match"
)

// ErrNotFound is returned by Get for an unknown game ID.
var ErrNotFound = errors.New("store: game not found")

// Session is one live game.
type Session struct {
	sync.Mutex // serialises engine access

	ID         string
	SetID      int
	OwnerID    string // user ID or anonymous cookie value
	StartedAt  time.Time
	Placements int // successful placements since the last reset
	Engine     *match.Engine

	// Daily sessions are only reachable through the /daily routes: their
	// seeded board and result row must not be reset or finished elsewhere.
	Daily bool
}

// NewSession wraps an engine with a fresh game ID.
func NewSession(setID int, owner string, eng *match.Engine) *Session {
	return &Session{
		ID:        uuid.NewString(),
		SetID:     setID,
		OwnerID:   owner,
		StartedAt: time.Now().UTC(),
		Engine:    eng,
	}
}

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
