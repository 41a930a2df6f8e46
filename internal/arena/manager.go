package arena

import (
	"sync"

	"github.com/lucasmdrs/warbound/internal/config"
	"github.com/lucasmdrs/warbound/internal/storage"

	"golang.org/x/sync/singleflight"
)

// Manager is the registry of live rooms, one per running battle. Rooms are
// created lazily from storage on the first connection and keep running
// until the manager shuts down.
type Manager struct {
	repo storage.Repository
	cfg  *config.LoadedConfig

	mu    sync.Mutex
	rooms map[string]*Room

	// loads collapses concurrent Room calls for the same battle so the
	// record is read and the room goroutine started exactly once.
	loads singleflight.Group
}

func NewManager(repo storage.Repository, cfg *config.LoadedConfig) *Manager {
	return &Manager{
		repo:  repo,
		cfg:   cfg,
		rooms: make(map[string]*Room),
	}
}

// Room returns the live room for the battle, loading it from storage when
// no room is running yet.
func (m *Manager) Room(battleID string) (*Room, error) {
	if r, ok := m.Peek(battleID); ok {
		return r, nil
	}
	v, err, _ := m.loads.Do(battleID, func() (interface{}, error) {
		if r, ok := m.Peek(battleID); ok {
			return r, nil
		}
		rec, err := m.repo.GetBattleByID(battleID)
		if err != nil {
			return nil, err
		}
		r, err := NewRoom(m.repo, m.cfg, rec)
		if err != nil {
			return nil, err
		}
		r.onRekey = m.rekey
		m.mu.Lock()
		m.rooms[battleID] = r
		m.mu.Unlock()
		go r.Run()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Room), nil
}

// Peek returns a running room without creating one.
func (m *Manager) Peek(battleID string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[battleID]
	return r, ok
}

// rekey moves a room to its rematch battle id while keeping the old id
// routable for clients that have not seen the rematch event yet.
func (m *Manager) rekey(oldID, newID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[oldID]; ok {
		m.rooms[newID] = r
	}
}

// Shutdown stops every live room.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rooms {
		r.Stop()
	}
	m.rooms = make(map[string]*Room)
}
