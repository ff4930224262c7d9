package game

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager hosts many independent games. Each game serializes its own
// actions; the manager only guards the registry.
type Manager struct {
	mu    sync.RWMutex
	games map[string]*Game
	cfg   Config
	log   *zap.Logger
}

func NewManager(cfg Config, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		games: make(map[string]*Game),
		cfg:   cfg,
		log:   log,
	}
}

func (m *Manager) CreateGame() *Game {
	g := NewGame(m.cfg)
	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()
	m.log.Info("game created", zap.String("gameID", g.ID))
	return g
}

func (m *Manager) Game(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) RemoveGame(id string) {
	m.mu.Lock()
	_, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()
	if ok {
		m.log.Info("game removed", zap.String("gameID", id))
	}
}

type GameInfo struct {
	ID        string    `json:"id"`
	Players   int       `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListGames returns registry summaries, oldest first. Player counts are
// read per game outside the registry lock.
func (m *Manager) ListGames() []GameInfo {
	m.mu.RLock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	infos := make([]GameInfo, 0, len(games))
	for _, g := range games {
		infos = append(infos, GameInfo{
			ID:        g.ID,
			Players:   g.PlayerCount(),
			CreatedAt: g.CreatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos
}
