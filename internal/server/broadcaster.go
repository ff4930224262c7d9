package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Rotwang9000/chesstris/internal/game"
)

type subscription struct {
	conn   *websocket.Conn
	gameID string
}

type outbound struct {
	gameID string
	data   []byte
}

// Broadcaster fans game snapshots and events out to websocket
// subscribers. Teardown flows through a channel consumed by Run; writes
// share per-connection mutexes with the handler's direct replies so
// frames never interleave.
type Broadcaster struct {
	manager    *game.Manager
	register   chan subscription
	unregister chan *websocket.Conn
	outbound   chan outbound
	interval   time.Duration
	log        *zap.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]string // conn -> subscribed game
	writeMu map[*websocket.Conn]*sync.Mutex
}

func NewBroadcaster(manager *game.Manager, log *zap.Logger) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		manager:    manager,
		register:   make(chan subscription),
		unregister: make(chan *websocket.Conn),
		outbound:   make(chan outbound, 64),
		interval:   time.Second,
		log:        log,
		clients:    make(map[*websocket.Conn]string),
		writeMu:    make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Run drives the broadcast loop. Snapshots go out on a ticker; events go
// out as soon as an action produces them.
func (b *Broadcaster) Run() {
	snapshotTicker := time.NewTicker(b.interval)
	defer snapshotTicker.Stop()

	for {
		select {
		case sub := <-b.register:
			// New subscriber gets the current state straight away.
			if g, err := b.manager.Game(sub.gameID); err == nil {
				if data, err := json.Marshal(stateMessage(g.Snapshot())); err == nil {
					b.Send(sub.conn, data)
				}
			}

		case conn := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[conn]; ok {
				delete(b.clients, conn)
				delete(b.writeMu, conn)
				conn.Close()
			}
			b.mu.Unlock()

		case msg := <-b.outbound:
			b.fanOut(msg.gameID, msg.data)

		case <-snapshotTicker.C:
			b.pushSnapshots()
		}
	}
}

// Register adds the connection to the registry before returning, so the
// handler can reply on it immediately. The initial state push happens on
// the Run loop.
func (b *Broadcaster) Register(conn *websocket.Conn, gameID string) {
	b.mu.Lock()
	b.clients[conn] = gameID
	b.writeMu[conn] = &sync.Mutex{}
	b.mu.Unlock()
	b.register <- subscription{conn: conn, gameID: gameID}
}

func (b *Broadcaster) Unregister(conn *websocket.Conn) {
	b.unregister <- conn
}

// Send writes one frame to a registered connection under its write lock.
func (b *Broadcaster) Send(conn *websocket.Conn, data []byte) {
	b.mu.RLock()
	mu, ok := b.writeMu[conn]
	b.mu.RUnlock()
	if !ok {
		return
	}
	mu.Lock()
	err := conn.WriteMessage(websocket.TextMessage, data)
	mu.Unlock()
	if err != nil {
		b.log.Debug("websocket write failed", zap.Error(err))
		// Teardown goes through the channel so the close runs once, on
		// the Run loop, even when several writes fail at the same time.
		go func() { b.unregister <- conn }()
	}
}

// BroadcastEvents pushes an event batch to every subscriber of the game.
func (b *Broadcaster) BroadcastEvents(gameID string, events []game.Event) {
	if len(events) == 0 {
		return
	}
	data, err := json.Marshal(map[string]any{"action": "events", "events": events})
	if err != nil {
		b.log.Error("event marshal failed", zap.Error(err))
		return
	}
	b.outbound <- outbound{gameID: gameID, data: data}
}

// BroadcastSnapshot pushes the current state of the game immediately,
// without waiting for the ticker.
func (b *Broadcaster) BroadcastSnapshot(gameID string) {
	g, err := b.manager.Game(gameID)
	if err != nil {
		return
	}
	data, err := json.Marshal(stateMessage(g.Snapshot()))
	if err != nil {
		b.log.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	b.outbound <- outbound{gameID: gameID, data: data}
}

func (b *Broadcaster) fanOut(gameID string, data []byte) {
	b.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for conn, id := range b.clients {
		if id == gameID {
			conns = append(conns, conn)
		}
	}
	b.mu.RUnlock()

	for _, conn := range conns {
		b.Send(conn, data)
	}
}

func (b *Broadcaster) pushSnapshots() {
	b.mu.RLock()
	gameIDs := make(map[string]bool)
	for _, id := range b.clients {
		gameIDs[id] = true
	}
	b.mu.RUnlock()

	for id := range gameIDs {
		g, err := b.manager.Game(id)
		if err != nil {
			continue
		}
		data, err := json.Marshal(stateMessage(g.Snapshot()))
		if err != nil {
			b.log.Error("snapshot marshal failed", zap.Error(err))
			continue
		}
		b.fanOut(id, data)
	}
}

func stateMessage(snap game.Snapshot) map[string]any {
	return map[string]any{"action": "state", "state": snap}
}
