package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sudheer2004/PollProject/internal/core/domain"
	"github.com/sudheer2004/PollProject/internal/core/ports"
)

const historyLimit = 50

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Gateway is the websocket event channel: it upgrades connections,
// dispatches inbound commands to the engine, and is the engine's
// Broadcaster.
type Gateway struct {
	engine ports.PollEngine

	mu      sync.RWMutex
	clients map[uuid.UUID]*client
}

func NewGateway() *Gateway {
	return &Gateway{clients: make(map[uuid.UUID]*client)}
}

// Bind attaches the engine. The gateway must exist before the engine so
// the engine can broadcast through it; Bind closes the loop.
func (g *Gateway) Bind(engine ports.PollEngine) {
	g.engine = engine
}

// HandleWS upgrades the request and serves the connection until it drops.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{id: uuid.New(), conn: conn}

	g.mu.Lock()
	g.clients[c.id] = c
	g.mu.Unlock()

	g.pushCatchUp(c)
	g.readLoop(c)
}

// pushCatchUp sends the roster and, if a poll is running, the question
// with its remaining time plus the current results, so a new or
// reconnecting client never sees a stale state.
func (g *Gateway) pushCatchUp(c *client) {
	_ = c.send(domain.EventStudentUpdate, g.engine.Students())

	state := g.engine.CurrentState()
	if !state.Active {
		return
	}
	_ = c.send(domain.EventQuestionStarted, domain.QuestionStarted{
		ID:        state.ID,
		Question:  state.Question,
		Options:   state.Options,
		TimeLimit: state.Remaining,
	})
	_ = c.send(domain.EventPollResults, state.Results)
}

func (g *Gateway) readLoop(c *client) {
	defer func() {
		g.mu.Lock()
		delete(g.clients, c.id)
		g.mu.Unlock()

		g.engine.Leave(c.id)
		c.close()
	}()

	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
		g.dispatch(c, env)
	}
}

func (g *Gateway) dispatch(c *client, env envelope) {
	switch env.Event {
	case domain.EventJoinPoll:
		var req joinPollRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			g.sendError(c, "malformed joinPoll payload")
			return
		}
		res, err := g.engine.Join(req.StudentName, c.id)
		if err != nil {
			g.sendError(c, err.Error())
			return
		}
		c.name = res.Name
		if res.ReplacedConn != uuid.Nil {
			g.evict(res.ReplacedConn)
		}

	case domain.EventQuestionStarted:
		var req startPollRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			g.sendError(c, "malformed questionStarted payload")
			return
		}
		_, err := g.engine.Start(ports.StartPollInput{
			Question:      req.Question,
			Options:       req.Options,
			CorrectAnswer: req.CorrectAnswer,
			TimeLimit:     req.TimeLimit,
		})
		if err != nil {
			g.sendError(c, err.Error())
		}

	case domain.EventSubmitAnswer:
		var req submitAnswerRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			g.sendError(c, "malformed submitAnswer payload")
			return
		}
		name := strings.TrimSpace(req.StudentName)
		if name == "" {
			name = c.name
		}
		if c.name != "" && name != c.name {
			g.sendError(c, domain.ErrNameMismatch.Error())
			return
		}
		if err := g.engine.Submit(c.id, name, req.Answer); err != nil {
			g.sendError(c, err.Error())
		}

	case domain.EventEndPoll:
		if err := g.engine.End(); err != nil {
			g.sendError(c, err.Error())
		}

	case domain.EventGetPollHistory:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		history, err := g.engine.History(ctx, historyLimit)
		if err != nil {
			log.Printf("failed to load poll history: %v", err)
			g.sendError(c, "failed to load poll history")
			return
		}
		_ = c.send(domain.EventPollHistory, history)

	case domain.EventGetStudents:
		_ = c.send(domain.EventStudentUpdate, g.engine.Students())

	default:
		g.sendError(c, "unsupported event: "+env.Event)
	}
}

// evict force-disconnects a stale connection replaced by a rejoin.
func (g *Gateway) evict(id uuid.UUID) {
	g.mu.Lock()
	stale, ok := g.clients[id]
	delete(g.clients, id)
	g.mu.Unlock()

	if ok {
		stale.close()
	}
}

func (g *Gateway) sendError(c *client, message string) {
	if err := c.send(domain.EventError, domain.ErrorMessage{Message: message}); err != nil {
		log.Printf("failed to send error event: %v", err)
	}
}

// BroadcastAll fans out to every connection, best-effort.
func (g *Gateway) BroadcastAll(event string, payload any) {
	g.mu.RLock()
	clients := make([]*client, 0, len(g.clients))
	for _, c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(event, payload); err != nil {
			log.Printf("broadcast %s failed: %v", event, err)
		}
	}
}

// SendTo delivers to a single connection, best-effort.
func (g *Gateway) SendTo(conn uuid.UUID, event string, payload any) {
	g.mu.RLock()
	c, ok := g.clients[conn]
	g.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.send(event, payload); err != nil {
		log.Printf("send %s failed: %v", event, err)
	}
}

// ClientCount reports currently open connections.
func (g *Gateway) ClientCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}
