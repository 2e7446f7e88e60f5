package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"
)

// The hub's collaborators, narrowed to what room coordination needs.

type QuestDirectory interface {
	Get(questID string) (*models.Quest, error)
}

type ProfileDirectory interface {
	Summary(userID string) (*models.Summary, error)
}

type MessageLog interface {
	Create(questID, senderID, content string) (*models.Message, error)
	History(questID string) ([]models.Message, error)
}

// Hub maps quest ids to the set of live connections in that quest's room.
// Membership is in-memory only; nothing here is persisted.
type Hub struct {
	quests   QuestDirectory
	users    ProfileDirectory
	messages MessageLog

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	// reverse index, so disconnects drop a client from every room in one pass
	joined map[*Client]map[string]bool
}

func NewHub(quests QuestDirectory, users ProfileDirectory, messages MessageLog) *Hub {
	return &Hub{
		quests:   quests,
		users:    users,
		messages: messages,
		rooms:    make(map[string]map[*Client]bool),
		joined:   make(map[*Client]map[string]bool),
	}
}

func (h *Hub) Join(questID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[questID] == nil {
		h.rooms[questID] = make(map[*Client]bool)
	}
	h.rooms[questID][c] = true
	if h.joined[c] == nil {
		h.joined[c] = make(map[string]bool)
	}
	h.joined[c][questID] = true
}

func (h *Hub) Leave(questID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(questID, c)
}

func (h *Hub) leaveLocked(questID string, c *Client) {
	if m := h.rooms[questID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.rooms, questID)
		}
	}
	if r := h.joined[c]; r != nil {
		delete(r, questID)
		if len(r) == 0 {
			delete(h.joined, c)
		}
	}
}

// RemoveClient drops the client from every room it joined. Runs
// synchronously on disconnect.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for questID := range h.joined[c] {
		h.leaveLocked(questID, c)
	}
	delete(h.joined, c)
}

// InRoom reports current membership.
func (h *Hub) InRoom(questID string, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[questID][c]
}

// Broadcast sends payload to every room member except `except`. Callers must
// persist first; a frame is only ever fanned out for a stored message.
func (h *Hub) Broadcast(questID string, payload any, except *Client) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: marshal broadcast for quest %s: %v", questID, err)
		return
	}
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.rooms[questID]))
	for c := range h.rooms[questID] {
		if c != except {
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range conns {
		c.enqueue(b)
	}
}

// HandleEvent dispatches one inbound frame from c.
func (h *Hub) HandleEvent(c *Client, raw []byte) {
	var ev inboundEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		c.sendJSON(errorEvent{Type: evError, Msg: "malformed event"})
		return
	}
	switch ev.Type {
	case evJoinRoom:
		h.handleJoin(c, ev)
	case evSendMessage:
		h.handleSend(c, ev)
	case evLeaveRoom:
		if ev.QuestID == "" {
			c.sendJSON(errorEvent{Type: evError, Msg: "questId is required"})
			return
		}
		h.Leave(ev.QuestID, c)
	default:
		c.sendJSON(errorEvent{Type: evError, Msg: "unknown event type"})
	}
}

// handleJoin admits the connection and replays the room snapshot: quest
// details with the other party's public profile, then the full history in
// creation order. A join on a nonexistent quest admits and stays silent.
func (h *Hub) handleJoin(c *Client, ev inboundEvent) {
	if ev.QuestID == "" || ev.UserID == "" {
		c.sendJSON(errorEvent{Type: evError, Msg: "questId and userId are required"})
		return
	}
	h.Join(ev.QuestID, c)

	q, err := h.quests.Get(ev.QuestID)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			log.Printf("ws: join quest %s: %v", ev.QuestID, err)
		}
		return
	}

	var other *models.Summary
	otherID, ok := q.Counterpart(ev.UserID)
	if !ok && q.RequesterID != ev.UserID {
		// not a party at all; show the requester as the room's public face
		otherID, ok = q.RequesterID, true
	}
	if ok {
		other, err = h.users.Summary(otherID)
		if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
			log.Printf("ws: join quest %s: summary %s: %v", ev.QuestID, otherID, err)
		}
	}
	c.sendJSON(questDetailsEvent{Type: evQuestDetails, Quest: q, OtherUser: other})

	history, err := h.messages.History(ev.QuestID)
	if err != nil {
		log.Printf("ws: history for quest %s: %v", ev.QuestID, err)
		return
	}
	c.sendJSON(messageHistoryEvent{Type: evMessageHistory, Messages: history})
}

// handleSend persists, then fans out to everyone else in the room. The
// sender must be the authenticated user behind the connection and a party to
// the quest; room admission alone is not enough to post.
func (h *Hub) handleSend(c *Client, ev inboundEvent) {
	if ev.QuestID == "" || ev.Content == "" {
		c.sendJSON(errorEvent{Type: evError, Msg: "questId and content are required"})
		return
	}
	if ev.SenderID != "" && ev.SenderID != c.userID {
		c.sendJSON(errorEvent{Type: evError, Msg: "sender does not match connection"})
		return
	}
	q, err := h.quests.Get(ev.QuestID)
	if err != nil {
		c.sendJSON(errorEvent{Type: evError, Msg: apperr.Message(err)})
		return
	}
	if !q.IsParty(c.userID) {
		c.sendJSON(errorEvent{Type: evError, Msg: "not a party to this quest"})
		return
	}
	m, err := h.messages.Create(ev.QuestID, c.userID, ev.Content)
	if err != nil {
		c.sendJSON(errorEvent{Type: evError, Msg: apperr.Message(err)})
		return
	}
	h.Broadcast(ev.QuestID, receiveMessageEvent{Type: evReceiveMessage, Message: m}, c)
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)
