package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/apperr"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"
)

type fakeQuests struct{ quests map[string]*models.Quest }

func (f *fakeQuests) Get(id string) (*models.Quest, error) {
	if q, ok := f.quests[id]; ok {
		return q, nil
	}
	return nil, apperr.NotFound("no request with id: " + id)
}

type fakeUsers struct{ users map[string]*models.Summary }

func (f *fakeUsers) Summary(id string) (*models.Summary, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user not found")
}

type fakeMessages struct {
	history []models.Message
	nextID  int64
}

func (f *fakeMessages) Create(questID, senderID, content string) (*models.Message, error) {
	f.nextID++
	m := models.Message{ID: f.nextID, QuestID: questID, SenderID: senderID, Content: content, CreatedAt: time.Now()}
	f.history = append(f.history, m)
	return &m, nil
}

func (f *fakeMessages) History(questID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.history {
		if m.QuestID == questID {
			out = append(out, m)
		}
	}
	return out, nil
}

func acceptedQuest() *models.Quest {
	runner := "u2"
	return &models.Quest{ID: "q1", RequesterID: "u1", RunnerID: &runner, Status: models.StatusAccepted}
}

func testHub(msgs *fakeMessages) *Hub {
	return NewHub(
		&fakeQuests{quests: map[string]*models.Quest{"q1": acceptedQuest()}},
		&fakeUsers{users: map[string]*models.Summary{
			"u1": {ID: "u1", Name: "Requester"},
			"u2": {ID: "u2", Name: "Runner"},
		}},
		msgs,
	)
}

func recv(t *testing.T, c *Client) map[string]any {
	t.Helper()
	select {
	case b := <-c.send:
		var out map[string]any
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		return out
	default:
		t.Fatal("expected a frame")
		return nil
	}
}

func noFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case b := <-c.send:
		t.Fatalf("unexpected frame: %s", b)
	default:
	}
}

func TestJoinLeaveMembership(t *testing.T) {
	h := testHub(&fakeMessages{})
	c := newClient(h, "u1", nil)
	h.Join("q1", c)
	if !h.InRoom("q1", c) {
		t.Fatal("client should be in room after join")
	}
	h.Leave("q1", c)
	if h.InRoom("q1", c) {
		t.Fatal("client should be gone after leave")
	}
}

func TestRemoveClientDropsAllRooms(t *testing.T) {
	h := testHub(&fakeMessages{})
	c := newClient(h, "u1", nil)
	h.Join("q1", c)
	h.Join("q9", c)
	h.RemoveClient(c)
	if h.InRoom("q1", c) || h.InRoom("q9", c) {
		t.Fatal("disconnect must remove the client from every room")
	}
}

func TestJoinReplaysSnapshotAndHistory(t *testing.T) {
	msgs := &fakeMessages{}
	msgs.Create("q1", "u1", "first")
	msgs.Create("q1", "u2", "second")
	msgs.Create("q-other", "u9", "unrelated")

	h := testHub(msgs)
	c := newClient(h, "u1", nil)
	h.HandleEvent(c, []byte(`{"type":"joinRoom","questId":"q1","userId":"u1"}`))

	details := recv(t, c)
	if details["type"] != "questDetails" {
		t.Fatalf("first frame: %v", details)
	}
	other := details["otherUser"].(map[string]any)
	if other["name"] != "Runner" {
		t.Fatalf("requester should see the runner, got %v", other)
	}

	hist := recv(t, c)
	if hist["type"] != "messageHistory" {
		t.Fatalf("second frame: %v", hist)
	}
	list := hist["messages"].([]any)
	if len(list) != 2 {
		t.Fatalf("history length: %d", len(list))
	}
	first := list[0].(map[string]any)
	second := list[1].(map[string]any)
	if first["content"] != "first" || second["content"] != "second" {
		t.Fatalf("history out of order: %v", list)
	}
}

func TestJoinMissingQuestIsSilent(t *testing.T) {
	h := testHub(&fakeMessages{})
	c := newClient(h, "u1", nil)
	h.HandleEvent(c, []byte(`{"type":"joinRoom","questId":"missing","userId":"u1"}`))
	if !h.InRoom("missing", c) {
		t.Fatal("join still admits the connection")
	}
	noFrame(t, c)
}

func TestSendBroadcastsToOthersOnly(t *testing.T) {
	msgs := &fakeMessages{}
	h := testHub(msgs)
	sender := newClient(h, "u1", nil)
	receiver := newClient(h, "u2", nil)
	h.Join("q1", sender)
	h.Join("q1", receiver)

	h.HandleEvent(sender, []byte(`{"type":"sendMessage","questId":"q1","senderId":"u1","content":"running late"}`))

	if len(msgs.history) != 1 {
		t.Fatalf("message should be persisted before broadcast, got %d rows", len(msgs.history))
	}
	frame := recv(t, receiver)
	if frame["type"] != "receiveMessage" {
		t.Fatalf("receiver frame: %v", frame)
	}
	m := frame["message"].(map[string]any)
	if m["content"] != "running late" || m["senderId"] != "u1" {
		t.Fatalf("message payload: %v", m)
	}
	noFrame(t, sender)
}

func TestSendRejectsNonParty(t *testing.T) {
	msgs := &fakeMessages{}
	h := testHub(msgs)
	intruder := newClient(h, "u3", nil)
	h.Join("q1", intruder)

	h.HandleEvent(intruder, []byte(`{"type":"sendMessage","questId":"q1","senderId":"u3","content":"hi"}`))

	if len(msgs.history) != 0 {
		t.Fatal("non-party message must not be persisted")
	}
	frame := recv(t, intruder)
	if frame["type"] != "error" {
		t.Fatalf("intruder should get an error frame: %v", frame)
	}
}

func TestSendRejectsSpoofedSender(t *testing.T) {
	msgs := &fakeMessages{}
	h := testHub(msgs)
	c := newClient(h, "u2", nil)
	h.Join("q1", c)

	h.HandleEvent(c, []byte(`{"type":"sendMessage","questId":"q1","senderId":"u1","content":"hi"}`))

	if len(msgs.history) != 0 {
		t.Fatal("spoofed sender must not be persisted")
	}
	frame := recv(t, c)
	if frame["type"] != "error" {
		t.Fatalf("expected error frame: %v", frame)
	}
}

func TestMalformedEventRejected(t *testing.T) {
	h := testHub(&fakeMessages{})
	c := newClient(h, "u1", nil)
	h.HandleEvent(c, []byte(`not json`))
	frame := recv(t, c)
	if frame["type"] != "error" {
		t.Fatalf("expected error frame: %v", frame)
	}
	h.HandleEvent(c, []byte(`{"type":"warp"}`))
	frame = recv(t, c)
	if frame["type"] != "error" {
		t.Fatalf("unknown type should error: %v", frame)
	}
}
