package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/casos-demo/casos-core/internal/infrastructure/config"
	"github.com/casos-demo/casos-core/internal/infrastructure/logging"
)

// ─── Tickets ───────────────────────────────────────────────────────

func TestWSTicket_SingleUse(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodPost, "/auth/ws-ticket", env.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decode[map[string]any](t, w)
	ticket, ok := resp["ticket"].(string)
	if !ok || ticket == "" {
		t.Fatal("expected ticket to be a non-empty string")
	}
	if resp["expires_in"] != float64(60) {
		t.Errorf("expires_in = %v, want 60", resp["expires_in"])
	}

	entry, ok := env.srv.tickets.consume(ticket)
	if !ok {
		t.Fatal("ticket should be valid on first use")
	}
	if entry.userID != "user-test" || entry.email != "demo@demo.com" {
		t.Errorf("ticket identity = %+v", entry)
	}

	if _, ok := env.srv.tickets.consume(ticket); ok {
		t.Error("ticket should not be valid on second use")
	}
}

func TestWSTicket_Expiry(t *testing.T) {
	store := newTicketStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	ticket := store.issue(ticketEntry{userID: "u"})
	fresh := store.issue(ticketEntry{userID: "u"})

	now = now.Add(ticketTTL)
	if _, ok := store.consume(ticket); ok {
		t.Error("expired ticket should not be valid")
	}

	store.cleanExpired()
	if store.len() != 0 {
		t.Errorf("tickets after cleanup = %d, want 0", store.len())
	}
	if _, ok := store.consume(fresh); ok {
		t.Error("cleaned ticket should not be valid")
	}
}

func TestWebSocket_RejectsMissingOrBadTicket(t *testing.T) {
	env := testServer(t)

	w := env.do(t, http.MethodGet, "/ws", "", nil)
	assertEnvelope(t, w, http.StatusUnauthorized, msgMissingTicket, "/ws")

	w = env.do(t, http.MethodGet, "/ws?ticket=nope", "", nil)
	assertEnvelope(t, w, http.StatusUnauthorized, msgInvalidTicket, "/ws")
}

// ─── Hub ───────────────────────────────────────────────────────────

func testHub(t *testing.T) *Hub {
	t.Helper()
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_BroadcastToSubscribed(t *testing.T) {
	hub := testHub(t)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{"caso.created": {}},
	}
	hub.Register(client)

	hub.Broadcast("caso.created", map[string]any{"id": "c-1"})

	select {
	case msg := <-client.send:
		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if wsMsg.Type != WSTypeEvent || wsMsg.EventType != "caso.created" {
			t.Errorf("message = %+v", wsMsg)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for broadcast message")
	}
}

func TestHub_NoMessageForUnsubscribed(t *testing.T) {
	hub := testHub(t)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{"caso.deleted": {}},
	}
	hub.Register(client)

	hub.Broadcast("caso.created", map[string]any{"id": "c-1"})

	select {
	case <-client.send:
		t.Error("unsubscribed client should not receive message")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_WildcardSubscription(t *testing.T) {
	hub := testHub(t)

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: map[string]struct{}{WSChannelAll: {}},
	}
	hub.Register(client)

	for _, ch := range []string{"caso.created", "caso.updated", "caso.deleted"} {
		hub.Broadcast(ch, nil)
	}
	if got := len(client.send); got != 3 {
		t.Errorf("queued messages = %d, want 3", got)
	}
}

func TestHub_ClientCount(t *testing.T) {
	hub := testHub(t)

	if hub.ClientCount() != 0 {
		t.Errorf("initial client count = %d, want 0", hub.ClientCount())
	}

	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}
	hub.Register(client)

	if hub.ClientCount() != 1 {
		t.Errorf("after register count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)
	hub.Unregister(client)

	if hub.ClientCount() != 0 {
		t.Errorf("after unregister count = %d, want 0", hub.ClientCount())
	}
}

func TestWSClient_HandleMessage(t *testing.T) {
	hub := testHub(t)
	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
	}

	next := func() WSMessage {
		t.Helper()
		select {
		case raw := <-client.send:
			var msg WSMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			return msg
		case <-time.After(time.Second):
			t.Fatal("no reply")
			return WSMessage{}
		}
	}

	client.handleMessage([]byte(`{"type":"subscribe","id":"1","payload":{"channels":["caso.updated"]}}`))
	if msg := next(); msg.Type != WSTypeResponse || msg.ID != "1" {
		t.Errorf("subscribe reply = %+v", msg)
	}
	if !client.isSubscribed("caso.updated") {
		t.Error("client not subscribed after subscribe")
	}

	client.handleMessage([]byte(`{"type":"ping","id":"2"}`))
	if msg := next(); msg.Type != WSTypePong || msg.ID != "2" {
		t.Errorf("ping reply = %+v", msg)
	}

	client.handleMessage([]byte(`{"type":"unsubscribe","id":"3","payload":{"channels":["caso.updated"]}}`))
	next()
	if client.isSubscribed("caso.updated") {
		t.Error("client still subscribed after unsubscribe")
	}

	client.handleMessage([]byte(`{"type":"shout"}`))
	if msg := next(); msg.Type != WSTypeError {
		t.Errorf("unknown type reply = %+v", msg)
	}

	client.handleMessage([]byte(`not json`))
	if msg := next(); msg.Type != WSTypeError {
		t.Errorf("invalid JSON reply = %+v", msg)
	}

	client.handleMessage([]byte(`{"type":"subscribe","id":"4","payload":{"channels":["device.state"]}}`))
	if msg := next(); msg.Type != WSTypeError || msg.ID != "4" {
		t.Errorf("unknown channel reply = %+v", msg)
	}
	if client.isSubscribed("device.state") {
		t.Error("client subscribed to an unknown channel")
	}
}

func TestKnownChannel(t *testing.T) {
	for _, ch := range []string{"*", "caso.created", "caso.updated", "caso.deleted"} {
		if !knownChannel(ch) {
			t.Errorf("knownChannel(%q) = false", ch)
		}
	}
	for _, ch := range []string{"", "caso.", "caso.archived", "casos"} {
		if knownChannel(ch) {
			t.Errorf("knownChannel(%q) = true", ch)
		}
	}
}

// ─── Live Connection ───────────────────────────────────────────────

func TestWebSocket_ReceivesCasoEvents(t *testing.T) {
	env := testServer(t)
	ts := httptest.NewServer(env.router)
	t.Cleanup(ts.Close)

	w := env.do(t, http.MethodPost, "/auth/ws-ticket", env.token, nil)
	ticket := decode[map[string]any](t, w)["ticket"].(string)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?ticket=" + ticket
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()

	read := func() WSMessage {
		t.Helper()
		if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatalf("SetReadDeadline: %v", err)
		}
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error: %v", err)
		}
		return msg
	}

	if err := conn.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{"caso.created"}},
	}); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if msg := read(); msg.Type != WSTypeResponse {
		t.Fatalf("subscribe reply = %+v", msg)
	}

	created := env.do(t, http.MethodPost, "/casos", env.token, map[string]string{"nombre": "Live", "prioridad": "alta"})
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d", created.Code)
	}

	msg := read()
	if msg.Type != WSTypeEvent || msg.EventType != "caso.created" {
		t.Fatalf("event = %+v", msg)
	}
	payload, _ := msg.Payload.(map[string]any)
	c, _ := payload["caso"].(map[string]any)
	if c["nombre"] != "Live" {
		t.Errorf("event caso = %v", payload)
	}

	// The ticket was consumed by the upgrade.
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Error("second dial with the same ticket should fail")
	}
}
