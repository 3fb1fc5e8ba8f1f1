package ws

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kiwari-pos/dinein/internal/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func newTestHub() (*Hub, prometheus.Gauge) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_subscribers"})
	return NewHub(gauge, zap.NewNop()), gauge
}

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, restaurantID uuid.UUID) *Client {
	return &Client{
		hub:          hub,
		restaurantID: restaurantID,
		send:         make(chan []byte, 16),
	}
}

func TestHubRegistration(t *testing.T) {
	hub, gauge := newTestHub()
	joined := make(chan uuid.UUID, 1)
	hub.OnJoin(func(id uuid.UUID) { joined <- id })
	go hub.Run()

	restaurantID := uuid.New()
	client := mockClient(hub, restaurantID)
	hub.register <- client

	select {
	case id := <-joined:
		if id != restaurantID {
			t.Errorf("join callback: got %s, want %s", id, restaurantID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("join callback not called")
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.rooms[restaurantID][client] {
		t.Fatal("client not registered in restaurant room")
	}
	if got := testutil.ToFloat64(gauge); got != 1 {
		t.Errorf("subscribers gauge: got %v, want 1", got)
	}
}

func TestHubCleanupEmptyRoom(t *testing.T) {
	hub, gauge := newTestHub()
	go hub.Run()

	restaurantID := uuid.New()
	client1 := mockClient(hub, restaurantID)
	client2 := mockClient(hub, restaurantID)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client1
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	if len(hub.rooms[restaurantID]) != 1 {
		t.Fatalf("expected 1 client after first unregister, got %d", len(hub.rooms[restaurantID]))
	}
	hub.mu.RUnlock()

	hub.unregister <- client2
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	if hub.rooms[restaurantID] != nil {
		t.Fatal("room should be deleted when last client unregisters")
	}
	hub.mu.RUnlock()

	if got := testutil.ToFloat64(gauge); got != 0 {
		t.Errorf("subscribers gauge: got %v, want 0", got)
	}
	if ids := hub.ActiveRestaurants(); len(ids) != 0 {
		t.Errorf("active restaurants: %v", ids)
	}
}

func TestHubUnregisterTwiceIsSafe(t *testing.T) {
	hub, gauge := newTestHub()
	go hub.Run()

	client := mockClient(hub, uuid.New())
	hub.register <- client
	hub.unregister <- client
	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	if got := testutil.ToFloat64(gauge); got != 0 {
		t.Errorf("subscribers gauge: got %v, want 0", got)
	}
}

func TestActiveRestaurants(t *testing.T) {
	hub, _ := newTestHub()
	go hub.Run()

	r1, r2 := uuid.New(), uuid.New()
	hub.register <- mockClient(hub, r1)
	hub.register <- mockClient(hub, r1)
	hub.register <- mockClient(hub, r2)
	time.Sleep(10 * time.Millisecond)

	got := hub.ActiveRestaurants()
	want := []uuid.UUID{r1, r2}
	sort.Slice(got, func(i, j int) bool { return got[i].String() < got[j].String() })
	sort.Slice(want, func(i, j int) bool { return want[i].String() < want[j].String() })
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("active restaurants: got %v, want %v", got, want)
	}
}

func TestBroadcastIsolation(t *testing.T) {
	hub, _ := newTestHub()
	go hub.Run()

	r1, r2 := uuid.New(), uuid.New()
	clients := map[uuid.UUID][]*Client{
		r1: {mockClient(hub, r1), mockClient(hub, r1)},
		r2: {mockClient(hub, r2)},
	}
	for _, list := range clients {
		for _, c := range list {
			hub.register <- c
		}
	}
	time.Sleep(10 * time.Millisecond)

	msg := []byte(`{"type":"floor.snapshot"}`)
	hub.BroadcastToRestaurant(r1, msg)

	for id, list := range clients {
		for i, c := range list {
			select {
			case got := <-c.send:
				if id != r1 {
					t.Fatalf("restaurant %s client %d should not receive message", id, i)
				}
				if string(got) != string(msg) {
					t.Errorf("message: got %s", got)
				}
			case <-time.After(50 * time.Millisecond):
				if id == r1 {
					t.Fatalf("restaurant r1 client %d should have received message", i)
				}
			}
		}
	}
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	hub, gauge := newTestHub()
	go hub.Run()

	restaurantID := uuid.New()
	slow := &Client{hub: hub, restaurantID: restaurantID, send: make(chan []byte, 1)}
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToRestaurant(restaurantID, []byte("1"))
	hub.BroadcastToRestaurant(restaurantID, []byte("2"))
	time.Sleep(20 * time.Millisecond)

	hub.mu.RLock()
	_, still := hub.rooms[restaurantID][slow]
	hub.mu.RUnlock()
	if still {
		t.Fatal("slow client should have been dropped")
	}
	if got := testutil.ToFloat64(gauge); got != 0 {
		t.Errorf("subscribers gauge: got %v, want 0", got)
	}

	// The buffered message is still delivered before the close.
	if msg, ok := <-slow.send; !ok || string(msg) != "1" {
		t.Errorf("first message: %q %v", msg, ok)
	}
	if _, ok := <-slow.send; ok {
		t.Error("send channel should be closed")
	}
}

func newWSServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/ws/restaurants/{rid}/floor", func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, "ws-secret", w, r)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, rid uuid.UUID, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/restaurants/" + rid.String() + "/floor?token=" + token
}

func TestServeWS_Rejects(t *testing.T) {
	hub, _ := newTestHub()
	go hub.Run()
	srv := newWSServer(t, hub)

	rid := uuid.New()
	otherToken, _ := auth.GenerateToken("ws-secret", uuid.New(), uuid.New(), "STAFF", "Giulia")
	badSecret, _ := auth.GenerateToken("other-secret", uuid.New(), rid, "STAFF", "Giulia")

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"missing token", wsURL(srv, rid, ""), http.StatusUnauthorized},
		{"invalid token", wsURL(srv, rid, badSecret), http.StatusUnauthorized},
		{"other restaurant", wsURL(srv, rid, otherToken), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(tt.url, nil)
			if err == nil {
				t.Fatal("expected dial to fail")
			}
			if resp == nil || resp.StatusCode != tt.status {
				t.Fatalf("status: got %v, want %d", resp, tt.status)
			}
		})
	}
}

func TestServeWS_ReceivesSnapshots(t *testing.T) {
	hub, _ := newTestHub()
	joined := make(chan uuid.UUID, 1)
	hub.OnJoin(func(id uuid.UUID) { joined <- id })
	go hub.Run()
	srv := newWSServer(t, hub)

	rid := uuid.New()
	token, err := auth.GenerateToken("ws-secret", uuid.Nil, rid, "OWNER", "Marco")
	if err != nil {
		t.Fatal(err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, rid, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	select {
	case <-joined:
	case <-time.After(time.Second):
		t.Fatal("client never joined")
	}

	hub.BroadcastToRestaurant(rid, []byte(`{"type":"floor.snapshot"}`))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != `{"type":"floor.snapshot"}` {
		t.Errorf("message: %s", msg)
	}
}
