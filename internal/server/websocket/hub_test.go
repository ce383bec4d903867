package websocket

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.uber.org/goleak"
)

// TestHub_NewHub tests hub creation.
func TestHub_NewHub(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
	if hub.clients == nil {
		t.Error("clients map not initialized")
	}
	if hub.broadcast == nil {
		t.Error("broadcast channel not initialized")
	}
}

// TestHub_BroadcastAndShutdown tests delivery and disconnect on shutdown.
func TestHub_BroadcastAndShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger := zerolog.Nop()
	hub := NewHub(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client1 := NewClient("s-1", hub, nil, nil)
	client2 := NewClient("s-2", hub, nil, nil)
	hub.Register(client1)
	hub.Register(client2)
	time.Sleep(10 * time.Millisecond)

	if count := hub.ClientCount(); count != 2 {
		t.Fatalf("expected 2 clients, got %d", count)
	}

	hub.Broadcast(Message{Type: TypeShutdown, Timestamp: time.Now()})
	for _, c := range []*Client{client1, client2} {
		select {
		case received := <-c.send:
			if received.Type != TypeShutdown {
				t.Errorf("%s: expected type %s, got %s", c.ID(), TypeShutdown, received.Type)
			}
		case <-time.After(200 * time.Millisecond):
			t.Errorf("%s: did not receive message", c.ID())
		}
	}

	cancel()
	<-done

	if count := hub.ClientCount(); count != 0 {
		t.Errorf("expected 0 clients after shutdown, got %d", count)
	}
	if client1.enqueue(Message{Type: TypeTree}) {
		t.Error("enqueue succeeded on a closed client")
	}
}

// TestHub_MessageOrdering tests that messages maintain order for each client.
func TestHub_MessageOrdering(t *testing.T) {
	logger := zerolog.Nop()
	hub := NewHub(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go hub.Run(ctx)

	client := NewClient("test", hub, nil, nil)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	const numMessages = 20
	for i := 0; i < numMessages; i++ {
		hub.Broadcast(Message{Type: "ordered", Data: map[string]any{"seq": i}})
	}

	for i := 0; i < numMessages; i++ {
		select {
		case msg := <-client.send:
			data, ok := msg.Data.(map[string]any)
			if !ok {
				t.Fatal("invalid message data type")
			}
			if seq, _ := data["seq"].(int); seq != i {
				t.Errorf("expected seq=%d, got %d (out of order)", i, seq)
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("timeout waiting for message %d", i)
		}
	}
}

// TestClient_Session tests a full session over a real connection.
func TestClient_Session(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger := zerolog.Nop()
	hub := NewHub(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	var handled atomic.Int32
	handle := func(_ context.Context, in Inbound) Message {
		handled.Add(1)
		if in.Type != TypeSnapshot {
			return ErrorMessage(fmt.Sprintf("unsupported message type %q", in.Type))
		}
		return Message{
			Type:      TypeTree,
			Timestamp: time.Now(),
			Data:      map[string]any{"root": in.Tree["root"], "final": in.Final},
		}
	}

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient("session-1", hub, conn, handle)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump(ctx)
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	roundTrip := func(payload string) Message {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			t.Fatalf("write: %v", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var reply Message
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("read: %v", err)
		}
		return reply
	}

	reply := roundTrip(`{"type":"snapshot","tree":{"root":"main","elements":{}},"final":true}`)
	if reply.Type != TypeTree {
		t.Errorf("expected %s, got %s", TypeTree, reply.Type)
	}
	if reply.Session != "session-1" {
		t.Errorf("expected session-1, got %q", reply.Session)
	}
	if data, _ := reply.Data.(map[string]any); data["root"] != "main" || data["final"] != true {
		t.Errorf("unexpected data %v", reply.Data)
	}

	if reply := roundTrip(`{"type":"interact","path":"/x","value":1}`); reply.Type != TypeError {
		t.Errorf("expected error reply, got %s", reply.Type)
	}
	if reply := roundTrip(`not json`); reply.Type != TypeError {
		t.Errorf("expected error reply for invalid JSON, got %s", reply.Type)
	}
	if n := handled.Load(); n != 2 {
		t.Errorf("expected handler to see 2 messages, saw %d", n)
	}
	if count := hub.ClientCount(); count != 1 {
		t.Errorf("expected 1 client, got %d", count)
	}

	hub.Broadcast(Message{Type: TypeShutdown, Timestamp: time.Now()})
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var shutdown Message
	if err := conn.ReadJSON(&shutdown); err != nil || shutdown.Type != TypeShutdown {
		t.Errorf("expected shutdown message, got %v (%v)", shutdown.Type, err)
	}

	_ = conn.Close()
	cancel()
	<-hubDone
	srv.Close()
}
