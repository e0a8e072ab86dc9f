package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// Поднимает эхо-сервер и возвращает клиентское соединение к нему
func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(msgType, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSafeWriter_WriteJSONRoundTrip(t *testing.T) {
	writer := NewSafeWriter(dialTestServer(t))

	payload := map[string]interface{}{"type": "update", "id": "player", "x": 1.5}
	if err := writer.WriteJSON(payload); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	_, data, err := writer.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Echoed payload is not JSON: %v", err)
	}
	if got["type"] != "update" || got["id"] != "player" {
		t.Errorf("Payload mangled: %v", got)
	}
}

func TestSafeWriter_ConcurrentWrites(t *testing.T) {
	writer := NewSafeWriter(dialTestServer(t))

	const writers = 8
	const perWriter = 20

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if err := writer.WriteJSON(map[string]interface{}{"writer": n, "seq": j}); err != nil {
					t.Errorf("WriteJSON failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	// Каждое эхо-сообщение должно остаться валидным JSON: перемешивание
	// кадров при гонке писателей дало бы мусор
	for i := 0; i < writers*perWriter; i++ {
		_, data, err := writer.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed on message %d: %v", i, err)
		}
		var got map[string]interface{}
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Message %d is corrupted: %v", i, err)
		}
	}
}
