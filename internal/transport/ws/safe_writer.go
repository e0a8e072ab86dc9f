package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// SafeWriter обеспечивает потокобезопасную запись в WebSocket соединение.
// Игровой цикл и обработчики входящих сообщений пишут в одно соединение
// из разных горутин; gorilla/websocket требует не более одного писателя.
type SafeWriter struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

// NewSafeWriter создает новый экземпляр SafeWriter
func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{conn: conn}
}

// WriteJSON потокобезопасно отправляет JSON данные через WebSocket
func (w *SafeWriter) WriteJSON(v interface{}) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// WriteMessage потокобезопасно записывает сырое сообщение
func (w *SafeWriter) WriteMessage(messageType int, data []byte) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteMessage(messageType, data)
}

// Close закрывает WebSocket соединение
func (w *SafeWriter) Close() error {
	return w.conn.Close()
}

// ReadMessage читает сообщение из соединения; параллельное чтение небезопасно
func (w *SafeWriter) ReadMessage() (int, []byte, error) {
	return w.conn.ReadMessage()
}
