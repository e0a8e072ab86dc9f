package ws

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"rollball/internal/collect"
	"rollball/internal/config"
	"rollball/internal/game"
	"rollball/internal/player"
	"rollball/internal/scene"
)

// Server принимает WebSocket соединения браузерных клиентов, транслирует им
// состояние сцены и события ядра, а входящий ввод передает игровой сессии.
// Создание и удаление узлов рассылается реактивно через хуки графа;
// трансформации уходят пакетами с настроенным интервалом из системы кадра.
type Server struct {
	logger     *log.Logger
	cfg        config.NetConfig
	session    *game.Session
	serializer *Serializer
	upgrader   websocket.Upgrader

	handlers map[string]func(*SafeWriter, []byte) error

	clients   map[*SafeWriter]bool
	clientsMu sync.Mutex

	updateInterval float64
	sinceLast      float64
}

// NewServer создает WebSocket сервер над игровой сессией
func NewServer(session *game.Session, cfg config.NetConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		logger:     logger.WithPrefix("ws"),
		cfg:        cfg,
		session:    session,
		serializer: NewSerializer(session.Graph()),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handlers:       make(map[string]func(*SafeWriter, []byte) error),
		clients:        make(map[*SafeWriter]bool),
		updateInterval: float64(cfg.UpdateIntervalMS) / 1000.0,
	}
	if s.updateInterval <= 0 {
		s.updateInterval = 0.05
	}

	s.registerHandlers()
	s.subscribeScene()
	s.subscribeEvents()
	session.Ticker().Register(&broadcastSystem{s: s})

	return s
}

func (s *Server) registerHandlers() {
	s.handlers[MessageTypeInput] = func(conn *SafeWriter, data []byte) error {
		msg, err := ParseMessage(data)
		if err != nil {
			return err
		}
		in := msg.(*InputMessage)
		s.session.SetIntent(player.Intent{
			Forward:  in.Forward,
			Backward: in.Backward,
			Left:     in.Left,
			Right:    in.Right,
			Jump:     in.Jump,
		})
		return nil
	}

	s.handlers[MessageTypePing] = func(conn *SafeWriter, data []byte) error {
		msg, err := ParseMessage(data)
		if err != nil {
			return err
		}
		ping := msg.(*PingMessage)
		return conn.WriteJSON(map[string]interface{}{
			"type":        MessageTypePong,
			"client_time": ping.ClientTime,
			"server_time": serverTimeMs(),
		})
	}

	// Перестройка уровня трогает тела, препятствия и предметы, поэтому
	// выполняется не на горутине соединения, а в очереди команд кадра
	s.handlers[MessageTypeRestart] = func(conn *SafeWriter, data []byte) error {
		s.session.Enqueue(func() {
			if err := s.session.RestartLevel(); err != nil {
				s.logger.Error("Не удалось перезапустить уровень", "err", err)
				return
			}
			s.resyncAll()
		})
		return nil
	}

	s.handlers[MessageTypeNextLevel] = func(conn *SafeWriter, data []byte) error {
		s.session.Enqueue(func() {
			ok, err := s.session.AdvanceToNextLevel()
			if err != nil {
				s.logger.Error("Не удалось перейти на следующий уровень", "err", err)
				return
			}
			if !ok {
				if err := conn.WriteJSON(map[string]interface{}{
					"type":  MessageTypeEvent,
					"event": "sequence_finished",
				}); err != nil {
					s.logger.Warn("Не удалось ответить клиенту", "err", err)
				}
				return
			}
			s.resyncAll()
		})
		return nil
	}

	s.handlers[MessageTypePause] = func(conn *SafeWriter, data []byte) error {
		s.session.Pause()
		return nil
	}

	s.handlers[MessageTypeResume] = func(conn *SafeWriter, data []byte) error {
		s.session.Resume()
		return nil
	}
}

// subscribeScene рассылает create/remove при изменениях состава сцены
func (s *Server) subscribeScene() {
	graph := s.session.Graph()
	graph.OnAdd(func(node *scene.Node) {
		s.broadcast(s.serializer.MakeCreate(node))
	})
	graph.OnRemove(func(node *scene.Node) {
		s.broadcast(s.serializer.MakeRemove(node.ID))
	})
}

// subscribeEvents транслирует события ядра клиентам
func (s *Server) subscribeEvents() {
	events := s.session.Events()

	events.OnCoin(func(id string, value, score int) {
		s.broadcast(map[string]interface{}{
			"type": MessageTypeEvent, "event": "coin",
			"id": id, "value": value, "score": score,
		})
	})

	events.OnPowerUp(func(id string, kind collect.Type, duration float64) {
		s.broadcast(map[string]interface{}{
			"type": MessageTypeEvent, "event": "power_up",
			"id": id, "kind": string(kind), "duration": duration,
		})
	})

	events.OnCheckpoint(func(id string, spawn mgl32.Vec3) {
		s.broadcast(map[string]interface{}{
			"type": MessageTypeEvent, "event": "checkpoint",
			"id": id, "x": spawn.X(), "y": spawn.Y(), "z": spawn.Z(),
		})
	})

	events.OnDeath(func() {
		s.broadcast(map[string]interface{}{
			"type": MessageTypeEvent, "event": "death",
		})
	})

	events.OnComplete(func(levelIndex int, elapsed float64) {
		s.broadcast(map[string]interface{}{
			"type": MessageTypeEvent, "event": "level_complete",
			"level": levelIndex, "time": elapsed,
			"coins":       s.session.Resolver().CoinsCollected(),
			"coins_total": s.session.Resolver().CoinsTotal(),
			"score":       s.session.Resolver().Score(),
		})
	})
}

// HandleWS обрабатывает жизненный цикл одного WebSocket соединения
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Не удалось установить соединение", "err", err)
		return
	}

	writer := NewSafeWriter(conn)

	s.clientsMu.Lock()
	s.clients[writer] = true
	count := len(s.clients)
	s.clientsMu.Unlock()
	s.logger.Info("Клиент подключен", "remote", r.RemoteAddr, "clients", count)

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, writer)
		s.clientsMu.Unlock()
		writer.Close()
		s.logger.Info("Клиент отключен", "remote", r.RemoteAddr)
	}()

	// Снимок сцены и описание уровня для нового клиента. Снимок читает
	// трансформации узлов, которые пишет игровой цикл, поэтому собирается
	// в очереди команд кадра, а не здесь
	s.session.Enqueue(func() {
		if err := s.sendLevelInfo(writer); err != nil {
			return
		}
		if err := s.serializer.SendCreateForAll(writer); err != nil {
			s.logger.Error("Не удалось отправить снимок сцены", "err", err)
		}
	})

	for {
		_, data, err := writer.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("Ошибка чтения", "err", err)
			}
			return
		}

		msgType, err := GetMessageType(data)
		if err != nil {
			s.logger.Warn("Сообщение без типа", "err", err)
			continue
		}

		handler, ok := s.handlers[msgType]
		if !ok {
			s.logger.Warn("Нет обработчика для сообщения", "type", msgType)
			continue
		}

		if err := handler(writer, data); err != nil {
			s.logger.Error("Ошибка обработки сообщения", "type", msgType, "err", err)
		}
	}
}

func (s *Server) sendLevelInfo(writer *SafeWriter) error {
	orch := s.session.Orchestrator()
	return writer.WriteJSON(map[string]interface{}{
		"type":   MessageTypeLevel,
		"index":  orch.CurrentIndex(),
		"name":   orch.LevelName(),
		"levels": orch.LevelCount(),
	})
}

// resyncAll заново отправляет всем клиентам описание уровня и снимок сцены
func (s *Server) resyncAll() {
	s.clientsMu.Lock()
	clients := make([]*SafeWriter, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.Unlock()

	for _, c := range clients {
		if err := s.sendLevelInfo(c); err != nil {
			continue
		}
		if err := s.serializer.SendCreateForAll(c); err != nil {
			s.logger.Error("Не удалось пересинхронизировать клиента", "err", err)
		}
	}
}

func (s *Server) broadcast(msg interface{}) {
	s.clientsMu.Lock()
	clients := make([]*SafeWriter, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.Unlock()

	for _, c := range clients {
		if err := c.WriteJSON(msg); err != nil {
			s.logger.Warn("Клиент выпал при рассылке", "err", err)
			s.clientsMu.Lock()
			delete(s.clients, c)
			s.clientsMu.Unlock()
			c.Close()
		}
	}
}

// ClientCount возвращает количество подключенных клиентов
func (s *Server) ClientCount() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

// broadcastSystem — система кадра, пакетно рассылающая трансформации узлов.
// Интервал рассылки независим от частоты тиков симуляции.
type broadcastSystem struct {
	s *Server
}

func (b *broadcastSystem) Update(dt float64) error {
	b.s.sinceLast += dt
	if b.s.sinceLast < b.s.updateInterval {
		return nil
	}
	b.s.sinceLast = 0

	if b.s.ClientCount() == 0 {
		return nil
	}
	for _, update := range b.s.serializer.MakeUpdatesForAll() {
		b.s.broadcast(update)
	}
	return nil
}

func (b *broadcastSystem) Name() string  { return "broadcast" }
func (b *broadcastSystem) Priority() int { return 60 }
