package game

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/collect"
	"rollball/internal/config"
	"rollball/internal/level"
	"rollball/internal/physics"
	"rollball/internal/player"
	"rollball/internal/scene"
)

// RunRecorder сохраняет результаты прохождений уровней
type RunRecorder interface {
	SaveRun(levelIndex int, levelName string, duration float64, coins, coinsTotal, score int) error
}

// Session собирает ядро игры в один работающий организм: физический мир,
// граф сцены, контроллер игрока, резолвер подбора и оркестратор уровней,
// связанные упорядоченными системами кадра. Порядок внутри кадра фиксирован:
// препятствия, физика, игрок, подбор, уровень.
type Session struct {
	logger *log.Logger
	cfg    config.Config

	world        *physics.World
	graph        *scene.Graph
	player       *player.Controller
	resolver     *collect.Resolver
	orchestrator *level.Orchestrator
	events       *Events
	ticker       *Ticker

	systems []System

	intentMu sync.Mutex
	intent   player.Intent

	commandMu sync.Mutex
	commands  []func()

	completeHandled bool
	recorder        RunRecorder
}

// NewSession создает игровую сессию над последовательностью уровней
func NewSession(cfg config.Config, levels []*level.Level, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}

	s := &Session{
		logger: logger.WithPrefix("session"),
		cfg:    cfg,
	}

	s.world = physics.NewWorld(cfg.Physics, logger)
	s.graph = scene.NewGraph()
	// Стартовая позиция уточнится при загрузке уровня
	s.player = player.NewController(s.world, s.graph, cfg.Player, mgl32.Vec3{0, 1, 0}, logger)
	s.resolver = collect.NewResolver(s.graph, s.player, logger)
	s.orchestrator = level.NewOrchestrator(s.world, s.graph, s.player, s.resolver, levels, logger)
	s.events = NewEvents(logger)
	s.ticker = NewTicker(cfg.Game.TargetTPS, logger)

	s.resolver.SetBroadcaster(s.events)
	s.orchestrator.OnHazard(s.player.Kill)
	s.player.OnDeath(s.events.EmitDeath)

	s.systems = []System{
		&commandSystem{s: s},
		&obstacleSystem{s: s},
		&physicsSystem{s: s},
		&playerSystem{s: s},
		&collectSystem{s: s},
		&levelSystem{s: s},
	}
	for _, system := range s.systems {
		s.ticker.Register(system)
	}

	return s
}

// SetRecorder устанавливает хранилище результатов прохождений
func (s *Session) SetRecorder(r RunRecorder) {
	s.recorder = r
}

// Start загружает первый уровень и запускает игровой цикл
func (s *Session) Start() error {
	if _, err := s.orchestrator.LoadLevel(0); err != nil {
		return fmt.Errorf("session: не удалось загрузить первый уровень: %w", err)
	}
	s.completeHandled = false
	s.ticker.Start()
	return nil
}

// Stop останавливает игровой цикл
func (s *Session) Stop() {
	s.ticker.Stop()
}

// Pause приостанавливает обновление; все игровые таймеры замирают
func (s *Session) Pause() {
	s.ticker.Pause()
}

// Resume возобновляет обновление без учета времени паузы
func (s *Session) Resume() {
	s.ticker.Resume()
}

// Enqueue ставит команду в очередь кадра. Перестройка мира разрешена
// только между кадрами, поэтому внешние горутины никогда не трогают
// состояние напрямую: команда выполнится в начале ближайшего кадра.
func (s *Session) Enqueue(fn func()) {
	s.commandMu.Lock()
	s.commands = append(s.commands, fn)
	s.commandMu.Unlock()
}

// drainCommands выполняет накопленные команды в порядке поступления
func (s *Session) drainCommands() {
	s.commandMu.Lock()
	pending := s.commands
	s.commands = nil
	s.commandMu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// SetIntent принимает снимок ввода; применится в ближайшем кадре
func (s *Session) SetIntent(in player.Intent) {
	s.intentMu.Lock()
	s.intent = in
	s.intentMu.Unlock()
}

func (s *Session) currentIntent() player.Intent {
	s.intentMu.Lock()
	defer s.intentMu.Unlock()
	return s.intent
}

// LoadLevel загружает уровень по индексу. Перестраивает тела и узлы,
// поэтому из чужих горутин вызывается только через Enqueue.
func (s *Session) LoadLevel(index int) error {
	if _, err := s.orchestrator.LoadLevel(index); err != nil {
		return err
	}
	s.completeHandled = false
	s.SetIntent(player.Intent{})
	return nil
}

// RestartLevel перезапускает текущий уровень, сохраняя чекпоинты.
// Из чужих горутин вызывается только через Enqueue.
func (s *Session) RestartLevel() error {
	if err := s.orchestrator.RestartLevel(); err != nil {
		return err
	}
	s.completeHandled = false
	s.SetIntent(player.Intent{})
	return nil
}

// AdvanceToNextLevel загружает следующий уровень последовательности.
// Возвращает false, когда последовательность закончилась.
func (s *Session) AdvanceToNextLevel() (bool, error) {
	next := s.orchestrator.NextLevelIndex()
	if next == level.NoNextLevel {
		return false, nil
	}
	return true, s.LoadLevel(next)
}

// frame выполняет один игровой кадр; вынесено для детерминированных тестов
func (s *Session) frame(dt float64) {
	for _, system := range s.systems {
		if err := system.Update(dt); err != nil {
			s.logger.Error("Ошибка системы кадра", "system", system.Name(), "err", err)
		}
	}
}

func (s *Session) handleCompletion() {
	if s.completeHandled {
		return
	}
	s.completeHandled = true

	index := s.orchestrator.CurrentIndex()
	elapsed := s.orchestrator.CompletionTime()
	s.events.EmitComplete(index, elapsed)

	if s.recorder != nil {
		err := s.recorder.SaveRun(index, s.orchestrator.LevelName(), elapsed,
			s.resolver.CoinsCollected(), s.resolver.CoinsTotal(), s.resolver.Score())
		if err != nil {
			s.logger.Error("Не удалось сохранить результат", "err", err)
		}
	}
}

// World возвращает физический мир сессии
func (s *Session) World() *physics.World {
	return s.world
}

// Graph возвращает граф сцены сессии
func (s *Session) Graph() *scene.Graph {
	return s.graph
}

// Player возвращает контроллер игрока
func (s *Session) Player() *player.Controller {
	return s.player
}

// Resolver возвращает резолвер подбора
func (s *Session) Resolver() *collect.Resolver {
	return s.resolver
}

// Orchestrator возвращает оркестратор уровней
func (s *Session) Orchestrator() *level.Orchestrator {
	return s.orchestrator
}

// Events возвращает шину событий
func (s *Session) Events() *Events {
	return s.events
}

// Ticker возвращает игровой цикл
func (s *Session) Ticker() *Ticker {
	return s.ticker
}
