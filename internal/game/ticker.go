package game

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// System интерфейс для всех игровых систем кадра
type System interface {
	Update(dt float64) error
	Name() string
	Priority() int // меньше = раньше
}

// Ticker ведет игровой цикл с фиксированной целевой частотой. Все системы
// выполняются последовательно в порядке приоритета внутри одного тика:
// разделяемое состояние мутируется строго синхронно, без параллелизма.
// Пауза останавливает выполнение систем; при возобновлении точка отсчета
// дельты сбрасывается, чтобы время паузы не попало в накопители.
type Ticker struct {
	logger *log.Logger

	targetTPS    int
	tickDuration time.Duration

	isRunning bool
	tickCount uint64
	lastTick  time.Time

	systems   []System
	systemsMu sync.RWMutex

	metrics   map[string]*systemMetrics
	metricsMu sync.RWMutex

	ctx       context.Context
	cancel    context.CancelFunc
	pauseChan chan bool

	warningThreshold time.Duration
}

// systemMetrics накапливает показатели выполнения одной системы
type systemMetrics struct {
	lastTime time.Duration
	maxTime  time.Duration
	total    uint64
	errors   uint64
}

// NewTicker создает игровой цикл с целевой частотой тиков
func NewTicker(targetTPS int, logger *log.Logger) *Ticker {
	if targetTPS <= 0 {
		targetTPS = 60
	}
	if logger == nil {
		logger = log.Default()
	}

	tickDuration := time.Second / time.Duration(targetTPS)
	ctx, cancel := context.WithCancel(context.Background())

	return &Ticker{
		logger:           logger.WithPrefix("ticker"),
		targetTPS:        targetTPS,
		tickDuration:     tickDuration,
		metrics:          make(map[string]*systemMetrics),
		ctx:              ctx,
		cancel:           cancel,
		pauseChan:        make(chan bool, 1),
		warningThreshold: tickDuration / 2,
	}
}

// Register добавляет систему, сохраняя порядок по приоритету
func (t *Ticker) Register(system System) {
	t.systemsMu.Lock()
	defer t.systemsMu.Unlock()

	t.systems = append(t.systems, system)
	for i := len(t.systems) - 1; i > 0; i-- {
		if t.systems[i].Priority() < t.systems[i-1].Priority() {
			t.systems[i], t.systems[i-1] = t.systems[i-1], t.systems[i]
		} else {
			break
		}
	}

	t.metricsMu.Lock()
	t.metrics[system.Name()] = &systemMetrics{}
	t.metricsMu.Unlock()

	t.logger.Info("Система зарегистрирована", "system", system.Name(), "priority", system.Priority())
}

// Start запускает игровой цикл в отдельной горутине
func (t *Ticker) Start() {
	if t.isRunning {
		return
	}
	t.isRunning = true
	t.lastTick = time.Now()

	t.logger.Info("Игровой цикл запущен", "tps", t.targetTPS, "tick", t.tickDuration)
	go t.loop()
}

// Stop останавливает игровой цикл
func (t *Ticker) Stop() {
	if !t.isRunning {
		return
	}
	t.logger.Info("Игровой цикл остановлен", "ticks", t.tickCount)
	t.cancel()
	t.isRunning = false
}

// Pause приостанавливает выполнение систем; игровое время замирает
func (t *Ticker) Pause() {
	select {
	case t.pauseChan <- true:
	default:
	}
}

// Resume возобновляет цикл; время паузы не попадает в дельту кадра
func (t *Ticker) Resume() {
	select {
	case t.pauseChan <- false:
	default:
	}
}

func (t *Ticker) loop() {
	ticker := time.NewTicker(t.tickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return

		case paused := <-t.pauseChan:
			if paused {
				t.logger.Info("Игровой цикл на паузе", "tick", t.tickCount)
				for paused {
					select {
					case <-t.ctx.Done():
						return
					case paused = <-t.pauseChan:
					}
				}
				// Пауза не должна раздуть дельту первого кадра после нее
				t.lastTick = time.Now()
				t.logger.Info("Игровой цикл возобновлен", "tick", t.tickCount)
			}

		case now := <-ticker.C:
			t.executeTick(now)
		}
	}
}

func (t *Ticker) executeTick(now time.Time) {
	dt := now.Sub(t.lastTick).Seconds()
	t.lastTick = now
	t.tickCount++

	t.systemsMu.RLock()
	systems := make([]System, len(t.systems))
	copy(systems, t.systems)
	t.systemsMu.RUnlock()

	tickStart := time.Now()
	for _, system := range systems {
		t.runSystem(system, dt)
	}

	if total := time.Since(tickStart); total > t.warningThreshold {
		t.logger.Warn("Медленный тик", "took", total, "budget", t.tickDuration, "tick", t.tickCount)
	}
}

// runSystem выполняет одну систему; паника в системе не роняет цикл
func (t *Ticker) runSystem(system System, dt float64) {
	name := system.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Паника в системе", "system", name, "panic", r)
			t.recordError(name)
		}
	}()

	err := system.Update(dt)
	t.recordExecution(name, time.Since(start))
	if err != nil {
		t.logger.Error("Ошибка в системе", "system", name, "err", err)
		t.recordError(name)
	}
}

func (t *Ticker) recordExecution(name string, took time.Duration) {
	t.metricsMu.Lock()
	defer t.metricsMu.Unlock()
	m := t.metrics[name]
	if m == nil {
		return
	}
	m.lastTime = took
	m.total++
	if took > m.maxTime {
		m.maxTime = took
	}
}

func (t *Ticker) recordError(name string) {
	t.metricsMu.Lock()
	defer t.metricsMu.Unlock()
	if m := t.metrics[name]; m != nil {
		m.errors++
	}
}

// TickCount возвращает количество выполненных тиков
func (t *Ticker) TickCount() uint64 {
	return t.tickCount
}

// SystemErrors возвращает количество ошибок системы по имени
func (t *Ticker) SystemErrors(name string) uint64 {
	t.metricsMu.RLock()
	defer t.metricsMu.RUnlock()
	if m := t.metrics[name]; m != nil {
		return m.errors
	}
	return 0
}
