package game

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/collect"
)

// Events — шина уведомлений ядра: звук, интерфейс и сеть подписываются
// на события и получают их fire-and-forget. Паника в подписчике
// изолируется и не прерывает ни рассылку, ни игровой кадр.
// Реализует collect.Broadcaster, поэтому резолвер подбора шлет
// события напрямую в шину.
type Events struct {
	logger *log.Logger

	coin       []func(id string, value, score int)
	powerUp    []func(id string, kind collect.Type, duration float64)
	checkpoint []func(id string, spawn mgl32.Vec3)
	death      []func()
	complete   []func(levelIndex int, elapsed float64)
}

// NewEvents создает шину событий
func NewEvents(logger *log.Logger) *Events {
	if logger == nil {
		logger = log.Default()
	}
	return &Events{logger: logger.WithPrefix("events")}
}

// OnCoin подписывает на подбор монеты
func (e *Events) OnCoin(fn func(id string, value, score int)) {
	e.coin = append(e.coin, fn)
}

// OnPowerUp подписывает на подбор усиления
func (e *Events) OnPowerUp(fn func(id string, kind collect.Type, duration float64)) {
	e.powerUp = append(e.powerUp, fn)
}

// OnCheckpoint подписывает на активацию чекпоинта
func (e *Events) OnCheckpoint(fn func(id string, spawn mgl32.Vec3)) {
	e.checkpoint = append(e.checkpoint, fn)
}

// OnDeath подписывает на смерть игрока
func (e *Events) OnDeath(fn func()) {
	e.death = append(e.death, fn)
}

// OnComplete подписывает на прохождение уровня
func (e *Events) OnComplete(fn func(levelIndex int, elapsed float64)) {
	e.complete = append(e.complete, fn)
}

// BroadcastCoinCollected раздает событие подбора монеты
func (e *Events) BroadcastCoinCollected(id string, value, score int) {
	for _, fn := range e.coin {
		e.safeCall("coin", func() { fn(id, value, score) })
	}
}

// BroadcastPowerUpCollected раздает событие подбора усиления
func (e *Events) BroadcastPowerUpCollected(id string, kind collect.Type, duration float64) {
	for _, fn := range e.powerUp {
		e.safeCall("power_up", func() { fn(id, kind, duration) })
	}
}

// BroadcastCheckpointActivated раздает событие активации чекпоинта
func (e *Events) BroadcastCheckpointActivated(id string, spawn mgl32.Vec3) {
	for _, fn := range e.checkpoint {
		e.safeCall("checkpoint", func() { fn(id, spawn) })
	}
}

// EmitDeath раздает событие смерти игрока
func (e *Events) EmitDeath() {
	for _, fn := range e.death {
		e.safeCall("death", fn)
	}
}

// EmitComplete раздает событие прохождения уровня
func (e *Events) EmitComplete(levelIndex int, elapsed float64) {
	for _, fn := range e.complete {
		e.safeCall("complete", func() { fn(levelIndex, elapsed) })
	}
}

func (e *Events) safeCall(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Паника в подписчике события", "event", kind, "panic", r)
		}
	}()
	fn()
}
