// Package obstacle реализует поведение препятствий уровня.
// Каждый тип — независимая машина состояний с общим контрактом Update(dt);
// вместо замыканий на экземплярах используется помеченное объединение:
// дискриминант Kind и полезная нагрузка на тип, диспетчеризуемые одним switch.
package obstacle

import (
	"rollball/internal/physics"
)

// Kind определяет тип препятствия
type Kind int

const (
	KindRevolvingBar Kind = iota
	KindMovingPlatform
	KindSpikeTrap
	KindPendulum
	KindDisappearingPlatform
	KindVortex
)

// String возвращает имя типа препятствия
func (k Kind) String() string {
	switch k {
	case KindRevolvingBar:
		return "revolving_bar"
	case KindMovingPlatform:
		return "moving_platform"
	case KindSpikeTrap:
		return "spike_trap"
	case KindPendulum:
		return "pendulum"
	case KindDisappearingPlatform:
		return "disappearing_platform"
	case KindVortex:
		return "vortex"
	}
	return "unknown"
}

// Obstacle — помеченное объединение всех типов препятствий.
// Заполнено ровно одно поле полезной нагрузки, соответствующее Kind.
type Obstacle struct {
	Kind Kind
	Name string

	revolver *Revolver
	mover    *Mover
	spike    *SpikeTrap
	pendulum *Pendulum
	vanisher *Vanisher
	vortex   *Vortex
}

// Update продвигает машину состояний препятствия на dt секунд
func (o *Obstacle) Update(dt float64) {
	switch o.Kind {
	case KindRevolvingBar:
		o.revolver.update(dt)
	case KindMovingPlatform:
		o.mover.update(dt)
	case KindSpikeTrap:
		o.spike.update(dt)
	case KindPendulum:
		o.pendulum.update(dt)
	case KindDisappearingPlatform:
		o.vanisher.update(dt)
	case KindVortex:
		o.vortex.update(dt)
	}
}

// OnPlayerContact сообщает препятствию о касании игроком.
// Для типов без событийных переходов — no-op.
func (o *Obstacle) OnPlayerContact() {
	if o.Kind == KindDisappearingPlatform {
		o.vanisher.onPlayerContact()
	}
}

// ApplyForceToPlayer применяет непрерывную силу препятствия к игроку.
// Действует только вихрь; остальные типы влияют на игрока через контакты.
func (o *Obstacle) ApplyForceToPlayer(body *physics.Body, dt float64) {
	if o.Kind == KindVortex {
		o.vortex.applyForce(body)
	}
}

// Cleanup освобождает все тела, связи и визуальные узлы препятствия
func (o *Obstacle) Cleanup() {
	switch o.Kind {
	case KindRevolvingBar:
		o.revolver.cleanup()
	case KindMovingPlatform:
		o.mover.cleanup()
	case KindSpikeTrap:
		o.spike.cleanup()
	case KindPendulum:
		o.pendulum.cleanup()
	case KindDisappearingPlatform:
		o.vanisher.cleanup()
	case KindVortex:
		o.vortex.cleanup()
	}
}
