package player

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/config"
	"rollball/internal/physics"
	"rollball/internal/scene"
)

// Intent — снимок ввода за один кадр: четыре независимых направления и прыжок
type Intent struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
}

// Controller управляет шаром игрока поверх физического мира.
// Состояние Grounded/Airborne выводится из контактов: любой контакт с
// нормалью, направленной заметно вверх, возвращает игрока на землю.
type Controller struct {
	logger *log.Logger
	world  *physics.World
	cfg    config.PlayerConfig

	body *physics.Body
	node *scene.Node

	spawn mgl32.Vec3

	// Вектор намерения движения в горизонтальной плоскости, единичной длины
	move     mgl32.Vec3
	wantJump bool

	grounded     bool
	groundedNow  bool
	lastStepSeen uint64

	jumpCooldown float64

	hasJumpPower  bool
	jumpPowerLeft float64

	hasSpeedBoost  bool
	speedBoostLeft float64

	onDeath []func()
}

// NewController создает тело и узел игрока и регистрирует их в мире
func NewController(world *physics.World, graph *scene.Graph, cfg config.PlayerConfig, spawn mgl32.Vec3, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		logger: logger.WithPrefix("player"),
		world:  world,
		cfg:    cfg,
		spawn:  spawn,
	}

	c.body = world.NewSphereBody(cfg.Radius, spawn, cfg.Mass)
	c.node = scene.NewSphereNode("player", spawn, cfg.Radius, "#4488ff")
	graph.Add(c.node)
	world.RegisterPair(c.body, c.node)

	world.OnContact(c.body, c.handleContact)

	return c
}

// handleContact переводит игрока в Grounded при контакте с опорой
func (c *Controller) handleContact(contact physics.Contact) {
	if contact.Normal.Dot(mgl32.Vec3{0, 1, 0}) > 0.5 {
		c.groundedNow = true
	}
}

// ProcessInput превращает снимок ввода в вектор намерения.
// Диагональное движение нормализуется, чтобы не быть быстрее осевого.
func (c *Controller) ProcessInput(in Intent) {
	var x, z float32
	if in.Forward {
		z -= 1
	}
	if in.Backward {
		z += 1
	}
	if in.Left {
		x -= 1
	}
	if in.Right {
		x += 1
	}

	move := mgl32.Vec3{x, 0, z}
	if x != 0 && z != 0 {
		move = move.Normalize()
	}

	c.move = move
	c.wantJump = in.Jump
}

// Update продвигает контроллер на dt секунд: таймеры, движение, прыжок,
// проверка плоскости смерти. Вызывается после физического шага кадра.
func (c *Controller) Update(dt float64) {
	// Контакты приходят только из реально выполненных под-шагов: кадр
	// короче fixedStep не продвигает симуляцию, и состояние опоры
	// сохраняется вместо ложного перехода в Airborne
	if seen := c.world.SubStepCount(); seen != c.lastStepSeen {
		c.lastStepSeen = seen
		c.grounded = c.groundedNow
		c.groundedNow = false
	}

	c.advanceTimers(dt)
	c.applyMovement(dt)

	if c.wantJump {
		c.Jump()
	}

	c.checkBounds()
}

// advanceTimers продвигает кулдаун прыжка и таймеры бонусов.
// Таймеры считаются кадровым dt, а не настенными часами: пауза игрового
// цикла точно останавливает и их.
func (c *Controller) advanceTimers(dt float64) {
	if c.jumpCooldown > 0 {
		c.jumpCooldown -= dt
	}

	if c.hasJumpPower {
		c.jumpPowerLeft -= dt
		if c.jumpPowerLeft <= 0 {
			c.hasJumpPower = false
			c.logger.Debug("бонус прыжка истек")
		}
	}

	if c.hasSpeedBoost {
		c.speedBoostLeft -= dt
		if c.speedBoostLeft <= 0 {
			c.hasSpeedBoost = false
			c.logger.Debug("бонус скорости истек")
		}
	}
}

// applyMovement прикладывает силу движения и ограничивает горизонтальную
// скорость; вертикальную составляющую ограничение не трогает
func (c *Controller) applyMovement(dt float64) {
	boost := float32(1.0)
	if c.hasSpeedBoost {
		boost = c.cfg.SpeedBoostFactor
	}

	if c.move.Dot(c.move) > 0 {
		c.world.ApplyForce(c.body, c.move, c.cfg.MoveForce*boost)
		c.clampHorizontalSpeed(c.cfg.MaxSpeed * boost)
		return
	}

	// Без намерения движения шар плавно гасится экспоненциальным затуханием
	v := c.body.Velocity
	c.body.Velocity = mgl32.Vec3{
		v.X() * c.cfg.IdleDamping,
		v.Y(),
		v.Z() * c.cfg.IdleDamping,
	}
}

func (c *Controller) clampHorizontalSpeed(max float32) {
	v := c.body.Velocity
	horizontal := mgl32.Vec3{v.X(), 0, v.Z()}
	speed := horizontal.Len()
	if speed <= max {
		return
	}

	scaled := horizontal.Mul(max / speed)
	c.body.Velocity = mgl32.Vec3{scaled.X(), v.Y(), scaled.Z()}
}

// Jump выполняет прыжок, если игрок на земле, кулдаун истек и активен бонус
// прыжка: прыжок — способность из бонуса, а не базовое умение
func (c *Controller) Jump() {
	if !c.grounded || c.jumpCooldown > 0 || !c.hasJumpPower {
		return
	}

	c.world.ApplyImpulse(c.body, mgl32.Vec3{0, 1, 0}, c.cfg.JumpImpulse)
	c.grounded = false
	c.jumpCooldown = c.cfg.JumpCooldown
}

// checkBounds проверяет плоскость смерти
func (c *Controller) checkBounds() {
	if c.body.Position.Y() < c.cfg.DeathY {
		c.Kill()
	}
}

// Kill немедленно убивает игрока: респаун, сброс скоростей и бонусов,
// уведомление подписчиков. Используется плоскостью смерти и ловушками.
func (c *Controller) Kill() {
	c.logger.Info("игрок погиб", "y", c.body.Position.Y())

	c.Respawn()
	c.hasJumpPower = false
	c.hasSpeedBoost = false
	c.jumpPowerLeft = 0
	c.speedBoostLeft = 0

	for _, fn := range c.onDeath {
		notify(fn)
	}
}

// Respawn возвращает игрока в точку спауна с нулевыми скоростями
func (c *Controller) Respawn() {
	c.body.Position = c.spawn
	c.body.ZeroMotion()
	c.grounded = false
	c.groundedNow = false
	c.node.Position = c.spawn
}

// SetSpawnPoint задает точку, куда возвращают респаун и смерть.
// Вызывается при активации чекпоинта.
func (c *Controller) SetSpawnPoint(position mgl32.Vec3) {
	c.spawn = position
}

// GiveJumpPower включает способность прыжка на duration секунд.
// Повторный подбор перезапускает таймер, а не складывает эффекты.
func (c *Controller) GiveJumpPower(duration float64) {
	c.hasJumpPower = true
	c.jumpPowerLeft = duration
	c.logger.Debug("получен бонус прыжка", "duration", duration)
}

// GiveSpeedBoost включает ускорение на duration секунд
func (c *Controller) GiveSpeedBoost(duration float64) {
	c.hasSpeedBoost = true
	c.speedBoostLeft = duration
	c.logger.Debug("получен бонус скорости", "duration", duration)
}

// OnDeath регистрирует уведомление о смерти игрока
func (c *Controller) OnDeath(fn func()) {
	c.onDeath = append(c.onDeath, fn)
}

// notify вызывает колбэк с защитой от паники: косметические подписчики
// не имеют права ломать игровые переходы
func notify(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

// Position возвращает текущую позицию шара
func (c *Controller) Position() mgl32.Vec3 {
	return c.body.Position
}

// Velocity возвращает текущую скорость шара
func (c *Controller) Velocity() mgl32.Vec3 {
	return c.body.Velocity
}

// HorizontalSpeed возвращает скорость в горизонтальной плоскости
func (c *Controller) HorizontalSpeed() float32 {
	v := c.body.Velocity
	return float32(math.Hypot(float64(v.X()), float64(v.Z())))
}

// Radius возвращает радиус шара игрока
func (c *Controller) Radius() float32 {
	return c.cfg.Radius
}

// Body возвращает физическое тело игрока
func (c *Controller) Body() *physics.Body {
	return c.body
}

// MoveIntent возвращает текущий вектор намерения движения
func (c *Controller) MoveIntent() mgl32.Vec3 {
	return c.move
}

// Grounded сообщает, стоит ли игрок на опоре
func (c *Controller) Grounded() bool {
	return c.grounded
}

// HasJumpPower сообщает, активен ли бонус прыжка
func (c *Controller) HasJumpPower() bool {
	return c.hasJumpPower
}

// HasSpeedBoost сообщает, активен ли бонус скорости
func (c *Controller) HasSpeedBoost() bool {
	return c.hasSpeedBoost
}

// SpawnPoint возвращает текущую точку спауна
func (c *Controller) SpawnPoint() mgl32.Vec3 {
	return c.spawn
}
