package player

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/config"
	"rollball/internal/physics"
	"rollball/internal/scene"
)

func newTestController() (*Controller, *physics.World) {
	cfg := config.Default()
	world := physics.NewWorld(cfg.Physics, nil)
	graph := scene.NewGraph()
	c := NewController(world, graph, cfg.Player, mgl32.Vec3{0, 2, 0}, nil)
	return c, world
}

func TestProcessInput_DiagonalIsUnitLength(t *testing.T) {
	c, _ := newTestController()

	cases := []struct {
		name   string
		intent Intent
	}{
		{"forward+left", Intent{Forward: true, Left: true}},
		{"forward+right", Intent{Forward: true, Right: true}},
		{"backward+left", Intent{Backward: true, Left: true}},
		{"backward+right", Intent{Backward: true, Right: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c.ProcessInput(tc.intent)
			length := float64(c.MoveIntent().Len())
			if math.Abs(length-1.0) > 1e-5 {
				t.Errorf("Expected unit move vector, got length %f", length)
			}
		})
	}
}

func TestProcessInput_AxisAligned(t *testing.T) {
	c, _ := newTestController()

	c.ProcessInput(Intent{Forward: true})
	if c.MoveIntent() != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Expected forward = -Z, got %v", c.MoveIntent())
	}

	// Противоположные направления взаимно гасятся
	c.ProcessInput(Intent{Left: true, Right: true})
	if c.MoveIntent().Len() != 0 {
		t.Errorf("Expected zero intent, got %v", c.MoveIntent())
	}
}

func TestUpdate_ClampsHorizontalSpeed(t *testing.T) {
	c, _ := newTestController()

	// Разгоняем шар заведомо выше лимита, вертикальную скорость не трогаем
	c.Body().Velocity = mgl32.Vec3{50, -7, 50}
	c.ProcessInput(Intent{Forward: true})
	c.Update(1.0 / 60.0)

	max := config.Default().Player.MaxSpeed
	if got := c.HorizontalSpeed(); got > max+1e-3 {
		t.Errorf("Expected horizontal speed <= %f, got %f", max, got)
	}
	if vy := c.Body().Velocity.Y(); vy != -7 {
		t.Errorf("Vertical velocity must not be clamped, got %f", vy)
	}
}

func TestUpdate_ClampUsesBoostFactor(t *testing.T) {
	c, _ := newTestController()
	cfg := config.Default().Player

	c.GiveSpeedBoost(10)
	c.Body().Velocity = mgl32.Vec3{100, 0, 0}
	c.ProcessInput(Intent{Right: true})
	c.Update(1.0 / 60.0)

	boosted := cfg.MaxSpeed * cfg.SpeedBoostFactor
	if got := c.HorizontalSpeed(); math.Abs(float64(got-boosted)) > 1e-3 {
		t.Errorf("Expected boosted clamp %f, got %f", boosted, got)
	}
}

func TestUpdate_IdleDamping(t *testing.T) {
	c, _ := newTestController()

	c.Body().Velocity = mgl32.Vec3{10, 0, 0}
	c.ProcessInput(Intent{})
	c.Update(1.0 / 60.0)

	expected := 10 * config.Default().Player.IdleDamping
	if vx := c.Body().Velocity.X(); math.Abs(float64(vx-expected)) > 1e-4 {
		t.Errorf("Expected damped vx %f, got %f", expected, vx)
	}
}

func TestJump_RequiresJumpPower(t *testing.T) {
	c, world := newTestController()

	// Игрок на земле и без кулдауна, но бонус прыжка не активен
	c.groundedNow = true
	world.Step(0.02)
	c.Update(1.0 / 60.0)
	if !c.Grounded() {
		t.Fatal("Expected grounded player")
	}

	before := c.Body().Velocity
	c.Jump()

	if c.Body().Velocity != before {
		t.Error("Jump without jump power must not change velocity")
	}
	if c.jumpCooldown > 0 {
		t.Error("Jump without jump power must not start cooldown")
	}
}

func TestJump_WithJumpPower(t *testing.T) {
	c, world := newTestController()
	cfg := config.Default().Player

	c.GiveJumpPower(10)
	c.groundedNow = true
	world.Step(0.02)
	c.Update(1.0 / 60.0)

	// Скорость свободного падения за шаг не должна влиять на замер импульса
	c.Body().Velocity = mgl32.Vec3{}
	c.Jump()

	expected := cfg.JumpImpulse / cfg.Mass
	if vy := c.Body().Velocity.Y(); math.Abs(float64(vy-expected)) > 1e-4 {
		t.Errorf("Expected vy=%f after jump, got %f", expected, vy)
	}
	if c.Grounded() {
		t.Error("Expected Airborne after jump")
	}

	// Повторный прыжок в кулдауне — no-op
	before := c.Body().Velocity
	c.grounded = true
	c.Jump()
	if c.Body().Velocity != before {
		t.Error("Jump during cooldown must be a no-op")
	}
}

func TestGrounded_SurvivesShortFrame(t *testing.T) {
	c, world := newTestController()
	world.NewBoxBody(10, 1, 10, mgl32.Vec3{0, -0.5, 0}, 0)

	// Даем шару осесть на опору
	for i := 0; i < 300; i++ {
		world.Step(1.0 / 60.0)
		c.Update(1.0 / 60.0)
	}
	if !c.Grounded() {
		t.Fatal("Setup failed: ball must settle on the box")
	}

	// Кадр короче фиксированного шага не выполняет ни одного под-шага:
	// контактов нет, но состояние опоры не должно мерцать в Airborne
	world.Step(1.0 / 240.0)
	c.Update(1.0 / 240.0)
	if !c.Grounded() {
		t.Error("Short frame must not flicker the player to Airborne")
	}

	// Прыжок с опоры в таком кадре остается доступен
	c.GiveJumpPower(10)
	c.Jump()
	if vy := c.Body().Velocity.Y(); vy <= 0 {
		t.Errorf("Expected upward velocity after jump, got %f", vy)
	}
}

func TestDeathPlane_ResetsToSpawn(t *testing.T) {
	c, _ := newTestController()

	deaths := 0
	c.OnDeath(func() { deaths++ })

	c.GiveJumpPower(10)
	c.Body().Position = mgl32.Vec3{5, -11, 5}
	c.Body().Velocity = mgl32.Vec3{3, -20, 3}
	c.Update(1.0 / 60.0)

	if c.Body().Position != c.SpawnPoint() {
		t.Errorf("Expected exact spawn position %v, got %v", c.SpawnPoint(), c.Body().Position)
	}
	if c.Body().Velocity != (mgl32.Vec3{}) {
		t.Errorf("Expected zero velocity after death, got %v", c.Body().Velocity)
	}
	if c.HasJumpPower() {
		t.Error("Death must clear active power-ups")
	}
	if deaths != 1 {
		t.Errorf("Expected one death notification, got %d", deaths)
	}
}

func TestPowerUp_ExpiresAndRestarts(t *testing.T) {
	c, _ := newTestController()

	c.GiveSpeedBoost(1.0)

	// Половина срока, затем повторный подбор перезапускает таймер
	c.Update(0.5)
	if !c.HasSpeedBoost() {
		t.Fatal("Boost expired too early")
	}

	c.GiveSpeedBoost(1.0)
	c.Update(0.8)
	if !c.HasSpeedBoost() {
		t.Error("Re-collected boost must restart its timer")
	}

	c.Update(0.3)
	if c.HasSpeedBoost() {
		t.Error("Boost must expire after its duration")
	}
}

func TestSetSpawnPoint_AffectsRespawn(t *testing.T) {
	c, _ := newTestController()

	checkpoint := mgl32.Vec3{10, 4, -3}
	c.SetSpawnPoint(checkpoint)
	c.Respawn()

	if c.Body().Position != checkpoint {
		t.Errorf("Expected respawn at %v, got %v", checkpoint, c.Body().Position)
	}
}

func TestDeathNotification_PanicIsIsolated(t *testing.T) {
	c, _ := newTestController()

	c.OnDeath(func() { panic("подписчик упал") })
	called := false
	c.OnDeath(func() { called = true })

	// Паника косметического подписчика не должна ломать смерть игрока
	c.Kill()

	if !called {
		t.Error("Expected second subscriber to run despite first panicking")
	}
	if c.Body().Position != c.SpawnPoint() {
		t.Error("Expected respawn to complete despite subscriber panic")
	}
}
