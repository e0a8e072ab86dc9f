package config

// PhysicsConfig содержит глобальные настройки физического мира
type PhysicsConfig struct {
	// Ускорение свободного падения (направлено вниз по Y)
	Gravity float32 `yaml:"gravity"`

	// Фиксированный внутренний шаг симуляции и лимит под-шагов на кадр
	FixedStep   float32 `yaml:"fixed_step"`
	MaxSubSteps int     `yaml:"max_sub_steps"`

	// Глобальные параметры материала по умолчанию
	Friction    float32 `yaml:"friction"`
	Restitution float32 `yaml:"restitution"`
}

// PlayerConfig содержит настройки шара игрока
type PlayerConfig struct {
	Radius float32 `yaml:"radius"`
	Mass   float32 `yaml:"mass"`

	// Настройки движения
	MoveForce   float32 `yaml:"move_force"`
	MaxSpeed    float32 `yaml:"max_speed"`
	IdleDamping float32 `yaml:"idle_damping"`

	// Прыжок — способность, открываемая бонусом jump_power
	JumpImpulse  float32 `yaml:"jump_impulse"`
	JumpCooldown float64 `yaml:"jump_cooldown"`

	// Множитель бонуса скорости (усиливает и силу, и лимит скорости)
	SpeedBoostFactor float32 `yaml:"speed_boost_factor"`

	// Плоскость смерти: падение ниже этой высоты приводит к респауну
	DeathY float32 `yaml:"death_y"`
}

// GameConfig содержит настройки игрового цикла
type GameConfig struct {
	// Целевая частота тиков в секунду
	TargetTPS int `yaml:"target_tps"`
}

// NetConfig содержит настройки сетевого слоя
type NetConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`

	// Интервал отправки обновлений сцены клиентам, мс
	UpdateIntervalMS int `yaml:"update_interval_ms"`
}

// Config объединяет все конфигурации
type Config struct {
	Physics PhysicsConfig `yaml:"physics"`
	Player  PlayerConfig  `yaml:"player"`
	Game    GameConfig    `yaml:"game"`
	Net     NetConfig     `yaml:"net"`
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		Physics: PhysicsConfig{
			Gravity:     9.8,
			FixedStep:   1.0 / 60.0,
			MaxSubSteps: 3,
			Friction:    0.5,
			Restitution: 0.3,
		},
		Player: PlayerConfig{
			Radius:           0.5,
			Mass:             5.0,
			MoveForce:        60.0,
			MaxSpeed:         8.0,
			IdleDamping:      0.95,
			JumpImpulse:      40.0,
			JumpCooldown:     0.5,
			SpeedBoostFactor: 1.6,
			DeathY:           -10.0,
		},
		Game: GameConfig{
			TargetTPS: 60,
		},
		Net: NetConfig{
			Addr:             ":8080",
			StaticDir:        "./static",
			UpdateIntervalMS: 50,
		},
	}
}
