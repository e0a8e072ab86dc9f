package level

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 — координаты в YAML-описании уровня
type Vec3 [3]float32

// Vec конвертирует в вектор математической библиотеки
func (v Vec3) Vec() mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// PlatformDesc — статическая платформа
type PlatformDesc struct {
	Name     string `yaml:"name"`
	Position Vec3   `yaml:"position"`
	Size     Vec3   `yaml:"size"`
	Color    string `yaml:"color"`
}

// ObstacleDesc — препятствие; поля заполняются в зависимости от kind
type ObstacleDesc struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`

	// revolving_bar
	Pivot  Vec3    `yaml:"pivot"`
	Length float32 `yaml:"length"`
	Height float32 `yaml:"height"`
	Width  float32 `yaml:"width"`
	Speed  float32 `yaml:"speed"`

	// moving_platform
	Origin   Vec3    `yaml:"origin"`
	Axis     Vec3    `yaml:"axis"`
	Distance float32 `yaml:"distance"`

	// spike_trap, disappearing_platform
	Position Vec3 `yaml:"position"`
	Size     Vec3 `yaml:"size"`

	// pendulum
	Anchor    Vec3    `yaml:"anchor"`
	BobRadius float32 `yaml:"bob_radius"`
	BobMass   float32 `yaml:"bob_mass"`
	Impulse   float32 `yaml:"impulse"`
	Segments  int     `yaml:"segments"`

	// vortex
	Center    Vec3    `yaml:"center"`
	Radius    float32 `yaml:"radius"`
	Strength  float32 `yaml:"strength"`
	Particles int     `yaml:"particles"`

	Color string `yaml:"color"`
}

// CollectibleDesc — собираемый предмет
type CollectibleDesc struct {
	Type     string  `yaml:"type"`
	Position Vec3    `yaml:"position"`
	Radius   float32 `yaml:"radius"`
	Value    int     `yaml:"value"`
	Duration float64 `yaml:"duration"`
}

// FinishDesc — зона финиша; вход проверяется по горизонтальной дистанции
type FinishDesc struct {
	Position Vec3    `yaml:"position"`
	Radius   float32 `yaml:"radius"`
}

// DecorationDesc — нефизический декоративный объект
type DecorationDesc struct {
	Shape    string  `yaml:"shape"` // box | sphere | cylinder
	Position Vec3    `yaml:"position"`
	Size     Vec3    `yaml:"size"`
	Radius   float32 `yaml:"radius"`
	Height   float32 `yaml:"height"`
	Color    string  `yaml:"color"`
	Opacity  float32 `yaml:"opacity"`
}

// Level — декларативное описание уровня. Неизменяемо после загрузки:
// оркестратор инстанцирует живые сущности из описания при каждом LoadLevel.
type Level struct {
	Name         string            `yaml:"name"`
	Start        Vec3              `yaml:"start"`
	Platforms    []PlatformDesc    `yaml:"platforms"`
	Obstacles    []ObstacleDesc    `yaml:"obstacles"`
	Collectibles []CollectibleDesc `yaml:"collectibles"`
	Finish       FinishDesc        `yaml:"finish"`
	Decorations  []DecorationDesc  `yaml:"decorations"`
}
