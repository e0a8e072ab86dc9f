package collect

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Type тип собираемого предмета
type Type string

const (
	TypeCoin       Type = "coin"
	TypeJumpPower  Type = "jump_power"
	TypeSpeedBoost Type = "speed_boost"
	TypeCheckpoint Type = "checkpoint"
)

// DefaultRadius возвращает радиус подбора по умолчанию для типа
func DefaultRadius(t Type) float32 {
	switch t {
	case TypeCoin:
		return 0.5
	case TypeCheckpoint:
		return 1.2
	default:
		return 0.6
	}
}

// цвет визуализации по типу
func colorFor(t Type) string {
	switch t {
	case TypeCoin:
		return "#ffd700"
	case TypeJumpPower:
		return "#44ddff"
	case TypeSpeedBoost:
		return "#ff44aa"
	case TypeCheckpoint:
		return "#66ff66"
	default:
		return "#ffffff"
	}
}

// Collectible — предмет в мире, подбираемый по близости. Физического тела
// у предметов нет: они чистые сенсоры, подбор разрешается по расстоянию.
// Чекпоинты никогда не получают Collected=true: вместо этого они ровно
// один раз получают Activated=true и переносят точку возрождения игрока.
type Collectible struct {
	ID       string
	Type     Type
	Position mgl32.Vec3
	Radius   float32

	// Полезная нагрузка по типу
	Value    int     // стоимость монеты
	Duration float64 // длительность усиления, сек

	Collected bool
	Activated bool
}
