package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind определяет тип коллизионной формы тела
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCylinder
)

// Material описывает поверхностные свойства тела
type Material struct {
	Friction    float32
	Restitution float32
}

// Body — твердое тело в симуляции.
// Создается и удаляется только через World; прямое поле Position/Orientation
// допускается менять лишь владельцу кинематических тел (платформы, штанга).
type Body struct {
	id   uint64
	kind ShapeKind

	// Размеры формы
	Radius      float32    // сфера и цилиндр
	HalfExtents mgl32.Vec3 // бокс
	HalfHeight  float32    // цилиндр

	Position        mgl32.Vec3
	Orientation     mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3

	mass    float32
	invMass float32

	Material Material

	// Кинематическое тело двигает владелец, симуляция его не интегрирует,
	// но в контактах оно ведет себя как тело бесконечной массы.
	Kinematic bool

	// Выключенный флаг выводит тело из разрешения коллизий,
	// не удаляя его из мира (ловушка с шипами, исчезнувшая платформа).
	CollisionResponse bool

	// Сила, накопленная на текущий кадр; сбрасывается после Step
	force mgl32.Vec3
}

// ID возвращает идентификатор тела внутри мира
func (b *Body) ID() uint64 {
	return b.id
}

// Kind возвращает тип коллизионной формы
func (b *Body) Kind() ShapeKind {
	return b.kind
}

// Mass возвращает массу тела (0 — неподвижное)
func (b *Body) Mass() float32 {
	return b.mass
}

// Static сообщает, является ли тело неподвижной геометрией
func (b *Body) Static() bool {
	return b.invMass == 0 && !b.Kinematic
}

// Dynamic сообщает, интегрируется ли тело симуляцией
func (b *Body) Dynamic() bool {
	return b.invMass > 0 && !b.Kinematic
}

// SetPose принудительно задает позицию и ориентацию тела
func (b *Body) SetPose(position mgl32.Vec3, orientation mgl32.Quat) {
	b.Position = position
	b.Orientation = orientation
}

// ZeroMotion обнуляет линейную и угловую скорости
func (b *Body) ZeroMotion() {
	b.Velocity = mgl32.Vec3{}
	b.AngularVelocity = mgl32.Vec3{}
}
