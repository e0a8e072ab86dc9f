package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PointConstraint удерживает тело на фиксированном расстоянии от мировой
// точки подвеса. Используется маятником: боб свободно качается под
// гравитацией, а связь каждый под-шаг возвращает его на сферу радиуса Length.
type PointConstraint struct {
	Body   *Body
	Anchor mgl32.Vec3
	Length float32
}

// solve проецирует тело на поверхность связи и гасит радиальную скорость
func (c *PointConstraint) solve() {
	delta := c.Body.Position.Sub(c.Anchor)
	dist := delta.Len()
	if dist < 1e-6 {
		return
	}

	normal := delta.Mul(1 / dist)

	// Позиционная коррекция: тело всегда ровно на длине подвеса
	c.Body.Position = c.Anchor.Add(normal.Mul(c.Length))

	// Убираем радиальную составляющую скорости, тангенциальная остается —
	// именно она дает свободное качание
	radial := c.Body.Velocity.Dot(normal)
	c.Body.Velocity = c.Body.Velocity.Sub(normal.Mul(radial))
}
