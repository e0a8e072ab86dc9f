package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Contact описывает точку соприкосновения двух тел.
// Normal всегда направлена от Other к Body.
type Contact struct {
	Body   *Body
	Other  *Body
	Normal mgl32.Vec3
	Depth  float32
	Point  mgl32.Vec3
}

// collideSphere строит контакт динамической сферы a с произвольным телом b.
// Возвращает false, если тела не пересекаются.
func collideSphere(a, b *Body) (Contact, bool) {
	switch b.kind {
	case ShapeSphere:
		return sphereVsSphere(a, b)
	case ShapeBox:
		return sphereVsBox(a, b)
	case ShapeCylinder:
		return sphereVsCylinder(a, b)
	}
	return Contact{}, false
}

func sphereVsSphere(a, b *Body) (Contact, bool) {
	delta := a.Position.Sub(b.Position)
	dist := delta.Len()
	sum := a.Radius + b.Radius
	if dist >= sum {
		return Contact{}, false
	}

	// Совпадающие центры разводим вверх
	normal := mgl32.Vec3{0, 1, 0}
	if dist > 1e-6 {
		normal = delta.Mul(1 / dist)
	}

	return Contact{
		Body:   a,
		Other:  b,
		Normal: normal,
		Depth:  sum - dist,
		Point:  b.Position.Add(normal.Mul(b.Radius)),
	}, true
}

// sphereVsBox — сфера против ориентированного бокса.
// Центр сферы переводится в локальные оси бокса, где бокс осевой.
func sphereVsBox(a, b *Body) (Contact, bool) {
	inv := b.Orientation.Inverse()
	local := inv.Rotate(a.Position.Sub(b.Position))

	he := b.HalfExtents
	closest := mgl32.Vec3{
		clamp(local.X(), -he.X(), he.X()),
		clamp(local.Y(), -he.Y(), he.Y()),
		clamp(local.Z(), -he.Z(), he.Z()),
	}

	delta := local.Sub(closest)
	distSq := delta.Dot(delta)

	if distSq > a.Radius*a.Radius {
		return Contact{}, false
	}

	var normalLocal mgl32.Vec3
	var depth float32

	if distSq > 1e-9 {
		// Центр снаружи бокса
		dist := float32(math.Sqrt(float64(distSq)))
		normalLocal = delta.Mul(1 / dist)
		depth = a.Radius - dist
	} else {
		// Центр внутри бокса: выталкиваем по оси минимального проникновения
		normalLocal, depth = deepestAxis(local, he)
		depth += a.Radius
		closest = local
	}

	normal := b.Orientation.Rotate(normalLocal)
	point := b.Position.Add(b.Orientation.Rotate(closest))

	return Contact{
		Body:   a,
		Other:  b,
		Normal: normal,
		Depth:  depth,
		Point:  point,
	}, true
}

// deepestAxis подбирает ось с минимальной глубиной выхода из бокса
func deepestAxis(local, he mgl32.Vec3) (mgl32.Vec3, float32) {
	best := he.X() - float32(math.Abs(float64(local.X())))
	normal := mgl32.Vec3{sign(local.X()), 0, 0}

	if d := he.Y() - float32(math.Abs(float64(local.Y()))); d < best {
		best = d
		normal = mgl32.Vec3{0, sign(local.Y()), 0}
	}
	if d := he.Z() - float32(math.Abs(float64(local.Z()))); d < best {
		best = d
		normal = mgl32.Vec3{0, 0, sign(local.Z())}
	}
	return normal, best
}

// sphereVsCylinder — сфера против вертикального цилиндра (ось Y)
func sphereVsCylinder(a, b *Body) (Contact, bool) {
	delta := a.Position.Sub(b.Position)

	// Радиальная компонента в плоскости XZ
	radial := mgl32.Vec3{delta.X(), 0, delta.Z()}
	radialDist := radial.Len()

	closestR := radialDist
	if closestR > b.Radius {
		closestR = b.Radius
	}
	closestY := clamp(delta.Y(), -b.HalfHeight, b.HalfHeight)

	var radialDir mgl32.Vec3
	if radialDist > 1e-6 {
		radialDir = radial.Mul(1 / radialDist)
	}

	closest := radialDir.Mul(closestR)
	closest = mgl32.Vec3{closest.X(), closestY, closest.Z()}

	gap := delta.Sub(closest)
	distSq := gap.Dot(gap)
	if distSq > a.Radius*a.Radius {
		return Contact{}, false
	}

	var normal mgl32.Vec3
	var depth float32

	if distSq > 1e-9 {
		dist := float32(math.Sqrt(float64(distSq)))
		normal = gap.Mul(1 / dist)
		depth = a.Radius - dist
	} else {
		// Центр внутри цилиндра: сравниваем выход через торец и через бок
		capDepth := b.HalfHeight - float32(math.Abs(float64(delta.Y())))
		sideDepth := b.Radius - radialDist
		if capDepth < sideDepth {
			normal = mgl32.Vec3{0, sign(delta.Y()), 0}
			depth = capDepth + a.Radius
		} else {
			normal = radialDir
			if radialDist <= 1e-6 {
				normal = mgl32.Vec3{1, 0, 0}
			}
			depth = sideDepth + a.Radius
		}
	}

	return Contact{
		Body:   a,
		Other:  b,
		Normal: normal,
		Depth:  depth,
		Point:  a.Position.Sub(normal.Mul(a.Radius)),
	}, true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
