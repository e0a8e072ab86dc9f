package obstacle

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/physics"
	"rollball/internal/scene"
)

// Радиус, при котором частица считается затянутой и перерождается
const vortexRecycleRadius = 0.3

// VortexParams описывает вихревое силовое поле
type VortexParams struct {
	Center    mgl32.Vec3
	Radius    float32
	Strength  float32
	Particles int
	Color     string
}

// Vortex непрерывно тянет игрока к центру с силой, линейно растущей
// к центру: (1 - dist/radius) * strength. Дискретных состояний нет.
// Декоративные частицы кружатся по сужающейся спирали; частица,
// затянутая ниже порогового радиуса, перерождается на внешнем крае.
// Частицами владеет и двигает единый проход update — никаких
// самопланирующихся циклов на частицу.
type Vortex struct {
	world *physics.World
	graph *scene.Graph

	center   mgl32.Vec3
	radius   float32
	strength float32

	ring      *scene.Node
	particles []*vortexParticle
}

type vortexParticle struct {
	node         *scene.Node
	angle        float32
	orbit        float32
	height       float32
	angularSpeed float32
	inwardSpeed  float32
}

// NewVortex создает вихрь
func NewVortex(world *physics.World, graph *scene.Graph, name string, p VortexParams) *Obstacle {
	if p.Particles <= 0 {
		p.Particles = 12
	}

	v := &Vortex{
		world:    world,
		graph:    graph,
		center:   p.Center,
		radius:   p.Radius,
		strength: p.Strength,
	}

	// Полупрозрачное кольцо обозначает зону действия
	v.ring = scene.NewCylinderNode(name+"_ring", p.Center, p.Radius, 0.05, p.Color)
	v.ring.Opacity = 0.3
	graph.Add(v.ring)

	for i := 0; i < p.Particles; i++ {
		frac := float32(i) / float32(p.Particles)
		particle := &vortexParticle{
			node:         scene.NewSphereNode(fmt.Sprintf("%s_p%d", name, i), p.Center, 0.08, p.Color),
			angle:        frac * 2 * math.Pi,
			orbit:        vortexRecycleRadius + frac*(p.Radius-vortexRecycleRadius),
			height:       0.2 + frac*0.6,
			angularSpeed: 2.5,
			inwardSpeed:  p.Radius / 6,
		}
		graph.Add(particle.node)
		v.particles = append(v.particles, particle)
	}

	return &Obstacle{Kind: KindVortex, Name: name, vortex: v}
}

func (v *Vortex) update(dt float64) {
	for _, p := range v.particles {
		p.angle += p.angularSpeed * float32(dt)
		p.orbit -= p.inwardSpeed * float32(dt)

		// Затянутая частица перерождается на внешнем крае
		if p.orbit < vortexRecycleRadius {
			p.orbit = v.radius
		}

		sin, cos := math.Sincos(float64(p.angle))
		p.node.Position = v.center.Add(mgl32.Vec3{
			p.orbit * float32(cos),
			p.height,
			p.orbit * float32(sin),
		})
	}
}

// applyForce тянет тело к центру, если оно внутри радиуса действия
func (v *Vortex) applyForce(body *physics.Body) {
	delta := v.center.Sub(body.Position)
	dist := delta.Len()
	if dist >= v.radius || dist < 1e-3 {
		return
	}

	v.world.ApplyForce(body, delta.Mul(1/dist), v.forceMagnitude(dist))
}

// forceMagnitude линейно масштабирует силу от края к центру
func (v *Vortex) forceMagnitude(dist float32) float32 {
	return (1 - dist/v.radius) * v.strength
}

func (v *Vortex) cleanup() {
	v.graph.Remove(v.ring.ID)
	for _, p := range v.particles {
		v.graph.Remove(p.node.ID)
	}
}
