package obstacle

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/physics"
	"rollball/internal/scene"
)

// PendulumParams описывает маятник
type PendulumParams struct {
	Anchor    mgl32.Vec3
	Length    float32
	BobRadius float32
	BobMass   float32
	Impulse   float32 // начальный боковой импульс
	Segments  int     // количество визуальных звеньев цепи
	Color     string
}

// Pendulum — боб на точечной связи, свободно качающийся под гравитацией
// после начального бокового импульса. Явных состояний нет; звенья цепи —
// нефизические узлы, которые каждый кадр перенацеливаются от подвеса к бобу
// и масштабируются на текущее расстояние.
type Pendulum struct {
	world *physics.World
	graph *scene.Graph

	bob        *physics.Body
	bobNode    *scene.Node
	anchorNode *scene.Node
	chain      []*scene.Node
	constraint *physics.PointConstraint

	anchor mgl32.Vec3
}

// NewPendulum создает маятник с цепью
func NewPendulum(world *physics.World, graph *scene.Graph, name string, p PendulumParams) *Obstacle {
	if p.Segments <= 0 {
		p.Segments = 6
	}

	pd := &Pendulum{
		world:  world,
		graph:  graph,
		anchor: p.Anchor,
	}

	bobStart := mgl32.Vec3{p.Anchor.X(), p.Anchor.Y() - p.Length, p.Anchor.Z()}
	pd.bob = world.NewSphereBody(p.BobRadius, bobStart, p.BobMass)
	pd.bobNode = scene.NewSphereNode(name+"_bob", bobStart, p.BobRadius, p.Color)
	graph.Add(pd.bobNode)
	world.RegisterPair(pd.bob, pd.bobNode)

	pd.constraint = world.AddPointConstraint(pd.bob, p.Anchor, p.Length)
	world.ApplyImpulse(pd.bob, mgl32.Vec3{1, 0, 0}, p.Impulse)

	pd.anchorNode = scene.NewBoxNode(name+"_anchor", p.Anchor, 0.3, 0.3, 0.3, "#333333")
	graph.Add(pd.anchorNode)

	for i := 0; i < p.Segments; i++ {
		link := scene.NewCylinderNode(fmt.Sprintf("%s_link_%d", name, i), p.Anchor, 0.05, 1.0, "#777777")
		graph.Add(link)
		pd.chain = append(pd.chain, link)
	}

	return &Obstacle{Kind: KindPendulum, Name: name, pendulum: pd}
}

// update перенацеливает звенья цепи вдоль текущего направления подвес-боб
func (p *Pendulum) update(dt float64) {
	dir := p.bob.Position.Sub(p.anchor)
	dist := dir.Len()
	if dist < 1e-5 {
		return
	}
	unit := dir.Mul(1 / dist)
	rotation := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, unit)
	segment := dist / float32(len(p.chain))

	for i, link := range p.chain {
		t := (float32(i) + 0.5) / float32(len(p.chain))
		link.Position = p.anchor.Add(unit.Mul(dist * t))
		link.Rotation = rotation
		link.Scale = mgl32.Vec3{1, segment, 1}
	}
}

func (p *Pendulum) cleanup() {
	p.world.RemoveConstraint(p.constraint)
	p.world.UnregisterPair(p.bob)
	p.graph.Remove(p.bobNode.ID)
	p.graph.Remove(p.anchorNode.ID)
	for _, link := range p.chain {
		p.graph.Remove(link.ID)
	}
}
