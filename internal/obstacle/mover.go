package obstacle

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"rollball/internal/physics"
	"rollball/internal/scene"
)

// MoverParams описывает платформу, курсирующую вдоль одной оси
type MoverParams struct {
	Origin   mgl32.Vec3
	Axis     mgl32.Vec3 // единичный вектор направления движения
	Distance float32
	Speed    float32 // единиц в секунду
	Size     mgl32.Vec3
	Color    string
}

// Mover — кинематическая платформа: прогресс качается между 0 и Distance
// последовательностью линейных твинов туда-обратно. Поза тела
// переустанавливается каждый шаг, остаточные скорости обнуляются,
// чтобы симуляция не накапливала дрейф.
type Mover struct {
	world *physics.World
	graph *scene.Graph

	body *physics.Body
	node *scene.Node

	origin mgl32.Vec3
	axis   mgl32.Vec3
	seq    *gween.Sequence
}

// NewMovingPlatform создает движущуюся платформу
func NewMovingPlatform(world *physics.World, graph *scene.Graph, name string, p MoverParams) *Obstacle {
	m := &Mover{
		world:  world,
		graph:  graph,
		origin: p.Origin,
		axis:   p.Axis.Normalize(),
	}

	duration := p.Distance / p.Speed
	m.seq = gween.NewSequence()
	m.seq.Add(
		gween.New(0, p.Distance, duration, ease.Linear),
		gween.New(p.Distance, 0, duration, ease.Linear),
	)

	m.body = world.NewBoxBody(p.Size.X(), p.Size.Y(), p.Size.Z(), p.Origin, 0)
	m.body.Kinematic = true

	m.node = scene.NewBoxNode(name, p.Origin, p.Size.X(), p.Size.Y(), p.Size.Z(), p.Color)
	graph.Add(m.node)
	world.RegisterPair(m.body, m.node)

	return &Obstacle{Kind: KindMovingPlatform, Name: name, mover: m}
}

func (m *Mover) update(dt float64) {
	offset, _, done := m.seq.Update(float32(dt))
	if done {
		m.seq.Reset()
	}

	m.body.SetPose(m.origin.Add(m.axis.Mul(offset)), mgl32.QuatIdent())
	m.body.ZeroMotion()
}

// Position возвращает текущую позицию платформы
func (m *Mover) Position() mgl32.Vec3 {
	return m.body.Position
}

func (m *Mover) cleanup() {
	m.world.UnregisterPair(m.body)
	m.graph.Remove(m.node.ID)
}
