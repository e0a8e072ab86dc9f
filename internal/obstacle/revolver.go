package obstacle

import (
	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/physics"
	"rollball/internal/scene"
)

// RevolverParams описывает вращающуюся штангу
type RevolverParams struct {
	Pivot  mgl32.Vec3
	Length float32
	Height float32
	Width  float32
	Speed  float32 // угловая скорость, рад/с
	Color  string
}

// Revolver — штанга, вращающаяся вокруг неподвижной оси с постоянной
// угловой скоростью. Угловое состояние переустанавливается каждый шаг,
// поэтому затухание симуляции на него не влияет.
type Revolver struct {
	world *physics.World
	graph *scene.Graph

	bar     *physics.Body
	barNode *scene.Node
	post    *scene.Node
	pivot   mgl32.Vec3
	speed   float32
	angle   float32
}

// NewRevolvingBar создает вращающуюся штангу
func NewRevolvingBar(world *physics.World, graph *scene.Graph, name string, p RevolverParams) *Obstacle {
	r := &Revolver{
		world: world,
		graph: graph,
		pivot: p.Pivot,
		speed: p.Speed,
	}

	r.bar = world.NewBoxBody(p.Length, p.Height, p.Width, p.Pivot, 0)
	r.bar.Kinematic = true
	r.bar.AngularVelocity = mgl32.Vec3{0, p.Speed, 0}

	r.barNode = scene.NewBoxNode(name+"_bar", p.Pivot, p.Length, p.Height, p.Width, p.Color)
	graph.Add(r.barNode)
	world.RegisterPair(r.bar, r.barNode)

	// Декоративная стойка оси, в коллизиях не участвует
	postPos := mgl32.Vec3{p.Pivot.X(), p.Pivot.Y() - p.Height, p.Pivot.Z()}
	r.post = scene.NewCylinderNode(name+"_post", postPos, 0.15, p.Height*2, "#555555")
	graph.Add(r.post)

	return &Obstacle{Kind: KindRevolvingBar, Name: name, revolver: r}
}

func (r *Revolver) update(dt float64) {
	r.angle += r.speed * float32(dt)
	r.bar.SetPose(r.pivot, mgl32.QuatRotate(r.angle, mgl32.Vec3{0, 1, 0}))

	// Угловая скорость сообщает контактам скорость поверхности штанги
	r.bar.AngularVelocity = mgl32.Vec3{0, r.speed, 0}
}

func (r *Revolver) cleanup() {
	r.world.UnregisterPair(r.bar)
	r.graph.Remove(r.barNode.ID)
	r.graph.Remove(r.post.ID)
}
