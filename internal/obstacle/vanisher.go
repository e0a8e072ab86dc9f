package obstacle

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"rollball/internal/physics"
	"rollball/internal/scene"
)

// Фазы исчезающей платформы
type vanishPhase int

const (
	vanishSolid vanishPhase = iota
	vanishDisappearing
	vanishGone
)

const (
	vanishFadeDuration = 0.5
	vanishGoneDuration = 2.0
)

// VanisherParams описывает исчезающую платформу
type VanisherParams struct {
	Position mgl32.Vec3
	Size     mgl32.Vec3
	Color    string
}

// Vanisher — платформа, пропадающая под игроком:
// Solid -> (контакт игрока) -> Disappearing(0.5с, прозрачность до 0)
// -> Gone(2с, коллизии выключены) -> Solid с полным сбросом.
type Vanisher struct {
	world      *physics.World
	graph      *scene.Graph
	playerBody *physics.Body

	body *physics.Body
	node *scene.Node

	origin mgl32.Vec3
	phase  vanishPhase
	timer  float64
	fade   *gween.Tween
}

// NewDisappearingPlatform создает исчезающую платформу
func NewDisappearingPlatform(world *physics.World, graph *scene.Graph, name string, p VanisherParams, playerBody *physics.Body) *Obstacle {
	v := &Vanisher{
		world:      world,
		graph:      graph,
		playerBody: playerBody,
		origin:     p.Position,
		phase:      vanishSolid,
		fade:       gween.New(1, 0, vanishFadeDuration, ease.Linear),
	}

	v.body = world.NewBoxBody(p.Size.X(), p.Size.Y(), p.Size.Z(), p.Position, 0)
	v.node = scene.NewBoxNode(name, p.Position, p.Size.X(), p.Size.Y(), p.Size.Z(), p.Color)
	graph.Add(v.node)
	world.RegisterPair(v.body, v.node)

	world.OnContact(v.body, v.handleContact)

	return &Obstacle{Kind: KindDisappearingPlatform, Name: name, vanisher: v}
}

// handleContact запускает исчезновение при касании игроком.
// В фазе Gone коллизии выключены, поэтому повторный запуск невозможен.
func (v *Vanisher) handleContact(c physics.Contact) {
	if c.Other != v.playerBody {
		return
	}
	v.onPlayerContact()
}

func (v *Vanisher) onPlayerContact() {
	if v.phase != vanishSolid {
		return
	}
	v.phase = vanishDisappearing
	v.timer = 0
}

func (v *Vanisher) update(dt float64) {
	switch v.phase {
	case vanishDisappearing:
		opacity, done := v.fade.Update(float32(dt))
		v.node.Opacity = opacity
		if done {
			v.phase = vanishGone
			v.timer = 0
			v.body.CollisionResponse = false
			v.node.Visible = false
		}
	case vanishGone:
		v.timer += dt
		if v.timer >= vanishGoneDuration {
			v.reset()
		}
	}
}

// reset полностью восстанавливает платформу: позиция, прозрачность, коллизии
func (v *Vanisher) reset() {
	v.phase = vanishSolid
	v.timer = 0
	v.fade.Reset()
	v.body.Position = v.origin
	v.body.CollisionResponse = true
	v.node.Position = v.origin
	v.node.Opacity = 1
	v.node.Visible = true
}

// Solid сообщает, что платформа в исходном твердом состоянии
func (v *Vanisher) Solid() bool {
	return v.phase == vanishSolid
}

// Gone сообщает, что платформа исчезла и не участвует в коллизиях
func (v *Vanisher) Gone() bool {
	return v.phase == vanishGone
}

func (v *Vanisher) cleanup() {
	v.world.UnregisterPair(v.body)
	v.graph.Remove(v.node.ID)
}
