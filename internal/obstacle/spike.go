package obstacle

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"rollball/internal/physics"
	"rollball/internal/scene"
)

// Фазы ловушки с шипами
type spikePhase int

const (
	spikeHidden spikePhase = iota
	spikeArmed
)

const (
	spikeHiddenDuration = 2.0
	spikeArmedDuration  = 1.0
)

// SpikeParams описывает ловушку с шипами
type SpikeParams struct {
	Position mgl32.Vec3 // центр основания
	Size     mgl32.Vec3 // размеры основания
	Color    string
}

// SpikeTrap циклически переключается между Hidden(2с) и Armed(1с).
// Коллизии на геометрии шипов включены только в Armed; во время Hidden
// индикатор над основанием пульсирует, телеграфируя скорый выброс шипов.
type SpikeTrap struct {
	world      *physics.World
	graph      *scene.Graph
	playerBody *physics.Body
	onHazard   func()

	base      *physics.Body
	baseNode  *scene.Node
	spikes    *physics.Body
	spikeNode *scene.Node
	warning   *scene.Node

	phase spikePhase
	timer float64
	pulse *gween.Tween
}

// NewSpikeTrap создает ловушку. onHazard вызывается при касании игроком
// выдвинутых шипов.
func NewSpikeTrap(world *physics.World, graph *scene.Graph, name string, p SpikeParams, playerBody *physics.Body, onHazard func()) *Obstacle {
	s := &SpikeTrap{
		world:      world,
		graph:      graph,
		playerBody: playerBody,
		onHazard:   onHazard,
		phase:      spikeHidden,
		pulse:      gween.New(0.25, 0.95, spikeHiddenDuration/4, ease.InOutSine),
	}

	s.base = world.NewBoxBody(p.Size.X(), p.Size.Y(), p.Size.Z(), p.Position, 0)
	s.baseNode = scene.NewBoxNode(name+"_base", p.Position, p.Size.X(), p.Size.Y(), p.Size.Z(), p.Color)
	graph.Add(s.baseNode)
	world.RegisterPair(s.base, s.baseNode)

	// Геометрия шипов чуть выше основания; в Hidden она невидима и
	// выведена из разрешения коллизий, но тело остается в мире
	spikeHeight := float32(0.5)
	spikePos := mgl32.Vec3{
		p.Position.X(),
		p.Position.Y() + p.Size.Y()/2 + spikeHeight/2,
		p.Position.Z(),
	}
	s.spikes = world.NewBoxBody(p.Size.X(), spikeHeight, p.Size.Z(), spikePos, 0)
	s.spikes.CollisionResponse = false
	s.spikeNode = scene.NewBoxNode(name+"_spikes", spikePos, p.Size.X(), spikeHeight, p.Size.Z(), "#cc2222")
	s.spikeNode.Visible = false
	graph.Add(s.spikeNode)
	world.RegisterPair(s.spikes, s.spikeNode)

	world.OnContact(s.spikes, s.handleContact)

	// Предупреждающий индикатор на поверхности основания
	warnPos := mgl32.Vec3{
		p.Position.X(),
		p.Position.Y() + p.Size.Y()/2 + 0.02,
		p.Position.Z(),
	}
	s.warning = scene.NewBoxNode(name+"_warning", warnPos, p.Size.X()*0.9, 0.04, p.Size.Z()*0.9, "#ffaa00")
	s.warning.Opacity = 0.25
	graph.Add(s.warning)

	return &Obstacle{Kind: KindSpikeTrap, Name: name, spike: s}
}

func (s *SpikeTrap) handleContact(c physics.Contact) {
	if s.phase != spikeArmed || c.Other != s.playerBody {
		return
	}
	if s.onHazard != nil {
		s.onHazard()
	}
}

func (s *SpikeTrap) update(dt float64) {
	s.timer += dt

	switch s.phase {
	case spikeHidden:
		// Пульс индикатора телеграфирует скорый переход в Armed
		opacity, done := s.pulse.Update(float32(dt))
		s.warning.Opacity = opacity
		if done {
			s.pulse.Reset()
		}
		if s.timer >= spikeHiddenDuration {
			s.arm()
		}
	case spikeArmed:
		if s.timer >= spikeArmedDuration {
			s.hide()
		}
	}
}

func (s *SpikeTrap) arm() {
	s.phase = spikeArmed
	s.timer = 0
	s.spikes.CollisionResponse = true
	s.spikeNode.Visible = true
	s.warning.Visible = false
}

func (s *SpikeTrap) hide() {
	s.phase = spikeHidden
	s.timer = 0
	s.spikes.CollisionResponse = false
	s.spikeNode.Visible = false
	s.warning.Visible = true
	s.pulse.Reset()
}

// Armed сообщает, выдвинуты ли шипы
func (s *SpikeTrap) Armed() bool {
	return s.phase == spikeArmed
}

func (s *SpikeTrap) cleanup() {
	s.world.UnregisterPair(s.base)
	s.world.UnregisterPair(s.spikes)
	s.graph.Remove(s.baseNode.ID)
	s.graph.Remove(s.spikeNode.ID)
	s.graph.Remove(s.warning.ID)
}
