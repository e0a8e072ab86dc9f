package level

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/collect"
	"rollball/internal/obstacle"
	"rollball/internal/physics"
	"rollball/internal/player"
	"rollball/internal/scene"
)

// NoNextLevel — сентинел конца последовательности уровней
const NoNextLevel = -1

// State состояние оркестратора уровня
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateComplete
)

// String возвращает имя состояния
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// Orchestrator инстанцирует сущности уровня из декларативного описания
// и отслеживает условие финиша. Прошедшее время — накопитель кадровых
// дельт, а не разница настенных часов: пауза цикла кадров точно
// останавливает таймер прохождения.
type Orchestrator struct {
	logger   *log.Logger
	world    *physics.World
	graph    *scene.Graph
	player   *player.Controller
	resolver *collect.Resolver

	levels  []*Level
	current int
	state   State

	elapsed     float64
	completedIn float64

	obstacles []*obstacle.Obstacle
	platforms []*physics.Body
	extraIDs  []string // декорации и маркер финиша

	finishPos    mgl32.Vec3
	finishRadius float32

	onHazard func()
}

// NewOrchestrator создает оркестратор над последовательностью уровней
func NewOrchestrator(world *physics.World, graph *scene.Graph, pl *player.Controller, resolver *collect.Resolver, levels []*Level, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		logger:   logger.WithPrefix("level"),
		world:    world,
		graph:    graph,
		player:   pl,
		resolver: resolver,
		levels:   levels,
		current:  NoNextLevel,
		state:    StateUnloaded,
	}
}

// OnHazard устанавливает обработчик касания опасного препятствия
func (o *Orchestrator) OnHazard(fn func()) {
	o.onHazard = fn
}

// LoadLevel очищает предыдущие сущности, инстанцирует уровень по индексу
// и возвращает стартовую позицию игрока. Активации чекпоинтов при загрузке
// нового уровня сбрасываются вместе с остальными предметами.
func (o *Orchestrator) LoadLevel(index int) (mgl32.Vec3, error) {
	if index < 0 || index >= len(o.levels) {
		return mgl32.Vec3{}, fmt.Errorf("level: индекс %d вне последовательности из %d уровней", index, len(o.levels))
	}

	o.clearEntities()

	lvl := o.levels[index]
	o.current = index
	o.instantiate(lvl)

	o.state = StateLoaded
	o.elapsed = 0
	o.completedIn = 0

	start := lvl.Start.Vec()
	o.player.SetSpawnPoint(start)
	o.player.Respawn()

	o.logger.Info("Уровень загружен", "index", index, "name", lvl.Name,
		"platforms", len(lvl.Platforms), "obstacles", len(lvl.Obstacles), "collectibles", len(lvl.Collectibles))

	return start, nil
}

func (o *Orchestrator) instantiate(lvl *Level) {
	for i, p := range lvl.Platforms {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("platform_%d", i)
		}
		body := o.world.NewBoxBody(p.Size[0], p.Size[1], p.Size[2], p.Position.Vec(), 0)
		node := scene.NewBoxNode(name, p.Position.Vec(), p.Size[0], p.Size[1], p.Size[2], p.Color)
		o.graph.Add(node)
		o.world.RegisterPair(body, node)
		o.platforms = append(o.platforms, body)
	}

	for i, d := range lvl.Obstacles {
		ob := o.buildObstacle(i, d)
		if ob == nil {
			o.logger.Warn("Неизвестный тип препятствия пропущен", "kind", d.Kind)
			continue
		}
		o.obstacles = append(o.obstacles, ob)
	}

	for i, c := range lvl.Collectibles {
		o.resolver.Add(&collect.Collectible{
			ID:       fmt.Sprintf("%s_%d", c.Type, i),
			Type:     collect.Type(c.Type),
			Position: c.Position.Vec(),
			Radius:   c.Radius,
			Value:    c.Value,
			Duration: c.Duration,
		})
	}

	o.finishPos = lvl.Finish.Position.Vec()
	o.finishRadius = lvl.Finish.Radius
	marker := scene.NewCylinderNode("finish", o.finishPos, o.finishRadius, 0.1, "#ffff44")
	marker.Opacity = 0.4
	o.graph.Add(marker)
	o.extraIDs = append(o.extraIDs, marker.ID)

	for i, d := range lvl.Decorations {
		node := o.buildDecoration(i, d)
		o.graph.Add(node)
		o.extraIDs = append(o.extraIDs, node.ID)
	}
}

func (o *Orchestrator) buildObstacle(i int, d ObstacleDesc) *obstacle.Obstacle {
	name := d.Name
	if name == "" {
		name = fmt.Sprintf("%s_%d", d.Kind, i)
	}

	switch d.Kind {
	case "revolving_bar":
		return obstacle.NewRevolvingBar(o.world, o.graph, name, obstacle.RevolverParams{
			Pivot: d.Pivot.Vec(), Length: d.Length, Height: d.Height, Width: d.Width,
			Speed: d.Speed, Color: d.Color,
		})
	case "moving_platform":
		return obstacle.NewMovingPlatform(o.world, o.graph, name, obstacle.MoverParams{
			Origin: d.Origin.Vec(), Axis: d.Axis.Vec(), Distance: d.Distance,
			Speed: d.Speed, Size: d.Size.Vec(), Color: d.Color,
		})
	case "spike_trap":
		return obstacle.NewSpikeTrap(o.world, o.graph, name, obstacle.SpikeParams{
			Position: d.Position.Vec(), Size: d.Size.Vec(), Color: d.Color,
		}, o.player.Body(), o.hazard)
	case "pendulum":
		return obstacle.NewPendulum(o.world, o.graph, name, obstacle.PendulumParams{
			Anchor: d.Anchor.Vec(), Length: d.Length, BobRadius: d.BobRadius,
			BobMass: d.BobMass, Impulse: d.Impulse, Segments: d.Segments, Color: d.Color,
		})
	case "disappearing_platform":
		return obstacle.NewDisappearingPlatform(o.world, o.graph, name, obstacle.VanisherParams{
			Position: d.Position.Vec(), Size: d.Size.Vec(), Color: d.Color,
		}, o.player.Body())
	case "vortex":
		return obstacle.NewVortex(o.world, o.graph, name, obstacle.VortexParams{
			Center: d.Center.Vec(), Radius: d.Radius, Strength: d.Strength,
			Particles: d.Particles, Color: d.Color,
		})
	}
	return nil
}

func (o *Orchestrator) buildDecoration(i int, d DecorationDesc) *scene.Node {
	id := fmt.Sprintf("deco_%d", i)
	var node *scene.Node
	switch d.Shape {
	case "sphere":
		node = scene.NewSphereNode(id, d.Position.Vec(), d.Radius, d.Color)
	case "cylinder":
		node = scene.NewCylinderNode(id, d.Position.Vec(), d.Radius, d.Height, d.Color)
	default:
		node = scene.NewBoxNode(id, d.Position.Vec(), d.Size[0], d.Size[1], d.Size[2], d.Color)
	}
	if d.Opacity > 0 {
		node.Opacity = d.Opacity
	}
	return node
}

func (o *Orchestrator) hazard() {
	if o.onHazard != nil {
		o.onHazard()
	}
}

func (o *Orchestrator) clearEntities() {
	for _, ob := range o.obstacles {
		ob.Cleanup()
	}
	o.obstacles = nil

	for _, body := range o.platforms {
		o.world.UnregisterPair(body)
	}
	o.platforms = nil

	for _, id := range o.extraIDs {
		o.graph.Remove(id)
	}
	o.extraIDs = nil

	o.resolver.Clear()
}

// RestartLevel пересоздает препятствия и предметы текущего уровня с нуля,
// но сохраняет активированные чекпоинты: игрок возрождается в последней
// активированной точке, таймер прохождения начинается заново.
func (o *Orchestrator) RestartLevel() error {
	if o.state == StateUnloaded {
		return fmt.Errorf("level: нечего перезапускать, уровень не загружен")
	}

	lvl := o.levels[o.current]
	for _, ob := range o.obstacles {
		ob.Cleanup()
	}
	o.obstacles = nil
	for i, d := range lvl.Obstacles {
		if ob := o.buildObstacle(i, d); ob != nil {
			o.obstacles = append(o.obstacles, ob)
		}
	}

	o.resolver.Restart()
	o.player.Respawn()

	o.state = StateLoaded
	o.elapsed = 0
	o.completedIn = 0

	o.logger.Info("Уровень перезапущен", "index", o.current, "name", lvl.Name)
	return nil
}

// Advance накапливает прошедшее время уровня
func (o *Orchestrator) Advance(dt float64) {
	if o.state == StateLoaded {
		o.elapsed += dt
	}
}

// AdvanceObstacles продвигает машины состояний всех препятствий
func (o *Orchestrator) AdvanceObstacles(dt float64) {
	for _, ob := range o.obstacles {
		ob.Update(dt)
	}
}

// ApplyForceFields применяет непрерывные силы препятствий к игроку
func (o *Orchestrator) ApplyForceFields(dt float64) {
	body := o.player.Body()
	for _, ob := range o.obstacles {
		ob.ApplyForceToPlayer(body, dt)
	}
}

// CheckFinish сравнивает горизонтальную дистанцию игрока до центра финиша
// с радиусом зоны. Идемпотентна: достигнутое состояние Complete терминально,
// время прохождения фиксируется при первом входе.
func (o *Orchestrator) CheckFinish() bool {
	if o.state == StateComplete {
		return true
	}
	if o.state != StateLoaded {
		return false
	}

	pos := o.player.Position()
	dx := pos.X() - o.finishPos.X()
	dz := pos.Z() - o.finishPos.Z()
	if dx*dx+dz*dz >= o.finishRadius*o.finishRadius {
		return false
	}

	o.state = StateComplete
	o.completedIn = o.elapsed
	o.logger.Info("Уровень пройден", "index", o.current, "time", o.completedIn,
		"coins", o.resolver.CoinsCollected(), "total", o.resolver.CoinsTotal(), "score", o.resolver.Score())
	return true
}

// NextLevelIndex возвращает индекс следующего уровня или NoNextLevel в конце
func (o *Orchestrator) NextLevelIndex() int {
	if o.current+1 < len(o.levels) {
		return o.current + 1
	}
	return NoNextLevel
}

// State возвращает текущее состояние оркестратора
func (o *Orchestrator) State() State {
	return o.state
}

// CurrentIndex возвращает индекс загруженного уровня
func (o *Orchestrator) CurrentIndex() int {
	return o.current
}

// LevelName возвращает имя загруженного уровня
func (o *Orchestrator) LevelName() string {
	if o.state == StateUnloaded {
		return ""
	}
	return o.levels[o.current].Name
}

// Elapsed возвращает накопленное время с загрузки уровня
func (o *Orchestrator) Elapsed() float64 {
	return o.elapsed
}

// CompletionTime возвращает зафиксированное время прохождения
func (o *Orchestrator) CompletionTime() float64 {
	return o.completedIn
}

// LevelCount возвращает длину последовательности уровней
func (o *Orchestrator) LevelCount() int {
	return len(o.levels)
}
