package collect

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/player"
	"rollball/internal/scene"
)

// Время жизни визуального отклика подбора, сек
const cueLifetime = 0.5

// Broadcaster интерфейс для отправки событий подбора
type Broadcaster interface {
	BroadcastCoinCollected(id string, value, score int)
	BroadcastPowerUpCollected(id string, kind Type, duration float64)
	BroadcastCheckpointActivated(id string, spawn mgl32.Vec3)
}

// Resolver каждый кадр сверяет позицию игрока с несобранными предметами
// и разрешает подбор, когда дистанция меньше суммы радиусов. Эффекты
// раздаются по типу предмета; события уходят в Broadcaster, если он задан.
type Resolver struct {
	logger *log.Logger
	graph  *scene.Graph
	player *player.Controller

	broadcaster Broadcaster

	items []*Collectible

	// Краткоживущие визуальные отклики подбора
	cues      []*pickupCue
	nextCueID uint64

	score      int
	coinsTaken int
	coinsTotal int
}

type pickupCue struct {
	node *scene.Node
	life float64
}

// NewResolver создает резолвер подбора
func NewResolver(graph *scene.Graph, pl *player.Controller, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		logger: logger.WithPrefix("collect"),
		graph:  graph,
		player: pl,
	}
}

// SetBroadcaster устанавливает получателя событий подбора
func (r *Resolver) SetBroadcaster(b Broadcaster) {
	r.broadcaster = b
}

// Add помещает предмет в мир и создает его визуальный узел
func (r *Resolver) Add(c *Collectible) {
	if c.Radius <= 0 {
		c.Radius = DefaultRadius(c.Type)
	}
	r.items = append(r.items, c)
	r.graph.Add(r.makeNode(c))
	if c.Type == TypeCoin {
		r.coinsTotal++
	}
}

func (r *Resolver) makeNode(c *Collectible) *scene.Node {
	switch c.Type {
	case TypeCheckpoint:
		// Плоское кольцо на земле
		n := scene.NewCylinderNode(c.ID, c.Position, c.Radius, 0.1, colorFor(c.Type))
		n.Opacity = 0.5
		return n
	default:
		return scene.NewSphereNode(c.ID, c.Position, c.Radius*0.5, colorFor(c.Type))
	}
}

// Update продвигает отклики и разрешает подбор за один проход
func (r *Resolver) Update(dt float64) {
	r.advanceCues(dt)

	playerPos := r.player.Position()
	reach := r.player.Radius()

	for _, item := range r.items {
		if item.Collected {
			continue
		}
		if item.Type == TypeCheckpoint && item.Activated {
			continue
		}
		if playerPos.Sub(item.Position).Len() < reach+item.Radius {
			r.pickup(item)
		}
	}
}

func (r *Resolver) pickup(item *Collectible) {
	switch item.Type {
	case TypeCoin:
		item.Collected = true
		r.graph.Remove(item.ID)
		r.coinsTaken++
		r.score += item.Value
		r.logger.Debug("Монета собрана", "id", item.ID, "score", r.score)
		if r.broadcaster != nil {
			r.broadcaster.BroadcastCoinCollected(item.ID, item.Value, r.score)
		}

	case TypeJumpPower:
		item.Collected = true
		r.graph.Remove(item.ID)
		r.player.GiveJumpPower(item.Duration)
		r.logger.Debug("Усиление прыжка", "id", item.ID, "duration", item.Duration)
		if r.broadcaster != nil {
			r.broadcaster.BroadcastPowerUpCollected(item.ID, item.Type, item.Duration)
		}

	case TypeSpeedBoost:
		item.Collected = true
		r.graph.Remove(item.ID)
		r.player.GiveSpeedBoost(item.Duration)
		r.logger.Debug("Ускорение", "id", item.ID, "duration", item.Duration)
		if r.broadcaster != nil {
			r.broadcaster.BroadcastPowerUpCollected(item.ID, item.Type, item.Duration)
		}

	case TypeCheckpoint:
		// Активируется ровно один раз; узел остается в сцене
		item.Activated = true
		spawn := item.Position.Add(mgl32.Vec3{0, r.player.Radius() + 0.1, 0})
		r.player.SetSpawnPoint(spawn)
		if node, ok := r.graph.Get(item.ID); ok {
			node.Opacity = 1
		}
		r.logger.Info("Чекпоинт активирован", "id", item.ID, "spawn", spawn)
		if r.broadcaster != nil {
			r.broadcaster.BroadcastCheckpointActivated(item.ID, spawn)
		}
	}

	if item.Collected {
		r.spawnCue(item.Position)
	}
}

// spawnCue создает краткоживущую вспышку в точке подбора
func (r *Resolver) spawnCue(position mgl32.Vec3) {
	r.nextCueID++
	node := scene.NewSphereNode(fmt.Sprintf("cue_%d", r.nextCueID), position, 0.3, "#ffffff")
	node.Opacity = 0.8
	r.graph.Add(node)
	r.cues = append(r.cues, &pickupCue{node: node, life: cueLifetime})
}

func (r *Resolver) advanceCues(dt float64) {
	alive := r.cues[:0]
	for _, c := range r.cues {
		c.life -= dt
		if c.life <= 0 {
			r.graph.Remove(c.node.ID)
			continue
		}
		frac := float32(c.life / cueLifetime)
		c.node.Opacity = 0.8 * frac
		c.node.Scale = mgl32.Vec3{2 - frac, 2 - frac, 2 - frac}
		alive = append(alive, c)
	}
	r.cues = alive
}

// Restart возвращает собранные предметы в мир. Активированные чекпоинты
// сохраняют состояние: в пределах одного уровня активация не сбрасывается.
func (r *Resolver) Restart() {
	for _, item := range r.items {
		if item.Collected {
			item.Collected = false
			r.graph.Add(r.makeNode(item))
		}
	}
	r.clearCues()
	r.score = 0
	r.coinsTaken = 0
}

// Clear убирает все предметы и отклики из мира; вызывается при смене уровня
func (r *Resolver) Clear() {
	for _, item := range r.items {
		r.graph.Remove(item.ID)
	}
	r.items = nil
	r.clearCues()
	r.score = 0
	r.coinsTaken = 0
	r.coinsTotal = 0
}

func (r *Resolver) clearCues() {
	for _, c := range r.cues {
		r.graph.Remove(c.node.ID)
	}
	r.cues = nil
}

// Score возвращает накопленный счет
func (r *Resolver) Score() int {
	return r.score
}

// CoinsCollected возвращает количество собранных монет
func (r *Resolver) CoinsCollected() int {
	return r.coinsTaken
}

// CoinsTotal возвращает общее количество монет на уровне
func (r *Resolver) CoinsTotal() int {
	return r.coinsTotal
}

// Items возвращает предметы уровня
func (r *Resolver) Items() []*Collectible {
	return r.items
}
