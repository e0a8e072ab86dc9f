package collect

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/config"
	"rollball/internal/physics"
	"rollball/internal/player"
	"rollball/internal/scene"
)

type recordingBroadcaster struct {
	coins       []int
	scores      []int
	powerUps    []Type
	checkpoints []mgl32.Vec3
}

func (rb *recordingBroadcaster) BroadcastCoinCollected(id string, value, score int) {
	rb.coins = append(rb.coins, value)
	rb.scores = append(rb.scores, score)
}

func (rb *recordingBroadcaster) BroadcastPowerUpCollected(id string, kind Type, duration float64) {
	rb.powerUps = append(rb.powerUps, kind)
}

func (rb *recordingBroadcaster) BroadcastCheckpointActivated(id string, spawn mgl32.Vec3) {
	rb.checkpoints = append(rb.checkpoints, spawn)
}

func newResolverEnv(spawn mgl32.Vec3) (*Resolver, *player.Controller, *scene.Graph) {
	cfg := config.Default()
	world := physics.NewWorld(cfg.Physics, nil)
	graph := scene.NewGraph()
	pl := player.NewController(world, graph, cfg.Player, spawn, nil)
	return NewResolver(graph, pl, nil), pl, graph
}

func TestCoinPickup(t *testing.T) {
	r, _, graph := newResolverEnv(mgl32.Vec3{0, 1, 0})

	r.Add(&Collectible{ID: "coin_0", Type: TypeCoin, Position: mgl32.Vec3{0.3, 1, 0}, Value: 10})

	if r.CoinsTotal() != 1 {
		t.Fatalf("Expected 1 total coin, got %d", r.CoinsTotal())
	}

	r.Update(1.0 / 60.0)

	if r.CoinsCollected() != 1 {
		t.Errorf("Expected 1 collected coin, got %d", r.CoinsCollected())
	}
	if r.Score() != 10 {
		t.Errorf("Expected score 10, got %d", r.Score())
	}
	if _, ok := graph.Get("coin_0"); ok {
		t.Error("Collected coin must leave the scene")
	}

	// Повторный проход не собирает монету второй раз
	r.Update(1.0 / 60.0)
	if r.CoinsCollected() != 1 || r.Score() != 10 {
		t.Errorf("Coin collected twice: coins=%d score=%d", r.CoinsCollected(), r.Score())
	}
}

func TestCoinOutOfReach(t *testing.T) {
	r, _, _ := newResolverEnv(mgl32.Vec3{0, 1, 0})

	// Дистанция 5 больше суммы радиусов 0.5+0.5
	r.Add(&Collectible{ID: "coin_far", Type: TypeCoin, Position: mgl32.Vec3{5, 1, 0}, Value: 10})
	r.Update(1.0 / 60.0)

	if r.CoinsCollected() != 0 {
		t.Errorf("Expected no pickup at distance 5, got %d", r.CoinsCollected())
	}
}

func TestPowerUpPickupGrantsAbility(t *testing.T) {
	r, pl, _ := newResolverEnv(mgl32.Vec3{0, 1, 0})

	r.Add(&Collectible{ID: "jp", Type: TypeJumpPower, Position: mgl32.Vec3{0.4, 1, 0}, Duration: 5})
	r.Update(1.0 / 60.0)

	if !pl.HasJumpPower() {
		t.Error("Expected jump power after pickup")
	}

	r.Add(&Collectible{ID: "sb", Type: TypeSpeedBoost, Position: mgl32.Vec3{0.4, 1, 0}, Duration: 5})
	r.Update(1.0 / 60.0)

	if !pl.HasSpeedBoost() {
		t.Error("Expected speed boost after pickup")
	}
}

func TestCheckpointActivatesOnce(t *testing.T) {
	r, pl, graph := newResolverEnv(mgl32.Vec3{0, 1, 0})
	rb := &recordingBroadcaster{}
	r.SetBroadcaster(rb)

	cp := &Collectible{ID: "cp", Type: TypeCheckpoint, Position: mgl32.Vec3{0.5, 0, 0}}
	r.Add(cp)

	r.Update(1.0 / 60.0)
	r.Update(1.0 / 60.0)
	r.Update(1.0 / 60.0)

	if !cp.Activated {
		t.Fatal("Checkpoint must activate on contact")
	}
	if cp.Collected {
		t.Error("Checkpoint must never be marked collected")
	}
	if len(rb.checkpoints) != 1 {
		t.Errorf("Expected exactly 1 activation event, got %d", len(rb.checkpoints))
	}
	if _, ok := graph.Get("cp"); !ok {
		t.Error("Checkpoint node must persist in the scene")
	}

	// Точка возрождения чуть выше чекпоинта
	want := cp.Position.Add(mgl32.Vec3{0, pl.Radius() + 0.1, 0})
	if pl.SpawnPoint() != want {
		t.Errorf("Expected spawn %v, got %v", want, pl.SpawnPoint())
	}
}

func TestBroadcasterReceivesCoinEvents(t *testing.T) {
	r, _, _ := newResolverEnv(mgl32.Vec3{0, 1, 0})
	rb := &recordingBroadcaster{}
	r.SetBroadcaster(rb)

	r.Add(&Collectible{ID: "c1", Type: TypeCoin, Position: mgl32.Vec3{0.3, 1, 0}, Value: 10})
	r.Update(1.0 / 60.0)

	if len(rb.coins) != 1 || rb.coins[0] != 10 {
		t.Fatalf("Expected one coin event with value 10, got %v", rb.coins)
	}
	if rb.scores[0] != 10 {
		t.Errorf("Expected running score 10 in event, got %d", rb.scores[0])
	}
}

func TestRestartRespawnsCoinsKeepsCheckpoints(t *testing.T) {
	r, _, graph := newResolverEnv(mgl32.Vec3{0, 1, 0})

	cp := &Collectible{ID: "cp", Type: TypeCheckpoint, Position: mgl32.Vec3{0.5, 0, 0}}
	r.Add(&Collectible{ID: "c1", Type: TypeCoin, Position: mgl32.Vec3{0.3, 1, 0}, Value: 10})
	r.Add(cp)
	r.Update(1.0 / 60.0)

	if r.CoinsCollected() != 1 || !cp.Activated {
		t.Fatal("Setup failed: expected coin collected and checkpoint activated")
	}

	r.Restart()

	if _, ok := graph.Get("c1"); !ok {
		t.Error("Restart must respawn collected coins")
	}
	if !cp.Activated {
		t.Error("Restart must keep checkpoint activation")
	}
}

func TestClearRemovesEverything(t *testing.T) {
	r, _, graph := newResolverEnv(mgl32.Vec3{0, 1, 0})

	r.Add(&Collectible{ID: "c1", Type: TypeCoin, Position: mgl32.Vec3{3, 1, 0}, Value: 10})
	r.Add(&Collectible{ID: "cp", Type: TypeCheckpoint, Position: mgl32.Vec3{5, 0, 0}})
	r.Clear()

	if _, ok := graph.Get("c1"); ok {
		t.Error("Clear must remove coin nodes")
	}
	if _, ok := graph.Get("cp"); ok {
		t.Error("Clear must remove checkpoint nodes")
	}
	if r.CoinsTotal() != 0 || r.Score() != 0 {
		t.Errorf("Clear must reset counters, got total=%d score=%d", r.CoinsTotal(), r.Score())
	}
}

func TestPickupCueFadesOut(t *testing.T) {
	r, _, graph := newResolverEnv(mgl32.Vec3{0, 1, 0})

	r.Add(&Collectible{ID: "c1", Type: TypeCoin, Position: mgl32.Vec3{0.3, 1, 0}, Value: 10})
	r.Update(1.0 / 60.0)

	if len(r.cues) != 1 {
		t.Fatalf("Expected 1 pickup cue, got %d", len(r.cues))
	}
	cueID := r.cues[0].node.ID

	for i := 0; i < 35; i++ {
		r.Update(1.0 / 60.0)
	}

	if len(r.cues) != 0 {
		t.Error("Cue must expire after its lifetime")
	}
	if _, ok := graph.Get(cueID); ok {
		t.Error("Expired cue must leave the scene")
	}
}
