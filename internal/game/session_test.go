package game

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/config"
	"rollball/internal/level"
	"rollball/internal/player"
)

func sessionLevels() []*level.Level {
	return []*level.Level{
		{
			Name:  "arena",
			Start: level.Vec3{0, 1, 0},
			Platforms: []level.PlatformDesc{
				{Name: "ground", Position: level.Vec3{0, -0.5, 0}, Size: level.Vec3{30, 1, 30}, Color: "#4a7a4a"},
			},
			Collectibles: []level.CollectibleDesc{
				{Type: "coin", Position: level.Vec3{1, 1, 0}, Value: 10},
			},
			Finish: level.FinishDesc{Position: level.Vec3{0, 0, -10}, Radius: 2},
		},
		{
			Name:  "after",
			Start: level.Vec3{0, 1, 0},
			Platforms: []level.PlatformDesc{
				{Name: "ground", Position: level.Vec3{0, -0.5, 0}, Size: level.Vec3{10, 1, 10}, Color: "#5a6a8a"},
			},
			Finish: level.FinishDesc{Position: level.Vec3{0, 0, -4}, Radius: 1},
		},
	}
}

type fakeRecorder struct {
	runs []string
	err  error
}

func (f *fakeRecorder) SaveRun(levelIndex int, levelName string, duration float64, coins, coinsTotal, score int) error {
	f.runs = append(f.runs, levelName)
	return f.err
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(config.Default(), sessionLevels(), nil)
	if err := s.LoadLevel(0); err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	return s
}

func TestFrame_CoinPickupEndToEnd(t *testing.T) {
	s := newTestSession(t)

	var events int
	s.Events().OnCoin(func(id string, value, score int) {
		events++
		if value != 10 || score != 10 {
			t.Errorf("Unexpected coin event: value=%d score=%d", value, score)
		}
	})

	// Катим шар вправо к монете
	s.SetIntent(player.Intent{Right: true})
	for i := 0; i < 240 && s.Resolver().CoinsCollected() == 0; i++ {
		s.frame(1.0 / 60.0)
	}

	if s.Resolver().CoinsCollected() != 1 {
		t.Fatal("Expected the coin to be collected while rolling toward it")
	}
	if s.Resolver().Score() != 10 {
		t.Errorf("Expected score 10, got %d", s.Resolver().Score())
	}
	if events != 1 {
		t.Errorf("Expected exactly 1 coin event, got %d", events)
	}
}

func TestFrame_CompletionSnapshotAndRecorder(t *testing.T) {
	s := newTestSession(t)
	rec := &fakeRecorder{}
	s.SetRecorder(rec)

	var completions int
	var reported float64
	s.Events().OnComplete(func(levelIndex int, elapsed float64) {
		completions++
		reported = elapsed
	})

	for i := 0; i < 120; i++ {
		s.frame(1.0 / 60.0)
	}

	// Переносим игрока в зону финиша
	s.Player().Body().Position = mgl32.Vec3{0, 1, -10}
	s.frame(1.0 / 60.0)
	s.frame(1.0 / 60.0)
	s.frame(1.0 / 60.0)

	if s.Orchestrator().State() != level.StateComplete {
		t.Fatal("Expected level completion")
	}
	if completions != 1 {
		t.Errorf("Expected exactly 1 completion event, got %d", completions)
	}
	if reported <= 0 {
		t.Errorf("Expected positive completion time, got %f", reported)
	}
	if len(rec.runs) != 1 || rec.runs[0] != "arena" {
		t.Errorf("Expected one recorded run for arena, got %v", rec.runs)
	}
}

func TestFrame_RecorderErrorDoesNotBreakFrame(t *testing.T) {
	s := newTestSession(t)
	s.SetRecorder(&fakeRecorder{err: errors.New("disk full")})

	s.Player().Body().Position = mgl32.Vec3{0, 1, -10}
	s.frame(1.0 / 60.0)
	s.frame(1.0 / 60.0)

	if s.Orchestrator().State() != level.StateComplete {
		t.Error("Completion must survive a recorder failure")
	}
}

func TestFrame_DeathPlaneEmitsEvent(t *testing.T) {
	s := newTestSession(t)

	deaths := 0
	s.Events().OnDeath(func() { deaths++ })

	s.Player().Body().Position = mgl32.Vec3{0, -11, 0}
	s.frame(1.0 / 60.0)

	if deaths != 1 {
		t.Fatalf("Expected 1 death event, got %d", deaths)
	}
	if s.Player().Position().Y() < 0 {
		t.Errorf("Player must respawn above the death plane, got y=%f", s.Player().Position().Y())
	}
}

func TestAdvanceToNextLevel(t *testing.T) {
	s := newTestSession(t)

	ok, err := s.AdvanceToNextLevel()
	if err != nil || !ok {
		t.Fatalf("Expected advance to level 1, got ok=%v err=%v", ok, err)
	}
	if s.Orchestrator().CurrentIndex() != 1 {
		t.Errorf("Expected current index 1, got %d", s.Orchestrator().CurrentIndex())
	}

	ok, err = s.AdvanceToNextLevel()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Expected no next level at the end of the sequence")
	}
}

func TestEnqueue_RunsInFrameNotOnCaller(t *testing.T) {
	s := newTestSession(t)

	// Уводим игрока с точки старта, чтобы перезапуск был наблюдаем
	s.Player().Body().Position = mgl32.Vec3{5, 1, 5}

	queued := make(chan struct{})
	go func() {
		s.Enqueue(func() {
			if err := s.RestartLevel(); err != nil {
				t.Errorf("RestartLevel failed: %v", err)
			}
		})
		close(queued)
	}()
	<-queued

	// Команда поставлена, но до начала кадра мир не тронут
	if s.Player().Position() != (mgl32.Vec3{5, 1, 5}) {
		t.Fatal("Queued command must not run on the caller goroutine")
	}

	s.frame(1.0 / 60.0)

	if x := s.Player().Position().X(); x != 0 {
		t.Errorf("Expected respawn at level start after the frame, got x=%f", x)
	}
}

func TestEnqueue_PreservesOrder(t *testing.T) {
	s := newTestSession(t)

	var order []int
	s.Enqueue(func() { order = append(order, 1) })
	s.Enqueue(func() { order = append(order, 2) })
	s.frame(1.0 / 60.0)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Expected commands in submission order, got %v", order)
	}

	// Очередь одноразовая: следующий кадр не выполняет их повторно
	s.frame(1.0 / 60.0)
	if len(order) != 2 {
		t.Errorf("Commands must run exactly once, got %v", order)
	}
}

func TestTicker_RegisterOrdersByPriority(t *testing.T) {
	tk := NewTicker(60, nil)

	var order []string
	mk := func(name string, priority int) System {
		return &stubSystem{name: name, priority: priority, fn: func() {
			order = append(order, name)
		}}
	}

	tk.Register(mk("late", 50))
	tk.Register(mk("early", 10))
	tk.Register(mk("mid", 30))

	tk.lastTick = time.Now()
	tk.executeTick(time.Now())

	want := []string{"early", "mid", "late"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("Expected order %v, got %v", want, order)
		}
	}
}

func TestTicker_PanicInSystemIsIsolated(t *testing.T) {
	tk := NewTicker(60, nil)

	ran := false
	tk.Register(&stubSystem{name: "bomb", priority: 1, fn: func() { panic("boom") }})
	tk.Register(&stubSystem{name: "safe", priority: 2, fn: func() { ran = true }})

	tk.lastTick = time.Now()
	tk.executeTick(time.Now())

	if !ran {
		t.Error("A panic in one system must not skip the next one")
	}
	if tk.SystemErrors("bomb") != 1 {
		t.Errorf("Expected 1 recorded error for bomb, got %d", tk.SystemErrors("bomb"))
	}
}

type stubSystem struct {
	name     string
	priority int
	fn       func()
}

func (p *stubSystem) Update(dt float64) error {
	p.fn()
	return nil
}

func (p *stubSystem) Name() string  { return p.name }
func (p *stubSystem) Priority() int { return p.priority }
