package ws

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/config"
	"rollball/internal/game"
	"rollball/internal/level"
)

func newServerEnv(t *testing.T) (*Server, *game.Session) {
	t.Helper()
	cfg := config.Default()
	levels := []*level.Level{
		{
			Name:  "arena",
			Start: level.Vec3{0, 1, 0},
			Platforms: []level.PlatformDesc{
				{Name: "ground", Position: level.Vec3{0, -0.5, 0}, Size: level.Vec3{20, 1, 20}, Color: "#4a7a4a"},
			},
			Finish: level.FinishDesc{Position: level.Vec3{0, 0, -8}, Radius: 2},
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
	session := game.NewSession(cfg, levels, nil)
	if err := session.LoadLevel(0); err != nil {
		t.Fatalf("LoadLevel failed: %v", err)
	}
	return NewServer(session, cfg.Net, nil), session
}

func TestRestartHandler_QueuesInsteadOfMutating(t *testing.T) {
	srv, session := newServerEnv(t)

	// Горутина соединения не имеет права перестраивать мир: обработчик
	// лишь ставит команду в очередь кадра
	session.Player().Body().Position = mgl32.Vec3{5, 1, 5}

	if err := srv.handlers[MessageTypeRestart](nil, nil); err != nil {
		t.Fatalf("Handler failed: %v", err)
	}

	if session.Player().Position() != (mgl32.Vec3{5, 1, 5}) {
		t.Error("Restart must not be applied on the connection goroutine")
	}
	if session.Orchestrator().State() != level.StateLoaded {
		t.Errorf("Level state must be untouched by the handler, got %v", session.Orchestrator().State())
	}
}

func TestNextLevelHandler_QueuesInsteadOfMutating(t *testing.T) {
	srv, session := newServerEnv(t)

	if err := srv.handlers[MessageTypeNextLevel](nil, nil); err != nil {
		t.Fatalf("Handler failed: %v", err)
	}

	if session.Orchestrator().CurrentIndex() != 0 {
		t.Errorf("Level switch must wait for the frame queue, got index %d",
			session.Orchestrator().CurrentIndex())
	}
}
