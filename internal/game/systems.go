package game

// Системы кадра. Порядок приоритетов задает порядок фаз внутри тика:
// сначала выполняются внешние команды, пока мир между кадрами, затем
// препятствия, шаг физики с синхронизацией пар, ввод и силы игрока,
// подбор предметов и, наконец, условие финиша.

// commandSystem выполняет команды, поставленные в очередь внешними
// горутинами через Enqueue: перезапуск, смена уровня, пересинхронизация
type commandSystem struct {
	s *Session
}

func (sys *commandSystem) Update(dt float64) error {
	sys.s.drainCommands()
	return nil
}

func (sys *commandSystem) Name() string  { return "commands" }
func (sys *commandSystem) Priority() int { return 5 }

// obstacleSystem продвигает машины состояний препятствий и непрерывные
// силовые поля. Дельта зажимается тем же лимитом, что и у физики:
// кинематика препятствий не должна обгонять симуляцию после долгой паузы.
type obstacleSystem struct {
	s *Session
}

func (sys *obstacleSystem) Update(dt float64) error {
	clamped := sys.s.world.ClampDt(dt)
	sys.s.orchestrator.AdvanceObstacles(clamped)
	sys.s.orchestrator.ApplyForceFields(clamped)
	return nil
}

func (sys *obstacleSystem) Name() string  { return "obstacles" }
func (sys *obstacleSystem) Priority() int { return 10 }

// physicsSystem выполняет шаг симуляции и синхронизацию тел с узлами сцены
type physicsSystem struct {
	s *Session
}

func (sys *physicsSystem) Update(dt float64) error {
	sys.s.world.Step(dt)
	return nil
}

func (sys *physicsSystem) Name() string  { return "physics" }
func (sys *physicsSystem) Priority() int { return 20 }

// playerSystem применяет снимок ввода и обновляет контроллер игрока
type playerSystem struct {
	s *Session
}

func (sys *playerSystem) Update(dt float64) error {
	sys.s.player.ProcessInput(sys.s.currentIntent())
	sys.s.player.Update(dt)
	return nil
}

func (sys *playerSystem) Name() string  { return "player" }
func (sys *playerSystem) Priority() int { return 30 }

// collectSystem разрешает подбор предметов по близости
type collectSystem struct {
	s *Session
}

func (sys *collectSystem) Update(dt float64) error {
	sys.s.resolver.Update(dt)
	return nil
}

func (sys *collectSystem) Name() string  { return "collect" }
func (sys *collectSystem) Priority() int { return 40 }

// levelSystem ведет время уровня и проверяет условие финиша
type levelSystem struct {
	s *Session
}

func (sys *levelSystem) Update(dt float64) error {
	sys.s.orchestrator.Advance(dt)
	if sys.s.orchestrator.CheckFinish() {
		sys.s.handleCompletion()
	}
	return nil
}

func (sys *levelSystem) Name() string  { return "level" }
func (sys *levelSystem) Priority() int { return 50 }
