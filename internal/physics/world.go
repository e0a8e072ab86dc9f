package physics

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"

	"rollball/internal/config"
	"rollball/internal/scene"
)

// World владеет телами, связями и парами тело-узел.
// Симуляция продвигается фиксированным под-шагом: каждый вызов Step
// выполняет не более maxSubSteps под-шагов, чем ограничивается наверстывание
// после длинной паузы кадрового цикла.
type World struct {
	logger *log.Logger

	gravity         mgl32.Vec3
	defaultMaterial Material
	fixedStep       float32
	maxSubSteps     int
	accumulator     float32

	bodies      []*Body
	pairs       map[*Body]*scene.Node
	constraints []*PointConstraint
	contactSubs map[*Body]func(Contact)

	nextID    uint64
	stepCount uint64
}

// NewWorld создает физический мир с настройками из конфигурации
func NewWorld(cfg config.PhysicsConfig, logger *log.Logger) *World {
	if logger == nil {
		logger = log.Default()
	}
	return &World{
		logger:  logger.WithPrefix("physics"),
		gravity: mgl32.Vec3{0, -cfg.Gravity, 0},
		defaultMaterial: Material{
			Friction:    cfg.Friction,
			Restitution: cfg.Restitution,
		},
		fixedStep:   cfg.FixedStep,
		maxSubSteps: cfg.MaxSubSteps,
		pairs:       make(map[*Body]*scene.Node),
		contactSubs: make(map[*Body]func(Contact)),
		nextID:      1,
	}
}

// NewSphereBody создает сферическое тело. Масса 0 дает неподвижное тело.
func (w *World) NewSphereBody(radius float32, position mgl32.Vec3, mass float32) *Body {
	b := w.newBody(ShapeSphere, position, mass)
	b.Radius = radius
	return b
}

// NewBoxBody создает тело-бокс с размерами width x height x depth
func (w *World) NewBoxBody(width, height, depth float32, position mgl32.Vec3, mass float32) *Body {
	b := w.newBody(ShapeBox, position, mass)
	b.HalfExtents = mgl32.Vec3{width / 2, height / 2, depth / 2}
	return b
}

// NewCylinderBody создает тело-цилиндр с вертикальной осью
func (w *World) NewCylinderBody(radius, height float32, position mgl32.Vec3, mass float32) *Body {
	b := w.newBody(ShapeCylinder, position, mass)
	b.Radius = radius
	b.HalfHeight = height / 2
	return b
}

func (w *World) newBody(kind ShapeKind, position mgl32.Vec3, mass float32) *Body {
	b := &Body{
		id:                w.nextID,
		kind:              kind,
		Position:          position,
		Orientation:       mgl32.QuatIdent(),
		mass:              mass,
		Material:          w.defaultMaterial,
		CollisionResponse: true,
	}
	if mass > 0 {
		b.invMass = 1 / mass
	}
	w.nextID++
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody удаляет тело из мира вместе с его связями и подписками.
// Повторное удаление — no-op.
func (w *World) RemoveBody(b *Body) {
	idx := -1
	for i, body := range w.bodies {
		if body == b {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.logger.Debug("удаление отсутствующего тела пропущено", "id", b.id)
		return
	}

	w.bodies = append(w.bodies[:idx], w.bodies[idx+1:]...)
	delete(w.pairs, b)
	delete(w.contactSubs, b)

	kept := w.constraints[:0]
	for _, c := range w.constraints {
		if c.Body != b {
			kept = append(kept, c)
		}
	}
	w.constraints = kept
}

// RegisterPair связывает тело с визуальным узлом: каждый Step копирует позу
// тела в узел, никогда наоборот
func (w *World) RegisterPair(b *Body, node *scene.Node) {
	w.pairs[b] = node
	node.Position = b.Position
	node.Rotation = b.Orientation
}

// UnregisterPair разрывает пару и удаляет тело из мира
func (w *World) UnregisterPair(b *Body) {
	if _, exists := w.pairs[b]; !exists {
		w.logger.Debug("разрыв отсутствующей пары пропущен", "id", b.id)
		return
	}
	delete(w.pairs, b)
	w.RemoveBody(b)
}

// ApplyForce накапливает силу direction*magnitude до ближайшего Step.
// Сила интегрируется по времени под-шага и сбрасывается после Step,
// поэтому постоянное воздействие нужно прикладывать каждый кадр.
func (w *World) ApplyForce(b *Body, direction mgl32.Vec3, magnitude float32) {
	if b.invMass == 0 {
		return
	}
	b.force = b.force.Add(direction.Mul(magnitude))
}

// ApplyImpulse мгновенно меняет скорость тела
func (w *World) ApplyImpulse(b *Body, direction mgl32.Vec3, magnitude float32) {
	if b.invMass == 0 {
		return
	}
	b.Velocity = b.Velocity.Add(direction.Mul(magnitude * b.invMass))
}

// AddPointConstraint подвешивает тело к мировой точке на текущем расстоянии
// либо на заданной длине, если length > 0
func (w *World) AddPointConstraint(b *Body, anchor mgl32.Vec3, length float32) *PointConstraint {
	if length <= 0 {
		length = b.Position.Sub(anchor).Len()
	}
	c := &PointConstraint{Body: b, Anchor: anchor, Length: length}
	w.constraints = append(w.constraints, c)
	return c
}

// RemoveConstraint удаляет связь; отсутствующая связь — no-op
func (w *World) RemoveConstraint(c *PointConstraint) {
	for i, existing := range w.constraints {
		if existing == c {
			w.constraints = append(w.constraints[:i], w.constraints[i+1:]...)
			return
		}
	}
}

// OnContact подписывает обработчик контактов тела.
// Normal контакта всегда направлена к подписанному телу.
func (w *World) OnContact(b *Body, fn func(Contact)) {
	w.contactSubs[b] = fn
}

// ClampDt ограничивает кадровый dt временем, которое симуляция реально
// способна отработать за один Step. Кинематические препятствия продвигаются
// этим же значением, чтобы не телепортироваться после долгой паузы.
func (w *World) ClampDt(elapsed float64) float64 {
	limit := float64(w.fixedStep) * float64(w.maxSubSteps)
	return math.Min(elapsed, limit)
}

// Step продвигает симуляцию на elapsed секунд фиксированными под-шагами,
// затем копирует позы тел в их визуальные узлы.
// Возвращает фактически просимулированное время.
func (w *World) Step(elapsed float64) float64 {
	w.accumulator += float32(elapsed)

	steps := 0
	for w.accumulator >= w.fixedStep && steps < w.maxSubSteps {
		w.subStep(w.fixedStep)
		w.accumulator -= w.fixedStep
		steps++
	}

	// Избыток сверх лимита под-шагов отбрасывается, иначе после паузы
	// симуляция уйдет в неограниченное наверстывание
	if w.accumulator > w.fixedStep {
		w.accumulator = w.fixedStep
	}

	for _, b := range w.bodies {
		b.force = mgl32.Vec3{}
	}

	for b, node := range w.pairs {
		node.Position = b.Position
		node.Rotation = b.Orientation
	}

	return float64(steps) * float64(w.fixedStep)
}

// subStep выполняет один фиксированный шаг интегрирования
func (w *World) subStep(h float32) {
	w.stepCount++
	// Интегрирование динамических тел
	for _, b := range w.bodies {
		if !b.Dynamic() {
			continue
		}
		accel := w.gravity.Add(b.force.Mul(b.invMass))
		b.Velocity = b.Velocity.Add(accel.Mul(h))
		b.Position = b.Position.Add(b.Velocity.Mul(h))
		integrateOrientation(b, h)
	}

	// Связи после интегрирования, до контактов
	for _, c := range w.constraints {
		c.solve()
	}

	contacts := w.detectContacts()
	for i := range contacts {
		w.resolveContact(&contacts[i])
	}

	// Обработчики зовутся после разрешения, когда позы уже согласованы
	for i := range contacts {
		w.dispatchContact(&contacts[i])
	}
}

// detectContacts собирает контакты всех динамических сфер.
// Единственные динамические коллайдеры игры — сферы (шар игрока, боб
// маятника), поэтому узкая фаза ограничена парами сфера-форма.
func (w *World) detectContacts() []Contact {
	var contacts []Contact
	for i, a := range w.bodies {
		if !a.Dynamic() || a.kind != ShapeSphere || !a.CollisionResponse {
			continue
		}
		for j, b := range w.bodies {
			if i == j || !b.CollisionResponse {
				continue
			}
			// Пару динамических сфер обрабатываем один раз
			if b.Dynamic() && b.kind == ShapeSphere && j < i {
				continue
			}
			if c, ok := collideSphere(a, b); ok {
				contacts = append(contacts, c)
			}
		}
	}
	return contacts
}

// resolveContact применяет импульсную модель с трением и выталкиванием
func (w *World) resolveContact(c *Contact) {
	a, b := c.Body, c.Other

	invSum := a.invMass
	if b.Dynamic() {
		invSum += b.invMass
	}
	if invSum == 0 {
		return
	}

	// Позиционная коррекция пропорционально обратным массам
	correction := c.Normal.Mul(c.Depth / invSum)
	a.Position = a.Position.Add(correction.Mul(a.invMass))
	if b.Dynamic() {
		b.Position = b.Position.Sub(correction.Mul(b.invMass))
	}

	// Скорость поверхности второго тела в точке контакта: кинематическая
	// штанга передает удар через свою угловую скорость
	vb := b.Velocity
	if b.Kinematic {
		vb = b.Velocity.Add(b.AngularVelocity.Cross(c.Point.Sub(b.Position)))
	}

	rel := a.Velocity.Sub(vb)
	vn := rel.Dot(c.Normal)
	if vn >= 0 {
		return
	}

	e := a.Material.Restitution
	if b.Material.Restitution > e {
		e = b.Material.Restitution
	}

	j := -(1 + e) * vn / invSum
	impulse := c.Normal.Mul(j)
	a.Velocity = a.Velocity.Add(impulse.Mul(a.invMass))
	if b.Dynamic() {
		b.Velocity = b.Velocity.Sub(impulse.Mul(b.invMass))
	}

	// Кулоновское трение по касательной, ограниченное нормальным импульсом
	rel = a.Velocity.Sub(vb)
	tangent := rel.Sub(c.Normal.Mul(rel.Dot(c.Normal)))
	tLen := tangent.Len()
	if tLen > 1e-6 {
		tDir := tangent.Mul(1 / tLen)
		mu := float32(math.Sqrt(float64(a.Material.Friction * b.Material.Friction)))
		jt := tLen / invSum
		if jt > mu*j {
			jt = mu * j
		}
		frictionImpulse := tDir.Mul(jt)
		a.Velocity = a.Velocity.Sub(frictionImpulse.Mul(a.invMass))
		if b.Dynamic() {
			b.Velocity = b.Velocity.Add(frictionImpulse.Mul(b.invMass))
		}
	}

	// Визуальное качение сферы по опоре
	if a.kind == ShapeSphere && a.Radius > 0 && c.Normal.Y() > 0.5 {
		a.AngularVelocity = c.Normal.Cross(a.Velocity).Mul(1 / a.Radius)
	}
}

// dispatchContact уведомляет подписчиков обоих тел
func (w *World) dispatchContact(c *Contact) {
	if fn, ok := w.contactSubs[c.Body]; ok {
		fn(*c)
	}
	if fn, ok := w.contactSubs[c.Other]; ok {
		flipped := Contact{
			Body:   c.Other,
			Other:  c.Body,
			Normal: c.Normal.Mul(-1),
			Depth:  c.Depth,
			Point:  c.Point,
		}
		fn(flipped)
	}
}

// integrateOrientation продвигает кватернион тела его угловой скоростью
func integrateOrientation(b *Body, h float32) {
	omega := b.AngularVelocity
	if omega.Dot(omega) < 1e-10 {
		return
	}
	spin := mgl32.Quat{W: 0, V: omega}.Mul(b.Orientation).Scale(0.5 * h)
	b.Orientation = b.Orientation.Add(spin).Normalize()
}

// SubStepCount возвращает монотонный счетчик выполненных под-шагов.
// Короткий кадр может не выполнить ни одного: накопитель остается ниже
// fixedStep, контакты не генерируются и счетчик не меняется.
func (w *World) SubStepCount() uint64 {
	return w.stepCount
}

// BodyCount возвращает количество тел в мире
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// PairCount возвращает количество зарегистрированных пар тело-узел
func (w *World) PairCount() int {
	return len(w.pairs)
}
