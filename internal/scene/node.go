package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ShapeType определяет тип визуальной формы узла
type ShapeType int

const (
	SPHERE ShapeType = iota
	BOX
	CYLINDER
)

// SphereData параметры сферы
type SphereData struct {
	Radius float32
}

// BoxData параметры параллелепипеда
type BoxData struct {
	Width  float32
	Height float32
	Depth  float32
}

// CylinderData параметры цилиндра
type CylinderData struct {
	Radius float32
	Height float32
}

// ShapeDescriptor описывает форму узла для клиента
type ShapeDescriptor struct {
	Type     ShapeType
	Sphere   *SphereData
	Box      *BoxData
	Cylinder *CylinderData
}

// Node — узел визуальной сцены. Сервер не рендерит узлы сам:
// их трансформации транслируются браузерному клиенту, который и рисует сцену.
type Node struct {
	ID       string
	Shape    *ShapeDescriptor
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Color    string
	Opacity  float32
	Visible  bool
}

// NewSphereNode создает узел-сферу
func NewSphereNode(id string, position mgl32.Vec3, radius float32, color string) *Node {
	return newNode(id, position, color, &ShapeDescriptor{
		Type:   SPHERE,
		Sphere: &SphereData{Radius: radius},
	})
}

// NewBoxNode создает узел-бокс
func NewBoxNode(id string, position mgl32.Vec3, width, height, depth float32, color string) *Node {
	return newNode(id, position, color, &ShapeDescriptor{
		Type: BOX,
		Box:  &BoxData{Width: width, Height: height, Depth: depth},
	})
}

// NewCylinderNode создает узел-цилиндр
func NewCylinderNode(id string, position mgl32.Vec3, radius, height float32, color string) *Node {
	return newNode(id, position, color, &ShapeDescriptor{
		Type:     CYLINDER,
		Cylinder: &CylinderData{Radius: radius, Height: height},
	})
}

func newNode(id string, position mgl32.Vec3, color string, shape *ShapeDescriptor) *Node {
	return &Node{
		ID:       id,
		Shape:    shape,
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Color:    color,
		Opacity:  1.0,
		Visible:  true,
	}
}
