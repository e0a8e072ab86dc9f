package ws

import (
	"math"
	"time"

	"rollball/internal/scene"
)

// Serializer собирает сообщения create/update/remove из узлов графа сцены
type Serializer struct {
	graph *scene.Graph
}

// NewSerializer создает сериализатор над графом сцены
func NewSerializer(graph *scene.Graph) *Serializer {
	return &Serializer{graph: graph}
}

// NaN в сообщении ломает JSON-кодирование на стороне клиента
func safeFloat32(val, defaultVal float32) float32 {
	if math.IsNaN(float64(val)) {
		return defaultVal
	}
	return val
}

func serverTimeMs() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// MakeCreate формирует сообщение создания узла с полями его формы
func (s *Serializer) MakeCreate(node *scene.Node) map[string]interface{} {
	msg := map[string]interface{}{
		"type":        MessageTypeCreate,
		"id":          node.ID,
		"x":           safeFloat32(node.Position.X(), 0),
		"y":           safeFloat32(node.Position.Y(), 0),
		"z":           safeFloat32(node.Position.Z(), 0),
		"color":       node.Color,
		"opacity":     safeFloat32(node.Opacity, 1),
		"visible":     node.Visible,
		"server_time": serverTimeMs(),
	}

	switch node.Shape.Type {
	case scene.SPHERE:
		msg["object_type"] = "sphere"
		msg["radius"] = safeFloat32(node.Shape.Sphere.Radius, 1)
	case scene.BOX:
		msg["object_type"] = "box"
		msg["width"] = safeFloat32(node.Shape.Box.Width, 1)
		msg["height"] = safeFloat32(node.Shape.Box.Height, 1)
		msg["depth"] = safeFloat32(node.Shape.Box.Depth, 1)
	case scene.CYLINDER:
		msg["object_type"] = "cylinder"
		msg["radius"] = safeFloat32(node.Shape.Cylinder.Radius, 1)
		msg["height"] = safeFloat32(node.Shape.Cylinder.Height, 1)
	}

	return msg
}

// MakeUpdate формирует сообщение с текущей трансформацией узла
func (s *Serializer) MakeUpdate(node *scene.Node) map[string]interface{} {
	return map[string]interface{}{
		"type":        MessageTypeUpdate,
		"id":          node.ID,
		"x":           safeFloat32(node.Position.X(), 0),
		"y":           safeFloat32(node.Position.Y(), 0),
		"z":           safeFloat32(node.Position.Z(), 0),
		"qx":          safeFloat32(node.Rotation.X(), 0),
		"qy":          safeFloat32(node.Rotation.Y(), 0),
		"qz":          safeFloat32(node.Rotation.Z(), 0),
		"qw":          safeFloat32(node.Rotation.W, 1),
		"sx":          safeFloat32(node.Scale.X(), 1),
		"sy":          safeFloat32(node.Scale.Y(), 1),
		"sz":          safeFloat32(node.Scale.Z(), 1),
		"opacity":     safeFloat32(node.Opacity, 1),
		"visible":     node.Visible,
		"server_time": serverTimeMs(),
	}
}

// MakeRemove формирует сообщение удаления узла
func (s *Serializer) MakeRemove(nodeID string) map[string]interface{} {
	return map[string]interface{}{
		"type": MessageTypeRemove,
		"id":   nodeID,
	}
}

// SendCreateForAll отправляет клиенту снимок всех узлов сцены
func (s *Serializer) SendCreateForAll(writer *SafeWriter) error {
	for _, node := range s.graph.All() {
		if err := writer.WriteJSON(s.MakeCreate(node)); err != nil {
			return err
		}
	}
	return nil
}

// MakeUpdatesForAll формирует пакет обновлений по всем узлам сцены
func (s *Serializer) MakeUpdatesForAll() []map[string]interface{} {
	nodes := s.graph.All()
	updates := make([]map[string]interface{}, 0, len(nodes))
	for _, node := range nodes {
		updates = append(updates, s.MakeUpdate(node))
	}
	return updates
}
