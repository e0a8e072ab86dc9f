package scene

import "sync"

// Graph — реестр узлов визуальной сцены.
// Слушатели добавления/удаления позволяют транспортному слою рассылать
// клиентам create/remove без постоянного опроса реестра.
type Graph struct {
	mu       sync.RWMutex
	nodes    map[string]*Node
	onAdd    []func(*Node)
	onRemove []func(*Node)
}

// NewGraph создает новый пустой реестр узлов
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// Add добавляет узел в сцену и уведомляет слушателей
func (g *Graph) Add(node *Node) {
	g.mu.Lock()
	g.nodes[node.ID] = node
	listeners := g.onAdd
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(node)
	}
}

// Remove удаляет узел по идентификатору.
// Удаление отсутствующего узла — no-op.
func (g *Graph) Remove(id string) {
	g.mu.Lock()
	node, exists := g.nodes[id]
	if exists {
		delete(g.nodes, id)
	}
	listeners := g.onRemove
	g.mu.Unlock()

	if !exists {
		return
	}
	for _, fn := range listeners {
		fn(node)
	}
}

// Get возвращает узел по идентификатору
func (g *Graph) Get(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, exists := g.nodes[id]
	return node, exists
}

// All возвращает все узлы сцены
func (g *Graph) All() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		result = append(result, node)
	}
	return result
}

// Len возвращает количество узлов в сцене
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// OnAdd регистрирует слушателя добавления узлов
func (g *Graph) OnAdd(fn func(*Node)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onAdd = append(g.onAdd, fn)
}

// OnRemove регистрирует слушателя удаления узлов
func (g *Graph) OnRemove(fn func(*Node)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onRemove = append(g.onRemove, fn)
}
