package dom

import (
	"sort"
	"strings"
	"sync"
)

// MemoryDocument is an in-memory Document used by tests and by the demo
// composition root, where no real rendering surface exists.
type MemoryDocument struct {
	mu   sync.Mutex
	root *MemoryNode
}

func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{root: &MemoryNode{classes: map[string]bool{}}}
}

func (d *MemoryDocument) CreateNode(className string) Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root.AppendChild(className)
}

// MemoryNode implements Node over plain structs.
type MemoryNode struct {
	mu            sync.Mutex
	classes       map[string]bool
	html          string
	parent        *MemoryNode
	children      []*MemoryNode
	transitionEnd []func()
}

func (n *MemoryNode) AddClass(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.classes[name] = true
}

func (n *MemoryNode) RemoveClass(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.classes, name)
}

func (n *MemoryNode) HasClass(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.classes[name]
}

// ClassName returns the node's classes as a sorted space-separated list.
func (n *MemoryNode) ClassName() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, len(n.classes))
	for name := range n.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

func (n *MemoryNode) SetHTML(markup string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.html = markup
}

func (n *MemoryNode) HTML() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.html
}

func (n *MemoryNode) AppendChild(className string) Node {
	child := &MemoryNode{classes: map[string]bool{}, parent: n}
	if className != "" {
		child.classes[className] = true
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children = append(n.children, child)
	return child
}

func (n *MemoryNode) Parent() Node {
	n.mu.Lock()
	parent := n.parent
	n.mu.Unlock()
	if parent == nil {
		return nil
	}
	return parent
}

func (n *MemoryNode) Detach() {
	n.mu.Lock()
	parent := n.parent
	n.parent = nil
	n.mu.Unlock()
	if parent == nil {
		return
	}
	parent.mu.Lock()
	defer parent.mu.Unlock()
	for i, child := range parent.children {
		if child == n {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
}

func (n *MemoryNode) OnTransitionEnd(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transitionEnd = append(n.transitionEnd, fn)
}

// FireTransitionEnd simulates the completion of a CSS transition, running
// and clearing every registered callback.
func (n *MemoryNode) FireTransitionEnd() {
	n.mu.Lock()
	callbacks := n.transitionEnd
	n.transitionEnd = nil
	n.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// Children returns the node's current children.
func (n *MemoryNode) Children() []*MemoryNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*MemoryNode, len(n.children))
	copy(out, n.children)
	return out
}
