package dom

// Transitions is the rendering environment's animation capability. It is
// detected once at startup and injected, never probed per operation.
type Transitions int

const (
	TransitionsDisabled Transitions = iota
	TransitionsEnabled
)

// Node is a handle to one rendered element.
type Node interface {
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
	SetHTML(markup string)
	HTML() string
	AppendChild(className string) Node
	Parent() Node
	Detach()
	// OnTransitionEnd registers a callback invoked when the element's
	// current transition completes.
	OnTransitionEnd(fn func())
}

// Document creates top-level nodes in the rendering environment.
type Document interface {
	CreateNode(className string) Node
}
