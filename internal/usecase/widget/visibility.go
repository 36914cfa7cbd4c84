package widget

// Visibility tracks whether the cart UI is open. The zero value is
// hidden. Transitions are synchronous; rendering reads the state without
// blocking on any remote operation.
type Visibility struct {
	visible bool
}

func (v *Visibility) Open()   { v.visible = true }
func (v *Visibility) Close()  { v.visible = false }
func (v *Visibility) Toggle() { v.visible = !v.visible }

func (v *Visibility) Visible() bool { return v.visible }

// WrapperClass returns the presentation class for the current state.
func (v *Visibility) WrapperClass() string {
	if v.visible {
		return classActive
	}
	return ""
}
