package state

// FocusSlot is a focusable control inside the modal viewer.
type FocusSlot int

const (
	FocusPrev FocusSlot = iota
	FocusNext
	FocusHide
	FocusClose
	focusSlots
)

func (f FocusSlot) String() string {
	switch f {
	case FocusPrev:
		return "prev"
	case FocusNext:
		return "next"
	case FocusHide:
		return "hide"
	default:
		return "close"
	}
}

// Cycle moves focus by step, wrapping at both ends.
func (f FocusSlot) Cycle(step int) FocusSlot {
	n := int(focusSlots)
	return FocusSlot(((int(f)+step)%n + n) % n)
}

// ModalState is the cursor of the full-screen viewer.
type ModalState struct {
	Open        bool
	Index       int
	Path        string
	ReturnFocus string
	Focus       FocusSlot
}
