package engine

import (
	"slategallery/internal/modal"
	"slategallery/internal/selection"
)

// Kind names a user action.
type Kind int

const (
	Click Kind = iota
	SelectAll
	DeselectAll
	SelectSlate
	DeselectSlate
	ToggleSelectedMode
	Hide
	Unhide
	ToggleHide
	UnhideAll
	ToggleHiddenMode
	ToggleOrientation
	ToggleFocal
	ToggleDate
	ClearFilters
	SetThumbSize
	OpenModal
	CloseModal
	ModalNext
	ModalPrev
	ModalKey
	Resize
	Export
)

var kindNames = [...]string{
	Click:              "click",
	SelectAll:          "select-all",
	DeselectAll:        "deselect-all",
	SelectSlate:        "select-slate",
	DeselectSlate:      "deselect-slate",
	ToggleSelectedMode: "toggle-selected-mode",
	Hide:               "hide",
	Unhide:             "unhide",
	ToggleHide:         "toggle-hide",
	UnhideAll:          "unhide-all",
	ToggleHiddenMode:   "toggle-hidden-mode",
	ToggleOrientation:  "toggle-orientation",
	ToggleFocal:        "toggle-focal",
	ToggleDate:         "toggle-date",
	ClearFilters:       "clear-filters",
	SetThumbSize:       "set-thumb-size",
	OpenModal:          "open-modal",
	CloseModal:         "close-modal",
	ModalNext:          "modal-next",
	ModalPrev:          "modal-prev",
	ModalKey:           "modal-key",
	Resize:             "resize",
	Export:             "export",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Command is one user action. Only the fields the kind needs are read:
//
//	Path       Click, Hide, Unhide, ToggleHide, OpenModal
//	Slate      SelectSlate, DeselectSlate
//	Key        ToggleOrientation, ToggleFocal, ToggleDate
//	Mods       Click
//	Value      SetThumbSize
//	ModalKey   ModalKey (Mods.Shift for shift+Tab)
//	Focus      OpenModal, the control to refocus on close
//	Confirmed  UnhideAll
type Command struct {
	Kind      Kind
	Path      string
	Slate     string
	Key       string
	Mods      selection.Mods
	Value     int
	ModalKey  modal.Key
	Focus     string
	Confirmed bool
}

// Result reports what a command did.
type Result struct {
	// Changed is the number of records whose flags changed, where the
	// command counts them.
	Changed int
	// Text is the export block.
	Text string
}
