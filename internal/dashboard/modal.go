package dashboard

import (
	"errors"
	"fmt"

	"github.com/joshua-takyi/tripdesk/internal/models"
)

// ErrInvalidTransition is returned for an event the current mode does not accept.
var ErrInvalidTransition = errors.New("invalid modal transition")

// Mode is which modal, if any, is showing.
type Mode int

const (
	Idle Mode = iota
	FormOpen
	ConfirmingDelete
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case FormOpen:
		return "form_open"
	case ConfirmingDelete:
		return "confirming_delete"
	}
	return "unknown"
}

// EventKind identifies a user or completion event fed to the modal.
type EventKind int

const (
	EventOpenAdd EventKind = iota
	EventOpenEdit
	EventRequestDelete
	EventCancel
	EventEscape
	EventBackdropClick
	EventSubmitted
	EventDeleteFinished
)

var eventNames = [...]string{
	"open_add", "open_edit", "request_delete", "cancel",
	"escape", "backdrop_click", "submitted", "delete_finished",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event carries the trip for EventOpenEdit and the id for EventRequestDelete.
type Event struct {
	Kind     EventKind
	Trip     *models.Trip
	TargetID int64
}

// ModalState is the single modal the dashboard may show. Editing is set only
// in FormOpen when an existing trip is edited; TargetID only in
// ConfirmingDelete.
type ModalState struct {
	Mode     Mode
	Editing  *models.Trip
	TargetID int64
}

// Transition applies ev and returns the next state. On an invalid transition
// it returns the unchanged state and ErrInvalidTransition. Escape is a global
// key and is accepted in Idle as a no-op.
func (s ModalState) Transition(ev Event) (ModalState, error) {
	switch s.Mode {
	case Idle:
		switch ev.Kind {
		case EventOpenAdd:
			return ModalState{Mode: FormOpen}, nil
		case EventOpenEdit:
			if ev.Trip == nil {
				return s, fmt.Errorf("%w: edit without a trip", ErrInvalidTransition)
			}
			trip := *ev.Trip
			return ModalState{Mode: FormOpen, Editing: &trip}, nil
		case EventRequestDelete:
			return ModalState{Mode: ConfirmingDelete, TargetID: ev.TargetID}, nil
		case EventEscape:
			return s, nil
		}

	case FormOpen:
		switch ev.Kind {
		case EventCancel, EventEscape, EventBackdropClick, EventSubmitted:
			return ModalState{Mode: Idle}, nil
		}

	case ConfirmingDelete:
		switch ev.Kind {
		case EventCancel, EventEscape, EventBackdropClick, EventDeleteFinished:
			return ModalState{Mode: Idle}, nil
		}
	}
	return s, fmt.Errorf("%w: %s in %s", ErrInvalidTransition, ev.Kind, s.Mode)
}
