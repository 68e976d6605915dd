package dashboard

import (
	"testing"

	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModalTransitions(t *testing.T) {
	trip := &models.Trip{ID: 5, Title: "Goa"}

	tests := []struct {
		name string
		from ModalState
		ev   Event
		want ModalState
	}{
		{"add", ModalState{}, Event{Kind: EventOpenAdd}, ModalState{Mode: FormOpen}},
		{"edit", ModalState{}, Event{Kind: EventOpenEdit, Trip: trip}, ModalState{Mode: FormOpen, Editing: trip}},
		{"request delete", ModalState{}, Event{Kind: EventRequestDelete, TargetID: 5}, ModalState{Mode: ConfirmingDelete, TargetID: 5}},
		{"escape idle", ModalState{}, Event{Kind: EventEscape}, ModalState{}},
		{"form cancel", ModalState{Mode: FormOpen}, Event{Kind: EventCancel}, ModalState{}},
		{"form escape", ModalState{Mode: FormOpen, Editing: trip}, Event{Kind: EventEscape}, ModalState{}},
		{"form backdrop", ModalState{Mode: FormOpen}, Event{Kind: EventBackdropClick}, ModalState{}},
		{"form submitted", ModalState{Mode: FormOpen}, Event{Kind: EventSubmitted}, ModalState{}},
		{"confirm cancel", ModalState{Mode: ConfirmingDelete, TargetID: 5}, Event{Kind: EventCancel}, ModalState{}},
		{"confirm escape", ModalState{Mode: ConfirmingDelete, TargetID: 5}, Event{Kind: EventEscape}, ModalState{}},
		{"confirm backdrop", ModalState{Mode: ConfirmingDelete, TargetID: 5}, Event{Kind: EventBackdropClick}, ModalState{}},
		{"confirm finished", ModalState{Mode: ConfirmingDelete, TargetID: 5}, Event{Kind: EventDeleteFinished}, ModalState{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModalRejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from ModalState
		ev   Event
	}{
		{"second form", ModalState{Mode: FormOpen}, Event{Kind: EventOpenAdd}},
		{"delete while editing", ModalState{Mode: FormOpen}, Event{Kind: EventRequestDelete, TargetID: 1}},
		{"edit while confirming", ModalState{Mode: ConfirmingDelete, TargetID: 1}, Event{Kind: EventOpenEdit, Trip: &models.Trip{ID: 1}}},
		{"submit while confirming", ModalState{Mode: ConfirmingDelete, TargetID: 1}, Event{Kind: EventSubmitted}},
		{"cancel idle", ModalState{}, Event{Kind: EventCancel}},
		{"finished idle", ModalState{}, Event{Kind: EventDeleteFinished}},
		{"edit nil trip", ModalState{}, Event{Kind: EventOpenEdit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.ev)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestModalEditCopiesTrip(t *testing.T) {
	trip := models.Trip{ID: 1, Title: "Goa"}
	got, err := ModalState{}.Transition(Event{Kind: EventOpenEdit, Trip: &trip})
	require.NoError(t, err)

	trip.Title = "changed"
	assert.Equal(t, "Goa", got.Editing.Title)
}
