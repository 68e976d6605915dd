package dashboard

import "github.com/joshua-takyi/tripdesk/internal/models"

// ActionKind names the remote operation an Action mirrors.
type ActionKind int

const (
	ActionLoad ActionKind = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionLoad:
		return "load"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Action is one successful remote operation to mirror locally. Load uses
// Trips, Create and Update use Trip, Delete uses ID.
type Action struct {
	Kind  ActionKind
	Trips []models.Trip
	Trip  models.Trip
	ID    int64
}

// Reduce returns the list that results from applying a to list. The input is
// never modified; the result is always a fresh slice. Element slices (images,
// plans) are shared and must be treated as read-only.
func Reduce(list []models.Trip, a Action) []models.Trip {
	switch a.Kind {
	case ActionLoad:
		return append(make([]models.Trip, 0, len(a.Trips)), a.Trips...)

	case ActionCreate:
		out := make([]models.Trip, 0, len(list)+1)
		out = append(out, list...)
		return append(out, a.Trip)

	case ActionUpdate:
		out := make([]models.Trip, len(list))
		for i, t := range list {
			if t.ID == a.Trip.ID {
				t = a.Trip
			}
			out[i] = t
		}
		return out

	case ActionDelete:
		out := make([]models.Trip, 0, len(list))
		for _, t := range list {
			if t.ID != a.ID {
				out = append(out, t)
			}
		}
		return out
	}
	return append(make([]models.Trip, 0, len(list)), list...)
}
