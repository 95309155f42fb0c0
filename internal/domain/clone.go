package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
)

// CloneRoom duplicates src into targetVariant with fresh identities for the
// room and every copied child. The source subtree is never touched. With
// includeProducts false no lines are copied; a non-nil filter restricts the
// copied lines to the named subset while all room attributes and images are
// still copied in full.
func CloneRoom(src *Room, targetVariant *Variant, includeProducts bool, filter map[uuid.UUID]struct{}) (*Room, error) {
	if src == nil {
		return nil, NewStructuralError("clone source room is missing")
	}
	if targetVariant == nil {
		return nil, NewStructuralError("clone target variant is missing")
	}
	if src.ID == targetVariant.ID {
		return nil, NewStructuralError("clone source and target are the same entity")
	}

	clone := deepcopy.Copy(src).(*Room)
	clone.ID = uuid.New()
	clone.VariantID = targetVariant.ID
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}

	for i := range clone.Images {
		clone.Images[i].ID = uuid.New()
		clone.Images[i].RoomID = clone.ID
		clone.Images[i].CreatedAt = time.Time{}
	}

	if !includeProducts {
		clone.Lines = nil
		return clone, nil
	}

	lines := clone.Lines
	clone.Lines = make([]ProductLine, 0, len(lines))
	for i, l := range lines {
		if filter != nil {
			// Filter keys are the SOURCE line ids.
			if _, ok := filter[src.Lines[i].ID]; !ok {
				continue
			}
		}
		l.ID = uuid.New()
		l.RoomID = clone.ID
		l.CreatedAt = time.Time{}
		l.UpdatedAt = time.Time{}
		clone.Lines = append(clone.Lines, l)
	}
	return clone, nil
}

// CloneVariant duplicates src into targetPhase. The clone's order is
// appended after the phase's current maximum so clones land at the end,
// never interleaved. With includeRooms true every room is cloned with all
// its lines. targetPhase.Variants must carry the phase's current variants
// so the next order can be derived.
func CloneVariant(src *Variant, targetPhase *Phase, includeRooms bool) (*Variant, error) {
	if src == nil {
		return nil, NewStructuralError("clone source variant is missing")
	}
	if targetPhase == nil {
		return nil, NewStructuralError("clone target phase is missing")
	}
	if src.ID == targetPhase.ID {
		return nil, NewStructuralError("clone source and target are the same entity")
	}

	clone := deepcopy.Copy(src).(*Variant)
	clone.ID = uuid.New()
	clone.PhaseID = targetPhase.ID
	clone.Order = nextVariantOrder(targetPhase)
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}

	if !includeRooms {
		clone.Rooms = nil
		return clone, nil
	}

	clone.Rooms = make([]Room, 0, len(src.Rooms))
	for i := range src.Rooms {
		r, err := CloneRoom(&src.Rooms[i], clone, true, nil)
		if err != nil {
			return nil, err
		}
		clone.Rooms = append(clone.Rooms, *r)
	}
	return clone, nil
}

func nextVariantOrder(phase *Phase) int {
	max := -1
	for _, v := range phase.Variants {
		if v.Order > max {
			max = v.Order
		}
	}
	return max + 1
}
