// internal/match/types.go
//
// Value types for the tile-to-slot matching engine.
// Defines:
//   - Tile: one grapheme cut from a dictionary phrase.
//   - Slot: one ordered placement target on the answer line.
//   - State: coarse session state (in_progress → complete).
//   - Snapshot: a detached copy of a whole session for renderers and transport.

package match

// Empty marks a slot with no occupant.
const Empty = -1

// MaxSlots bounds the answer line length a session may be created with.
const MaxSlots = 64

// State is the session-level state.
type State string

const (
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// Tile is a single character unit placeable into a slot.
type Tile struct {
	ID      int    `json:"id"`      // stable arena index
	Char    string `json:"char"`    // one grapheme cluster
	Origin  int    `json:"origin"`  // index of the source phrase; identity/colour only
	Placed  bool   `json:"placed"`  // committed to a slot
	Removed bool   `json:"removed"` // consumed by a phrase match
}

// Slot is one position on the answer line.
type Slot struct {
	Position int `json:"position"`
	Occupant int `json:"occupant"` // tile ID or Empty
}

// Occupied reports whether a tile sits in the slot.
func (s Slot) Occupied() bool { return s.Occupant != Empty }

// Snapshot is a copy of session state. Mutating it does not affect the engine.
type Snapshot struct {
	Tiles   []Tile   `json:"tiles"`   // indexed by tile ID
	Tray    []int    `json:"tray"`    // unplaced tile IDs in shuffled order
	Slots   []Slot   `json:"slots"`   // indexed by position
	Matched []string `json:"matched"` // match record, insertion order
	State   State    `json:"state"`
}
