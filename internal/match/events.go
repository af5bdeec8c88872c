// internal/match/events.go
//
// Events emitted by the engine and the Renderer capability that consumes them.
// Events are returned from PlaceTile in the order the state changes happened;
// the engine keeps no reference to any renderer.

package match

// EventKind names an event on the wire.
type EventKind string

const (
	KindTilePlaced      EventKind = "tile_placed"
	KindPhraseMatched   EventKind = "phrase_matched"
	KindSlotsCompacted  EventKind = "slots_compacted"
	KindSessionComplete EventKind = "session_complete"
)

// Event is implemented by every engine notification.
type Event interface {
	Kind() EventKind
}

// TilePlaced reports that a tile now occupies a slot.
type TilePlaced struct {
	TileID   int `json:"tileId"`
	Position int `json:"position"`
}

// PhraseMatched reports a consumed phrase and the tiles it removed.
type PhraseMatched struct {
	Phrase         string `json:"phrase"`
	TileIDs        []int  `json:"tileIds"`
	FreedPositions []int  `json:"freedPositions"`
}

// SlotsCompacted carries the occupancy after remaining tiles slid left.
// Occupancy[i] is the tile ID at position i, or Empty.
type SlotsCompacted struct {
	Occupancy []int `json:"occupancy"`
}

// SessionComplete fires once, when every phrase has been matched.
type SessionComplete struct{}

func (TilePlaced) Kind() EventKind      { return KindTilePlaced }
func (PhraseMatched) Kind() EventKind   { return KindPhraseMatched }
func (SlotsCompacted) Kind() EventKind  { return KindSlotsCompacted }
func (SessionComplete) Kind() EventKind { return KindSessionComplete }

// Renderer is the presentation side of the game: it animates placements and
// removals and shows the completion screen.
type Renderer interface {
	OnTilePlaced(TilePlaced)
	OnPhraseMatched(PhraseMatched)
	OnSlotsCompacted(SlotsCompacted)
	OnSessionComplete(SessionComplete)
}

// Dispatch delivers events to r in order.
func Dispatch(r Renderer, events []Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case TilePlaced:
			r.OnTilePlaced(e)
		case PhraseMatched:
			r.OnPhraseMatched(e)
		case SlotsCompacted:
			r.OnSlotsCompacted(e)
		case SessionComplete:
			r.OnSessionComplete(e)
		}
	}
}
