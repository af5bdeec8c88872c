// internal/match/engine.go
//
// Core engine for a single tile-to-slot matching session.
// Responsibilities:
//   - Build a shuffled tile pool from a phrase dictionary.
//   - Place tiles into the leftmost empty slot.
//   - Detect phrases spelled across occupied slots, remove them, compact the line.
//   - Track state transitions: in_progress → complete.
//
// Notes:
//   - Tiles and slots live in two flat arenas; slots hold tile IDs, never pointers.
//   - Every mutation commits immediately and is reported as an ordered event list.
//   - An Engine is not safe for concurrent use; callers serialise access.
package match

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
)

// Source is the randomness the shuffle draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the shuffle source, e.g. a seeded *rand.Rand in tests.
func WithRand(src Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithSeed makes every shuffle of the engine reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Engine owns all non-visual game state.
type Engine struct {
	dict      phrases.Dictionary
	slotCount int
	rng       Source

	tiles    []Tile // arena, indexed by tile ID
	order    []int  // shuffled tile IDs (tray order)
	slots    []int  // tile ID per position, or Empty
	matched  []string
	consumed []bool // per dictionary entry
	complete bool
}

// New initialises a session from dict with slotCount slots.
func New(dict phrases.Dictionary, slotCount int, opts ...Option) (*Engine, error) {
	if dict.Len() == 0 {
		return nil, fmt.Errorf("%w: empty dictionary", ErrInvalidConfiguration)
	}
	if slotCount < 1 || slotCount > MaxSlots {
		return nil, fmt.Errorf("%w: slot count %d (want 1..%d)", ErrInvalidConfiguration, slotCount, MaxSlots)
	}
	e := &Engine{dict: dict, slotCount: slotCount}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e.init()
	return e, nil
}

// init replaces the whole session with a freshly shuffled one.
func (e *Engine) init() {
	e.tiles = e.tiles[:0]
	for origin := 0; origin < e.dict.Len(); origin++ {
		for _, ch := range e.dict.Entry(origin).Chars {
			e.tiles = append(e.tiles, Tile{ID: len(e.tiles), Char: ch, Origin: origin})
		}
	}
	e.order = make([]int, len(e.tiles))
	for i := range e.order {
		e.order[i] = i
	}
	shuffle(e.order, e.rng)

	e.slots = make([]int, e.slotCount)
	for i := range e.slots {
		e.slots[i] = Empty
	}
	e.matched = nil
	e.consumed = make([]bool, e.dict.Len())
	e.complete = false
}

// shuffle is an in-place Fisher–Yates permutation.
func shuffle(s []int, rng Source) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Reset discards the session and deals a new one from the same dictionary
// and slot count.
func (e *Engine) Reset() {
	e.init()
}

// PlaceTile commits tile id to the leftmost empty slot and runs match
// detection. It returns the slot the tile landed in and the resulting events.
//
// Placing a tile that is already on the line is a no-op: the current position
// is returned with no events, so repeated taps before an animation settles
// change nothing.
func (e *Engine) PlaceTile(id int) (int, []Event, error) {
	if id < 0 || id >= len(e.tiles) || e.tiles[id].Removed {
		return Empty, nil, fmt.Errorf("%w: tile %d", ErrInvalidReference, id)
	}
	if e.tiles[id].Placed {
		return slices.Index(e.slots, id), nil, nil
	}
	pos := slices.Index(e.slots, Empty)
	if pos < 0 {
		return Empty, nil, ErrNoAvailableSlot
	}

	e.slots[pos] = id
	e.tiles[id].Placed = true

	events := []Event{TilePlaced{TileID: id, Position: pos}}
	events = append(events, e.detect()...)
	return pos, events, nil
}

// Complete reports whether every phrase has been matched.
func (e *Engine) Complete() bool { return e.complete }

// State reports the coarse session state.
func (e *Engine) State() State {
	if e.complete {
		return StateComplete
	}
	return StateInProgress
}

// SlotCount is the fixed length of the answer line.
func (e *Engine) SlotCount() int { return e.slotCount }

// Dictionary returns the phrases the session was built from.
func (e *Engine) Dictionary() phrases.Dictionary { return e.dict }

// Matched returns the match record in insertion order.
func (e *Engine) Matched() []string { return slices.Clone(e.matched) }

// Tile returns a copy of tile id.
func (e *Engine) Tile(id int) (Tile, error) {
	if id < 0 || id >= len(e.tiles) {
		return Tile{}, fmt.Errorf("%w: tile %d", ErrInvalidReference, id)
	}
	return e.tiles[id], nil
}

// Slot returns the slot at position pos.
func (e *Engine) Slot(pos int) (Slot, error) {
	if pos < 0 || pos >= len(e.slots) {
		return Slot{}, fmt.Errorf("%w: slot %d", ErrInvalidReference, pos)
	}
	return Slot{Position: pos, Occupant: e.slots[pos]}, nil
}

// Snapshot copies the whole session.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Tiles:   slices.Clone(e.tiles),
		Tray:    make([]int, 0, len(e.order)),
		Slots:   make([]Slot, len(e.slots)),
		Matched: slices.Clone(e.matched),
		State:   e.State(),
	}
	for _, id := range e.order {
		if t := e.tiles[id]; !t.Placed && !t.Removed {
			snap.Tray = append(snap.Tray, id)
		}
	}
	for pos, id := range e.slots {
		snap.Slots[pos] = Slot{Position: pos, Occupant: id}
	}
	if snap.Matched == nil {
		snap.Matched = []string{}
	}
	return snap
}
