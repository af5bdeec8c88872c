package match

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
)

func mustDict(t *testing.T, texts ...string) phrases.Dictionary {
	t.Helper()
	d, err := phrases.NewDictionary(texts...)
	require.NoError(t, err)
	return d
}

func mustEngine(t *testing.T, slots int, texts ...string) *Engine {
	t.Helper()
	e, err := New(mustDict(t, texts...), slots, WithSeed(7))
	require.NoError(t, err)
	return e
}

// occupy puts tile ids straight into slots, bypassing placement rules.
func occupy(e *Engine, byPos map[int]int) {
	for pos, id := range byPos {
		e.slots[pos] = id
		e.tiles[id].Placed = true
	}
}

// trayTile returns the first tray tile showing ch.
func trayTile(t *testing.T, e *Engine, ch string) int {
	t.Helper()
	for _, id := range e.Snapshot().Tray {
		if e.tiles[id].Char == ch {
			return id
		}
	}
	t.Fatalf("no tray tile %q", ch)
	return Empty
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind()
	}
	return out
}

func TestNew_InvalidConfiguration(t *testing.T) {
	_, err := New(phrases.Dictionary{}, 4)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New(mustDict(t, "你好"), 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New(mustDict(t, "你好"), MaxSlots+1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New(mustDict(t, "你好"), 1<<40)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	e, err := New(mustDict(t, "你好"), MaxSlots)
	require.NoError(t, err)
	assert.Equal(t, MaxSlots, e.SlotCount())
}

func TestNew_TilesCoverDictionary(t *testing.T) {
	d := mustDict(t, "欢迎光临", "请问", "谢谢")
	e, err := New(d, 6, WithSeed(1))
	require.NoError(t, err)

	snap := e.Snapshot()
	require.Len(t, snap.Tiles, d.TotalChars())
	assert.Len(t, snap.Tray, d.TotalChars())
	assert.Equal(t, StateInProgress, snap.State)
	assert.Empty(t, snap.Matched)

	var got, want []string
	for _, tile := range snap.Tiles {
		got = append(got, tile.Char)
	}
	for _, p := range d.Phrases() {
		want = append(want, phrases.Graphemes(p)...)
	}
	slices.Sort(got)
	slices.Sort(want)
	assert.Equal(t, want, got)

	for _, s := range snap.Slots {
		assert.False(t, s.Occupied())
	}
}

func TestNew_OriginTagsSourcePhrase(t *testing.T) {
	e := mustEngine(t, 4, "你好", "再见")
	for _, tile := range e.Snapshot().Tiles {
		phrase := e.Dictionary().Entry(tile.Origin).Text
		assert.Contains(t, phrase, tile.Char)
	}
}

func TestShuffle_FisherYates(t *testing.T) {
	s := []int{0, 1, 2, 3}
	shuffle(s, zeroSource{})
	assert.Equal(t, []int{1, 2, 3, 0}, s)
}

type zeroSource struct{}

func (zeroSource) IntN(int) int { return 0 }

func TestShuffle_SeedIsReproducible(t *testing.T) {
	d := mustDict(t, "欢迎光临", "请问", "裙子", "结账")
	a, err := New(d, 6, WithSeed(99))
	require.NoError(t, err)
	b, err := New(d, 6, WithSeed(99))
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot().Tray, b.Snapshot().Tray)

	tray := slices.Clone(a.Snapshot().Tray)
	slices.Sort(tray)
	for i, id := range tray {
		assert.Equal(t, i, id, "shuffle must be a permutation of tile ids")
	}
}

func TestPlaceTile_LowestEmptySlot(t *testing.T) {
	e := mustEngine(t, 4, "一二三", "四五六")
	// slots: [一, _, 四, _]
	occupy(e, map[int]int{0: 0, 2: 3})

	pos, events, err := e.PlaceTile(4)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, []Event{TilePlaced{TileID: 4, Position: 1}}, events)
}

func TestPlaceTile_RepeatIsNoop(t *testing.T) {
	e := mustEngine(t, 4, "你好", "谢谢")
	id := trayTile(t, e, "你")

	pos, events, err := e.PlaceTile(id)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	assert.Len(t, events, 1)

	pos, events, err = e.PlaceTile(id)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	assert.Empty(t, events)

	occupied := 0
	for _, s := range e.Snapshot().Slots {
		if s.Occupied() {
			occupied++
		}
	}
	assert.Equal(t, 1, occupied)
}

func TestPlaceTile_InvalidReference(t *testing.T) {
	e := mustEngine(t, 4, "你好")
	before := e.Snapshot()

	for _, id := range []int{-1, 2, 100} {
		_, events, err := e.PlaceTile(id)
		assert.ErrorIs(t, err, ErrInvalidReference)
		assert.Nil(t, events)
	}
	assert.Equal(t, before, e.Snapshot())

	_, err := e.Slot(4)
	assert.ErrorIs(t, err, ErrInvalidReference)
	_, err = e.Tile(-3)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestPlaceTile_RemovedTileIsInvalid(t *testing.T) {
	e := mustEngine(t, 4, "你好", "再见")
	ni := trayTile(t, e, "你")
	hao := trayTile(t, e, "好")
	_, _, err := e.PlaceTile(ni)
	require.NoError(t, err)
	_, _, err = e.PlaceTile(hao)
	require.NoError(t, err)

	_, _, err = e.PlaceTile(ni)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestPlaceTile_NoAvailableSlot(t *testing.T) {
	e := mustEngine(t, 1, "你好")
	_, _, err := e.PlaceTile(trayTile(t, e, "你"))
	require.NoError(t, err)

	hao := trayTile(t, e, "好")
	_, events, err := e.PlaceTile(hao)
	assert.True(t, errors.Is(err, ErrNoAvailableSlot))
	assert.Nil(t, events)

	tile, err := e.Tile(hao)
	require.NoError(t, err)
	assert.False(t, tile.Placed)
}

func TestPlaceTile_MatchRemovesAndCompacts(t *testing.T) {
	e := mustEngine(t, 4, "你好", "谢谢")
	xie := trayTile(t, e, "谢")
	ni := trayTile(t, e, "你")
	hao := trayTile(t, e, "好")

	for _, id := range []int{xie, ni} {
		_, _, err := e.PlaceTile(id)
		require.NoError(t, err)
	}
	pos, events, err := e.PlaceTile(hao)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	require.Equal(t, []EventKind{KindTilePlaced, KindPhraseMatched, KindSlotsCompacted}, kinds(events))
	assert.Equal(t, PhraseMatched{Phrase: "你好", TileIDs: []int{ni, hao}, FreedPositions: []int{1, 2}}, events[1])
	assert.Equal(t, SlotsCompacted{Occupancy: []int{xie, Empty, Empty, Empty}}, events[2])

	assert.Equal(t, []string{"你好"}, e.Matched())
	assert.False(t, e.Complete())
}

func TestDetect_DictionaryOrderWinsOnOverlap(t *testing.T) {
	// tiles: 0好 1谢 2你 3好
	e := mustEngine(t, 4, "好谢", "你好")
	// line spells 你好谢: both phrases present, overlapping on 好.
	occupy(e, map[int]int{0: 2, 1: 3, 2: 1})

	events := e.detect()
	require.NotEmpty(t, events)
	assert.Equal(t, PhraseMatched{Phrase: "好谢", TileIDs: []int{3, 1}, FreedPositions: []int{1, 2}}, events[0])
	assert.Equal(t, []string{"好谢"}, e.Matched())
	assert.Equal(t, []int{2, Empty, Empty, Empty}, e.slots)
}

func TestDetect_CompactionKeepsRelativeOrder(t *testing.T) {
	// tiles: 0木 1火 2土 3金
	e := mustEngine(t, 5, "木", "火土金")
	occupy(e, map[int]int{0: 1, 2: 0, 4: 3})

	events := e.detect()
	require.Equal(t, []EventKind{KindPhraseMatched, KindSlotsCompacted}, kinds(events))
	assert.Equal(t, []int{2}, events[0].(PhraseMatched).FreedPositions)
	assert.Equal(t, []int{1, 3, Empty, Empty, Empty}, events[1].(SlotsCompacted).Occupancy)
}

func TestDetect_ChainedMatchesCompleteSession(t *testing.T) {
	// tiles: 0你 1好 2谢 3谢
	e := mustEngine(t, 4, "你好", "谢谢")
	occupy(e, map[int]int{0: 0, 1: 1, 2: 2, 3: 3})

	events := e.detect()
	require.Equal(t, []EventKind{
		KindPhraseMatched, KindSlotsCompacted,
		KindPhraseMatched, KindSlotsCompacted,
		KindSessionComplete,
	}, kinds(events))
	assert.Equal(t, "你好", events[0].(PhraseMatched).Phrase)
	assert.Equal(t, []int{2, 3, Empty, Empty}, events[1].(SlotsCompacted).Occupancy)
	assert.Equal(t, PhraseMatched{Phrase: "谢谢", TileIDs: []int{2, 3}, FreedPositions: []int{0, 1}}, events[2])
	assert.Equal(t, []string{"你好", "谢谢"}, e.Matched())
	assert.Equal(t, StateComplete, e.State())
}

func play(t *testing.T, e *Engine) []Event {
	t.Helper()
	var all []Event
	for _, p := range e.Dictionary().Phrases() {
		for _, ch := range phrases.Graphemes(p) {
			_, events, err := e.PlaceTile(trayTile(t, e, ch))
			require.NoError(t, err)
			all = append(all, events...)
		}
	}
	return all
}

func TestSession_CompleteOnceThenReset(t *testing.T) {
	e := mustEngine(t, 4, "你好", "谢谢", "再见")

	events := play(t, e)
	complete := 0
	for _, ev := range events {
		if ev.Kind() == KindSessionComplete {
			complete++
		}
	}
	assert.Equal(t, 1, complete)
	assert.True(t, e.Complete())
	assert.Equal(t, []string{"你好", "谢谢", "再见"}, e.Matched())
	assert.Empty(t, e.Snapshot().Tray)

	e.Reset()
	snap := e.Snapshot()
	assert.Equal(t, StateInProgress, snap.State)
	assert.Empty(t, snap.Matched)
	assert.Len(t, snap.Tray, 6)
	for _, tile := range snap.Tiles {
		assert.False(t, tile.Placed)
		assert.False(t, tile.Removed)
	}
	for _, s := range snap.Slots {
		assert.Equal(t, Empty, s.Occupant)
	}
}

func TestSnapshot_IsDetached(t *testing.T) {
	e := mustEngine(t, 4, "你好")
	snap := e.Snapshot()
	snap.Tiles[0].Placed = true
	snap.Slots[0].Occupant = 1

	tile, err := e.Tile(0)
	require.NoError(t, err)
	assert.False(t, tile.Placed)
	slot, err := e.Slot(0)
	require.NoError(t, err)
	assert.False(t, slot.Occupied())
}
