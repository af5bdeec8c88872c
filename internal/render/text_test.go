package render

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/match"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
)

func newEngine(t *testing.T) *match.Engine {
	t.Helper()
	d, err := phrases.NewDictionary("你好", "谢谢")
	require.NoError(t, err)
	e, err := match.New(d, 4, match.WithSeed(11))
	require.NoError(t, err)
	return e
}

func TestText_SessionGolden(t *testing.T) {
	e := newEngine(t)
	var buf bytes.Buffer
	r := NewText(&buf, e.Snapshot().Tiles)

	// tile ids follow dictionary order: 0你 1好 2谢 3谢
	for _, id := range []int{2, 0, 1, 3} {
		_, events, err := e.PlaceTile(id)
		require.NoError(t, err)
		match.Dispatch(r, events)
	}

	g := goldie.New(t)
	g.Assert(t, "session", buf.Bytes())
}

func TestText_Board(t *testing.T) {
	snap := match.Snapshot{
		Tiles: []match.Tile{
			{ID: 0, Char: "你"}, {ID: 1, Char: "好", Placed: true}, {ID: 2, Char: "谢", Origin: 1},
		},
		Tray:    []int{2, 0},
		Slots:   []match.Slot{{Position: 0, Occupant: 1}, {Position: 1, Occupant: match.Empty}},
		Matched: []string{"再见"},
	}
	var buf bytes.Buffer
	NewText(&buf, snap.Tiles).Board(snap)

	assert.Equal(t, "line   [好][  ]\ntray   2:谢 0:你\nfound  再见\n", buf.String())
}

func TestText_ColorKeepsGlyph(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, []match.Tile{{ID: 0, Char: "爱", Origin: 9}})
	r.Color = true
	r.OnTilePlaced(match.TilePlaced{TileID: 0, Position: 0})
	assert.Contains(t, buf.String(), "爱")
}
