// Package render holds terminal presentations of a matching session.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/match"
)

// palette colours tiles by the phrase they came from.
var palette = []lipgloss.Color{"203", "42", "39", "220", "171", "51", "208", "118"}

// emptyCell is two columns wide, like a CJK glyph.
const emptyCell = "  "

// Text writes one line per engine event. It implements match.Renderer.
type Text struct {
	w     io.Writer
	tiles []match.Tile
	Color bool // colour glyphs by origin phrase
}

var _ match.Renderer = (*Text)(nil)

// NewText renders to w. tiles is the session's tile arena; IDs are stable
// across Reset, so one Text can follow a game for its whole life.
func NewText(w io.Writer, tiles []match.Tile) *Text {
	return &Text{w: w, tiles: tiles}
}

func (t *Text) glyph(id int) string {
	if id < 0 || id >= len(t.tiles) {
		return emptyCell
	}
	tile := t.tiles[id]
	if !t.Color {
		return tile.Char
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(palette[tile.Origin%len(palette)])
	return style.Render(tile.Char)
}

func (t *Text) OnTilePlaced(ev match.TilePlaced) {
	fmt.Fprintf(t.w, "place  #%d %s -> [%d]\n", ev.TileID, t.glyph(ev.TileID), ev.Position)
}

func (t *Text) OnPhraseMatched(ev match.PhraseMatched) {
	fmt.Fprintf(t.w, "match  %s (slots %s)\n", ev.Phrase, joinInts(ev.FreedPositions))
}

func (t *Text) OnSlotsCompacted(ev match.SlotsCompacted) {
	fmt.Fprintf(t.w, "line   %s\n", t.line(ev.Occupancy))
}

func (t *Text) OnSessionComplete(match.SessionComplete) {
	fmt.Fprintln(t.w, "done   all phrases matched")
}

func (t *Text) line(occupancy []int) string {
	var b strings.Builder
	for _, id := range occupancy {
		b.WriteString("[")
		b.WriteString(t.glyph(id))
		b.WriteString("]")
	}
	return b.String()
}

// Board prints the answer line, the tray (as id:glyph) and the match record.
func (t *Text) Board(snap match.Snapshot) {
	occupancy := make([]int, len(snap.Slots))
	for i, s := range snap.Slots {
		occupancy[i] = s.Occupant
	}
	tray := make([]string, len(snap.Tray))
	for i, id := range snap.Tray {
		tray[i] = strconv.Itoa(id) + ":" + t.glyph(id)
	}
	fmt.Fprintf(t.w, "line   %s\n", t.line(occupancy))
	fmt.Fprintf(t.w, "tray   %s\n", strings.Join(tray, " "))
	fmt.Fprintf(t.w, "found  %s\n", strings.Join(snap.Matched, " "))
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
