package match

// detect consumes every phrase spelled on the answer line, one at a time,
// re-reading the line after each removal and compaction.
//
// For each pass the occupied slots are read left to right (empty slots add
// nothing). The first un-consumed dictionary entry found as a contiguous run
// wins; within that entry the leftmost occurrence is used.
func (e *Engine) detect() []Event {
	var events []Event
	for {
		positions := e.occupiedPositions()
		chars := make([]string, len(positions))
		for i, pos := range positions {
			chars[i] = e.tiles[e.slots[pos]].Char
		}

		entry, start := e.firstMatch(chars)
		if entry < 0 {
			return events
		}
		phrase := e.dict.Entry(entry)
		run := positions[start : start+len(phrase.Chars)]

		ev := PhraseMatched{
			Phrase:         phrase.Text,
			TileIDs:        make([]int, 0, len(run)),
			FreedPositions: make([]int, 0, len(run)),
		}
		for _, pos := range run {
			id := e.slots[pos]
			e.tiles[id].Removed = true
			e.slots[pos] = Empty
			ev.TileIDs = append(ev.TileIDs, id)
			ev.FreedPositions = append(ev.FreedPositions, pos)
		}
		e.consumed[entry] = true
		e.matched = append(e.matched, phrase.Text)
		events = append(events, ev)

		e.compact()
		events = append(events, SlotsCompacted{Occupancy: append([]int(nil), e.slots...)})

		if !e.complete && len(e.matched) == e.dict.Len() {
			e.complete = true
			events = append(events, SessionComplete{})
		}
	}
}

// firstMatch returns the dictionary index and run offset of the first
// un-consumed phrase found in chars, or (-1, -1).
func (e *Engine) firstMatch(chars []string) (int, int) {
	for i := 0; i < e.dict.Len(); i++ {
		if e.consumed[i] {
			continue
		}
		if at := indexRun(chars, e.dict.Entry(i).Chars); at >= 0 {
			return i, at
		}
	}
	return -1, -1
}

// indexRun returns the first offset at which needle occurs contiguously in
// haystack, or -1.
func indexRun(haystack, needle []string) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

// occupiedPositions lists occupied slot positions in ascending order.
func (e *Engine) occupiedPositions() []int {
	out := make([]int, 0, len(e.slots))
	for pos, id := range e.slots {
		if id != Empty {
			out = append(out, pos)
		}
	}
	return out
}

// compact slides occupied slots left, keeping their relative order, so no
// placed tile has an empty slot to its left.
func (e *Engine) compact() {
	next := 0
	for pos, id := range e.slots {
		if id == Empty {
			continue
		}
		if pos != next {
			e.slots[next] = id
			e.slots[pos] = Empty
		}
		next++
	}
}
