package httpserver

import "github.com/vlinh/hanzimatch/apps/go-server/internal/match"

// wireEvent is the JSON form of an engine event.
type wireEvent struct {
	Kind match.EventKind `json:"kind"`
	Data match.Event     `json:"data"`
}

// eventLog is a match.Renderer that collects events for the response body;
// the browser client animates them.
type eventLog struct {
	out []wireEvent
}

func (l *eventLog) add(ev match.Event) {
	l.out = append(l.out, wireEvent{Kind: ev.Kind(), Data: ev})
}

func (l *eventLog) OnTilePlaced(ev match.TilePlaced)           { l.add(ev) }
func (l *eventLog) OnPhraseMatched(ev match.PhraseMatched)     { l.add(ev) }
func (l *eventLog) OnSlotsCompacted(ev match.SlotsCompacted)   { l.add(ev) }
func (l *eventLog) OnSessionComplete(ev match.SessionComplete) { l.add(ev) }

func encodeEvents(events []match.Event) []wireEvent {
	l := &eventLog{out: []wireEvent{}}
	match.Dispatch(l, events)
	return l.out
}
