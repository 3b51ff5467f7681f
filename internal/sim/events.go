package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// EventKind tags the three observable interactions.
type EventKind int

const (
	EventPunish EventKind = iota
	EventLearn
	EventCompete
)

func (k EventKind) String() string {
	switch k {
	case EventPunish:
		return "punish"
	case EventLearn:
		return "learn"
	case EventCompete:
		return "compete"
	}
	return "unknown"
}

// Ref locates an event participant by its index path from the group
// the stage ran on: each element selects a child, and the last element
// of an individual ref selects a leaf member. Refs are positional and
// only valid for the turn that emitted them; competition may rewrite
// what lives at a path afterwards.
type Ref struct {
	Path []int
}

func (r Ref) String() string {
	if len(r.Path) == 0 {
		return "/"
	}
	parts := make([]string, len(r.Path))
	for i, p := range r.Path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, "/")
}

// refAt builds a Ref for the element at index i below path. The path
// is copied; refs never alias a walk's scratch slice.
func refAt(path []int, i int) Ref {
	p := make([]int, len(path)+1)
	copy(p, path)
	p[len(path)] = i
	return Ref{Path: p}
}

// InteractionEvent records one pairwise interaction: who punished
// whom, who sampled whom as a learning model, which group contested
// which. Events exist for observers; the engine never reads them back.
type InteractionEvent struct {
	Kind   EventKind
	Source Ref
	Target Ref
}

func (ev InteractionEvent) String() string {
	return fmt.Sprintf("%s %s -> %s", ev.Kind, ev.Source, ev.Target)
}

// EventList accumulates events in emission order. A nil list swallows
// events, so callers without observers can pass nil.
type EventList struct {
	events []InteractionEvent
}

func (l *EventList) Add(ev InteractionEvent) {
	if l == nil {
		return
	}
	l.events = append(l.events, ev)
}

// addRebased appends src's events with their refs re-rooted under
// base. Stage operators emit refs relative to the group they ran on;
// the simulation reports refs from the root.
func (l *EventList) addRebased(src *EventList, base []int) {
	if l == nil || src == nil {
		return
	}
	for _, ev := range src.events {
		ev.Source = rebase(base, ev.Source)
		ev.Target = rebase(base, ev.Target)
		l.events = append(l.events, ev)
	}
}

func rebase(base []int, r Ref) Ref {
	if len(base) == 0 {
		return r
	}
	p := make([]int, 0, len(base)+len(r.Path))
	p = append(p, base...)
	p = append(p, r.Path...)
	return Ref{Path: p}
}

// Events returns the accumulated events in emission order.
func (l *EventList) Events() []InteractionEvent {
	if l == nil {
		return nil
	}
	return l.events
}

func (l *EventList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}

// TurnReport summarizes one completed turn.
type TurnReport struct {
	Turn   int
	Events []InteractionEvent
}

// StageReport summarizes one stage step. TurnDone marks the last stage
// of a turn.
type StageReport struct {
	Turn     int
	Stage    Stage
	Events   []InteractionEvent
	TurnDone bool
}
