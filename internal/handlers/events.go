package handlers

import (
	"time"

	"github.com/vancomm/buscaminas/internal/mines"
)

type EventType string

const (
	EventReveal EventType = "reveal"
	EventFlag   EventType = "flag"
	EventEnd    EventType = "end"
)

type Event struct {
	Type    EventType           `json:"type"`
	Cell    *mines.RevealedCell `json:"cell,omitempty"`
	Point   *mines.Point        `json:"point,omitempty"`
	Flag    *mines.FlagResult   `json:"flag,omitempty"`
	Status  *mines.Status       `json:"status,omitempty"`
	Elapsed *int                `json:"elapsed,omitempty"`
}

// eventRecorder collects what the engine reports during one request.
type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) OnCellRevealed(c mines.RevealedCell) {
	r.events = append(r.events, Event{Type: EventReveal, Cell: &c})
}

func (r *eventRecorder) OnFlagToggled(p mines.Point, res mines.FlagResult) {
	r.events = append(r.events, Event{Type: EventFlag, Point: &p, Flag: &res})
}

func (r *eventRecorder) OnGameEnded(status mines.Status, elapsed time.Duration) {
	seconds := int(elapsed / time.Second)
	r.events = append(r.events, Event{Type: EventEnd, Status: &status, Elapsed: &seconds})
}

// take returns the collected events and starts over.
func (r *eventRecorder) take() []Event {
	events := r.events
	r.events = nil
	if events == nil {
		events = []Event{}
	}
	return events
}
