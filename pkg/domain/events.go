package domain

import "time"

// Event is a synthetic, human-readable occurrence emitted by a trigger.
// Events are values: produced once and never mutated.
type Event struct {
	NodeID    string    `json:"id"`
	Message   string    `json:"msg"`
	Tick      int       `json:"tick"`
	Hour      int       `json:"hour"`
	Timestamp time.Time `json:"ctime"`
}

// Batch groups the events produced during a single tick.
// A tick without events still yields an (empty) batch.
type Batch struct {
	RunID  string  `json:"run_id"`
	Tick   int     `json:"tick"`
	Hour   int     `json:"hour"`
	Events []Event `json:"events"`
}

// Len returns the number of events in the batch.
func (b Batch) Len() int { return len(b.Events) }

// TransitionEvent describes a state change applied during a tick.
type TransitionEvent struct {
	NodeID   string
	NodeType string
	From     string
	To       string
	Tick     int
	Hour     int
}

// LifecycleHooks defines callbacks for driver observability.
// Hooks run synchronously inside the tick and must not mutate the graph.
type LifecycleHooks struct {
	OnTransition func(*TransitionEvent)
	OnEvent      func(*Event)
	OnTick       func(*Batch)
}

// Record is the wire form of an event pushed to downstream consumers:
//
//	{"ctime": 946684800, "event": {"id": "w1", "msg": "Application is down", "tick": 3}}
type Record struct {
	CTime int64       `json:"ctime"`
	Event RecordEvent `json:"event"`
}

// RecordEvent is the payload of a Record.
type RecordEvent struct {
	ID   string `json:"id"`
	Msg  string `json:"msg"`
	Tick int    `json:"tick"`
}

// Record returns the wire form of the event.
func (e Event) Record() Record {
	return Record{
		CTime: e.Timestamp.Unix(),
		Event: RecordEvent{ID: e.NodeID, Msg: e.Message, Tick: e.Tick},
	}
}
