// Package notify fans state-change events out to websocket clients and,
// optionally, a redis channel.
package notify

// Event is one broadcast message. Payload must be JSON-marshalable.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	EventHello          = "hello"
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderCancelled = "order.cancelled"
	EventOrderCooked    = "order.cooked"
	EventOrderPicked    = "order.picked"
	EventPrinterStatus  = "printer.status"
	EventSessionEnded   = "session.ended"
	EventSystemReset    = "system.reset"
	EventSyncSnapshot   = "sync.snapshot"
	EventPrintPrinted   = "print.printed"
	EventPrintFailed    = "print.failed"
)

// Sink receives events; implementations must not block.
type Sink interface {
	Publish(ev Event)
}

// MultiSink duplicates every event to each member.
type MultiSink []Sink

func (m MultiSink) Publish(ev Event) {
	for _, s := range m {
		s.Publish(ev)
	}
}
