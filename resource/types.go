package resource

// Handle is an opaque reference to a value in a Table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Type IDs for values stored by this module.
const (
	TypeTransfer uint32 = iota + 1
)

// EventType identifies a handle lifecycle change.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event describes one lifecycle change of a handle.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives lifecycle events. Events are delivered after the table
// lock is released, in the goroutine that caused them.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is implemented by values that release something when their
// handle is removed.
type Dropper interface {
	Drop()
}
