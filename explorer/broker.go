package explorer

import (
	"time"

	"github.com/eventual-recluse/scalespace"
)

type (
	// Broker carries messages from the model to the host (plugin wrapper,
	// command line, or whatever presents the model to the user). At the
	// moment there is only one recipient, so there is only one channel.
	// Sending never blocks: if the host is not listening and the channel is
	// full, messages are dropped.
	Broker struct {
		ToHost chan any
	}

	// LoadResult is sent every time a state value was applied to a slot.
	LoadResult struct {
		Key  string
		Slot int
		scalespace.LoadOutcome
	}

	// StateChanged is sent when the model itself changes a state value, e.g.
	// clears a path that failed to load, so the host can persist it.
	StateChanged struct {
		Key   string
		Value string
	}

	// ParameterChanged is sent when a parameter was changed through the
	// model, not by the host.
	ParameterChanged struct {
		Index int
		Value float64
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToHost: make(chan any, 1024),
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive waits at most d for a value from c. ok is false if d
// elapsed or c was closed.
func TimeoutReceive[T any](c <-chan T, d time.Duration) (v T, ok bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case v, ok = <-c:
	case <-timer.C:
	}
	return v, ok
}
