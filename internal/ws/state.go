package ws

import (
	"fmt"
	"sync/atomic"
)

// ConnState is a step of the connection lifecycle. A first dial goes
// Disconnected, Connecting, Connected; a dropped link goes Disconnected,
// Reconnecting, Connected. Closed is terminal.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

var connStateNames = [...]string{"disconnected", "connecting", "connected", "reconnecting", "closed"}

func (s ConnState) String() string {
	if s < 0 || int(s) >= len(connStateNames) {
		return fmt.Sprintf("ConnState(%d)", int32(s))
	}
	return connStateNames[s]
}

// stateBox holds a ConnState that is read and updated from the read loop,
// the reconnect goroutine and callers at the same time.
type stateBox struct {
	v atomic.Int32
}

func (b *stateBox) load() ConnState {
	return ConnState(b.v.Load())
}

func (b *stateBox) cas(from, to ConnState) bool {
	return b.v.CompareAndSwap(int32(from), int32(to))
}

// set moves to next unless the box is already Closed.
func (b *stateBox) set(next ConnState) bool {
	for {
		cur := b.load()
		if cur == StateClosed {
			return false
		}
		if b.cas(cur, next) {
			return true
		}
	}
}

// close moves to Closed and reports whether this call did it.
func (b *stateBox) close() bool {
	for {
		cur := b.load()
		if cur == StateClosed {
			return false
		}
		if b.cas(cur, StateClosed) {
			return true
		}
	}
}
