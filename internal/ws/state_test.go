package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "reconnecting", StateReconnecting.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "ConnState(42)", ConnState(42).String())
}

func TestStateBox_Transitions(t *testing.T) {
	var b stateBox

	assert.Equal(t, StateDisconnected, b.load())
	assert.True(t, b.cas(StateDisconnected, StateConnecting))
	assert.False(t, b.cas(StateDisconnected, StateConnected))
	assert.True(t, b.set(StateConnected))
	assert.Equal(t, StateConnected, b.load())
}

func TestStateBox_ClosedIsTerminal(t *testing.T) {
	var b stateBox
	b.set(StateConnected)

	assert.True(t, b.close())
	assert.False(t, b.close())
	assert.False(t, b.set(StateConnected))
	assert.Equal(t, StateClosed, b.load())
}

func TestStateBox_ConcurrentClose(t *testing.T) {
	var b stateBox
	var wg sync.WaitGroup
	var winners sync.Map

	for i := range 32 {
		wg.Go(func() {
			if b.close() {
				winners.Store(i, true)
			}
		})
	}
	wg.Wait()

	count := 0
	winners.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)
}
