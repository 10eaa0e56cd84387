package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventSystemFireReachesRegisteredListeners(t *testing.T) {
	es := NewEventSystem()

	var received []EventContext
	es.Register(EVENT_CODE_KEY_PRESSED, func(context EventContext) bool {
		received = append(received, context)
		return false
	})

	handled := es.Fire(EventContext{
		Type: EVENT_CODE_KEY_PRESSED,
		Data: KeyEvent{KeyCode: 65},
	})
	require.False(t, handled)
	require.Len(t, received, 1)
	require.Equal(t, KeyEvent{KeyCode: 65}, received[0].Data)
}

func TestEventSystemFireUnregisteredCode(t *testing.T) {
	es := NewEventSystem()
	require.False(t, es.Fire(EventContext{Type: EVENT_CODE_RESIZED}))
}

func TestEventSystemHandledStopsPropagation(t *testing.T) {
	es := NewEventSystem()

	var order []string
	es.Register(EVENT_CODE_APPLICATION_QUIT, func(EventContext) bool {
		order = append(order, "first")
		return true
	})
	es.Register(EVENT_CODE_APPLICATION_QUIT, func(EventContext) bool {
		order = append(order, "second")
		return false
	})

	require.True(t, es.Fire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}))
	require.Equal(t, []string{"first"}, order)
}

func TestEventSystemListenersAreCalledInRegistrationOrder(t *testing.T) {
	es := NewEventSystem()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		es.Register(EVENT_CODE_RESIZED, func(EventContext) bool {
			order = append(order, i)
			return false
		})
	}

	es.Fire(EventContext{Type: EVENT_CODE_RESIZED})
	require.Equal(t, []int{0, 1, 2}, order)
}

func TestEventSystemShutdownDropsListeners(t *testing.T) {
	es := NewEventSystem()

	called := false
	es.Register(EVENT_CODE_SHADER_RELOADED, func(EventContext) bool {
		called = true
		return true
	})

	es.Shutdown()
	require.False(t, es.Fire(EventContext{Type: EVENT_CODE_SHADER_RELOADED}))
	require.False(t, called)
}
