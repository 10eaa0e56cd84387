package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed.
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Resized/resolution changed from the OS.
	EVENT_CODE_RESIZED SystemEventCode = 0x04

	// A compiled shader binary changed on disk.
	EVENT_CODE_SHADER_RELOADED SystemEventCode = 0x05

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// Payload for EVENT_CODE_KEY_PRESSED / EVENT_CODE_KEY_RELEASED.
type KeyEvent struct {
	KeyCode int
}

// Payload for EVENT_CODE_RESIZED.
type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

// Invoked for every fired event of a registered code. Returning true marks
// the event handled and stops propagation to later listeners.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	callback FnOnEvent
}

// EventSystem dispatches events synchronously to listeners registered per
// code. All state is owned by the instance so multiple systems can coexist.
type EventSystem struct {
	mu         sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

// Register adds a listener for the provided code.
func (es *EventSystem) Register(code SystemEventCode, onEvent FnOnEvent) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.registered[code] = append(es.registered[code], &registeredEvent{callback: onEvent})
}

// Fire dispatches the event to listeners in registration order. Returns true
// if a listener handled it.
func (es *EventSystem) Fire(context EventContext) bool {
	es.mu.RLock()
	listeners := es.registered[context.Type]
	es.mu.RUnlock()

	for _, e := range listeners {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// Shutdown drops all listeners. Objects pointed to should be destroyed on their own.
func (es *EventSystem) Shutdown() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.registered = make(map[SystemEventCode][]*registeredEvent)
}
