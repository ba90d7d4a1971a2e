package core

import "sync"

// EventContext carries the payload of a fired event.
type EventContext struct {
	// Path of the asset that triggered the event, if any.
	Path string
	// Name of the shader or layout, without directory and extension.
	Name string
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// A WGSL shader was created or modified.
	/* Context usage:
	 * path = data.Path
	 */
	EVENT_CODE_SHADER_CHANGED SystemEventCode = 0x01

	// A vertex layout declaration was created or modified.
	/* Context usage:
	 * path = data.Path
	 */
	EVENT_CODE_LAYOUT_CHANGED SystemEventCode = 0x02

	// A watched asset was removed.
	EVENT_CODE_ASSET_REMOVED SystemEventCode = 0x03

	// A binding plan was rebuilt after one of its assets changed.
	EVENT_CODE_PLAN_REBUILT SystemEventCode = 0x04

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	mutex sync.RWMutex
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

/**
 * Event system internal state.
 */
var eventStateMu sync.Mutex
var eventState *eventSystemState = nil

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

func EventInitialize() bool {
	eventStateMu.Lock()
	defer eventStateMu.Unlock()
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{}
	return true
}

func EventShutdown() error {
	eventStateMu.Lock()
	defer eventStateMu.Unlock()
	eventState = nil
	return nil
}

func currentEventState() *eventSystemState {
	eventStateMu.Lock()
	defer eventStateMu.Unlock()
	return eventState
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A listener instance. Can be nil.
 * @param onEvent The callback invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	state := currentEventState()
	if state == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	state.mutex.Lock()
	defer state.mutex.Unlock()

	for _, e := range state.registered[code].events {
		if e.listener == listener {
			LogWarn("event %d: listener already registered", code)
			return false
		}
	}
	state.registered[code].events = append(state.registered[code].events, &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	state := currentEventState()
	if state == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	state.mutex.Lock()
	defer state.mutex.Unlock()

	events := state.registered[code].events
	for i, e := range events {
		if e.listener == listener {
			state.registered[code].events = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	state := currentEventState()
	if state == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	state.mutex.RLock()
	events := append([]*registeredEvent(nil), state.registered[code].events...)
	state.mutex.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
