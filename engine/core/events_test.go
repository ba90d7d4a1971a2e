package core

import "testing"

func TestEventRegisterAndFire(t *testing.T) {
	EventInitialize()
	t.Cleanup(func() { _ = EventShutdown() })

	var got EventContext
	listener := &struct{}{}
	ok := EventRegister(EVENT_CODE_LAYOUT_CHANGED, listener, func(code SystemEventCode, sender, inst interface{}, data EventContext) bool {
		got = data
		return true
	})
	if !ok {
		t.Fatal("EventRegister() = false")
	}
	if EventRegister(EVENT_CODE_LAYOUT_CHANGED, listener, nil) {
		t.Error("duplicate listener should be rejected")
	}

	if !EventFire(EVENT_CODE_LAYOUT_CHANGED, nil, EventContext{Path: "a/b.layout.toml", Name: "b"}) {
		t.Fatal("EventFire() = false, want handled")
	}
	if got.Name != "b" || got.Path != "a/b.layout.toml" {
		t.Errorf("listener received %+v", got)
	}

	if EventFire(EVENT_CODE_SHADER_CHANGED, nil, EventContext{}) {
		t.Error("event without listeners reported as handled")
	}

	if !EventUnregister(EVENT_CODE_LAYOUT_CHANGED, listener) {
		t.Error("EventUnregister() = false")
	}
	if EventFire(EVENT_CODE_LAYOUT_CHANGED, nil, EventContext{}) {
		t.Error("unregistered listener still handled the event")
	}
}

func TestEventFireBeforeInitialize(t *testing.T) {
	_ = EventShutdown()
	if EventFire(EVENT_CODE_SHADER_CHANGED, nil, EventContext{}) {
		t.Error("EventFire() before initialization should not be handled")
	}
	if EventRegister(EVENT_CODE_SHADER_CHANGED, nil, nil) {
		t.Error("EventRegister() before initialization should fail")
	}
}
