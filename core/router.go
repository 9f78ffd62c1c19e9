package session

import (
	"sync"

	"github.com/vela-voice/vela-core/core/events"
)

// controlRouter dispatches structured tool invocations arriving interleaved
// with audio and transcript events. Validated calls mutate scene/persona
// state and produce an acknowledgement on the outbound stream; calls naming
// an unknown tool or target are dropped without acknowledgement.
type controlRouter struct {
	mu sync.Mutex

	scene   Scene
	persona Persona

	// sendResponse pushes the acknowledgement onto the outbound stream.
	sendResponse func(events.ToolCallResponded) error
	emitEvent    eventEmitter
}

func newControlRouter(scene Scene, persona Persona) *controlRouter {
	if !scene.IsRegistered() {
		scene = DefaultScene
	}
	if !persona.IsRegistered() {
		persona = DefaultPersona
	}

	return &controlRouter{
		scene:        scene,
		persona:      persona,
		sendResponse: func(events.ToolCallResponded) error { return nil },
		emitEvent:    noopEventEmitter,
	}
}

func (r *controlRouter) SetEventEmitter(emitEvent eventEmitter) {
	if r == nil {
		return
	}

	if emitEvent != nil {
		r.emitEvent = emitEvent
	} else {
		r.emitEvent = noopEventEmitter
	}
}

func (r *controlRouter) SetResponseSender(send func(events.ToolCallResponded) error) {
	if r == nil || send == nil {
		return
	}

	r.sendResponse = send
}

// Dispatch validates the call against the fixed registries and applies the
// requested state change. A validation failure drops the call entirely: no
// state mutation and no acknowledgement (the remote model stalls on that
// call; see the recovery note in DESIGN.md).
func (r *controlRouter) Dispatch(call events.ToolCallRequested) {
	var result map[string]any

	switch call.Name {
	case toolSwitchScene:
		target, ok := stringArg(call.Arguments, "scene")
		if !ok || !Scene(target).IsRegistered() {
			logger.Warn("dropping tool call with unknown scene", "call_id", call.CallID, "scene", target)
			return
		}

		r.mu.Lock()
		r.scene = Scene(target)
		r.mu.Unlock()
		result = map[string]any{"ok": true, "scene": target}

	case toolSwitchPersona:
		target, ok := stringArg(call.Arguments, "persona")
		if !ok || !Persona(target).IsRegistered() {
			logger.Warn("dropping tool call with unknown persona", "call_id", call.CallID, "persona", target)
			return
		}

		r.mu.Lock()
		r.persona = Persona(target)
		r.mu.Unlock()
		result = map[string]any{"ok": true, "persona": target}

	default:
		logger.Warn("dropping unknown tool call", "call_id", call.CallID, "tool", call.Name)
		return
	}

	response := events.NewToolCallResponded(call.CallID, call.Name, result)
	if err := r.sendResponse(response); err != nil {
		logger.Warn("failed to send tool acknowledgement", "call_id", call.CallID, "error", err)
	}
	r.emitEvent(response)
}

// SetScene applies a locally requested scene change. Unregistered scenes
// are rejected.
func (r *controlRouter) SetScene(scene Scene) bool {
	if !scene.IsRegistered() {
		return false
	}

	r.mu.Lock()
	r.scene = scene
	r.mu.Unlock()
	return true
}

// SetPersona applies a locally requested persona change. Unregistered
// personas are rejected.
func (r *controlRouter) SetPersona(persona Persona) bool {
	if !persona.IsRegistered() {
		return false
	}

	r.mu.Lock()
	r.persona = persona
	r.mu.Unlock()
	return true
}

// Scene returns the current scene.
func (r *controlRouter) Scene() Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene
}

// Persona returns the current persona.
func (r *controlRouter) Persona() Persona {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persona
}

func stringArg(arguments map[string]any, key string) (string, bool) {
	if arguments == nil {
		return "", false
	}

	value, ok := arguments[key].(string)
	return value, ok && value != ""
}
