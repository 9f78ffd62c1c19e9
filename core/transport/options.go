// Package transport defines the option surface between the session core and
// the opaque remote voice-model connection. The core only ever sees typed
// events; how they travel is the client implementation's business.
package transport

import (
	"github.com/invopop/jsonschema"
	"github.com/vela-voice/vela-core/core/events"
)

// ToolDefinition advertises one control tool to the remote model at setup.
type ToolDefinition struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  jsonschema.Schema `json:"parameters"`
}

// Setup configures the remote session before any audio flows.
type Setup struct {
	// Voice is the synthesized output voice, selected by the persona.
	Voice string
	// Scene names the ambient setting the model should roleplay in.
	Scene string
	// Instructions is the optional system priming for the model.
	Instructions string
	// Tools is the advertised control tool set.
	Tools []ToolDefinition
	// InputSampleRate declares the capture rate of outbound audio frames.
	InputSampleRate int
}

type Options struct {
	Setup Setup

	// EventCallback receives every decoded inbound event, in arrival order.
	EventCallback func(events.Event)
	// CloseCallback is invoked once when the connection ends; err is nil on
	// a clean close.
	CloseCallback func(err error)
}

type Option func(*Options)

func WithSetup(setup Setup) Option {
	return func(o *Options) { o.Setup = setup }
}

func WithEventCallback(callback func(events.Event)) Option {
	return func(o *Options) { o.EventCallback = callback }
}

func WithCloseCallback(callback func(err error)) Option {
	return func(o *Options) { o.CloseCallback = callback }
}
