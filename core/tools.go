package session

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/vela-voice/vela-core/core/transport"
)

const (
	toolSwitchScene   = "switch_scene"
	toolSwitchPersona = "switch_persona"
)

type switchSceneArgs struct {
	Scene string `json:"scene" jsonschema:"description=Identifier of the registered scene to switch the session to"`
}

type switchPersonaArgs struct {
	Persona string `json:"persona" jsonschema:"description=Identifier of the registered persona the agent should become"`
}

// controlToolDefinitions builds the fixed advertised tool set. Argument
// schemas are reflected from the typed args structs so the wire contract and
// the dispatch validation can't drift apart silently.
func controlToolDefinitions() []transport.ToolDefinition {
	reflector := jsonschema.Reflector{DoNotReference: true}

	return []transport.ToolDefinition{
		{
			Name:        toolSwitchScene,
			Description: "Move the conversation to a different registered scene.",
			Parameters:  *reflector.ReflectFromType(reflect.TypeOf(switchSceneArgs{})),
		},
		{
			Name:        toolSwitchPersona,
			Description: "Hand the conversation over to a different registered persona.",
			Parameters:  *reflector.ReflectFromType(reflect.TypeOf(switchPersonaArgs{})),
		},
	}
}
