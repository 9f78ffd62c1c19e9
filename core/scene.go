package session

// Scene selects the ambient setting the conversation takes place in. The set
// is fixed; the remote model may only switch between registered scenes.
type Scene string

const (
	SceneCafe         Scene = "cafe"
	SceneStreetMarket Scene = "street_market"
	SceneOffice       Scene = "office"
	ScenePark         Scene = "park"
	SceneTransitHub   Scene = "transit_hub"
)

const DefaultScene = SceneCafe

var sceneRegistry = map[Scene]string{
	SceneCafe:         "Corner Cafe",
	SceneStreetMarket: "Street Market",
	SceneOffice:       "Open Office",
	ScenePark:         "City Park",
	SceneTransitHub:   "Transit Hub",
}

// IsRegistered reports whether the scene exists in the fixed registry.
func (s Scene) IsRegistered() bool {
	_, ok := sceneRegistry[s]
	return ok
}

// DisplayName returns the human-readable scene name.
func (s Scene) DisplayName() string {
	if name, ok := sceneRegistry[s]; ok {
		return name
	}
	return string(s)
}

// Scenes lists every registered scene identifier.
func Scenes() []Scene {
	return []Scene{SceneCafe, SceneStreetMarket, SceneOffice, ScenePark, SceneTransitHub}
}
