package session

// Persona selects who the agent is for the session: display identity plus
// the synthesized output voice requested from the remote model at setup.
type Persona string

const (
	PersonaMira  Persona = "mira"
	PersonaTheo  Persona = "theo"
	PersonaJun   Persona = "jun"
	PersonaSalma Persona = "salma"
)

const DefaultPersona = PersonaMira

type personaProfile struct {
	displayName string
	voice       string
}

var personaRegistry = map[Persona]personaProfile{
	PersonaMira:  {displayName: "Mira", voice: "warm-female-1"},
	PersonaTheo:  {displayName: "Theo", voice: "calm-male-1"},
	PersonaJun:   {displayName: "Jun", voice: "bright-neutral-1"},
	PersonaSalma: {displayName: "Salma", voice: "low-female-2"},
}

// IsRegistered reports whether the persona exists in the fixed registry.
func (p Persona) IsRegistered() bool {
	_, ok := personaRegistry[p]
	return ok
}

// DisplayName returns the human-readable persona name.
func (p Persona) DisplayName() string {
	if profile, ok := personaRegistry[p]; ok {
		return profile.displayName
	}
	return string(p)
}

// Voice returns the output voice identifier this persona speaks with.
func (p Persona) Voice() string {
	if profile, ok := personaRegistry[p]; ok {
		return profile.voice
	}
	return personaRegistry[DefaultPersona].voice
}

// Personas lists every registered persona identifier.
func Personas() []Persona {
	return []Persona{PersonaMira, PersonaTheo, PersonaJun, PersonaSalma}
}
