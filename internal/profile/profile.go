// Package profile defines assessment profiles that modulate oracle prompt
// construction. Each profile provides a SystemPromptAddendum that is appended
// to the system prompt sent to the oracle.
package profile

import "fmt"

// Profile describes an assessment strategy for a class of repositories.
type Profile struct {
	Name                 string
	Description          string
	SystemPromptAddendum string
}

// builtins is the registry of built-in profiles keyed by name.
var builtins = map[string]Profile{
	"general": {
		Name:        "general",
		Description: "Default profile; assesses all package usage equally.",
		SystemPromptAddendum: "Assess each package's usage on its own merits. When the evidence " +
			"file is too small to judge, say so in the reasoning rather than guessing.",
	},
	"frontend": {
		Name:        "frontend",
		Description: "Frontend profile; weights component structure and state handling.",
		SystemPromptAddendum: "This repository is a frontend application. Weight component " +
			"decomposition, state management discipline, and rendering hygiene heavily. Flag " +
			"direct DOM manipulation alongside a declarative UI framework as a key finding.",
	},
	"backend": {
		Name:        "backend",
		Description: "Backend profile; weights error handling and input validation.",
		SystemPromptAddendum: "This repository is a backend service. Weight error handling, " +
			"input validation, and resource cleanup heavily. Flag unvalidated request data " +
			"reaching a datastore as a key finding.",
	},
	"library": {
		Name:        "library",
		Description: "Library profile; weights API surface and documentation.",
		SystemPromptAddendum: "This repository is a library. Weight the clarity of the exported " +
			"API surface and its documentation heavily. Internal implementation details have " +
			"latitude as long as the public surface is coherent.",
	},
}

// Load returns the named built-in profile or an error if the name is unknown.
func Load(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile: unknown profile %q", name)
	}
	return p, nil
}

// Names returns the built-in profile names for help text. Order is unspecified.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	return names
}
