// Package modkit wires API modules: shared deps in, routes and ports out
package modkit

import (
	"ballotaudit/internal/modkit/httpkit"
)

// Module is the common surface for API modules that can mount routes and expose ports
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r httpkit.Router)
	// Ports returns a module specific port set for cross wiring, nil when none
	Ports() any
	// Name returns the module name
	Name() string
}

// MountAll mounts every module on r in order
func MountAll(r httpkit.Router, mods ...Module) {
	for _, m := range mods {
		if m != nil {
			m.MountRoutes(r)
		}
	}
}
