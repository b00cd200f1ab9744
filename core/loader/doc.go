// Package loader provides the feature loading system of the read API.
//
// Each feature implements the Feature interface and contributes its routes
// when the server starts.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps registered features in order and loads the enabled ones
// through LoadAll.
package loader
