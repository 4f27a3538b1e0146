// Package adapter provides transports to the remote translation engine.
package adapter

import "github.com/nirogya/lingo"

// Adapter is the interface for remote translation transports.
// This is an alias to the main package interface for convenience.
type Adapter = lingo.Adapter

// Request is an alias to the main package type.
type Request = lingo.Request
