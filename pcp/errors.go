package pcp

import (
	"errors"
	"fmt"
)

// ErrNoTiles is returned when a problem has no tiles.
var ErrNoTiles = errors.New("no tiles given")

// ValidationError reports input rejected before any search state is created.
type ValidationError struct {
	// Field names the offending input: "tile", "max_depth" or "min_depth"
	Field string
	// Token is the raw tile token for tile errors
	Token string
	// Position is the 1-based tile position for tile errors
	Position int
	// Reason describes what is wrong
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "tile" {
		return fmt.Sprintf("invalid tile format %q at position %d: %s", e.Token, e.Position, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
