// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCountry is returned when the requested country is not in the
	// country code table.
	ErrUnknownCountry = errors.New("unknown country")
	// ErrUnknownKind is returned for a view kind other than publications or patents.
	ErrUnknownKind = errors.New("unknown kind")
)

// OptionError reports a query option with an unsupported value.
type OptionError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *OptionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid value %q for option %s", e.Value, e.Field)
	}
	return fmt.Sprintf("invalid value %q for option %s (allowed: %v)", e.Value, e.Field, e.Allowed)
}
