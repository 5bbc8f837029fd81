package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

var boolTokens = map[string]bool{
	"y":     true,
	"yes":   true,
	"t":     true,
	"true":  true,
	"on":    true,
	"1":     true,
	"n":     false,
	"no":    false,
	"f":     false,
	"false": false,
	"off":   false,
	"0":     false,
}

// ParseBool converts a human-entered truthy or falsy token into a bool.
// Matching is case-insensitive and ignores surrounding whitespace; any other token is an error.
func ParseBool(raw string) (bool, error) {
	v, ok := boolTokens[folder.String(strings.TrimSpace(raw))]
	if !ok {
		return false, fmt.Errorf("%q is not a valid bool value", raw)
	}
	return v, nil
}

// Bool is a bool decoded from the environment with ParseBool.
type Bool bool

// EnvDecode implements envconfig.Decoder.
func (b *Bool) EnvDecode(val string) error {
	v, err := ParseBool(val)
	if err != nil {
		return err
	}
	*b = Bool(v)
	return nil
}
