package transform

import (
	"fmt"
	"strings"
)

// DataPath binds a field name pattern to an ordered chain of transformer
// units, with an optional output rename.
//
// Pattern semantics: "*" alone matches every field, a single trailing "*" is a
// prefix match, a single leading "*" is a suffix match, both at once is a
// contains match, and anything else is an exact match. No interior wildcards.
type DataPath struct {
	Input  string
	Output string
	units  []Unit
}

// NewDataPath builds the configs into live units and validates the input
// pattern. The units apply strictly in the given order: the output of one
// feeds the next.
func NewDataPath(input, output string, configs ...Config) (DataPath, error) {
	if err := validatePattern(input); err != nil {
		return DataPath{}, err
	}
	dp := DataPath{Input: input, Output: output}
	for _, cfg := range configs {
		unit, err := cfg.Build()
		if err != nil {
			return DataPath{}, fmt.Errorf("data path %q: %w", input, err)
		}
		dp.units = append(dp.units, unit)
	}
	return dp, nil
}

func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	trimmed := strings.TrimPrefix(strings.TrimSuffix(pattern, "*"), "*")
	if strings.Contains(trimmed, "*") {
		return fmt.Errorf("%w: %q (only a single leading or trailing wildcard is supported)", ErrInvalidPattern, pattern)
	}
	return nil
}

// Matches reports whether the field name matches the path's input pattern.
func (dp *DataPath) Matches(field string) bool {
	pattern := dp.Input
	switch {
	case pattern == "*":
		return true
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") && len(pattern) > 1:
		return strings.Contains(field, pattern[1:len(pattern)-1])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(field, pattern[:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(field, pattern[1:])
	default:
		return field == pattern
	}
}

// Units returns the path's transformer chain, in application order.
func (dp *DataPath) Units() []Unit {
	return dp.units
}

// outputName resolves the output field name for a matched field.
func (dp *DataPath) outputName(field string) string {
	if dp.Output != "" {
		return dp.Output
	}
	return field
}
