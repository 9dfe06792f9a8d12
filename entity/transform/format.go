package transform

import (
	"fmt"
	"regexp"
)

// FormatConfig rewrites the value by regex substitution: every match of Regex
// is replaced with Replacement. Useful for stripping special or unneeded
// characters before further transforms, e.g. Regex `[^\d]` with an empty
// Replacement reduces "(555) 867-5309" to "5558675309". Not restorable.
type FormatConfig struct {
	Labels       []string
	MinimumScore *float64
	Regex        string
	Replacement  string
}

func (c FormatConfig) Build() (Unit, error) {
	if c.Regex == "" {
		return nil, fmt.Errorf("%w: format requires a regex", ErrInvalidConfig)
	}
	re, err := regexp.Compile(c.Regex)
	if err != nil {
		return nil, errWithDetails(ErrInvalidConfig, err)
	}
	return &format{
		unitBase:    newUnitBase(c.Labels, c.MinimumScore),
		regex:       re,
		replacement: c.Replacement,
	}, nil
}

type format struct {
	unitBase
	regex       *regexp.Regexp
	replacement string
}

func (u *format) Kind() Kind {
	return KindFormat
}

func (u *format) Apply(value any, fc FieldContext) (any, bool, error) {
	s, err := valueString(value)
	if err != nil {
		return nil, false, err
	}
	return u.regex.ReplaceAllString(s, u.replacement), true, nil
}
