package transform

import (
	"fmt"
	"regexp"
)

// ConditionalConfig dispatches between two wrapped transformer configs based on
// a regex check against the value of another record field. When the regex
// matches the TrueTransform runs, otherwise the FalseTransform; a nil branch
// passes the value through unchanged.
//
// Example: redact with "X" when the "role" field says "external", otherwise
// leave the value alone:
//
//	ConditionalConfig{
//		ConditionField: "role",
//		Regex:          "external",
//		TrueTransform:  RedactWithCharConfig{},
//	}
type ConditionalConfig struct {
	Labels         []string
	MinimumScore   *float64
	ConditionField string
	Regex          string
	TrueTransform  Config
	FalseTransform Config
}

func (c ConditionalConfig) Build() (Unit, error) {
	if c.ConditionField == "" {
		return nil, fmt.Errorf("%w: conditional requires a condition field", ErrInvalidConfig)
	}
	re, err := regexp.Compile(c.Regex)
	if err != nil {
		return nil, errWithDetails(ErrInvalidConfig, err)
	}
	if c.TrueTransform == nil && c.FalseTransform == nil {
		return nil, fmt.Errorf("%w: conditional requires at least one branch transform", ErrInvalidConfig)
	}
	u := &conditional{
		unitBase: newUnitBase(c.Labels, c.MinimumScore),
		field:    c.ConditionField,
		regex:    re,
	}
	if c.TrueTransform != nil {
		if u.trueUnit, err = c.TrueTransform.Build(); err != nil {
			return nil, err
		}
	}
	if c.FalseTransform != nil {
		if u.falseUnit, err = c.FalseTransform.Build(); err != nil {
			return nil, err
		}
	}
	return u, nil
}

type conditional struct {
	unitBase
	field     string
	regex     *regexp.Regexp
	trueUnit  Unit
	falseUnit Unit
}

func (u *conditional) Kind() Kind {
	return KindConditional
}

func (u *conditional) branch(fc FieldContext) (Unit, error) {
	v, ok := fc.Record.Lookup(u.field)
	if !ok {
		return u.falseUnit, nil
	}
	s, err := valueString(v)
	if err != nil {
		return nil, err
	}
	if u.regex.MatchString(s) {
		return u.trueUnit, nil
	}
	return u.falseUnit, nil
}

func (u *conditional) Apply(value any, fc FieldContext) (any, bool, error) {
	unit, err := u.branch(fc)
	if err != nil {
		return nil, false, err
	}
	if unit == nil || !unit.Applicable(fc.Meta) {
		return value, true, nil
	}
	return unit.Apply(value, fc)
}

// Restore re-evaluates the condition on the transformed record and inverts the
// chosen branch. Both configured branches must be reversible for the
// conditional itself to count as reversible.
func (u *conditional) Restore(value any, fc FieldContext) (any, error) {
	unit, err := u.branch(fc)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return value, nil
	}
	rev, ok := unit.(ReversibleUnit)
	if !ok {
		return nil, fmt.Errorf("%w: conditional branch %s", ErrNotReversible, unit.Kind())
	}
	return rev.Restore(value, fc)
}
