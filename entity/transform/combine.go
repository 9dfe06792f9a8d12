package transform

import "fmt"

// CombineConfig concatenates the values of other record fields onto the
// matched field, separated by Separator. Referenced fields see their
// transformed value when their data path has already been applied, and their
// source value otherwise. Referenced fields missing from the record fail with
// a type mismatch, surfaced per field.
type CombineConfig struct {
	Labels       []string
	MinimumScore *float64
	Fields       []string
	Separator    string
}

func (c CombineConfig) Build() (Unit, error) {
	if len(c.Fields) == 0 {
		return nil, fmt.Errorf("%w: combine requires at least one source field", ErrInvalidConfig)
	}
	return &combine{
		unitBase:  newUnitBase(c.Labels, c.MinimumScore),
		fields:    c.Fields,
		separator: c.Separator,
	}, nil
}

type combine struct {
	unitBase
	fields    []string
	separator string
}

func (u *combine) Kind() Kind {
	return KindCombine
}

func (u *combine) Apply(value any, fc FieldContext) (any, bool, error) {
	out, err := valueString(value)
	if err != nil {
		return nil, false, err
	}
	for _, field := range u.fields {
		v, ok := fc.Record.Lookup(field)
		if !ok {
			return nil, false, fmt.Errorf("%w: combine source field %q not present in record", ErrTypeMismatch, field)
		}
		s, err := valueString(v)
		if err != nil {
			return nil, false, err
		}
		out += u.separator + s
	}
	return out, true, nil
}
