package transform

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/veildata/veil/entity"
)

const defaultRedactChar = "X"

// RedactWithCharConfig replaces alphanumeric characters of a value with a
// constant character, keeping punctuation and whitespace, so the shape of the
// value stays recognizable ("john.doe@acme.io" -> "XXXX.XXX@XXXX.XX").
//
// Masks optionally restrict redaction to parts of the value; without masks the
// whole value is redacted.
type RedactWithCharConfig struct {
	Labels       []string
	MinimumScore *float64
	Char         string
	Masks        []StringMask
}

func (c RedactWithCharConfig) Build() (Unit, error) {
	char := c.Char
	if char == "" {
		char = defaultRedactChar
	}
	if len([]rune(char)) != 1 {
		return nil, fmt.Errorf("%w: redaction char must be a single character, got %q", ErrInvalidConfig, c.Char)
	}
	for _, m := range c.Masks {
		if err := m.validate(); err != nil {
			return nil, err
		}
	}
	return &redactWithChar{
		unitBase: newUnitBase(c.Labels, c.MinimumScore),
		char:     []rune(char)[0],
		masks:    c.Masks,
	}, nil
}

type redactWithChar struct {
	unitBase
	char  rune
	masks []StringMask
}

func (u *redactWithChar) Kind() Kind {
	return KindRedactWithChar
}

func (u *redactWithChar) Apply(value any, fc FieldContext) (any, bool, error) {
	s, err := valueString(value)
	if err != nil {
		return nil, false, err
	}
	runes := []rune(s)
	if len(u.masks) == 0 {
		return string(redactRunes(runes, 0, len(runes), u.char)), true, nil
	}
	for _, m := range u.masks {
		start, end := m.span(runes)
		runes = redactRunes(runes, start, end, u.char)
	}
	return string(runes), true, nil
}

func redactRunes(runes []rune, start, end int, char rune) []rune {
	for i := start; i < end; i++ {
		if unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) {
			runes[i] = char
		}
	}
	return runes
}

// RedactWithStringConfig replaces the entire value with a constant replacement
// string, e.g. "john.doe@acme.io" -> "[removed]". The whole value is replaced,
// not char by char; use RedactWithCharConfig to keep the value shape.
type RedactWithStringConfig struct {
	Labels       []string
	MinimumScore *float64
	Text         string
}

func (c RedactWithStringConfig) Build() (Unit, error) {
	if c.Text == "" {
		return nil, fmt.Errorf("%w: redactWithString requires a replacement text", ErrInvalidConfig)
	}
	return &redactWithString{
		unitBase: newUnitBase(c.Labels, c.MinimumScore),
		text:     c.Text,
	}, nil
}

type redactWithString struct {
	unitBase
	text string
}

func (u *redactWithString) Kind() Kind {
	return KindRedactWithString
}

func (u *redactWithString) Apply(value any, fc FieldContext) (any, bool, error) {
	if _, err := valueString(value); err != nil {
		return nil, false, err
	}
	return u.text, true, nil
}

// RedactWithLabelConfig replaces the entire value with the uppercased name of
// the entity label attached to the field, e.g. "john.doe@acme.io" ->
// "EMAIL_ADDRESS". Best used on records labeled by the service. A field with
// no label metadata passes through unchanged.
type RedactWithLabelConfig struct {
	Labels       []string
	MinimumScore *float64
}

func (c RedactWithLabelConfig) Build() (Unit, error) {
	return &redactWithLabel{unitBase: newUnitBase(c.Labels, c.MinimumScore)}, nil
}

type redactWithLabel struct {
	unitBase
}

func (u *redactWithLabel) Kind() Kind {
	return KindRedactWithLabel
}

func (u *redactWithLabel) Apply(value any, fc FieldContext) (any, bool, error) {
	var label entity.Label
	var ok bool
	if len(u.labels) > 0 {
		label, ok = u.matchedLabel(fc.Meta)
	} else {
		label, ok = fc.Meta.FirstLabel(u.minScore)
	}
	if !ok {
		return value, true, nil
	}
	return strings.ToUpper(label.Name), true, nil
}
