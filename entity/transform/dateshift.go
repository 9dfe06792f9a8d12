package transform

import (
	"fmt"
	"time"

	"github.com/zeebo/xxh3"
)

const defaultDateFormat = "2006-01-02"

// dateParseFormats are tried in order when the configured format does not
// match the incoming value.
var dateParseFormats = []string{
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// DateShiftConfig shifts a date by a deterministic number of days derived from
// the secret, bounded by [LowerRangeDays, UpperRangeDays). The offset does not
// depend on the date value itself, so ordering and relative deltas between
// records sharing the same secret (and tweak) are preserved, and the shift is
// exactly restorable from the configuration alone.
//
// TweakField optionally names another record field whose value feeds the
// offset derivation, giving each entity (e.g. each user ID) its own consistent
// shift.
type DateShiftConfig struct {
	Labels         []string
	MinimumScore   *float64
	LowerRangeDays int
	UpperRangeDays int
	Secret         string
	TweakField     string

	// DateFormat is the Go reference layout for input and output values.
	// Defaults to "2006-01-02". Input values that do not match are retried
	// against a few common layouts; output always uses DateFormat.
	DateFormat string
}

func (c DateShiftConfig) Build() (Unit, error) {
	if c.UpperRangeDays-c.LowerRangeDays < 1 {
		return nil, fmt.Errorf("%w: date shift range [%d, %d) is empty",
			ErrInvalidConfig, c.LowerRangeDays, c.UpperRangeDays)
	}
	if c.Secret == "" {
		return nil, fmt.Errorf("%w: dateShift requires a secret", ErrInvalidConfig)
	}
	format := c.DateFormat
	if format == "" {
		format = defaultDateFormat
	}
	return &dateShift{
		unitBase:   newUnitBase(c.Labels, c.MinimumScore),
		lower:      c.LowerRangeDays,
		rangeDays:  c.UpperRangeDays - c.LowerRangeDays,
		seed:       xxh3.HashString(c.Secret),
		tweakField: c.TweakField,
		format:     format,
	}, nil
}

type dateShift struct {
	unitBase
	lower      int
	rangeDays  int
	seed       uint64
	tweakField string
	format     string
}

func (u *dateShift) Kind() Kind {
	return KindDateShift
}

// offsetDays derives the shift from the secret and the optional tweak field of
// the current record, never from the date value itself.
func (u *dateShift) offsetDays(fc FieldContext) (int, error) {
	var tweak string
	if u.tweakField != "" {
		v, ok := fc.Record.Lookup(u.tweakField)
		if !ok {
			return 0, fmt.Errorf("%w: tweak field %q not present in record", ErrTypeMismatch, u.tweakField)
		}
		s, err := valueString(v)
		if err != nil {
			return 0, err
		}
		tweak = s
	}
	h := xxh3.HashStringSeed(tweak, u.seed)
	return int(h%uint64(u.rangeDays)) + u.lower, nil
}

func (u *dateShift) parse(value any) (time.Time, error) {
	s, err := valueString(value)
	if err != nil {
		return time.Time{}, err
	}
	if t, err := time.Parse(u.format, s); err == nil {
		return t, nil
	}
	for _, format := range dateParseFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrTypeMismatch, s)
}

func (u *dateShift) Apply(value any, fc FieldContext) (any, bool, error) {
	t, err := u.parse(value)
	if err != nil {
		return nil, false, err
	}
	days, err := u.offsetDays(fc)
	if err != nil {
		return nil, false, err
	}
	return t.AddDate(0, 0, days).Format(u.format), true, nil
}

func (u *dateShift) Restore(value any, fc FieldContext) (any, error) {
	t, err := u.parse(value)
	if err != nil {
		return nil, err
	}
	days, err := u.offsetDays(fc)
	if err != nil {
		return nil, err
	}
	return t.AddDate(0, 0, -days).Format(u.format), nil
}
