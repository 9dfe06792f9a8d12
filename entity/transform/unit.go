package transform

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/veildata/veil/entity"
)

// Error values returned by the transform API. Details are added through error
// wrapping, so matching can be done with errors.Is().
var (
	ErrInvalidConfig  = errors.New("invalid transformer configuration")
	ErrTypeMismatch   = errors.New("value outside transformer input domain")
	ErrNotReversible  = errors.New("transform chain contains an irreversible transformer")
	ErrInvalidPattern = errors.New("invalid data path pattern")
)

// Kind identifies a transformer unit type.
type Kind string

const (
	KindRedactWithChar   Kind = "redactWithChar"
	KindRedactWithLabel  Kind = "redactWithLabel"
	KindRedactWithString Kind = "redactWithString"
	KindSecureHash       Kind = "secureHash"
	KindFakeValue        Kind = "fakeValue"
	KindBucket           Kind = "bucket"
	KindDateShift        Kind = "dateShift"
	KindFpe              Kind = "fpe"
	KindFormat           Kind = "format"
	KindDrop             Kind = "drop"
	KindCombine          Kind = "combine"
	KindConditional      Kind = "conditional"
)

// RecordView gives a unit read access to other fields of the record being
// processed. Lookups see transformed values for fields already processed and
// source values for the rest.
type RecordView interface {
	Lookup(field string) (any, bool)
}

// FieldContext carries the per-field information available to a unit during
// Apply and Restore.
type FieldContext struct {
	Field  string
	Meta   *entity.FieldMeta
	Record RecordView
}

// Unit is a single executable transformation operating on one field value.
// Implementations are immutable after construction and hold no mutable
// cross-call state, so one instance can be used concurrently for many records.
//
// Apply returns the transformed value and keep=true, or keep=false when the
// field should be removed from the output record.
type Unit interface {
	Kind() Kind

	// Applicable reports whether the unit applies to a field with the given
	// metadata. Field-level units (no label restriction) always apply;
	// entity-level units require a matching label meeting the minimum score.
	Applicable(meta *entity.FieldMeta) bool

	Apply(value any, fc FieldContext) (out any, keep bool, err error)
}

// ReversibleUnit is implemented by units whose Apply can be undone exactly.
type ReversibleUnit interface {
	Unit
	Restore(value any, fc FieldContext) (any, error)
}

// Config is an immutable declarative descriptor of a unit. It is consumed once
// by Build to create the executable unit; parameter validation happens there
// and never during Apply.
type Config interface {
	Build() (Unit, error)
}

// unitBase implements the entity filtering rule shared by all unit kinds:
// a unit with a non-empty label set applies to a field only if the field's
// metadata contains at least one of those labels with a confidence meeting the
// minimum score (any score if unset).
type unitBase struct {
	labels   map[string]bool
	minScore *float64
}

func newUnitBase(labels []string, minScore *float64) unitBase {
	b := unitBase{minScore: minScore}
	if len(labels) > 0 {
		b.labels = make(map[string]bool, len(labels))
		for _, l := range labels {
			b.labels[l] = true
		}
	}
	return b
}

func (b unitBase) Applicable(meta *entity.FieldMeta) bool {
	if len(b.labels) == 0 {
		return true
	}
	if meta == nil {
		return false
	}
	for _, l := range meta.Labels {
		if b.labels[l.Name] && b.scoreOk(l.Score) {
			return true
		}
	}
	return false
}

func (b unitBase) scoreOk(score float64) bool {
	return b.minScore == nil || score >= *b.minScore
}

// matchedLabel returns the first label from the metadata that triggered the
// unit, for kinds that derive behavior from the label itself.
func (b unitBase) matchedLabel(meta *entity.FieldMeta) (entity.Label, bool) {
	if meta == nil {
		return entity.Label{}, false
	}
	for _, l := range meta.Labels {
		if b.labels[l.Name] && b.scoreOk(l.Score) {
			return l, true
		}
	}
	return entity.Label{}, false
}

// valueString renders a scalar field value for units operating on text.
// Non-scalar values are outside the unit input domain.
func valueString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrTypeMismatch, value)
	}
}

// valueFloat coerces a numeric field value. Numeric strings qualify since
// records parsed from CSV-shaped sources often carry numbers as strings.
func valueFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: non-numeric string %q", ErrTypeMismatch, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrTypeMismatch, value)
	}
}

func errWithDetails(err error, details error) error {
	return fmt.Errorf("%w, details: %v", err, details)
}
