package entity

import (
	"github.com/tidwall/gjson"
)

// Standard entity score values, useful as MinimumScore thresholds in
// transformer configs.
const (
	ScoreLow  = 0.2
	ScoreMed  = 0.5
	ScoreHigh = 0.8
	ScoreMax  = 1.0
)

// Label is a single entity classification attached to a field by the labeling
// service, e.g. {"email_address", 0.87}. Score is in the range [0.0, 1.0].
type Label struct {
	Name  string  `json:"label"`
	Score float64 `json:"score"`
}

// FieldMeta holds all entity labels discovered for one field. A field can carry
// zero, one or multiple labels (e.g. a value matching both "email_address" and
// "generic_key").
type FieldMeta struct {
	Labels []Label `json:"labels"`
}

// FirstLabel returns the first label meeting the minimum score, in labeling
// service order. A nil minScore accepts any score.
func (m *FieldMeta) FirstLabel(minScore *float64) (Label, bool) {
	if m == nil {
		return Label{}, false
	}
	for _, l := range m.Labels {
		if minScore == nil || l.Score >= *minScore {
			return l, true
		}
	}
	return Label{}, false
}

// RecordMeta maps field names to their labeling metadata.
type RecordMeta map[string]FieldMeta

// Field returns the metadata for a field, or nil if the field has none.
func (m RecordMeta) Field(name string) *FieldMeta {
	if m == nil {
		return nil
	}
	fm, ok := m[name]
	if !ok {
		return nil
	}
	return &fm
}

// NewRecordMetaFromJSON parses the field metadata part of a labeling service
// response on the form:
//
//	{"fieldName": {"ner": {"labels": [{"label": "email_address", "score": 0.8, ...}, ...]}}, ...}
//
// Unknown parts of the structure are ignored.
func NewRecordMetaFromJSON(data []byte) (RecordMeta, error) {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, ErrInvalidRecordData
	}
	meta := make(RecordMeta)
	parsed.ForEach(func(key, value gjson.Result) bool {
		var fm FieldMeta
		value.Get("ner.labels").ForEach(func(_, label gjson.Result) bool {
			fm.Labels = append(fm.Labels, Label{
				Name:  label.Get("label").String(),
				Score: label.Get("score").Float(),
			})
			return true
		})
		meta[key.String()] = fm
		return true
	})
	return meta, nil
}
