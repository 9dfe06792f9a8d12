package entity

import (
	"encoding/json"
	"errors"

	"github.com/xeipuuv/gojsonschema"
)

// Spec is the declarative form of a transform pipeline: an ordered list of data
// paths, each binding a field name pattern to a chain of transformer configs.
// The Namespace + PipelineIdSuffix combination must be unique (forming a
// pipeline ID). To succeed with an upgrade of an existing spec the version
// number needs to be incremented.
type Spec struct {
	// Main metadata (required)
	Namespace        string `json:"namespace"`
	PipelineIdSuffix string `json:"pipelineIdSuffix"`
	Description      string `json:"description"`
	Version          int    `json:"version"`

	// DataPaths are evaluated in declared order with first-match-wins semantics
	// per record field, so more specific patterns must be listed before general
	// ones. A trailing {"input": "*"} path with no transforms passes through all
	// otherwise unmatched fields; without it, unmatched fields are dropped.
	DataPaths []DataPathSpec `json:"dataPaths"`
}

// NewSpec creates a new Spec from JSON and validates it both against the spec
// JSON schema and the structural rules not expressible in the schema.
// Transformer parameter validation (key formats, bucket ranges, etc.) happens
// later, when the spec is built into a live pipeline.
func NewSpec(specData []byte) (*Spec, error) {
	var spec Spec
	if len(specData) == 0 {
		return nil, errors.New("no spec data provided")
	}

	if err := validateRawJson(specData); err != nil {
		return nil, err
	}

	err := json.Unmarshal(specData, &spec)
	if err == nil {
		err = spec.Validate()
	}
	return &spec, err
}

func (s *Spec) Id() string {
	return s.Namespace + "-" + s.PipelineIdSuffix
}

func (s *Spec) JSON() []byte {
	specData, _ := json.Marshal(s)
	return specData
}

// Spec JSON schema validation is handled by NewSpec() using validateRawJson()
// against the pipeline spec schema. This method adds the checks that the schema
// cannot express.
func (s *Spec) Validate() error {
	if len(s.DataPaths) == 0 {
		return errors.New("spec contains no data paths")
	}
	for _, dp := range s.DataPaths {
		if err := dp.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DataPathSpec binds a field name pattern to an ordered transformer chain.
// Input supports glob style patterns: "*" alone matches any field, a single
// trailing "*" is a prefix match and a single leading "*" is a suffix match.
// Anything else is an exact field name match.
type DataPathSpec struct {
	Input string `json:"input"`

	// Output renames the field in the transformed record. If empty, the matched
	// input field name is kept.
	Output string `json:"output,omitempty"`

	// Transforms apply strictly in list order; the output of one feeds the next.
	Transforms []TransformSpec `json:"transforms,omitempty"`
}

func (dp *DataPathSpec) Validate() error {
	if dp.Input == "" {
		return errors.New("data path with empty input pattern")
	}
	for _, t := range dp.Transforms {
		if t.Type == "" {
			return errors.New("transform with no type in data path " + dp.Input)
		}
	}
	return nil
}

// TransformSpec is the JSON form of a single transformer config. Type selects
// the transformer kind; the remaining fields are kind specific and ignored by
// other kinds.
type TransformSpec struct {
	Type string `json:"type"`

	// Labels restricts the transformer to fields carrying at least one of these
	// entity labels (entity-level transform). Empty means field-level: the
	// transformer applies unconditionally to whatever field its data path routed.
	Labels []string `json:"labels,omitempty"`

	// MinimumScore is the lowest label confidence that triggers an entity-level
	// transform. If omitted any score qualifies.
	MinimumScore *float64 `json:"minimumScore,omitempty"`

	// redactWithChar
	Char  string     `json:"char,omitempty"`
	Masks []MaskSpec `json:"masks,omitempty"`

	// redactWithString
	Text string `json:"text,omitempty"`

	// secureHash (plain secret), fpe and dateShift (hex AES key)
	Secret string `json:"secret,omitempty"`

	// fakeValue
	Seed   uint64 `json:"seed,omitempty"`
	Method string `json:"method,omitempty"`

	// bucket: either an explicit bucket list or a generated fixed-width range
	Buckets           []BucketSpec     `json:"buckets,omitempty"`
	BucketRange       *BucketRangeSpec `json:"bucketRange,omitempty"`
	LowerOutlierLabel any              `json:"lowerOutlierLabel,omitempty"`
	UpperOutlierLabel any              `json:"upperOutlierLabel,omitempty"`

	// fpe
	Radix       int    `json:"radix,omitempty"`
	EncryptMask string `json:"encryptMask,omitempty"`

	// dateShift
	LowerRangeDays int    `json:"lowerRangeDays,omitempty"`
	UpperRangeDays int    `json:"upperRangeDays,omitempty"`
	DateFormat     string `json:"dateFormat,omitempty"`
	TweakField     string `json:"tweakField,omitempty"`

	// combine
	Fields    []string `json:"fields,omitempty"`
	Separator string   `json:"separator,omitempty"`

	// format (regex substitution); conditional shares the regex field
	Regex       string `json:"regex,omitempty"`
	Replacement string `json:"replacement,omitempty"`

	// conditional
	ConditionField string         `json:"conditionField,omitempty"`
	TrueTransform  *TransformSpec `json:"trueTransform,omitempty"`
	FalseTransform *TransformSpec `json:"falseTransform,omitempty"`
}

// MaskSpec restricts a redaction to a substring of the value. StartPos/EndPos
// can be negative, counting from the end of the value. MaskAfter/MaskUntil
// locate the boundaries by character instead of position.
type MaskSpec struct {
	StartPos  *int   `json:"startPos,omitempty"`
	EndPos    *int   `json:"endPos,omitempty"`
	MaskAfter string `json:"maskAfter,omitempty"`
	MaskUntil string `json:"maskUntil,omitempty"`
	Greedy    bool   `json:"greedy,omitempty"`
}

// BucketSpec is one explicit bucket: [Min, Max) replaced by Label.
type BucketSpec struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label any     `json:"label,omitempty"`
}

// BucketRangeSpec generates fixed-width buckets covering [Low, High).
// LabelMethod selects the bucket label: "min" (default), "max" or "avg".
type BucketRangeSpec struct {
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	Width       float64 `json:"width"`
	LabelMethod string  `json:"labelMethod,omitempty"`
}

func validateRawJson(specData []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(specSchema)
	documentLoader := gojsonschema.NewBytesLoader(specData)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		specErrors := ""
		for _, desc := range result.Errors() {
			specErrors += " - " + desc.String()
		}
		err = errors.New(specErrors)
	}
	return err
}

// Initial pipeline spec schema with only the most important checks.
var specSchema = []byte(`
{
  "$schema": "http://json-schema.org/draft-07/schema",
  "type": "object",
  "required": [
    "namespace",
    "pipelineIdSuffix",
    "version",
    "description",
    "dataPaths"
  ],
  "properties": {
    "namespace": {
      "type": "string",
      "minLength": 1
    },
    "pipelineIdSuffix": {
      "type": "string",
      "minLength": 1
    },
    "description": {
      "type": "string"
    },
    "version": {
      "type": "integer",
      "minimum": 1
    },
    "dataPaths": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": [
          "input"
        ],
        "properties": {
          "input": {
            "type": "string",
            "minLength": 1
          },
          "output": {
            "type": "string"
          },
          "transforms": {
            "type": "array",
            "items": {
              "type": "object",
              "required": [
                "type"
              ],
              "properties": {
                "type": {
                  "enum": [
                    "redactWithChar",
                    "redactWithLabel",
                    "redactWithString",
                    "secureHash",
                    "fakeValue",
                    "bucket",
                    "dateShift",
                    "fpe",
                    "format",
                    "drop",
                    "combine",
                    "conditional"
                  ]
                },
                "labels": {
                  "type": "array",
                  "items": {
                    "type": "string"
                  }
                },
                "minimumScore": {
                  "type": "number",
                  "minimum": 0,
                  "maximum": 1
                }
              }
            }
          }
        }
      }
    }
  }
}`)
