package transform

import (
	"fmt"

	"github.com/veildata/veil/entity"
)

// configFromSpec maps the JSON spec form of a transformer onto its config
// struct. Parameter validation stays in the Build methods.
func configFromSpec(ts entity.TransformSpec) (Config, error) {
	switch Kind(ts.Type) {
	case KindRedactWithChar:
		return RedactWithCharConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
			Char:         ts.Char,
			Masks:        masksFromSpec(ts.Masks),
		}, nil

	case KindRedactWithLabel:
		return RedactWithLabelConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
		}, nil

	case KindRedactWithString:
		return RedactWithStringConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
			Text:         ts.Text,
		}, nil

	case KindSecureHash:
		return SecureHashConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
			Secret:       ts.Secret,
		}, nil

	case KindFakeValue:
		return FakeValueConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
			Seed:         ts.Seed,
			Method:       ts.Method,
		}, nil

	case KindBucket:
		buckets := make([]Bucket, 0, len(ts.Buckets))
		for _, b := range ts.Buckets {
			buckets = append(buckets, Bucket{Min: b.Min, Max: b.Max, Label: b.Label})
		}
		if ts.BucketRange != nil {
			var err error
			buckets, err = BucketsFromRange(
				ts.BucketRange.Low, ts.BucketRange.High, ts.BucketRange.Width, ts.BucketRange.LabelMethod)
			if err != nil {
				return nil, err
			}
		}
		return BucketConfig{
			Labels:            ts.Labels,
			MinimumScore:      ts.MinimumScore,
			Buckets:           buckets,
			LowerOutlierLabel: ts.LowerOutlierLabel,
			UpperOutlierLabel: ts.UpperOutlierLabel,
		}, nil

	case KindDateShift:
		return DateShiftConfig{
			Labels:         ts.Labels,
			MinimumScore:   ts.MinimumScore,
			LowerRangeDays: ts.LowerRangeDays,
			UpperRangeDays: ts.UpperRangeDays,
			Secret:         ts.Secret,
			TweakField:     ts.TweakField,
			DateFormat:     ts.DateFormat,
		}, nil

	case KindFpe:
		return FpeConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
			Secret:       ts.Secret,
			Radix:        ts.Radix,
			EncryptMask:  ts.EncryptMask,
		}, nil

	case KindFormat:
		return FormatConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
			Regex:        ts.Regex,
			Replacement:  ts.Replacement,
		}, nil

	case KindDrop:
		return DropConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
		}, nil

	case KindCombine:
		return CombineConfig{
			Labels:       ts.Labels,
			MinimumScore: ts.MinimumScore,
			Fields:       ts.Fields,
			Separator:    ts.Separator,
		}, nil

	case KindConditional:
		cfg := ConditionalConfig{
			Labels:         ts.Labels,
			MinimumScore:   ts.MinimumScore,
			ConditionField: ts.ConditionField,
			Regex:          ts.Regex,
		}
		var err error
		if ts.TrueTransform != nil {
			if cfg.TrueTransform, err = configFromSpec(*ts.TrueTransform); err != nil {
				return nil, err
			}
		}
		if ts.FalseTransform != nil {
			if cfg.FalseTransform, err = configFromSpec(*ts.FalseTransform); err != nil {
				return nil, err
			}
		}
		return cfg, nil

	default:
		return nil, fmt.Errorf("%w: unknown transform type %q", ErrInvalidConfig, ts.Type)
	}
}

func masksFromSpec(specs []entity.MaskSpec) []StringMask {
	masks := make([]StringMask, 0, len(specs))
	for _, m := range specs {
		masks = append(masks, StringMask{
			StartPos:  m.StartPos,
			EndPos:    m.EndPos,
			MaskAfter: m.MaskAfter,
			MaskUntil: m.MaskUntil,
			Greedy:    m.Greedy,
		})
	}
	return masks
}
