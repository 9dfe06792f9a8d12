package transform

import "fmt"

// Bucket is one interval [Min, Max) replaced by Label.
type Bucket struct {
	Min   float64
	Max   float64
	Label any
}

// BucketsFromRange generates fixed-width buckets covering [low, high). The last
// bucket is truncated at high when the width does not divide the range evenly.
// labelMethod selects each bucket's label: its lower bound ("min", default),
// upper bound ("max") or midpoint ("avg").
func BucketsFromRange(low, high, width float64, labelMethod string) ([]Bucket, error) {
	if low >= high {
		return nil, fmt.Errorf("%w: bucket range low (%v) must be below high (%v)", ErrInvalidConfig, low, high)
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: bucket width must be positive, got %v", ErrInvalidConfig, width)
	}
	var buckets []Bucket
	for min := low; min < high; min += width {
		max := min + width
		if max > high {
			max = high
		}
		b := Bucket{Min: min, Max: max}
		switch labelMethod {
		case "", "min":
			b.Label = min
		case "max":
			b.Label = max
		case "avg":
			b.Label = (min + max) / 2
		default:
			return nil, fmt.Errorf("%w: unknown bucket label method %q", ErrInvalidConfig, labelMethod)
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

// BucketConfig sorts numeric values into buckets, replacing the value with the
// matched bucket's label. Values outside the covered range clamp to the nearest
// boundary bucket: below range takes LowerOutlierLabel (default: first bucket's
// label), at or above range takes UpperOutlierLabel (default: last bucket's
// label). Deterministic, not restorable.
type BucketConfig struct {
	Labels            []string
	MinimumScore      *float64
	Buckets           []Bucket
	LowerOutlierLabel any
	UpperOutlierLabel any
}

func (c BucketConfig) Build() (Unit, error) {
	if len(c.Buckets) == 0 {
		return nil, fmt.Errorf("%w: empty bucket list", ErrInvalidConfig)
	}
	for i, b := range c.Buckets {
		if b.Min >= b.Max {
			return nil, fmt.Errorf("%w: bucket %d has min (%v) >= max (%v)", ErrInvalidConfig, i, b.Min, b.Max)
		}
		if i > 0 && b.Min < c.Buckets[i-1].Max {
			return nil, fmt.Errorf("%w: buckets must be sorted and non-overlapping", ErrInvalidConfig)
		}
	}
	u := &bucket{
		unitBase:     newUnitBase(c.Labels, c.MinimumScore),
		buckets:      c.Buckets,
		lowerOutlier: c.LowerOutlierLabel,
		upperOutlier: c.UpperOutlierLabel,
	}
	if u.lowerOutlier == nil {
		u.lowerOutlier = c.Buckets[0].Label
	}
	if u.upperOutlier == nil {
		u.upperOutlier = c.Buckets[len(c.Buckets)-1].Label
	}
	return u, nil
}

type bucket struct {
	unitBase
	buckets      []Bucket
	lowerOutlier any
	upperOutlier any
}

func (u *bucket) Kind() Kind {
	return KindBucket
}

func (u *bucket) Apply(value any, fc FieldContext) (any, bool, error) {
	v, err := valueFloat(value)
	if err != nil {
		return nil, false, err
	}
	if v < u.buckets[0].Min {
		return u.lowerOutlier, true, nil
	}
	if v >= u.buckets[len(u.buckets)-1].Max {
		return u.upperOutlier, true, nil
	}
	for _, b := range u.buckets {
		if v >= b.Min && v < b.Max {
			return b.Label, true, nil
		}
	}
	// Gap between declared buckets: clamp to the nearest preceding bucket.
	for i := len(u.buckets) - 1; i >= 0; i-- {
		if v >= u.buckets[i].Min {
			return u.buckets[i].Label, true, nil
		}
	}
	return u.lowerOutlier, true, nil
}
