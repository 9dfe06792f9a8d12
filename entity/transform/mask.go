package transform

import "fmt"

// StringMask restricts a redaction to a substring of the value.
//
// The span can be given positionally with StartPos/EndPos, where negative
// offsets count from the end of the value, or by character with
// MaskAfter/MaskUntil. Offsets outside the value clamp to its bounds.
// With MaskAfter, masking starts after the first occurrence of the character
// (after the last when Greedy); with MaskUntil it stops at the first
// occurrence (the last when Greedy).
//
// A zero StringMask covers the whole value.
type StringMask struct {
	StartPos  *int
	EndPos    *int
	MaskAfter string
	MaskUntil string
	Greedy    bool
}

func (m StringMask) validate() error {
	if m.StartPos != nil && m.MaskAfter != "" {
		return fmt.Errorf("%w: only one of startPos and maskAfter can be set", ErrInvalidConfig)
	}
	if m.EndPos != nil && m.MaskUntil != "" {
		return fmt.Errorf("%w: only one of endPos and maskUntil can be set", ErrInvalidConfig)
	}
	if len(m.MaskAfter) > 1 || len(m.MaskUntil) > 1 {
		return fmt.Errorf("%w: maskAfter/maskUntil must be a single character", ErrInvalidConfig)
	}
	return nil
}

// span resolves the mask to a [start, end) rune span over value.
func (m StringMask) span(value []rune) (int, int) {
	start, end := 0, len(value)

	if m.MaskAfter != "" {
		if i := find(value, []rune(m.MaskAfter)[0], m.Greedy); i >= 0 {
			start = i + 1
		}
	} else if m.StartPos != nil {
		start = clampOffset(*m.StartPos, len(value))
	}

	if m.MaskUntil != "" {
		if i := find(value[start:], []rune(m.MaskUntil)[0], m.Greedy); i >= 0 {
			end = start + i
		}
	} else if m.EndPos != nil {
		end = clampOffset(*m.EndPos, len(value))
	}

	if end < start {
		end = start
	}
	return start, end
}

func find(value []rune, c rune, last bool) int {
	idx := -1
	for i, r := range value {
		if r == c {
			idx = i
			if !last {
				break
			}
		}
	}
	return idx
}

func clampOffset(pos, length int) int {
	if pos < 0 {
		pos += length
	}
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}
