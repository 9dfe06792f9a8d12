package transform

import (
	"encoding/hex"
	"fmt"

	"github.com/capitalone/fpe/ff1"
)

// encryptMaskChar marks a position to encrypt in FpeConfig.EncryptMask.
const encryptMaskChar = '0'

// FpeConfig applies NIST FF1 format-preserving encryption to a value: the
// output has the same length and character class as the input and, given the
// same key, Restore is the exact inverse of Apply.
//
// Radix (2-36) declares the character domain: 0-9 for the first ten digit
// values, then lowercase a-z. Characters outside the domain (punctuation,
// uppercase, etc.) pass through untouched and keep their positions. Values
// whose in-domain part is too short to encrypt (fewer characters than FF1's
// minimum for the radix) are returned unchanged.
//
// EncryptMask optionally limits encryption to positions marked '0', aligned to
// the start of the value; e.g. mask "0011" on "1234" encrypts only "12".
// Positions beyond the mask are encrypted.
type FpeConfig struct {
	Labels       []string
	MinimumScore *float64

	// Secret is the AES key as 32, 48 or 64 hex characters (AES-128/192/256).
	Secret string
	Radix  int

	EncryptMask string
}

func (c FpeConfig) Build() (Unit, error) {
	key, err := hex.DecodeString(c.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: fpe secret is not valid hex", ErrInvalidConfig)
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: fpe secret must be 32, 48 or 64 hex chars, got %d", ErrInvalidConfig, len(c.Secret))
	}
	if c.Radix < 2 || c.Radix > 36 {
		return nil, fmt.Errorf("%w: fpe radix must be in [2, 36], got %d", ErrInvalidConfig, c.Radix)
	}
	// Surface key/radix problems now rather than at apply time.
	if _, err = ff1.NewCipher(c.Radix, 0, key, nil); err != nil {
		return nil, errWithDetails(ErrInvalidConfig, err)
	}
	return &fpe{
		unitBase: newUnitBase(c.Labels, c.MinimumScore),
		key:      key,
		radix:    c.Radix,
		mask:     c.EncryptMask,
		minLen:   fpeMinLen(c.Radix),
	}, nil
}

// fpeMinLen returns the minimum numeral string length FF1 accepts for a radix
// (radix^len >= 100, and at least 2).
func fpeMinLen(radix int) int {
	length, domain := 0, 1
	for domain < 100 {
		domain *= radix
		length++
	}
	if length < 2 {
		length = 2
	}
	return length
}

type fpe struct {
	unitBase
	key    []byte
	radix  int
	mask   string
	minLen int
}

func (u *fpe) Kind() Kind {
	return KindFpe
}

func (u *fpe) Apply(value any, fc FieldContext) (any, bool, error) {
	out, err := u.crypt(value, true)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (u *fpe) Restore(value any, fc FieldContext) (any, error) {
	return u.crypt(value, false)
}

func (u *fpe) crypt(value any, encrypt bool) (any, error) {
	s, err := valueString(value)
	if err != nil {
		return nil, err
	}

	clean, positions := u.split(s)
	if len(clean) < u.minLen {
		return s, nil
	}

	// A fresh cipher per call keeps the unit free of mutable state.
	cipher, err := ff1.NewCipher(u.radix, 0, u.key, nil)
	if err != nil {
		return nil, err
	}
	var crypted string
	if encrypt {
		crypted, err = cipher.Encrypt(string(clean))
	} else {
		crypted, err = cipher.Decrypt(string(clean))
	}
	if err != nil {
		return nil, err
	}

	runes := []rune(s)
	cryptedRunes := []rune(crypted)
	for i, pos := range positions {
		runes[pos] = cryptedRunes[i]
	}
	return string(runes), nil
}

// split extracts the in-domain, unmasked characters of the value together with
// their positions. Everything else stays in place.
func (u *fpe) split(s string) ([]rune, []int) {
	var clean []rune
	var positions []int
	for i, r := range []rune(s) {
		if i < len(u.mask) && u.mask[i] != encryptMaskChar {
			continue
		}
		if digitValue(r) < 0 || digitValue(r) >= u.radix {
			continue
		}
		clean = append(clean, r)
		positions = append(positions, i)
	}
	return clean, positions
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	default:
		return -1
	}
}
