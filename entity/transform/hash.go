package transform

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SecureHashConfig replaces a value with the hex HMAC-SHA256 digest of the
// value and a caller supplied secret. The same (value, secret) pair always
// yields the same digest. One-way: not restorable.
type SecureHashConfig struct {
	Labels       []string
	MinimumScore *float64
	Secret       string
}

func (c SecureHashConfig) Build() (Unit, error) {
	if c.Secret == "" {
		return nil, fmt.Errorf("%w: secureHash requires a secret", ErrInvalidConfig)
	}
	return &secureHash{
		unitBase: newUnitBase(c.Labels, c.MinimumScore),
		secret:   []byte(c.Secret),
	}, nil
}

type secureHash struct {
	unitBase
	secret []byte
}

func (u *secureHash) Kind() Kind {
	return KindSecureHash
}

func (u *secureHash) Apply(value any, fc FieldContext) (any, bool, error) {
	s, err := valueString(value)
	if err != nil {
		return nil, false, err
	}
	mac := hmac.New(sha256.New, u.secret)
	mac.Write([]byte(s))
	return hex.EncodeToString(mac.Sum(nil)), true, nil
}
