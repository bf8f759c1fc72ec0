// Package otp holds the one-time-password account records produced by the
// importers, independent of any backup format.
package otp

import (
	"fmt"
)

// Type is the OTP variant of a record
type Type uint8

const (
	TOTP Type = iota
	HOTP
)

// Algorithm is the HMAC hash used to compute codes
type Algorithm uint8

const (
	SHA1 Algorithm = iota
	SHA256
	SHA512
)

// DefaultPeriod is the refresh interval forced on imported TOTP records
const DefaultPeriod = 30

// Record is a single imported OTP account.
//
// Issuer is empty when the source label carried no issuer part.
type Record struct {
	Secret    string    `json:"secret" yaml:"secret" cbor:"secret"`
	Label     string    `json:"label" yaml:"label" cbor:"label"`
	Issuer    string    `json:"issuer,omitempty" yaml:"issuer,omitempty" cbor:"issuer,omitempty"`
	Type      Type      `json:"type" yaml:"type" cbor:"type"`
	Period    uint8     `json:"period" yaml:"period" cbor:"period"`
	Counter   uint64    `json:"counter" yaml:"counter" cbor:"counter"`
	Digits    uint8     `json:"digits" yaml:"digits" cbor:"digits"`
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm" cbor:"algorithm"`
}

// HasIssuer reports whether the record carries an issuer
func (r Record) HasIssuer() bool {
	return r.Issuer != ""
}

func (t Type) String() string {
	switch t {
	case TOTP:
		return "TOTP"
	case HOTP:
		return "HOTP"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType matches s against the known OTP types, ignoring ASCII case.
func ParseType(s string) (Type, error) {
	switch {
	case asciiEqualFold(s, "TOTP"):
		return TOTP, nil
	case asciiEqualFold(s, "HOTP"):
		return HOTP, nil
	}
	return 0, fmt.Errorf("unknown otp type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	if t != TOTP && t != HOTP {
		return nil, fmt.Errorf("invalid otp type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "SHA1"
	case SHA256:
		return "SHA256"
	case SHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm maps s to an Algorithm, ignoring ASCII case. Anything that
// is not SHA256 or SHA512 is SHA1.
func ParseAlgorithm(s string) Algorithm {
	switch {
	case asciiEqualFold(s, "SHA256"):
		return SHA256
	case asciiEqualFold(s, "SHA512"):
		return SHA512
	default:
		return SHA1
	}
}

func (a Algorithm) MarshalText() ([]byte, error) {
	if a > SHA512 {
		return nil, fmt.Errorf("invalid algorithm %d", uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(text []byte) error {
	*a = ParseAlgorithm(string(text))
	return nil
}

// asciiEqualFold compares without Unicode folding, so "ſha256" is not SHA256.
func asciiEqualFold(s, t string) bool {
	if len(s) != len(t) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if lower(s[i]) != lower(t[i]) {
			return false
		}
	}
	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
