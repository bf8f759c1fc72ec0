package otp

import (
	"errors"
	"fmt"
	"strings"
)

const (
	SteamIssuer = "Steam"
	SteamDigits = 5
)

// ManualEntry is a record typed in by hand rather than imported
type ManualEntry struct {
	Type      Type
	Algorithm Algorithm
	Issuer    string
	Label     string
	Secret    string
	Digits    uint8
	Period    uint8
	Counter   uint64

	// Steam overrides type, algorithm, issuer, digits and period with
	// the fixed values Steam Guard uses.
	Steam bool
}

// Record validates the entry and builds the resulting Record
func (e ManualEntry) Record() (Record, error) {
	secret := strings.TrimSpace(e.Secret)
	if secret == "" {
		return Record{}, errors.New("secret cannot be empty")
	}

	rec := Record{
		Secret:    secret,
		Label:     strings.TrimSpace(e.Label),
		Issuer:    strings.TrimSpace(e.Issuer),
		Type:      e.Type,
		Algorithm: e.Algorithm,
		Digits:    e.Digits,
		Period:    e.Period,
		Counter:   e.Counter,
	}

	if e.Steam {
		rec.Type = TOTP
		rec.Algorithm = SHA1
		rec.Issuer = SteamIssuer
		rec.Digits = SteamDigits
		rec.Period = DefaultPeriod
	}

	if rec.Label == "" && rec.Issuer == "" {
		return Record{}, errors.New("label and issuer cannot both be empty")
	}
	if rec.Digits == 0 {
		return Record{}, errors.New("digits must be at least 1")
	}

	switch rec.Type {
	case TOTP:
		rec.Counter = 0
		if rec.Period == 0 {
			rec.Period = DefaultPeriod
		}
	case HOTP:
		rec.Period = 0
	default:
		return Record{}, fmt.Errorf("invalid otp type %d", uint8(rec.Type))
	}

	if rec.Algorithm > SHA512 {
		return Record{}, fmt.Errorf("invalid algorithm %d", uint8(rec.Algorithm))
	}

	return rec, nil
}
