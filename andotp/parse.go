package andotp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"

	"otpimport/otp"
)

// rootSchemaJSON is the structural contract of the plaintext: an array whose
// elements are all objects. Member checks happen per entry.
const rootSchemaJSON = `{
	"type": "array",
	"items": {"type": "object"}
}`

var rootSchema *gojsonschema.Schema

func init() {
	var err error
	rootSchema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(rootSchemaJSON))
	if err != nil {
		panic("andotp: root schema failed to compile: " + err.Error())
	}
}

// asciiSpace matches what andOTP's labels are trimmed of
const asciiSpace = " \t\n\v\f\r"

// Parse turns decrypted backup JSON into records, in array order. Any
// invalid entry fails the whole batch.
func Parse(data []byte) ([]otp.Record, error) {
	// encoding/json would replace invalid bytes with U+FFFD and alter secrets.
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrMalformed)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	result, err := rootSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrShape, result.Errors()[0].Description())
	}

	entries, _ := doc.([]any)
	records := make([]otp.Record, 0, len(entries))
	for i, element := range entries {
		entry, ok := element.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrShape, i)
		}
		rec, err := parseEntry(i, entry)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeDocument decodes exactly one JSON value, keeping numbers as
// json.Number. Anything after the value is an error.
func decodeDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return doc, nil
}

func parseEntry(index int, entry map[string]any) (otp.Record, error) {
	fail := func(field string, err error) (otp.Record, error) {
		return otp.Record{}, &EntryError{Index: index, Field: field, Err: err}
	}

	var rec otp.Record
	var err error

	if rec.Secret, err = stringField(entry, "secret"); err != nil {
		return fail("secret", err)
	}

	label, err := stringField(entry, "label")
	if err != nil {
		return fail("label", err)
	}
	rec.Issuer, rec.Label = splitLabel(label)

	if rec.Period, err = uint8Field(entry, "period", false); err != nil {
		return fail("period", err)
	}
	if rec.Digits, err = uint8Field(entry, "digits", true); err != nil {
		return fail("digits", err)
	}

	typ, err := stringField(entry, "type")
	if err != nil {
		return fail("type", err)
	}
	if rec.Type, err = otp.ParseType(typ); err != nil {
		return fail("type", fmt.Errorf("%w %q", ErrUnknownType, typ))
	}
	switch rec.Type {
	case otp.TOTP:
		rec.Period = otp.DefaultPeriod
	case otp.HOTP:
		// andOTP does not export HOTP counters
		rec.Counter = 0
	}

	// Unknown, absent and non-string algorithms all fall back to SHA1.
	algo, _ := entry["algorithm"].(string)
	rec.Algorithm = otp.ParseAlgorithm(algo)

	return rec, nil
}

// splitLabel separates "Issuer - Name" into its parts. Only the first two
// hyphen-separated tokens are used, and both must be non-empty after
// trimming; otherwise the whole trimmed label is the name.
func splitLabel(raw string) (issuer, label string) {
	tokens := strings.Split(raw, "-")
	if len(tokens) >= 2 {
		issuer = strings.Trim(tokens[0], asciiSpace)
		label = strings.Trim(tokens[1], asciiSpace)
		if issuer != "" && label != "" {
			return issuer, label
		}
	}
	return "", strings.Trim(raw, asciiSpace)
}

func stringField(entry map[string]any, name string) (string, error) {
	v, ok := entry[name]
	if !ok || v == nil {
		return "", ErrMissingField
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected a string", ErrInvalidField)
	}
	return s, nil
}

// uint8Field reads an integral JSON number in [0, 255]. Values outside the
// range are rejected rather than truncated.
func uint8Field(entry map[string]any, name string, required bool) (uint8, error) {
	v, ok := entry[name]
	if !ok || v == nil {
		if required {
			return 0, ErrMissingField
		}
		return 0, nil
	}

	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: expected a number", ErrInvalidField)
	}

	n, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		// Accept integral values written as 6.0 or 3e1.
		f, ferr := num.Float64()
		if ferr != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidField, num)
		}
		if f < 0 || f > math.MaxUint8 {
			return 0, fmt.Errorf("%w: %s is out of range [0, %d]", ErrInvalidField, num, math.MaxUint8)
		}
		n = int64(f)
	}
	if n < 0 || n > math.MaxUint8 {
		return 0, fmt.Errorf("%w: %d is out of range [0, %d]", ErrInvalidField, n, math.MaxUint8)
	}
	return uint8(n), nil
}
