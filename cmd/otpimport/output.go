package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"otpimport/otp"
)

// cborEncMode uses Core Deterministic Encoding, with otp.Type and
// otp.Algorithm written as their text names.
var cborEncMode cbor.EncMode

func init() {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString

	var err error
	cborEncMode, err = encOptions.EncMode()
	if err != nil {
		panic("otpimport: CBOR encoder initialization failed: " + err.Error())
	}
}

// encodeRecords writes records to w in the named format
func encodeRecords(w io.Writer, format string, records []otp.Record) error {
	if records == nil {
		records = []otp.Record{}
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		return cborEncMode.NewEncoder(w).Encode(records)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
