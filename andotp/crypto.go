package andotp

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	"github.com/tink-crypto/tink-go/v2/tink"

	"otpimport/secret"
)

const (
	IVSize  = 12
	TagSize = 16
	KeyLen  = 32 // 256 bits for AES-256

	// MinBackupSize is the size of a backup with an empty payload
	MinBackupSize = IVSize + TagSize
)

// Tink keyset JSON format for a single RAW AES-GCM key. RAW keys carry no
// output prefix, so the ciphertext layout is IV || ciphertext || tag.
const keysetTemplate = `{
	"primaryKeyId": 1,
	"key": [{
		"keyData": {
			"typeUrl": "type.googleapis.com/google.crypto.tink.AesGcmKey",
			"keyMaterialType": "SYMMETRIC",
			"value": "%s"
		},
		"outputPrefixType": "RAW",
		"keyId": 1,
		"status": "ENABLED"
	}]
}`

// deriveKey hashes the passphrase into an AES-256 key. andOTP backups use a
// single unsalted SHA-256 pass, which must be reproduced exactly.
func deriveKey(passphrase []byte) []byte {
	sum := sha256.Sum256(passphrase)
	key := make([]byte, KeyLen)
	copy(key, sum[:])
	secret.Zero(sum[:])
	return key
}

// newAEAD builds an AES-256-GCM primitive around a raw key
func newAEAD(key []byte) (tink.AEAD, error) {
	handle, err := createKeysetFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyset: %w", err)
	}
	primitive, err := aead.New(handle)
	if err != nil {
		return nil, fmt.Errorf("failed to create AEAD: %w", err)
	}
	return primitive, nil
}

// createKeysetFromKey creates a Tink keyset handle from a raw key
func createKeysetFromKey(key []byte) (*keyset.Handle, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("invalid key length %d", len(key))
	}

	keyValue := buildAesGcmKeyValue(key)
	defer secret.Zero(keyValue)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(keyValue)))
	base64.StdEncoding.Encode(encoded, keyValue)
	defer secret.Zero(encoded)

	keysetJSON := fmt.Appendf(nil, keysetTemplate, encoded)
	defer secret.Zero(keysetJSON)

	return insecurecleartextkeyset.Read(
		keyset.NewJSONReader(bytes.NewReader(keysetJSON)),
	)
}

// buildAesGcmKeyValue builds the protobuf-encoded key value
func buildAesGcmKeyValue(key []byte) []byte {
	// See: https://github.com/tink-crypto/tink/blob/master/proto/aes_gcm.proto
	result := make([]byte, 0, 4+len(key))
	result = append(result, 0x08)                              // field 1 (version), varint
	result = append(result, 0x00)                              // version = 0
	result = append(result, 0x1a)                              // field 3 (key_value), length-delimited
	result = append(result, encodeVarint(uint32(len(key)))...) // key length
	result = append(result, key...)                            // key
	return result
}

func encodeVarint(v uint32) []byte {
	var buf []byte
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	buf = append(buf, byte(v))
	return buf
}
