// Copyright 2026 Pangea Cyber Corporation
//
// Package hash provides the digest primitives used by Merkle proof
// verification: SHA-256 of byte strings and of ordered digest pairs, plus
// strict hex and base64 codecs for 32-byte digests.
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/pangeacyber/go-pangea/pkg/errors"
)

// Size is the digest length in bytes.
const Size = sha256.Size

// Bytes returns the SHA-256 digest of data.
func Bytes(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Pair returns SHA-256(left || right). Operand order is significant; both
// inputs must be Size bytes.
func Pair(left, right []byte) ([]byte, error) {
	if len(left) != Size || len(right) != Size {
		return nil, errors.Newf(errors.ErrorCodeDecodeFailed,
			"hash pair operands must be %d bytes, got %d and %d", Size, len(left), len(right))
	}
	buf := make([]byte, 0, 2*Size)
	buf = append(buf, left...)
	buf = append(buf, right...)
	return Bytes(buf), nil
}

// Equal compares two digests in constant time.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// DecodeHex decodes a hex-encoded 32-byte digest. Fails on non-hex input,
// odd length, or any length other than Size bytes.
func DecodeHex(s string) ([]byte, error) {
	if len(s) != 2*Size {
		return nil, errors.Newf(errors.ErrorCodeDecodeFailed,
			"digest must be %d hex characters, got %d", 2*Size, len(s))
	}
	d, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeDecodeFailed, "invalid hex digest")
	}
	return d, nil
}

// EncodeHex encodes a digest as a lowercase hex string.
func EncodeHex(d []byte) string {
	return hex.EncodeToString(d)
}

// Base64Encode encodes data with standard base64.
func Base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64Decode decodes standard base64 input.
func Base64Decode(s string) ([]byte, error) {
	d, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeDecodeFailed, "invalid base64 input")
	}
	return d, nil
}

// Base64URLDecode decodes URL-safe base64, tolerating missing padding.
func Base64URLDecode(s string) ([]byte, error) {
	if rem := len(s) % 4; rem > 0 {
		s += strings.Repeat("=", 4-rem)
	}
	d, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeDecodeFailed, "invalid base64url input")
	}
	return d, nil
}
