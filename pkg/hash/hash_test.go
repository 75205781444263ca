// Copyright 2026 Pangea Cyber Corporation

package hash

import (
	"bytes"
	"crypto/sha256"
	"strings"
	"testing"
)

func TestPair_OperandOrder(t *testing.T) {
	a := Bytes([]byte("a"))
	b := Bytes([]byte("b"))

	ab, err := Pair(a, b)
	if err != nil {
		t.Fatalf("pair failed: %v", err)
	}
	ba, err := Pair(b, a)
	if err != nil {
		t.Fatalf("pair failed: %v", err)
	}

	if bytes.Equal(ab, ba) {
		t.Error("pair must be order-sensitive")
	}

	// Expected digest = sha256(a || b)
	concat := append(append([]byte{}, a...), b...)
	want := sha256.Sum256(concat)
	if !bytes.Equal(ab, want[:]) {
		t.Errorf("pair mismatch: got %x, want %x", ab, want)
	}
}

func TestPair_RejectsWrongLength(t *testing.T) {
	good := Bytes([]byte("x"))
	if _, err := Pair(good[:31], good); err == nil {
		t.Error("expected error for short left operand")
	}
	if _, err := Pair(good, append(good, 0)); err == nil {
		t.Error("expected error for long right operand")
	}
}

func TestHexRoundTrip(t *testing.T) {
	d := Bytes([]byte("round trip"))

	enc := EncodeHex(d)
	if enc != strings.ToLower(enc) {
		t.Errorf("hex output must be lowercase: %s", enc)
	}
	if len(enc) != 2*Size {
		t.Errorf("hex length mismatch: got %d, want %d", len(enc), 2*Size)
	}

	dec, err := DecodeHex(enc)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(dec, d) {
		t.Errorf("round trip mismatch: got %x, want %x", dec, d)
	}
}

func TestDecodeHex_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"odd length", strings.Repeat("a", 63)},
		{"too short", "abcd"},
		{"too long", strings.Repeat("a", 66)},
		{"not hex", strings.Repeat("z", 64)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeHex(tc.input); err == nil {
				t.Errorf("expected error for %q", tc.input)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := Bytes([]byte("same"))
	b := Bytes([]byte("same"))
	c := Bytes([]byte("different"))

	if !Equal(a, b) {
		t.Error("equal digests compared unequal")
	}
	if Equal(a, c) {
		t.Error("different digests compared equal")
	}
	if Equal(a, a[:31]) {
		t.Error("length mismatch compared equal")
	}
}

func TestBase64URLDecode_Padding(t *testing.T) {
	// "any carnal pleasu" base64url-encodes to "YW55IGNhcm5hbCBwbGVhc3U"
	// (unpadded).
	got, err := Base64URLDecode("YW55IGNhcm5hbCBwbGVhc3U")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(got) != "any carnal pleasu" {
		t.Errorf("decode mismatch: got %q", got)
	}

	if _, err := Base64URLDecode("!!!"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestBase64RoundTrip(t *testing.T) {
	data := []byte{0x00, 0xff, 0x10, 0x80}
	dec, err := Base64Decode(Base64Encode(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Errorf("round trip mismatch: got %x, want %x", dec, data)
	}
}
