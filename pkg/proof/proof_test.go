// Copyright 2026 Pangea Cyber Corporation

package proof

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pangeacyber/go-pangea/pkg/hash"
)

func TestDecodeMembership(t *testing.T) {
	left := hash.Bytes([]byte("left sibling"))
	right := hash.Bytes([]byte("right sibling"))
	encoded := "l:" + hash.EncodeHex(left) + ",r:" + hash.EncodeHex(right)

	got, err := DecodeMembership(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	want := MembershipProof{
		{Side: SideLeft, NodeHash: left},
		{Side: SideRight, NodeHash: right},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("proof mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMembership_Empty(t *testing.T) {
	got, err := DecodeMembership("")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty input must decode to an empty proof, got %d items", len(got))
	}
}

func TestMembershipRoundTrip(t *testing.T) {
	encoded := "r:" + hash.EncodeHex(hash.Bytes([]byte("n1"))) +
		",l:" + hash.EncodeHex(hash.Bytes([]byte("n2"))) +
		",l:" + hash.EncodeHex(hash.Bytes([]byte("n3")))

	decoded, err := DecodeMembership(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := EncodeMembership(decoded); got != encoded {
		t.Errorf("round trip mismatch:\ngot  %s\nwant %s", got, encoded)
	}
}

func TestDecodeMembership_Errors(t *testing.T) {
	digest := hash.EncodeHex(hash.Bytes([]byte("d")))

	cases := []struct {
		name  string
		input string
	}{
		{"bad side", "q:" + digest},
		{"no marker", digest},
		{"empty component", "l:" + digest + ",," + "r:" + digest},
		{"short digest", "l:abcd"},
		{"odd digest", "l:" + digest[:63]},
		{"non-hex digest", "l:" + strings.Repeat("z", 64)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeMembership(tc.input); err == nil {
				t.Errorf("expected error for %q", tc.input)
			}
		})
	}
}

func TestDecodeConsistency(t *testing.T) {
	node := hash.Bytes([]byte("consistency node"))
	sibling := hash.Bytes([]byte("sibling"))
	entry := "x:" + hash.EncodeHex(node) + ",r:" + hash.EncodeHex(sibling)

	got, err := DecodeConsistency([]string{entry})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	want := ConsistencyProof{
		{
			NodeHash: node,
			Proof:    MembershipProof{{Side: SideRight, NodeHash: sibling}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("proof mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeConsistency_Errors(t *testing.T) {
	digest := hash.EncodeHex(hash.Bytes([]byte("d")))

	cases := []struct {
		name  string
		input []string
	}{
		{"missing x prefix", []string{"l:" + digest + ",r:" + digest}},
		{"no membership part", []string{"x:" + digest}},
		{"bad node digest", []string{"x:beef,r:" + digest}},
		{"bad membership", []string{"x:" + digest + ",q:" + digest}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeConsistency(tc.input); err == nil {
				t.Errorf("expected error for %v", tc.input)
			}
		})
	}
}

func TestBufferRootRoundTrip(t *testing.T) {
	root := &BufferRoot{
		TreeID:       "tree-77",
		ColdTreeSize: 100,
		TreeSize:     142,
		RootHash:     hash.Bytes([]byte("buffer root")),
	}

	decoded, err := DecodeBufferRoot(EncodeBufferRoot(root))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if diff := cmp.Diff(root, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBufferRoot_Errors(t *testing.T) {
	digest := hash.EncodeHex(hash.Bytes([]byte("d")))

	cases := []struct {
		name  string
		input string
	}{
		{"too few fields", "tree,1," + digest},
		{"bad cold size", "tree,x,2," + digest},
		{"negative size", "tree,1,-2," + digest},
		{"bad hash", "tree,1,2,beef"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeBufferRoot(tc.input); err == nil {
				t.Errorf("expected error for %q", tc.input)
			}
		})
	}
}
