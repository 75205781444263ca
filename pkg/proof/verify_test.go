// Copyright 2026 Pangea Cyber Corporation

package proof

import (
	"testing"

	"github.com/pangeacyber/go-pangea/pkg/hash"
)

func mustPair(t *testing.T, left, right []byte) []byte {
	t.Helper()
	d, err := hash.Pair(left, right)
	if err != nil {
		t.Fatalf("pair failed: %v", err)
	}
	return d
}

func TestVerifyMembership_SingleStep(t *testing.T) {
	node := hash.Bytes([]byte("x"))
	partner := hash.Bytes([]byte("y"))
	root := mustPair(t, partner, node)

	leftProof := MembershipProof{{Side: SideLeft, NodeHash: partner}}
	if !VerifyMembership(node, root, leftProof) {
		t.Error("left-side proof must verify")
	}

	rightProof := MembershipProof{{Side: SideRight, NodeHash: partner}}
	if VerifyMembership(node, root, rightProof) {
		t.Error("flipped side must not verify")
	}
}

func TestVerifyMembership_EmptyProof(t *testing.T) {
	leaf := hash.Bytes([]byte("only leaf"))
	other := hash.Bytes([]byte("other"))

	if !VerifyMembership(leaf, leaf, nil) {
		t.Error("empty proof must verify when the leaf is the root")
	}
	if VerifyMembership(leaf, other, nil) {
		t.Error("empty proof must fail when leaf differs from root")
	}
}

func TestVerifyMembership_FourLeafTree(t *testing.T) {
	leaves := make([][]byte, 4)
	for i := range leaves {
		leaves[i] = hash.Bytes([]byte{byte(i)})
	}
	n01 := mustPair(t, leaves[0], leaves[1])
	n23 := mustPair(t, leaves[2], leaves[3])
	root := mustPair(t, n01, n23)

	// Prove leaf 2: sibling leaf 3 on the right, then n01 on the left.
	p := MembershipProof{
		{Side: SideRight, NodeHash: leaves[3]},
		{Side: SideLeft, NodeHash: n01},
	}
	if !VerifyMembership(leaves[2], root, p) {
		t.Error("four-leaf membership proof must verify")
	}

	// Same proof for the wrong leaf must fail.
	if VerifyMembership(leaves[1], root, p) {
		t.Error("proof for the wrong leaf must not verify")
	}
}

func TestVerifyMembership_MalformedDigest(t *testing.T) {
	node := hash.Bytes([]byte("x"))
	p := MembershipProof{{Side: SideLeft, NodeHash: []byte{1, 2, 3}}}
	if VerifyMembership(node, node, p) {
		t.Error("truncated partner digest must not verify")
	}
}

func TestVerifyConsistency_Grow1To2(t *testing.T) {
	l0 := hash.Bytes([]byte("a"))
	l1 := hash.Bytes([]byte("b"))
	r1 := l0
	r2 := mustPair(t, l0, l1)

	p := ConsistencyProof{
		{
			NodeHash: l0,
			Proof:    MembershipProof{{Side: SideRight, NodeHash: l1}},
		},
	}

	if !VerifyConsistency(r2, r1, p) {
		t.Error("1->2 consistency proof must verify")
	}
	if VerifyConsistency(r2, l1, p) {
		t.Error("consistency against the wrong previous root must fail")
	}
}

func TestVerifyConsistency_Grow2To4(t *testing.T) {
	leaves := make([][]byte, 4)
	for i := range leaves {
		leaves[i] = hash.Bytes([]byte{byte(i)})
	}
	n01 := mustPair(t, leaves[0], leaves[1])
	n23 := mustPair(t, leaves[2], leaves[3])
	r2 := n01
	r4 := mustPair(t, n01, n23)

	p := ConsistencyProof{
		{
			NodeHash: n01,
			Proof:    MembershipProof{{Side: SideRight, NodeHash: n23}},
		},
	}

	if !VerifyConsistency(r4, r2, p) {
		t.Error("2->4 consistency proof must verify")
	}

	// Tampering with the sub-proof breaks phase 2.
	bad := ConsistencyProof{
		{
			NodeHash: n01,
			Proof:    MembershipProof{{Side: SideLeft, NodeHash: n23}},
		},
	}
	if VerifyConsistency(r4, r2, bad) {
		t.Error("tampered sub-proof must not verify")
	}
}

func TestVerifyConsistency_EmptyProof(t *testing.T) {
	root := hash.Bytes([]byte("root"))
	other := hash.Bytes([]byte("other"))

	if !VerifyConsistency(root, root, nil) {
		t.Error("empty proof must verify only for identical roots")
	}
	if VerifyConsistency(root, other, nil) {
		t.Error("empty proof with differing roots must fail")
	}
}
