// Copyright 2026 Pangea Cyber Corporation
//
// Merkle proof verification. Fail-closed: any structural defect in a proof
// (wrong digest length, unverifiable step) yields false, never a panic.

package proof

import (
	"strconv"

	"github.com/pangeacyber/go-pangea/pkg/errors"
	"github.com/pangeacyber/go-pangea/pkg/hash"
)

// VerifyMembership recomputes the root from nodeHash by folding in each
// partner hash bottom-up and compares the result against rootHash in
// constant time. An empty proof is valid only for a single-leaf tree, where
// the leaf is the root.
func VerifyMembership(nodeHash, rootHash []byte, p MembershipProof) bool {
	running := nodeHash
	ok := true
	for _, step := range p {
		var (
			next []byte
			err  error
		)
		if step.Side == SideLeft {
			next, err = hash.Pair(step.NodeHash, running)
		} else {
			next, err = hash.Pair(running, step.NodeHash)
		}
		if err != nil {
			ok = false
			continue
		}
		running = next
	}
	return ok && hash.Equal(running, rootHash)
}

// VerifyConsistency checks that the tree with root newRoot is an append-only
// extension of the tree with root prevRoot.
//
// Phase 1 reconstructs the old root from the consistency nodes; phase 2
// proves every consistency node is a subtree of the new tree. An empty
// proof is valid only when both roots are equal (nothing was appended).
func VerifyConsistency(newRoot, prevRoot []byte, p ConsistencyProof) bool {
	if len(p) == 0 {
		return hash.Equal(newRoot, prevRoot)
	}

	running := p[0].NodeHash
	for _, item := range p[1:] {
		next, err := hash.Pair(item.NodeHash, running)
		if err != nil {
			return false
		}
		running = next
	}
	if !hash.Equal(running, prevRoot) {
		return false
	}

	for _, item := range p {
		if !VerifyMembership(item.NodeHash, newRoot, item.Proof) {
			return false
		}
	}
	return true
}

func parseSize(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrorCodeDecodeFailed, "invalid tree size %q", s)
	}
	if n < 0 {
		return 0, errors.Newf(errors.ErrorCodeDecodeFailed, "negative tree size %d", n)
	}
	return n, nil
}

func formatSize(n int64) string {
	return strconv.FormatInt(n, 10)
}
