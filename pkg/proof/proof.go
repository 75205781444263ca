// Copyright 2026 Pangea Cyber Corporation
//
// Package proof implements the compact textual proof encodings returned by
// the audit service and the Merkle verification algorithms over them.
//
// A membership proof is a comma-separated sequence of <side>:<hex> items
// where side is "l" or "r". A consistency proof is a list of strings, each
// beginning with an x:<hex> pair (the consistency node) followed by a
// membership proof for that node in the new tree.
package proof

import (
	"strings"

	"github.com/pangeacyber/go-pangea/pkg/errors"
	"github.com/pangeacyber/go-pangea/pkg/hash"
)

// Side indicates which operand position a sibling hash occupies.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// MembershipProofItem is one step of a membership proof: the partner hash
// and the side it sits on.
type MembershipProofItem struct {
	Side     Side
	NodeHash []byte
}

// MembershipProof is the ordered bottom-up list of proof steps.
type MembershipProof []MembershipProofItem

// ConsistencyProofItem is one node of a consistency proof together with the
// membership proof of that node in the new tree.
type ConsistencyProofItem struct {
	NodeHash []byte
	Proof    MembershipProof
}

// ConsistencyProof is the ordered list of consistency nodes.
type ConsistencyProof []ConsistencyProofItem

// DecodeMembership parses the compact membership-proof encoding. An empty
// string decodes to an empty proof.
func DecodeMembership(data string) (MembershipProof, error) {
	if data == "" {
		return MembershipProof{}, nil
	}

	items := strings.Split(data, ",")
	p := make(MembershipProof, 0, len(items))
	for _, item := range items {
		side, digest, err := decodePair(item)
		if err != nil {
			return nil, err
		}
		switch side {
		case "l":
			p = append(p, MembershipProofItem{Side: SideLeft, NodeHash: digest})
		case "r":
			p = append(p, MembershipProofItem{Side: SideRight, NodeHash: digest})
		default:
			return nil, errors.Newf(errors.ErrorCodeDecodeFailed, "malformed proof side %q", side)
		}
	}
	return p, nil
}

// EncodeMembership is the inverse of DecodeMembership.
func EncodeMembership(p MembershipProof) string {
	items := make([]string, len(p))
	for i, step := range p {
		side := "r"
		if step.Side == SideLeft {
			side = "l"
		}
		items[i] = side + ":" + hash.EncodeHex(step.NodeHash)
	}
	return strings.Join(items, ",")
}

// DecodeConsistency parses the consistency-proof list encoding. Each entry
// splits at its first comma: the leading x:<hex> pair is the consistency
// node, the remainder is that node's membership proof in the new tree.
func DecodeConsistency(data []string) (ConsistencyProof, error) {
	p := make(ConsistencyProof, 0, len(data))
	for _, item := range data {
		ndx := strings.Index(item, ",")
		if ndx < 0 {
			return nil, errors.Newf(errors.ErrorCodeDecodeFailed, "consistency entry %q has no membership proof", item)
		}

		side, digest, err := decodePair(item[:ndx])
		if err != nil {
			return nil, err
		}
		if side != "x" {
			return nil, errors.Newf(errors.ErrorCodeDecodeFailed, "consistency entry missing x: prefix, got %q", side)
		}

		sub, err := DecodeMembership(item[ndx+1:])
		if err != nil {
			return nil, err
		}
		p = append(p, ConsistencyProofItem{NodeHash: digest, Proof: sub})
	}
	return p, nil
}

// decodePair splits a <marker>:<hex> component and decodes the digest.
func decodePair(item string) (string, []byte, error) {
	if item == "" {
		return "", nil, errors.New(errors.ErrorCodeDecodeFailed, "empty proof component")
	}
	marker, hexDigest, ok := strings.Cut(item, ":")
	if !ok {
		return "", nil, errors.Newf(errors.ErrorCodeDecodeFailed, "malformed proof component %q", item)
	}
	digest, err := hash.DecodeHex(hexDigest)
	if err != nil {
		return "", nil, err
	}
	return marker, digest, nil
}

// BufferRoot is the comma-separated root encoding returned for records that
// are still in hot storage.
type BufferRoot struct {
	TreeID       string
	ColdTreeSize int64
	TreeSize     int64
	RootHash     []byte
}

// DecodeBufferRoot parses "tree_id,cold_tree_size,tree_size,root_hex".
func DecodeBufferRoot(data string) (*BufferRoot, error) {
	parts := strings.Split(data, ",")
	if len(parts) != 4 {
		return nil, errors.Newf(errors.ErrorCodeDecodeFailed, "buffer root must have 4 fields, got %d", len(parts))
	}

	coldSize, err := parseSize(parts[1])
	if err != nil {
		return nil, err
	}
	treeSize, err := parseSize(parts[2])
	if err != nil {
		return nil, err
	}
	rootHash, err := hash.DecodeHex(parts[3])
	if err != nil {
		return nil, err
	}

	return &BufferRoot{
		TreeID:       parts[0],
		ColdTreeSize: coldSize,
		TreeSize:     treeSize,
		RootHash:     rootHash,
	}, nil
}

// EncodeBufferRoot is the inverse of DecodeBufferRoot.
func EncodeBufferRoot(r *BufferRoot) string {
	return strings.Join([]string{
		r.TreeID,
		formatSize(r.ColdTreeSize),
		formatSize(r.TreeSize),
		hash.EncodeHex(r.RootHash),
	}, ",")
}
