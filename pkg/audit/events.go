// Copyright 2026 Pangea Cyber Corporation
//
// Event and root records exchanged with the audit service.

package audit

import (
	"github.com/pangeacyber/go-pangea/pkg/canon"
	"github.com/pangeacyber/go-pangea/pkg/errors"
	"github.com/pangeacyber/go-pangea/pkg/hash"
)

// supportedFields are the recognized plain string fields of an event.
var supportedFields = []string{
	"actor",
	"action",
	"status",
	"source",
	"target",
}

// supportedJSONFields are the recognized structured fields. They are
// canonicalized and submitted as strings. "message" is required.
var supportedJSONFields = []string{
	"message",
	"new",
	"old",
}

// VerificationStatus is the client-side verdict attached to a returned
// event after verification.
type VerificationStatus string

const (
	// StatusNone means the check was not attempted (verification disabled,
	// or not applicable, e.g. consistency at leaf index 0).
	StatusNone VerificationStatus = ""
	// StatusPass means the proof verified against a permitted root.
	StatusPass VerificationStatus = "pass"
	// StatusFail means the proof did not verify.
	StatusFail VerificationStatus = "fail"
	// StatusUnverifiable means no permitted root could be resolved for the
	// check. Reported in-band; never raised.
	StatusUnverifiable VerificationStatus = "unverifiable"
)

// RootSource records the provenance of a root. It is set by the client,
// never by the server.
type RootSource string

const (
	// SourceArweave marks a root fetched from the independent publication
	// network.
	SourceArweave RootSource = "arweave"
	// SourcePangea marks a root asserted by the audit server.
	SourcePangea RootSource = "pangea"
)

// Root is a Merkle tree head. Size is the number of leaves at publication
// time.
type Root struct {
	Size             int64      `json:"size"`
	RootHash         string     `json:"root_hash"`
	TreeName         string     `json:"tree_name"`
	ConsistencyProof []string   `json:"consistency_proof"`
	PublishedAt      string     `json:"published_at,omitempty"`
	URL              string     `json:"url,omitempty"`
	Source           RootSource `json:"source,omitempty"`
}

// Event is one returned audit record with its proof material and the
// client's verification verdicts.
type Event struct {
	Event           map[string]interface{} `json:"event"`
	Hash            string                 `json:"hash"`
	LeafIndex       int64                  `json:"leaf_index"`
	MembershipProof string                 `json:"membership_proof"`
	PublishedAt     string                 `json:"published_at,omitempty"`
	ReceivedAt      string                 `json:"received_at,omitempty"`

	MembershipVerification  VerificationStatus `json:"-"`
	ConsistencyVerification VerificationStatus `json:"-"`
}

// SearchResult is the payload of one search response page.
type SearchResult struct {
	Events []*Event `json:"events"`
	Last   string   `json:"last"`
	Root   *Root    `json:"root,omitempty"`
}

// LogResult is the payload of a log response.
type LogResult struct {
	Hash string `json:"hash"`
}

// buildRecord filters an input event down to the recognized fields,
// canonicalizing structured fields into strings. Unknown fields are
// dropped; a missing message is an error.
func buildRecord(event map[string]interface{}) (map[string]interface{}, error) {
	record := make(map[string]interface{})

	for _, name := range supportedFields {
		if v, ok := event[name]; ok {
			record[name] = v
		}
	}

	for _, name := range supportedJSONFields {
		v, ok := event[name]
		if !ok {
			continue
		}
		b, err := canon.Canonicalize(v)
		if err != nil {
			return nil, err
		}
		record[name] = string(b)
	}

	if _, ok := record["message"]; !ok {
		return nil, errors.New(errors.ErrorCodeInvalidInput, "missing required field, no `message` provided")
	}
	return record, nil
}

// recordHash computes the leaf digest of a filtered record: SHA-256 of its
// canonical serialization.
func recordHash(record map[string]interface{}) (string, error) {
	b, err := canon.Canonicalize(record)
	if err != nil {
		return "", err
	}
	return hash.EncodeHex(hash.Bytes(b)), nil
}
